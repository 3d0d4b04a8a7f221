// Package service hosts wheel sessions and runner games for the transports.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xtding233/arcade-backend/internal/coins"
	"github.com/xtding233/arcade-backend/internal/game"
	"github.com/xtding233/arcade-backend/internal/outcome"
	"github.com/xtding233/arcade-backend/internal/runner"
	"github.com/xtding233/arcade-backend/internal/store"
	"github.com/xtding233/arcade-backend/internal/wheel"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrUnknownGame  = game.ErrUnknownGame
	ErrInvalidInput = errors.New("invalid input")

	ErrBusy              = wheel.ErrBusy
	ErrInsufficientFunds = wheel.ErrInsufficientFunds
	ErrGameOver          = runner.ErrGameOver
	ErrUnknownPack       = coins.ErrUnknownPack
)

// Option configures a Service.
type Option func(*Service)

// WithStore persists spins and finished runs.
func WithStore(db store.DB) Option { return func(s *Service) { s.store = db } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithRNG supplies the random source for each new session.
func WithRNG(f func() outcome.RandomSource) Option { return func(s *Service) { s.newRNG = f } }

// WithTTL evicts sessions idle for longer than ttl; 0 keeps them forever.
func WithTTL(ttl time.Duration) Option { return func(s *Service) { s.ttl = ttl } }

// Service is safe for concurrent use. The registry lock guards the maps;
// each entry has its own lock so one session is never stepped twice at once.
type Service struct {
	games  game.Resolver
	store  store.DB
	log    *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
	newRNG func() outcome.RandomSource
	ttl    time.Duration

	mu     sync.RWMutex
	wheels map[string]*wheelEntry
	runs   map[string]*runEntry
}

func New(games game.Resolver, opts ...Option) *Service {
	s := &Service{
		games:  games,
		log:    zap.NewNop(),
		tracer: otel.Tracer("github.com/xtding233/arcade-backend/internal/service"),
		now:    time.Now,
		newRNG: outcome.DefaultRNG,
		wheels: make(map[string]*wheelEntry),
		runs:   make(map[string]*runEntry),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With(zap.String("component", "service"))
	return s
}

// Games lists the playable catalog.
func (s *Service) Games(ctx context.Context) ([]game.Info, error) {
	_, span := s.tracer.Start(ctx, "Games")
	defer span.End()
	return s.games.Games()
}

// Janitor evicts idle sessions until ctx is cancelled.
func (s *Service) Janitor(ctx context.Context, every time.Duration) {
	if s.ttl <= 0 || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				s.log.Info("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

// Sweep removes sessions idle longer than the TTL and returns how many.
func (s *Service) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.wheels {
		if e.idleSince().Before(cutoff) {
			delete(s.wheels, id)
			n++
		}
	}
	for id, e := range s.runs {
		if e.idleSince().Before(cutoff) {
			delete(s.runs, id)
			n++
		}
	}
	return n
}

func (s *Service) fail(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
