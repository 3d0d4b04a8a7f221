package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xtding233/arcade-backend/internal/coins"
	"github.com/xtding233/arcade-backend/internal/frame"
	"github.com/xtding233/arcade-backend/internal/outcome"
	"github.com/xtding233/arcade-backend/internal/store"
	"github.com/xtding233/arcade-backend/internal/wheel"
)

// maxSpinFrames bounds the server-side simulation of one spin.
const maxSpinFrames = 1 << 20

// maxPlanSpins caps how far ahead PlanTopUp prices.
const maxPlanSpins = 1000

type wheelEntry struct {
	mu       sync.Mutex
	id       string
	game     string
	sess     *wheel.Session
	fair     *fairSeeds
	lastUsed time.Time
}

func (e *wheelEntry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

type fairSeeds struct {
	server string
	client string
}

// WheelView is the public state of a wheel session.
type WheelView struct {
	ID             string              `json:"id"`
	Game           string              `json:"game"`
	Sectors        []wheel.Prize       `json:"sectors"`
	SpinCost       decimal.Decimal     `json:"spin_cost"`
	Angle          float64             `json:"angle"`
	Stats          wheel.Stats         `json:"stats"`
	Achievements   []wheel.Achievement `json:"achievements,omitempty"`
	Packs          []coins.Pack        `json:"packs,omitempty"`
	ClientSeed     string              `json:"client_seed,omitempty"`
	ServerSeedHash string              `json:"server_seed_hash,omitempty"`
	ServerSeed     string              `json:"server_seed,omitempty"` // revealed on close only
}

// SpinResult is one complete spin, from start to payout.
type SpinResult struct {
	SessionID  string          `json:"session_id"`
	Sector     int             `json:"sector"`
	Prize      wheel.Prize     `json:"prize"`
	Cost       decimal.Decimal `json:"cost"`
	Winnings   decimal.Decimal `json:"winnings"`
	Velocity   float64         `json:"velocity"`
	FinalAngle float64         `json:"final_angle"`
	Frames     int             `json:"frames"`
	DurationMs int64           `json:"duration_ms"`
	Events     []wheel.Event   `json:"events"`
	Stats      wheel.Stats     `json:"stats"`
}

// CreateWheel opens a session on a wheel game. A non-empty clientSeed
// switches the session to a provably fair HMAC source; the server seed
// is committed by hash now and revealed by CloseWheel.
func (s *Service) CreateWheel(ctx context.Context, gameName, clientSeed string) (WheelView, error) {
	ctx, span := s.tracer.Start(ctx, "CreateWheel")
	defer span.End()
	span.SetAttributes(attribute.String("arcade.game", gameName))

	cfg, err := s.games.Wheel(gameName)
	if err != nil {
		return WheelView{}, s.fail(span, err)
	}

	e := &wheelEntry{id: uuid.NewString(), game: gameName, lastUsed: s.now()}
	rng := s.newRNG()
	if clientSeed != "" {
		e.fair = &fairSeeds{server: uuid.NewString(), client: clientSeed}
		rng = outcome.NewFairRNG(e.fair.server, clientSeed, 0)
	}
	e.sess = wheel.NewSession(cfg, rng)

	s.mu.Lock()
	s.wheels[e.id] = e
	s.mu.Unlock()

	s.log.Info("wheel session created", zap.String("session", e.id), zap.String("game", gameName), zap.Bool("fair", e.fair != nil))
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(false), nil
}

func (s *Service) wheelEntry(id string) (*wheelEntry, error) {
	s.mu.RLock()
	e, ok := s.wheels[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: wheel %s", ErrNotFound, id)
	}
	return e, nil
}

// WheelStatus returns the session without changing it.
func (s *Service) WheelStatus(ctx context.Context, id string) (WheelView, error) {
	_, span := s.tracer.Start(ctx, "WheelStatus")
	defer span.End()
	e, err := s.wheelEntry(id)
	if err != nil {
		return WheelView{}, s.fail(span, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(false), nil
}

// Spin runs one spin to completion at the reference frame rate and pays it out.
func (s *Service) Spin(ctx context.Context, id string) (SpinResult, error) {
	ctx, span := s.tracer.Start(ctx, "Spin")
	defer span.End()

	e, err := s.wheelEntry(id)
	if err != nil {
		return SpinResult{}, s.fail(span, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	span.SetAttributes(attribute.String("arcade.game", e.game), attribute.String("arcade.session", id))

	now := s.now()
	e.lastUsed = now
	start, err := e.sess.Spin(now)
	if err != nil {
		if !errors.Is(err, ErrInsufficientFunds) && !errors.Is(err, ErrBusy) {
			s.log.Warn("spin rejected", zap.String("session", id), zap.Error(err))
		}
		return SpinResult{}, s.fail(span, err)
	}

	res := SpinResult{
		SessionID: id,
		Sector:    start.Target,
		Prize:     start.Prize,
		Cost:      start.Cost,
		Velocity:  start.Velocity,
		Events:    start.Events,
	}
	t := now
	paid := false
	for res.Frames < maxSpinFrames && !paid {
		t = t.Add(frame.Reference)
		res.Frames++
		for _, ev := range e.sess.Advance(t) {
			res.Events = append(res.Events, ev)
			if ev.Kind == wheel.EventResult {
				paid = true
				res.Winnings = ev.Winnings
			}
		}
	}
	if !paid {
		return SpinResult{}, s.fail(span, fmt.Errorf("spin %s did not settle after %d frames", id, res.Frames))
	}
	res.FinalAngle = e.sess.Wheel().Angle
	res.DurationMs = t.Sub(now).Milliseconds()
	res.Stats = e.sess.Stats()

	span.SetAttributes(attribute.String("arcade.prize", res.Prize.Name), attribute.Int("arcade.frames", res.Frames))
	s.log.Debug("spin",
		zap.String("session", id),
		zap.String("prize", res.Prize.Name),
		zap.String("winnings", res.Winnings.String()),
		zap.Int("frames", res.Frames),
	)

	if s.store != nil {
		rec := &store.Spin{
			SessionID:  id,
			Game:       e.game,
			Sector:     res.Sector,
			Prize:      res.Prize.Name,
			Cost:       res.Cost,
			Winnings:   res.Winnings,
			Balance:    res.Stats.Balance,
			Multiplier: res.Stats.Multiplier,
			Level:      res.Stats.Level,
			CreatedAt:  now.UTC(),
		}
		if err := s.store.SaveSpin(ctx, rec); err != nil {
			// history is best effort; the spin itself already happened
			s.log.Error("save spin", zap.String("session", id), zap.Error(err))
		}
	}
	return res, nil
}

// TopUpResult is a completed pack purchase.
type TopUpResult struct {
	Purchase coins.Purchase `json:"purchase"`
	Stats    wheel.Stats    `json:"stats"`
}

// TopUp buys one coin pack for a session.
func (s *Service) TopUp(ctx context.Context, id, packID string) (TopUpResult, error) {
	_, span := s.tracer.Start(ctx, "TopUp")
	defer span.End()
	span.SetAttributes(attribute.String("arcade.pack", packID))

	e, err := s.wheelEntry(id)
	if err != nil {
		return TopUpResult{}, s.fail(span, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = s.now()

	p, err := e.sess.TopUp(packID)
	if err != nil {
		return TopUpResult{}, s.fail(span, err)
	}
	s.log.Info("top-up",
		zap.String("session", id),
		zap.String("pack", p.PackID),
		zap.Int64("coins", p.UnitCoins),
		zap.Int64("price_cents", p.PriceCents),
	)
	return TopUpResult{Purchase: p, Stats: e.sess.Stats()}, nil
}

// PlanTopUp prices the cheapest packs that fund the given number of spins.
func (s *Service) PlanTopUp(ctx context.Context, id string, spins int) (coins.Plan, error) {
	_, span := s.tracer.Start(ctx, "PlanTopUp")
	defer span.End()
	if spins <= 0 || spins > maxPlanSpins {
		return coins.Plan{}, s.fail(span, fmt.Errorf("%w: spins must be in 1..%d", ErrInvalidInput, maxPlanSpins))
	}
	e, err := s.wheelEntry(id)
	if err != nil {
		return coins.Plan{}, s.fail(span, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.PlanTopUp(spins), nil
}

// History lists persisted spins of a session, newest first.
func (s *Service) History(ctx context.Context, id string, limit int) ([]store.Spin, error) {
	ctx, span := s.tracer.Start(ctx, "History")
	defer span.End()
	if _, err := s.wheelEntry(id); err != nil {
		return nil, s.fail(span, err)
	}
	if s.store == nil {
		return []store.Spin{}, nil
	}
	spins, err := s.store.ListSpins(ctx, id, limit)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return spins, nil
}

// CloseWheel ends a session and reveals the server seed of fair sessions.
func (s *Service) CloseWheel(ctx context.Context, id string) (WheelView, error) {
	_, span := s.tracer.Start(ctx, "CloseWheel")
	defer span.End()

	s.mu.Lock()
	e, ok := s.wheels[id]
	delete(s.wheels, id)
	s.mu.Unlock()
	if !ok {
		return WheelView{}, s.fail(span, fmt.Errorf("%w: wheel %s", ErrNotFound, id))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s.log.Info("wheel session closed", zap.String("session", id))
	return e.view(true), nil
}

func (e *wheelEntry) view(reveal bool) WheelView {
	cfg := e.sess.Config()
	v := WheelView{
		ID:       e.id,
		Game:     e.game,
		Sectors:  make([]wheel.Prize, len(cfg.Prizes)),
		SpinCost: e.sess.SpinCost(),
		Angle:    e.sess.Wheel().Angle,
		Stats:    e.sess.Stats(),
	}
	for i, o := range cfg.Prizes {
		v.Sectors[i] = o.Payload
	}
	v.Packs = cfg.Packs
	if cfg.Progression.Enabled {
		v.Achievements = wheel.Achievements()
	}
	if e.fair != nil {
		v.ClientSeed = e.fair.client
		v.ServerSeedHash = hashSeed(e.fair.server)
		if reveal {
			v.ServerSeed = e.fair.server
		}
	}
	return v
}

func hashSeed(seed string) string {
	h := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(h[:])
}
