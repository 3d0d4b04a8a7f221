package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xtding233/arcade-backend/internal/runner"
	"github.com/xtding233/arcade-backend/internal/store"
)

// maxTickFrames caps fixed-step ticks per request.
const maxTickFrames = 600

type runEntry struct {
	mu       sync.Mutex
	id       string
	game     string
	player   string
	run      *runner.Run
	saved    bool // finished run already persisted
	lastUsed time.Time
}

func (e *runEntry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

// RunView is the public state of a runner game.
type RunView struct {
	ID     string          `json:"id"`
	Player string          `json:"player,omitempty"`
	State  runner.Snapshot `json:"state"`
}

// TickRequest advances a run. With NowMs set the run follows the client's
// wall clock; otherwise it steps Frames reference frames (at least one).
type TickRequest struct {
	NowMs  int64        `json:"now_ms,omitempty"`
	Frames int          `json:"frames,omitempty"`
	Input  runner.Input `json:"input,omitempty"`
}

// TickView is the outcome of one tick request.
type TickView struct {
	RunView
	Frames    int  `json:"frames"`
	Scored    int  `json:"scored"`
	Spawned   int  `json:"spawned"`
	Collision bool `json:"collision"`
}

func (s *Service) CreateRun(ctx context.Context, gameName, player string) (RunView, error) {
	_, span := s.tracer.Start(ctx, "CreateRun")
	defer span.End()
	span.SetAttributes(attribute.String("arcade.game", gameName))

	t, err := s.games.Runner(gameName)
	if err != nil {
		return RunView{}, s.fail(span, err)
	}
	e := &runEntry{
		id:       uuid.NewString(),
		game:     gameName,
		player:   player,
		run:      runner.NewRun(t, s.newRNG()),
		lastUsed: s.now(),
	}
	s.mu.Lock()
	s.runs[e.id] = e
	s.mu.Unlock()

	s.log.Info("run created", zap.String("run", e.id), zap.String("game", gameName))
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(), nil
}

func (s *Service) runEntry(id string) (*runEntry, error) {
	s.mu.RLock()
	e, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	return e, nil
}

func (s *Service) RunStatus(ctx context.Context, id string) (RunView, error) {
	_, span := s.tracer.Start(ctx, "RunStatus")
	defer span.End()
	e, err := s.runEntry(id)
	if err != nil {
		return RunView{}, s.fail(span, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(), nil
}

// Tick advances a run. Input applies to the first frame only. A collision
// ends the run and records it on the leaderboard.
func (s *Service) Tick(ctx context.Context, id string, req TickRequest) (TickView, error) {
	ctx, span := s.tracer.Start(ctx, "Tick")
	defer span.End()

	switch req.Input {
	case runner.InputNone, runner.InputLeft, runner.InputRight:
	default:
		return TickView{}, s.fail(span, fmt.Errorf("%w: input %q", ErrInvalidInput, req.Input))
	}

	e, err := s.runEntry(id)
	if err != nil {
		return TickView{}, s.fail(span, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = s.now()

	var out TickView
	apply := func(res runner.TickResult) {
		out.Frames++
		out.Scored += res.Scored
		out.Spawned += res.Spawned
		out.Collision = out.Collision || res.Collision
	}

	if req.NowMs > 0 {
		res, err := e.run.Tick(time.UnixMilli(req.NowMs), req.Input)
		if err != nil {
			return TickView{}, s.fail(span, err)
		}
		apply(res)
	} else {
		n := min(max(req.Frames, 1), maxTickFrames)
		in := req.Input
		for i := 0; i < n; i++ {
			res, err := e.run.Step(1, in)
			if err != nil {
				return TickView{}, s.fail(span, err)
			}
			apply(res)
			in = runner.InputNone
			if res.Phase == runner.PhaseGameOver {
				break
			}
		}
	}

	if e.run.Phase() == runner.PhaseGameOver && !e.saved {
		e.saved = true
		s.finish(ctx, e)
	}
	out.RunView = e.view()
	return out, nil
}

// Restart resets a run to its initial layout.
func (s *Service) Restart(ctx context.Context, id string) (RunView, error) {
	_, span := s.tracer.Start(ctx, "Restart")
	defer span.End()
	e, err := s.runEntry(id)
	if err != nil {
		return RunView{}, s.fail(span, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.run.Restart()
	e.saved = false
	e.lastUsed = s.now()
	return e.view(), nil
}

// TopRuns returns the best finished runs of a game.
func (s *Service) TopRuns(ctx context.Context, gameName string, limit int) ([]store.Run, error) {
	ctx, span := s.tracer.Start(ctx, "TopRuns")
	defer span.End()
	if _, err := s.games.Runner(gameName); err != nil {
		return nil, s.fail(span, err)
	}
	if s.store == nil {
		return []store.Run{}, nil
	}
	runs, err := s.store.TopRuns(ctx, gameName, limit)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return runs, nil
}

func (s *Service) finish(ctx context.Context, e *runEntry) {
	d := e.run.Difficulty()
	s.log.Info("run over",
		zap.String("run", e.id),
		zap.String("game", e.game),
		zap.Int("score", d.Score),
		zap.Int("level", d.Level),
	)
	if s.store == nil {
		return
	}
	rec := &store.Run{
		RunID:     e.id,
		Game:      e.game,
		Player:    e.player,
		Score:     d.Score,
		Level:     d.Level,
		Elapsed:   d.Elapsed,
		Speed:     d.Speed,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SaveRun(ctx, rec); err != nil {
		s.log.Error("save run", zap.String("run", e.id), zap.Error(err))
	}
}

func (e *runEntry) view() RunView {
	return RunView{ID: e.id, Player: e.player, State: e.run.Snapshot()}
}
