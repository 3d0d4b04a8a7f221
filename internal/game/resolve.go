// resolve.go
package game

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtding233/arcade-backend/internal/coins"
	"github.com/xtding233/arcade-backend/internal/outcome"
	"github.com/xtding233/arcade-backend/internal/runner"
	"github.com/xtding233/arcade-backend/internal/wheel"
)

// Resolver turns a game name into ready-to-run parameters.
type Resolver interface {
	Games() ([]Info, error)
	Wheel(game string) (wheel.Config, error)
	Runner(game string) (runner.Tuning, error)
}

var _ Resolver = (*Loader)(nil)

// Wheel loads, validates and resolves a wheel game.
func (l *Loader) Wheel(game string) (wheel.Config, error) {
	raw, err := l.load(game, KindWheel)
	if err != nil {
		return wheel.Config{}, err
	}
	return ResolveWheel(game, raw)
}

// Runner loads, validates and resolves a runner game.
func (l *Loader) Runner(game string) (runner.Tuning, error) {
	raw, err := l.load(game, KindRunner)
	if err != nil {
		return runner.Tuning{}, err
	}
	return ResolveRunner(game, raw)
}

func (l *Loader) load(game string, kind Kind) (RawConfig, error) {
	raw, err := l.LoadMerged(game)
	if err != nil {
		return RawConfig{}, err
	}
	if err := ValidateRaw(raw); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", game, err)
	}
	if raw.Kind != kind {
		return RawConfig{}, fmt.Errorf("%w: %q is a %s game", ErrUnknownGame, game, raw.Kind)
	}
	return raw, nil
}

func decOr(v *float64, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return decimal.NewFromFloat(*v)
}

func or[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

// ResolveWheel applies raw on top of built-in defaults. Absent sections
// keep the flat classic economy without progression.
func ResolveWheel(game string, raw RawConfig) (wheel.Config, error) {
	w := raw.Wheel
	if w == nil {
		w = &WheelConfig{}
	}
	def := wheel.ClassicConfig()
	cfg := wheel.Config{
		Game:        game,
		Physics:     def.Physics,
		StartCoins:  decOr(w.StartCoins, def.StartCoins),
		Pricing:     def.Pricing,
		SettleDelay: def.SettleDelay,
		Packs:       def.Packs,
	}
	if len(w.Packs) > 0 {
		cfg.Packs = append([]coins.Pack(nil), w.Packs...)
	}
	if w.SettleDelayMs != nil {
		cfg.SettleDelay = time.Duration(*w.SettleDelayMs) * time.Millisecond
	}
	if c := w.Cost; c != nil {
		cfg.Pricing.PerSpin = decOr(c.PerSpin, cfg.Pricing.PerSpin)
		cfg.Pricing.PerLevel = decOr(c.PerLevel, cfg.Pricing.PerLevel)
		cfg.Pricing.PerN = decOr(c.PerN, cfg.Pricing.PerN)
		cfg.Pricing.N = or(c.N, cfg.Pricing.N)
	}
	if p := w.Physics; p != nil {
		cfg.Physics.Friction = or(p.Friction, cfg.Physics.Friction)
		cfg.Physics.MinVelocity = or(p.MinVelocity, cfg.Physics.MinVelocity)
		cfg.Physics.BaseVelocity = or(p.BaseVelocity, cfg.Physics.BaseVelocity)
		cfg.Physics.VelocityJitter = or(p.VelocityJitter, cfg.Physics.VelocityJitter)
	}
	if p := w.Progression; p != nil && or(p.Enabled, false) {
		dp := wheel.DeluxeConfig().Progression
		cfg.Progression = wheel.Progression{
			Enabled:          true,
			MultiplierStep:   decOr(p.MultiplierStep, dp.MultiplierStep),
			MaxMultiplier:    decOr(p.MaxMultiplier, dp.MaxMultiplier),
			LuckBoost:        or(p.LuckBoost, dp.LuckBoost),
			LevelEvery:       decOr(p.LevelEvery, dp.LevelEvery),
			AchievementBonus: decOr(p.AchievementBonus, dp.AchievementBonus),
		}
	}

	cfg.Prizes = make(outcome.Table[wheel.Prize], len(w.Prizes))
	for i, p := range w.Prizes {
		cfg.Prizes[i] = outcome.Outcome[wheel.Prize]{
			Name:   p.Name,
			Weight: p.Weight,
			Payload: wheel.Prize{
				Name:    p.Name,
				Value:   p.Value,
				Color:   p.Color,
				Icon:    p.Icon,
				Jackpot: p.Jackpot,
			},
		}
	}
	if err := cfg.Prizes.Validate(); err != nil {
		return wheel.Config{}, fmt.Errorf("%s prizes: %w", game, err)
	}
	return cfg, nil
}

// ResolveRunner applies raw on top of BasicTuning.
func ResolveRunner(game string, raw RawConfig) (runner.Tuning, error) {
	t := runner.BasicTuning()
	t.Game = game
	r := raw.Runner
	if r == nil {
		r = &RunnerConfig{}
	}
	if len(r.Lanes) > 0 {
		t.Lanes = append([]float64(nil), r.Lanes...)
	}
	t.RecycleZ = or(r.RecycleZ, t.RecycleZ)
	if s := r.Speed; s != nil {
		t.BaseSpeed = or(s.Base, t.BaseSpeed)
		t.MaxSpeed = or(s.Max, t.MaxSpeed)
		t.BaseIncrement = or(s.BaseIncrement, t.BaseIncrement)
		t.ScaleFactor = or(s.ScaleFactor, t.ScaleFactor)
		t.TimeWindow = or(s.TimeWindow, t.TimeWindow)
		t.ScoreWeight = or(s.ScoreWeight, t.ScoreWeight)
		t.ScoreWindow = or(s.ScoreWindow, t.ScoreWindow)
	}
	if s := r.Spawn; s != nil {
		t.Spawning = or(s.Enabled, t.Spawning)
		t.BaseSpawnInterval = or(s.BaseInterval, t.BaseSpawnInterval)
		t.MinSpawnInterval = or(s.MinInterval, t.MinSpawnInterval)
		t.SpawnReduction = or(s.Reduction, t.SpawnReduction)
		t.MaxObstacles = or(s.MaxObstacles, t.MaxObstacles)
		t.FarDistance = or(s.FarDistance, t.FarDistance)
		t.FarJitter = or(s.FarJitter, t.FarJitter)
	}
	if ly := r.Layout; ly != nil {
		t.LayoutNear = or(ly.Near, t.LayoutNear)
		t.LayoutSpacing = or(ly.Spacing, t.LayoutSpacing)
		t.LayoutFar = or(ly.Far, t.LayoutFar)
		t.LayoutSeed = or(ly.Seed, t.LayoutSeed)
	}
	if err := t.Validate(); err != nil {
		return runner.Tuning{}, fmt.Errorf("%s: %w", game, err)
	}
	return t, nil
}
