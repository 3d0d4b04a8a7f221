package game

import (
	"fmt"
	"math"
	"strings"
)

// ValidateRaw checks semantic constraints of a merged RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	switch cfg.Kind {
	case KindWheel:
		if cfg.Wheel == nil || len(cfg.Wheel.Prizes) == 0 {
			errs = append(errs, "wheel.prizes is required for kind=wheel")
		}
	case KindRunner:
	case "":
		errs = append(errs, "kind is required")
	default:
		errs = append(errs, "kind must be one of: wheel, runner")
	}

	if w := cfg.Wheel; w != nil {
		errs = append(errs, validateWheel(w)...)
	}
	if r := cfg.Runner; r != nil {
		errs = append(errs, validateRunner(r)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWheel(w *WheelConfig) []string {
	var errs []string
	if w.StartCoins != nil && *w.StartCoins < 0 {
		errs = append(errs, "wheel.start_coins must be >= 0")
	}
	if w.SettleDelayMs != nil && *w.SettleDelayMs < 0 {
		errs = append(errs, "wheel.settle_delay_ms must be >= 0")
	}

	// prizes
	var sum float64
	seen := make(map[string]bool)
	for i, p := range w.Prizes {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("wheel.prizes[%d].name is required", i))
		} else if seen[p.Name] {
			errs = append(errs, fmt.Sprintf("wheel.prizes[%d].name %q is duplicated", i, p.Name))
		}
		seen[p.Name] = true
		if math.IsNaN(p.Weight) || !(p.Weight > 0 && p.Weight <= 1) {
			errs = append(errs, fmt.Sprintf("wheel.prizes[%d].weight must be in (0,1]", i))
		}
		if p.Value < 0 {
			errs = append(errs, fmt.Sprintf("wheel.prizes[%d].value must be >= 0", i))
		}
		sum += p.Weight
	}
	if len(w.Prizes) == 1 {
		errs = append(errs, "wheel.prizes needs at least 2 sectors")
	}
	if sum > 1+1e-9 {
		errs = append(errs, fmt.Sprintf("wheel.prizes weights sum to %.4f, must be <= 1", sum))
	}

	if c := w.Cost; c != nil {
		if c.PerSpin != nil && *c.PerSpin < 0 {
			errs = append(errs, "wheel.cost.per_spin must be >= 0")
		}
		if c.PerLevel != nil && *c.PerLevel < 0 {
			errs = append(errs, "wheel.cost.per_level must be >= 0")
		}
		if c.N != nil && *c.N < 0 {
			errs = append(errs, "wheel.cost.n must be >= 0")
		}
	}

	if p := w.Physics; p != nil {
		if p.Friction != nil && !(*p.Friction > 0 && *p.Friction < 1) {
			errs = append(errs, "wheel.physics.friction must be in (0,1)")
		}
		if p.MinVelocity != nil && *p.MinVelocity <= 0 {
			errs = append(errs, "wheel.physics.min_velocity must be > 0")
		}
		if p.BaseVelocity != nil && *p.BaseVelocity < 0 {
			errs = append(errs, "wheel.physics.base_velocity must be >= 0")
		}
		if p.VelocityJitter != nil && *p.VelocityJitter < 0 {
			errs = append(errs, "wheel.physics.velocity_jitter must be >= 0")
		}
	}

	packIDs := make(map[string]bool)
	for i, p := range w.Packs {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("wheel.packs[%d].id is required", i))
		} else if packIDs[p.ID] {
			errs = append(errs, fmt.Sprintf("wheel.packs[%d].id %q is duplicated", i, p.ID))
		}
		packIDs[p.ID] = true
		if p.Coins <= 0 || p.Bonus < 0 {
			errs = append(errs, fmt.Sprintf("wheel.packs[%d] must grant coins > 0 with bonus >= 0", i))
		}
		if p.PriceCents < 0 {
			errs = append(errs, fmt.Sprintf("wheel.packs[%d].price_cents must be >= 0", i))
		}
	}

	if p := w.Progression; p != nil {
		if p.MultiplierStep != nil && *p.MultiplierStep < 0 {
			errs = append(errs, "wheel.progression.multiplier_step must be >= 0")
		}
		if p.MaxMultiplier != nil && *p.MaxMultiplier < 1 {
			errs = append(errs, "wheel.progression.max_multiplier must be >= 1")
		}
		if p.LuckBoost != nil && *p.LuckBoost <= 0 {
			errs = append(errs, "wheel.progression.luck_boost must be > 0")
		}
		if p.LevelEvery != nil && *p.LevelEvery <= 0 {
			errs = append(errs, "wheel.progression.level_every must be > 0")
		}
	}
	return errs
}

func validateRunner(r *RunnerConfig) []string {
	var errs []string
	if len(r.Lanes) == 1 {
		errs = append(errs, "runner.lanes needs at least 2 lanes")
	}
	if s := r.Speed; s != nil {
		if s.Base != nil && *s.Base <= 0 {
			errs = append(errs, "runner.speed.base must be > 0")
		}
		if s.Base != nil && s.Max != nil && *s.Max < *s.Base {
			errs = append(errs, "runner.speed.max must be >= base")
		}
		if s.TimeWindow != nil && *s.TimeWindow <= 0 {
			errs = append(errs, "runner.speed.time_window must be > 0")
		}
		if s.ScoreWindow != nil && *s.ScoreWindow <= 0 {
			errs = append(errs, "runner.speed.score_window must be > 0")
		}
	}
	if s := r.Spawn; s != nil {
		if s.MinInterval != nil && *s.MinInterval <= 0 {
			errs = append(errs, "runner.spawn.min_interval must be > 0")
		}
		if s.MinInterval != nil && s.BaseInterval != nil && *s.BaseInterval < *s.MinInterval {
			errs = append(errs, "runner.spawn.base_interval must be >= min_interval")
		}
		if s.MaxObstacles != nil && *s.MaxObstacles < 0 {
			errs = append(errs, "runner.spawn.max_obstacles must be >= 0")
		}
	}
	if l := r.Layout; l != nil && l.Spacing != nil && *l.Spacing <= 0 {
		errs = append(errs, "runner.layout.spacing must be > 0")
	}
	return errs
}
