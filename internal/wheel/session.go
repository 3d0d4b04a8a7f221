package wheel

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtding233/arcade-backend/internal/coins"
	"github.com/xtding233/arcade-backend/internal/frame"
	"github.com/xtding233/arcade-backend/internal/outcome"
)

var ErrInsufficientFunds = coins.ErrInsufficientFunds

// EventKind tags what a session reports back to its driver.
type EventKind string

const (
	EventSettled     EventKind = "settled"
	EventResult      EventKind = "result"
	EventAchievement EventKind = "achievement"
)

// Event is emitted by Spin and Advance.
type Event struct {
	Kind        EventKind       `json:"kind"`
	At          time.Time       `json:"at"`
	Sector      int             `json:"sector,omitempty"`
	Angle       float64         `json:"angle,omitempty"`
	Prize       *Prize          `json:"prize,omitempty"`
	Winnings    decimal.Decimal `json:"winnings"`
	Achievement *Achievement    `json:"achievement,omitempty"`
}

// Stats are the session counters.
type Stats struct {
	Balance         decimal.Decimal `json:"balance"`
	TotalSpins      int             `json:"total_spins"`
	Level           int             `json:"level"`
	Multiplier      decimal.Decimal `json:"multiplier"`
	ConsecutiveWins int             `json:"consecutive_wins"`
	TotalWinnings   decimal.Decimal `json:"total_winnings"`
	JackpotCount    int             `json:"jackpot_count"`
	Achievements    []string        `json:"achievements"`
}

// SpinStart describes an accepted spin.
type SpinStart struct {
	Target   int
	Prize    Prize
	Cost     decimal.Decimal
	Velocity float64
	Events   []Event // achievements unlocked on spin start
}

// Session is one player's wheel: balance, controller and pending result.
// Not safe for concurrent use.
type Session struct {
	cfg    Config
	rng    outcome.RandomSource
	sel    *outcome.Selector[Prize]
	wallet *coins.Wallet

	wheel   State
	clock   frame.Clock
	queue   frame.Queue[int] // sector indices awaiting payout
	pending bool             // spin accepted, result not yet paid

	stats    Stats
	unlocked map[string]bool
	bought   map[string]bool // packs whose first-time bonus is spent
}

// NewSession creates a session. nil rng uses outcome.DefaultRNG.
func NewSession(cfg Config, rng outcome.RandomSource) *Session {
	if rng == nil {
		rng = outcome.DefaultRNG()
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}
	return &Session{
		cfg:    cfg,
		rng:    rng,
		sel:    &outcome.Selector[Prize]{Table: cfg.Prizes, Boost: 1, RNG: rng},
		wallet: coins.NewWallet(cfg.StartCoins),
		wheel:  NewState(cfg.Physics, len(cfg.Prizes)),
		stats: Stats{
			Level:         1,
			Multiplier:    decimal.NewFromInt(1),
			TotalWinnings: decimal.Zero,
		},
		unlocked: make(map[string]bool),
		bought:   make(map[string]bool),
	}
}

func (s *Session) Config() Config { return s.cfg }

// Wheel is the current controller state.
func (s *Session) Wheel() State { return s.wheel }

// Busy is true from an accepted spin until its result is paid.
func (s *Session) Busy() bool { return s.wheel.Spinning || s.pending }

// SpinCost at the current level.
func (s *Session) SpinCost() decimal.Decimal {
	return s.cfg.Pricing.CostAt(s.stats.Level)
}

func (s *Session) Stats() Stats {
	st := s.stats
	st.Balance = s.wallet.Balance
	st.Achievements = append([]string(nil), st.Achievements...)
	return st
}

// Spin debits the cost, selects the prize and arms the controller.
func (s *Session) Spin(now time.Time) (SpinStart, error) {
	if s.Busy() {
		return SpinStart{}, ErrBusy
	}
	cost := s.SpinCost()
	if err := s.wallet.Debit(cost); err != nil {
		return SpinStart{}, err
	}

	s.sel.Boost = 1
	if s.cfg.Progression.Enabled && s.stats.Multiplier.GreaterThan(decimal.NewFromInt(1)) {
		s.sel.Boost = s.cfg.Progression.LuckBoost
	}
	idx, o := s.sel.Select()
	v := s.cfg.Physics.RandomVelocity(s.rng)

	next, err := StartSpin(s.wheel, v, idx)
	if err != nil {
		// only reachable with an empty table; refund
		s.wallet.Credit(cost)
		return SpinStart{}, err
	}
	s.wheel = next
	s.pending = true
	s.stats.TotalSpins++
	s.clock.Reset()
	s.clock.Delta(now)

	return SpinStart{
		Target:   idx,
		Prize:    o.Payload,
		Cost:     cost,
		Velocity: v,
		Events:   s.checkAchievements(now),
	}, nil
}

// Advance steps the controller to now and pays out due results.
func (s *Session) Advance(now time.Time) []Event {
	var out []Event
	if s.wheel.Spinning {
		dt := s.clock.Delta(now)
		var settled bool
		s.wheel, settled = Step(s.wheel, dt)
		if settled {
			out = append(out, Event{
				Kind:   EventSettled,
				At:     now,
				Sector: s.wheel.Target,
				Angle:  s.wheel.Angle,
			})
			s.queue.After(now, s.cfg.SettleDelay, s.wheel.Target)
		}
	}
	for _, idx := range s.queue.Due(now) {
		out = append(out, s.payout(now, idx)...)
	}
	return out
}

func (s *Session) payout(now time.Time, idx int) []Event {
	p := s.cfg.Prizes[idx].Payload
	winnings := decimal.NewFromInt(p.Value)
	prog := s.cfg.Progression
	if prog.Enabled {
		winnings = winnings.Mul(s.stats.Multiplier)
	}
	s.wallet.Credit(winnings)
	s.stats.TotalWinnings = s.stats.TotalWinnings.Add(winnings)
	s.pending = false

	if prog.Enabled {
		if winnings.IsPositive() {
			s.stats.ConsecutiveWins++
			m := decimal.NewFromInt(1).Add(prog.MultiplierStep.Mul(decimal.NewFromInt(int64(s.stats.ConsecutiveWins))))
			s.stats.Multiplier = decimal.Min(prog.MaxMultiplier, m)
		} else {
			s.stats.ConsecutiveWins = 0
			s.stats.Multiplier = decimal.NewFromInt(1)
		}
		if prog.LevelEvery.IsPositive() {
			lvl := int(s.stats.TotalWinnings.Div(prog.LevelEvery).Floor().IntPart()) + 1
			s.stats.Level = max(s.stats.Level, lvl)
		}
	}
	if p.Jackpot {
		s.stats.JackpotCount++
	}

	prizeCopy := p
	out := []Event{{
		Kind:     EventResult,
		At:       now,
		Sector:   idx,
		Angle:    s.wheel.Angle,
		Prize:    &prizeCopy,
		Winnings: winnings,
	}}
	return append(out, s.checkAchievements(now)...)
}

func (s *Session) checkAchievements(now time.Time) []Event {
	if !s.cfg.Progression.Enabled {
		return nil
	}
	var out []Event
	for _, r := range achievementRules {
		if s.unlocked[r.ID] || !r.met(s.stats) {
			continue
		}
		s.unlocked[r.ID] = true
		s.stats.Achievements = append(s.stats.Achievements, r.ID)
		s.wallet.Credit(s.cfg.Progression.AchievementBonus)
		a := r.Achievement
		out = append(out, Event{
			Kind:        EventAchievement,
			At:          now,
			Achievement: &a,
			Winnings:    s.cfg.Progression.AchievementBonus,
		})
	}
	return out
}

// TopUp buys one pack and credits its coins.
func (s *Session) TopUp(packID string) (coins.Purchase, error) {
	p, err := coins.FindPack(s.cfg.Packs, packID)
	if err != nil {
		return coins.Purchase{}, err
	}
	first := !s.bought[p.ID]
	s.bought[p.ID] = true
	n := p.Yield(first)
	s.wallet.Credit(decimal.NewFromInt(n))
	return coins.Purchase{
		PackID:     p.ID,
		Name:       p.Name,
		Qty:        1,
		FirstTime:  first && p.FirstTimeX2,
		UnitPrice:  p.PriceCents,
		UnitCoins:  n,
		PriceCents: p.PriceCents,
	}, nil
}

// PlanTopUp is the cheapest set of packs that pays for the given spins at the
// current level. The plan is empty when the balance already suffices.
func (s *Session) PlanTopUp(spins int) coins.Plan {
	short := s.cfg.Pricing.CostFor(spins, s.stats.Level).Sub(s.wallet.Balance)
	if !short.IsPositive() {
		return coins.Plan{}
	}
	first := make(map[string]bool, len(s.cfg.Packs))
	for _, p := range s.cfg.Packs {
		first[p.ID] = !s.bought[p.ID]
	}
	return coins.CheapestAtLeast(s.cfg.Packs, short.Ceil().IntPart(), first)
}
