package outcome

import "errors"

var (
	ErrEmptyTable    = errors.New("outcome table is empty")
	ErrInvalidWeight = errors.New("invalid weight; must be in (0,1]")
	ErrWeightSum     = errors.New("weights sum above 1")
)

// Outcome is one entry of a selection table.
type Outcome[P any] struct {
	Name    string
	Weight  float64 // (0, 1]
	Payload P
}

// Table is walked in declared order. Reordering changes which r maps to which entry.
type Table[P any] []Outcome[P]

// Select draws r in [0,1) and returns the first entry whose running weight sum
// reaches r. Residual mass falls back to entry 0.
// An empty table returns index -1 and the zero Outcome.
func Select[P any](t Table[P], rng RandomSource) (int, Outcome[P]) {
	return selectBoosted(t, 1, rng)
}

// SelectAt is Select with an externally drawn r.
func SelectAt[P any](t Table[P], r float64) (int, Outcome[P]) {
	return pick(t, 1, r)
}

func selectBoosted[P any](t Table[P], boost float64, rng RandomSource) (int, Outcome[P]) {
	if len(t) == 0 {
		return -1, Outcome[P]{}
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return pick(t, boost, rng.Float64())
}

func pick[P any](t Table[P], boost, r float64) (int, Outcome[P]) {
	if len(t) == 0 {
		return -1, Outcome[P]{}
	}
	// r outside [0,1) is treated like residue
	if !(r >= 0 && r < 1) {
		return 0, t[0]
	}
	var cum float64
	for i, o := range t {
		cum += o.Weight * boost
		if r <= cum {
			return i, o
		}
	}
	return 0, t[0]
}

// Selector carries a luck boost: every weight is multiplied by Boost before
// accumulation and the table is NOT renormalised. With Boost > 1 the running
// sum passes 1 early, so trailing entries lose mass and the fallback never fires.
type Selector[P any] struct {
	Table Table[P]
	Boost float64 // <= 0 means 1
	RNG   RandomSource
}

// NewSelector creates a selector with no boost. nil rng uses DefaultRNG.
func NewSelector[P any](t Table[P], rng RandomSource) *Selector[P] {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Selector[P]{Table: t, Boost: 1, RNG: rng}
}

func (s *Selector[P]) Select() (int, Outcome[P]) {
	return selectBoosted(s.Table, s.boost(), s.RNG)
}

func (s *Selector[P]) boost() float64 {
	if s.Boost <= 0 {
		return 1
	}
	return s.Boost
}

// Expected returns the exact probability of each index under boost,
// including the fallback mass landing on entry 0.
func Expected[P any](t Table[P], boost float64) []float64 {
	out := make([]float64, len(t))
	if len(t) == 0 {
		return out
	}
	if boost <= 0 {
		boost = 1
	}
	var prev float64
	for i, o := range t {
		cum := min(prev+o.Weight*boost, 1)
		out[i] = cum - prev
		prev = cum
	}
	out[0] += 1 - prev
	return out
}

// Sum is the plain weight total.
func (t Table[P]) Sum() float64 {
	var s float64
	for _, o := range t {
		s += o.Weight
	}
	return s
}
