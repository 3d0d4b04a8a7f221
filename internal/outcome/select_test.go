package outcome

import (
	"errors"
	"math"
	"testing"
)

func abc() Table[string] {
	return Table[string]{
		{Name: "A", Weight: 0.5, Payload: "a"},
		{Name: "B", Weight: 0.3, Payload: "b"},
		{Name: "C", Weight: 0.2, Payload: "c"},
	}
}

func TestSelectIntervals(t *testing.T) {
	cases := []struct {
		r    float64
		want string
	}{
		{0, "A"},
		{0.4, "A"},
		{0.5, "A"},
		{0.51, "B"},
		{0.7, "B"},
		{0.95, "C"},
		{1.0, "A"}, // out of range -> fallback
		{-0.1, "A"},
		{math.NaN(), "A"},
	}
	for _, c := range cases {
		_, got := Select(abc(), Sequence(c.r))
		if got.Name != c.want {
			t.Fatalf("r=%v: got %s want %s", c.r, got.Name, c.want)
		}
	}
}

func TestSelectResidualFallsBackToFirst(t *testing.T) {
	tbl := Table[int]{{Name: "x", Weight: 0.2}, {Name: "y", Weight: 0.3}}
	idx, got := Select(tbl, Sequence(0.9))
	if idx != 0 || got.Name != "x" {
		t.Fatalf("residual mass should fall back to entry 0; got %d %s", idx, got.Name)
	}
}

func TestSelectEmpty(t *testing.T) {
	idx, _ := Select(Table[int]{}, nil)
	if idx != -1 {
		t.Fatalf("empty table should return -1; got %d", idx)
	}
}

func TestSelectFrequencies(t *testing.T) {
	const n = 100000
	rng := NewSeededRNG(42)
	counts := make([]int, 3)
	for i := 0; i < n; i++ {
		idx, _ := Select(abc(), rng)
		counts[idx]++
	}
	for i, o := range abc() {
		freq := float64(counts[i]) / n
		if diff := freq - o.Weight; diff > 0.01 || diff < -0.01 {
			t.Fatalf("%s: freq=%f not close to w=%f", o.Name, freq, o.Weight)
		}
	}
}

func TestBoostWithoutRenormalisation(t *testing.T) {
	s := NewSelector(abc(), Sequence(0.95))
	s.Boost = 1.2
	// boosted cumulative: 0.6, 0.96, 1.2 -> 0.95 lands on B, not C
	if _, got := s.Select(); got.Name != "B" {
		t.Fatalf("boosted selection: got %s want B", got.Name)
	}

	exp := Expected(abc(), 1.2)
	want := []float64{0.6, 0.36, 0.04}
	for i := range want {
		if math.Abs(exp[i]-want[i]) > 1e-9 {
			t.Fatalf("expected[%d]=%f want %f", i, exp[i], want[i])
		}
	}
}

func TestExpectedIncludesFallback(t *testing.T) {
	tbl := Table[int]{{Name: "x", Weight: 0.2}, {Name: "y", Weight: 0.3}}
	exp := Expected(tbl, 1)
	if math.Abs(exp[0]-0.7) > 1e-9 || math.Abs(exp[1]-0.3) > 1e-9 {
		t.Fatalf("unexpected %v", exp)
	}
}

func TestValidate(t *testing.T) {
	if err := abc().Validate(); err != nil {
		t.Fatalf("valid table rejected: %v", err)
	}
	if err := (Table[int]{}).Validate(); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("want ErrEmptyTable, got %v", err)
	}
	bad := Table[int]{{Name: "z", Weight: 0}}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("want ErrInvalidWeight, got %v", err)
	}
	over := Table[int]{{Name: "a", Weight: 0.7}, {Name: "b", Weight: 0.7}}
	if err := over.Validate(); !errors.Is(err, ErrWeightSum) {
		t.Fatalf("want ErrWeightSum, got %v", err)
	}
}
