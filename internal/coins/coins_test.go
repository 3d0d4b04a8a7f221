package coins

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCostAt(t *testing.T) {
	p := Pricing{PerSpin: d(50), PerLevel: d(25)}
	cases := map[int]int64{0: 50, 1: 50, 2: 75, 5: 150}
	for lvl, want := range cases {
		if got := p.CostAt(lvl); !got.Equal(d(want)) {
			t.Fatalf("level %d: got %s want %d", lvl, got, want)
		}
	}
}

func TestCostForBundles(t *testing.T) {
	p := Pricing{PerSpin: d(10), PerN: d(90), N: 10}
	if got := p.CostFor(23, 1); !got.Equal(d(2*90 + 3*10)) {
		t.Fatalf("got %s", got)
	}
	if got := p.CostFor(0, 1); !got.IsZero() {
		t.Fatalf("zero spins should cost nothing, got %s", got)
	}
	// level surcharge disables bundles
	p.PerLevel = d(5)
	if got := p.CostFor(10, 2); !got.Equal(d(150)) {
		t.Fatalf("got %s", got)
	}
}

func TestWallet(t *testing.T) {
	w := NewWallet(d(15))
	if err := w.Debit(d(10)); err != nil {
		t.Fatal(err)
	}
	if err := w.Debit(d(10)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if !w.Balance.Equal(d(5)) {
		t.Fatalf("failed debit must not change balance; got %s", w.Balance)
	}
	w.Credit(d(-3))
	if !w.Balance.Equal(d(5)) {
		t.Fatalf("negative credit ignored; got %s", w.Balance)
	}
}
