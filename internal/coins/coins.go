package coins

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInsufficientFunds = errors.New("insufficient coins")

// Pricing defines how many coins a spin costs at a given level.
type Pricing struct {
	PerSpin  decimal.Decimal // cost at level 1, e.g. 10 or 50
	PerLevel decimal.Decimal // added per level above 1; zero for flat pricing
	PerN     decimal.Decimal // optional bundle price for N spins
	N        int             // bundle size; <= 1 disables bundles
}

// CostAt is PerSpin + (level-1)*PerLevel.
func (p Pricing) CostAt(level int) decimal.Decimal {
	if level < 1 {
		level = 1
	}
	return p.PerSpin.Add(p.PerLevel.Mul(decimal.NewFromInt(int64(level - 1))))
}

// CostFor returns the coins required for n spins at level. Bundles only
// apply when configured and the level surcharge is flat.
func (p Pricing) CostFor(n, level int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	unit := p.CostAt(level)
	if p.N > 1 && p.PerN.IsPositive() && p.PerLevel.IsZero() && n >= p.N {
		bundles := n / p.N
		rem := n % p.N
		return p.PerN.Mul(decimal.NewFromInt(int64(bundles))).Add(unit.Mul(decimal.NewFromInt(int64(rem))))
	}
	return unit.Mul(decimal.NewFromInt(int64(n)))
}

// Wallet is a non-negative coin balance.
type Wallet struct {
	Balance decimal.Decimal
}

func NewWallet(start decimal.Decimal) *Wallet {
	return &Wallet{Balance: start}
}

// CanAfford reports Balance >= amount.
func (w *Wallet) CanAfford(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// Debit removes amount or fails without touching the balance.
func (w *Wallet) Debit(amount decimal.Decimal) error {
	if !w.CanAfford(amount) {
		return ErrInsufficientFunds
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

func (w *Wallet) Credit(amount decimal.Decimal) {
	if amount.IsNegative() {
		return
	}
	w.Balance = w.Balance.Add(amount)
}
