package coins

import "errors"

var ErrUnknownPack = errors.New("unknown coin pack")

// Pack is a coin top-up a player can buy for a session.
type Pack struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Coins       int64  `json:"coins" yaml:"coins"`
	Bonus       int64  `json:"bonus,omitempty" yaml:"bonus,omitempty"`                 // added on every purchase
	FirstTimeX2 bool   `json:"first_time_x2,omitempty" yaml:"first_time_x2,omitempty"` // doubles Coins (not Bonus) once
	PriceCents  int64  `json:"price_cents" yaml:"price_cents"`
}

// Yield is the coins granted by one purchase.
func (p Pack) Yield(firstTime bool) int64 {
	if firstTime && p.FirstTimeX2 {
		return p.Coins*2 + p.Bonus
	}
	return p.Coins + p.Bonus
}

// FindPack looks a pack up by id.
func FindPack(packs []Pack, id string) (Pack, error) {
	for _, p := range packs {
		if p.ID == id {
			return p, nil
		}
	}
	return Pack{}, ErrUnknownPack
}

// Plan is a set of purchases.
type Plan struct {
	Purchases  []Purchase `json:"purchases"`
	PriceCents int64      `json:"price_cents"`
	Coins      int64      `json:"coins"`
}

// Purchase is one line of a Plan.
type Purchase struct {
	PackID     string `json:"pack_id"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	FirstTime  bool   `json:"first_time,omitempty"`
	UnitPrice  int64  `json:"unit_price_cents"`
	UnitCoins  int64  `json:"unit_coins"`
	PriceCents int64  `json:"price_cents"`
}

type variant struct {
	pack  Pack
	first bool
	coins int64
}

const (
	// maxWindow bounds the knapsack table; larger targets are prefilled
	// with the best-value pack.
	maxWindow = 1 << 16
	// maxFirstTime bounds the first-time subsets tried.
	maxFirstTime = 10
)

// CheapestAtLeast returns the lowest-priced combination of packs granting at
// least target coins. first marks packs whose doubled first purchase is still
// available; that variant can be chosen at most once per pack.
func CheapestAtLeast(packs []Pack, target int64, first map[string]bool) Plan {
	if target <= 0 {
		return Plan{}
	}
	var vs, firsts []variant
	var maxCoins, extras int64
	bestAt := -1
	for _, p := range packs {
		if p.Yield(false) <= 0 || p.PriceCents < 0 {
			continue
		}
		v := variant{pack: p, coins: p.Yield(false)}
		vs = append(vs, v)
		maxCoins = max(maxCoins, v.coins)
		// coins per cent, compared without division
		if bestAt < 0 || v.coins*vs[bestAt].pack.PriceCents > vs[bestAt].coins*p.PriceCents {
			bestAt = len(vs) - 1
		}
		if p.FirstTimeX2 && first[p.ID] && len(firsts) < maxFirstTime {
			firsts = append(firsts, variant{pack: p, first: true, coins: p.Yield(true)})
			extras += p.Yield(true)
		}
	}
	if len(vs) == 0 {
		return Plan{}
	}

	// Any optimal plan holds fewer than best.coins purchases of other packs,
	// so past that window the rest is best-value packs.
	bestCoins := vs[bestAt].coins
	window := int64(maxWindow)
	if bestCoins <= maxWindow/maxCoins {
		window = bestCoins * maxCoins
	}
	window += maxCoins
	var prefill int64
	if rest := target - extras; rest > window {
		prefill = (rest - window) / bestCoins
	}
	reach := target - prefill*bestCoins

	// Unbounded knapsack over repeatable variants. Overshooting by up to one
	// pack can be cheaper, so the table reaches reach+maxCoins.
	limit := int(reach + maxCoins)
	const inf = int64(^uint64(0) >> 1)
	cost := make([]int64, limit+1)
	pick := make([]int, limit+1)
	prev := make([]int, limit+1)
	for c := range cost {
		cost[c], pick[c], prev[c] = inf, -1, -1
	}
	cost[0] = 0
	for c := 0; c <= limit; c++ {
		if cost[c] == inf {
			continue
		}
		for i, v := range vs {
			nc := min(c+int(v.coins), limit)
			if cc := cost[c] + v.pack.PriceCents; cc < cost[nc] {
				cost[nc], pick[nc], prev[nc] = cc, i, c
			}
		}
	}

	best := func(from int64) (int, int64) {
		at, price := -1, inf
		for c := int(max(from, 0)); c <= limit; c++ {
			if cost[c] < price {
				at, price = c, cost[c]
			}
		}
		return at, price
	}

	// Each first-time variant is a 0/1 choice; try every subset of them on
	// top of the repeatable plan.
	at, price, used := -1, inf, 0
	for mask := 0; mask < 1<<len(firsts); mask++ {
		var coins, spent int64
		for i, f := range firsts {
			if mask&(1<<i) != 0 {
				coins += f.coins
				spent += f.pack.PriceCents
			}
		}
		a, pr := best(reach - coins)
		if a < 0 {
			continue
		}
		if pr+spent < price {
			at, price, used = a, pr+spent, mask
		}
	}
	if at < 0 {
		return Plan{}
	}

	counts := make(map[int]int64)
	var order []int
	if prefill > 0 {
		counts[bestAt] = prefill
		order = append(order, bestAt)
	}
	for c := at; c > 0 && pick[c] != -1; c = prev[c] {
		if counts[pick[c]] == 0 {
			order = append(order, pick[c])
		}
		counts[pick[c]]++
	}

	var plan Plan
	add := func(v variant, qty int64) {
		plan.Purchases = append(plan.Purchases, Purchase{
			PackID:     v.pack.ID,
			Name:       v.pack.Name,
			Qty:        int(qty),
			FirstTime:  v.first,
			UnitPrice:  v.pack.PriceCents,
			UnitCoins:  v.coins,
			PriceCents: v.pack.PriceCents * qty,
		})
		plan.PriceCents += v.pack.PriceCents * qty
		plan.Coins += v.coins * qty
	}
	for i, f := range firsts {
		if used&(1<<i) != 0 {
			add(f, 1)
		}
	}
	for _, i := range order {
		add(vs[i], counts[i])
	}
	return plan
}
