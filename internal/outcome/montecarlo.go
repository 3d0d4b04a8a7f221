package outcome

import (
	"math"
	"sort"
)

// SimParams describes one Monte Carlo run over a table.
type SimParams struct {
	Trials int
	Boost  float64 // <= 0 means 1
	Seed   uint64  // 0 uses DefaultRNG
}

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []float64 `json:"-"`
}

// Report compares simulated frequencies with Expected.
type Report struct {
	Trials       int
	Counts       []int
	Freq         []float64
	Expected     []float64
	MaxDeviation float64 // max |Freq[i]-Expected[i]|
	Value        Stats   // per-trial payout when a value func is given
}

// calcStats computes mean/variance/percentiles for samples.
func calcStats(xs []float64) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := v - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return cp[0]
		}
		if p >= 1 {
			return cp[n-1]
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return cp[i]
		}
		return cp[i]*(1-f) + cp[i+1]*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// RunMonteCarlo selects p.Trials times and tallies each index.
// value may be nil; otherwise it maps the drawn payload to a payout sample.
func RunMonteCarlo[P any](t Table[P], p SimParams, value func(P) float64) (Report, error) {
	if err := t.Validate(); err != nil {
		return Report{}, err
	}
	if p.Trials <= 0 {
		return Report{}, nil
	}
	rng := DefaultRNG()
	if p.Seed != 0 {
		rng = NewSeededRNG(p.Seed)
	}
	sel := &Selector[P]{Table: t, Boost: p.Boost, RNG: rng}

	rep := Report{
		Trials:   p.Trials,
		Counts:   make([]int, len(t)),
		Freq:     make([]float64, len(t)),
		Expected: Expected(t, p.Boost),
	}
	var samples []float64
	if value != nil {
		samples = make([]float64, 0, p.Trials)
	}
	for i := 0; i < p.Trials; i++ {
		idx, o := sel.Select()
		rep.Counts[idx]++
		if value != nil {
			samples = append(samples, value(o.Payload))
		}
	}
	for i, c := range rep.Counts {
		rep.Freq[i] = float64(c) / float64(p.Trials)
		rep.MaxDeviation = max(rep.MaxDeviation, math.Abs(rep.Freq[i]-rep.Expected[i]))
	}
	if value != nil {
		rep.Value = calcStats(samples)
	}
	return rep, nil
}
