package frame

import "time"

const (
	// Reference frame: dt == 1 means one 60 Hz frame.
	Reference = 16670 * time.Microsecond
	// MaxDelta caps dt after a stall (tab switch, GC pause).
	MaxDelta = 2.0
)

// Clock converts wall timestamps into frame deltas.
type Clock struct {
	last    time.Time
	started bool
}

// Delta returns (now-prev)/Reference clamped to [0, MaxDelta].
// The first call only primes the clock and returns 0.
func (c *Clock) Delta(now time.Time) float64 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	dt := Delta(c.last, now)
	c.last = now
	return dt
}

// Reset forgets the previous timestamp.
func (c *Clock) Reset() { *c = Clock{} }

// Delta computes a clamped frame delta between two timestamps.
func Delta(prev, now time.Time) float64 {
	d := float64(now.Sub(prev)) / float64(Reference)
	if d < 0 {
		return 0
	}
	return min(d, MaxDelta)
}

// Duration is the wall time covered by dt frames.
func Duration(dt float64) time.Duration {
	return time.Duration(dt * float64(Reference))
}
