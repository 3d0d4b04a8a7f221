package wheel

import (
	"errors"
	"math"

	"github.com/xtding233/arcade-backend/internal/outcome"
)

var (
	ErrBusy          = errors.New("wheel is already spinning")
	ErrInvalidTarget = errors.New("target sector out of range")
)

const twoPi = 2 * math.Pi

// Physics are the friction model constants.
type Physics struct {
	Friction       float64 // per reference frame, (0,1)
	MinVelocity    float64 // rad/frame; at or below this the wheel snaps
	BaseVelocity   float64 // initial velocity = Base + r*Jitter
	VelocityJitter float64
}

// DefaultPhysics gives a 5-10 second spin at 60 fps.
func DefaultPhysics() Physics {
	return Physics{
		Friction:       0.995,
		MinVelocity:    0.001,
		BaseVelocity:   0.8,
		VelocityJitter: 0.4,
	}
}

// RandomVelocity draws an initial velocity. Advisory only; StartSpin accepts any value.
func (p Physics) RandomVelocity(rng outcome.RandomSource) float64 {
	if rng == nil {
		rng = outcome.DefaultRNG()
	}
	return p.BaseVelocity + rng.Float64()*p.VelocityJitter
}

// State is the rotation controller. It is a value; every transition returns a new one.
type State struct {
	Angle    float64 // radians, unbounded accumulator
	Velocity float64
	Friction float64
	MinVel   float64
	Sectors  int
	Target   int // -1 when idle
	Spinning bool
}

// NewState returns an idle wheel at angle 0.
func NewState(p Physics, sectors int) State {
	return State{
		Friction: p.Friction,
		MinVel:   p.MinVelocity,
		Sectors:  sectors,
		Target:   -1,
	}
}

// SectorWidth is 2π / sectors.
func (s State) SectorWidth() float64 {
	if s.Sectors <= 0 {
		return twoPi
	}
	return twoPi / float64(s.Sectors)
}

// StartSpin arms the wheel towards target. A spinning wheel is returned
// unchanged with ErrBusy. Balance checks belong to the caller.
func StartSpin(s State, velocity float64, target int) (State, error) {
	if s.Spinning {
		return s, ErrBusy
	}
	if target < 0 || target >= s.Sectors {
		return s, ErrInvalidTarget
	}
	s.Velocity = math.Max(velocity, 0)
	s.Target = target
	s.Spinning = true
	return s, nil
}

// Step advances dt reference frames. settled is true only on the frame the
// wheel snaps onto its target; afterwards Step is a no-op.
func Step(s State, dt float64) (State, bool) {
	if !s.Spinning || dt <= 0 {
		return s, false
	}
	if s.Velocity > s.MinVel {
		s.Velocity *= math.Pow(s.Friction, dt)
		s.Angle += s.Velocity * dt
	}
	if s.Velocity > s.MinVel {
		return s, false
	}

	s.Angle += ShortestDelta(s.Angle, TargetAngle(s.Target, s.Sectors))
	s.Velocity = 0
	s.Spinning = false
	return s, true
}

// TargetAngle is the centre of sector index.
func TargetAngle(index, sectors int) float64 {
	w := twoPi / float64(sectors)
	return float64(index)*w + w/2
}

// ShortestDelta returns the signed difference to rotate from -> to, in (-π, π].
func ShortestDelta(from, to float64) float64 {
	d := math.Mod(to-from, twoPi)
	if d < 0 {
		d += twoPi
	}
	if d > math.Pi {
		d -= twoPi
	}
	return d
}

// Normalize maps an angle into [0, 2π).
func Normalize(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}

// SectorAt reports which sector the angle points into.
func SectorAt(angle float64, sectors int) int {
	if sectors <= 0 {
		return 0
	}
	i := int(Normalize(angle) / (twoPi / float64(sectors)))
	return min(i, sectors-1)
}

// Settle runs Step at fixed dt until the wheel snaps. It returns the final
// state and the number of frames taken. maxFrames bounds the loop.
func Settle(s State, dt float64, maxFrames int) (State, int) {
	frames := 0
	for s.Spinning && frames < maxFrames {
		var done bool
		s, done = Step(s, dt)
		frames++
		if done {
			break
		}
	}
	return s, frames
}
