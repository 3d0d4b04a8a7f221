package runner

import "math"

// Player eases laterally towards the centre of its target lane.
type Player struct {
	Lane int
	Pos  Vec3

	size float64
	box  Box
}

func newPlayer(t Tuning) Player {
	lane := len(t.Lanes) / 2
	p := Player{
		Lane: lane,
		Pos:  Vec3{X: t.Lanes[lane], Y: t.PlayerY},
		size: t.PlayerSize,
	}
	p.box = BoxAt(p.Pos, p.size)
	return p
}

func (p *Player) MoveLeft() {
	p.Lane = max(0, p.Lane-1)
}

func (p *Player) MoveRight(lanes int) {
	p.Lane = min(lanes-1, p.Lane+1)
}

// ease closes LateralEase of the gap per frame.
func (p *Player) ease(t Tuning, dt float64) {
	dx := t.Lanes[p.Lane] - p.Pos.X
	if dx == 0 {
		return
	}
	step := dx * t.LateralEase * dt
	if math.Abs(step) > math.Abs(dx) {
		step = dx
	}
	p.Pos.X += step
	p.box = BoxAt(p.Pos, p.size)
}

func (p Player) Box() Box { return p.box }

// Obstacle approaches the player along +Z.
type Obstacle struct {
	Lane int
	Pos  Vec3

	size float64
	box  Box
}

func newObstacle(t Tuning, lane int, z float64) *Obstacle {
	o := &Obstacle{
		Lane: lane,
		Pos:  Vec3{X: t.Lanes[lane], Y: t.ObstacleY, Z: z},
		size: t.ObstacleSize,
	}
	o.box = BoxAt(o.Pos, o.size)
	return o
}

func (o *Obstacle) advance(dz float64) {
	o.Pos.Z += dz
	o.box.Min.Z += dz
	o.box.Max.Z += dz
}

// reposition sends the obstacle back to the far end.
func (o *Obstacle) reposition(t Tuning, lane int, z float64) {
	o.Lane = lane
	o.Pos = Vec3{X: t.Lanes[lane], Y: t.ObstacleY, Z: z}
	o.box = BoxAt(o.Pos, o.size)
}

func (o *Obstacle) Box() Box { return o.box }
