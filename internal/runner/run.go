package runner

import (
	"errors"
	"time"

	"github.com/xtding233/arcade-backend/internal/frame"
	"github.com/xtding233/arcade-backend/internal/outcome"
)

var ErrGameOver = errors.New("run is over; restart to play again")

type Phase string

const (
	PhaseRunning  Phase = "running"
	PhaseGameOver Phase = "game_over"
)

// Input is the lateral command applied before a frame.
type Input string

const (
	InputNone  Input = ""
	InputLeft  Input = "left"
	InputRight Input = "right"
)

// TickResult summarizes one frame.
type TickResult struct {
	Dt        float64 `json:"dt"`
	Scored    int     `json:"scored"`
	Spawned   int     `json:"spawned"`
	Collision bool    `json:"collision"`
	Phase     Phase   `json:"phase"`
}

// ObstacleView is the exported position of one obstacle.
type ObstacleView struct {
	Lane int     `json:"lane"`
	X    float64 `json:"x"`
	Z    float64 `json:"z"`
}

// Snapshot is a read-only copy of the run.
type Snapshot struct {
	Game       string         `json:"game"`
	Phase      Phase          `json:"phase"`
	Difficulty Difficulty     `json:"difficulty"`
	PlayerLane int            `json:"player_lane"`
	PlayerX    float64        `json:"player_x"`
	Obstacles  []ObstacleView `json:"obstacles"`
	Frames     int            `json:"frames"`
}

// Run is one runner game. Not safe for concurrent use.
type Run struct {
	tuning Tuning
	rng    outcome.RandomSource // recycle and spawn draws

	clock     frame.Clock
	diff      Difficulty
	player    Player
	obstacles []*Obstacle
	phase     Phase
	frames    int
}

// NewRun validates nothing; callers pass a validated Tuning. nil rng uses outcome.DefaultRNG.
func NewRun(t Tuning, rng outcome.RandomSource) *Run {
	if rng == nil {
		rng = outcome.DefaultRNG()
	}
	r := &Run{tuning: t, rng: rng}
	r.Restart()
	return r
}

// Restart restores the initial configuration. The layout comes from
// LayoutSeed so every restart produces the same obstacle set.
func (r *Run) Restart() {
	r.diff = NewDifficulty(r.tuning)
	r.player = newPlayer(r.tuning)
	r.phase = PhaseRunning
	r.frames = 0
	r.clock.Reset()
	r.obstacles = initialLayout(r.tuning)
}

func initialLayout(t Tuning) []*Obstacle {
	layout := outcome.NewSeededRNG(t.LayoutSeed)
	var obs []*Obstacle
	for d := t.LayoutNear; d <= t.LayoutFar; d += t.LayoutSpacing {
		lane := min(int(layout.Float64()*float64(len(t.Lanes))), len(t.Lanes)-1)
		obs = append(obs, newObstacle(t, lane, -d))
	}
	return obs
}

func (r *Run) Phase() Phase { return r.phase }

func (r *Run) Difficulty() Difficulty { return r.diff }

func (r *Run) Tuning() Tuning { return r.tuning }

// Tick advances the run to wall time now.
func (r *Run) Tick(now time.Time, in Input) (TickResult, error) {
	if r.phase == PhaseGameOver {
		return TickResult{Phase: r.phase}, ErrGameOver
	}
	return r.Step(r.clock.Delta(now), in)
}

// Step advances dt reference frames. Order per frame: input, difficulty,
// player easing, obstacle motion and recycling, collision, spawning.
func (r *Run) Step(dt float64, in Input) (TickResult, error) {
	if r.phase == PhaseGameOver {
		return TickResult{Phase: r.phase}, ErrGameOver
	}
	t := r.tuning
	res := TickResult{Dt: dt}

	switch in {
	case InputLeft:
		r.player.MoveLeft()
	case InputRight:
		r.player.MoveRight(len(t.Lanes))
	}

	elapsed := r.diff.Elapsed + frame.Duration(dt).Seconds()
	r.diff = Update(t, r.diff, dt, elapsed, r.diff.Score)
	r.player.ease(t, dt)

	dz := r.diff.Speed * dt
	for _, o := range r.obstacles {
		o.advance(dz)
		if o.Pos.Z > t.RecycleZ {
			res.Scored++
			lane, z := SpawnPosition(t, r.rng)
			o.reposition(t, lane, z)
		}
	}
	if res.Scored > 0 {
		r.diff = Update(t, r.diff, 0, r.diff.Elapsed, r.diff.Score+res.Scored)
	}

	pb := r.player.Box()
	for _, o := range r.obstacles {
		if pb.Intersects(o.Box()) {
			res.Collision = true
			r.phase = PhaseGameOver
			break
		}
	}

	if r.phase == PhaseRunning && t.Spawning &&
		ShouldSpawn(r.diff, r.diff.Elapsed, len(r.obstacles), t.MaxObstacles) {
		lane, z := SpawnPosition(t, r.rng)
		r.obstacles = append(r.obstacles, newObstacle(t, lane, z))
		r.diff.LastSpawn = r.diff.Elapsed
		res.Spawned++
	}

	r.frames++
	res.Phase = r.phase
	return res, nil
}

func (r *Run) Snapshot() Snapshot {
	s := Snapshot{
		Game:       r.tuning.Game,
		Phase:      r.phase,
		Difficulty: r.diff,
		PlayerLane: r.player.Lane,
		PlayerX:    r.player.Pos.X,
		Frames:     r.frames,
		Obstacles:  make([]ObstacleView, len(r.obstacles)),
	}
	for i, o := range r.obstacles {
		s.Obstacles[i] = ObstacleView{Lane: o.Lane, X: o.Pos.X, Z: o.Pos.Z}
	}
	return s
}
