package runner

import (
	"math"

	"github.com/xtding233/arcade-backend/internal/outcome"
)

// Difficulty is the per-run progression record.
type Difficulty struct {
	Elapsed       float64 `json:"elapsed"` // seconds of game time
	Score         int     `json:"score"`
	Speed         float64 `json:"speed"`
	SpawnInterval float64 `json:"spawn_interval"`
	Level         int     `json:"level"`
	LastSpawn     float64 `json:"last_spawn"`
}

func NewDifficulty(t Tuning) Difficulty {
	return Difficulty{
		Speed:         t.BaseSpeed,
		SpawnInterval: t.BaseSpawnInterval,
		Level:         1,
	}
}

// Update folds one frame of dt into d. elapsed and score are absolute;
// values lower than the recorded ones are ignored so nothing regresses.
func Update(t Tuning, d Difficulty, dt, elapsed float64, score int) Difficulty {
	d.Elapsed = math.Max(d.Elapsed, elapsed)
	d.Score = max(d.Score, score)
	if dt < 0 {
		dt = 0
	}

	inc := t.BaseIncrement + (d.Elapsed/t.TimeWindow+float64(d.Score)*t.ScoreWeight)*t.ScaleFactor
	d.Speed = math.Min(t.MaxSpeed, d.Speed+inc*dt)

	lvl := max(int(d.Elapsed/t.TimeWindow)+1, d.Score/t.ScoreWindow+1)
	d.Level = max(d.Level, lvl)
	d.SpawnInterval = SpawnInterval(t, d.Level)
	return d
}

// SpawnInterval is 1/spawnRate(level).
func SpawnInterval(t Tuning, level int) float64 {
	return math.Max(t.MinSpawnInterval, t.BaseSpawnInterval-float64(level-1)*t.SpawnReduction)
}

// ShouldSpawn gates spawning on both the interval and the live cap.
func ShouldSpawn(d Difficulty, now float64, live, capacity int) bool {
	return now-d.LastSpawn > d.SpawnInterval && live < capacity
}

// SpawnPosition picks a uniform lane and a jittered far distance (z < 0).
func SpawnPosition(t Tuning, rng outcome.RandomSource) (lane int, z float64) {
	if rng == nil {
		rng = outcome.DefaultRNG()
	}
	lane = min(int(rng.Float64()*float64(len(t.Lanes))), len(t.Lanes)-1)
	z = -(t.FarDistance + rng.Float64()*t.FarJitter)
	return lane, z
}
