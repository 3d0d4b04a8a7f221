package runner

import (
	"fmt"
	"strings"
)

// Tuning holds every constant of a runner variant. Distances are world
// units, speeds are units per reference frame, intervals are seconds of
// game time.
type Tuning struct {
	Game  string
	Lanes []float64

	PlayerSize   float64
	PlayerY      float64
	ObstacleSize float64
	ObstacleY    float64
	LateralEase  float64 // fraction of the lane gap closed per frame

	// initial layout: obstacles at -Near, -(Near+Spacing), ... down to -Far
	LayoutNear    float64
	LayoutSpacing float64
	LayoutFar     float64
	LayoutSeed    uint64

	FarDistance float64 // recycle/spawn distance
	FarJitter   float64
	RecycleZ    float64 // crossing plane behind the player

	BaseSpeed     float64
	MaxSpeed      float64
	BaseIncrement float64
	ScaleFactor   float64
	TimeWindow    float64 // seconds per time level
	ScoreWeight   float64
	ScoreWindow   int // points per score level

	Spawning          bool
	BaseSpawnInterval float64
	MinSpawnInterval  float64
	SpawnReduction    float64 // per level
	MaxObstacles      int
}

func baseTuning() Tuning {
	return Tuning{
		Lanes:         []float64{-2, 0, 2},
		PlayerSize:    1,
		PlayerY:       0.5,
		ObstacleSize:  1.2,
		ObstacleY:     0.6,
		LateralEase:   0.2,
		LayoutNear:    20,
		LayoutSpacing: 26,
		LayoutFar:     200,
		LayoutSeed:    1,
		FarDistance:   200,
		FarJitter:     40,
		RecycleZ:      9, // camera at z=8, plus one
		BaseSpeed:     0.24,
		BaseIncrement: 0.00002,
		TimeWindow:    30,
		ScoreWindow:   10,
	}
}

// BasicTuning is the original endless dodge: slow linear creep, fixed obstacle set.
func BasicTuning() Tuning {
	t := baseTuning()
	t.Game = "runner"
	t.MaxSpeed = 2
	t.BaseSpawnInterval = 1
	t.MinSpawnInterval = 1
	return t
}

// PlusTuning adds time/score driven levels and spawning up to a cap.
func PlusTuning() Tuning {
	t := baseTuning()
	t.Game = "runner-plus"
	t.MaxSpeed = 0.8
	t.ScaleFactor = 0.00001
	t.ScoreWeight = 0.02
	t.Spawning = true
	t.BaseSpawnInterval = 1.5
	t.MinSpawnInterval = 0.4
	t.SpawnReduction = 0.1
	t.MaxObstacles = 14
	return t
}

// Validate checks the tuning; problems are collected, not short-circuited.
func (t Tuning) Validate() error {
	var errs []string
	if len(t.Lanes) == 0 {
		errs = append(errs, "lanes must not be empty")
	}
	if t.PlayerSize <= 0 || t.ObstacleSize <= 0 {
		errs = append(errs, "player/obstacle size must be > 0")
	}
	if t.LayoutSpacing <= 0 {
		errs = append(errs, "layout spacing must be > 0")
	}
	if t.BaseSpeed <= 0 || t.MaxSpeed < t.BaseSpeed {
		errs = append(errs, "speed must satisfy 0 < base <= max")
	}
	if t.BaseIncrement < 0 || t.ScaleFactor < 0 || t.ScoreWeight < 0 {
		errs = append(errs, "speed increments must be >= 0")
	}
	if t.TimeWindow <= 0 || t.ScoreWindow <= 0 {
		errs = append(errs, "time/score windows must be > 0")
	}
	if t.MinSpawnInterval <= 0 || t.BaseSpawnInterval < t.MinSpawnInterval {
		errs = append(errs, "spawn interval must satisfy 0 < min <= base")
	}
	if t.SpawnReduction < 0 {
		errs = append(errs, "spawn reduction must be >= 0")
	}
	if t.Spawning && t.MaxObstacles <= 0 {
		errs = append(errs, "max obstacles must be > 0 when spawning")
	}
	if len(errs) > 0 {
		return fmt.Errorf("runner tuning invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}
