// types.go
package game

import "github.com/xtding233/arcade-backend/internal/coins"

// Kind selects which core a game config drives.
type Kind string

const (
	KindWheel  Kind = "wheel"
	KindRunner Kind = "runner"
)

// Raw config loaded from YAML. Pointer fields mean "absent": the layer
// below (default.yaml, then built-in defaults) supplies the value.
type RawConfig struct {
	Version string        `yaml:"version"`
	Kind    Kind          `yaml:"kind,omitempty"`
	Title   string        `yaml:"title,omitempty"`
	Wheel   *WheelConfig  `yaml:"wheel,omitempty"`
	Runner  *RunnerConfig `yaml:"runner,omitempty"`
	Notes   string        `yaml:"notes,omitempty"`
}

type WheelConfig struct {
	StartCoins    *float64           `yaml:"start_coins"`
	SettleDelayMs *int               `yaml:"settle_delay_ms"`
	Cost          *CostConfig        `yaml:"cost,omitempty"`
	Physics       *PhysicsConfig     `yaml:"physics,omitempty"`
	Prizes        []PrizeConfig      `yaml:"prizes,omitempty"`
	Progression   *ProgressionConfig `yaml:"progression,omitempty"`
	Packs         []coins.Pack       `yaml:"packs,omitempty"`
}

type CostConfig struct {
	PerSpin  *float64 `yaml:"per_spin"`
	PerLevel *float64 `yaml:"per_level"`
	PerN     *float64 `yaml:"per_n"`
	N        *int     `yaml:"n"`
}

type PhysicsConfig struct {
	Friction       *float64 `yaml:"friction"`
	MinVelocity    *float64 `yaml:"min_velocity"`
	BaseVelocity   *float64 `yaml:"base_velocity"`
	VelocityJitter *float64 `yaml:"velocity_jitter"`
}

type PrizeConfig struct {
	Name    string  `yaml:"name"`
	Value   int64   `yaml:"value"`
	Weight  float64 `yaml:"weight"`
	Color   string  `yaml:"color,omitempty"`
	Icon    string  `yaml:"icon,omitempty"`
	Jackpot bool    `yaml:"jackpot,omitempty"`
}

type ProgressionConfig struct {
	Enabled          *bool    `yaml:"enabled"`
	MultiplierStep   *float64 `yaml:"multiplier_step"`
	MaxMultiplier    *float64 `yaml:"max_multiplier"`
	LuckBoost        *float64 `yaml:"luck_boost"`
	LevelEvery       *float64 `yaml:"level_every"`
	AchievementBonus *float64 `yaml:"achievement_bonus"`
}

type RunnerConfig struct {
	Lanes    []float64     `yaml:"lanes,omitempty"`
	RecycleZ *float64      `yaml:"recycle_z"`
	Speed    *SpeedConfig  `yaml:"speed,omitempty"`
	Spawn    *SpawnConfig  `yaml:"spawn,omitempty"`
	Layout   *LayoutConfig `yaml:"layout,omitempty"`
}

type SpeedConfig struct {
	Base          *float64 `yaml:"base"`
	Max           *float64 `yaml:"max"`
	BaseIncrement *float64 `yaml:"base_increment"`
	ScaleFactor   *float64 `yaml:"scale_factor"`
	TimeWindow    *float64 `yaml:"time_window"`
	ScoreWeight   *float64 `yaml:"score_weight"`
	ScoreWindow   *int     `yaml:"score_window"`
}

type SpawnConfig struct {
	Enabled      *bool    `yaml:"enabled"`
	BaseInterval *float64 `yaml:"base_interval"`
	MinInterval  *float64 `yaml:"min_interval"`
	Reduction    *float64 `yaml:"reduction"`
	MaxObstacles *int     `yaml:"max_obstacles"`
	FarDistance  *float64 `yaml:"far_distance"`
	FarJitter    *float64 `yaml:"far_jitter"`
}

type LayoutConfig struct {
	Near    *float64 `yaml:"near"`
	Spacing *float64 `yaml:"spacing"`
	Far     *float64 `yaml:"far"`
	Seed    *uint64  `yaml:"seed"`
}

// Info is the catalog entry for one playable game.
type Info struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`
}
