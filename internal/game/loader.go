package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/arcade-backend/internal/coins"
)

// Paths helper for default/game files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/arcade/configs
}

func (p Paths) GamesDir() string {
	return filepath.Join(p.BaseDir, "games")
}
func (p Paths) DefaultPath() string {
	return filepath.Join(p.GamesDir(), "default.yaml")
}
func (p Paths) GamePath(game string) string {
	return filepath.Join(p.GamesDir(), game+".yaml")
}

const defaultKey = "$default"

// ErrUnknownGame is returned when no <game>.yaml exists.
var ErrUnknownGame = errors.New("unknown game")

// Loader reads YAML configs and merges default → game.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: game or "$default"
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → game. It returns the merged
// RawConfig without validation.
func (l *Loader) LoadMerged(game string) (RawConfig, error) {
	if !validName(game) {
		return RawConfig{}, fmt.Errorf("%w: %q", ErrUnknownGame, game)
	}
	l.mu.RLock()
	if cfg, ok := l.cache[game]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	if _, err := os.Stat(l.paths.GamePath(game)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, fmt.Errorf("%w: %q", ErrUnknownGame, game)
		}
		return RawConfig{}, err
	}
	gameCfg, err := readYAML(l.paths.GamePath(game))
	if err != nil {
		return RawConfig{}, fmt.Errorf("read %s: %w", game, err)
	}

	merged := mergeRaw(defCfg, gameCfg)

	l.mu.Lock()
	l.cache[game] = merged
	l.cache[defaultKey] = defCfg
	l.mu.Unlock()

	return merged, nil
}

// Games lists every <game>.yaml next to default.yaml, sorted by name.
func (l *Loader) Games() ([]Info, error) {
	entries, err := os.ReadDir(l.paths.GamesDir())
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	var out []Info
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".yaml")
		if e.IsDir() || !ok || name == "default" {
			continue
		}
		cfg, err := l.LoadMerged(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Info{Name: name, Kind: cfg.Kind, Title: cfg.Title, Version: cfg.Version})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// WatchPaths are the files a FileWatcher should poll.
func (l *Loader) WatchPaths() []string {
	paths := []string{l.paths.DefaultPath()}
	entries, err := os.ReadDir(l.paths.GamesDir())
	if err != nil {
		return paths
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") && e.Name() != "default.yaml" {
			paths = append(paths, filepath.Join(l.paths.GamesDir(), e.Name()))
		}
	}
	return paths
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

func validName(game string) bool {
	return game != "" && game != "default" && !strings.ContainsAny(game, `/\.`)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// over returns b when set, else a.
func over[T any](a, b *T) *T {
	if b != nil {
		return b
	}
	return a
}

// mergeRaw performs a deep merge: 'b' overrides 'a' where non-nil.
// Slices (prizes, lanes) are replaced wholesale.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Kind != "" {
		out.Kind = b.Kind
	}
	if b.Title != "" {
		out.Title = b.Title
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	out.Wheel = mergeWheel(a.Wheel, b.Wheel)
	out.Runner = mergeRunner(a.Runner, b.Runner)
	return out
}

func mergeWheel(a, b *WheelConfig) *WheelConfig {
	if a == nil && b == nil {
		return nil
	}
	var out WheelConfig
	if a != nil {
		out = *a
	}
	if b == nil {
		return &out
	}
	out.StartCoins = over(out.StartCoins, b.StartCoins)
	out.SettleDelayMs = over(out.SettleDelayMs, b.SettleDelayMs)
	if len(b.Prizes) > 0 {
		out.Prizes = append([]PrizeConfig(nil), b.Prizes...)
	}
	if len(b.Packs) > 0 {
		out.Packs = append([]coins.Pack(nil), b.Packs...)
	}

	if b.Cost != nil {
		c := CostConfig{}
		if out.Cost != nil {
			c = *out.Cost
		}
		c.PerSpin = over(c.PerSpin, b.Cost.PerSpin)
		c.PerLevel = over(c.PerLevel, b.Cost.PerLevel)
		c.PerN = over(c.PerN, b.Cost.PerN)
		c.N = over(c.N, b.Cost.N)
		out.Cost = &c
	}
	if b.Physics != nil {
		p := PhysicsConfig{}
		if out.Physics != nil {
			p = *out.Physics
		}
		p.Friction = over(p.Friction, b.Physics.Friction)
		p.MinVelocity = over(p.MinVelocity, b.Physics.MinVelocity)
		p.BaseVelocity = over(p.BaseVelocity, b.Physics.BaseVelocity)
		p.VelocityJitter = over(p.VelocityJitter, b.Physics.VelocityJitter)
		out.Physics = &p
	}
	if b.Progression != nil {
		p := ProgressionConfig{}
		if out.Progression != nil {
			p = *out.Progression
		}
		p.Enabled = over(p.Enabled, b.Progression.Enabled)
		p.MultiplierStep = over(p.MultiplierStep, b.Progression.MultiplierStep)
		p.MaxMultiplier = over(p.MaxMultiplier, b.Progression.MaxMultiplier)
		p.LuckBoost = over(p.LuckBoost, b.Progression.LuckBoost)
		p.LevelEvery = over(p.LevelEvery, b.Progression.LevelEvery)
		p.AchievementBonus = over(p.AchievementBonus, b.Progression.AchievementBonus)
		out.Progression = &p
	}
	return &out
}

func mergeRunner(a, b *RunnerConfig) *RunnerConfig {
	if a == nil && b == nil {
		return nil
	}
	var out RunnerConfig
	if a != nil {
		out = *a
	}
	if b == nil {
		return &out
	}
	if len(b.Lanes) > 0 {
		out.Lanes = append([]float64(nil), b.Lanes...)
	}
	out.RecycleZ = over(out.RecycleZ, b.RecycleZ)

	if b.Speed != nil {
		s := SpeedConfig{}
		if out.Speed != nil {
			s = *out.Speed
		}
		s.Base = over(s.Base, b.Speed.Base)
		s.Max = over(s.Max, b.Speed.Max)
		s.BaseIncrement = over(s.BaseIncrement, b.Speed.BaseIncrement)
		s.ScaleFactor = over(s.ScaleFactor, b.Speed.ScaleFactor)
		s.TimeWindow = over(s.TimeWindow, b.Speed.TimeWindow)
		s.ScoreWeight = over(s.ScoreWeight, b.Speed.ScoreWeight)
		s.ScoreWindow = over(s.ScoreWindow, b.Speed.ScoreWindow)
		out.Speed = &s
	}
	if b.Spawn != nil {
		s := SpawnConfig{}
		if out.Spawn != nil {
			s = *out.Spawn
		}
		s.Enabled = over(s.Enabled, b.Spawn.Enabled)
		s.BaseInterval = over(s.BaseInterval, b.Spawn.BaseInterval)
		s.MinInterval = over(s.MinInterval, b.Spawn.MinInterval)
		s.Reduction = over(s.Reduction, b.Spawn.Reduction)
		s.MaxObstacles = over(s.MaxObstacles, b.Spawn.MaxObstacles)
		s.FarDistance = over(s.FarDistance, b.Spawn.FarDistance)
		s.FarJitter = over(s.FarJitter, b.Spawn.FarJitter)
		out.Spawn = &s
	}
	if b.Layout != nil {
		ly := LayoutConfig{}
		if out.Layout != nil {
			ly = *out.Layout
		}
		ly.Near = over(ly.Near, b.Layout.Near)
		ly.Spacing = over(ly.Spacing, b.Layout.Spacing)
		ly.Far = over(ly.Far, b.Layout.Far)
		ly.Seed = over(ly.Seed, b.Layout.Seed)
		out.Layout = &ly
	}
	return &out
}
