package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtding233/arcade-backend/internal/coins"
	"github.com/xtding233/arcade-backend/internal/runner"
	"github.com/xtding233/arcade-backend/internal/wheel"
)

const shipped = "../../configs"

func TestShippedGames(t *testing.T) {
	l := NewLoader(shipped)
	games, err := l.Games()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, g := range games {
		names = append(names, g.Name)
	}
	if got := strings.Join(names, ","); got != "classic-wheel,deluxe-wheel,runner,runner-plus" {
		t.Fatalf("unexpected catalog %s", got)
	}
}

func TestShippedWheelsMatchBuiltins(t *testing.T) {
	l := NewLoader(shipped)
	for game, want := range map[string]wheel.Config{
		"classic-wheel": wheel.ClassicConfig(),
		"deluxe-wheel":  wheel.DeluxeConfig(),
	} {
		got, err := l.Wheel(game)
		if err != nil {
			t.Fatalf("%s: %v", game, err)
		}
		if len(got.Prizes) != len(want.Prizes) {
			t.Fatalf("%s: %d prizes", game, len(got.Prizes))
		}
		for i := range want.Prizes {
			g, w := got.Prizes[i], want.Prizes[i]
			if g.Name != w.Name || g.Weight != w.Weight || g.Payload.Value != w.Payload.Value || g.Payload.Jackpot != w.Payload.Jackpot {
				t.Fatalf("%s prize %d: got %+v want %+v", game, i, g, w)
			}
		}
		if !got.StartCoins.Equal(want.StartCoins) || !got.Pricing.CostAt(3).Equal(want.Pricing.CostAt(3)) {
			t.Fatalf("%s economy mismatch", game)
		}
		if got.Physics != want.Physics || got.SettleDelay != want.SettleDelay {
			t.Fatalf("%s physics mismatch: %+v", game, got.Physics)
		}
		if got.Progression.Enabled != want.Progression.Enabled {
			t.Fatalf("%s progression mismatch", game)
		}
		if len(got.Packs) != len(want.Packs) {
			t.Fatalf("%s: %d packs", game, len(got.Packs))
		}
		for i := range want.Packs {
			if got.Packs[i] != want.Packs[i] {
				t.Fatalf("%s pack %d: got %+v want %+v", game, i, got.Packs[i], want.Packs[i])
			}
		}
	}
	d, _ := l.Wheel("deluxe-wheel")
	if !d.Progression.MultiplierStep.Equal(decimal.RequireFromString("0.1")) || d.Progression.LuckBoost != 1.2 {
		t.Fatalf("deluxe progression: %+v", d.Progression)
	}
}

func TestShippedRunnersMatchBuiltins(t *testing.T) {
	l := NewLoader(shipped)
	for game, want := range map[string]runner.Tuning{
		"runner":      runner.BasicTuning(),
		"runner-plus": runner.PlusTuning(),
	} {
		got, err := l.Runner(game)
		if err != nil {
			t.Fatalf("%s: %v", game, err)
		}
		got.Game, want.Game = "", ""
		if got.BaseSpeed != want.BaseSpeed || got.MaxSpeed != want.MaxSpeed ||
			got.ScaleFactor != want.ScaleFactor || got.Spawning != want.Spawning ||
			got.MaxObstacles != want.MaxObstacles || got.LayoutSpacing != want.LayoutSpacing ||
			got.RecycleZ != want.RecycleZ || len(got.Lanes) != len(want.Lanes) {
			t.Fatalf("%s: got %+v want %+v", game, got, want)
		}
	}
}

func TestKindMismatch(t *testing.T) {
	l := NewLoader(shipped)
	if _, err := l.Wheel("runner"); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("want ErrUnknownGame, got %v", err)
	}
	if _, err := l.Runner("nope"); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("want ErrUnknownGame, got %v", err)
	}
	if _, err := l.LoadMerged("../default"); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("path-like names must be rejected, got %v", err)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMergeGameOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "games", "default.yaml"), `
wheel:
  settle_delay_ms: 500
  physics: { friction: 0.99, min_velocity: 0.002 }
`)
	writeFile(t, filepath.Join(dir, "games", "w.yaml"), `
kind: wheel
wheel:
  settle_delay_ms: 100
  physics: { friction: 0.98 }
  prizes:
    - { name: a, value: 1, weight: 0.5 }
    - { name: b, value: 2, weight: 0.5 }
`)
	cfg, err := NewLoader(dir).Wheel("w")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SettleDelay != 100*time.Millisecond {
		t.Fatalf("game should override delay: %v", cfg.SettleDelay)
	}
	if cfg.Physics.Friction != 0.98 || cfg.Physics.MinVelocity != 0.002 {
		t.Fatalf("physics merge wrong: %+v", cfg.Physics)
	}
	if cfg.Physics.BaseVelocity != wheel.DefaultPhysics().BaseVelocity {
		t.Fatalf("absent keys should fall back to built-ins")
	}
}

func TestValidateRawCollectsErrors(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	raw := RawConfig{
		Kind: KindWheel,
		Wheel: &WheelConfig{
			Physics: &PhysicsConfig{Friction: f(1.5)},
			Prizes: []PrizeConfig{
				{Name: "a", Value: 1, Weight: 0.8},
				{Name: "a", Value: -1, Weight: 0.8},
			},
			Packs: []coins.Pack{
				{ID: "p", Coins: 10, PriceCents: 99},
				{ID: "p", Coins: 0, PriceCents: -1},
			},
		},
	}
	err := ValidateRaw(raw)
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"friction", "duplicated", "value must be >= 0", "sum to", `packs[1].id "p"`, "price_cents"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
	if err := ValidateRaw(RawConfig{}); err == nil || !strings.Contains(err.Error(), "kind is required") {
		t.Fatalf("missing kind not reported: %v", err)
	}
}

func TestWatcherInvalidatesLoader(t *testing.T) {
	dir := t.TempDir()
	gamePath := filepath.Join(dir, "games", "r.yaml")
	writeFile(t, filepath.Join(dir, "games", "default.yaml"), "version: \"1\"\n")
	writeFile(t, gamePath, "kind: runner\nrunner:\n  speed: { base: 0.3, max: 1 }\n")

	l := NewLoader(dir)
	tn, err := l.Runner("r")
	if err != nil {
		t.Fatal(err)
	}
	if tn.BaseSpeed != 0.3 {
		t.Fatalf("base speed %v", tn.BaseSpeed)
	}

	var changed []string
	w := WatchLoader(l, time.Hour, func(p string) { changed = append(changed, p) })
	w.Scan()

	writeFile(t, gamePath, "kind: runner\nrunner:\n  speed: { base: 0.5, max: 1 }\n")
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(gamePath, future, future); err != nil {
		t.Fatal(err)
	}
	w.Scan()

	if len(changed) != 1 || changed[0] != gamePath {
		t.Fatalf("expected one change for %s, got %v", gamePath, changed)
	}
	tn, err = l.Runner("r")
	if err != nil {
		t.Fatal(err)
	}
	if tn.BaseSpeed != 0.5 {
		t.Fatalf("reload not picked up: %v", tn.BaseSpeed)
	}
}
