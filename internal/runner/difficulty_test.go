package runner

import (
	"math"
	"testing"

	"github.com/xtding233/arcade-backend/internal/outcome"
)

func TestUpdateFormula(t *testing.T) {
	tn := PlusTuning()
	d := NewDifficulty(tn)
	d = Update(tn, d, 1, 60, 5)

	inc := tn.BaseIncrement + (60/tn.TimeWindow+5*tn.ScoreWeight)*tn.ScaleFactor
	if math.Abs(d.Speed-(tn.BaseSpeed+inc)) > 1e-12 {
		t.Fatalf("speed=%v want %v", d.Speed, tn.BaseSpeed+inc)
	}
	// time level: floor(60/30)+1 = 3, score level: 5/10+1 = 1
	if d.Level != 3 {
		t.Fatalf("level=%d want 3", d.Level)
	}
	if want := tn.BaseSpawnInterval - 2*tn.SpawnReduction; math.Abs(d.SpawnInterval-want) > 1e-12 {
		t.Fatalf("spawnInterval=%v want %v", d.SpawnInterval, want)
	}
}

func TestUpdateScoreLevel(t *testing.T) {
	tn := PlusTuning()
	d := Update(tn, NewDifficulty(tn), 0, 1, 42)
	if d.Level != 5 {
		t.Fatalf("score 42 should give level 5, got %d", d.Level)
	}
}

func TestUpdateClamps(t *testing.T) {
	tn := PlusTuning()
	d := NewDifficulty(tn)
	d = Update(tn, d, 1e9, 1e6, 1e6)
	if d.Speed != tn.MaxSpeed {
		t.Fatalf("speed should clamp to max, got %v", d.Speed)
	}
	if d.SpawnInterval != tn.MinSpawnInterval {
		t.Fatalf("interval should clamp to min, got %v", d.SpawnInterval)
	}
}

func TestUpdateMonotonic(t *testing.T) {
	tn := PlusTuning()
	rng := outcome.NewSeededRNG(42)
	d := NewDifficulty(tn)
	elapsed, score := 0.0, 0
	for i := 0; i < 20000; i++ {
		prev := d
		// inputs occasionally go backwards; the record must not
		elapsed += (rng.Float64() - 0.1) * 0.5
		if rng.Float64() < 0.05 {
			score += int(rng.Float64()*5) - 1
		}
		d = Update(tn, d, rng.Float64()*2, elapsed, max(score, 0))
		if d.Speed < prev.Speed || d.Level < prev.Level || d.SpawnInterval > prev.SpawnInterval {
			t.Fatalf("step %d regressed: %+v -> %+v", i, prev, d)
		}
		if d.Speed > tn.MaxSpeed || d.SpawnInterval < tn.MinSpawnInterval {
			t.Fatalf("step %d out of bounds: %+v", i, d)
		}
	}
}

func TestShouldSpawn(t *testing.T) {
	d := Difficulty{SpawnInterval: 1, LastSpawn: 10}
	cases := []struct {
		now  float64
		live int
		want bool
	}{
		{10.5, 0, false},
		{11, 0, false}, // strictly greater
		{11.01, 0, true},
		{11.01, 5, false},
	}
	for _, c := range cases {
		if got := ShouldSpawn(d, c.now, c.live, 5); got != c.want {
			t.Fatalf("now=%v live=%d: got %v want %v", c.now, c.live, got, c.want)
		}
	}
}

func TestSpawnPosition(t *testing.T) {
	tn := PlusTuning()
	lane, z := SpawnPosition(tn, outcome.Sequence(0.5, 0.5))
	if lane != 1 || z != -220 {
		t.Fatalf("got lane=%d z=%v", lane, z)
	}
	lane, _ = SpawnPosition(tn, outcome.Sequence(0.999999, 0))
	if lane != 2 {
		t.Fatalf("top of range should map to last lane, got %d", lane)
	}
}

func TestTuningValidate(t *testing.T) {
	for _, tn := range []Tuning{BasicTuning(), PlusTuning()} {
		if err := tn.Validate(); err != nil {
			t.Fatalf("%s: %v", tn.Game, err)
		}
	}
	bad := PlusTuning()
	bad.MaxSpeed = 0.1
	bad.MaxObstacles = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}
