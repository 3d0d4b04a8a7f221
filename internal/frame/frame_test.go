package frame

import (
	"math"
	"testing"
	"time"
)

func TestClockDelta(t *testing.T) {
	var c Clock
	t0 := time.Unix(0, 0)
	if dt := c.Delta(t0); dt != 0 {
		t.Fatalf("first delta should be 0, got %f", dt)
	}
	if dt := c.Delta(t0.Add(Reference)); math.Abs(dt-1) > 1e-9 {
		t.Fatalf("one frame should be dt=1, got %f", dt)
	}
	// long stall clamps
	if dt := c.Delta(t0.Add(5 * time.Second)); dt != MaxDelta {
		t.Fatalf("stall should clamp to %f, got %f", MaxDelta, dt)
	}
	// clock going backwards
	if dt := Delta(t0.Add(time.Second), t0); dt != 0 {
		t.Fatalf("negative span should be 0, got %f", dt)
	}
}

func TestQueueOrder(t *testing.T) {
	var q Queue[string]
	t0 := time.Unix(100, 0)
	q.Schedule(t0.Add(300*time.Millisecond), "c")
	q.Schedule(t0.Add(100*time.Millisecond), "a")
	q.Schedule(t0.Add(300*time.Millisecond), "d")
	q.Schedule(t0.Add(200*time.Millisecond), "b")

	if got := q.Due(t0); len(got) != 0 {
		t.Fatalf("nothing should be due yet: %v", got)
	}
	got := q.Due(t0.Add(250 * time.Millisecond))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected due set %v", got)
	}
	next, ok := q.Next()
	if !ok || !next.Equal(t0.Add(300*time.Millisecond)) {
		t.Fatalf("next=%v ok=%v", next, ok)
	}
	got = q.Due(t0.Add(time.Second))
	if len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Fatalf("ties must keep scheduling order: %v", got)
	}
	if q.Len() != 0 {
		t.Fatalf("queue should be drained")
	}
}

func TestQueueClear(t *testing.T) {
	var q Queue[int]
	q.After(time.Unix(0, 0), time.Millisecond, 1)
	q.Clear()
	if _, ok := q.Next(); ok {
		t.Fatalf("cleared queue should be empty")
	}
}
