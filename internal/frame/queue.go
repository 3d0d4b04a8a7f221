package frame

import (
	"container/heap"
	"time"
)

// Event is a payload due at FireAt.
type Event[T any] struct {
	FireAt  time.Time
	Payload T
	seq     uint64
}

// Queue holds scheduled events popped by the frame driver.
// Events with equal FireAt come out in scheduling order. Not safe for
// concurrent use; the owning session serializes access.
type Queue[T any] struct {
	h   eventHeap[T]
	seq uint64
}

// Schedule adds payload to fire at 'at'.
func (q *Queue[T]) Schedule(at time.Time, payload T) {
	q.seq++
	heap.Push(&q.h, Event[T]{FireAt: at, Payload: payload, seq: q.seq})
}

// After schedules payload relative to now.
func (q *Queue[T]) After(now time.Time, d time.Duration, payload T) {
	q.Schedule(now.Add(d), payload)
}

// Due pops every event with FireAt <= now, earliest first.
func (q *Queue[T]) Due(now time.Time) []T {
	var out []T
	for q.h.Len() > 0 && !q.h[0].FireAt.After(now) {
		ev := heap.Pop(&q.h).(Event[T])
		out = append(out, ev.Payload)
	}
	return out
}

// Next reports the earliest pending fire time.
func (q *Queue[T]) Next() (time.Time, bool) {
	if q.h.Len() == 0 {
		return time.Time{}, false
	}
	return q.h[0].FireAt, true
}

func (q *Queue[T]) Len() int { return q.h.Len() }

// Clear drops everything pending (restart).
func (q *Queue[T]) Clear() {
	q.h = nil
}

type eventHeap[T any] []Event[T]

func (h eventHeap[T]) Len() int { return len(h) }
func (h eventHeap[T]) Less(i, j int) bool {
	if h[i].FireAt.Equal(h[j].FireAt) {
		return h[i].seq < h[j].seq
	}
	return h[i].FireAt.Before(h[j].FireAt)
}
func (h eventHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap[T]) Push(x any)   { *h = append(*h, x.(Event[T])) }
func (h *eventHeap[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
