// Package clock runs delayed callbacks on the goroutine that polls it.
//
// Hosts drain a Queue once per loop iteration so timer callbacks mutate
// renderer state on the same goroutine that issues draw calls.
package clock

import (
	"container/heap"
	"time"
)

type timer struct {
	due time.Time
	seq uint64
	fn  func()
}

type timerHeap []timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(timer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = timer{}
	*h = old[:n-1]
	return t
}

// Queue is a single-threaded timer queue. It is not safe for concurrent use.
type Queue struct {
	now    func() time.Time
	timers timerHeap
	seq    uint64
}

// NewQueue creates a queue reading the current time from now.
// A nil now uses time.Now.
func NewQueue(now func() time.Time) *Queue {
	if now == nil {
		now = time.Now
	}
	return &Queue{now: now}
}

// AfterFunc schedules fn to run on the first Run call at or after d from now.
func (q *Queue) AfterFunc(d time.Duration, fn func()) {
	q.seq++
	heap.Push(&q.timers, timer{due: q.now().Add(d), seq: q.seq, fn: fn})
}

// Run executes every callback due at the current time, in due order.
// Callbacks scheduled by a running callback wait for the next Run.
// Returns the number of callbacks executed.
func (q *Queue) Run() int {
	now := q.now()
	var due []timer
	for q.timers.Len() > 0 {
		if q.timers[0].due.After(now) {
			break
		}
		due = append(due, heap.Pop(&q.timers).(timer))
	}
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Pending returns the number of scheduled callbacks.
func (q *Queue) Pending() int {
	return q.timers.Len()
}

// Next returns the due time of the earliest callback.
func (q *Queue) Next() (time.Time, bool) {
	if q.timers.Len() == 0 {
		return time.Time{}, false
	}
	return q.timers[0].due, true
}
