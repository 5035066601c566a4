package clock

import (
	"container/heap"
	"time"
)

// Job is a deferred callback. It must check that its target still exists.
type Job func()

type item struct {
	at    time.Duration
	frame uint64
	seq   uint64
	job   Job
}

type itemHeap []*item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) { *h = append(*h, x.(*item)) }

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Queue runs jobs once the clock reaches their deadline. A job never runs on
// the frame it was scheduled in, even with a zero delay, which keeps chained
// effects from recursing within one update.
type Queue struct {
	clock *Clock
	items itemHeap
	seq   uint64
}

// NewQueue binds a queue to a clock.
func NewQueue(c *Clock) *Queue {
	return &Queue{clock: c}
}

// After schedules job to run delay after the current clock time.
func (q *Queue) After(delay time.Duration, job Job) {
	if q == nil || job == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	q.seq++
	heap.Push(&q.items, &item{
		at:    q.clock.Now() + delay,
		frame: q.clock.Frame(),
		seq:   q.seq,
		job:   job,
	})
}

// Run executes every due job scheduled on an earlier frame, in deadline
// order, and returns how many ran. Jobs scheduled while running wait for a
// later frame.
func (q *Queue) Run() int {
	if q == nil {
		return 0
	}
	now := q.clock.Now()
	frame := q.clock.Frame()
	var deferred []*item
	ran := 0
	for q.items.Len() > 0 {
		next := q.items[0]
		if next.at > now {
			break
		}
		heap.Pop(&q.items)
		if next.frame >= frame {
			deferred = append(deferred, next)
			continue
		}
		next.job()
		ran++
	}
	for _, it := range deferred {
		heap.Push(&q.items, it)
	}
	return ran
}

// Pending returns the number of jobs waiting.
func (q *Queue) Pending() int {
	if q == nil {
		return 0
	}
	return q.items.Len()
}
