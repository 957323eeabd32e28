// Package gesture carries parameter gesture begin/end notifications from
// the audio thread to the UI thread without coalescing them.
package gesture

import (
	"sync/atomic"
)

// DefaultCapacity is the queue size used when none is configured.
const DefaultCapacity = 256

// Event is one gesture notification.
type Event struct {
	Index    int
	Starting bool
}

type cell struct {
	seq   atomic.Uint64
	event Event
}

// Queue is a bounded lock-free FIFO with many producers and one consumer.
//
// When the queue is full, Push drops the event being pushed (drop newest)
// and counts it. Events already queued are never overwritten, so a gesture
// end is never delivered without the start that preceded it.
type Queue struct {
	_       [64]byte
	head    atomic.Uint64 // next slot to publish into
	_       [56]byte
	tail    atomic.Uint64 // next slot to consume from
	_       [56]byte
	dropped atomic.Uint64
	mask    uint64
	cells   []cell
}

// NewQueue creates a queue holding at least capacity events. Capacity is
// rounded up to a power of two; values below 2 use DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity < 2 {
		capacity = DefaultCapacity
	}
	size := uint64(1)
	for size < uint64(capacity) {
		size <<= 1
	}

	q := &Queue{
		mask:  size - 1,
		cells: make([]cell, size),
	}
	for i := range q.cells {
		q.cells[i].seq.Store(uint64(i))
	}
	return q
}

// Push enqueues e. Returns false if the queue was full and e was dropped.
//
// Safe for concurrent producers. Never blocks and never allocates; a
// producer only retries when another producer claimed the same slot.
func (q *Queue) Push(e Event) bool {
	pos := q.head.Load()
	for {
		c := &q.cells[pos&q.mask]
		seq := c.seq.Load()
		switch diff := int64(seq) - int64(pos); {
		case diff == 0:
			if q.head.CompareAndSwap(pos, pos+1) {
				c.event = e
				c.seq.Store(pos + 1)
				return true
			}
			pos = q.head.Load()
		case diff < 0:
			q.dropped.Add(1)
			return false
		default:
			pos = q.head.Load()
		}
	}
}

// Pop removes the oldest event. Consumer only.
func (q *Queue) Pop() (Event, bool) {
	pos := q.tail.Load()
	c := &q.cells[pos&q.mask]
	if c.seq.Load() != pos+1 {
		return Event{}, false
	}
	e := c.event
	c.seq.Store(pos + q.mask + 1)
	q.tail.Store(pos + 1)
	return e, true
}

// Drain pops at most limit events and passes them to fn in FIFO order,
// stopping early once fn returns false. A limit of zero or less means one
// full queue's worth, so a producer that keeps pushing cannot hold the
// consumer forever. Returns the number of events delivered. Consumer only.
func (q *Queue) Drain(limit int, fn func(Event) bool) int {
	if limit <= 0 {
		limit = len(q.cells)
	}
	n := 0
	for n < limit {
		e, ok := q.Pop()
		if !ok {
			return n
		}
		n++
		if !fn(e) {
			return n
		}
	}
	return n
}

// Len approximates the number of queued events.
func (q *Queue) Len() int {
	head, tail := q.head.Load(), q.tail.Load()
	if head <= tail {
		return 0
	}
	return int(head - tail)
}

// Cap returns the number of slots.
func (q *Queue) Cap() int {
	return len(q.cells)
}

// Dropped returns how many events Push has discarded.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
