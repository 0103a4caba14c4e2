package ecs

import (
	"sync"
)

// EventType identifies different types of events
type EventType string

// Event interface that all events must implement.
// Implementations are value types: once produced they are never modified,
// a changed event is a new value produced after consuming the old one.
type Event interface {
	Type() EventType
}

// queued pairs an event with its position in the queue's history
type queued struct {
	seq   uint64
	event Event
}

// SharedQueue is the FIFO behind every producer, consumer and subscriber of one event type.
// It is safe for use from multiple goroutines.
type SharedQueue struct {
	mu        sync.Mutex
	eventType EventType
	capacity  int // 0 means unbounded
	entries   []queued
	nextSeq   uint64
	closed    bool

	produced uint64
	consumed uint64
	rejected uint64
}

func newSharedQueue(eventType EventType, capacity int) *SharedQueue {
	return &SharedQueue{
		eventType: eventType,
		capacity:  capacity,
		nextSeq:   1,
	}
}

// EventType returns the single event type this queue carries
func (q *SharedQueue) EventType() EventType {
	return q.eventType
}

func (q *SharedQueue) push(event Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || event == nil || event.Type() != q.eventType ||
		(q.capacity > 0 && len(q.entries) >= q.capacity) {
		q.rejected++
		return false
	}

	q.entries = append(q.entries, queued{seq: q.nextSeq, event: event})
	q.nextSeq++
	q.produced++
	return true
}

func (q *SharedQueue) pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return nil, false
	}
	head := q.entries[0]
	q.entries[0] = queued{}
	q.entries = q.entries[1:]
	q.consumed++
	return head.event, true
}

func (q *SharedQueue) drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return nil
	}
	out := make([]Event, len(q.entries))
	for i, entry := range q.entries {
		out[i] = entry.event
	}
	q.entries = nil
	q.consumed += uint64(len(out))
	return out
}

// snapshot copies entries with seq > after, keeping at most the last n (n <= 0 means all)
func (q *SharedQueue) snapshot(after uint64, n int) ([]Event, uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	start := 0
	for start < len(q.entries) && q.entries[start].seq <= after {
		start++
	}
	if n > 0 && len(q.entries)-start > n {
		start = len(q.entries) - n
	}

	out := make([]Event, 0, len(q.entries)-start)
	for _, entry := range q.entries[start:] {
		out = append(out, entry.event)
	}
	return out, q.nextSeq - 1
}

// Len returns the number of events currently queued
func (q *SharedQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *SharedQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// QueueStats summarises the traffic of one event type
type QueueStats struct {
	Pending  int
	Produced uint64
	Consumed uint64
	Rejected uint64
}

func (q *SharedQueue) stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Pending:  len(q.entries),
		Produced: q.produced,
		Consumed: q.consumed,
		Rejected: q.rejected,
	}
}
