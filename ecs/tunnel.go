package ecs

import (
	"sync"
)

// Producer appends events of one type to its tunnel
type Producer struct {
	queue *SharedQueue
}

// Produce appends the event to the tail of the queue.
// It returns false when the queue is full, closed, or the event is of another type.
func (p *Producer) Produce(event Event) bool {
	return p.queue.push(event)
}

// Consumer removes events of one type from its tunnel.
// Every produced event is handed to exactly one Consume or ConsumeAll call.
type Consumer struct {
	queue *SharedQueue
}

// Consume removes and returns the oldest queued event
func (c *Consumer) Consume() (Event, bool) {
	return c.queue.pop()
}

// ConsumeAll drains every event currently queued, oldest first
func (c *Consumer) ConsumeAll() []Event {
	return c.queue.drain()
}

// Subscriber reads events of one type without removing them.
// Every call returns a snapshot taken at call time.
type Subscriber struct {
	queue *SharedQueue
	seen  uint64
}

// PeekAll returns every queued event, oldest first
func (s *Subscriber) PeekAll() []Event {
	events, _ := s.queue.snapshot(0, 0)
	return events
}

// PeekLatest returns up to n of the most recently queued events, oldest first
func (s *Subscriber) PeekLatest(n int) []Event {
	if n <= 0 {
		return nil
	}
	events, _ := s.queue.snapshot(0, n)
	return events
}

// PeekNew returns the queued events this subscriber has not been handed before.
// The cursor belongs to this handle, so independent subscribers each see every event once.
func (s *Subscriber) PeekNew() []Event {
	events, last := s.queue.snapshot(s.seen, 0)
	s.seen = last
	return events
}

// Pending returns the number of events currently queued
func (s *Subscriber) Pending() int {
	return s.queue.Len()
}

// TunnelManager routes events by type: one shared queue per event type, created on first use
type TunnelManager struct {
	mu       sync.Mutex
	capacity int
	queues   map[EventType]*SharedQueue
	closed   bool
}

// NewTunnelManager creates a tunnel manager whose queues hold at most capacity events.
// A capacity of zero leaves queues unbounded.
func NewTunnelManager(capacity int) *TunnelManager {
	if capacity < 0 {
		capacity = 0
	}
	return &TunnelManager{
		capacity: capacity,
		queues:   make(map[EventType]*SharedQueue),
	}
}

// queue returns the shared queue for eventType, creating it on first request
func (tm *TunnelManager) queue(eventType EventType) *SharedQueue {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	q, exists := tm.queues[eventType]
	if !exists {
		q = newSharedQueue(eventType, tm.capacity)
		if tm.closed {
			q.close()
		}
		tm.queues[eventType] = q
	}
	return q
}

// Producer returns a producer for eventType
func (tm *TunnelManager) Producer(eventType EventType) *Producer {
	return &Producer{queue: tm.queue(eventType)}
}

// Consumer returns a consumer for eventType
func (tm *TunnelManager) Consumer(eventType EventType) *Consumer {
	return &Consumer{queue: tm.queue(eventType)}
}

// Subscriber returns a subscriber for eventType with its own read cursor
func (tm *TunnelManager) Subscriber(eventType EventType) *Subscriber {
	return &Subscriber{queue: tm.queue(eventType)}
}

// Close stops every queue from accepting new events. Queued events stay readable.
func (tm *TunnelManager) Close() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.closed = true
	for _, q := range tm.queues {
		q.close()
	}
}

// Stats returns traffic counters for every event type seen so far
func (tm *TunnelManager) Stats() map[EventType]QueueStats {
	tm.mu.Lock()
	queues := make([]*SharedQueue, 0, len(tm.queues))
	for _, q := range tm.queues {
		queues = append(queues, q)
	}
	tm.mu.Unlock()

	stats := make(map[EventType]QueueStats, len(queues))
	for _, q := range queues {
		stats[q.eventType] = q.stats()
	}
	return stats
}
