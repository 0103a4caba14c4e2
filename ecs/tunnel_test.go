package ecs

import (
	"sync"
	"testing"
)

const (
	testDiedType EventType = "test_died"
	testHitType  EventType = "test_hit"
)

type testDied struct {
	EntityID EntityID
	Damage   int
}

func (e testDied) Type() EventType { return testDiedType }

func (e testDied) WithDamage(damage int) testDied {
	e.Damage = damage
	return e
}

type testHit struct{ EntityID EntityID }

func (e testHit) Type() EventType { return testHitType }

func TestConsumeOnceAndPeekBefore(t *testing.T) {
	tm := NewTunnelManager(0)
	producer := tm.Producer(testDiedType)
	consumer := tm.Consumer(testDiedType)
	subscriber := tm.Subscriber(testDiedType)

	if !producer.Produce(testDied{EntityID: 42}) {
		t.Fatal("Produce should succeed")
	}

	peeked := subscriber.PeekAll()
	if len(peeked) != 1 || peeked[0].(testDied).EntityID != 42 {
		t.Fatalf("PeekAll before consume: expected the event, got %v", peeked)
	}
	if again := subscriber.PeekAll(); len(again) != 1 {
		t.Fatalf("peeking must not remove entries, got %v", again)
	}

	event, ok := consumer.Consume()
	if !ok || event.(testDied).EntityID != 42 {
		t.Fatalf("Consume: expected the event, got %v %v", event, ok)
	}
	if _, ok := consumer.Consume(); ok {
		t.Error("second Consume should return empty")
	}
	if after := subscriber.PeekAll(); len(after) != 0 {
		t.Errorf("PeekAll after consume: expected empty, got %v", after)
	}
}

func TestSameTypeSharesQueue(t *testing.T) {
	tm := NewTunnelManager(0)
	tm.Producer(testDiedType).Produce(testDied{EntityID: 1})
	tm.Producer(testDiedType).Produce(testDied{EntityID: 2})
	tm.Producer(testHitType).Produce(testHit{EntityID: 3})

	died := tm.Consumer(testDiedType).ConsumeAll()
	if len(died) != 2 {
		t.Fatalf("Expected 2 died events, got %d", len(died))
	}
	if died[0].(testDied).EntityID != 1 || died[1].(testDied).EntityID != 2 {
		t.Errorf("ConsumeAll should preserve FIFO order, got %v", died)
	}
	if hits := tm.Consumer(testHitType).ConsumeAll(); len(hits) != 1 {
		t.Errorf("other types must not be routed together, got %v", hits)
	}
}

func TestExactlyOnceAcrossConsumers(t *testing.T) {
	tm := NewTunnelManager(0)
	producer := tm.Producer(testDiedType)
	consumers := []*Consumer{tm.Consumer(testDiedType), tm.Consumer(testDiedType), tm.Consumer(testDiedType)}

	const total = 90
	for i := 0; i < total; i++ {
		producer.Produce(testDied{EntityID: EntityID(i)})
	}

	counts := make(map[EntityID]int)
	for i := 0; ; i++ {
		event, ok := consumers[i%len(consumers)].Consume()
		if !ok {
			break
		}
		counts[event.(testDied).EntityID]++
	}

	if len(counts) != total {
		t.Fatalf("Expected %d distinct events, got %d", total, len(counts))
	}
	for id, n := range counts {
		if n != 1 {
			t.Errorf("event %d consumed %d times", id, n)
		}
	}
}

func TestCapacityRejectsWithoutPanic(t *testing.T) {
	tm := NewTunnelManager(2)
	producer := tm.Producer(testDiedType)

	if !producer.Produce(testDied{EntityID: 1}) || !producer.Produce(testDied{EntityID: 2}) {
		t.Fatal("first two events should fit")
	}
	if producer.Produce(testDied{EntityID: 3}) {
		t.Error("third event should be rejected at capacity")
	}

	tm.Consumer(testDiedType).Consume()
	if !producer.Produce(testDied{EntityID: 4}) {
		t.Error("room freed by consume should accept a new event")
	}

	stats := tm.Stats()[testDiedType]
	if stats.Rejected != 1 || stats.Produced != 3 || stats.Consumed != 1 || stats.Pending != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestProduceRejectsWrongTypeAndClosed(t *testing.T) {
	tm := NewTunnelManager(0)
	producer := tm.Producer(testDiedType)

	if producer.Produce(testHit{EntityID: 1}) {
		t.Error("producer must reject events of another type")
	}
	if producer.Produce(nil) {
		t.Error("producer must reject nil events")
	}

	producer.Produce(testDied{EntityID: 1})
	tm.Close()
	if producer.Produce(testDied{EntityID: 2}) {
		t.Error("closed tunnel must reject new events")
	}
	if tm.Producer(testHitType).Produce(testHit{EntityID: 3}) {
		t.Error("queues created after Close must be closed too")
	}
	if events := tm.Consumer(testDiedType).ConsumeAll(); len(events) != 1 {
		t.Errorf("events queued before Close stay readable, got %v", events)
	}
}

func TestPeekLatest(t *testing.T) {
	tm := NewTunnelManager(0)
	producer := tm.Producer(testDiedType)
	for i := 1; i <= 5; i++ {
		producer.Produce(testDied{EntityID: EntityID(i)})
	}

	sub := tm.Subscriber(testDiedType)
	latest := sub.PeekLatest(2)
	if len(latest) != 2 || latest[0].(testDied).EntityID != 4 || latest[1].(testDied).EntityID != 5 {
		t.Errorf("PeekLatest(2): expected ids 4,5, got %v", latest)
	}
	if got := sub.PeekLatest(10); len(got) != 5 {
		t.Errorf("PeekLatest larger than queue should return all, got %d", len(got))
	}
	if got := sub.PeekLatest(0); len(got) != 0 {
		t.Errorf("PeekLatest(0) should return nothing, got %v", got)
	}
	if sub.Pending() != 5 {
		t.Errorf("peeks must not consume, pending %d", sub.Pending())
	}
}

func TestPeekNewPerHandleCursor(t *testing.T) {
	tm := NewTunnelManager(0)
	producer := tm.Producer(testDiedType)
	xp := tm.Subscriber(testDiedType)
	loot := tm.Subscriber(testDiedType)

	producer.Produce(testDied{EntityID: 1})
	if got := xp.PeekNew(); len(got) != 1 {
		t.Fatalf("xp: expected 1 new event, got %v", got)
	}
	producer.Produce(testDied{EntityID: 2})

	if got := xp.PeekNew(); len(got) != 1 || got[0].(testDied).EntityID != 2 {
		t.Errorf("xp: expected only event 2, got %v", got)
	}
	if got := loot.PeekNew(); len(got) != 2 {
		t.Errorf("loot has its own cursor, expected 2, got %v", got)
	}
	if got := xp.PeekNew(); len(got) != 0 {
		t.Errorf("xp: nothing new expected, got %v", got)
	}

	tm.Consumer(testDiedType).ConsumeAll()
	producer.Produce(testDied{EntityID: 3})
	if got := loot.PeekNew(); len(got) != 1 || got[0].(testDied).EntityID != 3 {
		t.Errorf("loot after drain: expected event 3, got %v", got)
	}
}

func TestDeriveInsteadOfMutate(t *testing.T) {
	tm := NewTunnelManager(0)
	producer := tm.Producer(testDiedType)
	consumer := tm.Consumer(testDiedType)
	subscriber := tm.Subscriber(testDiedType)

	producer.Produce(testDied{EntityID: 7, Damage: 1})
	held := subscriber.PeekAll()

	original, _ := consumer.Consume()
	producer.Produce(original.(testDied).WithDamage(99))

	if held[0].(testDied).Damage != 1 {
		t.Errorf("a subscriber's view must not change, got damage %d", held[0].(testDied).Damage)
	}
	derived, _ := consumer.Consume()
	if derived.(testDied).Damage != 99 || derived.(testDied).EntityID != 7 {
		t.Errorf("derived event wrong: %+v", derived)
	}
}

func TestConcurrentProducers(t *testing.T) {
	tm := NewTunnelManager(0)
	const workers, each = 8, 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			producer := tm.Producer(testDiedType)
			subscriber := tm.Subscriber(testDiedType)
			for i := 0; i < each; i++ {
				producer.Produce(testDied{EntityID: EntityID(base*each + i)})
				subscriber.PeekLatest(4)
			}
		}(w)
	}
	wg.Wait()

	if got := len(tm.Consumer(testDiedType).ConsumeAll()); got != workers*each {
		t.Errorf("Expected %d events, got %d", workers*each, got)
	}
}
