package notify

import (
	"testing"
)

func ev(item string, total float64) Event {
	return Event{Kind: KindItemTotal, ItemName: item, Total: total}
}

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	b := NewBroker()
	s1 := b.Subscribe(4)
	s2 := b.Subscribe(4)

	b.Publish(ev("tepung terigu", 80))

	for i, s := range []*Subscriber{s1, s2} {
		got := <-s.C
		if got.ItemName != "tepung terigu" || got.Total != 80 {
			t.Fatalf("subscriber %d got %+v", i, got)
		}
	}
}

func TestItemFilter(t *testing.T) {
	b := NewBroker()
	s := b.Subscribe(4, "gula pasir")

	b.Publish(ev("tepung terigu", 80))
	b.Publish(ev("gula pasir", 12))

	got := <-s.C
	if got.ItemName != "gula pasir" {
		t.Fatalf("filtered subscriber got %+v", got)
	}
	select {
	case extra := <-s.C:
		t.Fatalf("unexpected extra event %+v", extra)
	default:
	}
}

func TestDropOldestWhenBufferFull(t *testing.T) {
	b := NewBroker()
	s := b.Subscribe(2)

	b.Publish(ev("beras", 1))
	b.Publish(ev("beras", 2))
	b.Publish(ev("beras", 3)) // evicts total=1

	first := <-s.C
	second := <-s.C
	if first.Total != 2 || second.Total != 3 {
		t.Fatalf("got totals %v, %v; want 2, 3", first.Total, second.Total)
	}
}

func TestSameKeyOrderPreserved(t *testing.T) {
	b := NewBroker()
	s := b.Subscribe(16)

	for i := 1; i <= 10; i++ {
		b.Publish(ev("minyak goreng", float64(i)))
	}
	for i := 1; i <= 10; i++ {
		got := <-s.C
		if got.Total != float64(i) {
			t.Fatalf("event %d has total %v", i, got.Total)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker()
	s := b.Subscribe(4)
	b.Unsubscribe(s)
	b.Unsubscribe(s) // idempotent

	b.Publish(ev("beras", 1))

	if _, ok := <-s.C; ok {
		t.Fatal("channel still open after unsubscribe")
	}
}

func TestCloseShutsDownSubscribers(t *testing.T) {
	b := NewBroker()
	s := b.Subscribe(4)
	b.Close()

	if _, ok := <-s.C; ok {
		t.Fatal("channel still open after broker close")
	}
	b.Publish(ev("beras", 1)) // no-op, must not panic

	late := b.Subscribe(4)
	if _, ok := <-late.C; ok {
		t.Fatal("subscription after close should be closed immediately")
	}
}
