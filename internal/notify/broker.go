// Package notify fans aggregate-view updates out to in-process subscribers
// (the WebSocket hub, export tooling, tests) without the producer ever
// blocking on a slow consumer.
package notify

import (
	"sync"

	"github.com/google/uuid"
)

type EventKind string

const (
	// KindSupplierStock carries a new totalStock for one (item, supplier) key.
	KindSupplierStock EventKind = "supplier_stock"
	// KindItemTotal carries a new rolled-up total for one item.
	KindItemTotal EventKind = "item_total"
)

// Event is one recomputed aggregate value. SupplierID and SupplierName are
// only set for KindSupplierStock.
type Event struct {
	Kind         EventKind `json:"kind"`
	ItemName     string    `json:"item_name"`
	SupplierID   uuid.UUID `json:"supplier_id,omitempty"`
	SupplierName string    `json:"supplier_name,omitempty"`
	Total        float64   `json:"total"`
	Unit         string    `json:"unit"`
}

// Subscriber receives events on C. Delivery per key follows computation
// order; when the buffer is full the oldest buffered event is dropped, so a
// slow subscriber sees the newest values rather than stalling the producer.
type Subscriber struct {
	C     chan Event
	items map[string]struct{} // empty = all items
}

func (s *Subscriber) wants(item string) bool {
	if len(s.items) == 0 {
		return true
	}
	_, ok := s.items[item]
	return ok
}

// Broker is the change notification layer. The zero value is not usable;
// call NewBroker.
type Broker struct {
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	closed bool
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber with the given buffer size. Passing
// item names restricts delivery to those items; no items means everything.
func (b *Broker) Subscribe(buffer int, items ...string) *Subscriber {
	if buffer < 1 {
		buffer = 1
	}
	sub := &Subscriber{C: make(chan Event, buffer)}
	if len(items) > 0 {
		sub.items = make(map[string]struct{}, len(items))
		for _, it := range items {
			sub.items[it] = struct{}{}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.C)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe stops delivery and closes the subscriber's channel. Safe to
// call more than once.
func (b *Broker) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.C)
	}
}

// Publish delivers ev to every interested subscriber. It never blocks: a
// full buffer drops its oldest event to make room. Holding the broker lock
// across the whole fan-out keeps per-key ordering intact for each
// subscriber.
func (b *Broker) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for sub := range b.subs {
		if !sub.wants(ev.ItemName) {
			continue
		}
		for {
			select {
			case sub.C <- ev:
			default:
				select {
				case <-sub.C: // drop oldest
				default:
				}
				continue
			}
			break
		}
	}
}

// Close unregisters and closes every subscriber; further Publish calls are
// no-ops and further Subscribe calls return an already-closed subscriber.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.C)
	}
}
