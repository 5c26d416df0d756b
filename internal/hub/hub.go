package hub

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/atikulmunna/piqlog/internal/model"
)

const subscriberBuffer = 1024

// Subscription is one consumer of the entry stream. Entries rejected by its
// match function are never queued for it.
type Subscription struct {
	C <-chan model.Entry

	ch      chan model.Entry
	match   func(model.Entry) bool
	dropped atomic.Int64
}

// Dropped returns the number of entries this subscriber was too slow to take.
func (s *Subscription) Dropped() int64 { return s.dropped.Load() }

// Hub fans assembled entries out to every subscriber without ever blocking
// the scan loop that feeds it.
type Hub struct {
	input <-chan model.Entry

	mu          sync.Mutex
	subscribers map[*Subscription]struct{}
	closed      bool

	published atomic.Int64
	dropped   atomic.Int64
}

// New creates a Hub that reads from the input channel.
func New(input <-chan model.Entry) *Hub {
	return &Hub{
		input:       input,
		subscribers: make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a consumer. A nil match accepts every entry. Subscribing
// to a hub that has already stopped returns a closed subscription.
func (h *Hub) Subscribe(match func(model.Entry) bool) *Subscription {
	ch := make(chan model.Entry, subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch, match: match}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return sub
	}
	h.subscribers[sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and closes its channel. It is safe to call after
// the hub has stopped.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub]; !ok {
		return
	}
	delete(h.subscribers, sub)
	close(sub.ch)
}

// Published returns the number of entries fully broadcast.
func (h *Hub) Published() int64 { return h.published.Load() }

// Dropped returns the number of deliveries skipped across all subscribers.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

// Start reads entries and broadcasts them until the context is cancelled or
// the input is closed. All subscriptions are closed on return.
func (h *Hub) Start(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-h.input:
			if !ok {
				return
			}
			h.broadcast(entry)
			h.published.Add(1)
		}
	}
}

func (h *Hub) broadcast(entry model.Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subscribers {
		if sub.match != nil && !sub.match(entry) {
			continue
		}
		select {
		case sub.ch <- entry:
		default:
			sub.dropped.Add(1)
			total := h.dropped.Add(1)
			log.Printf("hub: dropped line %d of %s for slow consumer (total dropped: %d)",
				entry.Summary.LineNumber, entry.Source, total)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		close(sub.ch)
	}
	h.subscribers = make(map[*Subscription]struct{})
	h.closed = true
}
