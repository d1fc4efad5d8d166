// Package notify fans auction events out to observers.
//
// Delivery is at-least-once and purely observational: the auction engine
// never blocks on a subscriber, and a dropped or duplicated event never
// affects auction correctness.
package notify

import (
	"sync"

	"auction-arena/utils"
)

// Broadcaster is the publish interface consumed by the auction engine.
type Broadcaster interface {
	Publish(auctionID string, event Event)
}

// subscriber receives events on a buffered channel. auctionID filters
// delivery to one auction; empty means all auctions.
type subscriber struct {
	id        string
	auctionID string
	ch        chan Event
}

// Hub is an in-process Broadcaster with per-subscriber buffered channels.
// Events for one auction reach each subscriber in publish order; a slow
// subscriber loses its oldest buffered events rather than stalling publishers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	bufferSize  int
	closed      bool
}

// NewHub creates a hub whose subscriber channels hold bufferSize events.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Hub{
		subscribers: make(map[string]*subscriber),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers an observer. auctionID narrows delivery to one
// auction; pass "" to observe everything. The returned id is for Unsubscribe.
func (h *Hub) Subscribe(auctionID string) (string, <-chan Event) {
	sub := &subscriber{
		id:        utils.GenerateID(),
		auctionID: auctionID,
		ch:        make(chan Event, h.bufferSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(sub.ch)
		return sub.id, sub.ch
	}
	h.subscribers[sub.id] = sub
	return sub.id, sub.ch
}

// Unsubscribe drops an observer and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(sub.ch)
	}
}

// Publish delivers the event to every subscriber of the auction plus all
// global subscribers. Never blocks.
func (h *Hub) Publish(auctionID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for _, sub := range h.subscribers {
		if sub.auctionID != "" && sub.auctionID != auctionID {
			continue
		}
		h.deliver(sub, event)
	}
}

// deliver pushes the event, evicting the oldest buffered event if the
// subscriber is full. Runs under the read lock; eviction contends only on
// the one channel.
func (h *Hub) deliver(sub *subscriber, event Event) {
	for {
		select {
		case sub.ch <- event:
			return
		default:
		}

		select {
		case dropped := <-sub.ch:
			utils.Warn("notify: subscriber lagging, dropped event", map[string]any{
				"subscriber_id": sub.id,
				"dropped_type":  dropped.Type,
				"auction_id":    dropped.AuctionID,
			})
		default:
		}
	}
}

// Close drops all subscribers and closes their channels. Publishes after
// Close are discarded.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subscribers {
		delete(h.subscribers, id)
		close(sub.ch)
	}
}
