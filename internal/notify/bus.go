// Package notify propagates document-write awareness between open
// application instances through an explicit publish/subscribe bus:
// the notifying store decorator publishes one event per write (the
// same-instance mechanism) and the Redis bus relays events between
// processes (the cross-instance mechanism).
package notify

import (
	"context"
	"sync"
	"time"
)

// Event describes one store write
type Event struct {
	// Key is the name of the written blob
	Key string `json:"key"`
	// Origin identifies the instance that performed the write so
	// subscribers can ignore their own events when relayed back
	Origin string `json:"origin"`
	// At is the write time
	At time.Time `json:"at"`
}

// Handler receives change events
type Handler func(Event)

// Bus fans events out to subscribers
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(handler Handler)
	Close() error
}

// LocalBus is the in-process Bus. Publish invokes every subscriber
// synchronously, so one write produces exactly one delivery per
// subscriber.
type LocalBus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewLocalBus creates an in-process bus
func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

// Publish delivers the event to all current subscribers
func (b *LocalBus) Publish(_ context.Context, event Event) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
	return nil
}

// Subscribe registers a handler for future events
func (b *LocalBus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Close is a no-op for the local bus
func (b *LocalBus) Close() error {
	return nil
}
