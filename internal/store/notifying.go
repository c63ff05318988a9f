package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"example.com/millops/internal/notify"
)

// NotifyingStore decorates a Store so every successful Save publishes
// exactly one change event carrying the written key. Constructed once
// at startup and injected wherever the store is used, so no writer can
// bypass the announcement.
type NotifyingStore struct {
	inner  Store
	bus    notify.Bus
	origin string
}

// NewNotifyingStore wraps inner so writes are announced on bus
func NewNotifyingStore(inner Store, bus notify.Bus, origin string) *NotifyingStore {
	return &NotifyingStore{
		inner:  inner,
		bus:    bus,
		origin: origin,
	}
}

// Load retrieves a blob by key
func (s *NotifyingStore) Load(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Load(ctx, key)
}

// Save stores a blob and, on success, publishes one change event. A
// publish failure never fails the write; the data is already durable
// and stale readers converge on the next event.
func (s *NotifyingStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.inner.Save(ctx, key, data); err != nil {
		return err
	}

	event := notify.Event{
		Key:    key,
		Origin: s.origin,
		At:     time.Now(),
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to publish change event")
	}
	return nil
}

// Delete removes a blob and announces the change
func (s *NotifyingStore) Delete(ctx context.Context, key string) error {
	if err := s.inner.Delete(ctx, key); err != nil {
		return err
	}

	event := notify.Event{
		Key:    key,
		Origin: s.origin,
		At:     time.Now(),
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to publish change event")
	}
	return nil
}

// Close closes the wrapped store
func (s *NotifyingStore) Close() error {
	return s.inner.Close()
}
