package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/millops/internal/notify"
)

func TestNotifyingStorePublishesOneEventPerSave(t *testing.T) {
	bus := notify.NewLocalBus()
	var events []notify.Event
	bus.Subscribe(func(e notify.Event) {
		events = append(events, e)
	})

	s := NewNotifyingStore(NewMemoryStore(), bus, "origin-1")
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, DocumentKey, []byte("a")))
	require.NoError(t, s.Save(ctx, DocumentKey, []byte("b")))
	require.NoError(t, s.Save(ctx, CartKey(1), []byte("c")))

	require.Len(t, events, 3)
	require.Equal(t, DocumentKey, events[0].Key)
	require.Equal(t, DocumentKey, events[1].Key)
	require.Equal(t, CartKey(1), events[2].Key)
	for _, e := range events {
		require.Equal(t, "origin-1", e.Origin)
		require.False(t, e.At.IsZero())
	}
}

func TestNotifyingStorePublishesOnDelete(t *testing.T) {
	bus := notify.NewLocalBus()
	var events []notify.Event
	bus.Subscribe(func(e notify.Event) {
		events = append(events, e)
	})

	s := NewNotifyingStore(NewMemoryStore(), bus, "origin-1")
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, DocumentKey, []byte("a")))
	require.NoError(t, s.Delete(ctx, DocumentKey))
	require.Len(t, events, 2)
}

func TestNotifyingStoreSkipsEventOnFailedSave(t *testing.T) {
	bus := notify.NewLocalBus()
	count := 0
	bus.Subscribe(func(notify.Event) { count++ })

	s := NewNotifyingStore(NewBoundedMemoryStore(1), bus, "origin-1")
	err := s.Save(context.Background(), DocumentKey, []byte("too big"))
	require.ErrorIs(t, err, ErrCapacityExceeded)
	require.Zero(t, count)
}
