package notify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalBusFansOutToAllSubscribers(t *testing.T) {
	bus := NewLocalBus()

	var a, b int
	bus.Subscribe(func(Event) { a++ })
	bus.Subscribe(func(Event) { b++ })

	require.NoError(t, bus.Publish(context.Background(), Event{Key: "k"}))
	require.NoError(t, bus.Publish(context.Background(), Event{Key: "k"}))

	require.Equal(t, 2, a)
	require.Equal(t, 2, b)
}

func TestWatcherCollapsesBurstToOneCallback(t *testing.T) {
	bus := NewLocalBus()

	var fired int32
	w := NewWatcher(bus, "doc", 30*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	defer w.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(context.Background(), Event{Key: "doc"}))
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 1
	}, time.Second, 10*time.Millisecond)

	// No further callbacks without further events
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestWatcherIgnoresOtherKeys(t *testing.T) {
	bus := NewLocalBus()

	var fired int32
	w := NewWatcher(bus, "doc", 20*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	defer w.Close()

	require.NoError(t, bus.Publish(context.Background(), Event{Key: "something_else"}))

	time.Sleep(80 * time.Millisecond)
	require.Zero(t, atomic.LoadInt32(&fired))
}

func TestWatcherFiresAgainForNewBurst(t *testing.T) {
	bus := NewLocalBus()

	var fired int32
	w := NewWatcher(bus, "doc", 20*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	defer w.Close()

	require.NoError(t, bus.Publish(context.Background(), Event{Key: "doc"}))
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), Event{Key: "doc"}))
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestWatcherCloseStopsPendingCallback(t *testing.T) {
	bus := NewLocalBus()

	var fired int32
	w := NewWatcher(bus, "doc", 50*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	require.NoError(t, bus.Publish(context.Background(), Event{Key: "doc"}))
	w.Close()

	time.Sleep(120 * time.Millisecond)
	require.Zero(t, atomic.LoadInt32(&fired))
}
