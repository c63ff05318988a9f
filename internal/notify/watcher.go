package notify

import (
	"sync"
	"time"
)

// DefaultDebounce is the refresh debounce for dashboard readers
const DefaultDebounce = 300 * time.Millisecond

// Watcher subscribes to a Bus and invokes a callback once per burst of
// writes to a given key: each event resets the timer, so a flurry of
// writes collapses to one callback after the debounce window.
type Watcher struct {
	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	key     string
	onBurst func()
	closed  bool
}

// NewWatcher creates a watcher for writes to key and registers it on
// the bus. A zero delay uses DefaultDebounce.
func NewWatcher(bus Bus, key string, delay time.Duration, onBurst func()) *Watcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}

	w := &Watcher{
		delay:   delay,
		key:     key,
		onBurst: onBurst,
	}
	bus.Subscribe(w.handle)
	return w
}

func (w *Watcher) handle(event Event) {
	if event.Key != w.key {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	w.onBurst()
}

// Close stops any pending burst callback. Events observed after Close
// are ignored.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
