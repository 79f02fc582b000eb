package listctl

import (
	"sync"
	"time"
)

// Debounce window bounds. Search keystrokes must coalesce into at most
// one fetch per window of inactivity to keep request storms off the
// upstream.
const (
	MinDebounce     = 300 * time.Millisecond
	MaxDebounce     = 600 * time.Millisecond
	DefaultDebounce = 500 * time.Millisecond
)

// Debouncer coalesces rapid triggers into a single callback after a quiet
// window. Each Trigger cancels the previously scheduled callback, so only
// the last function passed within a window runs.
type Debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer. Windows outside [MinDebounce,
// MaxDebounce] are clamped; zero picks DefaultDebounce.
func NewDebouncer(window time.Duration) *Debouncer {
	switch {
	case window == 0:
		window = DefaultDebounce
	case window < MinDebounce:
		window = MinDebounce
	case window > MaxDebounce:
		window = MaxDebounce
	}
	return &Debouncer{window: window}
}

// Trigger schedules fn to run once the window elapses with no further
// triggers. fn runs on a timer goroutine.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
