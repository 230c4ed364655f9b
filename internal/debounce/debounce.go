// Package debounce provides a trailing-edge debouncer for high-frequency
// string inputs (search keystrokes, autocomplete queries).
package debounce

import (
	"sync"
	"time"
)

// Debouncer collapses a burst of Call invocations into a single callback with
// the last value, fired after a quiet period. The callback runs on a timer
// goroutine; it must do its own synchronization.
type Debouncer struct {
	quiet time.Duration
	fn    func(string)

	mu    sync.Mutex
	timer *time.Timer
}

func New(quiet time.Duration, fn func(string)) *Debouncer {
	if quiet <= 0 {
		quiet = 300 * time.Millisecond
	}
	return &Debouncer{quiet: quiet, fn: fn}
}

// Call schedules fn(v) after the quiet period, cancelling any pending call.
func (d *Debouncer) Call(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() { d.fn(v) })
}

// Cancel drops any pending call. A callback already started is not
// interrupted.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
