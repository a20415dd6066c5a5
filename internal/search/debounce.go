package search

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of triggers into the single last one:
// each Trigger schedules its task after the quiet period and cancels
// whatever was previously scheduled. Superseded tasks never run. Each
// search context owns its own Debouncer so timers don't interfere.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules task to run after the quiet period, cancelling any
// previously scheduled task. The task runs on a timer goroutine.
func (d *Debouncer) Trigger(task func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, task)
}

// Stop cancels any pending task.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
