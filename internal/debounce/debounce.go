// Package debounce provides a cancellable delayed-task primitive. It is
// used to hold back rapidly-changing inputs (keystroke search filters) so
// dependent work runs once after the input quiesces.
package debounce

import (
	"sync"
	"time"
)

// Debouncer schedules a single pending task to run after a quiet period.
// Scheduling a new task supersedes the pending one. Safe for concurrent use.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	pending  func()
}

// New creates a debouncer with the given quiet period.
func New(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Interval returns the configured quiet period.
func (d *Debouncer) Interval() time.Duration {
	return d.interval
}

// Schedule replaces any pending task with fn, to run once the quiet period
// elapses without another Schedule call.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		task := d.pending
		d.pending = nil
		d.timer = nil
		d.mu.Unlock()

		if task != nil {
			task()
		}
	})
}

// Cancel drops the pending task, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}

// Flush runs the pending task immediately instead of waiting out the quiet
// period. No-op when nothing is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	task := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if task != nil {
		task()
	}
}
