// Package debounce coalesces bursts of calls into the last one.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs only the most recent function handed to Trigger once no new
// call has arrived for the configured delay. A single Debouncer is meant to
// live as long as its owner so a pending call is never lost to re-creation.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	pending func()
	waiters []chan struct{}
	stopped bool
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing any call still waiting in the window.
// The returned channel is closed after the coalesced call has run, or when
// the debouncer is stopped.
func (d *Debouncer) Trigger(fn func()) <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	done := make(chan struct{})
	if d.stopped {
		close(done)
		return done
	}

	d.waiters = append(d.waiters, done)
	d.pending = fn
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })

	return done
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// a newer Trigger raced with this timer; its own timer will fire
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	waiters := d.waiters
	d.pending = nil
	d.waiters = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
	for _, w := range waiters {
		close(w)
	}
}

// Pending reports whether a call is waiting for its window to elapse.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop drops any pending call and releases its waiters. Later Triggers are no-ops.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	for _, w := range d.waiters {
		close(w)
	}
	d.waiters = nil
}
