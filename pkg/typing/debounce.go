// Package typing detects when the user stopped typing.
//
// A Debouncer holds at most one scheduled callback. Every Notify cancels the
// pending one and schedules a fresh one, so the handler only runs after a
// quiet period with no further calls. There is no leading edge.
package typing

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Tests inject a fake one.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Clock is the Scheduler backed by the time package.
var Clock Scheduler = clockScheduler{}

// Debouncer fires a handler after the input has been quiet for a delay.
// The handler runs on the scheduler's goroutine; with Clock that is a timer
// goroutine, not the caller's.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	sched   Scheduler
	timer   Timer
	gen     uint64
	handler func()
}

// New creates a Debouncer on the real clock.
func New(delay time.Duration, handler func()) *Debouncer {
	return NewWithScheduler(delay, Clock, handler)
}

// NewWithScheduler creates a Debouncer on a custom scheduler.
// A nil scheduler means Clock.
func NewWithScheduler(delay time.Duration, sched Scheduler, handler func()) *Debouncer {
	if sched == nil {
		sched = Clock
	}
	return &Debouncer{
		delay:   max(delay, 0),
		sched:   sched,
		handler: handler,
	}
}

// Notify cancels any pending callback and schedules a new one.
func (d *Debouncer) Notify() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Stop cancels the pending callback, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// SetDelay changes the delay used by later Notify calls.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = max(delay, 0)
}

// Delay returns the configured delay.
func (d *Debouncer) Delay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delay
}

// SetHandler replaces the handler. nil disables firing.
func (d *Debouncer) SetHandler(handler func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = handler
}

// cancelLocked bumps the generation so a callback that already left the
// scheduler but has not taken the lock yet becomes a no-op.
func (d *Debouncer) cancelLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	handler := d.handler
	d.mu.Unlock()

	if handler != nil {
		handler()
	}
}
