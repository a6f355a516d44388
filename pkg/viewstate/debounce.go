package viewstate

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of calls into a single invocation of the most
// recently supplied function. Each call restarts the wait timer; maxWait
// bounds how long a continuous burst can postpone the invocation, measured
// from the first call of the burst.
type debouncer struct {
	wait    time.Duration
	maxWait time.Duration
	now     func() time.Time

	mu      sync.Mutex
	timer   *time.Timer
	fn      func()
	pending bool
	first   time.Time
}

func newDebouncer(wait, maxWait time.Duration, now func() time.Time) *debouncer {
	if now == nil {
		now = time.Now
	}
	return &debouncer{wait: wait, maxWait: maxWait, now: now}
}

// Call schedules fn, replacing any previously scheduled function.
func (d *debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fn = fn
	now := d.now()
	if !d.pending {
		d.pending = true
		d.first = now
	}

	delay := d.wait
	if d.maxWait > 0 {
		if remaining := d.maxWait - now.Sub(d.first); remaining < delay {
			delay = remaining
			if delay < 0 {
				delay = 0
			}
		}
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop cancels any scheduled invocation without running it.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
	d.pending = false
}
