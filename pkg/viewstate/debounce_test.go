package viewstate

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestDebouncer_CollapsesBurst(t *testing.T) {
	d := newDebouncer(20*time.Millisecond, 200*time.Millisecond, nil)

	var fired int32
	var last atomic.Value
	for _, text := range []string{"a", "ab", "abc"} {
		text := text
		d.Call(func() {
			atomic.AddInt32(&fired, 1)
			last.Store(text)
		})
		time.Sleep(5 * time.Millisecond)
	}

	waitFor(t, time.Second, func() bool { return atomic.LoadInt32(&fired) > 0 })
	time.Sleep(40 * time.Millisecond)

	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Fatalf("burst fired %d times, want 1", got)
	}
	if got := last.Load(); got != "abc" {
		t.Fatalf("fired with %v, want the last call's function", got)
	}
}

func TestDebouncer_MaxWaitCeiling(t *testing.T) {
	d := newDebouncer(30*time.Millisecond, 90*time.Millisecond, nil)

	var fired int32
	stop := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(stop) {
		d.Call(func() { atomic.AddInt32(&fired, 1) })
		time.Sleep(10 * time.Millisecond)
	}
	d.Stop()

	if atomic.LoadInt32(&fired) == 0 {
		t.Fatal("continuous burst postponed the invocation past maxWait")
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := newDebouncer(10*time.Millisecond, 50*time.Millisecond, nil)

	var fired int32
	d.Call(func() { atomic.AddInt32(&fired, 1) })
	d.Stop()

	time.Sleep(40 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Fatal("stopped debouncer still fired")
	}
}

func TestDebouncer_InjectedClock(t *testing.T) {
	base := time.Now()
	now := base
	d := newDebouncer(10*time.Millisecond, 50*time.Millisecond, func() time.Time { return now })

	var fired int32
	d.Call(func() { atomic.AddInt32(&fired, 1) })

	// Advance the injected clock past maxWait; the next call must schedule
	// an immediate fire.
	now = base.Add(100 * time.Millisecond)
	d.Call(func() { atomic.AddInt32(&fired, 1) })

	waitFor(t, time.Second, func() bool { return atomic.LoadInt32(&fired) == 1 })
}
