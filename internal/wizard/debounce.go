package wizard

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay between the last field change and validation.
const DefaultDebounce = 300 * time.Millisecond

// Clock provides time-related operations for testability.
type Clock interface {
	Now() time.Time
	// NewTimer creates a Timer that delivers the time on its channel after d.
	NewTimer(d time.Duration) Timer
}

// Timer is a stoppable one-shot timer.
type Timer interface {
	Stop() bool
	C() <-chan time.Time
}

// RealClock implements Clock using the time package.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) NewTimer(d time.Duration) Timer {
	return &realTimer{timer: time.NewTimer(d)}
}

type realTimer struct {
	timer *time.Timer
}

func (t *realTimer) Stop() bool          { return t.timer.Stop() }
func (t *realTimer) C() <-chan time.Time { return t.timer.C }

// Debouncer runs the most recently scheduled function once the delay has
// passed without a newer Schedule. Superseded functions never run.
type Debouncer struct {
	clock Clock
	delay time.Duration

	mu     sync.Mutex
	gen    uint64
	timer  Timer
	cancel chan struct{}
}

// NewDebouncer creates a debouncer. A nil clock uses RealClock.
func NewDebouncer(clock Clock, delay time.Duration) *Debouncer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Debouncer{clock: clock, delay: delay}
}

// Schedule replaces any pending function with fn. A non-positive delay runs
// fn immediately on the caller's goroutine.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	d.stopLocked()
	d.gen++
	if d.delay <= 0 {
		d.mu.Unlock()
		fn()
		return
	}

	gen := d.gen
	timer := d.clock.NewTimer(d.delay)
	cancel := make(chan struct{})
	d.timer, d.cancel = timer, cancel
	d.mu.Unlock()

	go func() {
		select {
		case <-timer.C():
		case <-cancel:
			return
		}

		d.mu.Lock()
		if d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.timer, d.cancel = nil, nil
		d.mu.Unlock()

		fn()
	}()
}

// Cancel discards the pending function, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
}

// Pending reports whether a scheduled function is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer == nil {
		return
	}
	d.timer.Stop()
	close(d.cancel)
	d.timer, d.cancel = nil, nil
}
