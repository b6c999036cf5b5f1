// internal/countdown/countdown.go
package countdown

import "time"

// Timer is a cancellable, restartable countdown.
//
// It does not run callbacks on its own goroutine. The owner selects on C()
// and calls Advance() for every tick received, so onTick and onExpire
// always run in the owner's goroutine. C() is nil while stopped, which
// blocks forever in a select.
type Timer struct {
	interval time.Duration
	step     float64 // interval in seconds

	ticker    *time.Ticker
	remaining float64
	onTick    func(remaining float64)
	onExpire  func()
}

// New creates a stopped timer with a fixed tick interval.
func New(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{
		interval: interval,
		step:     interval.Seconds(),
	}
}

// Start begins counting down from initialSeconds. A running countdown is
// stopped first; its pending ticks are never delivered.
// A non-positive start expires on the first tick.
func (t *Timer) Start(initialSeconds float64, onTick func(remaining float64), onExpire func()) {
	t.Stop()

	if initialSeconds < 0 {
		initialSeconds = 0
	}
	t.remaining = initialSeconds
	t.onTick = onTick
	t.onExpire = onExpire
	t.ticker = time.NewTicker(t.interval)
}

// Stop cancels the countdown. Safe to call when nothing is running.
func (t *Timer) Stop() {
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	t.ticker = nil
	t.onTick = nil
	t.onExpire = nil
}

// C returns the tick channel of the running countdown, or nil.
func (t *Timer) C() <-chan time.Time {
	if t.ticker == nil {
		return nil
	}
	return t.ticker.C
}

// Running reports whether a countdown is active.
func (t *Timer) Running() bool {
	return t.ticker != nil
}

// Remaining returns the seconds left on the active countdown.
func (t *Timer) Remaining() float64 {
	if t.ticker == nil {
		return 0
	}
	return t.remaining
}

// Interval returns the tick interval.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// Advance applies one tick: decrement, clamp at zero, notify.
// At zero the timer stops itself before onExpire runs, so onExpire
// fires exactly once and may call Start again.
func (t *Timer) Advance() {
	if t.ticker == nil {
		return
	}

	t.remaining -= t.step
	// Float steps (0.1 s) drift; snap tiny residues to zero.
	if t.remaining < t.step/1000 {
		t.remaining = 0
	}

	onTick, onExpire := t.onTick, t.onExpire
	remaining := t.remaining

	if remaining == 0 {
		t.Stop()
	}

	if onTick != nil {
		onTick(remaining)
	}
	if remaining == 0 && onExpire != nil {
		onExpire()
	}
}
