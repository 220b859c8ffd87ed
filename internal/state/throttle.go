package state

import (
	"sync"
	"time"
)

// FrameInterval caps redraw requests at 60 per second.
const FrameInterval = time.Second / 60

// Throttle runs a callback at most once per interval. Calls that arrive
// inside the window are dropped: there is no queue and no trailing call.
type Throttle struct {
	mu       sync.Mutex
	fn       func()
	interval time.Duration
	now      func() time.Time
	ran      bool
	last     time.Time
}

type ThrottleOption func(*Throttle)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ThrottleOption {
	return func(t *Throttle) { t.now = now }
}

func NewThrottle(fn func(), interval time.Duration, opts ...ThrottleOption) *Throttle {
	t := &Throttle{fn: fn, interval: interval, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Invoke runs the callback if nothing has run yet or the interval has
// elapsed since the last run, and reports whether it did.
func (t *Throttle) Invoke() bool {
	t.mu.Lock()
	now := t.now()
	if t.ran && now.Sub(t.last) < t.interval {
		t.mu.Unlock()
		return false
	}
	t.ran = true
	t.last = now
	t.mu.Unlock()

	t.fn()
	return true
}

// Cancel forgets the last run so the next Invoke goes through.
func (t *Throttle) Cancel() {
	t.mu.Lock()
	t.ran = false
	t.last = time.Time{}
	t.mu.Unlock()
}
