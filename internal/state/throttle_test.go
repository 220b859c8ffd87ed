package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }
func newFakeClock() *fakeClock               { return &fakeClock{t: time.Unix(1700000000, 0)} }

func TestThrottle_DropsCallsInsideWindow(t *testing.T) {
	clk := newFakeClock()
	calls := 0
	th := NewThrottle(func() { calls++ }, FrameInterval, WithClock(clk.now))

	assert.True(t, th.Invoke())
	clk.advance(FrameInterval / 2)
	assert.False(t, th.Invoke())
	assert.Equal(t, 1, calls)

	clk.advance(FrameInterval / 2)
	assert.True(t, th.Invoke())
	assert.Equal(t, 2, calls)
}

func TestThrottle_CancelLetsNextCallThrough(t *testing.T) {
	clk := newFakeClock()
	calls := 0
	th := NewThrottle(func() { calls++ }, time.Hour, WithClock(clk.now))

	th.Cancel() // nothing pending
	th.Invoke()
	th.Invoke()
	assert.Equal(t, 1, calls)

	th.Cancel()
	assert.True(t, th.Invoke())
	assert.Equal(t, 2, calls)
}

func TestThrottle_RealClock(t *testing.T) {
	calls := 0
	th := NewThrottle(func() { calls++ }, time.Hour)
	th.Invoke()
	th.Invoke()
	assert.Equal(t, 1, calls)
}
