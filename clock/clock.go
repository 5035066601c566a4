// Package clock provides the monotonic game clock and the deferred work
// queue that cascading hazard effects are scheduled on.
package clock

import "time"

// Clock is a frame-stepped monotonic game clock. It only moves when the host
// loop advances it, so pausing the loop pauses every cooldown and timer.
type Clock struct {
	now   time.Duration
	frame uint64
}

// New returns a clock at time zero, frame zero.
func New() *Clock {
	return &Clock{}
}

// Advance moves the clock forward by dt and starts a new frame. Negative
// deltas are treated as zero.
func (c *Clock) Advance(dt time.Duration) time.Duration {
	if c == nil {
		return 0
	}
	if dt > 0 {
		c.now += dt
	}
	c.frame++
	return c.now
}

// Now returns elapsed game time.
func (c *Clock) Now() time.Duration {
	if c == nil {
		return 0
	}
	return c.now
}

// Frame returns the number of frames advanced so far.
func (c *Clock) Frame() uint64 {
	if c == nil {
		return 0
	}
	return c.frame
}
