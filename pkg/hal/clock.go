package hal

import (
	"context"
	"runtime"
	"time"
)

// SystemClock implements Clock using the host monotonic clock.
type SystemClock struct {
	// Granularity is how long Yield sleeps.
	// Zero means runtime.Gosched only.
	Granularity time.Duration

	start time.Time
}

// NewSystemClock creates a SystemClock starting at zero now.
func NewSystemClock(granularity time.Duration) *SystemClock {
	return &SystemClock{Granularity: granularity, start: time.Now()}
}

// Now implements Clock.
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// Yield implements Clock.
func (c *SystemClock) Yield() {
	if c.Granularity > 0 {
		time.Sleep(c.Granularity)
		return
	}
	runtime.Gosched()
}

// WaitUntil busy-waits, yielding on every iteration, until clock
// reaches deadline. It returns the time observed on exit.
func WaitUntil(clock Clock, deadline time.Duration) time.Duration {
	now := clock.Now()
	for now < deadline {
		clock.Yield()
		now = clock.Now()
	}
	return now
}

// Delay busy-waits for d, yielding on every iteration. It stops early
// with ctx's error once ctx is done.
func Delay(ctx context.Context, clock Clock, d time.Duration) error {
	deadline := clock.Now() + d
	for clock.Now() < deadline {
		if err := ctx.Err(); err != nil {
			return err
		}
		clock.Yield()
	}
	return ctx.Err()
}
