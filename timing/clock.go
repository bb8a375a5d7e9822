package timing

import "time"

// Clock abstracts the time source used by the stopwatch so tests can
// substitute a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the host's native clock. Readings carry Go's
// monotonic component, so differences are immune to wall-clock jumps.
func SystemClock() Clock { return systemClock{} }

type wallClock struct{}

// Round(0) strips the monotonic reading, leaving wall time only.
func (wallClock) Now() time.Time { return time.Now().Round(0) }

// WallClock returns the fallback clock for hosts without a native monotonic
// source. Differences are taken over wall time and may be skewed by clock
// adjustments.
func WallClock() Clock { return wallClock{} }

// ClockFor picks the clock matching the host's capabilities.
func ClockFor(caps Capabilities) Clock {
	if caps.HasNativeClock {
		return SystemClock()
	}
	return WallClock()
}

// Time runs fn once, synchronously, and returns the elapsed time in
// seconds. It is a plain stopwatch and has no relation to the mark table.
func (c *Calculator) Time(fn func()) float64 {
	return c.TimeMillis(fn) / 1000
}

// TimeMillis is Time with the duration in milliseconds.
func (c *Calculator) TimeMillis(fn func()) float64 {
	start := c.clock.Now()
	fn()
	return float64(c.clock.Now().Sub(start)) / float64(time.Millisecond)
}
