// Package clock measures frame-to-frame time for the scene loop.
package clock

import "time"

// DeltaTimer reports the time elapsed since it was last read. The first read
// after creation or Reset returns zero.
type DeltaTimer struct {
	last time.Time
	now  func() time.Time
}

// NewDeltaTimer creates a timer backed by time.Now.
func NewDeltaTimer() *DeltaTimer {
	return &DeltaTimer{now: time.Now}
}

// NewDeltaTimerWith uses now as the time source.
func NewDeltaTimerWith(now func() time.Time) *DeltaTimer {
	return &DeltaTimer{now: now}
}

// Reset forgets the last reading.
func (t *DeltaTimer) Reset() { t.last = time.Time{} }

// Duration returns the time since the previous reading and starts a new one.
func (t *DeltaTimer) Duration() time.Duration {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		return 0
	}

	d := now.Sub(t.last)
	t.last = now
	if d < 0 {
		return 0
	}
	return d
}

// Delta is Duration in seconds.
func (t *DeltaTimer) Delta() float64 { return t.Duration().Seconds() }

// DeltaMillis is Duration in whole milliseconds.
func (t *DeltaTimer) DeltaMillis() int64 { return t.Duration().Milliseconds() }

// DeltaNanos is Duration in nanoseconds.
func (t *DeltaTimer) DeltaNanos() int64 { return t.Duration().Nanoseconds() }
