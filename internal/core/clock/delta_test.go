package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestDeltaTimer(t *testing.T) {
	fc := &fakeClock{t: time.Unix(1000, 0)}
	dt := NewDeltaTimerWith(fc.now)

	assert.Zero(t, dt.Duration(), "first reading")

	fc.advance(1500 * time.Millisecond)
	assert.Equal(t, 1.5, dt.Delta())

	fc.advance(20*time.Millisecond + 999*time.Microsecond)
	assert.EqualValues(t, 20, dt.DeltaMillis())

	fc.advance(7 * time.Nanosecond)
	assert.EqualValues(t, 7, dt.DeltaNanos())

	assert.Zero(t, dt.Duration(), "no time passed")
}

func TestDeltaTimerReset(t *testing.T) {
	fc := &fakeClock{t: time.Unix(0, 1)}
	dt := NewDeltaTimerWith(fc.now)

	dt.Duration()
	fc.advance(time.Second)
	dt.Reset()
	assert.Zero(t, dt.Duration())

	fc.advance(time.Second)
	assert.Equal(t, time.Second, dt.Duration())
}

func TestDeltaTimerIgnoresClockGoingBack(t *testing.T) {
	fc := &fakeClock{t: time.Unix(50, 0)}
	dt := NewDeltaTimerWith(fc.now)

	dt.Duration()
	fc.advance(-time.Second)
	assert.Zero(t, dt.Duration())
}

func TestDefaultTimer(t *testing.T) {
	dt := NewDeltaTimer()
	assert.Zero(t, dt.Duration())
	assert.GreaterOrEqual(t, dt.DeltaNanos(), int64(0))
}
