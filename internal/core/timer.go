package core

import "time"

// FrameClock measures the wall time elapsed between successive frames.
type FrameClock struct {
	maxDelta time.Duration
	last     time.Time
	now      func() time.Time
}

// NewFrameClock constructs a clock whose reported deltas never exceed
// maxDelta. A non-positive maxDelta defaults to a quarter second.
func NewFrameClock(maxDelta time.Duration) *FrameClock {
	if maxDelta <= 0 {
		maxDelta = 250 * time.Millisecond
	}
	return &FrameClock{maxDelta: maxDelta, now: time.Now}
}

// Tick returns the seconds elapsed since the previous Tick. The first call
// returns zero.
func (f *FrameClock) Tick() float64 {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
		return 0
	}
	delta := now.Sub(f.last)
	f.last = now
	if delta < 0 {
		delta = 0
	}
	if delta > f.maxDelta {
		delta = f.maxDelta
	}
	return delta.Seconds()
}

// Restart forgets the previous frame so the next Tick reports zero.
func (f *FrameClock) Restart() { f.last = time.Time{} }
