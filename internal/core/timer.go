package core

import "time"

// FixedStep paces simulation updates at a steady rate independent of the
// frame rate of the caller.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep targeting the given updates per second.
func NewFixedStep(ups int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetRate(ups)
	fs.accumulator = fs.step
	fs.last = fs.now()
	return fs
}

// SetRate changes the update rate. Non-positive rates fall back to 60.
func (f *FixedStep) SetRate(ups int) {
	if ups <= 0 {
		ups = 60
	}
	f.step = time.Second / time.Duration(ups)
}

// Rate returns the current updates per second.
func (f *FixedStep) Rate() int { return int(time.Second / f.step) }

// Due reports how many updates have accumulated since the last call,
// capped at limit so a slow frame does not trigger a long catch-up burst.
func (f *FixedStep) Due(limit int) int {
	now := f.now()
	f.accumulator += now.Sub(f.last)
	f.last = now
	n := int(f.accumulator / f.step)
	f.accumulator -= time.Duration(n) * f.step
	if n > limit {
		n = limit
	}
	return n
}
