package core

import "time"

// DefaultTPS is used whenever a non-positive tick rate is requested.
const DefaultTPS = 60

// TickInterval converts a ticks-per-second rate into the duration of one tick.
// Non-positive rates return 0, meaning unpaced.
func TickInterval(tps int) time.Duration {
	if tps <= 0 {
		return 0
	}
	return time.Second / time.Duration(tps)
}

// FixedStep paces simulation ticks from inside a host loop that runs at its
// own rate (for example the window's update callback).
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS. The
// first call to ShouldStep always reports true.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = DefaultTPS
	}
	f.step = TickInterval(tps)
}

// Interval reports the duration of one tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

// ShouldStep reports whether the simulation should advance by one tick. The
// backlog is capped at one extra tick so a stalled host loop does not trigger
// a burst of catch-up ticks.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator > 2*f.step {
		f.accumulator = 2 * f.step
	}
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
