package animation

import "time"

// Params are the parameters of a property animation, as set by the
// duration, loop_count and easing properties of a PropertyAnimation.
type Params struct {
	Duration time.Duration
	// LoopCount is the number of extra iterations after the first one. A
	// negative value loops forever.
	LoopCount int
	Easing    Curve
}

// Progress returns the eased progress in [0, 1] after elapsed time, and
// whether the animation has completed. An animation with no duration
// completes immediately.
func (p Params) Progress(elapsed time.Duration) (float64, bool) {
	if p.Duration <= 0 {
		return 1, true
	}
	if elapsed < 0 {
		elapsed = 0
	}
	iteration := int(elapsed / p.Duration)
	if p.LoopCount >= 0 && iteration > p.LoopCount {
		return 1, true
	}
	t := float64(elapsed%p.Duration) / float64(p.Duration)
	return p.Easing.Transform(t), false
}
