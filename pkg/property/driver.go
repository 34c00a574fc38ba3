package property

import "time"

// AnimationDriver holds the current time of animations. Animated
// properties read the tick, so that updating it marks them dirty.
type AnimationDriver struct {
	tick   Property[time.Duration]
	active map[*node]struct{}
}

// NewAnimationDriver returns a driver whose time is 0.
func NewAnimationDriver() *AnimationDriver {
	return &AnimationDriver{active: make(map[*node]struct{})}
}

// UpdateTick sets the current time. Time is measured from an arbitrary
// origin and must not go backwards.
func (d *AnimationDriver) UpdateTick(now time.Duration) {
	d.tick.Set(now)
}

// Now returns the current time.
func (d *AnimationDriver) Now() time.Duration { return d.tick.value }

// HasActiveAnimations reports whether any animation is in progress, which
// means that the time should keep being updated.
func (d *AnimationDriver) HasActiveAnimations() bool { return len(d.active) > 0 }
