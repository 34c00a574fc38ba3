package property

import (
	"time"

	"github.com/patrickelectric/sixtyfps/pkg/animation"
)

// Binding computes the value of a property. Reads of other properties must
// go through the given Tracker so that they are recorded as dependencies.
type Binding[T any] func(t *Tracker) (T, error)

// Animation describes how a property moves towards a new value.
type Animation[T any] struct {
	Driver *AnimationDriver
	// Params returns the parameters of the animation for a change that is
	// happening now, or false if the change is not animated.
	Params func() (animation.Params, bool)
	// Lerp interpolates between two values; t is the eased progress.
	Lerp func(from, to T, t float64) T
	// Equal reports whether two values are the same. It is used to detect
	// changes of the value of an animated binding.
	Equal func(a, b T) bool
}

type run[T any] struct {
	from   T
	start  time.Duration
	params animation.Params
}

// Property is a reactive cell holding a value of type T, either set
// directly or computed by a binding. The zero value is a clean cell holding
// the zero value of T.
type Property[T any] struct {
	node
	value T
	// The value the cell is going to, equal to value unless an animation
	// is running.
	target   T
	hasValue bool
	binding  Binding[T]
	anim     *Animation[T]
	running  *run[T]
}

// New returns a property holding v.
func New[T any](v T) *Property[T] {
	return &Property[T]{value: v, target: v, hasValue: true}
}

// State returns the state of the cell.
func (p *Property[T]) State() State { return p.state }

// IsDirty reports whether reading the cell would evaluate its binding or
// advance its animation.
func (p *Property[T]) IsDirty() bool { return p.state == Dirty }

// HasBinding reports whether the cell is computed by a binding.
func (p *Property[T]) HasBinding() bool { return p.binding != nil }

// Set sets a literal value, removing any binding and animation.
func (p *Property[T]) Set(v T) {
	p.binding, p.anim = nil, nil
	p.stop()
	p.clearDependencies()
	p.value, p.target, p.hasValue = v, v, true
	p.state = Clean
	p.invalidateDependents()
}

// SetBinding installs a binding, replacing the previous value or binding.
// The binding is evaluated the next time the property is read.
func (p *Property[T]) SetBinding(b Binding[T]) {
	p.binding, p.anim = b, nil
	p.stop()
	p.markDirtyForce()
}

// SetAnimated moves the property to v using the animation. If the
// animation does not apply to this change, it behaves like Set.
func (p *Property[T]) SetAnimated(v T, a *Animation[T]) {
	params, ok := a.Params()
	if !ok {
		p.Set(v)
		return
	}
	from, err := p.Get(nil)
	if err != nil {
		from = p.value
	}
	p.binding, p.anim = nil, a
	p.clearDependencies()
	p.value, p.target, p.hasValue = from, v, true
	p.start(from, params)
	p.markDirtyForce()
}

// SetAnimatedBinding installs a binding whose changes of value are
// animated. The first value is taken without animation.
func (p *Property[T]) SetAnimatedBinding(b Binding[T], a *Animation[T]) {
	p.binding, p.anim = b, a
	p.hasValue = false
	p.stop()
	p.markDirtyForce()
}

func (p *Property[T]) markDirtyForce() {
	if p.state == Dirty {
		p.invalidateDependents()
		return
	}
	p.markDirty()
}

// Get returns the value of the property, evaluating its binding if needed,
// and records the read in t.
func (p *Property[T]) Get(t *Tracker) (T, error) {
	p.track(t)
	switch p.state {
	case Evaluating:
		var zero T
		return zero, ErrBindingLoop
	case Dirty:
		if err := p.evaluate(); err != nil {
			var zero T
			return zero, err
		}
	}
	return p.value, nil
}

// Value returns the last computed value without evaluating anything.
func (p *Property[T]) Value() T { return p.value }

func (p *Property[T]) evaluate() error {
	p.clearDependencies()
	p.state = Evaluating
	self := &Tracker{&p.node}
	if p.binding != nil {
		v, err := p.binding(self)
		if err != nil {
			p.state = Dirty
			return err
		}
		if p.anim != nil && p.hasValue && !p.anim.Equal(v, p.target) {
			if params, ok := p.anim.Params(); ok {
				p.start(p.value, params)
			}
		}
		p.target = v
		if p.running == nil {
			p.value = v
		}
	}
	if r := p.running; r != nil {
		now, _ := p.anim.Driver.tick.Get(self)
		progress, done := r.params.Progress(now - r.start)
		if done {
			p.stop()
			p.value = p.target
		} else {
			p.value = p.anim.Lerp(r.from, p.target, progress)
		}
	}
	p.hasValue = true
	p.state = Clean
	return nil
}

func (p *Property[T]) start(from T, params animation.Params) {
	d := p.anim.Driver
	p.running = &run[T]{from: from, start: d.Now(), params: params}
	d.active[&p.node] = struct{}{}
}

func (p *Property[T]) stop() {
	if p.running == nil {
		return
	}
	delete(p.anim.Driver.active, &p.node)
	p.running = nil
}

// IsAnimating reports whether an animation of the property is in progress.
func (p *Property[T]) IsAnimating() bool { return p.running != nil }

// Detach removes the property from the dependency graph and stops its
// animation. Properties that depended on it are marked dirty.
func (p *Property[T]) Detach() {
	if p.running != nil {
		delete(p.anim.Driver.active, &p.node)
		p.running = nil
	}
	p.invalidateDependents()
	p.detach()
	p.binding = nil
}
