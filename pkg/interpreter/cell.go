package interpreter

import (
	"fmt"

	"github.com/patrickelectric/sixtyfps/pkg/animation"
	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/property"
	"github.com/patrickelectric/sixtyfps/pkg/vals"
)

// binding computes a dynamic value, recording its reads in t.
type binding func(t *property.Tracker) (vals.Value, error)

// animSpec is the animation of one property of one instance.
type animSpec struct {
	driver *property.AnimationDriver
	params func() (animation.Params, bool)
	// observe is called before each evaluation of an animated binding, and
	// before each animated assignment. It may be nil.
	observe func(t *property.Tracker)
}

// cell gives dynamic access to a property, whatever the Go type of its
// value.
type cell interface {
	get(t *property.Tracker) (vals.Value, error)
	set(v vals.Value, anim *animSpec) error
	setBinding(b binding, anim *animSpec)
}

// cellOf wraps a property found in an instance. ptr is a
// *property.Property[T] for one of the types used by items, or for
// vals.Value.
func cellOf(ptr any) (cell, bool) {
	switch p := ptr.(type) {
	case *property.Property[vals.Value]:
		return typedCell[vals.Value]{p}, true
	case *property.Property[float32]:
		return typedCell[float32]{p}, true
	case *property.Property[string]:
		return typedCell[string]{p}, true
	case *property.Property[bool]:
		return typedCell[bool]{p}, true
	case *property.Property[graphics.Color]:
		return typedCell[graphics.Color]{p}, true
	case *property.Property[graphics.Resource]:
		return typedCell[graphics.Resource]{p}, true
	case *property.Property[graphics.PathData]:
		return typedCell[graphics.PathData]{p}, true
	}
	return nil, false
}

type typedCell[T any] struct{ p *property.Property[T] }

func (c typedCell[T]) get(t *property.Tracker) (vals.Value, error) {
	v, err := c.p.Get(t)
	if err != nil {
		return nil, err
	}
	return toValue(v), nil
}

func (c typedCell[T]) set(v vals.Value, anim *animSpec) error {
	x, err := fromValue[T](v)
	if err != nil {
		return err
	}
	if anim == nil {
		c.p.Set(x)
		return nil
	}
	if anim.observe != nil {
		anim.observe(nil)
	}
	c.p.SetAnimated(x, animationOf[T](anim))
	return nil
}

func (c typedCell[T]) setBinding(b binding, anim *animSpec) {
	typed := func(t *property.Tracker) (T, error) {
		v, err := b(t)
		if err != nil {
			var zero T
			return zero, err
		}
		return fromValue[T](v)
	}
	if anim == nil {
		c.p.SetBinding(typed)
		return
	}
	observed := typed
	if anim.observe != nil {
		observed = func(t *property.Tracker) (T, error) {
			anim.observe(t)
			return typed(t)
		}
	}
	c.p.SetAnimatedBinding(observed, animationOf[T](anim))
}

func animationOf[T any](anim *animSpec) *property.Animation[T] {
	return &property.Animation[T]{
		Driver: anim.driver,
		Params: anim.params,
		Lerp: func(from, to T, t float64) T {
			v, _ := fromValue[T](vals.Interpolate(toValue(from), toValue(to), t))
			return v
		},
		Equal: func(a, b T) bool { return vals.Equal(toValue(a), toValue(b)) },
	}
}

// toValue converts the value of a typed property to a Value. Numbers are
// float64 at runtime.
func toValue[T any](x T) vals.Value {
	if f, ok := any(x).(float32); ok {
		return float64(f)
	}
	return any(x)
}

func fromValue[T any](v vals.Value) (T, error) {
	var zero T
	if _, ok := any(zero).(float32); ok {
		f, ok := v.(float64)
		if !ok {
			return zero, fmt.Errorf("%w: need number, got %s", ErrTypeMismatch, vals.Kind(v))
		}
		return any(float32(f)).(T), nil
	}
	if v == nil {
		// Void values reset properties of any type to their zero value.
		return zero, nil
	}
	x, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: need %T, got %s", ErrTypeMismatch, zero, vals.Kind(v))
	}
	return x, nil
}
