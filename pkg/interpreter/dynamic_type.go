package interpreter

import (
	"fmt"
	"reflect"
)

// fieldKind classifies the fields of a Layout.
type fieldKind int

const (
	propertyField fieldKind = iota
	signalField
	itemField
	repeaterField
	componentField
)

var fieldKindNames = [...]string{"property", "signal", "item", "repeater", "component"}

func (k fieldKind) String() string { return fieldKindNames[k] }

// Field describes one field of a Layout.
type Field struct {
	Name string
	Kind fieldKind
	// Type is the Go type stored in the field.
	Type reflect.Type
	// Offset is the offset of the field within an instance, aligned for
	// Type.
	Offset uintptr

	slot  int
	ctor  func() any
	dtor  func(any)
	owner *Layout
}

// Layout is the memory layout of the instances of a component: an ordered
// set of typed fields with their offsets. It is built once per component and
// never changes. The pointer identifies the component.
type Layout struct {
	fields []*Field
	size   uintptr
	align  uintptr
}

// Size returns the size of an instance.
func (l *Layout) Size() uintptr { return l.size }

// Align returns the alignment of an instance.
func (l *Layout) Align() uintptr { return l.align }

// Fields returns the fields, in offset order.
func (l *Layout) Fields() []*Field { return l.fields }

// add appends a field of type t. ctor returns a pointer to a new value of
// type t; when nil, the zero value is used. dtor may be nil.
func (l *Layout) add(name string, kind fieldKind, t reflect.Type, ctor func() any, dtor func(any)) *Field {
	align := uintptr(t.Align())
	offset := (l.size + align - 1) &^ (align - 1)
	if ctor == nil {
		ctor = func() any { return reflect.New(t).Interface() }
	}
	f := &Field{Name: name, Kind: kind, Type: t, Offset: offset,
		slot: len(l.fields), ctor: ctor, dtor: dtor, owner: l}
	l.fields = append(l.fields, f)
	l.size = offset + t.Size()
	l.align = max(l.align, align)
	return f
}

// finish pads the size of the layout to its alignment.
func (l *Layout) finish() {
	if l.align == 0 {
		l.align = 1
	}
	l.size = (l.size + l.align - 1) &^ (l.align - 1)
}

// instance is the storage of one component instance. Every field is a
// separate heap object, so its address is stable for the lifetime of the
// instance.
type instance struct {
	layout *Layout
	slots  []any
	dead   bool
}

func (l *Layout) instantiate() *instance {
	inst := &instance{layout: l, slots: make([]any, len(l.fields))}
	for i, f := range l.fields {
		inst.slots[i] = f.ctor()
	}
	return inst
}

// destroy runs the destructors of the fields in reverse order.
func (inst *instance) destroy() {
	if inst.dead {
		return
	}
	inst.dead = true
	for i := len(inst.slots) - 1; i >= 0; i-- {
		if f := inst.layout.fields[i]; f.dtor != nil {
			f.dtor(inst.slots[i])
		}
		inst.slots[i] = nil
	}
}

// FieldOffset is a typed handle to a field of a Layout. It can only be
// applied to instances of that layout.
type FieldOffset[T any] struct{ field *Field }

// OffsetOf returns the handle of a field, checking that it stores a T.
func OffsetOf[T any](f *Field) (FieldOffset[T], error) {
	if want := reflect.TypeFor[T](); f.Type != want {
		return FieldOffset[T]{}, fmt.Errorf("%w: field %s holds %v, not %v", ErrTypeMismatch, f.Name, f.Type, want)
	}
	return FieldOffset[T]{f}, nil
}

// Offset returns the offset of the field.
func (o FieldOffset[T]) Offset() uintptr { return o.field.Offset }

// Apply returns the field within inst. It fails if inst does not have the
// layout of the field.
func (o FieldOffset[T]) Apply(inst *instance) (*T, error) {
	p, err := o.field.apply(inst)
	if err != nil {
		return nil, err
	}
	return p.(*T), nil
}

func (f *Field) apply(inst *instance) (any, error) {
	if inst.layout != f.owner {
		return nil, fmt.Errorf("%w: field %s", ErrWrongComponent, f.Name)
	}
	if inst.dead {
		return nil, fmt.Errorf("field %s of a destroyed instance", f.Name)
	}
	return inst.slots[f.slot], nil
}
