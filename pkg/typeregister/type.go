// Package typeregister defines the types of the .60 language and the
// scope-chained registry that maps type names to them.
package typeregister

import (
	"sort"
	"strings"
)

// Kind is the kind of a Type.
type Kind int

// Possible values of Kind.
const (
	Invalid Kind = iota
	Void
	Component
	Builtin
	Signal
	Float32
	Int32
	String
	Color
	Image
	Bool
	Easing
	PathElements
	Array
	Object
	Enumeration
)

// ComponentType is implemented by user components. It lives in the object
// tree package; the interface breaks the import cycle.
type ComponentType interface {
	ComponentID() string
	// LookupProperty returns the type of a property or signal declared on
	// the component root or inherited from its base.
	LookupProperty(name string) (Type, bool)
}

// Type is the type of a property, a signal, or an element base.
type Type struct {
	Kind Kind
	// Set when Kind is Component.
	Component ComponentType
	// Set when Kind is Builtin.
	Builtin *BuiltinElement
	// Element type, set when Kind is Array.
	Elem *Type
	// Sorted by name, set when Kind is Object.
	Fields []Field
	// Set when Kind is Enumeration.
	Enum *Enum
}

// Field is a field of an object type.
type Field struct {
	Name string
	Type Type
}

// Enum is an enumeration type.
type Enum struct {
	Name   string
	Values []string
}

// Simple types.
var (
	InvalidType      = Type{Kind: Invalid}
	VoidType         = Type{Kind: Void}
	SignalType       = Type{Kind: Signal}
	Float32Type      = Type{Kind: Float32}
	Int32Type        = Type{Kind: Int32}
	StringType       = Type{Kind: String}
	ColorType        = Type{Kind: Color}
	ImageType        = Type{Kind: Image}
	BoolType         = Type{Kind: Bool}
	EasingType       = Type{Kind: Easing}
	PathElementsType = Type{Kind: PathElements}
)

// ArrayOf returns the type of arrays of elem.
func ArrayOf(elem Type) Type { return Type{Kind: Array, Elem: &elem} }

// ObjectOf returns an object type with the given fields.
func ObjectOf(fields ...Field) Type {
	sorted := append([]Field(nil), fields...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return Type{Kind: Object, Fields: sorted}
}

// EnumType returns the type of an enumeration.
func EnumType(e *Enum) Type { return Type{Kind: Enumeration, Enum: e} }

// ComponentOf returns the element type of a user component.
func ComponentOf(c ComponentType) Type { return Type{Kind: Component, Component: c} }

// BuiltinOf returns the element type of a builtin element.
func BuiltinOf(b *BuiltinElement) Type { return Type{Kind: Builtin, Builtin: b} }

func (t Type) String() string {
	switch t.Kind {
	case Invalid:
		return "<invalid>"
	case Void:
		return "void"
	case Component:
		return t.Component.ComponentID()
	case Builtin:
		return t.Builtin.Name
	case Signal:
		return "signal"
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case String:
		return "string"
	case Color:
		return "color"
	case Image:
		return "image"
	case Bool:
		return "bool"
	case Easing:
		return "easing"
	case PathElements:
		return "pathelements"
	case Array:
		return "[" + t.Elem.String() + "]"
	case Object:
		var sb strings.Builder
		sb.WriteString("{ ")
		for i, f := range t.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name + ": " + f.Type.String())
		}
		sb.WriteString(" }")
		return sb.String()
	case Enumeration:
		return t.Enum.Name
	}
	return "<unknown>"
}

// Equal reports whether two types are the same.
func (t Type) Equal(u Type) bool {
	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case Component:
		return t.Component == u.Component
	case Builtin:
		return t.Builtin == u.Builtin
	case Array:
		return t.Elem.Equal(*u.Elem)
	case Object:
		if len(t.Fields) != len(u.Fields) {
			return false
		}
		for i, f := range t.Fields {
			if f.Name != u.Fields[i].Name || !f.Type.Equal(u.Fields[i].Type) {
				return false
			}
		}
		return true
	case Enumeration:
		return t.Enum == u.Enum
	}
	return true
}

// IsElement reports whether the type can be used as the base of an element.
func (t Type) IsElement() bool { return t.Kind == Component || t.Kind == Builtin }

// IsPropertyType reports whether values of the type can be stored in a
// property.
func (t Type) IsPropertyType() bool {
	switch t.Kind {
	case Float32, Int32, String, Color, Image, Bool, Easing, PathElements,
		Array, Object, Enumeration:
		return true
	}
	return false
}

// IsNumber reports whether the type is Float32 or Int32.
func (t Type) IsNumber() bool { return t.Kind == Float32 || t.Kind == Int32 }

// CanConvert reports whether a value of type t can be implicitly converted
// to type to. Invalid converts to and from everything, so that errors are
// not reported twice.
func (t Type) CanConvert(to Type) bool {
	if t.Kind == Invalid || to.Kind == Invalid || t.Equal(to) {
		return true
	}
	switch {
	case t.IsNumber() && to.IsNumber():
		return true
	case t.IsNumber() && to.Kind == String:
		return true
	case t.Kind == Array && to.Kind == Array:
		return t.Elem.CanConvert(*to.Elem)
	case t.Kind == Object && to.Kind == Object:
		for _, f := range to.Fields {
			ft, ok := t.Field(f.Name)
			if ok && !ft.CanConvert(f.Type) {
				return false
			}
		}
		return true
	}
	return false
}

// Field returns the type of a field of an object type.
func (t Type) Field(name string) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return InvalidType, false
}

// LookupProperty returns the type of a property or signal of an element
// type. It returns InvalidType and false if the type has no such property.
func (t Type) LookupProperty(name string) (Type, bool) {
	switch t.Kind {
	case Component:
		return t.Component.LookupProperty(name)
	case Builtin:
		pt, ok := t.Builtin.Properties[name]
		return pt, ok
	}
	return InvalidType, false
}

// HasValue reports whether the enumeration contains the named value.
func (e *Enum) HasValue(name string) bool {
	for _, v := range e.Values {
		if v == name {
			return true
		}
	}
	return false
}
