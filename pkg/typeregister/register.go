package typeregister

import (
	"fmt"
	"sort"
)

// TypeRegister maps type names to types. Registers are chained: lookups
// that miss in a register continue in its parent. The builtin register is
// the root of every chain and is never modified.
type TypeRegister struct {
	parent *TypeRegister
	types  map[string]Type
}

var builtinRegister = newBuiltinRegister()

// Value types, which can be used in property declarations but not as
// element bases.
var valueTypes = map[string]Type{
	"float":    Float32Type,
	"length":   Float32Type,
	"int":      Int32Type,
	"duration": Int32Type,
	"string":   StringType,
	"color":    ColorType,
	"image":    ImageType,
	"bool":     BoolType,
	"easing":   EasingType,
}

func newBuiltinRegister() *TypeRegister {
	r := &TypeRegister{types: make(map[string]Type)}
	for name, t := range valueTypes {
		r.types[name] = t
	}
	for _, b := range builtinElements() {
		r.types[b.Name] = BuiltinOf(b)
	}
	return r
}

// BuiltinRegister returns the register holding the value types and the builtin
// elements.
func BuiltinRegister() *TypeRegister { return builtinRegister }

// NewScope creates an empty register chained to parent.
func NewScope(parent *TypeRegister) *TypeRegister {
	return &TypeRegister{parent, make(map[string]Type)}
}

// Add registers a type under a name. Builtin names cannot be shadowed in
// the builtin register itself, which is read-only.
func (r *TypeRegister) Add(name string, t Type) {
	if r == builtinRegister {
		panic("typeregister: the builtin register is read-only")
	}
	r.types[name] = t
}

// AddComponent registers a user component under its id.
func (r *TypeRegister) AddComponent(c ComponentType) {
	r.Add(c.ComponentID(), ComponentOf(c))
}

// LookupType returns the type with the given name, or InvalidType.
func (r *TypeRegister) LookupType(name string) Type {
	for s := r; s != nil; s = s.parent {
		if t, ok := s.types[name]; ok {
			return t
		}
	}
	return InvalidType
}

// LookupElement returns the element type with the given name. It fails
// when the name is unknown or names a value type.
func (r *TypeRegister) LookupElement(name string) (Type, error) {
	t := r.LookupType(name)
	switch {
	case t.Kind == Invalid:
		return t, fmt.Errorf("Unknown type %s", name)
	case !t.IsElement():
		return InvalidType, fmt.Errorf("%s is not an element type", name)
	}
	return t, nil
}

// LookupBuiltin returns the builtin element with the given name, or nil.
func LookupBuiltin(name string) *BuiltinElement {
	if t, ok := builtinRegister.types[name]; ok && t.Kind == Builtin {
		return t.Builtin
	}
	return nil
}

// Names returns all type names visible from r, sorted.
func (r *TypeRegister) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for s := r; s != nil; s = s.parent {
		for name := range s.types {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
