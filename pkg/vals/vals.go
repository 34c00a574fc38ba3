// Package vals contains the runtime representation of the values of .60
// properties and the operations on them.
//
// Values use native Go types:
//
//   - float32 and int32 properties hold float64
//   - string and enumeration properties hold string
//   - bool properties hold bool
//   - color properties hold graphics.Color
//   - image properties hold graphics.Resource
//   - easing properties hold animation.Curve
//   - path properties hold graphics.PathData
//   - arrays hold []Value
//   - objects hold Object
//
// The result of expressions of type void is nil.
package vals

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/patrickelectric/sixtyfps/pkg/animation"
	"github.com/patrickelectric/sixtyfps/pkg/graphics"
)

// Value is a runtime value.
type Value = any

// Object is the value of an object type, mapping field names to values.
type Object map[string]Value

// Kind returns the kind of a value.
func Kind(v Value) string {
	switch v.(type) {
	case nil:
		return "void"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "bool"
	case graphics.Color:
		return "color"
	case graphics.Resource:
		return "image"
	case animation.Curve:
		return "easing"
	case graphics.PathData:
		return "path"
	case []Value:
		return "array"
	case Object:
		return "object"
	}
	return fmt.Sprintf("!!%T", v)
}

// Equal reports whether two values are equal.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case graphics.Resource:
		b, ok := b.(graphics.Resource)
		return ok && a.Kind == b.Kind && a.Path == b.Path && slices.Equal(a.Data, b.Data)
	case graphics.PathData:
		b, ok := b.(graphics.PathData)
		return ok && slices.Equal(a.Elements, b.Elements)
	case []Value:
		b, ok := b.([]Value)
		return ok && slices.EqualFunc(a, b, Equal)
	case Object:
		b, ok := b.(Object)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return a == b
}

// ToString converts a value to a string, the way it is shown when a
// number is converted to a string.
func ToString(v Value) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	return Repr(v)
}

// Repr returns a representation of a value in the .60 syntax when there is
// one.
func Repr(v Value) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case float64, bool:
		return ToString(v)
	case graphics.Color, animation.Curve, graphics.Resource:
		return fmt.Sprint(v)
	case graphics.PathData:
		return fmt.Sprintf("<path with %d elements>", len(v.Elements))
	case []Value:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = Repr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Object:
		keys := slices.Sorted(maps.Keys(v))
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + Repr(v[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case nil:
		return "void"
	}
	return fmt.Sprintf("<%T>", v)
}

// Len returns the number of items a value yields as a repeater model: the
// length of an array or the value of a number, truncated.
func Len(v Value) (int, bool) {
	switch v := v.(type) {
	case []Value:
		return len(v), true
	case float64:
		if v < 0 || math.IsNaN(v) {
			return 0, true
		}
		return int(v), true
	}
	return 0, false
}

// ModelData returns the data of item i of a model.
func ModelData(model Value, i int) Value {
	if a, ok := model.([]Value); ok && i < len(a) {
		return a[i]
	}
	return float64(i)
}

// Interpolate returns the value at progress t between from and to. Numbers
// and colors are interpolated; other values switch to the target at the
// end.
func Interpolate(from, to Value, t float64) Value {
	switch to := to.(type) {
	case float64:
		if f, ok := from.(float64); ok {
			return f + (to-f)*t
		}
	case graphics.Color:
		if c, ok := from.(graphics.Color); ok {
			return c.Lerp(to, t)
		}
	}
	if t >= 1 {
		return to
	}
	return from
}
