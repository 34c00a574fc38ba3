package vals

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/patrickelectric/sixtyfps/pkg/animation"
	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

// WrongType is returned when a value cannot be converted to a type.
type WrongType struct {
	Want typeregister.Type
	Got  string
}

func (err WrongType) Error() string {
	return fmt.Sprintf("wrong type: need %s, got %s", err.Want, err.Got)
}

var (
	errNotInEnum  = errors.New("not a value of the enumeration")
	errOutOfRange = errors.New("out of the range of int32")
)

// Zero returns the zero value of a type.
func Zero(t typeregister.Type) Value {
	switch t.Kind {
	case typeregister.Float32, typeregister.Int32:
		return 0.0
	case typeregister.String:
		return ""
	case typeregister.Bool:
		return false
	case typeregister.Color:
		return graphics.Transparent
	case typeregister.Image:
		return graphics.Resource{}
	case typeregister.Easing:
		return animation.Linear
	case typeregister.PathElements:
		return graphics.PathData{}
	case typeregister.Enumeration:
		return t.Enum.Values[0]
	case typeregister.Array:
		return []Value(nil)
	case typeregister.Object:
		o := make(Object, len(t.Fields))
		for _, f := range t.Fields {
			o[f.Name] = Zero(f.Type)
		}
		return o
	}
	return nil
}

// FromGo normalizes a Go value to a Value: integer and float types become
// float64, slices of values become []Value, maps with string keys become
// Object. Other values are returned unchanged.
func FromGo(v any) Value {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case uintptr:
		return float64(v)
	case float32:
		return float64(v)
	case []any:
		a := make([]Value, len(v))
		for i, e := range v {
			a[i] = FromGo(e)
		}
		return a
	case map[string]any:
		o := make(Object, len(v))
		for k, e := range v {
			o[k] = FromGo(e)
		}
		return o
	case Object:
		o := make(Object, len(v))
		for k, e := range v {
			o[k] = FromGo(e)
		}
		return o
	}
	return v
}

// Convert converts a value to a type, as done by the implicit conversions
// of the language: numbers convert between float and int (truncating) and to
// strings, arrays and objects convert element-wise. Other conversions fail
// with a WrongType error.
func Convert(v Value, t typeregister.Type) (Value, error) {
	return convert(v, t, false)
}

// ConvertStrict is like Convert, but does not convert numbers to strings.
// It is used for values coming from the host, where a number given for a
// string property is a mistake.
func ConvertStrict(v Value, t typeregister.Type) (Value, error) {
	return convert(v, t, true)
}

func convert(v Value, t typeregister.Type, strict bool) (Value, error) {
	v = FromGo(v)
	wrong := WrongType{t, Kind(v)}
	switch t.Kind {
	case typeregister.Invalid, typeregister.Void:
		return v, nil
	case typeregister.Float32:
		if f, ok := v.(float64); ok {
			return float64(float32(f)), nil
		}
	case typeregister.Int32:
		if f, ok := v.(float64); ok {
			f = math.Trunc(f)
			if !(f >= math.MinInt32 && f <= math.MaxInt32) {
				return nil, fmt.Errorf("%s: %w", ToString(f), errOutOfRange)
			}
			return f, nil
		}
	case typeregister.String:
		switch v := v.(type) {
		case string:
			return v, nil
		case float64:
			if !strict {
				return ToString(v), nil
			}
		}
	case typeregister.Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case typeregister.Color:
		switch v := v.(type) {
		case graphics.Color:
			return v, nil
		case string:
			if c, err := ParseColor(v); err == nil {
				return c, nil
			}
		}
	case typeregister.Image:
		switch v := v.(type) {
		case graphics.Resource:
			return v, nil
		case string:
			if v == "" {
				return graphics.Resource{}, nil
			}
			return graphics.Resource{Kind: graphics.FileResource, Path: v}, nil
		}
	case typeregister.Easing:
		switch v := v.(type) {
		case animation.Curve:
			return v, nil
		case string:
			if c, ok := animation.ByName(v); ok {
				return c, nil
			}
		}
	case typeregister.PathElements:
		switch v := v.(type) {
		case graphics.PathData:
			return v, nil
		case string:
			return graphics.ParseSVGPath(v)
		}
	case typeregister.Enumeration:
		if s, ok := v.(string); ok {
			if t.Enum.HasValue(s) {
				return s, nil
			}
			return nil, fmt.Errorf("%q: %w %s", s, errNotInEnum, t.Enum.Name)
		}
	case typeregister.Array:
		if a, ok := v.([]Value); ok {
			out := make([]Value, len(a))
			for i, e := range a {
				c, err := convert(e, *t.Elem, strict)
				if err != nil {
					return nil, fmt.Errorf("index %d: %w", i, err)
				}
				out[i] = c
			}
			return out, nil
		}
	case typeregister.Object:
		if o, ok := v.(Object); ok {
			out := make(Object, len(t.Fields))
			for _, f := range t.Fields {
				fv, ok := o[f.Name]
				if !ok {
					out[f.Name] = Zero(f.Type)
					continue
				}
				c, err := convert(fv, f.Type, strict)
				if err != nil {
					return nil, fmt.Errorf("field %s: %w", f.Name, err)
				}
				out[f.Name] = c
			}
			return out, nil
		}
	}
	return nil, wrong
}

// ParseColor parses "#rgb", "#rgba", "#rrggbb", "#rrggbbaa" or a color
// name.
func ParseColor(s string) (graphics.Color, error) {
	if len(s) > 0 && s[0] == '#' {
		return graphics.ParseColorLiteral(s[1:])
	}
	if c, ok := graphics.NamedColor(s); ok {
		return c, nil
	}
	return 0, fmt.Errorf("invalid color %s", strconv.Quote(s))
}
