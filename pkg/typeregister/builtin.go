package typeregister

// BuiltinKind classifies builtin elements.
type BuiltinKind int

// Possible values of BuiltinKind.
const (
	// ItemKind elements are instantiated as items at runtime.
	ItemKind BuiltinKind = iota
	// LayoutKind elements are removed by layout lowering.
	LayoutKind
	// PathElementKind elements may only appear as children of a Path.
	PathElementKind
	// AnimationKind is PropertyAnimation, only used through animate blocks.
	AnimationKind
)

// BuiltinElement describes a native element.
type BuiltinElement struct {
	Name       string
	Kind       BuiltinKind
	Properties map[string]Type
}

// Enumerations of builtin properties.
var (
	TextHorizontalAlignment = &Enum{"TextHorizontalAlignment",
		[]string{"align_left", "align_center", "align_right"}}
	TextVerticalAlignment = &Enum{"TextVerticalAlignment",
		[]string{"align_top", "align_center", "align_bottom"}}
)

type props map[string]Type

func geometry() props {
	return props{"x": Float32Type, "y": Float32Type,
		"width": Float32Type, "height": Float32Type}
}

func (p props) with(more props) map[string]Type {
	for k, v := range more {
		p[k] = v
	}
	return p
}

func builtinElements() []*BuiltinElement {
	return []*BuiltinElement{
		{"Rectangle", ItemKind, geometry().with(props{"color": ColorType})},
		{"BorderRectangle", ItemKind, geometry().with(props{
			"color":         ColorType,
			"border_width":  Float32Type,
			"border_radius": Float32Type,
			"border_color":  ColorType,
		})},
		{"Image", ItemKind, geometry().with(props{"source": ImageType})},
		{"Text", ItemKind, geometry().with(props{
			"text":                 StringType,
			"font_family":          StringType,
			"font_size":            Float32Type,
			"color":                ColorType,
			"horizontal_alignment": EnumType(TextHorizontalAlignment),
			"vertical_alignment":   EnumType(TextVerticalAlignment),
		})},
		{"TouchArea", ItemKind, geometry().with(props{
			"pressed":   BoolType,
			"pressed_x": Float32Type,
			"pressed_y": Float32Type,
			"mouse_x":   Float32Type,
			"mouse_y":   Float32Type,
			"clicked":   SignalType,
		})},
		{"Path", ItemKind, geometry().with(props{
			"elements":     PathElementsType,
			"commands":     StringType,
			"fill_color":   ColorType,
			"stroke_color": ColorType,
			"stroke_width": Float32Type,
		})},
		{"Flickable", ItemKind, geometry().with(props{
			"viewport_x":      Float32Type,
			"viewport_y":      Float32Type,
			"viewport_width":  Float32Type,
			"viewport_height": Float32Type,
			"interactive":     BoolType,
		})},
		{"Window", ItemKind, geometry().with(props{"color": ColorType})},

		{"GridLayout", LayoutKind, geometry().with(props{
			"spacing": Float32Type, "padding": Float32Type})},
		{"HorizontalLayout", LayoutKind, geometry().with(props{
			"spacing": Float32Type, "padding": Float32Type})},
		{"VerticalLayout", LayoutKind, geometry().with(props{
			"spacing": Float32Type, "padding": Float32Type})},
		{"Row", LayoutKind, props{}},

		{"MoveTo", PathElementKind, props{"x": Float32Type, "y": Float32Type}},
		{"LineTo", PathElementKind, props{"x": Float32Type, "y": Float32Type}},
		{"ArcTo", PathElementKind, props{
			"x": Float32Type, "y": Float32Type,
			"radius_x": Float32Type, "radius_y": Float32Type,
			"x_rotation": Float32Type, "large_arc": BoolType, "sweep": BoolType,
		}},
		{"QuadraticTo", PathElementKind, props{
			"x": Float32Type, "y": Float32Type,
			"control_x": Float32Type, "control_y": Float32Type,
		}},
		{"CubicTo", PathElementKind, props{
			"x": Float32Type, "y": Float32Type,
			"control_1_x": Float32Type, "control_1_y": Float32Type,
			"control_2_x": Float32Type, "control_2_y": Float32Type,
		}},
		{"Close", PathElementKind, props{}},

		{"PropertyAnimation", AnimationKind, props{
			"duration": Int32Type, "loop_count": Int32Type, "easing": EasingType,
		}},
	}
}
