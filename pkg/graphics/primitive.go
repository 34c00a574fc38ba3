package graphics

// PrimitiveKind is the kind of a RenderingPrimitive.
type PrimitiveKind int

// Possible values of PrimitiveKind.
const (
	NoContents PrimitiveKind = iota
	RectanglePrimitive
	BorderRectanglePrimitive
	ImagePrimitive
	TextPrimitive
	PathPrimitive
)

// RenderingPrimitive describes what an item draws, independently of the
// cheap per-frame variables. Backends cache GPU resources per primitive and
// only rebuild them when the primitive changes.
type RenderingPrimitive struct {
	Kind   PrimitiveKind
	Width  float32
	Height float32
	// BorderRectanglePrimitive.
	BorderWidth  float32
	BorderRadius float32
	BorderColor  Color
	// ImagePrimitive.
	Source Resource
	// TextPrimitive.
	Text       string
	FontFamily string
	FontSize   float32
	// PathPrimitive.
	Path        PathData
	FillColor   Color
	StrokeColor Color
	StrokeWidth float32
}

// RenderingVariableKind is the kind of a RenderingVariable.
type RenderingVariableKind int

// Possible values of RenderingVariableKind.
const (
	TranslateVariable RenderingVariableKind = iota
	ColorVariable
	ScaledWidthVariable
	ScaledHeightVariable
)

// RenderingVariable is a value that a backend applies on top of a cached
// primitive, like a translation or a color.
type RenderingVariable struct {
	Kind  RenderingVariableKind
	X, Y  float32
	Color Color
	Scale float32
}

// Translate returns a TranslateVariable.
func Translate(x, y float32) RenderingVariable {
	return RenderingVariable{Kind: TranslateVariable, X: x, Y: y}
}

// ColorVar returns a ColorVariable.
func ColorVar(c Color) RenderingVariable {
	return RenderingVariable{Kind: ColorVariable, Color: c}
}
