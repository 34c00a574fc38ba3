package items

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/property"
)

// Text draws a single line of text.
type Text struct {
	geometry
	Text                property.Property[string]
	FontFamily          property.Property[string]
	FontSize            property.Property[float32]
	Color               property.Property[graphics.Color]
	HorizontalAlignment property.Property[string]
	VerticalAlignment   property.Property[string]
}

// The metrics of text are those of a fixed 7x13 font, scaled to the font
// size. Real font shaping is done by rendering backends.
var metricsFace = basicfont.Face7x13

const (
	defaultFontSize = 13
	metricsFontSize = 13
)

func (t *Text) fontSize() float32 {
	if size := get(&t.FontSize); size > 0 {
		return size
	}
	return defaultFontSize
}

// TextSize returns the size of a line of text at the given font size.
func TextSize(s string, fontSize float32) graphics.Size {
	width := font.MeasureString(metricsFace, s)
	m := metricsFace.Metrics()
	scale := fontSize / metricsFontSize
	return graphics.Size{
		Width:  toFloat(width) * scale,
		Height: toFloat(m.Ascent+m.Descent) * scale,
	}
}

func toFloat(x fixed.Int26_6) float32 { return float32(x) / 64 }

func (t *Text) RenderingPrimitive() graphics.RenderingPrimitive {
	return graphics.RenderingPrimitive{
		Kind:       graphics.TextPrimitive,
		Width:      get(&t.Width),
		Height:     get(&t.Height),
		Text:       get(&t.Text),
		FontFamily: get(&t.FontFamily),
		FontSize:   t.fontSize(),
	}
}

// RenderingVariables translates the text according to its alignment
// within the item.
func (t *Text) RenderingVariables() []graphics.RenderingVariable {
	size := TextSize(get(&t.Text), t.fontSize())
	x, y := get(&t.X), get(&t.Y)
	switch get(&t.HorizontalAlignment) {
	case "align_center":
		x += (get(&t.Width) - size.Width) / 2
	case "align_right":
		x += get(&t.Width) - size.Width
	}
	switch get(&t.VerticalAlignment) {
	case "align_center":
		y += (get(&t.Height) - size.Height) / 2
	case "align_bottom":
		y += get(&t.Height) - size.Height
	}
	return []graphics.RenderingVariable{graphics.Translate(x, y), graphics.ColorVar(get(&t.Color))}
}

// LayoutInfo requires the item to be large enough for the text.
func (t *Text) LayoutInfo() graphics.LayoutInfo {
	size := TextSize(get(&t.Text), t.fontSize())
	info := graphics.Unconstrained
	info.MinWidth, info.MinHeight = size.Width, size.Height
	return info
}
