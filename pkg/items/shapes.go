package items

import (
	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/property"
)

// Rectangle is a filled rectangle.
type Rectangle struct {
	geometry
	Color property.Property[graphics.Color]
}

func (r *Rectangle) RenderingPrimitive() graphics.RenderingPrimitive {
	return graphics.RenderingPrimitive{Kind: graphics.RectanglePrimitive,
		Width: get(&r.Width), Height: get(&r.Height)}
}

func (r *Rectangle) RenderingVariables() []graphics.RenderingVariable {
	return []graphics.RenderingVariable{r.translate(), graphics.ColorVar(get(&r.Color))}
}

// BorderRectangle is a rectangle with a border and rounded corners.
type BorderRectangle struct {
	geometry
	Color        property.Property[graphics.Color]
	BorderWidth  property.Property[float32]
	BorderRadius property.Property[float32]
	BorderColor  property.Property[graphics.Color]
}

func (r *BorderRectangle) RenderingPrimitive() graphics.RenderingPrimitive {
	return graphics.RenderingPrimitive{
		Kind:         graphics.BorderRectanglePrimitive,
		Width:        get(&r.Width),
		Height:       get(&r.Height),
		BorderWidth:  get(&r.BorderWidth),
		BorderRadius: get(&r.BorderRadius),
		BorderColor:  get(&r.BorderColor),
	}
}

func (r *BorderRectangle) RenderingVariables() []graphics.RenderingVariable {
	return []graphics.RenderingVariable{r.translate(), graphics.ColorVar(get(&r.Color))}
}

// Window is the top-level item; it draws its background color.
type Window struct {
	geometry
	Color property.Property[graphics.Color]
}

func (w *Window) RenderingPrimitive() graphics.RenderingPrimitive {
	return graphics.RenderingPrimitive{Kind: graphics.RectanglePrimitive,
		Width: get(&w.Width), Height: get(&w.Height)}
}

func (w *Window) RenderingVariables() []graphics.RenderingVariable {
	return []graphics.RenderingVariable{w.translate(), graphics.ColorVar(get(&w.Color))}
}

// Path draws a path, either compiled from SVG commands or built from path
// elements.
type Path struct {
	geometry
	Elements    property.Property[graphics.PathData]
	FillColor   property.Property[graphics.Color]
	StrokeColor property.Property[graphics.Color]
	StrokeWidth property.Property[float32]
}

func (p *Path) RenderingPrimitive() graphics.RenderingPrimitive {
	return graphics.RenderingPrimitive{
		Kind:        graphics.PathPrimitive,
		Width:       get(&p.Width),
		Height:      get(&p.Height),
		Path:        get(&p.Elements),
		FillColor:   get(&p.FillColor),
		StrokeColor: get(&p.StrokeColor),
		StrokeWidth: get(&p.StrokeWidth),
	}
}

func (p *Path) RenderingVariables() []graphics.RenderingVariable {
	return []graphics.RenderingVariable{p.translate()}
}
