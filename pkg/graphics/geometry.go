package graphics

// Point is a position in logical pixels.
type Point struct{ X, Y float32 }

// Size is a size in logical pixels.
type Size struct{ Width, Height float32 }

// Rect is an axis-aligned rectangle.
type Rect struct {
	Point
	Size
}

// NewRect returns the rectangle at (x, y) with the given size.
func NewRect(x, y, w, h float32) Rect {
	return Rect{Point{x, y}, Size{w, h}}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.X+r.Width && p.Y < r.Y+r.Height
}

// LayoutInfo carries the sizing constraints of an item.
type LayoutInfo struct {
	MinWidth, MaxWidth   float32
	MinHeight, MaxHeight float32
}

// Unconstrained is the LayoutInfo of items without sizing hints.
var Unconstrained = LayoutInfo{0, maxLength, 0, maxLength}

const maxLength = 3.4028235e38
