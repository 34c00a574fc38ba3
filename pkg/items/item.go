// Package items implements the builtin items instantiated by the
// interpreter, and the contract between them and rendering backends.
//
// Every item is a struct of property cells. Exported fields of type
// property.Property[T] or property.Signal are the properties of the item,
// named after the field in snake case (BorderWidth is border_width).
package items

import (
	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/logutil"
	"github.com/patrickelectric/sixtyfps/pkg/property"
)

var logger = logutil.GetLogger("[items] ")

// Item is implemented by all builtin items.
type Item interface {
	// Geometry returns the position of the item relative to its parent, and
	// its size.
	Geometry() graphics.Rect
	// RenderingPrimitive describes what the item draws.
	RenderingPrimitive() graphics.RenderingPrimitive
	// RenderingVariables returns the values applied on top of the
	// primitive.
	RenderingVariables() []graphics.RenderingVariable
	// LayoutInfo returns the sizing constraints of the item.
	LayoutInfo() graphics.LayoutInfo
	// InputEvent handles a mouse event whose position is relative to the
	// item.
	InputEvent(MouseEvent) InputEventResult
}

// MouseEventKind is the kind of a MouseEvent.
type MouseEventKind int

// Possible values of MouseEventKind.
const (
	MousePressed MouseEventKind = iota
	MouseReleased
	MouseMoved
)

// MouseEvent is a mouse event.
type MouseEvent struct {
	Pos  graphics.Point
	What MouseEventKind
}

// InputEventResult tells what happened to an event.
type InputEventResult int

// Possible values of InputEventResult.
const (
	// EventIgnored means that the item did not handle the event, and that
	// it should be delivered to items below.
	EventIgnored InputEventResult = iota
	// EventAccepted means that the item handled the event.
	EventAccepted
	// GrabMouse means that the item handled the event and wants to receive
	// all mouse events until it stops grabbing.
	GrabMouse
)

func (r InputEventResult) String() string {
	switch r {
	case EventIgnored:
		return "ignored"
	case EventAccepted:
		return "accepted"
	case GrabMouse:
		return "grab"
	}
	return "unknown"
}

// get reads a property outside of any binding. Errors, which are binding
// loops or evaluation failures, are logged and the last value is used.
func get[T any](p *property.Property[T]) T {
	v, err := p.Get(nil)
	if err != nil {
		logger.Println("cannot evaluate property:", err)
		return p.Value()
	}
	return v
}

// geometry holds the properties shared by all items.
type geometry struct {
	X, Y, Width, Height property.Property[float32]
}

// Geometry returns the geometry of the item.
func (g *geometry) Geometry() graphics.Rect {
	return graphics.NewRect(get(&g.X), get(&g.Y), get(&g.Width), get(&g.Height))
}

func (g *geometry) translate() graphics.RenderingVariable {
	return graphics.Translate(get(&g.X), get(&g.Y))
}

// LayoutInfo returns the default constraints: none.
func (g *geometry) LayoutInfo() graphics.LayoutInfo { return graphics.Unconstrained }

// InputEvent ignores the event.
func (g *geometry) InputEvent(MouseEvent) InputEventResult { return EventIgnored }

// contains reports whether a position relative to the item lies inside it.
func (g *geometry) contains(p graphics.Point) bool {
	return graphics.NewRect(0, 0, get(&g.Width), get(&g.Height)).Contains(p)
}
