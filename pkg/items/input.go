package items

import (
	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/property"
)

// TouchArea tracks the mouse and emits clicked when the mouse is released
// inside the item after having been pressed in it.
type TouchArea struct {
	geometry
	Pressed  property.Property[bool]
	PressedX property.Property[float32]
	PressedY property.Property[float32]
	MouseX   property.Property[float32]
	MouseY   property.Property[float32]
	Clicked  property.Signal
}

func (*TouchArea) RenderingPrimitive() graphics.RenderingPrimitive {
	return graphics.RenderingPrimitive{}
}

func (t *TouchArea) RenderingVariables() []graphics.RenderingVariable {
	return []graphics.RenderingVariable{t.translate()}
}

// InputEvent grabs the mouse while it is pressed.
func (t *TouchArea) InputEvent(ev MouseEvent) InputEventResult {
	t.MouseX.Set(ev.Pos.X)
	t.MouseY.Set(ev.Pos.Y)
	switch ev.What {
	case MousePressed:
		t.PressedX.Set(ev.Pos.X)
		t.PressedY.Set(ev.Pos.Y)
		t.Pressed.Set(true)
		return GrabMouse
	case MouseReleased:
		wasPressed := get(&t.Pressed)
		t.Pressed.Set(false)
		if wasPressed && t.contains(ev.Pos) {
			t.Clicked.Emit()
		}
		return EventAccepted
	}
	if get(&t.Pressed) {
		return GrabMouse
	}
	return EventAccepted
}

// Flickable is a viewport whose contents can be dragged.
type Flickable struct {
	geometry
	ViewportX      property.Property[float32]
	ViewportY      property.Property[float32]
	ViewportWidth  property.Property[float32]
	ViewportHeight property.Property[float32]
	Interactive    property.Property[bool]

	dragging  bool
	dragStart graphics.Point
	origin    graphics.Point
}

func (*Flickable) RenderingPrimitive() graphics.RenderingPrimitive {
	return graphics.RenderingPrimitive{}
}

func (f *Flickable) RenderingVariables() []graphics.RenderingVariable {
	return []graphics.RenderingVariable{f.translate()}
}

// InputEvent moves the viewport while the mouse is dragged, keeping it
// within the bounds of the item.
func (f *Flickable) InputEvent(ev MouseEvent) InputEventResult {
	if !get(&f.Interactive) {
		return EventIgnored
	}
	switch ev.What {
	case MousePressed:
		f.dragging = true
		f.dragStart = ev.Pos
		f.origin = graphics.Point{X: get(&f.ViewportX), Y: get(&f.ViewportY)}
		return GrabMouse
	case MouseReleased:
		f.dragging = false
		return EventAccepted
	}
	if !f.dragging {
		return EventIgnored
	}
	minX := min(0, get(&f.Width)-get(&f.ViewportWidth))
	minY := min(0, get(&f.Height)-get(&f.ViewportHeight))
	f.ViewportX.Set(clamp(f.origin.X+ev.Pos.X-f.dragStart.X, minX, 0))
	f.ViewportY.Set(clamp(f.origin.Y+ev.Pos.Y-f.dragStart.Y, minY, 0))
	return GrabMouse
}

func clamp(v, lo, hi float32) float32 { return max(lo, min(hi, v)) }
