package passes

import (
	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

var layoutProperties = []string{"x", "y", "width", "height", "spacing", "padding"}

// LowerLayouts removes layout elements. The geometry of a layout becomes
// declarations <layout id>_<property> on its parent, its children are moved
// to the parent and receive generated x, y, width and height bindings.
// Children share the available space equally.
func LowerLayouts(c *objtree.Component, diags *diag.BuildDiagnostics) {
	l := &layoutLowering{diags: diags, remap: make(map[objtree.NamedReference]objtree.NamedReference)}
	if isLayout(c.RootElement) {
		errorf(diags, c.RootElement.Span, "A layout cannot be the root of a component")
		return
	}
	l.lowerChildren(c.RootElement)
	if len(l.remap) == 0 {
		return
	}
	objtree.VisitElements(c.RootElement, func(e *objtree.Element) {
		objtree.VisitNamedReferences(e, func(ref *objtree.NamedReference) {
			if to, ok := l.remap[*ref]; ok {
				*ref = to
			}
		})
	})
}

func isLayout(e *objtree.Element) bool {
	b := e.Builtin()
	return b != nil && b.Kind == typeregister.LayoutKind
}

type layoutLowering struct {
	diags *diag.BuildDiagnostics
	remap map[objtree.NamedReference]objtree.NamedReference
}

func (l *layoutLowering) lowerChildren(e *objtree.Element) {
	var children []*objtree.Element
	for _, child := range e.Children {
		switch {
		case !isLayout(child):
			children = append(children, child)
		case child.Builtin().Name == "Row":
			errorf(l.diags, child.Span, "Row can only be within a GridLayout")
		default:
			children = append(children, l.lowerLayout(e, child)...)
		}
	}
	e.Children = children
	for _, child := range children {
		l.lowerChildren(child)
	}
}

// cell is a laid out element with its position in the layout.
type cell struct {
	elem     *objtree.Element
	row, col int
}

// lowerLayout lowers layout, a child of parent, and returns the elements to
// put in its place.
func (l *layoutLowering) lowerLayout(parent, layout *objtree.Element) []*objtree.Element {
	if layout.Repeated != nil {
		errorf(l.diags, layout.Span, "Repeated layouts are not supported")
		return nil
	}
	geom := make(map[string]objtree.Expression)
	for _, prop := range layoutProperties {
		name := layout.ID + "_" + prop
		parent.PropertyDeclarations[name] = &objtree.PropertyDeclaration{
			Type: typeregister.Float32Type, Span: layout.Span}
		value := l.defaultGeometry(parent, prop)
		if b, ok := layout.Bindings[prop]; ok {
			value = b.Expression
		}
		parent.Bindings[name] = &objtree.Binding{Expression: value, Span: layout.Span}
		if anim, ok := layout.PropertyAnimations[prop]; ok {
			parent.PropertyAnimations[name] = anim
		}
		l.remap[objtree.NamedReference{Element: layout, Name: prop}] =
			objtree.NamedReference{Element: parent, Name: name}
		geom[prop] = propRef(parent, name, typeregister.Float32Type)
	}

	var cells []cell
	rows, cols := 0, 0
	switch layout.Builtin().Name {
	case "HorizontalLayout":
		for i, child := range layout.Children {
			cells = append(cells, cell{child, 0, i})
		}
		rows, cols = 1, len(layout.Children)
	case "VerticalLayout":
		for i, child := range layout.Children {
			cells = append(cells, cell{child, i, 0})
		}
		rows, cols = len(layout.Children), 1
	case "GridLayout":
		for _, child := range layout.Children {
			if isLayout(child) && child.Builtin().Name == "Row" {
				for col, cellChild := range child.Children {
					cells = append(cells, cell{cellChild, rows, col})
				}
				cols = max(cols, len(child.Children))
			} else {
				cells = append(cells, cell{child, rows, 0})
				cols = max(cols, 1)
			}
			rows++
		}
	}
	if len(cells) == 0 {
		return nil
	}

	cellWidth := cellSize(geom["width"], geom["spacing"], geom["padding"], cols)
	cellHeight := cellSize(geom["height"], geom["spacing"], geom["padding"], rows)
	var result []*objtree.Element
	for _, c := range cells {
		child := c.elem
		if child.Repeated != nil {
			errorf(l.diags, child.Span, "Repeated elements are not supported in layouts")
			result = append(result, child)
			continue
		}
		for _, prop := range []string{"x", "y"} {
			if b, ok := child.Bindings[prop]; ok {
				errorf(l.diags, b.Span, "The property '%s' cannot be set for elements placed in a layout, because the layout is already setting it", prop)
			}
		}
		set := func(prop string, value objtree.Expression) {
			if _, ok := child.LookupProperty(prop); !ok {
				return
			}
			if _, explicit := child.Bindings[prop]; explicit && (prop == "width" || prop == "height") {
				return
			}
			child.Bindings[prop] = &objtree.Binding{Expression: value, Span: child.Span}
		}
		set("x", offset(geom["x"], geom["padding"], cellWidth, geom["spacing"], c.col))
		set("y", offset(geom["y"], geom["padding"], cellHeight, geom["spacing"], c.row))
		set("width", cellWidth)
		set("height", cellHeight)
		if isLayout(child) {
			result = append(result, l.lowerLayout(parent, child)...)
		} else {
			result = append(result, child)
		}
	}
	return result
}

func (l *layoutLowering) defaultGeometry(parent *objtree.Element, prop string) objtree.Expression {
	switch prop {
	case "width", "height":
		if _, ok := parent.LookupProperty(prop); ok {
			return propRef(parent, prop, typeregister.Float32Type)
		}
	}
	return float(0)
}

// cellSize is (total - 2*padding - (n-1)*spacing) / n.
func cellSize(total, spacing, padding objtree.Expression, n int) objtree.Expression {
	available := binary(total, "-", binary(float(2), "*", padding))
	available = binary(available, "-", binary(float(float64(n-1)), "*", spacing))
	return binary(available, "/", float(float64(n)))
}

// offset is origin + padding + i*(size + spacing).
func offset(origin, padding, size, spacing objtree.Expression, i int) objtree.Expression {
	return binary(binary(origin, "+", padding), "+",
		binary(float(float64(i)), "*", binary(size, "+", spacing)))
}
