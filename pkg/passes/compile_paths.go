package passes

import (
	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

// CompilePaths compiles the elements property of Path elements. The SVG
// commands string is parsed ahead of time into path data; child path
// elements become a PathElements expression evaluated at runtime.
func CompilePaths(c *objtree.Component, diags *diag.BuildDiagnostics) {
	objtree.VisitElements(c.RootElement, func(e *objtree.Element) {
		isPath := e.Builtin() != nil && e.Builtin().Name == "Path"
		if isPath {
			compilePath(e, diags)
			return
		}
		for _, child := range e.Children {
			if b := child.Builtin(); b != nil && b.Kind == typeregister.PathElementKind {
				errorf(diags, child.Span, "%s can only be within a Path element", b.Name)
			}
		}
	})
}

func compilePath(e *objtree.Element, diags *diag.BuildDiagnostics) {
	var elements []*objtree.Element
	var others []*objtree.Element
	for _, child := range e.Children {
		if b := child.Builtin(); b != nil && b.Kind == typeregister.PathElementKind {
			elements = append(elements, child)
		} else {
			others = append(others, child)
		}
	}

	if commands, ok := e.Bindings["commands"]; ok {
		delete(e.Bindings, "commands")
		if len(elements) > 0 {
			errorf(diags, commands.Span, "Path elements cannot be mixed with the use of the SVG commands property")
			return
		}
		lit, ok := commands.Expression.(*objtree.StringLiteral)
		if !ok {
			if !objtree.IsInvalid(commands.Expression) {
				errorf(diags, commands.Span, "The commands property only accepts string literals")
			}
			return
		}
		data, err := graphics.ParseSVGPath(lit.Value)
		if err != nil {
			errorf(diags, commands.Span, "Error parsing SVG commands: %v", err)
			return
		}
		e.Bindings["elements"] = &objtree.Binding{Expression: &objtree.PathData{Data: data}, Span: commands.Span}
		return
	}
	if len(elements) == 0 {
		return
	}

	compiled := &objtree.PathElements{}
	for _, el := range elements {
		kind, _ := graphics.PathElementKindOf(el.Builtin().Name)
		if len(el.Children) > 0 {
			errorf(diags, el.Children[0].Span, "Path elements cannot have children")
		}
		bindings := make(map[string]objtree.Expression, len(el.Bindings))
		for name, b := range el.Bindings {
			bindings[name] = b.Expression
		}
		compiled.Elements = append(compiled.Elements, &objtree.PathElement{Kind: kind, Bindings: bindings})
	}
	e.Children = others
	e.Bindings["elements"] = &objtree.Binding{Expression: compiled, Span: e.Span}
}
