package passes

import (
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

// Inline replaces every element whose base is a stateless component with a
// copy of the element tree of that component. Stateful components are kept
// as nested components, but their own trees are inlined.
//
// Components are inlined bottom-up: a component is fully inlined before it
// is copied into its users. Expressions are copied, not resolved again, so
// bindings keep referring to the same declarations.
func Inline(c *objtree.Component) {
	(&inliner{done: make(map[*objtree.Component]bool)}).component(c)
}

type inliner struct {
	done map[*objtree.Component]bool
}

func (in *inliner) component(c *objtree.Component) {
	if in.done[c] {
		return
	}
	in.done[c] = true
	in.element(c.RootElement)
}

func (in *inliner) element(e *objtree.Element) {
	for e.Base.Kind == typeregister.Component {
		sub, ok := e.Base.Component.(*objtree.Component)
		if !ok {
			break
		}
		in.component(sub)
		if sub.IsStateful() {
			break
		}
		logger.Printf("inlining %s into %s", sub.ID, e.EnclosingComponent.ID)
		objtree.NewCloner(e.EnclosingComponent).Inline(sub.RootElement, e)
	}
	for _, child := range e.Children {
		in.element(child)
	}
}

// NestedComponents returns the stateful components used by the tree of c,
// directly or indirectly, in pre-order. They are not inlined and need to be
// lowered on their own.
func NestedComponents(c *objtree.Component) []*objtree.Component {
	seen := map[*objtree.Component]bool{c: true}
	var nested []*objtree.Component
	var visit func(c *objtree.Component)
	visit = func(c *objtree.Component) {
		objtree.VisitElements(c.RootElement, func(e *objtree.Element) {
			if e.Base.Kind != typeregister.Component || e.IsPlaceholder() {
				return
			}
			sub, ok := e.Base.Component.(*objtree.Component)
			if !ok || seen[sub] {
				return
			}
			seen[sub] = true
			nested = append(nested, sub)
			visit(sub)
		})
	}
	visit(c)
	return nested
}
