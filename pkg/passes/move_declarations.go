package passes

import (
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
)

// MoveDeclarations moves the declarations of the elements of a component
// to its root element, as <element id>_<name>, along with their bindings
// and animations. References are rewritten in the component and in the
// components extracted from its repeated elements, which may refer to
// them. Extracted components are then processed in turn.
func MoveDeclarations(c *objtree.Component) {
	root := c.RootElement
	remap := make(map[objtree.NamedReference]objtree.NamedReference)
	objtree.VisitElements(root, func(e *objtree.Element) {
		if e == root {
			return
		}
		for _, name := range e.DeclaredNames() {
			newName := e.ID + "_" + name
			decl := e.PropertyDeclarations[name]
			decl.Expose = false
			root.PropertyDeclarations[newName] = decl
			delete(e.PropertyDeclarations, name)
			if b, ok := e.Bindings[name]; ok {
				root.Bindings[newName] = b
				delete(e.Bindings, name)
			}
			if a, ok := e.PropertyAnimations[name]; ok {
				root.PropertyAnimations[newName] = a
				delete(e.PropertyAnimations, name)
			}
			remap[objtree.NamedReference{Element: e, Name: name}] =
				objtree.NamedReference{Element: root, Name: newName}
		}
	})

	if len(remap) > 0 {
		rewrite := func(e *objtree.Element) {
			objtree.VisitNamedReferences(e, func(ref *objtree.NamedReference) {
				if to, ok := remap[*ref]; ok {
					*ref = to
				}
			})
		}
		objtree.VisitElements(root, rewrite)
		for _, sub := range RepeaterComponents(c) {
			objtree.VisitElements(sub.RootElement, rewrite)
		}
	}

	objtree.VisitElements(root, func(e *objtree.Element) {
		if e.IsPlaceholder() {
			MoveDeclarations(e.RepeatedComponent())
		}
	})
}
