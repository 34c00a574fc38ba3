package passes

import (
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

// CreateRepeaterComponents moves every repeated element into a component of
// its own, named repeat_<id>. A placeholder element whose base is the new
// component takes the place of the repeated element and keeps the model.
func CreateRepeaterComponents(c *objtree.Component) {
	createRepeaterComponentsIn(c.RootElement, c)
}

func createRepeaterComponentsIn(e *objtree.Element, c *objtree.Component) {
	for i, child := range e.Children {
		if child.Repeated == nil {
			createRepeaterComponentsIn(child, c)
			continue
		}
		sub := &objtree.Component{
			ID:                "repeat_" + child.ID,
			RootElement:       child,
			File:              c.File,
			EmbeddedResources: c.EmbeddedResources,
		}
		placeholder := objtree.NewElement(typeregister.ComponentOf(sub), c, child.Span)
		placeholder.ID = child.ID
		placeholder.Index = child.Index
		placeholder.Repeated = child.Repeated
		sub.ParentElement = placeholder
		child.Repeated = nil
		objtree.VisitElements(child, func(el *objtree.Element) { el.EnclosingComponent = sub })
		e.Children[i] = placeholder
		logger.Printf("extracted %s from %s", sub.ID, c.ID)
		createRepeaterComponentsIn(child, sub)
	}
}

// RepeaterComponents returns the components extracted from the repeated
// elements of c, directly or in nested repeaters, in pre-order.
func RepeaterComponents(c *objtree.Component) []*objtree.Component {
	var subs []*objtree.Component
	objtree.VisitElements(c.RootElement, func(e *objtree.Element) {
		if e.IsPlaceholder() {
			sub := e.RepeatedComponent()
			subs = append(subs, sub)
			subs = append(subs, RepeaterComponents(sub)...)
		}
	})
	return subs
}
