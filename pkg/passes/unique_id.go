package passes

import (
	"fmt"
	"strings"

	"github.com/patrickelectric/sixtyfps/pkg/objtree"
)

// AssignUniqueID renames every element of the component tree to
// <id>_<n>, or <base>_<n> for elements without id, where n counts elements
// in pre-order from 1. Element indexes are set to n-1. The result only
// depends on the shape of the tree.
func AssignUniqueID(c *objtree.Component) {
	count := 0
	objtree.VisitElements(c.RootElement, func(e *objtree.Element) {
		count++
		base := e.ID
		if base == "" {
			base = strings.ToLower(e.Base.String())
		}
		e.ID = fmt.Sprintf("%s_%d", base, count)
		e.Index = count - 1
	})
}
