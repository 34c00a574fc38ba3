package passes

import (
	"os"

	"github.com/patrickelectric/sixtyfps/pkg/objtree"
)

// ResourceLoader loads the bytes of a resource file.
type ResourceLoader interface {
	Load(path string) ([]byte, error)
}

// ResourceLoaderFunc adapts a function to ResourceLoader.
type ResourceLoaderFunc func(path string) ([]byte, error)

// Load calls f.
func (f ResourceLoaderFunc) Load(path string) ([]byte, error) { return f(path) }

// FileLoader reads resources from the file system.
var FileLoader ResourceLoader = ResourceLoaderFunc(os.ReadFile)

// CollectResources embeds the data of every image referenced by the
// component into the expression tree and the EmbeddedResources of the
// component. Resources that cannot be loaded keep their path.
func CollectResources(c *objtree.Component, loader ResourceLoader) {
	if loader == nil {
		loader = FileLoader
	}
	if c.EmbeddedResources == nil {
		c.EmbeddedResources = make(map[string][]byte)
	}
	objtree.VisitAllExpressions(c.RootElement, func(slot *objtree.Expression) {
		objtree.Walk(*slot, func(e objtree.Expression) {
			res, ok := e.(*objtree.ResourceReference)
			if !ok || res.Data != nil {
				return
			}
			data, ok := c.EmbeddedResources[res.Path]
			if !ok {
				var err error
				data, err = loader.Load(res.Path)
				if err != nil {
					logger.Printf("cannot embed %s: %v", res.Path, err)
					return
				}
				c.EmbeddedResources[res.Path] = data
			}
			res.Data = data
		})
	})
}
