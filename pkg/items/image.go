package items

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/property"
)

// Image draws an image, scaled to the size of the item.
type Image struct {
	geometry
	Source property.Property[graphics.Resource]
}

// ImageSize returns the natural size of an image, decoding only its
// header. It returns false when the image cannot be read.
func ImageSize(r graphics.Resource) (graphics.Size, bool) {
	var src io.Reader
	switch r.Kind {
	case graphics.EmbeddedResource:
		src = bytes.NewReader(r.Data)
	case graphics.FileResource:
		f, err := os.Open(r.Path)
		if err != nil {
			return graphics.Size{}, false
		}
		defer f.Close()
		src = f
	default:
		return graphics.Size{}, false
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		logger.Printf("cannot decode %s: %v", r, err)
		return graphics.Size{}, false
	}
	return graphics.Size{Width: float32(cfg.Width), Height: float32(cfg.Height)}, true
}

func (i *Image) RenderingPrimitive() graphics.RenderingPrimitive {
	return graphics.RenderingPrimitive{
		Kind:   graphics.ImagePrimitive,
		Width:  get(&i.Width),
		Height: get(&i.Height),
		Source: get(&i.Source),
	}
}

// RenderingVariables scales the image to the size of the item when it is
// set.
func (i *Image) RenderingVariables() []graphics.RenderingVariable {
	vars := []graphics.RenderingVariable{i.translate()}
	natural, ok := ImageSize(get(&i.Source))
	if !ok {
		return vars
	}
	if w := get(&i.Width); w > 0 && natural.Width > 0 {
		vars = append(vars, graphics.RenderingVariable{
			Kind: graphics.ScaledWidthVariable, Scale: w / natural.Width})
	}
	if h := get(&i.Height); h > 0 && natural.Height > 0 {
		vars = append(vars, graphics.RenderingVariable{
			Kind: graphics.ScaledHeightVariable, Scale: h / natural.Height})
	}
	return vars
}
