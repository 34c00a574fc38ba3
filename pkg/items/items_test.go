package items

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/property"
	"github.com/patrickelectric/sixtyfps/pkg/testutil"
)

func TestFieldNames(t *testing.T) {
	want := []string{"x", "y", "width", "height",
		"pressed", "pressed_x", "pressed_y", "mouse_x", "mouse_y", "clicked"}
	if diff := cmp.Diff(want, FieldNames("TouchArea")); diff != "" {
		t.Errorf("FieldNames(TouchArea) (-want +got):\n%s", diff)
	}
	if FieldNames("Nope") != nil {
		t.Errorf("FieldNames of an unknown kind")
	}
}

func TestField(t *testing.T) {
	item, ok := New("BorderRectangle")
	if !ok {
		t.Fatal("New(BorderRectangle) failed")
	}
	f, ok := Field(item, "border_width")
	p, isFloat := f.(*property.Property[float32])
	if !ok || !isFloat {
		t.Fatalf("Field(border_width) -> %T, %v", f, ok)
	}
	p.Set(2)
	if prim := item.RenderingPrimitive(); prim.BorderWidth != 2 || prim.Kind != graphics.BorderRectanglePrimitive {
		t.Errorf("primitive = %+v", prim)
	}
	if _, ok := Field(item, "nope"); ok {
		t.Errorf("Field(nope) succeeded")
	}
}

func TestNew_Defaults(t *testing.T) {
	item, _ := New("Text")
	text := item.(*Text)
	if text.HorizontalAlignment.Value() != "align_left" || text.Color.Value() != graphics.RGBA(0, 0, 0, 0xff) {
		t.Errorf("text defaults not set")
	}
	if _, ok := New("GridLayout"); ok {
		t.Errorf("New(GridLayout) succeeded")
	}
}

func TestRectangle(t *testing.T) {
	r := &Rectangle{}
	r.X.Set(10)
	r.Y.Set(20)
	r.Width.Set(30)
	r.Height.Set(40)
	red := graphics.RGBA(0xff, 0, 0, 0xff)
	r.Color.Set(red)
	if got := r.Geometry(); got != graphics.NewRect(10, 20, 30, 40) {
		t.Errorf("Geometry -> %v", got)
	}
	want := []graphics.RenderingVariable{graphics.Translate(10, 20), graphics.ColorVar(red)}
	if diff := cmp.Diff(want, r.RenderingVariables()); diff != "" {
		t.Errorf("RenderingVariables (-want +got):\n%s", diff)
	}
	if r.LayoutInfo() != graphics.Unconstrained {
		t.Errorf("LayoutInfo -> %v", r.LayoutInfo())
	}
	if r.InputEvent(MouseEvent{What: MousePressed}) != EventIgnored {
		t.Errorf("rectangle accepted an event")
	}
}

func TestText(t *testing.T) {
	item, _ := New("Text")
	text := item.(*Text)
	text.Text.Set("hello")
	info := text.LayoutInfo()
	// 7 pixels per character at the default size.
	if info.MinWidth != 35 || info.MinHeight != 13 {
		t.Errorf("LayoutInfo -> %+v", info)
	}
	text.FontSize.Set(26)
	if size := TextSize("hello", 26); size.Width != 70 {
		t.Errorf("TextSize at 26 -> %v", size)
	}
	text.Width.Set(100)
	text.HorizontalAlignment.Set("align_right")
	if v := text.RenderingVariables()[0]; v.X != 30 {
		t.Errorf("right aligned x = %v, want 30", v.X)
	}
}

func TestTouchArea(t *testing.T) {
	ta := &TouchArea{}
	ta.Width.Set(10)
	ta.Height.Set(10)
	clicks := 0
	ta.Clicked.SetHandler(func() { clicks++ })

	if r := ta.InputEvent(MouseEvent{graphics.Point{X: 2, Y: 3}, MousePressed}); r != GrabMouse {
		t.Errorf("press -> %v", r)
	}
	if !ta.Pressed.Value() || ta.PressedX.Value() != 2 || ta.PressedY.Value() != 3 {
		t.Errorf("pressed state not recorded")
	}
	if r := ta.InputEvent(MouseEvent{graphics.Point{X: 20, Y: 3}, MouseMoved}); r != GrabMouse {
		t.Errorf("move while pressed -> %v", r)
	}
	ta.InputEvent(MouseEvent{graphics.Point{X: 5, Y: 5}, MouseReleased})
	if clicks != 1 || ta.Pressed.Value() {
		t.Errorf("clicks = %d after release inside", clicks)
	}
	ta.InputEvent(MouseEvent{graphics.Point{X: 5, Y: 5}, MousePressed})
	ta.InputEvent(MouseEvent{graphics.Point{X: 50, Y: 5}, MouseReleased})
	if clicks != 1 {
		t.Errorf("release outside clicked")
	}
	if r := ta.InputEvent(MouseEvent{graphics.Point{X: 1, Y: 1}, MouseMoved}); r != EventAccepted {
		t.Errorf("hover -> %v", r)
	}
}

func TestFlickable(t *testing.T) {
	item, _ := New("Flickable")
	f := item.(*Flickable)
	f.Width.Set(100)
	f.Height.Set(100)
	f.ViewportWidth.Set(300)
	f.ViewportHeight.Set(100)
	f.InputEvent(MouseEvent{graphics.Point{X: 50, Y: 50}, MousePressed})
	f.InputEvent(MouseEvent{graphics.Point{X: 20, Y: 10}, MouseMoved})
	if x, y := f.ViewportX.Value(), f.ViewportY.Value(); x != -30 || y != 0 {
		t.Errorf("viewport = %v, %v", x, y)
	}
	f.InputEvent(MouseEvent{graphics.Point{X: -500, Y: 50}, MouseMoved})
	if x := f.ViewportX.Value(); x != -200 {
		t.Errorf("viewport x = %v, want -200", x)
	}
	f.InputEvent(MouseEvent{graphics.Point{}, MouseReleased})
	f.Interactive.Set(false)
	if r := f.InputEvent(MouseEvent{graphics.Point{}, MousePressed}); r != EventIgnored {
		t.Errorf("non-interactive flickable -> %v", r)
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImage(t *testing.T) {
	data := encodePNG(t, 4, 2)
	dir := testutil.TempDir(t)
	path := filepath.Join(dir, "a.png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	for _, r := range []graphics.Resource{
		{Kind: graphics.FileResource, Path: path},
		{Kind: graphics.EmbeddedResource, Path: path, Data: data},
	} {
		if size, ok := ImageSize(r); !ok || size != (graphics.Size{Width: 4, Height: 2}) {
			t.Errorf("ImageSize(%v) -> %v, %v", r, size, ok)
		}
	}
	if _, ok := ImageSize(graphics.Resource{Kind: graphics.FileResource, Path: filepath.Join(dir, "nope")}); ok {
		t.Errorf("ImageSize of a missing file succeeded")
	}

	img := &Image{}
	img.Source.Set(graphics.Resource{Kind: graphics.EmbeddedResource, Data: data})
	img.Width.Set(8)
	vars := img.RenderingVariables()
	if len(vars) != 2 || vars[1].Kind != graphics.ScaledWidthVariable || vars[1].Scale != 2 {
		t.Errorf("RenderingVariables -> %+v", vars)
	}
}

func TestDestroy(t *testing.T) {
	src := property.New[float32](3)
	r := &Rectangle{}
	r.Width.SetBinding(func(t *property.Tracker) (float32, error) { return src.Get(t) })
	r.Geometry()
	Destroy(r)
	src.Set(4)
	if r.Width.IsDirty() {
		t.Errorf("destroyed item still depends on src")
	}
}
