package interpreter_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	. "github.com/patrickelectric/sixtyfps/pkg/interpreter"
	"github.com/patrickelectric/sixtyfps/pkg/items"
	"github.com/patrickelectric/sixtyfps/pkg/must"
	"github.com/patrickelectric/sixtyfps/pkg/property"
	"github.com/patrickelectric/sixtyfps/pkg/testutil"
	"github.com/patrickelectric/sixtyfps/pkg/tt"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
	"github.com/patrickelectric/sixtyfps/pkg/vals"
)

func load(t *testing.T, source string) *ComponentDescription {
	t.Helper()
	d, err := Load(source, "test.60", nil)
	if err != nil {
		t.Fatalf("cannot load: %v", err)
	}
	return d
}

func get(t *testing.T, b *ComponentBox, name string) vals.Value {
	t.Helper()
	v, err := b.GetProperty(name)
	if err != nil {
		t.Fatalf("GetProperty(%s): %v", name, err)
	}
	return v
}

const counterSource = `
Counter := Rectangle {
    property <int> counter: 1;
    property <int> doubled: counter * 2;
    property <string> label: "count: " + counter;
    signal reset;
    reset => { counter = 0; }
}
`

func TestDescription(t *testing.T) {
	d := load(t, counterSource)
	if d.ID() != "Counter" {
		t.Errorf("ID() = %q", d.ID())
	}
	want := map[string]string{"counter": "int32", "doubled": "int32", "label": "string", "reset": "signal"}
	got := make(map[string]string)
	for name, typ := range d.Properties() {
		got[name] = typ.String()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Properties() (-want +got):\n%s", diff)
	}
}

func TestIndependentInstances(t *testing.T) {
	d := load(t, counterSource)
	a, b := d.Create(), d.Create()
	must.OK(a.SetProperty("counter", 5))
	if v := get(t, a, "doubled"); v != 10.0 {
		t.Errorf("a.doubled = %v, want 10", v)
	}
	if v := get(t, b, "doubled"); v != 2.0 {
		t.Errorf("b.doubled = %v, want 2", v)
	}
	if v := get(t, a, "label"); v != "count: 5" {
		t.Errorf("a.label = %v", v)
	}
	must.OK(a.EmitSignal("reset"))
	if v := get(t, a, "doubled"); v != 0.0 {
		t.Errorf("a.doubled after reset = %v", v)
	}
	if v := get(t, b, "counter"); v != 1.0 {
		t.Errorf("b.counter changed to %v", v)
	}
}

func TestDependencyPropagation(t *testing.T) {
	d := load(t, `
X := Rectangle {
    property <int> a: 1;
    property <int> b: 2;
    property <int> sum;
}
`)
	box := d.Create()
	calls := 0
	must.OK(d.SetBinding(box, "sum", func(t *property.Tracker) (vals.Value, error) {
		calls++
		v, err := d.GetPropertyTracked(box, "a", t)
		if err != nil {
			return nil, err
		}
		return v.(float64) + 10, nil
	}))
	if calls != 0 {
		t.Errorf("binding evaluated before being read")
	}
	for range 2 {
		if v := get(t, box, "sum"); v != 11.0 {
			t.Errorf("sum = %v", v)
		}
	}
	must.OK(box.SetProperty("b", 3))
	get(t, box, "sum")
	if calls != 1 {
		t.Errorf("binding evaluated %d times, want 1", calls)
	}
	must.OK(box.SetProperty("a", 2))
	if v := get(t, box, "sum"); v != 12.0 || calls != 2 {
		t.Errorf("sum = %v after %d calls", v, calls)
	}
}

func TestErrors(t *testing.T) {
	d := load(t, counterSource)
	other := load(t, counterSource)
	box := d.Create()
	otherBox := other.Create()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"set on another component", d.SetProperty(otherBox, "counter", 1), ErrWrongComponent},
		{"get on another component", second(d.GetProperty(otherBox, "counter")), ErrWrongComponent},
		{"emit on another component", d.EmitSignal(otherBox, "reset"), ErrWrongComponent},
		{"nil box", d.SetProperty(nil, "counter", 1), ErrWrongComponent},
		{"unknown property", box.SetProperty("nope", 1), ErrPropertyNotFound},
		{"signal as property", box.SetProperty("reset", 1), ErrPropertyNotFound},
		{"unknown signal", box.EmitSignal("nope"), ErrSignalNotFound},
		{"property as signal", box.SetSignalHandler("counter", func() {}), ErrSignalNotFound},
		{"wrong type", box.SetProperty("counter", "abc"), ErrTypeMismatch},
		{"number for string", box.SetProperty("label", 5), ErrTypeMismatch},
		{"int out of range", box.SetProperty("counter", 1e20), ErrTypeMismatch},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if !errors.Is(test.err, test.want) {
				t.Errorf("got error %v, want %v", test.err, test.want)
			}
		})
	}
	if errors.Is(d.SetProperty(otherBox, "nope", 1), ErrPropertyNotFound) {
		t.Errorf("identity mismatch reported as a missing property")
	}
	if v := get(t, box, "counter"); v != 1.0 {
		t.Errorf("failed SetProperty changed counter to %v", v)
	}
	if v := get(t, box, "label"); v != "count: 1" {
		t.Errorf("failed SetProperty changed label to %v", v)
	}
	if err := box.SetProperty("counter", uint(4)); err != nil {
		t.Errorf("SetProperty with a uint: %v", err)
	}
}

func second(_ vals.Value, err error) error { return err }

func TestSignalHandler(t *testing.T) {
	d := load(t, `
X := Rectangle {
    signal clicked;
    property <int> count;
    clicked => { count += 1; }
}
`)
	box := d.Create()
	must.OK(box.EmitSignal("clicked"))
	must.OK(box.EmitSignal("clicked"))
	if v := get(t, box, "count"); v != 2.0 {
		t.Errorf("count = %v, want 2", v)
	}
	host := 0
	must.OK(box.SetSignalHandler("clicked", func() { host++ }))
	must.OK(box.EmitSignal("clicked"))
	if host != 1 || get(t, box, "count") != 2.0 {
		t.Errorf("handler not replaced")
	}
}

func TestBindingLoop(t *testing.T) {
	d := load(t, `
X := Rectangle {
    property <int> a: b;
    property <int> b: a;
}
`)
	box := d.Create()
	if _, err := box.GetProperty("a"); !errors.Is(err, property.ErrBindingLoop) {
		t.Errorf("got error %v, want binding loop", err)
	}
	must.OK(box.SetProperty("b", 4))
	if v := get(t, box, "a"); v != 4.0 {
		t.Errorf("a = %v after breaking the loop", v)
	}
}

func texts(box *ComponentBox) []string {
	var texts []string
	box.VisitItems(func(it items.Item, _ graphics.Point) {
		if text, ok := it.(*items.Text); ok {
			s, _ := text.Text.Get(nil)
			texts = append(texts, s)
		}
	})
	return texts
}

func TestRepeater(t *testing.T) {
	d := load(t, `
X := Rectangle {
    property <int> count: 3;
    for i in count : Text { text: "item " + i; }
}
`)
	box := d.Create()
	first := box.Repeaters()[0]
	if len(first) != 3 {
		t.Fatalf("got %d instances, want 3", len(first))
	}
	if diff := cmp.Diff([]string{"item 0", "item 1", "item 2"}, texts(box)); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}

	must.OK(box.SetProperty("count", 1))
	shrunk := box.Repeaters()[0]
	if len(shrunk) != 1 || shrunk[0] != first[0] {
		t.Errorf("instance 0 not kept when shrinking")
	}
	if first[0].IsDestroyed() || !first[1].IsDestroyed() || !first[2].IsDestroyed() {
		t.Errorf("removed instances not destroyed")
	}

	must.OK(box.SetProperty("count", 4))
	grown := box.Repeaters()[0]
	if len(grown) != 4 || grown[0] != first[0] {
		t.Errorf("got %d instances after growing", len(grown))
	}
	if diff := cmp.Diff([]string{"item 0", "item 1", "item 2", "item 3"}, texts(box)); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}

	box.Destroy()
	if !grown[3].IsDestroyed() {
		t.Errorf("destroying the parent did not destroy the instances")
	}
}

func TestRepeater_ArrayModel(t *testing.T) {
	d := load(t, `
X := Rectangle {
    for person[i] in [{name: "ann", age: 30}, {name: "bob", age: 40}] : Text {
        text: i + ": " + person.name;
    }
}
`)
	box := d.Create()
	instances := box.Repeaters()[0]
	if len(instances) != 2 {
		t.Fatalf("got %d instances", len(instances))
	}
	want := vals.Object{"name": "bob", "age": 40.0}
	if diff := cmp.Diff(vals.Value(want), instances[1].ModelData()); diff != "" {
		t.Errorf("model data (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"0: ann", "1: bob"}, texts(box)); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}
}

func TestConditionalElement(t *testing.T) {
	d := load(t, `
X := Rectangle {
    property <bool> show;
    if show : Text { text: "shown"; }
}
`)
	box := d.Create()
	if n := len(box.Repeaters()[0]); n != 0 {
		t.Errorf("got %d instances while hidden", n)
	}
	must.OK(box.SetProperty("show", true))
	if diff := cmp.Diff([]string{"shown"}, texts(box)); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}
}

func TestAnimation(t *testing.T) {
	d := load(t, `
X := Rectangle {
    property <float> value;
    animate value { duration: 100ms; }
}
`)
	driver := property.NewAnimationDriver()
	box := d.CreateWithDriver(driver)
	must.OK(box.SetProperty("value", 100))
	if !driver.HasActiveAnimations() {
		t.Errorf("no active animation")
	}
	driver.UpdateTick(50 * time.Millisecond)
	if v := get(t, box, "value"); v != 50.0 {
		t.Errorf("value at 50ms = %v, want 50", v)
	}
	driver.UpdateTick(100 * time.Millisecond)
	if v := get(t, box, "value"); v != 100.0 {
		t.Errorf("value at the end = %v, want 100", v)
	}
	if driver.HasActiveAnimations() {
		t.Errorf("animation still active")
	}
}

func TestStates(t *testing.T) {
	d := load(t, `
X := Rectangle {
    property <bool> down;
    property <float> level: 1;
    states [ high when down : { level: 11; } ]
    transitions [ in high : { animate level { duration: 100ms; } } ]
}
`)
	driver := property.NewAnimationDriver()
	box := d.CreateWithDriver(driver)
	if v := get(t, box, "level"); v != 1.0 {
		t.Errorf("level = %v, want 1", v)
	}
	must.OK(box.SetProperty("down", true))
	if v := get(t, box, "level"); v != 1.0 {
		t.Errorf("level at the start of the transition = %v", v)
	}
	driver.UpdateTick(50 * time.Millisecond)
	if v := get(t, box, "level"); v != 6.0 {
		t.Errorf("level at 50ms = %v, want 6", v)
	}
	driver.UpdateTick(100 * time.Millisecond)
	if v := get(t, box, "level"); v != 11.0 {
		t.Errorf("level at the end = %v, want 11", v)
	}
}

func TestNestedStatefulComponent(t *testing.T) {
	d := load(t, `
Toggle := Rectangle {
    property <bool> on;
    property <string> label: "off";
    states [ active when on : { label: "on"; } ]
    Text { text: label; }
}
X := Rectangle {
    property <bool> flag;
    Toggle { on: flag; }
}
`)
	box := d.Create()
	if diff := cmp.Diff([]string{"off"}, texts(box)); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}
	must.OK(box.SetProperty("flag", true))
	if diff := cmp.Diff([]string{"on"}, texts(box)); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}
}

func TestProcessMouseEvent(t *testing.T) {
	d := load(t, `
X := Rectangle {
    width: 100px;
    height: 100px;
    property <int> clicks;
    Rectangle {
        x: 10px;
        y: 10px;
        width: 50px;
        height: 50px;
        TouchArea {
            width: parent.width;
            height: parent.height;
            clicked => { clicks += 1; }
        }
    }
}
`)
	box := d.Create()
	press := items.MouseEvent{Pos: graphics.Point{X: 20, Y: 20}, What: items.MousePressed}
	release := items.MouseEvent{Pos: graphics.Point{X: 20, Y: 20}, What: items.MouseReleased}
	if r := box.ProcessMouseEvent(press); r != items.GrabMouse {
		t.Errorf("press -> %v", r)
	}
	box.ProcessMouseEvent(release)
	if v := get(t, box, "clicks"); v != 1.0 {
		t.Errorf("clicks = %v, want 1", v)
	}
	outside := items.MouseEvent{Pos: graphics.Point{X: 90, Y: 90}, What: items.MousePressed}
	if r := box.ProcessMouseEvent(outside); r != items.EventIgnored {
		t.Errorf("press outside -> %v", r)
	}
}

func TestButton(t *testing.T) {
	d := load(t, `
X := Rectangle {
    property <int> clicks;
    Button {
        width: 50px;
        height: 20px;
        text: "ok";
        clicked => { clicks += 1; }
    }
}
`)
	box := d.Create()
	at := graphics.Point{X: 5, Y: 5}
	box.ProcessMouseEvent(items.MouseEvent{Pos: at, What: items.MousePressed})
	box.ProcessMouseEvent(items.MouseEvent{Pos: at, What: items.MouseReleased})
	if v := get(t, box, "clicks"); v != 1.0 {
		t.Errorf("clicks = %v, want 1", v)
	}
	if diff := cmp.Diff([]string{"ok"}, texts(box)); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}
}

func TestLayout(t *testing.T) {
	d := load(t, counterSource)
	l := d.Layout()
	var end uintptr
	for _, f := range l.Fields() {
		if f.Offset < end {
			t.Errorf("field %s at %d overlaps the previous field ending at %d", f.Name, f.Offset, end)
		}
		if f.Offset%uintptr(f.Type.Align()) != 0 {
			t.Errorf("field %s is not aligned", f.Name)
		}
		end = f.Offset + f.Type.Size()
	}
	if l.Size() < end || l.Size()%l.Align() != 0 {
		t.Errorf("size %d does not cover the fields", l.Size())
	}
	if n := len(l.Fields()); n != 5 {
		t.Errorf("got %d fields, want 5", n)
	}
}

func TestConvertValue(t *testing.T) {
	tt.Test(t, tt.Fn("ConvertValue", ConvertValue), tt.Table{
		tt.Args(3, typeregister.Int32Type).Rets(3.0, nil),
		tt.Args(float32(1.5), typeregister.Float32Type).Rets(1.5, nil),
		tt.Args("#ff0000", typeregister.ColorType).Rets(graphics.RGBA(0xff, 0, 0, 0xff), nil),
		tt.Args([]any{1, 2}, typeregister.ArrayOf(typeregister.Float32Type)).
			Rets([]vals.Value{1.0, 2.0}, nil),
		tt.Args("abc", typeregister.Float32Type).Rets(nil, ErrTypeMismatch),
		tt.Args(true, typeregister.StringType).Rets(nil, ErrTypeMismatch),
		tt.Args(5, typeregister.StringType).Rets(nil, ErrTypeMismatch),
		tt.Args([]any{1}, typeregister.ArrayOf(typeregister.StringType)).
			Rets(nil, ErrTypeMismatch),
		tt.Args(uint(7), typeregister.Int32Type).Rets(7.0, nil),
		tt.Args(int8(-3), typeregister.Int32Type).Rets(-3.0, nil),
		tt.Args(uint16(9), typeregister.Float32Type).Rets(9.0, nil),
		tt.Args(1e20, typeregister.Int32Type).Rets(nil, ErrTypeMismatch),
		tt.Args(uint64(1<<40), typeregister.Int32Type).Rets(nil, ErrTypeMismatch),
	})
}

func TestLoadFile(t *testing.T) {
	dir := testutil.InTempDir(t)
	testutil.ApplyDir(dir, testutil.Dir{
		"lib": testutil.Dir{
			"badge.60": `Badge := Text { property <int> n; text: "#" + n; }`,
		},
		"main.60": `X := Rectangle { Badge { n: 7; } }`,
		"bad.60":  `X := Rectangle { Nope { } }`,
	})
	d, err := LoadFile("main.60", []string{"lib"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"#7"}, texts(d.Create())); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}
	if _, err := LoadFile("bad.60", nil); err == nil {
		t.Errorf("no error for an unknown element")
	}
	if _, err := LoadFile("missing.60", nil); err == nil {
		t.Errorf("no error for a missing file")
	}
}

func TestTestdata(t *testing.T) {
	files, err := filepath.Glob("testdata/*.60")
	if err != nil || len(files) == 0 {
		t.Fatalf("no test files: %v", err)
	}
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			d, err := LoadFile(file, nil)
			if err != nil {
				t.Fatal(err)
			}
			box := d.Create()
			n := 0
			box.VisitItems(func(it items.Item, _ graphics.Point) {
				it.RenderingPrimitive()
				it.RenderingVariables()
				n++
			})
			if n == 0 {
				t.Errorf("no items")
			}
			box.Destroy()
		})
	}
}
