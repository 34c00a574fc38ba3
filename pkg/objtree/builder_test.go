package objtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/parse"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

func build(code string) (*Document, *diag.FileDiagnostics) {
	file := &diag.SourceFile{Name: "[test]", Code: code}
	node, fd := parse.ParseFile(file)
	doc := FromNode(node, fd, typeregister.BuiltinRegister())
	return doc, fd
}

func messages(fd *diag.FileDiagnostics) []string {
	var msgs []string
	for _, d := range fd.Inner {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func TestFromNode(t *testing.T) {
	doc, fd := build(`
Sub := Rectangle {
    property <int> value: 42;
    signal activated;
}
Main := Window {
    property <string> title: "hi";
    s := Sub { value: 3; activated => { title = "x"; } }
    for item[i] in 3 : Text { text: i; }
    if title == "hi" : Rectangle { }
    animate width { duration: 100ms; }
}
`)
	if fd.HasError() {
		t.Fatalf("unexpected diagnostics %v", messages(fd))
	}
	if len(doc.Components) != 2 || doc.Root.ID != "Main" {
		t.Fatalf("components = %d, root = %v", len(doc.Components), doc.Root)
	}
	if typ := doc.LocalRegistry.LookupType("Sub"); typ.Component != doc.Components[0] {
		t.Errorf("Sub is not registered")
	}

	root := doc.Root.RootElement
	if diff := cmp.Diff(map[string]typeregister.Type{"title": typeregister.StringType},
		doc.Root.PublicProperties()); diff != "" {
		t.Errorf("PublicProperties (-want +got):\n%s", diff)
	}
	if _, ok := root.Bindings["title"].Expression.(*Uncompiled); !ok {
		t.Errorf("declaration binding is not kept uncompiled")
	}
	if len(root.Children) != 3 {
		t.Fatalf("got %d children", len(root.Children))
	}
	s := root.Children[0]
	if s.ID != "s" || s.Base.Component != doc.Components[0] || s.Bindings["activated"] == nil {
		t.Errorf("bad sub element %+v", s)
	}
	if s.EnclosingComponent != doc.Root {
		t.Errorf("EnclosingComponent not set")
	}
	if r := root.Children[1].Repeated; r == nil || r.ModelDataID != "item" || r.IndexID != "i" || r.IsConditional {
		t.Errorf("bad repeated info %+v", r)
	}
	if r := root.Children[2].Repeated; r == nil || !r.IsConditional {
		t.Errorf("bad conditional info %+v", r)
	}
	if a := root.PropertyAnimations["width"]; a == nil || a.Static.Bindings["duration"] == nil {
		t.Errorf("bad animation %+v", a)
	}

	sub := doc.Components[0].RootElement
	if d := sub.PropertyDeclarations["activated"]; d == nil || d.Type.Kind != typeregister.Signal {
		t.Errorf("signal declaration missing")
	}
}

func TestFromNode_Errors(t *testing.T) {
	tests := []struct {
		code string
		want []string
	}{
		{"X := Foo { }", []string{"Unknown type Foo"}},
		{"X := Rectangle { foo: 1; }", []string{"Unknown property foo in Rectangle"}},
		{"X := TouchArea { clicked: 1; }", []string{"'clicked' is a signal. Use `=>` to connect"}},
		{"X := Rectangle { color => { } }", []string{"'color' is not a signal in Rectangle"}},
		{"X := Rectangle { property <foo> p; }", []string{"Unknown property type 'foo'"}},
		{"X := Rectangle { property <int> color; }", []string{"Cannot override property 'color'"}},
		{"X := Rectangle { property <int> p; property <int> p; }",
			[]string{"Duplicated property declaration 'p'"}},
		{"X := Rectangle { x: 1px; x: 2px; }", []string{"Duplicated property binding 'x'"}},
		{"X := Rectangle { a := Text {} a := Text {} }", []string{"Duplicated element id 'a'"}},
		{"X := Rectangle { root := Text {} }", []string{"Invalid element id 'root'"}},
		{"X := Rectangle { animate a.x { } }", []string{"Can only animate properties of the same element"}},
		{"X := Rectangle { animate nope { } }", []string{"Unknown property 'nope'"}},
		{"X := Rectangle { animate x { speed: 1; } }", []string{"Unknown property speed in PropertyAnimation"}},
		{"X := Rectangle { states [ a : { } a : { } ] }", []string{"Duplicated state 'a'"}},
		{"X := X { }", []string{"Unknown type X"}},
		{"X := int { }", []string{"int is not an element type"}},
		// Unknown bases do not cascade into unknown property errors.
		{"X := Nope { foo: 1; }", []string{"Unknown type Nope"}},
	}
	for _, test := range tests {
		_, fd := build(test.code)
		if diff := cmp.Diff(test.want, messages(fd)); diff != "" {
			t.Errorf("%s: diagnostics (-want +got):\n%s", test.code, diff)
		}
	}
}

func TestIsStateful(t *testing.T) {
	doc, _ := build(`
A := Rectangle { Text { states [ s : { } ] } }
B := Rectangle { Text { } }
`)
	if !doc.Components[0].IsStateful() || doc.Components[1].IsStateful() {
		t.Errorf("IsStateful is wrong")
	}
}

func TestCloner(t *testing.T) {
	rect := typeregister.BuiltinOf(typeregister.LookupBuiltin("Rectangle"))
	c := &Component{ID: "C"}
	root := NewElement(rect, c, diag.Span{})
	child := NewElement(rect, c, diag.Span{})
	root.Children = []*Element{child}
	outside := NewElement(rect, nil, diag.Span{})
	child.Bindings["x"] = &Binding{Expression: &BinaryExpression{
		LHS: &PropertyReference{NamedReference{root, "width"}, typeregister.Float32Type},
		RHS: &PropertyReference{NamedReference{outside, "x"}, typeregister.Float32Type},
		Op:  "-", Typ: typeregister.Float32Type,
	}}

	other := &Component{ID: "D"}
	cl := NewCloner(other)
	copied := cl.CloneTree(root)
	copiedChild := copied.Children[0]
	if copiedChild == child || copiedChild.EnclosingComponent != other {
		t.Fatalf("child not copied")
	}
	bin := copiedChild.Bindings["x"].Expression.(*BinaryExpression)
	if bin == child.Bindings["x"].Expression {
		t.Errorf("expression shared with the original")
	}
	if ref := bin.LHS.(*PropertyReference).Ref; ref.Element != copied {
		t.Errorf("reference to the root not redirected")
	}
	if ref := bin.RHS.(*PropertyReference).Ref; ref.Element != outside {
		t.Errorf("reference outside the tree redirected")
	}
}

func TestIsConstant(t *testing.T) {
	num := &NumberLiteral{1, typeregister.Float32Type}
	ref := &PropertyReference{NamedReference{nil, "x"}, typeregister.Float32Type}
	if !IsConstant(&BinaryExpression{num, num, "+", typeregister.Float32Type}) {
		t.Errorf("literal sum is not constant")
	}
	if IsConstant(&BinaryExpression{num, ref, "+", typeregister.Float32Type}) {
		t.Errorf("property read is constant")
	}
}
