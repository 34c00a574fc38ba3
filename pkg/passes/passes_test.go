package passes_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/patrickelectric/sixtyfps/pkg/compiler"
	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/passes"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

func compile(t *testing.T, code string) *objtree.Document {
	t.Helper()
	doc, bd := compiler.CompileSource("[test]", code, nil)
	if !bd.IsEmpty() {
		t.Fatalf("unexpected diagnostics: %v", bd.Strings())
	}
	return doc
}

func messages(bd *diag.BuildDiagnostics) []string {
	var msgs []string
	for _, d := range bd.All() {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func ids(root *objtree.Element) []string {
	var ids []string
	objtree.VisitElements(root, func(e *objtree.Element) { ids = append(ids, e.ID) })
	return ids
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{"unknown identifier", "X := Rectangle { x: foo; }",
			[]string{"Unknown unqualified identifier 'foo'"}},
		{"type mismatch", `X := Rectangle { x: "abc"; }`,
			[]string{"Cannot convert string to float32"}},
		{"missing property", "X := Rectangle { a := Text {} x: a.nope; }",
			[]string{"Element 'a' does not have a property 'nope'"}},
		{"parent of root", "X := Rectangle { x: parent.x; }",
			[]string{"'parent' cannot be used in the root element"}},
		{"id in repeater", "X := Rectangle { for i in 3 : a := Text {} x: a.x; }",
			[]string{"Cannot access the id 'a' of an element inside a repeated element"}},
		{"assignment outside handler", "X := Rectangle { x: { x = 1px; } }",
			[]string{"Assignments are only allowed in signal handlers"}},
		{"assignment to non property", "X := TouchArea { clicked => { 1 = 2; } }",
			[]string{"Assignment needs to be done on a property"}},
		{"bad model", `X := Rectangle { for i in "abc" : Text {} }`,
			[]string{"Cannot use string as a model"}},
		{"unknown unit", "X := Rectangle { x: 3em; }", []string{"Unknown unit 'em'"}},
		{"not a function", "X := Rectangle { x: width(); }", []string{"The expression is not a function"}},
		{"min arity", "X := Rectangle { x: min(1); }", []string{"min needs at least two arguments"}},
		{"compare", `X := Rectangle { property <bool> b: "a" == #fff; }`,
			[]string{"Cannot compare string and color"}},
		{"field access", `X := Rectangle { for item in [{a: 1}] : Text { text: item.b; } }`,
			[]string{"Cannot access the field 'b' of { a: float32 }"}},
		{"unknown state in transition",
			"X := Rectangle { states [ a : { } ] transitions [ in b : { } ] }",
			[]string{"State 'b' does not exist"}},
		{"row outside grid", "X := Rectangle { Row { } }",
			[]string{"Row can only be within a GridLayout"}},
		{"x in layout", "X := Rectangle { HorizontalLayout { Text { x: 1px; } } }",
			[]string{"The property 'x' cannot be set for elements placed in a layout, because the layout is already setting it"}},
		{"path element outside path", "X := Rectangle { LineTo { } }",
			[]string{"LineTo can only be within a Path element"}},
		{"commands not literal", `X := Path { property <string> s; commands: s; }`,
			[]string{"The commands property only accepts string literals"}},
		{"commands mixed", `X := Path { commands: "M 0 0"; LineTo { x: 1; y: 1; } }`,
			[]string{"Path elements cannot be mixed with the use of the SVG commands property"}},
		{"invalid commands", `X := Path { commands: "M 0"; }`,
			[]string{"Error parsing SVG commands: expected a number at offset 3"}},
		// Errors are not reported twice.
		{"invalid operand", "X := Rectangle { x: foo + 1px; y: -bar; }",
			[]string{"Unknown unqualified identifier 'foo'", "Unknown unqualified identifier 'bar'"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, bd := compiler.CompileSource("[test]", test.code, nil)
			if diff := cmp.Diff(test.want, messages(bd)); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_Lookup(t *testing.T) {
	doc := compile(t, `
X := Rectangle {
    property <int> count: 2;
    color: blue;
    t := Text {
        text: count;
        horizontal_alignment: align_right;
    }
    for item[i] in [{name: "a"}, {name: "b"}] : Text {
        text: item.name + i;
    }
}
`)
	root := doc.Root.RootElement
	if c, ok := root.Bindings["color"].Expression.(*objtree.ColorLiteral); !ok || c.Color != graphics.RGBA(0, 0, 0xff, 0xff) {
		t.Errorf("color = %#v", root.Bindings["color"].Expression)
	}
	text := root.Children[0]
	cast, ok := text.Bindings["text"].Expression.(*objtree.Cast)
	if !ok {
		t.Fatalf("text binding is %T", text.Bindings["text"].Expression)
	}
	if ref := cast.From.(*objtree.PropertyReference).Ref; ref.Element != root || ref.Name != "count" {
		t.Errorf("count resolved to %+v", ref)
	}
	if e, ok := text.Bindings["horizontal_alignment"].Expression.(*objtree.EnumValue); !ok || e.Value != "align_right" {
		t.Errorf("alignment = %#v", text.Bindings["horizontal_alignment"].Expression)
	}

	repeated := root.Children[1].RepeatedComponent().RootElement
	concat := repeated.Bindings["text"].Expression.(*objtree.BinaryExpression)
	access := concat.LHS.(*objtree.ObjectAccess)
	if model := access.Base.(*objtree.RepeaterModelReference); model.Element != repeated {
		t.Errorf("model reference to %v", model.Element)
	}
	if _, ok := concat.RHS.(*objtree.Cast).From.(*objtree.RepeaterIndexReference); !ok {
		t.Errorf("index not resolved: %#v", concat.RHS)
	}
}

func TestInline(t *testing.T) {
	doc := compile(t, `
Sub := Rectangle {
    property <int> value: 42;
    label := Text { text: value; }
}
X := Rectangle {
    a := Sub { value: 1; }
    b := Sub { }
    Text { text: a.value; }
}
`)
	root := doc.Root.RootElement
	a, b := root.Children[0], root.Children[1]
	if a.Base.String() != "Rectangle" || len(a.Children) != 1 || len(b.Children) != 1 {
		t.Fatalf("Sub not inlined")
	}
	if a.Children[0] == b.Children[0] {
		t.Errorf("inlined trees are shared")
	}
	// Declarations of inlined roots are moved to the component root.
	aValue := root.Bindings[a.ID+"_value"].Expression.(*objtree.Cast).From.(*objtree.NumberLiteral)
	bValue := root.Bindings[b.ID+"_value"].Expression.(*objtree.Cast).From.(*objtree.NumberLiteral)
	if aValue.Value != 1 || bValue.Value != 42 {
		t.Errorf("values = %v, %v", aValue.Value, bValue.Value)
	}
	labelText := b.Children[0].Bindings["text"].Expression.(*objtree.Cast).From.(*objtree.PropertyReference)
	if labelText.Ref.Element != root || labelText.Ref.Name != b.ID+"_value" {
		t.Errorf("label of b reads %+v", labelText.Ref)
	}
	if decl := root.PropertyDeclarations[a.ID+"_value"]; decl == nil || decl.Expose {
		t.Errorf("moved declaration = %+v", decl)
	}
}

func TestInline_StatefulComponentIsNested(t *testing.T) {
	doc := compile(t, `
Toggle := Rectangle {
    property <bool> on;
    states [ active when on : { color: red; } ]
}
X := Rectangle { Toggle { on: true; } }
`)
	child := doc.Root.RootElement.Children[0]
	if child.Base.Kind != typeregister.Component {
		t.Fatalf("stateful component was inlined")
	}
	toggle := child.Base.Component.(*objtree.Component)
	if _, ok := toggle.RootElement.Bindings["current_state"]; !ok {
		t.Errorf("states of the nested component were not lowered")
	}
}

func TestAssignUniqueID(t *testing.T) {
	code := `X := Rectangle { a := Text { } Rectangle { Image { } } }`
	want := []string{"rectangle_1", "a_2", "rectangle_3", "image_4"}
	for range 2 {
		doc := compile(t, code)
		if diff := cmp.Diff(want, ids(doc.Root.RootElement)); diff != "" {
			t.Errorf("ids (-want +got):\n%s", diff)
		}
	}
}

func TestLowerLayouts(t *testing.T) {
	doc := compile(t, `
X := Rectangle {
    width: 100px;
    lay := HorizontalLayout {
        spacing: 10px;
        Rectangle { }
        Rectangle { width: 20px; }
    }
    Text { text: lay.spacing; }
}
`)
	root := doc.Root.RootElement
	if diff := cmp.Diff([]string{"rectangle_1", "rectangle_3", "rectangle_4", "text_5"},
		ids(root)); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
	for _, prop := range []string{"x", "y", "width", "height", "spacing", "padding"} {
		if root.PropertyDeclarations["lay_2_"+prop] == nil {
			t.Errorf("missing declaration lay_2_%s", prop)
		}
	}
	first, second := root.Children[0], root.Children[1]
	for _, prop := range []string{"x", "y", "width", "height"} {
		if first.Bindings[prop] == nil {
			t.Errorf("missing generated binding %s", prop)
		}
	}
	if w := second.Bindings["width"].Expression.(*objtree.NumberLiteral); w.Value != 20 {
		t.Errorf("explicit width overridden")
	}
	spacing := root.Children[2].Bindings["text"].Expression.(*objtree.Cast).From.(*objtree.PropertyReference)
	if spacing.Ref.Element != root || spacing.Ref.Name != "lay_2_spacing" {
		t.Errorf("reference to the layout not redirected: %+v", spacing.Ref)
	}
}

func TestLowerStates(t *testing.T) {
	doc := compile(t, `
X := Rectangle {
    property <bool> down;
    color: white;
    t := Text { }
    states [
        pressed when down : { color: black; t.text: "down"; }
        idle : { color: gray; }
    ]
    transitions [
        in pressed : { animate color { duration: 100ms; } }
    ]
}
`)
	root := doc.Root.RootElement
	if len(root.States) != 0 || len(root.Transitions) != 0 {
		t.Errorf("states not erased")
	}
	selector := root.Bindings["current_state"].Expression.(*objtree.Condition)
	if lit := selector.TrueExpr.(*objtree.NumberLiteral); lit.Value != 1 {
		t.Errorf("first state index = %v", lit.Value)
	}
	color := root.Bindings["color"].Expression.(*objtree.Condition)
	idle := color.FalseExpr.(*objtree.Condition)
	if c := idle.FalseExpr.(*objtree.ColorLiteral); c.Color != graphics.RGBA(0xff, 0xff, 0xff, 0xff) {
		t.Errorf("default color = %v", c.Color)
	}
	text := root.Children[0].Bindings["text"].Expression.(*objtree.Condition)
	if s := text.FalseExpr.(*objtree.StringLiteral); s.Value != "" {
		t.Errorf("text default = %q", s.Value)
	}
	anim := root.PropertyAnimations["color"]
	if anim == nil || anim.Transition == nil || len(anim.Transition.Animations) != 1 ||
		anim.Transition.Animations[0].StateIndex != 1 || anim.Transition.Animations[0].Out {
		t.Errorf("transition animation = %+v", anim)
	}
}

func TestCreateRepeaterComponents(t *testing.T) {
	doc := compile(t, `
X := Rectangle {
    for i in 3 : r := Rectangle {
        Text { text: i; }
        for j in i : Text { }
    }
    if true : Text { }
}
`)
	root := doc.Root.RootElement
	placeholder := root.Children[0]
	sub := placeholder.RepeatedComponent()
	if sub == nil || !placeholder.IsPlaceholder() || sub.ParentElement != placeholder {
		t.Fatalf("repeated element not extracted")
	}
	if sub.ID != "repeat_r_2" || sub.RootElement.Repeated != nil {
		t.Errorf("sub component = %s", sub.ID)
	}
	objtree.VisitElements(sub.RootElement, func(e *objtree.Element) {
		if e.EnclosingComponent != sub && !e.IsPlaceholder() {
			t.Errorf("%s not moved to the sub component", e.ID)
		}
	})
	if len(passesRepeaters(doc)) != 3 {
		t.Errorf("got %d repeater components", len(passesRepeaters(doc)))
	}
	if !root.Children[1].Repeated.IsConditional {
		t.Errorf("conditional element lost its condition")
	}
}

func TestCompilePaths(t *testing.T) {
	doc := compile(t, `
X := Rectangle {
    Path { commands: "M 0 0 L 10 10"; }
    Path { MoveTo { x: 0; y: 0; } LineTo { x: width; y: 5; } Close { } }
}
`)
	root := doc.Root.RootElement
	data := root.Children[0].Bindings["elements"].Expression.(*objtree.PathData)
	if len(data.Data.Elements) != 2 {
		t.Errorf("compiled path = %+v", data.Data)
	}
	if _, ok := root.Children[0].Bindings["commands"]; ok {
		t.Errorf("commands binding kept")
	}
	elems := root.Children[1].Bindings["elements"].Expression.(*objtree.PathElements)
	if len(elems.Elements) != 3 || len(root.Children[1].Children) != 0 ||
		elems.Elements[1].Kind != graphics.LineTo {
		t.Errorf("path elements = %+v", elems.Elements)
	}
}

func passesRepeaters(doc *objtree.Document) []*objtree.Component {
	return passes.RepeaterComponents(doc.Root)
}
