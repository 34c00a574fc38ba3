package parse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/tt"
)

func parseOK(t *testing.T, code string) *Document {
	t.Helper()
	doc, err := Parse(&diag.SourceFile{Name: "[test]", Code: code})
	if err != nil {
		t.Fatalf("Parse(%q) -> error %v", code, err)
	}
	return doc
}

func errorMessages(code string) []string {
	_, err := Parse(&diag.SourceFile{Name: "[test]", Code: code})
	var msgs []string
	for _, e := range UnpackErrors(err) {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

func TestLex(t *testing.T) {
	var kinds []string
	for _, tok := range Lex(`Foo := Rectangle { x: 10px; // c
	/* block */ color: #ff0000; a => { b += 1.5; } }`, nil) {
		kinds = append(kinds, tok.Kind.String())
	}
	want := strings.Fields(`Identifier ColonEqual Identifier LBrace Identifier Colon
		NumberLiteral Semicolon Identifier Colon ColorLiteral Semicolon Identifier
		FatArrow LBrace Identifier PlusEqual NumberLiteral Semicolon RBrace RBrace Eof`)
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("token kinds (-want +got):\n%s", diff)
	}
}

func TestParse_Component(t *testing.T) {
	doc := parseOK(t, `
Hello := Rectangle {
    property <int> counter: 3;
    property <string> label;
    signal clicked;
    color: #336699;
    clicked => { counter += 1; }
    txt := Text { text: label; }
    for item[i] in 5 : Rectangle { x: i * 10px; }
    if counter > 2 : Image { source: img!"logo.png"; }
    animate x, y { duration: 100ms; }
}
`)
	if len(doc.Components) != 1 {
		t.Fatalf("got %d components", len(doc.Components))
	}
	c := doc.Components[0]
	if c.ID.Name != "Hello" || c.Root.Base.String() != "Rectangle" {
		t.Errorf("component = %s := %s", c.ID.Name, c.Root.Base)
	}
	e := c.Root
	if len(e.PropertyDeclarations) != 2 || e.PropertyDeclarations[0].Type.String() != "int" ||
		SExpr(e.PropertyDeclarations[0].Expr) != "3" || e.PropertyDeclarations[1].Expr != nil {
		t.Errorf("bad property declarations")
	}
	if len(e.SignalDeclarations) != 1 || e.SignalDeclarations[0].Name.Name != "clicked" {
		t.Errorf("bad signal declarations")
	}
	if len(e.SignalConnections) != 1 || SExpr(e.SignalConnections[0].Body) != "(block (+= counter 1))" {
		t.Errorf("bad signal connections")
	}
	if len(e.Children) != 3 {
		t.Fatalf("got %d children", len(e.Children))
	}
	if e.Children[0].ID.Name != "txt" {
		t.Errorf("first child id = %q", e.Children[0].ID.Name)
	}
	rep := e.Children[1].Repeated
	if rep == nil || rep.ModelID.Name != "item" || rep.IndexID.Name != "i" || SExpr(rep.Model) != "5" {
		t.Errorf("bad repeated clause %+v", rep)
	}
	if got := SExpr(e.Children[2].Condition); got != "(> counter 2)" {
		t.Errorf("condition = %s", got)
	}
	if got := SExpr(e.Children[2].Element.Bindings[0].Expr); got != `img!"logo.png"` {
		t.Errorf("image = %s", got)
	}
	if len(e.PropertyAnimations) != 1 || len(e.PropertyAnimations[0].Targets) != 2 {
		t.Errorf("bad animations")
	}
}

func TestParse_StatesAndTransitions(t *testing.T) {
	doc := parseOK(t, `
Btn := Rectangle {
    property <bool> down;
    states [
        pressed when down : {
            color: #000;
            label.text: "x";
        }
        idle : { }
    ]
    transitions [
        in pressed : { animate color { duration: 50ms; easing: ease_in; } }
        out pressed : { }
    ]
}
`)
	e := doc.Components[0].Root
	if len(e.States) != 2 {
		t.Fatalf("got %d states", len(e.States))
	}
	if s := e.States[0]; s.ID.Name != "pressed" || SExpr(s.Condition) != "down" ||
		len(s.Changes) != 2 || s.Changes[1].Target.String() != "label.text" {
		t.Errorf("bad state %+v", s)
	}
	if e.States[1].Condition != nil {
		t.Errorf("state without when has a condition")
	}
	if len(e.Transitions) != 2 || e.Transitions[0].Out || !e.Transitions[1].Out ||
		len(e.Transitions[0].Animations) != 1 {
		t.Errorf("bad transitions")
	}
}

func exprOf(code string) string {
	doc, err := Parse(&diag.SourceFile{Name: "[test]", Code: "X := Rectangle { p: " + code + "; }"})
	if err != nil {
		return "error: " + err.Error()
	}
	return SExpr(doc.Components[0].Root.Bindings[0].Expr)
}

func TestParse_Expressions(t *testing.T) {
	tt.Test(t, tt.Fn("exprOf", exprOf), tt.Table{
		tt.Args("1 + 2 * 3").Rets("(+ 1 (* 2 3))"),
		tt.Args("(1 + 2) * 3").Rets("(* (+ 1 2) 3)"),
		tt.Args("a || b && !c").Rets("(|| a (&& b (! c)))"),
		tt.Args("a == 1 ? 10px : -5px").Rets("(?: (== a 1) 10px (- 5px))"),
		tt.Args("a <= b").Rets("(<= a b)"),
		tt.Args("parent.width - 2px").Rets("(- parent.width 2px)"),
		tt.Args(`max(1, 2.5)`).Rets("(call max 1 2.5)"),
		tt.Args(`"a\"b"`).Rets(`"a\"b"`),
		tt.Args("[1, 2, 3]").Rets("(array 1 2 3)"),
		tt.Args("[{a: 1, b: \"x\"}]").Rets(`(array (object a=1 b="x"))`),
		tt.Args("#abc").Rets("#abc"),
		tt.Args("250ms").Rets("250ms"),
	})
}

func TestParse_CodeBlockBinding(t *testing.T) {
	doc := parseOK(t, `X := Rectangle { p: { debug(1); 2 } }`)
	if got := SExpr(doc.Components[0].Root.Bindings[0].Expr); got != "(block (call debug 1) 2)" {
		t.Errorf("got %s", got)
	}
}

func TestParse_ExpectedLBrace(t *testing.T) {
	code := "\nFoo := Rectangle foo { x:0px; }\n"
	_, err := Parse(&diag.SourceFile{Name: "[test]", Code: code})
	errs := UnpackErrors(err)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), err)
	}
	if errs[0].Message != "expected LBrace" {
		t.Errorf("message = %q", errs[0].Message)
	}
	if want := strings.Index(code, "foo"); errs[0].Context.From != want {
		t.Errorf("offset = %d, want %d", errs[0].Context.From, want)
	}
}

func TestParse_Recovery(t *testing.T) {
	tt.Test(t, tt.Fn("errorMessages", errorMessages), tt.Table{
		tt.Args("X := Rectangle { x: ; y: 1px; }").Rets([]string{"expected Expression"}),
		tt.Args("X := Rectangle { x: 1px y: 1px; }").Rets([]string{"expected Semicolon"}),
		tt.Args("X := Rectangle { }\n42\nY := Text {}").Rets([]string{"expected Identifier"}),
		tt.Args("X := Rectangle { for x 5 : Text {} }").Rets([]string{"expected 'in'"}),
		tt.Args(`X := Rectangle { t: "abc`).Rets(
			[]string{"unterminated string", "expected Semicolon", "expected RBrace"}),
		tt.Args("X := Rectangle {").Rets([]string{"expected RBrace"}),
	})
}

func TestParseFile(t *testing.T) {
	file := &diag.SourceFile{Name: "a.60", Code: "X := Rectangle { x: ; }"}
	_, fd := ParseFile(file)
	if !fd.HasError() || fd.Inner[0].Offset() != strings.Index(file.Code, ";") {
		t.Errorf("ParseFile diagnostics = %v", fd.Inner)
	}
}
