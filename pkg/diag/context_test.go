package diag

import (
	"strings"
	"testing"
)

var contextTests = []struct {
	Name    string
	Context *Context
	Indent  string

	WantShow        string
	WantShowCompact string
}{
	{
		Name:    "single-line culprit",
		Context: contextInParen("[test]", "Foo := (Rectangle)"),
		Indent:  "_",

		WantShow: lines(
			"[test]:1:8",
			"_Foo := <(Rectangle)>",
		),
		WantShowCompact: "[test]:1:8: Foo := <(Rectangle)>",
	},
	{
		Name:    "multi-line culprit",
		Context: contextInParen("[test]", "Foo := (Rect\nangle)\nmore"),
		Indent:  "_",

		WantShow: lines(
			"[test]:1:8",
			"_Foo := <(Rect>",
			"_<angle)>",
		),
		WantShowCompact: lines(
			"[test]:1:8: Foo := <(Rect>",
			"_            <angle)>",
		),
	},
	{
		Name: "trailing newline in culprit is removed",
		//                             012345678 9
		Context: NewContext("[test]", "Text bad\n", Ranging{5, 9}),
		Indent:  "_",

		WantShow: lines(
			"[test]:1:6",
			"_Text <bad>",
		),
		WantShowCompact: "[test]:1:6: Text <bad>",
	},
	{
		Name: "empty culprit",
		//                             012345
		Context: NewContext("[test]", "Text x", Ranging{5, 5}),

		WantShow: lines(
			"[test]:1:6",
			"Text <^>x",
		),
		WantShowCompact: "[test]:1:6: Text <^>x",
	},
	{
		Name:            "unknown culprit range",
		Context:         NewContext("[test]", "Text", Ranging{-1, -1}),
		WantShow:        "[test], unknown position",
		WantShowCompact: "[test], unknown position",
	},
	{
		Name:            "invalid culprit range",
		Context:         NewContext("[test]", "Text", Ranging{2, 1}),
		WantShow:        "[test], invalid position 2-1",
		WantShowCompact: "[test], invalid position 2-1",
	},
}

func TestContext(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	for _, test := range contextTests {
		t.Run(test.Name, func(t *testing.T) {
			gotShow := test.Context.Show(test.Indent)
			if gotShow != test.WantShow {
				t.Errorf("Show() -> %q, want %q", gotShow, test.WantShow)
			}
			gotShowCompact := test.Context.ShowCompact(test.Indent)
			if gotShowCompact != test.WantShowCompact {
				t.Errorf("ShowCompact() -> %q, want %q",
					gotShowCompact, test.WantShowCompact)
			}
		})
	}
}

func TestContextOf_GeneratedCode(t *testing.T) {
	c := ContextOf(Span{})
	if got := c.Show(""); got != "<generated>, unknown position" {
		t.Errorf("Show() -> %q", got)
	}
}

// Returns a Context with the given name and source, and a range for the part
// between ( and ).
func contextInParen(name, src string) *Context {
	return NewContext(name, src,
		Ranging{strings.Index(src, "("), strings.Index(src, ")") + 1})
}

func lines(lines ...string) string {
	return strings.Join(lines, "\n")
}
