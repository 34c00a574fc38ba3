package objtree

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/patrickelectric/sixtyfps/pkg/wcwidth"
)

// SExpr formats a lowered expression as an s-expression. Property
// references are written as element.name, where element is the ID of the
// element, or its index when it has no ID.
func SExpr(e Expression) string {
	var sb strings.Builder
	writeSExpr(&sb, e)
	return sb.String()
}

func elementName(e *Element) string {
	if e == nil {
		return "<nil>"
	}
	if e.ID != "" {
		return e.ID
	}
	return "#" + strconv.Itoa(e.Index)
}

func writeSExpr(sb *strings.Builder, e Expression) {
	switch e := e.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *Invalid:
		sb.WriteString("<invalid>")
	case *Uncompiled:
		sb.WriteString("<uncompiled>")
	case *StringLiteral:
		sb.WriteString(strconv.Quote(e.Value))
	case *NumberLiteral:
		sb.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64))
	case *BoolLiteral:
		sb.WriteString(strconv.FormatBool(e.Value))
	case *ColorLiteral:
		sb.WriteString(e.Color.String())
	case *EnumValue:
		sb.WriteString(e.Value)
	case *EasingCurve:
		sb.WriteString(e.Curve.String())
	case *ResourceReference:
		sb.WriteString("img!" + strconv.Quote(e.Path))
		if e.Data != nil {
			fmt.Fprintf(sb, "[%d bytes]", len(e.Data))
		}
	case *PropertyReference:
		sb.WriteString(elementName(e.Ref.Element) + "." + e.Ref.Name)
	case *SignalReference:
		sb.WriteString(elementName(e.Ref.Element) + "." + e.Ref.Name)
	case *RepeaterIndexReference:
		sb.WriteString("(index " + elementName(e.Element) + ")")
	case *RepeaterModelReference:
		sb.WriteString("(model " + elementName(e.Element) + ")")
	case *ObjectAccess:
		writeSExpr(sb, e.Base)
		sb.WriteString("." + e.Name)
	case *FunctionCall:
		writeList(sb, "call", e.Function)
	case *BuiltinFunctionCall:
		writeList(sb, string(e.Function), e.Args...)
	case *SelfAssignment:
		op := "="
		if e.Op != '=' {
			op = string(e.Op) + "="
		}
		writeList(sb, op, e.LHS, e.RHS)
	case *BinaryExpression:
		writeList(sb, e.Op, e.LHS, e.RHS)
	case *UnaryOp:
		writeList(sb, e.Op, e.Sub)
	case *Condition:
		writeList(sb, "?:", e.Cond, e.TrueExpr, e.FalseExpr)
	case *Array:
		writeList(sb, "array", e.Values...)
	case *Object:
		sb.WriteString("(object")
		for _, name := range sortedKeys(e.Values) {
			sb.WriteString(" " + name + "=")
			writeSExpr(sb, e.Values[name])
		}
		sb.WriteByte(')')
	case *Cast:
		writeList(sb, "as "+e.To.String(), e.From)
	case *CodeBlock:
		writeList(sb, "block", e.Stmts...)
	case *PathElements:
		sb.WriteString("(path")
		for _, pe := range e.Elements {
			sb.WriteString(" (" + pe.Kind.String())
			for _, name := range sortedKeys(pe.Bindings) {
				sb.WriteString(" " + name + "=")
				writeSExpr(sb, pe.Bindings[name])
			}
			sb.WriteByte(')')
		}
		sb.WriteByte(')')
	case *PathData:
		fmt.Fprintf(sb, "(path-data %d)", len(e.Data.Elements))
	default:
		fmt.Fprintf(sb, "<%T>", e)
	}
}

func writeList(sb *strings.Builder, head string, elems ...Expression) {
	sb.WriteString("(" + head)
	for _, e := range elems {
		sb.WriteByte(' ')
		writeSExpr(sb, e)
	}
	sb.WriteByte(')')
}

// PPrintComponent writes an outline of a lowered component to w: its
// declarations, its element tree with bindings, and the components it
// depends on. Lines longer than width are cut; width <= 0 means no limit.
func PPrintComponent(w io.Writer, c *Component, width int) {
	p := printer{w: w, width: width}
	p.component(c, "")
}

type printer struct {
	w     io.Writer
	width int
	seen  map[*Component]bool
}

func (p *printer) line(indent, format string, args ...any) {
	s := indent + fmt.Sprintf(format, args...)
	if p.width > 0 && wcwidth.Of(s) > p.width {
		s = wcwidth.Trim(s, max(p.width-3, 0)) + "..."
	}
	fmt.Fprintln(p.w, s)
}

func (p *printer) component(c *Component, indent string) {
	if p.seen == nil {
		p.seen = make(map[*Component]bool)
	}
	p.seen[c] = true
	p.line(indent, "component %s", c.ID)
	if len(c.EmbeddedResources) > 0 {
		paths := sortedKeys(c.EmbeddedResources)
		p.line(indent+"  ", "resources: %s", strings.Join(paths, ", "))
	}
	p.element(c.RootElement, indent+"  ")
}

func (p *printer) element(e *Element, indent string) {
	header := elementName(e) + " := " + e.Base.String()
	if r := e.Repeated; r != nil {
		if r.IsConditional {
			header = "if " + SExpr(r.Model) + " : " + header
		} else {
			header = fmt.Sprintf("for %s[%s] in %s : %s",
				r.ModelDataID, r.IndexID, SExpr(r.Model), header)
		}
	}
	p.line(indent, "%s", header)
	inner := indent + "  "
	for _, name := range e.DeclaredNames() {
		decl := e.PropertyDeclarations[name]
		visibility := ""
		if decl.Expose {
			visibility = "public "
		}
		p.line(inner, "%sproperty<%s> %s", visibility, decl.Type, name)
	}
	for _, name := range e.BindingNames() {
		p.line(inner, "%s: %s", name, SExpr(e.Bindings[name].Expression))
	}
	for _, name := range sortedKeys(e.PropertyAnimations) {
		p.line(inner, "animate %s", name)
	}
	for _, child := range e.Children {
		p.element(child, inner)
	}
	if sub := e.RepeatedComponent(); sub != nil && !p.seen[sub] {
		p.component(sub, inner)
	}
}
