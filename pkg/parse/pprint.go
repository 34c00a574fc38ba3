package parse

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SExpr formats an expression as an s-expression, e.g. (+ a (* b 2px)).
func SExpr(e Expr) string {
	var sb strings.Builder
	writeSExpr(&sb, e)
	return sb.String()
}

func writeSExpr(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *NumberLit:
		sb.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64) + e.Unit)
	case *StringLit:
		sb.WriteString(strconv.Quote(e.Value))
	case *ColorLit:
		sb.WriteString("#" + e.Text)
	case *ImageRef:
		sb.WriteString("img!" + strconv.Quote(e.Path))
	case *Name:
		sb.WriteString(e.Name)
	case *Member:
		writeSExpr(sb, e.Base)
		sb.WriteString("." + e.Name.Name)
	case *Call:
		sb.WriteString("(call ")
		writeSExpr(sb, e.Func)
		for _, a := range e.Args {
			sb.WriteByte(' ')
			writeSExpr(sb, a)
		}
		sb.WriteByte(')')
	case *Unary:
		sb.WriteString("(" + e.Op + " ")
		writeSExpr(sb, e.Operand)
		sb.WriteByte(')')
	case *Binary:
		writeList(sb, e.Op, e.LHS, e.RHS)
	case *Assignment:
		writeList(sb, e.Op, e.LHS, e.RHS)
	case *Ternary:
		writeList(sb, "?:", e.Cond, e.Then, e.Else)
	case *ArrayLit:
		writeList(sb, "array", e.Elems...)
	case *ObjectLit:
		sb.WriteString("(object")
		for _, f := range e.Fields {
			sb.WriteString(" " + f.Name.Name + "=")
			writeSExpr(sb, f.Value)
		}
		sb.WriteByte(')')
	case *CodeBlock:
		writeList(sb, "block", e.Stmts...)
	case *BadExpr:
		sb.WriteString("<bad>")
	}
}

func writeList(sb *strings.Builder, head string, elems ...Expr) {
	sb.WriteString("(" + head)
	for _, e := range elems {
		sb.WriteByte(' ')
		writeSExpr(sb, e)
	}
	sb.WriteByte(')')
}

// PPrintElement writes an indented outline of an element tree to w. It is
// used by the dump subprogram.
func PPrintElement(w io.Writer, e *Element, indent string) {
	fmt.Fprintf(w, "%s%s\n", indent, e.Base)
	for _, b := range e.Bindings {
		fmt.Fprintf(w, "%s  %s: %s\n", indent, b.Name.Name, SExpr(b.Expr))
	}
	for _, ch := range e.Children {
		prefix := indent + "  "
		switch {
		case ch.Repeated != nil:
			fmt.Fprintf(w, "%sfor %s in %s:\n", prefix, ch.Repeated.ModelID.Name, SExpr(ch.Repeated.Model))
			prefix += "  "
		case ch.Condition != nil:
			fmt.Fprintf(w, "%sif %s:\n", prefix, SExpr(ch.Condition))
			prefix += "  "
		}
		if ch.ID != nil {
			fmt.Fprintf(w, "%s%s :=\n", prefix, ch.ID.Name)
		}
		PPrintElement(w, ch.Element, prefix)
	}
}
