// Package passes contains the lowering passes run on the object tree. Each
// pass reports problems to a diag.BuildDiagnostics and keeps going: invalid
// expressions have already been reported and are skipped.
package passes

import (
	"fmt"

	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/logutil"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

var logger = logutil.GetLogger("[passes] ")

func errorf(diags *diag.BuildDiagnostics, span diag.Span, format string, args ...any) {
	diags.PushError(fmt.Sprintf(format, args...), span)
}

func float(v float64) objtree.Expression {
	return &objtree.NumberLiteral{Value: v, Typ: typeregister.Float32Type}
}

func propRef(e *objtree.Element, name string, t typeregister.Type) *objtree.PropertyReference {
	return &objtree.PropertyReference{Ref: objtree.NamedReference{Element: e, Name: name}, Typ: t}
}

func binary(lhs objtree.Expression, op string, rhs objtree.Expression) objtree.Expression {
	t := typeregister.Float32Type
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		t = typeregister.BoolType
	}
	return &objtree.BinaryExpression{LHS: lhs, RHS: rhs, Op: op, Typ: t}
}
