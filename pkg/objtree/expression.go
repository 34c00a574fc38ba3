package objtree

import (
	"github.com/patrickelectric/sixtyfps/pkg/animation"
	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/parse"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

// Expression is a node of the expression tree attached to bindings. The set
// of implementations is closed.
type Expression interface {
	// Type returns the type of the value the expression evaluates to.
	Type() typeregister.Type
	expression()
}

// NamedReference refers to a property or signal of an element.
type NamedReference struct {
	Element *Element
	Name    string
}

// Invalid stands for an expression that failed to resolve. The error has
// already been reported; at runtime it evaluates to the zero value of Typ.
type Invalid struct{ Typ typeregister.Type }

// Uncompiled holds a syntax node until ResolveExpressions runs.
type Uncompiled struct {
	Node parse.Expr
	Span diag.Span
}

// StringLiteral is a string constant.
type StringLiteral struct{ Value string }

// NumberLiteral is a numeric constant. Typ is Float32 or Int32.
type NumberLiteral struct {
	Value float64
	Typ   typeregister.Type
}

// BoolLiteral is true or false.
type BoolLiteral struct{ Value bool }

// ColorLiteral is a color constant.
type ColorLiteral struct{ Color graphics.Color }

// EnumValue is a value of an enumeration.
type EnumValue struct {
	Enum  *typeregister.Enum
	Value string
}

// EasingCurve is an easing constant.
type EasingCurve struct{ Curve animation.Curve }

// ResourceReference is an img!"..." reference. Data is set once the resource
// has been embedded.
type ResourceReference struct {
	Path string
	Data []byte
}

// PropertyReference reads a property.
type PropertyReference struct {
	Ref NamedReference
	Typ typeregister.Type
}

// SignalReference designates a signal.
type SignalReference struct{ Ref NamedReference }

// RepeaterIndexReference evaluates to the index of the current instance of
// the repeated Element.
type RepeaterIndexReference struct{ Element *Element }

// RepeaterModelReference evaluates to the model data of the current instance
// of the repeated Element.
type RepeaterModelReference struct {
	Element *Element
	Typ     typeregister.Type
}

// ObjectAccess reads a field of an object value.
type ObjectAccess struct {
	Base Expression
	Name string
	Typ  typeregister.Type
}

// FunctionCall emits a signal.
type FunctionCall struct{ Function Expression }

// BuiltinFunction identifies a function of the expression language.
type BuiltinFunction string

// Builtin functions.
const (
	FuncMin   BuiltinFunction = "min"
	FuncMax   BuiltinFunction = "max"
	FuncAbs   BuiltinFunction = "abs"
	FuncRound BuiltinFunction = "round"
	FuncDebug BuiltinFunction = "debug"
)

// BuiltinFunctionCall calls a builtin function.
type BuiltinFunctionCall struct {
	Function BuiltinFunction
	Args     []Expression
	Typ      typeregister.Type
}

// SelfAssignment assigns to a property inside a code block. Op is one of
// '=', '+', '-', '*' and '/'.
type SelfAssignment struct {
	LHS Expression
	RHS Expression
	Op  byte
}

// BinaryExpression applies an infix operator.
type BinaryExpression struct {
	LHS, RHS Expression
	Op       string
	Typ      typeregister.Type
}

// UnaryOp applies a prefix operator, one of "!", "-" and "+".
type UnaryOp struct {
	Sub Expression
	Op  string
}

// Condition is the ternary operator.
type Condition struct {
	Cond, TrueExpr, FalseExpr Expression
}

// Array constructs an array value.
type Array struct {
	ElemType typeregister.Type
	Values   []Expression
}

// Object constructs an object value.
type Object struct {
	Typ    typeregister.Type
	Values map[string]Expression
}

// Cast converts a value to another type.
type Cast struct {
	From Expression
	To   typeregister.Type
}

// CodeBlock evaluates statements in order. Its value is the value of the
// last statement.
type CodeBlock struct{ Stmts []Expression }

// PathElements builds path data from path element bindings at runtime.
type PathElements struct{ Elements []*PathElement }

// PathElement is one element of PathElements, with its bindings.
type PathElement struct {
	Kind     graphics.PathElementKind
	Bindings map[string]Expression
}

// PathData is a path compiled ahead of time.
type PathData struct{ Data graphics.PathData }

func (*Invalid) expression()                {}
func (*Uncompiled) expression()             {}
func (*StringLiteral) expression()          {}
func (*NumberLiteral) expression()          {}
func (*BoolLiteral) expression()            {}
func (*ColorLiteral) expression()           {}
func (*EnumValue) expression()              {}
func (*EasingCurve) expression()            {}
func (*ResourceReference) expression()      {}
func (*PropertyReference) expression()      {}
func (*SignalReference) expression()        {}
func (*RepeaterIndexReference) expression() {}
func (*RepeaterModelReference) expression() {}
func (*ObjectAccess) expression()           {}
func (*FunctionCall) expression()           {}
func (*BuiltinFunctionCall) expression()    {}
func (*SelfAssignment) expression()         {}
func (*BinaryExpression) expression()       {}
func (*UnaryOp) expression()                {}
func (*Condition) expression()              {}
func (*Array) expression()                  {}
func (*Object) expression()                 {}
func (*Cast) expression()                   {}
func (*CodeBlock) expression()              {}
func (*PathElements) expression()           {}
func (*PathData) expression()               {}

func (e *Invalid) Type() typeregister.Type                { return e.Typ }
func (e *Uncompiled) Type() typeregister.Type             { return typeregister.InvalidType }
func (e *StringLiteral) Type() typeregister.Type          { return typeregister.StringType }
func (e *NumberLiteral) Type() typeregister.Type          { return e.Typ }
func (e *BoolLiteral) Type() typeregister.Type            { return typeregister.BoolType }
func (e *ColorLiteral) Type() typeregister.Type           { return typeregister.ColorType }
func (e *EnumValue) Type() typeregister.Type              { return typeregister.EnumType(e.Enum) }
func (e *EasingCurve) Type() typeregister.Type            { return typeregister.EasingType }
func (e *ResourceReference) Type() typeregister.Type      { return typeregister.ImageType }
func (e *PropertyReference) Type() typeregister.Type      { return e.Typ }
func (e *SignalReference) Type() typeregister.Type        { return typeregister.SignalType }
func (e *RepeaterIndexReference) Type() typeregister.Type { return typeregister.Int32Type }
func (e *RepeaterModelReference) Type() typeregister.Type { return e.Typ }
func (e *ObjectAccess) Type() typeregister.Type           { return e.Typ }
func (e *FunctionCall) Type() typeregister.Type           { return typeregister.VoidType }
func (e *BuiltinFunctionCall) Type() typeregister.Type    { return e.Typ }
func (e *SelfAssignment) Type() typeregister.Type         { return typeregister.VoidType }
func (e *BinaryExpression) Type() typeregister.Type       { return e.Typ }
func (e *UnaryOp) Type() typeregister.Type                { return e.Sub.Type() }
func (e *Condition) Type() typeregister.Type              { return e.TrueExpr.Type() }
func (e *Array) Type() typeregister.Type                  { return typeregister.ArrayOf(e.ElemType) }
func (e *Object) Type() typeregister.Type                 { return e.Typ }
func (e *Cast) Type() typeregister.Type                   { return e.To }
func (e *PathElements) Type() typeregister.Type           { return typeregister.PathElementsType }
func (e *PathData) Type() typeregister.Type               { return typeregister.PathElementsType }

func (e *CodeBlock) Type() typeregister.Type {
	if len(e.Stmts) == 0 {
		return typeregister.VoidType
	}
	return e.Stmts[len(e.Stmts)-1].Type()
}

// IsInvalid reports whether e is nil or an Invalid expression.
func IsInvalid(e Expression) bool {
	if e == nil {
		return true
	}
	_, ok := e.(*Invalid)
	return ok
}

// IsConstant reports whether e does not depend on any property, model or
// signal.
func IsConstant(e Expression) bool {
	switch e.(type) {
	case *PropertyReference, *SignalReference, *RepeaterIndexReference,
		*RepeaterModelReference, *FunctionCall, *SelfAssignment, *Uncompiled:
		return false
	case *BuiltinFunctionCall:
		if e.(*BuiltinFunctionCall).Function == FuncDebug {
			return false
		}
	}
	constant := true
	VisitChildren(e, func(sub *Expression) {
		if !IsConstant(*sub) {
			constant = false
		}
	})
	return constant
}

// ZeroValue returns a literal holding the default value of type t.
func ZeroValue(t typeregister.Type) Expression {
	switch t.Kind {
	case typeregister.Float32, typeregister.Int32:
		return &NumberLiteral{0, t}
	case typeregister.String:
		return &StringLiteral{""}
	case typeregister.Bool:
		return &BoolLiteral{false}
	case typeregister.Color:
		return &ColorLiteral{graphics.Transparent}
	case typeregister.Easing:
		return &EasingCurve{animation.Linear}
	case typeregister.Enumeration:
		return &EnumValue{t.Enum, t.Enum.Values[0]}
	case typeregister.Array:
		return &Array{ElemType: *t.Elem}
	}
	return &Invalid{t}
}
