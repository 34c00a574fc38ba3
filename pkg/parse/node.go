package parse

import (
	"strings"

	"github.com/patrickelectric/sixtyfps/pkg/diag"
)

// Node is implemented by every node of the syntax tree.
type Node interface {
	diag.Ranger
	n() *node
}

// node is the common part of all syntax nodes. It is embedded in every
// *Node type.
type node struct {
	diag.Ranging
}

func (n *node) n() *node { return n }

// Document = { Component }
type Document struct {
	node
	Components []*Component
}

// Component = Ident ':=' Element
type Component struct {
	node
	ID   *Ident
	Root *Element
}

// Ident is an identifier.
type Ident struct {
	node
	Name string
}

// QualifiedName = Ident { '.' Ident }
type QualifiedName struct {
	node
	Parts []*Ident
}

// String joins the parts of the name with dots.
func (qn *QualifiedName) String() string {
	parts := make([]string, len(qn.Parts))
	for i, p := range qn.Parts {
		parts[i] = p.Name
	}
	return strings.Join(parts, ".")
}

// Element = QualifiedName '{' { ElementItem } '}'
//
// Items of the same kind keep their source order; Children keep the order of
// all sub elements, including repeated and conditional ones.
type Element struct {
	node
	Base                 *QualifiedName
	Bindings             []*Binding
	PropertyDeclarations []*PropertyDeclaration
	SignalDeclarations   []*SignalDeclaration
	SignalConnections    []*SignalConnection
	Children             []*SubElement
	States               []*State
	Transitions          []*Transition
	PropertyAnimations   []*PropertyAnimation
}

// SubElement = [ 'for' Ident [ '[' Ident ']' ] 'in' Expr ':' | 'if' Expr ':' ]
// [ Ident ':=' ] Element
type SubElement struct {
	node
	ID        *Ident
	Element   *Element
	Repeated  *RepeatedClause
	Condition Expr
}

// RepeatedClause is the "for x[i] in model" part of a repeated element.
type RepeatedClause struct {
	node
	ModelID *Ident
	IndexID *Ident
	Model   Expr
}

// Binding = Ident ':' ( CodeBlock | Expr ';' )
type Binding struct {
	node
	Name *Ident
	Expr Expr
}

// PropertyDeclaration = 'property' '<' Type '>' Ident [ ':' BindingExpr ] ';'
type PropertyDeclaration struct {
	node
	Type *QualifiedName
	Name *Ident
	Expr Expr
}

// SignalDeclaration = 'signal' Ident ';'
type SignalDeclaration struct {
	node
	Name *Ident
}

// SignalConnection = Ident '=>' CodeBlock
type SignalConnection struct {
	node
	Name *Ident
	Body *CodeBlock
}

// State = Ident [ 'when' Expr ] ':' '{' { QualifiedName ':' Expr ';' } '}'
type State struct {
	node
	ID        *Ident
	Condition Expr
	Changes   []*StatePropertyChange
}

// StatePropertyChange is one "target.prop: expr;" entry of a state.
type StatePropertyChange struct {
	node
	Target *QualifiedName
	Expr   Expr
}

// Transition = ( 'in' | 'out' ) Ident ':' '{' { PropertyAnimation } '}'
type Transition struct {
	node
	Out        bool
	State      *Ident
	Animations []*PropertyAnimation
}

// PropertyAnimation = 'animate' QualifiedName { ',' QualifiedName }
// '{' { Binding } '}'
type PropertyAnimation struct {
	node
	Targets  []*QualifiedName
	Bindings []*Binding
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	expr()
}

func (*NumberLit) expr()  {}
func (*StringLit) expr()  {}
func (*ColorLit) expr()   {}
func (*ImageRef) expr()   {}
func (*Name) expr()       {}
func (*Member) expr()     {}
func (*Call) expr()       {}
func (*Unary) expr()      {}
func (*Binary) expr()     {}
func (*Ternary) expr()    {}
func (*ArrayLit) expr()   {}
func (*ObjectLit) expr()  {}
func (*Assignment) expr() {}
func (*CodeBlock) expr()  {}
func (*BadExpr) expr()    {}

// NumberLit is a number with an optional unit, like 10px or 250ms.
type NumberLit struct {
	node
	Value float64
	Unit  string
}

// StringLit is a double-quoted string, with escape sequences decoded.
type StringLit struct {
	node
	Value string
}

// ColorLit is a #rgb, #rrggbb or #rrggbbaa literal. Text excludes the '#'.
type ColorLit struct {
	node
	Text string
}

// ImageRef is img!"path".
type ImageRef struct {
	node
	Path string
}

// Name is a bare identifier in expression position.
type Name struct {
	node
	Name string
}

// Member is Base.Name.
type Member struct {
	node
	Base Expr
	Name *Ident
}

// Call is Func(Args...).
type Call struct {
	node
	Func Expr
	Args []Expr
}

// Unary is a prefix operation, one of "!", "-" and "+".
type Unary struct {
	node
	Op      string
	Operand Expr
}

// Binary is an infix operation.
type Binary struct {
	node
	Op       string
	LHS, RHS Expr
}

// Ternary is Cond ? Then : Else.
type Ternary struct {
	node
	Cond, Then, Else Expr
}

// ArrayLit is [a, b, ...].
type ArrayLit struct {
	node
	Elems []Expr
}

// ObjectLit is {name: value, ...}.
type ObjectLit struct {
	node
	Fields []*ObjectField
}

// ObjectField is one field of an ObjectLit.
type ObjectField struct {
	node
	Name  *Ident
	Value Expr
}

// Assignment is LHS op RHS where op is one of "=", "+=", "-=", "*=" and
// "/=". It may only appear in code blocks.
type Assignment struct {
	node
	Op       string
	LHS, RHS Expr
}

// CodeBlock = '{' [ Expr { ';' Expr } [ ';' ] ] '}'
type CodeBlock struct {
	node
	Stmts []Expr
}

// BadExpr stands for an expression that failed to parse. It has already
// been reported.
type BadExpr struct {
	node
}

// QualifiedNameOf converts a chain of Name and Member nodes into a qualified
// name. It returns nil if e is not such a chain.
func QualifiedNameOf(e Expr) *QualifiedName {
	switch e := e.(type) {
	case *Name:
		return &QualifiedName{e.node, []*Ident{{e.node, e.Name}}}
	case *Member:
		base := QualifiedNameOf(e.Base)
		if base == nil {
			return nil
		}
		return &QualifiedName{e.node, append(base.Parts, e.Name)}
	}
	return nil
}
