package parse

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/patrickelectric/sixtyfps/pkg/diag"
)

// Error is a parse error.
type Error = diag.Error[ErrorTag]

// ErrorTag parameterizes [diag.Error] to define [Error].
type ErrorTag struct{}

func (ErrorTag) ErrorTag() string { return "parse error" }

// parser maintains the mutable state of parsing.
type parser struct {
	file    *diag.SourceFile
	tokens  []Token
	pos     int
	prevEnd int
	errors  []*Error
}

// Parse parses a .60 file. A syntax tree is always returned; when the error
// is not nil, it contains one or more *Error values that can be retrieved
// with UnpackErrors, and the tree contains BadExpr nodes and missing parts
// where the errors are.
func Parse(file *diag.SourceFile) (*Document, error) {
	ps := &parser{file: file}
	ps.tokens = Lex(file.Code, func(r diag.Ranging, msg string) { ps.errorp(r, msg) })
	doc := ps.parseDocument()
	sort.SliceStable(ps.errors, func(i, j int) bool {
		return ps.errors[i].Context.From < ps.errors[j].Context.From
	})
	return doc, diag.PackErrors(ps.errors)
}

// ParseFile is like Parse, but returns the errors as FileDiagnostics, the
// form the compiler consumes.
func ParseFile(file *diag.SourceFile) (*Document, *diag.FileDiagnostics) {
	doc, err := Parse(file)
	fd := diag.NewFileDiagnostics(file)
	for _, e := range UnpackErrors(err) {
		fd.PushError(e.Message, e.Context.Ranging)
	}
	return doc, fd
}

// UnpackErrors returns the constituent parse errors if the given error
// contains one or more parse errors. Otherwise it returns nil.
func UnpackErrors(e error) []*Error {
	return diag.UnpackErrors[ErrorTag](e)
}

func (ps *parser) errorp(r diag.Ranger, msg string) {
	ps.errors = append(ps.errors, &Error{
		Message: msg,
		Context: *diag.NewContext(ps.file.Name, ps.file.Code, r),
	})
}

func (ps *parser) errorf(r diag.Ranger, format string, args ...any) {
	ps.errorp(r, fmt.Sprintf(format, args...))
}

func (ps *parser) peek() Token { return ps.peekN(0) }

func (ps *parser) peekN(n int) Token {
	if ps.pos+n >= len(ps.tokens) {
		return ps.tokens[len(ps.tokens)-1]
	}
	return ps.tokens[ps.pos+n]
}

func (ps *parser) next() Token {
	tok := ps.peek()
	if tok.Kind != Eof {
		ps.pos++
		ps.prevEnd = tok.To
	}
	return tok
}

func (ps *parser) at(k Kind) bool { return ps.peek().Kind == k }

func (ps *parser) atKeyword(name string) bool {
	tok := ps.peek()
	return tok.Kind == Identifier && tok.Text == name
}

func (ps *parser) eat(k Kind) bool {
	if ps.at(k) {
		ps.next()
		return true
	}
	return false
}

// expect consumes a token of kind k, or reports "expected k" at the start
// of the current token.
func (ps *parser) expect(k Kind) bool {
	if ps.eat(k) {
		return true
	}
	ps.errorExpected(k.String())
	return false
}

func (ps *parser) expectKeyword(name string) bool {
	if ps.atKeyword(name) {
		ps.next()
		return true
	}
	ps.errorExpected("'" + name + "'")
	return false
}

func (ps *parser) errorExpected(what string) {
	tok := ps.peek()
	ps.errorf(diag.PointRanging(tok.From), "expected %s", what)
}

// Returns a Ranging from begin to the end of the last consumed token.
func (ps *parser) since(begin int) diag.Ranging {
	if ps.prevEnd < begin {
		return diag.PointRanging(begin)
	}
	return diag.Ranging{From: begin, To: ps.prevEnd}
}

func (ps *parser) parseIdent() *Ident {
	tok := ps.peek()
	if tok.Kind != Identifier {
		ps.errorExpected(Identifier.String())
		return &Ident{node{diag.PointRanging(tok.From)}, ""}
	}
	ps.next()
	return &Ident{node{tok.Ranging}, tok.Text}
}

// Document = { Component }
func (ps *parser) parseDocument() *Document {
	doc := &Document{}
	for !ps.at(Eof) {
		if ps.at(Identifier) && ps.peekN(1).Kind == ColonEqual {
			doc.Components = append(doc.Components, ps.parseComponent())
			continue
		}
		if ps.at(Identifier) {
			ps.next()
			ps.errorExpected(ColonEqual.String())
		} else {
			ps.errorExpected(Identifier.String())
			ps.next()
		}
		ps.skipToComponent()
	}
	doc.Ranging = diag.Ranging{From: 0, To: len(ps.file.Code)}
	return doc
}

// Skips tokens until the start of what looks like the next component.
func (ps *parser) skipToComponent() {
	depth := 0
	for !ps.at(Eof) {
		if depth == 0 && ps.at(Identifier) && ps.peekN(1).Kind == ColonEqual {
			return
		}
		switch ps.next().Kind {
		case LBrace, LBracket, LParent:
			depth++
		case RBrace, RBracket, RParent:
			if depth > 0 {
				depth--
			}
		}
	}
}

// Component = Ident ':=' Element
func (ps *parser) parseComponent() *Component {
	begin := ps.peek().From
	c := &Component{ID: ps.parseIdent()}
	ps.expect(ColonEqual)
	c.Root = ps.parseElement()
	c.Ranging = ps.since(begin)
	return c
}

// QualifiedName = Ident { '.' Ident }
func (ps *parser) parseQualifiedName() *QualifiedName {
	begin := ps.peek().From
	qn := &QualifiedName{Parts: []*Ident{ps.parseIdent()}}
	for ps.at(Dot) && ps.peekN(1).Kind == Identifier {
		ps.next()
		qn.Parts = append(qn.Parts, ps.parseIdent())
	}
	qn.Ranging = ps.since(begin)
	return qn
}

// Element = QualifiedName '{' { ElementItem } '}'
func (ps *parser) parseElement() *Element {
	begin := ps.peek().From
	e := &Element{Base: ps.parseQualifiedName()}
	if !ps.at(LBrace) {
		ps.errorExpected(LBrace.String())
		// Recover by looking for the opening brace of the body, without
		// reporting the tokens in between.
		for !ps.at(LBrace) && !ps.at(RBrace) && !ps.at(Eof) {
			ps.next()
		}
		if !ps.at(LBrace) {
			e.Ranging = ps.since(begin)
			return e
		}
	}
	ps.next()
	ps.parseElementItems(e)
	ps.expect(RBrace)
	e.Ranging = ps.since(begin)
	return e
}

func (ps *parser) parseElementItems(e *Element) {
	for !ps.at(RBrace) && !ps.at(Eof) {
		if ps.eat(Semicolon) {
			continue
		}
		nerr := len(ps.errors)
		if ps.parseElementItem(e) && len(ps.errors) > nerr {
			ps.recoverItem()
		}
	}
}

// Parses one item of an element body. It returns false for sub elements,
// which recover from their own errors.
func (ps *parser) parseElementItem(e *Element) bool {
	tok := ps.peek()
	if tok.Kind != Identifier {
		ps.errorExpected(Identifier.String())
		ps.next()
		return true
	}
	nt := ps.peekN(1)
	switch {
	case tok.Text == "property" && nt.Kind == LAngle:
		e.PropertyDeclarations = append(e.PropertyDeclarations, ps.parsePropertyDeclaration())
	case tok.Text == "signal" && nt.Kind == Identifier:
		e.SignalDeclarations = append(e.SignalDeclarations, ps.parseSignalDeclaration())
	case tok.Text == "states" && nt.Kind == LBracket:
		e.States = append(e.States, ps.parseStates()...)
		return false
	case tok.Text == "transitions" && nt.Kind == LBracket:
		e.Transitions = append(e.Transitions, ps.parseTransitions()...)
		return false
	case tok.Text == "animate" && nt.Kind == Identifier:
		e.PropertyAnimations = append(e.PropertyAnimations, ps.parsePropertyAnimation())
	case tok.Text == "for" && nt.Kind == Identifier:
		e.Children = append(e.Children, ps.parseRepeatedElement())
		return false
	case tok.Text == "if" && !startsItemAfterName(nt.Kind):
		e.Children = append(e.Children, ps.parseConditionalElement())
		return false
	case nt.Kind == ColonEqual:
		e.Children = append(e.Children, ps.parseSubElement())
		return false
	case nt.Kind == FatArrow:
		e.SignalConnections = append(e.SignalConnections, ps.parseSignalConnection())
	case nt.Kind == Colon:
		e.Bindings = append(e.Bindings, ps.parseBinding())
	default:
		e.Children = append(e.Children, ps.parseSubElement())
		return false
	}
	return true
}

func startsItemAfterName(k Kind) bool {
	return k == Colon || k == ColonEqual || k == FatArrow || k == LBrace || k == Dot
}

// Skips the rest of a broken element item: up to and including the next
// semicolon, or up to but excluding the closing brace of the element.
func (ps *parser) recoverItem() {
	depth := 0
	for !ps.at(Eof) {
		switch ps.peek().Kind {
		case Semicolon:
			if depth == 0 {
				ps.next()
				return
			}
		case LBrace, LBracket, LParent:
			depth++
		case RBrace, RBracket, RParent:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 && ps.at(RBrace) {
				ps.next()
				return
			}
		}
		ps.next()
	}
}

// SubElement = [ Ident ':=' ] Element
func (ps *parser) parseSubElement() *SubElement {
	begin := ps.peek().From
	se := &SubElement{}
	if ps.at(Identifier) && ps.peekN(1).Kind == ColonEqual {
		se.ID = ps.parseIdent()
		ps.next()
	}
	se.Element = ps.parseElement()
	se.Ranging = ps.since(begin)
	return se
}

// 'for' Ident [ '[' Ident ']' ] 'in' Expr ':' SubElement
func (ps *parser) parseRepeatedElement() *SubElement {
	begin := ps.peek().From
	ps.next()
	rep := &RepeatedClause{ModelID: ps.parseIdent()}
	if ps.eat(LBracket) {
		rep.IndexID = ps.parseIdent()
		ps.expect(RBracket)
	}
	if !ps.expectKeyword("in") {
		ps.recoverItem()
		return &SubElement{node: node{ps.since(begin)}, Repeated: rep, Element: &Element{}}
	}
	rep.Model = ps.parseExpr()
	rep.Ranging = ps.since(begin)
	ps.expect(Colon)
	se := ps.parseSubElement()
	se.Repeated = rep
	se.Ranging = ps.since(begin)
	return se
}

// 'if' Expr ':' SubElement
func (ps *parser) parseConditionalElement() *SubElement {
	begin := ps.peek().From
	ps.next()
	cond := ps.parseExpr()
	ps.expect(Colon)
	se := ps.parseSubElement()
	se.Condition = cond
	se.Ranging = ps.since(begin)
	return se
}

// Binding = Ident ':' BindingExpr
func (ps *parser) parseBinding() *Binding {
	begin := ps.peek().From
	b := &Binding{Name: ps.parseIdent()}
	ps.expect(Colon)
	b.Expr = ps.parseBindingExpr()
	b.Ranging = ps.since(begin)
	return b
}

// BindingExpr = CodeBlock | Expr ';'
func (ps *parser) parseBindingExpr() Expr {
	if ps.at(LBrace) && !ps.atObjectLiteral() {
		cb := ps.parseCodeBlock()
		ps.eat(Semicolon)
		return cb
	}
	nerr := len(ps.errors)
	e := ps.parseExpr()
	if len(ps.errors) == nerr {
		ps.expect(Semicolon)
	}
	return e
}

// PropertyDeclaration = 'property' '<' QualifiedName '>' Ident
// ( ':' BindingExpr | ';' )
func (ps *parser) parsePropertyDeclaration() *PropertyDeclaration {
	begin := ps.peek().From
	ps.next()
	ps.expect(LAngle)
	d := &PropertyDeclaration{Type: ps.parseQualifiedName()}
	ps.expect(RAngle)
	d.Name = ps.parseIdent()
	if ps.eat(Colon) {
		d.Expr = ps.parseBindingExpr()
	} else {
		ps.expect(Semicolon)
	}
	d.Ranging = ps.since(begin)
	return d
}

// SignalDeclaration = 'signal' Ident ';'
func (ps *parser) parseSignalDeclaration() *SignalDeclaration {
	begin := ps.peek().From
	ps.next()
	d := &SignalDeclaration{Name: ps.parseIdent()}
	ps.expect(Semicolon)
	d.Ranging = ps.since(begin)
	return d
}

// SignalConnection = Ident '=>' CodeBlock
func (ps *parser) parseSignalConnection() *SignalConnection {
	begin := ps.peek().From
	c := &SignalConnection{Name: ps.parseIdent()}
	ps.expect(FatArrow)
	if !ps.at(LBrace) {
		ps.errorExpected(LBrace.String())
		c.Body = &CodeBlock{node: node{diag.PointRanging(ps.peek().From)}}
	} else {
		c.Body = ps.parseCodeBlock()
	}
	c.Ranging = ps.since(begin)
	return c
}

// 'states' '[' { State } ']'
func (ps *parser) parseStates() []*State {
	ps.next()
	ps.next()
	var states []*State
	for !ps.at(RBracket) && !ps.at(Eof) {
		begin := ps.peek().From
		s := &State{ID: ps.parseIdent()}
		if ps.atKeyword("when") {
			ps.next()
			s.Condition = ps.parseExpr()
		}
		if !ps.expect(Colon) || !ps.expect(LBrace) {
			ps.skipBracketed(RBracket)
			return states
		}
		for !ps.at(RBrace) && !ps.at(Eof) {
			before, cbegin := ps.pos, ps.peek().From
			c := &StatePropertyChange{Target: ps.parseQualifiedName()}
			ps.expect(Colon)
			c.Expr = ps.parseBindingExpr()
			c.Ranging = ps.since(cbegin)
			s.Changes = append(s.Changes, c)
			if ps.pos == before {
				ps.skipBracketed(RBracket)
				return states
			}
		}
		ps.expect(RBrace)
		s.Ranging = ps.since(begin)
		states = append(states, s)
	}
	ps.expect(RBracket)
	return states
}

// 'transitions' '[' { ( 'in' | 'out' ) Ident ':' '{' { PropertyAnimation }
// '}' } ']'
func (ps *parser) parseTransitions() []*Transition {
	ps.next()
	ps.next()
	var transitions []*Transition
	for !ps.at(RBracket) && !ps.at(Eof) {
		begin := ps.peek().From
		t := &Transition{}
		switch {
		case ps.atKeyword("in"):
		case ps.atKeyword("out"):
			t.Out = true
		default:
			ps.errorExpected("'in' or 'out'")
			ps.skipBracketed(RBracket)
			return transitions
		}
		ps.next()
		t.State = ps.parseIdent()
		if !ps.expect(Colon) || !ps.expect(LBrace) {
			ps.skipBracketed(RBracket)
			return transitions
		}
		for ps.atKeyword("animate") {
			t.Animations = append(t.Animations, ps.parsePropertyAnimation())
		}
		ps.expect(RBrace)
		t.Ranging = ps.since(begin)
		transitions = append(transitions, t)
	}
	ps.expect(RBracket)
	return transitions
}

// Skips to just after the closing token of the current bracketed list.
func (ps *parser) skipBracketed(closing Kind) {
	depth := 0
	for !ps.at(Eof) {
		switch ps.next().Kind {
		case LBrace, LBracket, LParent:
			depth++
		case RBrace, RBracket, RParent:
			if depth == 0 {
				return
			}
			depth--
		}
	}
}

// PropertyAnimation = 'animate' QualifiedName { ',' QualifiedName }
// '{' { Binding } '}'
func (ps *parser) parsePropertyAnimation() *PropertyAnimation {
	begin := ps.peek().From
	ps.next()
	a := &PropertyAnimation{Targets: []*QualifiedName{ps.parseQualifiedName()}}
	for ps.eat(Comma) {
		a.Targets = append(a.Targets, ps.parseQualifiedName())
	}
	if ps.expect(LBrace) {
		for ps.at(Identifier) {
			a.Bindings = append(a.Bindings, ps.parseBinding())
		}
		ps.expect(RBrace)
	}
	a.Ranging = ps.since(begin)
	return a
}

// CodeBlock = '{' [ Statement { ';' Statement } [ ';' ] ] '}'
func (ps *parser) parseCodeBlock() *CodeBlock {
	begin := ps.peek().From
	ps.next()
	cb := &CodeBlock{}
	for !ps.at(RBrace) && !ps.at(Eof) {
		if ps.eat(Semicolon) {
			continue
		}
		nerr := len(ps.errors)
		cb.Stmts = append(cb.Stmts, ps.parseStatement())
		if len(ps.errors) > nerr {
			ps.recoverItem()
			continue
		}
		if !ps.at(RBrace) && !ps.eat(Semicolon) {
			ps.errorExpected(Semicolon.String())
			ps.recoverItem()
		}
	}
	ps.expect(RBrace)
	cb.Ranging = ps.since(begin)
	return cb
}

var assignOps = map[Kind]string{
	Equal: "=", PlusEqual: "+=", MinusEqual: "-=", StarEqual: "*=", DivEqual: "/=",
}

// Statement = Expr [ AssignOp Expr ]
func (ps *parser) parseStatement() Expr {
	begin := ps.peek().From
	lhs := ps.parseExpr()
	if op, ok := assignOps[ps.peek().Kind]; ok {
		ps.next()
		rhs := ps.parseExpr()
		return &Assignment{node{ps.since(begin)}, op, lhs, rhs}
	}
	return lhs
}

func (ps *parser) parseExpr() Expr { return ps.parseTernary() }

// Ternary = Or [ '?' Expr ':' Expr ]
func (ps *parser) parseTernary() Expr {
	begin := ps.peek().From
	cond := ps.parseBinary(0)
	if !ps.eat(Question) {
		return cond
	}
	then := ps.parseExpr()
	ps.expect(Colon)
	els := ps.parseExpr()
	return &Ternary{node{ps.since(begin)}, cond, then, els}
}

// Binary operators, from the lowest precedence to the highest.
var binaryLevels = []map[Kind]string{
	{OrOr: "||"},
	{AndAnd: "&&"},
	{EqualEqual: "==", NotEqual: "!="},
	{LAngle: "<", RAngle: ">", LessEqual: "<=", GreaterEqual: ">="},
	{Plus: "+", Minus: "-"},
	{Star: "*", Div: "/"},
}

func (ps *parser) parseBinary(level int) Expr {
	if level == len(binaryLevels) {
		return ps.parseUnary()
	}
	begin := ps.peek().From
	lhs := ps.parseBinary(level + 1)
	for {
		op, ok := binaryLevels[level][ps.peek().Kind]
		if !ok {
			return lhs
		}
		ps.next()
		rhs := ps.parseBinary(level + 1)
		lhs = &Binary{node{ps.since(begin)}, op, lhs, rhs}
	}
}

// Unary = ( '!' | '-' | '+' ) Unary | Postfix
func (ps *parser) parseUnary() Expr {
	begin := ps.peek().From
	var op string
	switch ps.peek().Kind {
	case Bang:
		op = "!"
	case Minus:
		op = "-"
	case Plus:
		op = "+"
	default:
		return ps.parsePostfix()
	}
	ps.next()
	operand := ps.parseUnary()
	return &Unary{node{ps.since(begin)}, op, operand}
}

// Postfix = Primary { '.' Ident | '(' [ Expr { ',' Expr } ] ')' }
func (ps *parser) parsePostfix() Expr {
	begin := ps.peek().From
	e := ps.parsePrimary()
	for {
		switch {
		case ps.at(Dot):
			ps.next()
			name := ps.parseIdent()
			e = &Member{node{ps.since(begin)}, e, name}
		case ps.at(LParent):
			ps.next()
			var args []Expr
			for !ps.at(RParent) && !ps.at(Eof) {
				args = append(args, ps.parseExpr())
				if !ps.eat(Comma) {
					break
				}
			}
			ps.expect(RParent)
			e = &Call{node{ps.since(begin)}, e, args}
		default:
			return e
		}
	}
}

func (ps *parser) parsePrimary() Expr {
	tok := ps.peek()
	switch tok.Kind {
	case NumberLiteral:
		ps.next()
		return ps.numberLit(tok)
	case StringLiteral:
		ps.next()
		return &StringLit{node{tok.Ranging}, ps.unquote(tok)}
	case ColorLiteral:
		ps.next()
		return &ColorLit{node{tok.Ranging}, tok.Text[1:]}
	case Identifier:
		if tok.Text == "img" && ps.peekN(1).Kind == Bang && ps.peekN(2).Kind == StringLiteral {
			ps.next()
			ps.next()
			path := ps.next()
			return &ImageRef{node{ps.since(tok.From)}, ps.unquote(path)}
		}
		ps.next()
		return &Name{node{tok.Ranging}, tok.Text}
	case LParent:
		ps.next()
		e := ps.parseExpr()
		ps.expect(RParent)
		return e
	case LBracket:
		ps.next()
		a := &ArrayLit{}
		for !ps.at(RBracket) && !ps.at(Eof) {
			a.Elems = append(a.Elems, ps.parseExpr())
			if !ps.eat(Comma) {
				break
			}
		}
		ps.expect(RBracket)
		a.Ranging = ps.since(tok.From)
		return a
	case LBrace:
		if ps.atObjectLiteral() {
			return ps.parseObjectLit()
		}
		return ps.parseCodeBlock()
	}
	ps.errorExpected("Expression")
	return &BadExpr{node{diag.PointRanging(tok.From)}}
}

// Reports whether the parser is at the start of {name: value} or {}.
func (ps *parser) atObjectLiteral() bool {
	if !ps.at(LBrace) {
		return false
	}
	return ps.peekN(1).Kind == Identifier && ps.peekN(2).Kind == Colon
}

func (ps *parser) parseObjectLit() Expr {
	begin := ps.peek().From
	ps.next()
	o := &ObjectLit{}
	for ps.at(Identifier) {
		fbegin := ps.peek().From
		f := &ObjectField{Name: ps.parseIdent()}
		ps.expect(Colon)
		f.Value = ps.parseExpr()
		f.Ranging = ps.since(fbegin)
		o.Fields = append(o.Fields, f)
		if !ps.eat(Comma) {
			break
		}
	}
	ps.expect(RBrace)
	o.Ranging = ps.since(begin)
	return o
}

func (ps *parser) numberLit(tok Token) Expr {
	i := strings.IndexFunc(tok.Text, func(r rune) bool { return isLetter(r) || r == '%' })
	num, unit := tok.Text, ""
	if i >= 0 {
		num, unit = tok.Text[:i], tok.Text[i:]
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		ps.errorf(tok, "invalid number %q", tok.Text)
	}
	return &NumberLit{node{tok.Ranging}, v, unit}
}

func (ps *parser) unquote(tok Token) string {
	s, err := strconv.Unquote(tok.Text)
	if err != nil {
		if strings.HasSuffix(tok.Text, `"`) && len(tok.Text) > 1 {
			ps.errorf(tok, "invalid escape sequence in %s", tok.Text)
		}
		return strings.Trim(tok.Text, `"`)
	}
	return s
}
