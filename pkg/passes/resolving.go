package passes

import (
	"path/filepath"

	"github.com/patrickelectric/sixtyfps/pkg/animation"
	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/parse"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

// ResolveExpressions replaces every Uncompiled expression of the component
// with a typed expression. Names are bound to properties, signals, repeater
// variables or constants; values are converted to the type of the property
// they are bound to. Expressions that cannot be resolved become Invalid.
func ResolveExpressions(c *objtree.Component, diags *diag.BuildDiagnostics) {
	r := &resolver{
		comp:    c,
		diags:   diags,
		parents: objtree.ParentMap(c.RootElement),
		ids:     make(map[string]*objtree.Element),
	}
	objtree.VisitElements(c.RootElement, func(e *objtree.Element) {
		if e.ID != "" {
			r.ids[e.ID] = e
		}
	})
	objtree.VisitElements(c.RootElement, r.resolveElement)
}

type resolver struct {
	comp    *objtree.Component
	diags   *diag.BuildDiagnostics
	parents map[*objtree.Element]*objtree.Element
	ids     map[string]*objtree.Element
}

// lookupCtx is the context in which an expression is resolved.
type lookupCtx struct {
	element *objtree.Element
	// inHandler is set in signal handlers, where assignments are allowed.
	inHandler bool
}

func (r *resolver) span(n diag.Ranger) diag.Span { return diag.SpanOf(r.comp.File, n) }

func (r *resolver) errorf(n diag.Ranger, format string, args ...any) *objtree.Invalid {
	errorf(r.diags, r.span(n), format, args...)
	return &objtree.Invalid{Typ: typeregister.InvalidType}
}

func (r *resolver) resolveElement(e *objtree.Element) {
	if rep := e.Repeated; rep != nil {
		// The model is evaluated in the parent, where the model variables
		// are not visible.
		ctx := &lookupCtx{element: r.parents[e]}
		if ctx.element == nil {
			ctx.element = e
		}
		rep.Model = r.resolveModel(rep, ctx)
	}
	for _, name := range e.BindingNames() {
		b := e.Bindings[name]
		typ, _ := e.LookupProperty(name)
		b.Expression = r.resolveBinding(b.Expression, e, typ)
	}
	for _, s := range e.States {
		if s.Condition != nil {
			s.Condition = r.resolveBinding(s.Condition, e, typeregister.BoolType)
		}
		for _, c := range s.Changes {
			target, typ, ok := r.resolveTarget(e, c.Path, c.Span)
			if !ok {
				c.Expr = &objtree.Invalid{Typ: typeregister.InvalidType}
				continue
			}
			c.Target = target
			c.Expr = r.resolveBinding(c.Expr, e, typ)
		}
	}
	for _, t := range e.Transitions {
		for _, a := range t.Animations {
			a.Targets = nil
			for _, path := range a.Paths {
				if target, _, ok := r.resolveTarget(e, path, a.Span); ok {
					a.Targets = append(a.Targets, target)
				}
			}
			r.resolveAnimation(a.Animation, e)
		}
	}
	for _, anim := range e.PropertyAnimations {
		if anim.Static != nil {
			r.resolveAnimation(anim.Static, e)
		}
	}
}

func (r *resolver) resolveAnimation(anim, owner *objtree.Element) {
	for _, name := range anim.BindingNames() {
		b := anim.Bindings[name]
		typ, _ := anim.LookupProperty(name)
		b.Expression = r.resolveBinding(b.Expression, owner, typ)
	}
}

// resolveBinding resolves an expression bound to a property of type typ.
// Expressions that are already resolved are returned as they are.
func (r *resolver) resolveBinding(expr objtree.Expression, e *objtree.Element, typ typeregister.Type) objtree.Expression {
	u, ok := expr.(*objtree.Uncompiled)
	if !ok {
		return expr
	}
	if typ.Kind == typeregister.Signal {
		ctx := &lookupCtx{element: e, inHandler: true}
		if block, ok := u.Node.(*parse.CodeBlock); ok {
			return r.codeBlock(block, ctx, typeregister.VoidType)
		}
		return r.expr(u.Node, ctx, typeregister.VoidType)
	}
	ctx := &lookupCtx{element: e}
	return r.convert(r.expr(u.Node, ctx, typ), typ, u.Node)
}

func (r *resolver) resolveModel(rep *objtree.RepeatedElementInfo, ctx *lookupCtx) objtree.Expression {
	u, ok := rep.Model.(*objtree.Uncompiled)
	if !ok {
		return rep.Model
	}
	if rep.IsConditional {
		return r.convert(r.expr(u.Node, ctx, typeregister.BoolType), typeregister.BoolType, u.Node)
	}
	model := r.expr(u.Node, ctx, typeregister.InvalidType)
	switch model.Type().Kind {
	case typeregister.Invalid, typeregister.Int32, typeregister.Float32, typeregister.Array:
		return model
	}
	return r.errorf(u.Node, "Cannot use %s as a model", model.Type())
}

// resolveTarget resolves the target of a state change or a transition:
// either a property of e, or id.property.
func (r *resolver) resolveTarget(e *objtree.Element, path []string, span diag.Span) (objtree.NamedReference, typeregister.Type, bool) {
	fail := func(format string, args ...any) (objtree.NamedReference, typeregister.Type, bool) {
		errorf(r.diags, span, format, args...)
		return objtree.NamedReference{}, typeregister.InvalidType, false
	}
	target := e
	switch len(path) {
	case 1:
	case 2:
		el, handled := r.elementNamed(path[0], &lookupCtx{element: e}, span)
		if !handled {
			return fail("Unknown element '%s'", path[0])
		}
		if el == nil {
			return objtree.NamedReference{}, typeregister.InvalidType, false
		}
		target = el
	default:
		return fail("Invalid property reference")
	}
	name := path[len(path)-1]
	typ, ok := target.LookupProperty(name)
	if !ok {
		return fail("Element '%s' does not have a property '%s'", elementName(target), name)
	}
	if !typ.IsPropertyType() {
		return fail("'%s' is not a property", name)
	}
	return objtree.NamedReference{Element: target, Name: name}, typ, true
}

func elementName(e *objtree.Element) string {
	if e.ID != "" {
		return e.ID
	}
	return e.Base.String()
}

// convert converts e to type to, reporting incompatible types.
func (r *resolver) convert(e objtree.Expression, to typeregister.Type, n diag.Ranger) objtree.Expression {
	from := e.Type()
	switch {
	case objtree.IsInvalid(e), to.Kind == typeregister.Invalid, to.Kind == typeregister.Void,
		from.Equal(to):
		return e
	case !from.CanConvert(to):
		return r.errorf(n, "Cannot convert %s to %s", from, to)
	case from.Kind == typeregister.Invalid:
		// Model data of unknown shape.
		return e
	}
	return &objtree.Cast{From: e, To: to}
}

// expr resolves a syntax node. expected is the type the value will be
// converted to; it selects the constants a bare identifier can name.
func (r *resolver) expr(n parse.Expr, ctx *lookupCtx, expected typeregister.Type) objtree.Expression {
	switch n := n.(type) {
	case *parse.NumberLit:
		switch n.Unit {
		case "", "px":
			return &objtree.NumberLiteral{Value: n.Value, Typ: typeregister.Float32Type}
		case "ms":
			return &objtree.NumberLiteral{Value: n.Value, Typ: typeregister.Int32Type}
		case "s":
			return &objtree.NumberLiteral{Value: n.Value * 1000, Typ: typeregister.Int32Type}
		}
		return r.errorf(n, "Unknown unit '%s'", n.Unit)
	case *parse.StringLit:
		return &objtree.StringLiteral{Value: n.Value}
	case *parse.ColorLit:
		c, err := graphics.ParseColorLiteral(n.Text)
		if err != nil {
			return r.errorf(n, "Invalid color literal")
		}
		return &objtree.ColorLiteral{Color: c}
	case *parse.ImageRef:
		path := n.Path
		if !filepath.IsAbs(path) && r.comp.File != nil {
			path = filepath.Join(filepath.Dir(r.comp.File.Name), path)
		}
		return &objtree.ResourceReference{Path: path}
	case *parse.Name:
		return r.lookupName(n, ctx, expected)
	case *parse.Member:
		return r.member(n, ctx)
	case *parse.Call:
		return r.call(n, ctx)
	case *parse.Unary:
		return r.unary(n, ctx, expected)
	case *parse.Binary:
		return r.binary(n, ctx, expected)
	case *parse.Ternary:
		return r.ternary(n, ctx, expected)
	case *parse.ArrayLit:
		return r.array(n, ctx, expected)
	case *parse.ObjectLit:
		return r.object(n, ctx, expected)
	case *parse.Assignment:
		return r.assignment(n, ctx)
	case *parse.CodeBlock:
		return r.codeBlock(n, ctx, expected)
	}
	// BadExpr: already reported by the parser.
	return &objtree.Invalid{Typ: expected}
}

func (r *resolver) lookupName(n *parse.Name, ctx *lookupCtx, expected typeregister.Type) objtree.Expression {
	name := n.Name
	for el := ctx.element; el != nil; el = r.parents[el] {
		rep := el.Repeated
		if rep == nil || rep.IsConditional {
			continue
		}
		if rep.ModelDataID == name {
			return &objtree.RepeaterModelReference{Element: el, Typ: modelDataType(rep)}
		}
		if rep.IndexID == name {
			return &objtree.RepeaterIndexReference{Element: el}
		}
	}
	for el := ctx.element; el != nil; el = r.parents[el] {
		if typ, ok := el.LookupProperty(name); ok {
			return namedRef(el, name, typ)
		}
	}
	switch name {
	case "true", "false":
		return &objtree.BoolLiteral{Value: name == "true"}
	}
	switch expected.Kind {
	case typeregister.Color:
		if c, ok := graphics.NamedColor(name); ok {
			return &objtree.ColorLiteral{Color: c}
		}
	case typeregister.Enumeration:
		if expected.Enum.HasValue(name) {
			return &objtree.EnumValue{Enum: expected.Enum, Value: name}
		}
	case typeregister.Easing:
		if c, ok := animation.ByName(name); ok {
			return &objtree.EasingCurve{Curve: c}
		}
	}
	return r.errorf(n, "Unknown unqualified identifier '%s'", name)
}

func modelDataType(rep *objtree.RepeatedElementInfo) typeregister.Type {
	if rep.Model == nil {
		return typeregister.InvalidType
	}
	switch t := rep.Model.Type(); t.Kind {
	case typeregister.Array:
		return *t.Elem
	case typeregister.Int32, typeregister.Float32:
		return typeregister.Int32Type
	}
	return typeregister.InvalidType
}

func namedRef(e *objtree.Element, name string, typ typeregister.Type) objtree.Expression {
	ref := objtree.NamedReference{Element: e, Name: name}
	if typ.Kind == typeregister.Signal {
		return &objtree.SignalReference{Ref: ref}
	}
	return &objtree.PropertyReference{Ref: ref, Typ: typ}
}

// elementNamed resolves a name designating an element: root, parent, self
// or an element id. The boolean is false when the name does not designate
// an element; the element is nil when the designation is an error, which has
// been reported.
func (r *resolver) elementNamed(name string, ctx *lookupCtx, n diag.Ranger) (*objtree.Element, bool) {
	report := func(format string, args ...any) {
		if span, ok := n.(diag.Span); ok {
			errorf(r.diags, span, format, args...)
		} else {
			r.errorf(n, format, args...)
		}
	}
	switch name {
	case "root":
		return r.comp.RootElement, true
	case "self":
		return ctx.element, true
	case "parent":
		p := r.parents[ctx.element]
		if p == nil {
			report("'parent' cannot be used in the root element")
		}
		return p, true
	}
	el, ok := r.ids[name]
	if !ok {
		return nil, false
	}
	for a := el; a != nil; a = r.parents[a] {
		if a.Repeated != nil && !r.isAncestorOrSelf(a, ctx.element) {
			report("Cannot access the id '%s' of an element inside a repeated element", name)
			return nil, true
		}
	}
	return el, true
}

func (r *resolver) isAncestorOrSelf(a, e *objtree.Element) bool {
	for ; e != nil; e = r.parents[e] {
		if e == a {
			return true
		}
	}
	return false
}

func (r *resolver) member(n *parse.Member, ctx *lookupCtx) objtree.Expression {
	name := n.Name.Name
	if base, ok := n.Base.(*parse.Name); ok {
		if el, handled := r.elementNamed(base.Name, ctx, base); handled {
			if el == nil {
				return &objtree.Invalid{Typ: typeregister.InvalidType}
			}
			typ, ok := el.LookupProperty(name)
			if !ok {
				return r.errorf(n.Name, "Element '%s' does not have a property '%s'", base.Name, name)
			}
			return namedRef(el, name, typ)
		}
	}
	base := r.expr(n.Base, ctx, typeregister.InvalidType)
	if objtree.IsInvalid(base) {
		return base
	}
	switch bt := base.Type(); bt.Kind {
	case typeregister.Invalid:
		return &objtree.ObjectAccess{Base: base, Name: name, Typ: typeregister.InvalidType}
	case typeregister.Object:
		if ft, ok := bt.Field(name); ok {
			return &objtree.ObjectAccess{Base: base, Name: name, Typ: ft}
		}
	}
	return r.errorf(n.Name, "Cannot access the field '%s' of %s", name, base.Type())
}

func (r *resolver) call(n *parse.Call, ctx *lookupCtx) objtree.Expression {
	if fn, ok := n.Func.(*parse.Name); ok {
		switch f := objtree.BuiltinFunction(fn.Name); f {
		case objtree.FuncMin, objtree.FuncMax, objtree.FuncAbs, objtree.FuncRound, objtree.FuncDebug:
			return r.builtinCall(n, f, ctx)
		}
	}
	f := r.expr(n.Func, ctx, typeregister.InvalidType)
	if objtree.IsInvalid(f) {
		return f
	}
	sig, ok := f.(*objtree.SignalReference)
	if !ok {
		return r.errorf(n.Func, "The expression is not a function")
	}
	if len(n.Args) > 0 {
		return r.errorf(n, "Signals do not take arguments")
	}
	return &objtree.FunctionCall{Function: sig}
}

func (r *resolver) builtinCall(n *parse.Call, f objtree.BuiltinFunction, ctx *lookupCtx) objtree.Expression {
	args := make([]objtree.Expression, len(n.Args))
	for i, a := range n.Args {
		args[i] = r.expr(a, ctx, typeregister.InvalidType)
	}
	call := &objtree.BuiltinFunctionCall{Function: f, Args: args}
	switch f {
	case objtree.FuncDebug:
		call.Typ = typeregister.VoidType
		return call
	case objtree.FuncMin, objtree.FuncMax:
		if len(args) < 2 {
			return r.errorf(n, "%s needs at least two arguments", f)
		}
	default:
		if len(args) != 1 {
			return r.errorf(n, "%s needs exactly one argument", f)
		}
	}
	call.Typ = numberType(args...)
	for i := range args {
		args[i] = r.convert(args[i], call.Typ, n.Args[i])
	}
	if f == objtree.FuncRound {
		call.Typ = typeregister.Int32Type
	}
	return call
}

// numberType returns Int32 if all arguments are Int32 and Float32
// otherwise.
func numberType(args ...objtree.Expression) typeregister.Type {
	for _, a := range args {
		if a.Type().Kind != typeregister.Int32 {
			return typeregister.Float32Type
		}
	}
	return typeregister.Int32Type
}

func (r *resolver) unary(n *parse.Unary, ctx *lookupCtx, expected typeregister.Type) objtree.Expression {
	if n.Op == "!" {
		sub := r.convert(r.expr(n.Operand, ctx, typeregister.BoolType), typeregister.BoolType, n.Operand)
		return &objtree.UnaryOp{Sub: sub, Op: n.Op}
	}
	sub := r.expr(n.Operand, ctx, expected)
	if !sub.Type().IsNumber() {
		sub = r.convert(sub, typeregister.Float32Type, n.Operand)
	}
	return &objtree.UnaryOp{Sub: sub, Op: n.Op}
}

func (r *resolver) binary(n *parse.Binary, ctx *lookupCtx, expected typeregister.Type) objtree.Expression {
	lhs := r.expr(n.LHS, ctx, typeregister.InvalidType)
	switch n.Op {
	case "&&", "||":
		lhs = r.convert(lhs, typeregister.BoolType, n.LHS)
		rhs := r.convert(r.expr(n.RHS, ctx, typeregister.BoolType), typeregister.BoolType, n.RHS)
		return binary(lhs, n.Op, rhs)
	case "==", "!=":
		rhs := r.expr(n.RHS, ctx, lhs.Type())
		lt, rt := lhs.Type(), rhs.Type()
		switch {
		case lt.IsNumber() && rt.IsNumber():
		case !lt.CanConvert(rt) && !rt.CanConvert(lt):
			return r.errorf(n, "Cannot compare %s and %s", lt, rt)
		case !lt.CanConvert(rt):
			lhs = r.convert(lhs, rt, n.LHS)
		default:
			rhs = r.convert(rhs, lt, n.RHS)
		}
		return binary(lhs, n.Op, rhs)
	}
	rhs := r.expr(n.RHS, ctx, typeregister.InvalidType)
	if n.Op == "+" && (lhs.Type().Kind == typeregister.String || rhs.Type().Kind == typeregister.String) {
		lhs = r.convert(lhs, typeregister.StringType, n.LHS)
		rhs = r.convert(rhs, typeregister.StringType, n.RHS)
		return &objtree.BinaryExpression{LHS: lhs, RHS: rhs, Op: n.Op, Typ: typeregister.StringType}
	}
	typ := numberType(lhs, rhs)
	if n.Op == "/" {
		typ = typeregister.Float32Type
	}
	if lhs.Type().Kind == typeregister.Invalid || rhs.Type().Kind == typeregister.Invalid {
		typ = typeregister.Float32Type
	}
	if !lhs.Type().IsNumber() {
		lhs = r.convert(lhs, typeregister.Float32Type, n.LHS)
	}
	if !rhs.Type().IsNumber() {
		rhs = r.convert(rhs, typeregister.Float32Type, n.RHS)
	}
	switch n.Op {
	case "<", ">", "<=", ">=":
		return binary(lhs, n.Op, rhs)
	}
	return &objtree.BinaryExpression{LHS: lhs, RHS: rhs, Op: n.Op, Typ: typ}
}

func (r *resolver) ternary(n *parse.Ternary, ctx *lookupCtx, expected typeregister.Type) objtree.Expression {
	cond := r.convert(r.expr(n.Cond, ctx, typeregister.BoolType), typeregister.BoolType, n.Cond)
	then := r.expr(n.Then, ctx, expected)
	els := r.expr(n.Else, ctx, expected)
	tt, et := then.Type(), els.Type()
	var typ typeregister.Type
	switch {
	case tt.Equal(et):
		typ = tt
	case objtree.IsInvalid(then):
		typ = et
	case objtree.IsInvalid(els):
		typ = tt
	case tt.IsNumber() && et.IsNumber():
		typ = typeregister.Float32Type
	case et.CanConvert(tt):
		typ = tt
	case tt.CanConvert(et):
		typ = et
	default:
		return r.errorf(n, "Cannot convert %s to %s", et, tt)
	}
	return &objtree.Condition{
		Cond:      cond,
		TrueExpr:  r.convert(then, typ, n.Then),
		FalseExpr: r.convert(els, typ, n.Else),
	}
}

func (r *resolver) array(n *parse.ArrayLit, ctx *lookupCtx, expected typeregister.Type) objtree.Expression {
	elemExpected := typeregister.InvalidType
	if expected.Kind == typeregister.Array {
		elemExpected = *expected.Elem
	}
	values := make([]objtree.Expression, len(n.Elems))
	elemType := elemExpected
	for i, el := range n.Elems {
		values[i] = r.expr(el, ctx, elemExpected)
		if elemType.Kind == typeregister.Invalid {
			elemType = values[i].Type()
		}
	}
	for i := range values {
		values[i] = r.convert(values[i], elemType, n.Elems[i])
	}
	return &objtree.Array{ElemType: elemType, Values: values}
}

func (r *resolver) object(n *parse.ObjectLit, ctx *lookupCtx, expected typeregister.Type) objtree.Expression {
	values := make(map[string]objtree.Expression, len(n.Fields))
	var fields []typeregister.Field
	for _, f := range n.Fields {
		if _, dup := values[f.Name.Name]; dup {
			r.errorf(f.Name, "Duplicated field '%s'", f.Name.Name)
			continue
		}
		fieldExpected, _ := expected.Field(f.Name.Name)
		v := r.expr(f.Value, ctx, fieldExpected)
		values[f.Name.Name] = v
		fields = append(fields, typeregister.Field{Name: f.Name.Name, Type: v.Type()})
	}
	return &objtree.Object{Typ: typeregister.ObjectOf(fields...), Values: values}
}

var assignOps = map[string]byte{"=": '=', "+=": '+', "-=": '-', "*=": '*', "/=": '/'}

func (r *resolver) assignment(n *parse.Assignment, ctx *lookupCtx) objtree.Expression {
	if !ctx.inHandler {
		return r.errorf(n, "Assignments are only allowed in signal handlers")
	}
	lhs := r.expr(n.LHS, ctx, typeregister.InvalidType)
	if objtree.IsInvalid(lhs) {
		return lhs
	}
	if _, ok := lhs.(*objtree.PropertyReference); !ok {
		return r.errorf(n.LHS, "Assignment needs to be done on a property")
	}
	op := assignOps[n.Op]
	lt := lhs.Type()
	switch {
	case op == '=':
	case op == '+' && lt.Kind == typeregister.String:
	case !lt.IsNumber():
		return r.errorf(n, "The %s operator cannot be used on a property of type %s", n.Op, lt)
	}
	rhs := r.convert(r.expr(n.RHS, ctx, lt), lt, n.RHS)
	return &objtree.SelfAssignment{LHS: lhs, RHS: rhs, Op: op}
}

func (r *resolver) codeBlock(n *parse.CodeBlock, ctx *lookupCtx, expected typeregister.Type) objtree.Expression {
	stmts := make([]objtree.Expression, len(n.Stmts))
	for i, s := range n.Stmts {
		exp := typeregister.InvalidType
		if i == len(n.Stmts)-1 {
			exp = expected
		}
		stmts[i] = r.expr(s, ctx, exp)
	}
	return &objtree.CodeBlock{Stmts: stmts}
}
