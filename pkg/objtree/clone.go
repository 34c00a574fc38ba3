package objtree

// Cloner deep-copies element trees. References to elements that have been
// copied are redirected to their copies; other references are kept.
type Cloner struct {
	// Mapping maps original elements to their copies.
	Mapping map[*Element]*Element
	// Component becomes the EnclosingComponent of the copies.
	Component *Component
}

// NewCloner returns a Cloner whose copies belong to c.
func NewCloner(c *Component) *Cloner {
	return &Cloner{make(map[*Element]*Element), c}
}

// CloneTree copies root and its descendants. All copies are created before
// any expression is copied, so references between elements of the tree are
// redirected regardless of their direction.
func (cl *Cloner) CloneTree(root *Element) *Element {
	copied := cl.cloneStructure(root)
	VisitElements(root, func(orig *Element) { cl.fill(orig, cl.Mapping[orig]) })
	return copied
}

func (cl *Cloner) cloneStructure(orig *Element) *Element {
	e := NewElement(orig.Base, cl.Component, orig.Span)
	e.ID = orig.ID
	e.Index = orig.Index
	cl.Mapping[orig] = e
	for _, child := range orig.Children {
		e.Children = append(e.Children, cl.cloneStructure(child))
	}
	return e
}

func (cl *Cloner) fill(orig, e *Element) {
	for name, b := range orig.Bindings {
		e.Bindings[name] = &Binding{cl.Expr(b.Expression), b.Span}
	}
	for name, d := range orig.PropertyDeclarations {
		copied := *d
		e.PropertyDeclarations[name] = &copied
	}
	if r := orig.Repeated; r != nil {
		e.Repeated = &RepeatedElementInfo{cl.Expr(r.Model), r.ModelDataID, r.IndexID, r.IsConditional}
	}
	for _, s := range orig.States {
		ns := &State{ID: s.ID, Span: s.Span}
		if s.Condition != nil {
			ns.Condition = cl.Expr(s.Condition)
		}
		for _, c := range s.Changes {
			ns.Changes = append(ns.Changes, &StateChange{c.Path, cl.Ref(c.Target), cl.Expr(c.Expr), c.Span})
		}
		e.States = append(e.States, ns)
	}
	for _, t := range orig.Transitions {
		nt := &Transition{Out: t.Out, StateID: t.StateID, Span: t.Span}
		for _, a := range t.Animations {
			na := &TransitionAnimation{Paths: a.Paths, Animation: cl.animation(a.Animation), Span: a.Span}
			for _, target := range a.Targets {
				na.Targets = append(na.Targets, cl.Ref(target))
			}
			nt.Animations = append(nt.Animations, na)
		}
		e.Transitions = append(e.Transitions, nt)
	}
	for name, anim := range orig.PropertyAnimations {
		na := &PropertyAnimation{Static: cl.animation(anim.Static)}
		if tr := anim.Transition; tr != nil {
			nt := &StateTransitionAnimations{State: cl.Expr(tr.State)}
			for _, a := range tr.Animations {
				nt.Animations = append(nt.Animations, StateAnimation{a.StateIndex, a.Out, cl.animation(a.Animation)})
			}
			na.Transition = nt
		}
		e.PropertyAnimations[name] = na
	}
}

func (cl *Cloner) animation(orig *Element) *Element {
	if orig == nil {
		return nil
	}
	e := NewElement(orig.Base, cl.Component, orig.Span)
	cl.fill(orig, e)
	return e
}

// Element returns the copy of e, or e itself when it has not been copied.
func (cl *Cloner) Element(e *Element) *Element {
	if copied, ok := cl.Mapping[e]; ok {
		return copied
	}
	return e
}

// Ref redirects a reference to the copied element.
func (cl *Cloner) Ref(r NamedReference) NamedReference {
	return NamedReference{cl.Element(r.Element), r.Name}
}

// Expr deep-copies an expression, redirecting its references.
func (cl *Cloner) Expr(e Expression) Expression {
	switch e := e.(type) {
	case nil:
		return nil
	case *PropertyReference:
		return &PropertyReference{cl.Ref(e.Ref), e.Typ}
	case *SignalReference:
		return &SignalReference{cl.Ref(e.Ref)}
	case *RepeaterIndexReference:
		return &RepeaterIndexReference{cl.Element(e.Element)}
	case *RepeaterModelReference:
		return &RepeaterModelReference{cl.Element(e.Element), e.Typ}
	case *ObjectAccess:
		return &ObjectAccess{cl.Expr(e.Base), e.Name, e.Typ}
	case *FunctionCall:
		return &FunctionCall{cl.Expr(e.Function)}
	case *BuiltinFunctionCall:
		return &BuiltinFunctionCall{e.Function, cl.exprs(e.Args), e.Typ}
	case *SelfAssignment:
		return &SelfAssignment{cl.Expr(e.LHS), cl.Expr(e.RHS), e.Op}
	case *BinaryExpression:
		return &BinaryExpression{cl.Expr(e.LHS), cl.Expr(e.RHS), e.Op, e.Typ}
	case *UnaryOp:
		return &UnaryOp{cl.Expr(e.Sub), e.Op}
	case *Condition:
		return &Condition{cl.Expr(e.Cond), cl.Expr(e.TrueExpr), cl.Expr(e.FalseExpr)}
	case *Array:
		return &Array{e.ElemType, cl.exprs(e.Values)}
	case *Object:
		values := make(map[string]Expression, len(e.Values))
		for k, v := range e.Values {
			values[k] = cl.Expr(v)
		}
		return &Object{e.Typ, values}
	case *Cast:
		return &Cast{cl.Expr(e.From), e.To}
	case *CodeBlock:
		return &CodeBlock{cl.exprs(e.Stmts)}
	case *PathElements:
		elems := make([]*PathElement, len(e.Elements))
		for i, pe := range e.Elements {
			bindings := make(map[string]Expression, len(pe.Bindings))
			for k, v := range pe.Bindings {
				bindings[k] = cl.Expr(v)
			}
			elems[i] = &PathElement{pe.Kind, bindings}
		}
		return &PathElements{elems}
	case *ResourceReference:
		copied := *e
		return &copied
	case *Invalid:
		copied := *e
		return &copied
	case *Uncompiled:
		copied := *e
		return &copied
	}
	// Remaining expressions are immutable literals and can be shared.
	return e
}

func (cl *Cloner) exprs(es []Expression) []Expression {
	if es == nil {
		return nil
	}
	copied := make([]Expression, len(es))
	for i, e := range es {
		copied[i] = cl.Expr(e)
	}
	return copied
}

// Inline merges a copy of root, the root element of a component, into
// target, an element using that component. Target takes the base of root,
// its declarations and the bindings and animations it does not set itself;
// copies of the children of root come before the children of target.
// References to root are redirected to target.
func (cl *Cloner) Inline(root, target *Element) {
	cl.Mapping[root] = target
	var children []*Element
	for _, child := range root.Children {
		children = append(children, cl.cloneStructure(child))
	}
	merged := NewElement(root.Base, cl.Component, root.Span)
	cl.fill(root, merged)
	for _, child := range root.Children {
		VisitElements(child, func(orig *Element) { cl.fill(orig, cl.Mapping[orig]) })
	}

	target.Base = root.Base
	for name, d := range merged.PropertyDeclarations {
		if _, ok := target.PropertyDeclarations[name]; !ok {
			d.Expose = false
			target.PropertyDeclarations[name] = d
		}
	}
	for name, b := range merged.Bindings {
		if _, ok := target.Bindings[name]; !ok {
			target.Bindings[name] = b
		}
	}
	for name, a := range merged.PropertyAnimations {
		if _, ok := target.PropertyAnimations[name]; !ok {
			target.PropertyAnimations[name] = a
		}
	}
	target.States = append(merged.States, target.States...)
	target.Transitions = append(merged.Transitions, target.Transitions...)
	target.Children = append(children, target.Children...)
}
