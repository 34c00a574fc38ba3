package objtree

import (
	"maps"
	"slices"
)

// VisitElements calls fn on root and its descendants, in pre-order.
func VisitElements(root *Element, fn func(*Element)) {
	if root == nil {
		return
	}
	fn(root)
	for _, child := range root.Children {
		VisitElements(child, fn)
	}
}

// ParentMap maps every element below root to its parent.
func ParentMap(root *Element) map[*Element]*Element {
	parents := make(map[*Element]*Element)
	VisitElements(root, func(e *Element) {
		for _, child := range e.Children {
			parents[child] = e
		}
	})
	return parents
}

// VisitChildren calls fn on each direct sub-expression of e. fn may replace
// the sub-expression through the pointer.
func VisitChildren(e Expression, fn func(*Expression)) {
	switch e := e.(type) {
	case *ObjectAccess:
		fn(&e.Base)
	case *FunctionCall:
		fn(&e.Function)
	case *BuiltinFunctionCall:
		for i := range e.Args {
			fn(&e.Args[i])
		}
	case *SelfAssignment:
		fn(&e.LHS)
		fn(&e.RHS)
	case *BinaryExpression:
		fn(&e.LHS)
		fn(&e.RHS)
	case *UnaryOp:
		fn(&e.Sub)
	case *Condition:
		fn(&e.Cond)
		fn(&e.TrueExpr)
		fn(&e.FalseExpr)
	case *Array:
		for i := range e.Values {
			fn(&e.Values[i])
		}
	case *Object:
		for _, name := range sortedKeys(e.Values) {
			v := e.Values[name]
			fn(&v)
			e.Values[name] = v
		}
	case *Cast:
		fn(&e.From)
	case *CodeBlock:
		for i := range e.Stmts {
			fn(&e.Stmts[i])
		}
	case *PathElements:
		for _, pe := range e.Elements {
			for _, name := range sortedKeys(pe.Bindings) {
				v := pe.Bindings[name]
				fn(&v)
				pe.Bindings[name] = v
			}
		}
	}
}

// Walk calls fn on e and all its sub-expressions, in pre-order.
func Walk(e Expression, fn func(Expression)) {
	if e == nil {
		return
	}
	fn(e)
	VisitChildren(e, func(sub *Expression) { Walk(*sub, fn) })
}

// VisitExpressions calls fn on every expression slot of the element: its
// bindings, repeater model, states, transitions and animations. It does not
// descend into children.
func VisitExpressions(e *Element, fn func(*Expression)) {
	for _, name := range e.BindingNames() {
		fn(&e.Bindings[name].Expression)
	}
	if e.Repeated != nil && e.Repeated.Model != nil {
		fn(&e.Repeated.Model)
	}
	for _, s := range e.States {
		if s.Condition != nil {
			fn(&s.Condition)
		}
		for _, c := range s.Changes {
			fn(&c.Expr)
		}
	}
	for _, t := range e.Transitions {
		for _, a := range t.Animations {
			VisitExpressions(a.Animation, fn)
		}
	}
	for _, name := range sortedKeys(e.PropertyAnimations) {
		anim := e.PropertyAnimations[name]
		if anim.Static != nil {
			VisitExpressions(anim.Static, fn)
		}
		if tr := anim.Transition; tr != nil {
			fn(&tr.State)
			for _, a := range tr.Animations {
				VisitExpressions(a.Animation, fn)
			}
		}
	}
}

// VisitAllExpressions calls fn on every expression slot of every element
// of the tree rooted at root.
func VisitAllExpressions(root *Element, fn func(*Expression)) {
	VisitElements(root, func(e *Element) { VisitExpressions(e, fn) })
}

// VisitNamedReferences calls fn on every NamedReference held by the element:
// those in its expressions (recursively), state change targets and
// transition targets.
func VisitNamedReferences(e *Element, fn func(*NamedReference)) {
	VisitExpressions(e, func(slot *Expression) {
		Walk(*slot, func(sub Expression) {
			switch sub := sub.(type) {
			case *PropertyReference:
				fn(&sub.Ref)
			case *SignalReference:
				fn(&sub.Ref)
			}
		})
	})
	for _, s := range e.States {
		for _, c := range s.Changes {
			fn(&c.Target)
		}
	}
	for _, t := range e.Transitions {
		for _, a := range t.Animations {
			for i := range a.Targets {
				fn(&a.Targets[i])
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
