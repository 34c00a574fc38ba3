package passes

import (
	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

// LowerStates turns states into bindings. An element with states gets an
// int current_state property: 0 when no state is active, otherwise the
// 1-based index of the first state whose condition holds. Each property
// changed by a state gets a conditional binding on current_state, falling
// back to its previous binding. Transitions become state transition
// animations on the animated properties.
func LowerStates(c *objtree.Component, diags *diag.BuildDiagnostics) {
	objtree.VisitElements(c.RootElement, func(e *objtree.Element) {
		if len(e.States) > 0 || len(e.Transitions) > 0 {
			lowerStatesOf(e, diags)
		}
	})
}

func currentState(e *objtree.Element) objtree.Expression {
	return propRef(e, "current_state", typeregister.Int32Type)
}

func isState(e *objtree.Element, index int) objtree.Expression {
	return binary(currentState(e), "==",
		&objtree.NumberLiteral{Value: float64(index), Typ: typeregister.Int32Type})
}

type stateValue struct {
	index int
	expr  objtree.Expression
}

func lowerStatesOf(e *objtree.Element, diags *diag.BuildDiagnostics) {
	defer func() { e.States, e.Transitions = nil, nil }()
	if _, ok := e.LookupProperty("current_state"); ok {
		errorf(diags, e.Span, "Cannot use states in an element with a current_state property")
		return
	}
	e.PropertyDeclarations["current_state"] = &objtree.PropertyDeclaration{
		Type: typeregister.Int32Type, Span: e.Span}

	var selector objtree.Expression = &objtree.NumberLiteral{Value: 0, Typ: typeregister.Int32Type}
	for i := len(e.States) - 1; i >= 0; i-- {
		s := e.States[i]
		if s.Condition == nil || objtree.IsInvalid(s.Condition) {
			continue
		}
		selector = &objtree.Condition{
			Cond:      s.Condition,
			TrueExpr:  &objtree.NumberLiteral{Value: float64(i + 1), Typ: typeregister.Int32Type},
			FalseExpr: selector,
		}
	}
	e.Bindings["current_state"] = &objtree.Binding{Expression: selector, Span: e.Span}

	var order []objtree.NamedReference
	values := make(map[objtree.NamedReference][]stateValue)
	spans := make(map[objtree.NamedReference]diag.Span)
	for i, s := range e.States {
		for _, change := range s.Changes {
			if change.Target.Element == nil {
				continue
			}
			if _, seen := values[change.Target]; !seen {
				order = append(order, change.Target)
				spans[change.Target] = change.Span
			}
			values[change.Target] = append(values[change.Target], stateValue{i + 1, change.Expr})
		}
	}
	for _, target := range order {
		typ, _ := target.Element.LookupProperty(target.Name)
		var result objtree.Expression
		if b, ok := target.Element.Bindings[target.Name]; ok {
			result = b.Expression
		} else {
			result = objtree.ZeroValue(typ)
		}
		vs := values[target]
		for i := len(vs) - 1; i >= 0; i-- {
			result = &objtree.Condition{Cond: isState(e, vs[i].index), TrueExpr: vs[i].expr, FalseExpr: result}
		}
		target.Element.Bindings[target.Name] = &objtree.Binding{Expression: result, Span: spans[target]}
	}

	indexes := make(map[string]int)
	for i, s := range e.States {
		indexes[s.ID] = i + 1
	}
	for _, t := range e.Transitions {
		index, ok := indexes[t.StateID]
		if !ok {
			errorf(diags, t.Span, "State '%s' does not exist", t.StateID)
			continue
		}
		for _, a := range t.Animations {
			for _, target := range a.Targets {
				anims := target.Element.PropertyAnimations
				pa := anims[target.Name]
				if pa == nil {
					pa = &objtree.PropertyAnimation{}
					anims[target.Name] = pa
				}
				if pa.Transition == nil {
					pa.Transition = &objtree.StateTransitionAnimations{State: currentState(e)}
				}
				pa.Transition.Animations = append(pa.Transition.Animations,
					objtree.StateAnimation{StateIndex: index, Out: t.Out, Animation: a.Animation})
			}
		}
	}
}
