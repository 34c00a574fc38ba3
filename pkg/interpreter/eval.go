package interpreter

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/property"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
	"github.com/patrickelectric/sixtyfps/pkg/vals"
)

var errUncompiled = errors.New("expression was not compiled")

// eval evaluates an expression in the context of the box. Property reads
// are recorded in t, which is the tracker of the property being computed,
// or nil outside of bindings.
func (b *ComponentBox) eval(e objtree.Expression, t *property.Tracker) (vals.Value, error) {
	switch e := e.(type) {
	case nil:
		return nil, nil
	case *objtree.Invalid:
		return vals.Zero(e.Typ), nil
	case *objtree.Uncompiled:
		return nil, errUncompiled
	case *objtree.StringLiteral:
		return e.Value, nil
	case *objtree.NumberLiteral:
		return e.Value, nil
	case *objtree.BoolLiteral:
		return e.Value, nil
	case *objtree.ColorLiteral:
		return e.Color, nil
	case *objtree.EnumValue:
		return e.Value, nil
	case *objtree.EasingCurve:
		return e.Curve, nil
	case *objtree.ResourceReference:
		return b.resource(e), nil
	case *objtree.PropertyReference:
		c, err := b.cell(e.Ref)
		if err != nil {
			return nil, err
		}
		return c.get(t)
	case *objtree.SignalReference:
		return nil, nil
	case *objtree.RepeaterIndexReference:
		return b.repeaterValue(e.Element, t, func(d *ComponentDescription) *Field { return d.index })
	case *objtree.RepeaterModelReference:
		return b.repeaterValue(e.Element, t, func(d *ComponentDescription) *Field { return d.modelData })
	case *objtree.ObjectAccess:
		base, err := b.eval(e.Base, t)
		if err != nil {
			return nil, err
		}
		if o, ok := base.(vals.Object); ok {
			if v, ok := o[e.Name]; ok {
				return v, nil
			}
		}
		return vals.Zero(e.Typ), nil
	case *objtree.FunctionCall:
		ref, ok := e.Function.(*objtree.SignalReference)
		if !ok {
			return nil, fmt.Errorf("cannot call %T", e.Function)
		}
		sig, err := b.signal(ref.Ref)
		if err != nil {
			return nil, err
		}
		sig.Emit()
		return nil, nil
	case *objtree.BuiltinFunctionCall:
		return b.callBuiltin(e, t)
	case *objtree.SelfAssignment:
		return nil, b.assign(e)
	case *objtree.BinaryExpression:
		return b.binary(e, t)
	case *objtree.UnaryOp:
		v, err := b.eval(e.Sub, t)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case "!":
			return !truthy(v), nil
		case "-":
			return -number(v), nil
		}
		return number(v), nil
	case *objtree.Condition:
		cond, err := b.eval(e.Cond, t)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return b.eval(e.TrueExpr, t)
		}
		return b.eval(e.FalseExpr, t)
	case *objtree.Array:
		a := make([]vals.Value, len(e.Values))
		for i, sub := range e.Values {
			v, err := b.eval(sub, t)
			if err != nil {
				return nil, err
			}
			a[i] = v
		}
		return a, nil
	case *objtree.Object:
		o := make(vals.Object, len(e.Values))
		for name, sub := range e.Values {
			v, err := b.eval(sub, t)
			if err != nil {
				return nil, err
			}
			o[name] = v
		}
		return o, nil
	case *objtree.Cast:
		v, err := b.eval(e.From, t)
		if err != nil {
			return nil, err
		}
		return vals.Convert(v, e.To)
	case *objtree.CodeBlock:
		var last vals.Value
		for _, stmt := range e.Stmts {
			v, err := b.eval(stmt, t)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil
	case *objtree.PathElements:
		return b.pathElements(e, t)
	case *objtree.PathData:
		return e.Data, nil
	}
	return nil, fmt.Errorf("cannot evaluate %T", e)
}

func truthy(v vals.Value) bool {
	b, _ := v.(bool)
	return b
}

func number(v vals.Value) float64 {
	f, _ := v.(float64)
	return f
}

func (b *ComponentBox) resource(e *objtree.ResourceReference) graphics.Resource {
	data := e.Data
	if data == nil {
		data = b.desc.component.EmbeddedResources[e.Path]
	}
	if data != nil {
		return graphics.Resource{Kind: graphics.EmbeddedResource, Path: e.Path, Data: data}
	}
	return graphics.Resource{Kind: graphics.FileResource, Path: e.Path}
}

func (b *ComponentBox) binary(e *objtree.BinaryExpression, t *property.Tracker) (vals.Value, error) {
	lhs, err := b.eval(e.LHS, t)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "&&":
		if !truthy(lhs) {
			return false, nil
		}
		rhs, err := b.eval(e.RHS, t)
		return truthy(rhs), err
	case "||":
		if truthy(lhs) {
			return true, nil
		}
		rhs, err := b.eval(e.RHS, t)
		return truthy(rhs), err
	}
	rhs, err := b.eval(e.RHS, t)
	if err != nil {
		return nil, err
	}
	return applyOp(e.Op, lhs, rhs, e.Typ)
}

func applyOp(op string, lhs, rhs vals.Value, typ typeregister.Type) (vals.Value, error) {
	switch op {
	case "==":
		return vals.Equal(lhs, rhs), nil
	case "!=":
		return !vals.Equal(lhs, rhs), nil
	}
	if typ.Kind == typeregister.String {
		if op != "+" {
			return nil, fmt.Errorf("operator %s on strings", op)
		}
		return vals.ToString(lhs) + vals.ToString(rhs), nil
	}
	l, r := number(lhs), number(rhs)
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		return l / r, nil
	case "<":
		return l < r, nil
	case ">":
		return l > r, nil
	case "<=":
		return l <= r, nil
	case ">=":
		return l >= r, nil
	}
	return nil, fmt.Errorf("unknown operator %s", op)
}

func (b *ComponentBox) callBuiltin(e *objtree.BuiltinFunctionCall, t *property.Tracker) (vals.Value, error) {
	args := make([]vals.Value, len(e.Args))
	for i, arg := range e.Args {
		v, err := b.eval(arg, t)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	switch e.Function {
	case objtree.FuncMin, objtree.FuncMax:
		result := number(args[0])
		for _, arg := range args[1:] {
			if e.Function == objtree.FuncMin {
				result = math.Min(result, number(arg))
			} else {
				result = math.Max(result, number(arg))
			}
		}
		return result, nil
	case objtree.FuncAbs:
		return math.Abs(number(args[0])), nil
	case objtree.FuncRound:
		return math.Round(number(args[0])), nil
	case objtree.FuncDebug:
		reprs := make([]string, len(args))
		for i, arg := range args {
			reprs[i] = vals.Repr(arg)
		}
		logger.Println("debug:", strings.Join(reprs, " "))
		return nil, nil
	}
	return nil, fmt.Errorf("unknown builtin function %s", e.Function)
}

// assign runs an assignment in a signal handler. The property loses its
// binding; the change is animated if the property has an animation.
func (b *ComponentBox) assign(e *objtree.SelfAssignment) error {
	ref, ok := e.LHS.(*objtree.PropertyReference)
	if !ok {
		return fmt.Errorf("cannot assign to %T", e.LHS)
	}
	c, err := b.cell(ref.Ref)
	if err != nil {
		return err
	}
	v, err := b.eval(e.RHS, nil)
	if err != nil {
		return err
	}
	if e.Op != '=' {
		old, err := c.get(nil)
		if err != nil {
			return err
		}
		v, err = applyOp(string(e.Op), old, v, ref.Typ)
		if err != nil {
			return err
		}
		if ref.Typ.Kind == typeregister.Int32 {
			v = math.Trunc(v.(float64))
		}
	}
	owner, err := b.ownerOf(ref.Ref.Element)
	if err != nil {
		return err
	}
	return c.set(v, owner.animationFor(ref.Ref.Element, ref.Ref.Name))
}

func (b *ComponentBox) pathElements(e *objtree.PathElements, t *property.Tracker) (vals.Value, error) {
	data := graphics.PathData{Elements: make([]graphics.PathElement, len(e.Elements))}
	for i, pe := range e.Elements {
		el := graphics.PathElement{Kind: pe.Kind}
		for name, expr := range pe.Bindings {
			v, err := b.eval(expr, t)
			if err != nil {
				return nil, err
			}
			f, flag := float32(number(v)), truthy(v)
			switch name {
			case "x":
				el.X = f
			case "y":
				el.Y = f
			case "control_x", "control_1_x":
				el.ControlX = f
			case "control_y", "control_1_y":
				el.ControlY = f
			case "control_2_x":
				el.Control2X = f
			case "control_2_y":
				el.Control2Y = f
			case "radius_x":
				el.RadiusX = f
			case "radius_y":
				el.RadiusY = f
			case "x_rotation":
				el.XRotation = f
			case "large_arc":
				el.LargeArc = flag
			case "sweep":
				el.Sweep = flag
			}
		}
		data.Elements[i] = el
	}
	return data, nil
}
