package objtree

import (
	"fmt"

	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/parse"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

var reservedIDs = map[string]bool{"root": true, "parent": true, "self": true}

// FromNode builds a Document from a syntax tree. Expressions are kept
// Uncompiled. Problems are reported to fd and never stop the build: the
// returned document is always usable by the passes.
func FromNode(node *parse.Document, fd *diag.FileDiagnostics, parent *typeregister.TypeRegister) *Document {
	doc := &Document{LocalRegistry: typeregister.NewScope(parent), File: fd.File}
	if node == nil {
		return doc
	}
	seen := make(map[string]bool)
	for _, cn := range node.Components {
		if cn == nil || cn.ID == nil || cn.Root == nil {
			continue
		}
		if seen[cn.ID.Name] {
			fd.PushError(fmt.Sprintf("Duplicated component '%s'", cn.ID.Name), cn.ID)
		}
		seen[cn.ID.Name] = true
		c := &Component{ID: cn.ID.Name, File: fd.File}
		b := &builder{fd: fd, reg: doc.LocalRegistry, comp: c, ids: make(map[string]bool)}
		c.RootElement = b.buildElement(cn.Root, true)
		doc.Components = append(doc.Components, c)
		doc.LocalRegistry.AddComponent(c)
	}
	if n := len(doc.Components); n > 0 {
		doc.Root = doc.Components[n-1]
	}
	return doc
}

type builder struct {
	fd   *diag.FileDiagnostics
	reg  *typeregister.TypeRegister
	comp *Component
	ids  map[string]bool
}

func (b *builder) span(r diag.Ranger) diag.Span { return diag.SpanOf(b.fd.File, r) }

func (b *builder) errorf(r diag.Ranger, format string, args ...any) {
	b.fd.PushError(fmt.Sprintf(format, args...), r)
}

func (b *builder) uncompiled(e parse.Expr) Expression {
	if e == nil {
		return &Invalid{typeregister.InvalidType}
	}
	return &Uncompiled{e, b.span(e)}
}

func (b *builder) buildElement(n *parse.Element, isRoot bool) *Element {
	base := typeregister.InvalidType
	if n.Base != nil {
		t, err := b.reg.LookupElement(n.Base.String())
		if err != nil {
			b.fd.PushError(err.Error(), n.Base)
		} else if t.Kind == typeregister.Builtin && t.Builtin.Kind == typeregister.AnimationKind {
			b.errorf(n.Base, "%s can only be used in animate blocks", t.Builtin.Name)
		} else {
			base = t
		}
	}
	e := NewElement(base, b.comp, b.span(n))

	for _, d := range n.PropertyDeclarations {
		if d.Name == nil || d.Type == nil {
			continue
		}
		typ := b.reg.LookupType(d.Type.String())
		if !typ.IsPropertyType() {
			b.errorf(d.Type, "Unknown property type '%s'", d.Type.String())
			typ = typeregister.InvalidType
		}
		if b.declare(e, d.Name, typ, isRoot) && d.Expr != nil {
			e.Bindings[d.Name.Name] = &Binding{b.uncompiled(d.Expr), b.span(d)}
		}
	}
	for _, d := range n.SignalDeclarations {
		if d.Name != nil {
			b.declare(e, d.Name, typeregister.SignalType, isRoot)
		}
	}

	for _, bn := range n.Bindings {
		if bn.Name == nil {
			continue
		}
		name := bn.Name.Name
		t, ok := e.LookupProperty(name)
		switch {
		case !ok && base.Kind != typeregister.Invalid:
			b.errorf(bn.Name, "Unknown property %s in %s", name, base)
			continue
		case t.Kind == typeregister.Signal:
			b.errorf(bn.Name, "'%s' is a signal. Use `=>` to connect", name)
			continue
		}
		b.bind(e, bn.Name, bn.Expr, b.span(bn))
	}
	for _, sc := range n.SignalConnections {
		if sc.Name == nil {
			continue
		}
		name := sc.Name.Name
		t, ok := e.LookupProperty(name)
		if !ok && base.Kind != typeregister.Invalid {
			b.errorf(sc.Name, "Unknown signal %s in %s", name, base)
			continue
		} else if ok && t.Kind != typeregister.Signal {
			b.errorf(sc.Name, "'%s' is not a signal in %s", name, base)
			continue
		}
		var body parse.Expr
		if sc.Body != nil {
			body = sc.Body
		}
		b.bind(e, sc.Name, body, b.span(sc))
	}

	for _, sub := range n.Children {
		if sub == nil || sub.Element == nil {
			continue
		}
		child := b.buildElement(sub.Element, false)
		if sub.ID != nil {
			id := sub.ID.Name
			switch {
			case reservedIDs[id]:
				b.errorf(sub.ID, "Invalid element id '%s'", id)
			case b.ids[id]:
				b.errorf(sub.ID, "Duplicated element id '%s'", id)
			default:
				b.ids[id] = true
				child.ID = id
			}
		}
		if r := sub.Repeated; r != nil {
			child.Repeated = &RepeatedElementInfo{Model: b.uncompiled(r.Model)}
			if r.ModelID != nil {
				child.Repeated.ModelDataID = r.ModelID.Name
			}
			if r.IndexID != nil {
				child.Repeated.IndexID = r.IndexID.Name
			}
		} else if sub.Condition != nil {
			child.Repeated = &RepeatedElementInfo{Model: b.uncompiled(sub.Condition), IsConditional: true}
		}
		e.Children = append(e.Children, child)
	}

	stateIDs := make(map[string]bool)
	for _, s := range n.States {
		if s.ID == nil {
			continue
		}
		if stateIDs[s.ID.Name] {
			b.errorf(s.ID, "Duplicated state '%s'", s.ID.Name)
			continue
		}
		stateIDs[s.ID.Name] = true
		st := &State{ID: s.ID.Name, Span: b.span(s)}
		if s.Condition != nil {
			st.Condition = b.uncompiled(s.Condition)
		}
		for _, c := range s.Changes {
			if c.Target == nil {
				continue
			}
			st.Changes = append(st.Changes, &StateChange{
				Path: pathOf(c.Target), Expr: b.uncompiled(c.Expr), Span: b.span(c)})
		}
		e.States = append(e.States, st)
	}
	for _, t := range n.Transitions {
		if t.State == nil {
			continue
		}
		tr := &Transition{Out: t.Out, StateID: t.State.Name, Span: b.span(t)}
		for _, pa := range t.Animations {
			ta := &TransitionAnimation{Animation: b.buildAnimation(pa), Span: b.span(pa)}
			for _, target := range pa.Targets {
				ta.Paths = append(ta.Paths, pathOf(target))
			}
			tr.Animations = append(tr.Animations, ta)
		}
		e.Transitions = append(e.Transitions, tr)
	}

	for _, pa := range n.PropertyAnimations {
		anim := b.buildAnimation(pa)
		for _, target := range pa.Targets {
			if len(target.Parts) != 1 {
				b.errorf(target, "Can only animate properties of the same element")
				continue
			}
			name := target.Parts[0].Name
			t, ok := e.LookupProperty(name)
			switch {
			case !ok:
				if base.Kind != typeregister.Invalid {
					b.errorf(target, "Unknown property '%s'", name)
				}
				continue
			case !t.IsPropertyType():
				b.errorf(target, "Cannot animate '%s'", name)
				continue
			case e.PropertyAnimations[name] != nil:
				b.errorf(target, "Duplicated animation for '%s'", name)
				continue
			}
			e.PropertyAnimations[name] = &PropertyAnimation{Static: anim}
		}
	}
	return e
}

// declare adds a declaration, reporting conflicts. It reports whether the
// declaration was added.
func (b *builder) declare(e *Element, name *parse.Ident, typ typeregister.Type, expose bool) bool {
	if e.PropertyDeclarations[name.Name] != nil {
		b.errorf(name, "Duplicated property declaration '%s'", name.Name)
		return false
	}
	if _, ok := e.Base.LookupProperty(name.Name); ok {
		b.errorf(name, "Cannot override property '%s'", name.Name)
		return false
	}
	e.PropertyDeclarations[name.Name] = &PropertyDeclaration{typ, expose, b.span(name)}
	return true
}

func (b *builder) bind(e *Element, name *parse.Ident, expr parse.Expr, span diag.Span) {
	if e.Bindings[name.Name] != nil {
		b.errorf(name, "Duplicated property binding '%s'", name.Name)
		return
	}
	e.Bindings[name.Name] = &Binding{b.uncompiled(expr), span}
}

func (b *builder) buildAnimation(pa *parse.PropertyAnimation) *Element {
	base := typeregister.BuiltinOf(typeregister.LookupBuiltin("PropertyAnimation"))
	anim := NewElement(base, b.comp, b.span(pa))
	for _, bn := range pa.Bindings {
		if bn.Name == nil {
			continue
		}
		if _, ok := base.LookupProperty(bn.Name.Name); !ok {
			b.errorf(bn.Name, "Unknown property %s in PropertyAnimation", bn.Name.Name)
			continue
		}
		b.bind(anim, bn.Name, bn.Expr, b.span(bn))
	}
	return anim
}

func pathOf(qn *parse.QualifiedName) []string {
	path := make([]string, len(qn.Parts))
	for i, p := range qn.Parts {
		path[i] = p.Name
	}
	return path
}
