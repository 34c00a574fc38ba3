package interpreter

import (
	"fmt"
	"reflect"
	"time"

	"github.com/patrickelectric/sixtyfps/pkg/animation"
	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/items"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/property"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
	"github.com/patrickelectric/sixtyfps/pkg/vals"
)

// ComponentDescription is a lowered component together with the layout of
// its instances. It is immutable and can be shared.
type ComponentDescription struct {
	component *objtree.Component
	layout    *Layout
	// Elements of the component tree, in pre-order.
	elements   []*objtree.Element
	properties map[string]*Field
	signals    map[string]*Field
	items      map[*objtree.Element]*Field
	repeaters  map[*objtree.Element]*Field
	nested     map[*objtree.Element]*Field
	// Set for components extracted from repeated elements.
	modelData, index *Field
	subs             map[*objtree.Element]*ComponentDescription
}

var (
	valuePropertyType = reflect.TypeFor[property.Property[vals.Value]]()
	signalType        = reflect.TypeFor[property.Signal]()
	repeaterType      = reflect.TypeFor[repeater]()
	nestedType        = reflect.TypeFor[nestedComponent]()
)

// newDescription builds the description of a lowered component. cache
// holds the descriptions built so far, so that a nested component used in
// several places gets a single description.
func newDescription(c *objtree.Component, cache map[*objtree.Component]*ComponentDescription) *ComponentDescription {
	if d, ok := cache[c]; ok {
		return d
	}
	d := &ComponentDescription{
		component:  c,
		layout:     &Layout{},
		properties: make(map[string]*Field),
		signals:    make(map[string]*Field),
		items:      make(map[*objtree.Element]*Field),
		repeaters:  make(map[*objtree.Element]*Field),
		nested:     make(map[*objtree.Element]*Field),
		subs:       make(map[*objtree.Element]*ComponentDescription),
	}
	cache[c] = d
	l := d.layout
	root := c.RootElement

	for _, name := range root.DeclaredNames() {
		typ := root.PropertyDeclarations[name].Type
		if typ.Kind == typeregister.Signal {
			d.signals[name] = l.add(name, signalField, signalType, nil, nil)
			continue
		}
		d.properties[name] = l.add(name, propertyField, valuePropertyType, valueCtor(typ), detach)
	}
	if c.ParentElement != nil {
		typ := typeregister.InvalidType
		if c.ParentElement.Repeated.Model != nil {
			typ = c.ParentElement.Repeated.Model.Type()
		}
		d.modelData = l.add("model_data", propertyField, valuePropertyType, valueCtor(elemType(typ)), detach)
		d.index = l.add("index", propertyField, valuePropertyType, valueCtor(typeregister.Int32Type), detach)
	}

	objtree.VisitElements(root, func(e *objtree.Element) {
		d.elements = append(d.elements, e)
		switch {
		case e.IsPlaceholder():
			d.repeaters[e] = l.add(e.ID, repeaterField, repeaterType, nil,
				func(p any) { p.(*repeater).destroy() })
			d.subs[e] = newDescription(e.RepeatedComponent(), cache)
		case e.Base.Kind == typeregister.Component:
			sub, ok := e.Base.Component.(*objtree.Component)
			if !ok {
				logger.Printf("%s: unknown component type %T", e.ID, e.Base.Component)
				return
			}
			d.nested[e] = l.add(e.ID, componentField, nestedType, nil,
				func(p any) { p.(*nestedComponent).destroy() })
			d.subs[e] = newDescription(sub, cache)
		case e.Builtin() != nil && e.Builtin().Kind == typeregister.ItemKind:
			name := e.Builtin().Name
			t, ok := items.TypeOf(name)
			if !ok {
				logger.Printf("%s: no item for %s", e.ID, name)
				return
			}
			d.items[e] = l.add(e.ID, itemField, t,
				func() any { item, _ := items.New(name); return item },
				func(p any) { items.Destroy(p.(items.Item)) })
		default:
			logger.Printf("%s: %s is not instantiated", e.ID, e.Base)
		}
	})
	l.finish()
	return d
}

func elemType(model typeregister.Type) typeregister.Type {
	switch model.Kind {
	case typeregister.Array:
		return *model.Elem
	case typeregister.Int32, typeregister.Float32:
		return typeregister.Int32Type
	}
	return typeregister.InvalidType
}

func valueCtor(t typeregister.Type) func() any {
	return func() any { return property.New[vals.Value](vals.Zero(t)) }
}

func detach(p any) { p.(interface{ Detach() }).Detach() }

// ComponentBox is an instance of a component.
type ComponentBox struct {
	desc   *ComponentDescription
	inst   *instance
	parent *ComponentBox
	driver *property.AnimationDriver
	grab   *hit
}

// instantiate creates an instance. All the fields are constructed, then
// init runs, then the bindings are installed. Bindings are evaluated lazily;
// only the models of repeaters are evaluated before returning.
func (d *ComponentDescription) instantiate(parent *ComponentBox, driver *property.AnimationDriver, init func(*ComponentBox)) *ComponentBox {
	b := &ComponentBox{desc: d, inst: d.layout.instantiate(), parent: parent, driver: driver}
	for _, e := range d.elements {
		if f, ok := d.nested[e]; ok {
			n, _ := f.apply(b.inst)
			n.(*nestedComponent).box = d.subs[e].instantiate(b, driver, nil)
		}
	}
	if init != nil {
		init(b)
	}
	for _, e := range d.elements {
		b.installBindings(e)
	}
	for _, e := range d.elements {
		if f, ok := d.repeaters[e]; ok {
			p, _ := f.apply(b.inst)
			r := p.(*repeater)
			r.desc = d.subs[e]
			r.conditional = e.Repeated.IsConditional
			model := e.Repeated.Model
			r.model.SetBinding(func(t *property.Tracker) (vals.Value, error) { return b.eval(model, t) })
			r.update(b)
		}
	}
	return b
}

func (b *ComponentBox) installBindings(e *objtree.Element) {
	for _, name := range e.BindingNames() {
		expr := e.Bindings[name].Expression
		ref := objtree.NamedReference{Element: e, Name: name}
		if typ, _ := e.LookupProperty(name); typ.Kind == typeregister.Signal {
			sig, err := b.signal(ref)
			if err != nil {
				logger.Printf("%s: %v", e.ID, err)
				continue
			}
			sig.SetHandler(func() {
				if _, err := b.eval(expr, nil); err != nil {
					logger.Printf("%s.%s: %v", e.ID, name, err)
				}
			})
			continue
		}
		c, err := b.cell(ref)
		if err != nil {
			logger.Printf("%s: %v", e.ID, err)
			continue
		}
		anim := b.animationFor(e, name)
		if anim == nil && objtree.IsConstant(expr) {
			if v, err := b.eval(expr, nil); err == nil {
				if err := c.set(v, nil); err == nil {
					continue
				}
			}
		}
		c.setBinding(func(t *property.Tracker) (vals.Value, error) { return b.eval(expr, t) }, anim)
	}
}

// ownerOf returns the box holding the element: b or one of its ancestors.
func (b *ComponentBox) ownerOf(e *objtree.Element) (*ComponentBox, error) {
	for box := b; box != nil; box = box.parent {
		if box.desc.component == e.EnclosingComponent {
			return box, nil
		}
	}
	return nil, fmt.Errorf("%w: element %s is not reachable from %s", ErrPropertyNotFound, e.ID, b.desc.component.ID)
}

func (b *ComponentBox) cell(ref objtree.NamedReference) (cell, error) {
	owner, err := b.ownerOf(ref.Element)
	if err != nil {
		return nil, err
	}
	return owner.localCell(ref.Element, ref.Name)
}

// localCell returns a property of an element of the box.
func (b *ComponentBox) localCell(e *objtree.Element, name string) (cell, error) {
	d := b.desc
	if f, ok := d.properties[name]; ok && e == d.component.RootElement {
		p, err := f.apply(b.inst)
		if err != nil {
			return nil, err
		}
		c, _ := cellOf(p)
		return c, nil
	}
	if f, ok := d.items[e]; ok {
		p, err := f.apply(b.inst)
		if err != nil {
			return nil, err
		}
		if ptr, ok := items.Field(p.(items.Item), name); ok {
			if c, ok := cellOf(ptr); ok {
				return c, nil
			}
		}
	}
	if n := b.nestedBox(e); n != nil {
		return n.localCell(n.desc.component.RootElement, name)
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, e.ID, name)
}

func (b *ComponentBox) signal(ref objtree.NamedReference) (*property.Signal, error) {
	owner, err := b.ownerOf(ref.Element)
	if err != nil {
		return nil, err
	}
	return owner.localSignal(ref.Element, ref.Name)
}

func (b *ComponentBox) localSignal(e *objtree.Element, name string) (*property.Signal, error) {
	d := b.desc
	if f, ok := d.signals[name]; ok && e == d.component.RootElement {
		p, err := f.apply(b.inst)
		if err != nil {
			return nil, err
		}
		return p.(*property.Signal), nil
	}
	if f, ok := d.items[e]; ok {
		p, err := f.apply(b.inst)
		if err != nil {
			return nil, err
		}
		if ptr, ok := items.Field(p.(items.Item), name); ok {
			if sig, ok := ptr.(*property.Signal); ok {
				return sig, nil
			}
		}
	}
	if n := b.nestedBox(e); n != nil {
		return n.localSignal(n.desc.component.RootElement, name)
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrSignalNotFound, e.ID, name)
}

func (b *ComponentBox) nestedBox(e *objtree.Element) *ComponentBox {
	f, ok := b.desc.nested[e]
	if !ok {
		return nil
	}
	p, err := f.apply(b.inst)
	if err != nil {
		return nil
	}
	return p.(*nestedComponent).box
}

func (b *ComponentBox) item(e *objtree.Element) items.Item {
	f, ok := b.desc.items[e]
	if !ok {
		return nil
	}
	p, err := f.apply(b.inst)
	if err != nil {
		return nil
	}
	return p.(items.Item)
}

// repeaterValue reads the index or model data of the instance of the
// repeated element e, which is b or one of its ancestors.
func (b *ComponentBox) repeaterValue(e *objtree.Element, t *property.Tracker, field func(*ComponentDescription) *Field) (vals.Value, error) {
	for box := b; box != nil; box = box.parent {
		d := box.desc
		if d.component.RootElement != e || d.modelData == nil {
			continue
		}
		p, err := field(d).apply(box.inst)
		if err != nil {
			return nil, err
		}
		return p.(*property.Property[vals.Value]).Get(t)
	}
	return nil, fmt.Errorf("%w: no repeater instance for %s", ErrPropertyNotFound, e.ID)
}

// animationFor returns the animation of a property of an element of b, or
// nil.
func (b *ComponentBox) animationFor(e *objtree.Element, name string) *animSpec {
	pa := e.PropertyAnimations[name]
	if pa == nil || b.driver == nil {
		return nil
	}
	spec := &animSpec{driver: b.driver}
	tr := pa.Transition
	if tr == nil {
		spec.params = func() (animation.Params, bool) { return b.animationParams(pa.Static), true }
		return spec
	}
	prev, cur := -1, -1
	spec.observe = func(t *property.Tracker) {
		v, err := b.eval(tr.State, t)
		if err != nil {
			return
		}
		if s := int(number(v)); s != cur {
			prev, cur = cur, s
		}
	}
	spec.params = func() (animation.Params, bool) {
		for _, a := range tr.Animations {
			if (!a.Out && a.StateIndex == cur) || (a.Out && a.StateIndex == prev) {
				return b.animationParams(a.Animation), true
			}
		}
		if pa.Static != nil {
			return b.animationParams(pa.Static), true
		}
		return animation.Params{}, false
	}
	return spec
}

// animationParams evaluates the properties of a PropertyAnimation element.
func (b *ComponentBox) animationParams(anim *objtree.Element) animation.Params {
	params := animation.Params{Easing: animation.Linear}
	for _, name := range anim.BindingNames() {
		v, err := b.eval(anim.Bindings[name].Expression, nil)
		if err != nil {
			logger.Printf("animation %s: %v", name, err)
			continue
		}
		switch name {
		case "duration":
			params.Duration = time.Duration(number(v)) * time.Millisecond
		case "loop_count":
			params.LoopCount = int(number(v))
		case "easing":
			if c, ok := v.(animation.Curve); ok {
				params.Easing = c
			}
		}
	}
	return params
}

// Destroy destroys the instance: the fields are destroyed in reverse order,
// and removed from the dependency graph.
func (b *ComponentBox) Destroy() { b.inst.destroy() }

// IsDestroyed reports whether the instance has been destroyed.
func (b *ComponentBox) IsDestroyed() bool { return b.inst.dead }

// Description returns the description the box was created from.
func (b *ComponentBox) Description() *ComponentDescription { return b.desc }

// AnimationDriver returns the driver of the animations of the box.
func (b *ComponentBox) AnimationDriver() *property.AnimationDriver { return b.driver }

// nestedComponent is the field holding the instance of a stateful
// component used by an element.
type nestedComponent struct{ box *ComponentBox }

func (n *nestedComponent) destroy() {
	if n.box != nil {
		n.box.Destroy()
	}
}

// repeater is the field of a repeated element. It owns the instances
// created from the model.
type repeater struct {
	model       property.Property[vals.Value]
	desc        *ComponentDescription
	conditional bool
	instances   []*ComponentBox
	initialized bool
}

// update reconciles the instances with the model, if the model changed
// since the last update. Instances are identified by their index: existing
// ones get the new model data, extra ones are destroyed.
func (r *repeater) update(parent *ComponentBox) {
	if r.initialized && !r.model.IsDirty() {
		return
	}
	r.initialized = true
	model, err := r.model.Get(nil)
	if err != nil {
		logger.Printf("repeater %s: %v", r.desc.component.ID, err)
		model = nil
	}
	n := r.count(model)
	old := len(r.instances)
	for i := 0; i < min(n, old); i++ {
		r.instances[i].setModel(i, r.data(model, i))
	}
	for _, inst := range r.instances[min(n, old):] {
		inst.Destroy()
	}
	r.instances = r.instances[:min(n, old)]
	for i := old; i < n; i++ {
		data := r.data(model, i)
		inst := r.desc.instantiate(parent, parent.driver, func(b *ComponentBox) { b.setModel(i, data) })
		r.instances = append(r.instances, inst)
	}
	if n != old {
		logger.Printf("repeater %s: %d -> %d instances", r.desc.component.ID, old, n)
	}
}

func (r *repeater) count(model vals.Value) int {
	if r.conditional {
		if truthy(model) {
			return 1
		}
		return 0
	}
	n, _ := vals.Len(model)
	return n
}

func (r *repeater) data(model vals.Value, i int) vals.Value {
	if r.conditional {
		return nil
	}
	return vals.ModelData(model, i)
}

func (r *repeater) destroy() {
	for _, inst := range r.instances {
		inst.Destroy()
	}
	r.instances = nil
	r.model.Detach()
}

func (b *ComponentBox) setModel(i int, data vals.Value) {
	index, _ := b.desc.index.apply(b.inst)
	indexCell := index.(*property.Property[vals.Value])
	if v := float64(i); indexCell.Value() != v {
		indexCell.Set(v)
	}
	md, _ := b.desc.modelData.apply(b.inst)
	mdCell := md.(*property.Property[vals.Value])
	if !vals.Equal(mdCell.Value(), data) {
		mdCell.Set(data)
	}
}

// Repeaters returns the instances of the repeated elements of the box, in
// the order of the elements. Models are brought up to date first.
func (b *ComponentBox) Repeaters() [][]*ComponentBox {
	var all [][]*ComponentBox
	for _, e := range b.desc.elements {
		if r := b.repeater(e); r != nil {
			r.update(b)
			all = append(all, append([]*ComponentBox(nil), r.instances...))
		}
	}
	return all
}

func (b *ComponentBox) repeater(e *objtree.Element) *repeater {
	f, ok := b.desc.repeaters[e]
	if !ok {
		return nil
	}
	p, err := f.apply(b.inst)
	if err != nil {
		return nil
	}
	return p.(*repeater)
}

// ModelData returns the model data of an instance of a repeated element,
// and nil for other instances.
func (b *ComponentBox) ModelData() vals.Value {
	if b.desc.modelData == nil {
		return nil
	}
	p, err := b.desc.modelData.apply(b.inst)
	if err != nil {
		return nil
	}
	v, _ := p.(*property.Property[vals.Value]).Get(nil)
	return v
}

// ItemVisitor is called for each item of a tree, with the absolute
// position of the origin of its parent.
type ItemVisitor func(item items.Item, origin graphics.Point)

// VisitItems calls fn on every item of the instance, including the items of
// nested components and repeater instances, from back to front.
func (b *ComponentBox) VisitItems(fn ItemVisitor) {
	b.visitElement(b.desc.component.RootElement, graphics.Point{}, fn)
}

func (b *ComponentBox) visitElement(e *objtree.Element, origin graphics.Point, fn ItemVisitor) {
	if r := b.repeater(e); r != nil {
		r.update(b)
		for _, inst := range r.instances {
			inst.VisitFrom(origin, fn)
		}
		return
	}
	childOrigin := origin
	if n := b.nestedBox(e); n != nil {
		n.VisitFrom(origin, fn)
		childOrigin = n.childOrigin(origin)
	} else if it := b.item(e); it != nil {
		fn(it, origin)
		childOrigin = itemChildOrigin(it, origin)
	}
	for _, child := range e.Children {
		b.visitElement(child, childOrigin, fn)
	}
}

// VisitFrom is like VisitItems, with the root of the instance placed in a
// parent whose origin is at the given position.
func (b *ComponentBox) VisitFrom(origin graphics.Point, fn ItemVisitor) {
	b.visitElement(b.desc.component.RootElement, origin, fn)
}

func (b *ComponentBox) childOrigin(origin graphics.Point) graphics.Point {
	root := b.desc.component.RootElement
	if n := b.nestedBox(root); n != nil {
		return n.childOrigin(origin)
	}
	if it := b.item(root); it != nil {
		return itemChildOrigin(it, origin)
	}
	return origin
}

func itemChildOrigin(it items.Item, origin graphics.Point) graphics.Point {
	g := it.Geometry()
	p := graphics.Point{X: origin.X + g.X, Y: origin.Y + g.Y}
	if f, ok := it.(*items.Flickable); ok {
		p.X += f.ViewportX.Value()
		p.Y += f.ViewportY.Value()
	}
	return p
}

type hit struct {
	item items.Item
	pos  graphics.Point
}

// ProcessMouseEvent delivers a mouse event, whose position is relative to
// the instance, to the topmost item under the mouse that accepts it. An
// item that grabs the mouse receives all the following events until it
// stops grabbing.
func (b *ComponentBox) ProcessMouseEvent(ev items.MouseEvent) items.InputEventResult {
	if g := b.grab; g != nil {
		r := g.item.InputEvent(relative(ev, g.pos))
		if r != items.GrabMouse {
			b.grab = nil
		}
		return r
	}
	var hits []hit
	b.VisitItems(func(it items.Item, origin graphics.Point) {
		g := it.Geometry()
		g.X += origin.X
		g.Y += origin.Y
		if g.Contains(ev.Pos) {
			hits = append(hits, hit{it, g.Point})
		}
	})
	for i := len(hits) - 1; i >= 0; i-- {
		h := hits[i]
		switch r := h.item.InputEvent(relative(ev, h.pos)); r {
		case items.EventIgnored:
			continue
		case items.GrabMouse:
			b.grab = &h
			return r
		default:
			return r
		}
	}
	return items.EventIgnored
}

func relative(ev items.MouseEvent, pos graphics.Point) items.MouseEvent {
	ev.Pos = graphics.Point{X: ev.Pos.X - pos.X, Y: ev.Pos.Y - pos.Y}
	return ev
}
