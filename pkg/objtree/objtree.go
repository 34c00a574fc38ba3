// Package objtree contains the object tree: the semantic model of a .60
// document that the lowering passes transform and the interpreter
// instantiates.
package objtree

import (
	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

// Document is the result of building one source file.
type Document struct {
	// Root is the component instantiated for the document, the last one in
	// the file.
	Root *Component
	// Components lists the components of the file in source order.
	Components []*Component
	// LocalRegistry holds the components of the file. Its parent holds the
	// widget library and the components of the include paths.
	LocalRegistry *typeregister.TypeRegister
	File          *diag.SourceFile
}

// Component is a component definition. Instances are created from the
// lowered component; it is never modified once the passes have run.
type Component struct {
	ID          string
	RootElement *Element
	File        *diag.SourceFile
	// ParentElement is the placeholder that replaced the repeated element
	// this component was extracted from. It is nil for other components.
	ParentElement *Element
	// EmbeddedResources maps the path of every embedded image to its bytes.
	EmbeddedResources map[string][]byte
}

// ComponentID returns the id of the component.
func (c *Component) ComponentID() string { return c.ID }

// LookupProperty looks up a property of the root element.
func (c *Component) LookupProperty(name string) (typeregister.Type, bool) {
	if c.RootElement == nil {
		return typeregister.InvalidType, false
	}
	return c.RootElement.LookupProperty(name)
}

// IsStateful reports whether any element of the component declares states.
func (c *Component) IsStateful() bool {
	stateful := false
	VisitElements(c.RootElement, func(e *Element) {
		if len(e.States) > 0 {
			stateful = true
		}
	})
	return stateful
}

// PublicProperties returns the exposed declarations of the root element by
// name.
func (c *Component) PublicProperties() map[string]typeregister.Type {
	props := make(map[string]typeregister.Type)
	for name, decl := range c.RootElement.PropertyDeclarations {
		if decl.Expose {
			props[name] = decl.Type
		}
	}
	return props
}

// Element is one element of a component tree.
type Element struct {
	ID   string
	Base typeregister.Type
	// Bindings maps a property or signal name to its binding. Signal
	// bindings hold the handler code block.
	Bindings             map[string]*Binding
	PropertyDeclarations map[string]*PropertyDeclaration
	Children             []*Element
	// EnclosingComponent is the component whose tree contains the element.
	EnclosingComponent *Component
	Repeated           *RepeatedElementInfo
	// States and Transitions are erased by LowerStates.
	States      []*State
	Transitions []*Transition
	// PropertyAnimations maps property names to their animation.
	PropertyAnimations map[string]*PropertyAnimation
	// Index is assigned by AssignUniqueID, dense in pre-order.
	Index int
	Span  diag.Span
}

// NewElement returns an empty element of the given base type.
func NewElement(base typeregister.Type, c *Component, span diag.Span) *Element {
	return &Element{
		Base:                 base,
		Bindings:             make(map[string]*Binding),
		PropertyDeclarations: make(map[string]*PropertyDeclaration),
		PropertyAnimations:   make(map[string]*PropertyAnimation),
		EnclosingComponent:   c,
		Span:                 span,
	}
}

// LookupProperty returns the type of a declared or inherited property or
// signal.
func (e *Element) LookupProperty(name string) (typeregister.Type, bool) {
	if decl, ok := e.PropertyDeclarations[name]; ok {
		return decl.Type, true
	}
	return e.Base.LookupProperty(name)
}

// Builtin returns the builtin the element is an instance of, and nil if
// its base is a component.
func (e *Element) Builtin() *typeregister.BuiltinElement {
	if e.Base.Kind == typeregister.Builtin {
		return e.Base.Builtin
	}
	return nil
}

// IsPlaceholder reports whether the element stands for a component
// extracted from a repeated element.
func (e *Element) IsPlaceholder() bool {
	return e.Repeated != nil && e.RepeatedComponent() != nil
}

// RepeatedComponent returns the component e is the placeholder of, or nil.
func (e *Element) RepeatedComponent() *Component {
	if e.Base.Kind != typeregister.Component {
		return nil
	}
	c, ok := e.Base.Component.(*Component)
	if !ok || c.ParentElement != e {
		return nil
	}
	return c
}

// DeclaredNames returns the names of the declarations, sorted.
func (e *Element) DeclaredNames() []string {
	return sortedKeys(e.PropertyDeclarations)
}

// BindingNames returns the names of the bindings, sorted.
func (e *Element) BindingNames() []string {
	return sortedKeys(e.Bindings)
}

// PropertyDeclaration declares a property or a signal.
type PropertyDeclaration struct {
	Type typeregister.Type
	// Expose is set for the declarations of a component root, which form the
	// public surface of the component.
	Expose bool
	Span   diag.Span
}

// Binding is an expression attached to a property.
type Binding struct {
	Expression Expression
	Span       diag.Span
}

// RepeatedElementInfo describes a "for" or "if" element.
type RepeatedElementInfo struct {
	Model       Expression
	ModelDataID string
	IndexID     string
	// IsConditional is set for "if" elements, whose model is a bool.
	IsConditional bool
}

// State is a named state of an element.
type State struct {
	ID        string
	Condition Expression
	Changes   []*StateChange
	Span      diag.Span
}

// StateChange is a property assignment applied while a state is active.
type StateChange struct {
	// Path is the target as written, resolved into Target by
	// ResolveExpressions.
	Path   []string
	Target NamedReference
	Expr   Expression
	Span   diag.Span
}

// Transition holds the animations used when entering or leaving a state.
type Transition struct {
	Out        bool
	StateID    string
	Animations []*TransitionAnimation
	Span       diag.Span
}

// TransitionAnimation animates some properties during a transition.
type TransitionAnimation struct {
	Paths     [][]string
	Targets   []NamedReference
	Animation *Element
	Span      diag.Span
}

// PropertyAnimation is the animation of a property: a static animation
// element, or the animations selected by state transitions.
type PropertyAnimation struct {
	Static     *Element
	Transition *StateTransitionAnimations
}

// StateTransitionAnimations selects an animation based on the state being
// entered or left.
type StateTransitionAnimations struct {
	// State reads the current_state property of the element declaring the
	// states.
	State      Expression
	Animations []StateAnimation
}

// StateAnimation is one entry of StateTransitionAnimations.
type StateAnimation struct {
	StateIndex int
	Out        bool
	Animation  *Element
}
