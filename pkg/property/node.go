// Package property implements the reactive engine: lazily evaluated
// property cells whose bindings record the cells they read, and signals.
//
// Dependencies are recorded through a Tracker passed explicitly to the
// functions computing a binding; there is no hidden "currently evaluating"
// state. The engine is single-threaded.
package property

import "errors"

// ErrBindingLoop is returned when a binding reads, directly or indirectly,
// the property it computes.
var ErrBindingLoop = errors.New("binding loop detected")

// State is the state of a property cell.
type State int

// Possible values of State.
const (
	// Clean cells hold an up-to-date value.
	Clean State = iota
	// Dirty cells have a binding or an animation to (re)evaluate.
	Dirty
	// Evaluating cells are running their binding. Reading one is a binding
	// loop.
	Evaluating
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Evaluating:
		return "evaluating"
	}
	return "unknown"
}

// node is the part of a cell that takes part in the dependency graph.
type node struct {
	state State
	// Cells that read this one during their last evaluation.
	dependents map[*node]struct{}
	// Cells read during the last evaluation of this one.
	dependencies map[*node]struct{}
}

// Tracker records the cells read while a binding is evaluated. A nil
// Tracker records nothing; it is used for reads from outside any binding.
type Tracker struct {
	n *node
}

func (n *node) track(t *Tracker) {
	if t == nil || t.n == nil || t.n == n {
		return
	}
	if n.dependents == nil {
		n.dependents = make(map[*node]struct{})
	}
	if t.n.dependencies == nil {
		t.n.dependencies = make(map[*node]struct{})
	}
	n.dependents[t.n] = struct{}{}
	t.n.dependencies[n] = struct{}{}
}

// clearDependencies drops the edges recorded by the previous evaluation.
func (n *node) clearDependencies() {
	for dep := range n.dependencies {
		delete(dep.dependents, n)
	}
	clear(n.dependencies)
}

// markDirty marks n as needing re-evaluation and propagates to its
// dependents. A cell that is already dirty has dirty dependents.
func (n *node) markDirty() {
	if n.state == Dirty {
		return
	}
	n.state = Dirty
	n.invalidateDependents()
}

func (n *node) invalidateDependents() {
	for d := range n.dependents {
		d.markDirty()
	}
}

// detach removes n from the graph.
func (n *node) detach() {
	n.clearDependencies()
	for d := range n.dependents {
		delete(d.dependencies, n)
	}
	clear(n.dependents)
}
