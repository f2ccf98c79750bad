package node

import (
	"github.com/cowlicks/gruph/internal/expr"
	"github.com/cowlicks/gruph/internal/graph"
)

// plan is the complete outcome of reconciling an old binding set against
// a freshly parsed AST. It is computed in full, from immutable
// snapshots, before a single connection command is issued.
type plan struct {
	// bindings is the new binding list: the AST's free variables in
	// first-occurrence order.
	bindings []string

	// values pairs positionally with bindings. Names that survived the
	// edit keep their old value; new names start at zero.
	values []float64

	// drops lists the old slots whose binding name disappeared. All
	// connections feeding these slots are removed.
	drops []int

	// moves lists the old slots whose binding name survived at a
	// different index. Their connections migrate to the new slot.
	moves []slotMove
}

// slotMove records one binding's slot change.
type slotMove struct {
	from int // old slot
	to   int // new slot
}

// reconcile computes the migration plan for replacing the binding set
// derived from the previous AST with the one derived from ast.
//
// Slots are 1-based: slot 0 is the text source and never participates
// in reconciliation. Reconciliation is total; given a parsed AST it
// cannot fail.
func reconcile(oldBindings []string, oldValues []float64, ast expr.Expr) plan {
	p := plan{bindings: expr.Vars(ast)}

	oldValue := make(map[string]float64, len(oldBindings))
	for i, name := range oldBindings {
		oldValue[name] = oldValues[i]
	}

	p.values = make([]float64, len(p.bindings))
	newSlot := make(map[string]int, len(p.bindings))
	for j, name := range p.bindings {
		p.values[j] = oldValue[name] // zero for newly introduced names
		newSlot[name] = j + 1
	}

	// Full old-slot -> new-slot mapping, derived once from the old
	// snapshot and the new binding list.
	for i, name := range oldBindings {
		from := i + 1
		to, ok := newSlot[name]
		switch {
		case !ok:
			p.drops = append(p.drops, from)
		case to != from:
			p.moves = append(p.moves, slotMove{from: from, to: to})
		}
	}
	return p
}

// apply issues the plan's commands against the connection store.
//
// The remotes of every moving slot are captured before the first
// command so that a wire migrated into a slot is never re-read as that
// slot's own occupant. Drops run before moves so a vacated index is
// clear before a surviving binding migrates into it, and every move's
// disconnect runs before any move's connect: a remote feeding both
// ends of a swap would otherwise have its freshly made wire torn down
// by the other slot's disconnect.
func (p plan) apply(conns Connector, node graph.NodeID) {
	snapshots := make([][]graph.OutPinID, len(p.moves))
	for i, m := range p.moves {
		snapshots[i] = conns.Inputs(graph.InPinID{Node: node, Input: m.from})
	}

	for _, slot := range p.drops {
		conns.DropInputs(graph.InPinID{Node: node, Input: slot})
	}

	for i, m := range p.moves {
		oldPin := graph.InPinID{Node: node, Input: m.from}
		for _, remote := range snapshots[i] {
			conns.Disconnect(remote, oldPin)
		}
	}
	for i, m := range p.moves {
		newPin := graph.InPinID{Node: node, Input: m.to}
		for _, remote := range snapshots[i] {
			conns.Connect(remote, newPin)
		}
	}
}
