package graph

import (
	"sync"

	"github.com/google/uuid"
)

// NodeID uniquely identifies a node in the graph.
type NodeID string

// NewNodeID generates a time-ordered unique node ID.
// Uses github.com/google/uuid for RFC 4122 compliant UUIDs (version 7)
// so that IDs created later sort later, which keeps persisted listings
// in creation order.
func NewNodeID() NodeID {
	return NodeID(uuid.Must(uuid.NewV7()).String())
}

// Kind distinguishes the node variants. Operations specific to one
// variant live on that variant's controller, not behind runtime checks
// here; the store only records which kind a node is.
type Kind int

const (
	// KindSource is a string-source node. It produces the raw text fed
	// into an expression node's slot 0.
	KindSource Kind = iota + 1
	// KindExpr is an expression node: compiled text, bindings, values.
	KindExpr
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindExpr:
		return "expr"
	}
	return "unknown"
}

// OutPinID identifies an output pin: a node and its output slot.
type OutPinID struct {
	Node   NodeID `json:"node"`
	Output int    `json:"output"`
}

// InPinID identifies an input pin: a node and its input slot.
// For expression nodes, slot 0 is the text source and slot i+1 carries
// the value of binding i.
type InPinID struct {
	Node  NodeID `json:"node"`
	Input int    `json:"input"`
}

// Wire is a single connection from an output pin to an input pin.
type Wire struct {
	From OutPinID `json:"from"`
	To   InPinID  `json:"to"`
}

// Store is the in-memory node and wire registry.
//
// The expression core's edit cycle is single-threaded by contract, but
// the store is host-owned shared state, so it guards itself with a
// mutex the same way the host's other shared structures do.
type Store struct {
	mu    sync.Mutex
	kinds map[NodeID]Kind
	order []NodeID // node insertion order, for deterministic listings
	wires []Wire   // wire insertion order doubles as Inputs order
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{kinds: make(map[NodeID]Kind)}
}

// AddNode registers a new node of the given kind and returns its
// generated ID.
func (s *Store) AddNode(kind Kind) NodeID {
	id := NewNodeID()
	s.AddNodeWithID(id, kind)
	return id
}

// AddNodeWithID registers a node under a caller-supplied ID. Used when
// restoring a persisted graph, where IDs must survive the round trip.
// Registering an already-known ID is a no-op.
func (s *Store) AddNodeWithID(id NodeID, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.kinds[id]; ok {
		return
	}
	s.kinds[id] = kind
	s.order = append(s.order, id)
}

// NodeKind reports a node's kind. The second result is false when the
// node is unknown.
func (s *Store) NodeKind(id NodeID) (Kind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.kinds[id]
	return k, ok
}

// Nodes returns all node IDs in insertion order.
func (s *Store) Nodes() []NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]NodeID, len(s.order))
	copy(out, s.order)
	return out
}

// RemoveNode unregisters a node and drops every wire touching it, on
// either end. Removing an unknown node is a no-op.
func (s *Store) RemoveNode(id NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.kinds[id]; !ok {
		return
	}
	delete(s.kinds, id)
	for i, n := range s.order {
		if n == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	kept := s.wires[:0]
	for _, w := range s.wires {
		if w.From.Node != id && w.To.Node != id {
			kept = append(kept, w)
		}
	}
	s.wires = kept
}

// Connect adds a wire from an output pin to an input pin. Connecting an
// already-present wire is a no-op.
func (s *Store) Connect(from OutPinID, to InPinID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.wires {
		if w.From == from && w.To == to {
			return
		}
	}
	s.wires = append(s.wires, Wire{From: from, To: to})
}

// Disconnect removes the wire between the two pins. Disconnecting an
// absent wire is a no-op.
func (s *Store) Disconnect(from OutPinID, to InPinID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.wires {
		if w.From == from && w.To == to {
			s.wires = append(s.wires[:i], s.wires[i+1:]...)
			return
		}
	}
}

// DropInputs removes every wire feeding the given input pin.
func (s *Store) DropInputs(to InPinID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.wires[:0]
	for _, w := range s.wires {
		if w.To != to {
			kept = append(kept, w)
		}
	}
	s.wires = kept
}

// Inputs returns the remote output pins currently feeding the given
// input pin, in connection order. Returns an empty slice, not nil, when
// the pin is unconnected.
func (s *Store) Inputs(to InPinID) []OutPinID {
	s.mu.Lock()
	defer s.mu.Unlock()

	remotes := []OutPinID{}
	for _, w := range s.wires {
		if w.To == to {
			remotes = append(remotes, w.From)
		}
	}
	return remotes
}

// Wires returns a snapshot of every wire in connection order, for
// persistence and inspection.
func (s *Store) Wires() []Wire {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Wire, len(s.wires))
	copy(out, s.wires)
	return out
}
