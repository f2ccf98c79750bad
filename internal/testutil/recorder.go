// Package testutil provides shared test doubles for the expression-node
// packages.
package testutil

import (
	"fmt"

	"github.com/cowlicks/gruph/internal/graph"
)

// CommandOp names a connection-store mutation.
type CommandOp string

const (
	// OpConnect records a Connect call.
	OpConnect CommandOp = "connect"
	// OpDisconnect records a Disconnect call.
	OpDisconnect CommandOp = "disconnect"
	// OpDrop records a DropInputs call.
	OpDrop CommandOp = "drop"
)

// Command is one recorded connection-store mutation. Queries (Inputs)
// are not recorded; only commands that can change wire state are.
type Command struct {
	Op   CommandOp       `json:"op"`
	From *graph.OutPinID `json:"from,omitempty"` // nil for drop
	To   graph.InPinID   `json:"to"`
}

// String renders the command compactly for traces and failure messages.
func (c Command) String() string {
	if c.From != nil {
		return fmt.Sprintf("%s %s:%d -> %s:%d", c.Op, c.From.Node, c.From.Output, c.To.Node, c.To.Input)
	}
	return fmt.Sprintf("%s %s:%d", c.Op, c.To.Node, c.To.Input)
}

// RecordingConnector wraps a real graph.Store, journaling every mutation
// in call order while delegating the actual wire bookkeeping. It
// satisfies node.Connector structurally, without importing it.
type RecordingConnector struct {
	Store    *graph.Store
	Commands []Command
}

// NewRecordingConnector creates a recorder over a fresh store.
func NewRecordingConnector() *RecordingConnector {
	return &RecordingConnector{Store: graph.NewStore()}
}

// Inputs delegates to the underlying store. Not recorded.
func (r *RecordingConnector) Inputs(to graph.InPinID) []graph.OutPinID {
	return r.Store.Inputs(to)
}

// Connect records the command and applies it.
func (r *RecordingConnector) Connect(from graph.OutPinID, to graph.InPinID) {
	f := from
	r.Commands = append(r.Commands, Command{Op: OpConnect, From: &f, To: to})
	r.Store.Connect(from, to)
}

// Disconnect records the command and applies it.
func (r *RecordingConnector) Disconnect(from graph.OutPinID, to graph.InPinID) {
	f := from
	r.Commands = append(r.Commands, Command{Op: OpDisconnect, From: &f, To: to})
	r.Store.Disconnect(from, to)
}

// DropInputs records the command and applies it.
func (r *RecordingConnector) DropInputs(to graph.InPinID) {
	r.Commands = append(r.Commands, Command{Op: OpDrop, To: to})
	r.Store.DropInputs(to)
}

// Reset clears the journal, keeping the wire state.
func (r *RecordingConnector) Reset() {
	r.Commands = nil
}

// Trace returns the journal as rendered command strings.
func (r *RecordingConnector) Trace() []string {
	out := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		out[i] = c.String()
	}
	return out
}
