package node

import (
	"github.com/cowlicks/gruph/internal/expr"
	"github.com/cowlicks/gruph/internal/graph"
)

// Connector is the slice of the connection store the controller needs.
// *graph.Store satisfies it; tests substitute a recording double.
type Connector interface {
	Inputs(to graph.InPinID) []graph.OutPinID
	Connect(from graph.OutPinID, to graph.InPinID)
	Disconnect(from graph.OutPinID, to graph.InPinID)
	DropInputs(to graph.InPinID)
}

// defaultText is the trivial expression a fresh node compiles to.
const defaultText = "0"

// Controller owns one expression node's persistent state: the source
// text, the compiled AST, and the positional binding set. All semantic
// mutation goes through ApplyTextEdit; everything else is read-only or
// touches values only.
type Controller struct {
	id    graph.NodeID
	conns Connector

	text     string
	ast      expr.Expr
	bindings []string
	values   []float64
}

// New creates a controller for the given node over the given connection
// store. A fresh node compiles the constant zero and has no bindings.
func New(id graph.NodeID, conns Connector) *Controller {
	return &Controller{
		id:    id,
		conns: conns,
		text:  defaultText,
		ast:   expr.Val{Number: 0},
	}
}

// ID returns the controlled node's identity.
func (c *Controller) ID() graph.NodeID {
	return c.id
}

// Text returns the last successfully compiled source text.
func (c *Controller) Text() string {
	return c.text
}

// ApplyTextEdit recompiles the node from newText.
//
// On parse failure the typed *expr.ParseError is returned and the
// node's semantic state - AST, bindings, values, and every connection -
// is left exactly as it was. On success the binding set is reconciled,
// the resulting migration commands are applied to the connection store,
// and the new state is committed. Applying the same text twice is
// idempotent: the second edit computes an empty plan and issues no
// state-changing commands.
func (c *Controller) ApplyTextEdit(newText string) error {
	ast, err := expr.Parse(newText)
	if err != nil {
		return err
	}

	p := reconcile(c.bindings, c.values, ast)
	p.apply(c.conns, c.id)

	c.text = newText
	c.ast = ast
	c.bindings = p.bindings
	c.values = p.values
	return nil
}

// CurrentOutput evaluates the node's expression against the current
// binding values. Re-evaluated on every call; values may have changed
// since the last query.
func (c *Controller) CurrentOutput() float64 {
	return expr.Eval(c.ast, c.bindings, c.values)
}

// BindingCount returns the number of bound variables. Binding i
// occupies input slot i+1; slot 0 is the text source.
func (c *Controller) BindingCount() int {
	return len(c.bindings)
}

// BindingName returns the name bound at the given slot, for slot in
// 1..BindingCount.
func (c *Controller) BindingName(slot int) string {
	return c.bindings[slot-1]
}

// BindingValue returns the current value of the binding at the given
// slot, for slot in 1..BindingCount.
func (c *Controller) BindingValue(slot int) float64 {
	return c.values[slot-1]
}

// SetBindingValue stores the current value for the binding at the given
// slot. The host calls this when it polls an upstream connection
// feeding the slot.
func (c *Controller) SetBindingValue(slot int, v float64) {
	c.values[slot-1] = v
}

// SlotOf returns the input slot carrying the named binding, or 0 when
// the name is not bound. Slot 0 is never a binding slot, so the zero
// result is unambiguous.
func (c *Controller) SlotOf(name string) int {
	for i, b := range c.bindings {
		if b == name {
			return i + 1
		}
	}
	return 0
}

// InPin returns the node's input pin for the given slot.
func (c *Controller) InPin(slot int) graph.InPinID {
	return graph.InPinID{Node: c.id, Input: slot}
}

// State is the persisted form of a node: the source text and the
// positional binding set. The AST is not persisted; Restore re-parses
// the text and validates the stored bindings against the result.
type State struct {
	Text     string    `json:"text"`
	Bindings []string  `json:"bindings"`
	Values   []float64 `json:"values"`
}

// Snapshot captures the node's persistable state.
func (c *Controller) Snapshot() State {
	s := State{
		Text:     c.text,
		Bindings: make([]string, len(c.bindings)),
		Values:   make([]float64, len(c.values)),
	}
	copy(s.Bindings, c.bindings)
	copy(s.Values, c.values)
	return s
}

// Restore rebuilds a controller from persisted state.
//
// The stored text is re-parsed and the stored bindings are validated
// against the freshly derived binding list before the node resumes: a
// grammar change between save and load could otherwise desynchronize
// slot indices from the wires persisted alongside the node. Validation
// failures are typed *RestoreError values.
func Restore(id graph.NodeID, conns Connector, s State) (*Controller, error) {
	ast, err := expr.Parse(s.Text)
	if err != nil {
		return nil, newInvalidTextError(s.Text, err)
	}

	derived := expr.Vars(ast)
	if len(derived) != len(s.Bindings) {
		return nil, newStaleBindingsError(s.Bindings, derived)
	}
	for i, name := range derived {
		if s.Bindings[i] != name {
			return nil, newStaleBindingsError(s.Bindings, derived)
		}
	}
	if len(s.Values) != len(s.Bindings) {
		return nil, newCorruptValuesError(len(s.Bindings), len(s.Values))
	}

	c := New(id, conns)
	c.text = s.Text
	c.ast = ast
	c.bindings = make([]string, len(s.Bindings))
	copy(c.bindings, s.Bindings)
	c.values = make([]float64, len(s.Values))
	copy(c.values, s.Values)
	return c, nil
}
