package graphdef

import (
	"fmt"
	"strconv"

	"github.com/cowlicks/gruph/internal/graph"
	"github.com/cowlicks/gruph/internal/node"
)

// Graph is a built graph document: a populated connection store plus a
// controller per expression node, ready to evaluate.
type Graph struct {
	Store *graph.Store

	order       []graph.NodeID
	names       map[graph.NodeID]string
	ids         map[string]graph.NodeID
	controllers map[graph.NodeID]*node.Controller
	sources     map[graph.NodeID]float64
}

// Output is one expression node's evaluated result.
type Output struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// BuiltNode is one assembled node, in a shape ready for persistence.
type BuiltNode struct {
	ID    graph.NodeID
	Name  string
	Kind  graph.Kind
	State node.State
}

// Build assembles a compiled document into a live graph.
//
// Every expression is compiled through its node controller, so a
// document whose expression fails to parse is rejected here, and wire
// binding names resolve against the controller's actual binding set.
func Build(doc *Doc) (*Graph, error) {
	g := &Graph{
		Store:       graph.NewStore(),
		names:       make(map[graph.NodeID]string),
		ids:         make(map[string]graph.NodeID),
		controllers: make(map[graph.NodeID]*node.Controller),
		sources:     make(map[graph.NodeID]float64),
	}

	for _, def := range doc.Nodes {
		if def.IsSource() {
			v, err := strconv.ParseFloat(def.Source, 64)
			if err != nil {
				return nil, &CompileError{
					Field:   def.Name,
					Message: fmt.Sprintf("source %q is not a number", def.Source),
				}
			}
			id := g.Store.AddNode(graph.KindSource)
			g.register(id, def.Name)
			g.sources[id] = v
			continue
		}

		id := g.Store.AddNode(graph.KindExpr)
		g.register(id, def.Name)
		c := node.New(id, g.Store)
		if err := c.ApplyTextEdit(def.Expr); err != nil {
			return nil, &CompileError{
				Field:   def.Name,
				Message: fmt.Sprintf("expression %q does not parse: %v", def.Expr, err),
			}
		}
		g.controllers[id] = c
	}

	for _, w := range doc.Wires {
		c := g.controllers[g.ids[w.To]]
		slot := c.SlotOf(w.Var)
		if slot == 0 {
			return nil, &CompileError{
				Field:   "wires",
				Message: fmt.Sprintf("node %q has no binding %q", w.To, w.Var),
			}
		}
		g.Store.Connect(graph.OutPinID{Node: g.ids[w.From], Output: 0}, c.InPin(slot))
	}
	return g, nil
}

func (g *Graph) register(id graph.NodeID, name string) {
	g.order = append(g.order, id)
	g.names[id] = name
	g.ids[name] = id
}

// Controller returns the controller for the named expression node.
func (g *Graph) Controller(name string) (*node.Controller, bool) {
	c, ok := g.controllers[g.ids[name]]
	return c, ok
}

// Evaluate pushes upstream values into every bound slot and returns
// each expression node's output, in document order.
//
// Values propagate in document order, the same way the host application
// polls upstream pins before reading a node's output. A wire from a
// later node therefore feeds the value that node produced on the
// previous pass, which is also how the canvas behaves frame to frame.
func (g *Graph) Evaluate() []Output {
	var outputs []Output
	for _, id := range g.order {
		c, ok := g.controllers[id]
		if !ok {
			continue
		}
		for slot := 1; slot <= c.BindingCount(); slot++ {
			remotes := g.Store.Inputs(c.InPin(slot))
			if len(remotes) == 0 {
				continue
			}
			// At most one upstream feeds a slot; the last connected wins.
			c.SetBindingValue(slot, g.valueOf(remotes[len(remotes)-1].Node))
		}
		outputs = append(outputs, Output{Name: g.names[id], Value: c.CurrentOutput()})
	}
	return outputs
}

func (g *Graph) valueOf(id graph.NodeID) float64 {
	if v, ok := g.sources[id]; ok {
		return v
	}
	if c, ok := g.controllers[id]; ok {
		return c.CurrentOutput()
	}
	return 0
}

// BuiltNodes returns every node in document order, with the state a
// persistence layer needs to store it.
func (g *Graph) BuiltNodes() []BuiltNode {
	out := make([]BuiltNode, 0, len(g.order))
	for _, id := range g.order {
		bn := BuiltNode{ID: id, Name: g.names[id]}
		if c, ok := g.controllers[id]; ok {
			bn.Kind = graph.KindExpr
			bn.State = c.Snapshot()
		} else {
			bn.Kind = graph.KindSource
			bn.State = node.State{Text: strconv.FormatFloat(g.sources[id], 'g', -1, 64)}
		}
		out = append(out, bn)
	}
	return out
}
