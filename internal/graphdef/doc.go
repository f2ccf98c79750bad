// Package graphdef compiles CUE graph documents into a runnable node
// graph: the headless counterpart of assembling a graph on the canvas.
//
// A document declares nodes and the wires between them:
//
//	graph: {
//		nodes: {
//			x:   {source: "2.5"}
//			sum: {expr: "a + b"}
//		}
//		wires: [
//			{from: "x", to: "sum", var: "a"},
//		]
//	}
//
// A node sets exactly one of source (a numeric literal fed downstream)
// or expr (an expression compiled by the node controller). Wires
// address the destination by binding name; the name resolves to a slot
// index only after the destination's expression has been parsed, so a
// document can never wire a slot that the expression does not have.
package graphdef
