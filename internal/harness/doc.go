// Package harness provides a scenario-driven conformance framework for
// expression-node behavior.
//
// A scenario is a YAML file describing one node's lifecycle: the initial
// expression text, the upstream wires attached to its bindings, and a
// sequence of edit steps with expected outcomes. The harness runs the
// scenario against a node controller backed by a recording connection
// store, so every connection command the controller issues lands in the
// trace in call order.
//
// Traces are compared against golden files under testdata/golden. The
// subject node and its upstreams use fixed string IDs, which keeps
// traces byte-for-byte reproducible across runs.
package harness
