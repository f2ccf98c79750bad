// Package store provides durable storage for graphs: per-node state
// (text, bindings, values) and the wires between pins.
//
// The compiled AST is deliberately not persisted. Restoring a node goes
// through node.Restore, which re-parses the stored text and validates
// the stored binding list against the freshly derived one; a grammar
// change between save and load would otherwise desynchronize slot
// indices from the stored wires.
//
// Uses SQLite with WAL mode for concurrent read access. All writes are
// idempotent: saving a node upserts, saving a wire that already exists
// is a no-op.
package store
