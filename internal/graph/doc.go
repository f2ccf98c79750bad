// Package graph owns the node registry and the wires between node pins.
//
// The store is the shared mutable collaborator the expression core talks
// to: the node controller references connections only by (node, slot)
// identity and issues discrete connect/disconnect/drop commands against
// this package during binding reconciliation.
//
// Every operation is synchronous and immediate-effect, and idempotent
// when the store is already in the target state: connecting an existing
// wire, disconnecting an absent one, or dropping an empty pin are all
// no-ops. There is no batching and no rollback; callers that need
// all-or-nothing behavior compute their whole command sequence before
// issuing the first command.
//
// Package graph imports nothing internal.
package graph
