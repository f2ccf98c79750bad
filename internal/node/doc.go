// Package node implements the expression-node controller: the owner of
// one node's compiled state and the reconciliation algorithm that keeps
// its bindings and wires consistent across text edits.
//
// ARCHITECTURE:
//
// Edit cycle:
//  1. The host delivers a text-change event via ApplyTextEdit.
//  2. The new text is parsed. A parse failure is returned to the host
//     as a typed *expr.ParseError and nothing changes.
//  3. The reconciler computes, from immutable snapshots of the old
//     state and the new AST, the complete migration plan: the new
//     binding list, the carried-over values, the slots to drop, and the
//     slot moves. No connection is touched while the plan is computed.
//  4. The plan's commands are applied to the external connection store:
//     remotes of every moving slot are snapshotted first, then drops,
//     then per-remote disconnect/connect moves. Slots whose index is
//     unchanged are never touched.
//  5. The controller commits text, AST, bindings, and values.
//
// The plan-then-apply split is what makes index-shifting safe: an old
// slot 1 can become new slot 2 while old slot 2 becomes new slot 1, so
// every move must be derived from one consistent mapping rather than
// recomputed mid-migration.
//
// The controller's only reachable state is a valid compiled form. The
// host sees no intermediate invalid state; after a rejected edit,
// evaluation and rendering still observe the previous expression.
//
// Edits are processed to completion, one at a time. The host guarantees
// serialized delivery of edit events for a given node; the controller
// is not safe for concurrent edits and does not try to be. Evaluation
// queries are read-only and may be issued at any frequency.
package node
