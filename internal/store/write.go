package store

import (
	"context"
	"fmt"

	"github.com/cowlicks/gruph/internal/graph"
	"github.com/cowlicks/gruph/internal/node"
)

// SaveNode upserts a node's persisted state. Saving the same node again
// overwrites its state, so an edit followed by a save always wins.
//
// Bindings and values are serialized by marshalState; their positional
// pairing is the on-disk contract.
func (s *Store) SaveNode(ctx context.Context, id graph.NodeID, kind graph.Kind, st node.State) error {
	bindings, vals, err := marshalState(st)
	if err != nil {
		return fmt.Errorf("save node: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO nodes (id, kind, text, bindings, vals)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			text = excluded.text,
			bindings = excluded.bindings,
			vals = excluded.vals
	`, string(id), int(kind), st.Text, bindings, vals)
	if err != nil {
		return fmt.Errorf("save node: %w", err)
	}
	return nil
}

// DeleteNode removes a node and every wire touching it, in one
// transaction. Deleting an unknown node is a no-op.
func (s *Store) DeleteNode(ctx context.Context, id graph.NodeID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM wires WHERE from_node = ? OR to_node = ?`, string(id), string(id)); err != nil {
		return fmt.Errorf("delete node wires: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	return nil
}

// SaveWire inserts a wire. Uses ON CONFLICT DO NOTHING for idempotency -
// saving an existing wire is silently ignored.
func (s *Store) SaveWire(ctx context.Context, w graph.Wire) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wires (from_node, from_output, to_node, to_input)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, string(w.From.Node), w.From.Output, string(w.To.Node), w.To.Input)
	if err != nil {
		return fmt.Errorf("save wire: %w", err)
	}
	return nil
}

// DeleteWire removes a wire. Deleting an absent wire is a no-op.
func (s *Store) DeleteWire(ctx context.Context, w graph.Wire) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM wires
		WHERE from_node = ? AND from_output = ? AND to_node = ? AND to_input = ?
	`, string(w.From.Node), w.From.Output, string(w.To.Node), w.To.Input)
	if err != nil {
		return fmt.Errorf("delete wire: %w", err)
	}
	return nil
}

// ReplaceAll persists a whole graph in one transaction, discarding
// whatever was stored before. Used by the run command's --db flag to
// save the graph it just built.
func (s *Store) ReplaceAll(ctx context.Context, nodes []NodeRecord, wires []graph.Wire) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace all: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wires`); err != nil {
		return fmt.Errorf("replace all: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return fmt.Errorf("replace all: %w", err)
	}

	for _, rec := range nodes {
		bindings, vals, err := marshalState(rec.State)
		if err != nil {
			return fmt.Errorf("replace all: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO nodes (id, kind, text, bindings, vals)
			VALUES (?, ?, ?, ?, ?)
		`, string(rec.ID), int(rec.Kind), rec.State.Text, bindings, vals)
		if err != nil {
			return fmt.Errorf("replace all: %w", err)
		}
	}

	for _, w := range wires {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO wires (from_node, from_output, to_node, to_input)
			VALUES (?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, string(w.From.Node), w.From.Output, string(w.To.Node), w.To.Input)
		if err != nil {
			return fmt.Errorf("replace all: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace all: %w", err)
	}
	return nil
}

