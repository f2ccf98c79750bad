package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cowlicks/gruph/internal/graph"
	"github.com/cowlicks/gruph/internal/node"
)

// NodeRecord is one persisted node: its identity, kind, and state.
type NodeRecord struct {
	ID    graph.NodeID
	Kind  graph.Kind
	State node.State
}

// LoadNode reads one node's persisted record. The boolean result is
// false when the node is not stored.
func (s *Store) LoadNode(ctx context.Context, id graph.NodeID) (NodeRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, text, bindings, vals
		FROM nodes
		WHERE id = ?
	`, string(id))

	rec, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return NodeRecord{}, false, nil
	}
	if err != nil {
		return NodeRecord{}, false, err
	}
	return rec, true, nil
}

// ListNodes returns every persisted node. IDs are time-ordered UUIDs,
// so ordering by id reproduces creation order deterministically.
//
// Returns an empty slice (not nil) when nothing is stored.
func (s *Store) ListNodes(ctx context.Context) ([]NodeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, text, bindings, vals
		FROM nodes
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	records := []NodeRecord{}
	for rows.Next() {
		rec, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return records, nil
}

// LoadWires returns every persisted wire in insertion order.
//
// Returns an empty slice (not nil) when nothing is stored.
func (s *Store) LoadWires(ctx context.Context) ([]graph.Wire, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_node, from_output, to_node, to_input
		FROM wires
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query wires: %w", err)
	}
	defer rows.Close()

	wires := []graph.Wire{}
	for rows.Next() {
		var fromNode, toNode string
		var fromOutput, toInput int
		if err := rows.Scan(&fromNode, &fromOutput, &toNode, &toInput); err != nil {
			return nil, fmt.Errorf("scan wire: %w", err)
		}
		wires = append(wires, graph.Wire{
			From: graph.OutPinID{Node: graph.NodeID(fromNode), Output: fromOutput},
			To:   graph.InPinID{Node: graph.NodeID(toNode), Input: toInput},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wires: %w", err)
	}
	return wires, nil
}

// LoadGraph rebuilds the whole persisted graph: the store with every
// node and wire, plus a restored controller per expression node.
//
// Each expression node goes through node.Restore, so its stored text is
// re-parsed and its stored bindings validated before any of its wires
// are trusted. A single stale node fails the whole load; a partially
// restored graph could misroute connections.
func (s *Store) LoadGraph(ctx context.Context) (*graph.Store, map[graph.NodeID]*node.Controller, error) {
	records, err := s.ListNodes(ctx)
	if err != nil {
		return nil, nil, err
	}
	wires, err := s.LoadWires(ctx)
	if err != nil {
		return nil, nil, err
	}

	g := graph.NewStore()
	for _, rec := range records {
		g.AddNodeWithID(rec.ID, rec.Kind)
	}
	for _, w := range wires {
		g.Connect(w.From, w.To)
	}

	controllers := make(map[graph.NodeID]*node.Controller)
	for _, rec := range records {
		if rec.Kind != graph.KindExpr {
			continue
		}
		c, err := node.Restore(rec.ID, g, rec.State)
		if err != nil {
			return nil, nil, fmt.Errorf("restore node %s: %w", rec.ID, err)
		}
		controllers[rec.ID] = c
	}
	return g, controllers, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanNode.
type scanner interface {
	Scan(dest ...any) error
}

func scanNode(r scanner) (NodeRecord, error) {
	var id string
	var kind int
	var text, bindings, vals string
	if err := r.Scan(&id, &kind, &text, &bindings, &vals); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NodeRecord{}, err
		}
		return NodeRecord{}, fmt.Errorf("scan node: %w", err)
	}

	st, err := unmarshalState(text, bindings, vals)
	if err != nil {
		return NodeRecord{}, fmt.Errorf("node %s: %w", id, err)
	}
	return NodeRecord{
		ID:    graph.NodeID(id),
		Kind:  graph.Kind(kind),
		State: st,
	}, nil
}
