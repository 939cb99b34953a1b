package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"flowbuilder/internal/domain"
)

// flowTx groups the writes of one save or delete
type flowTx struct {
	tx *sql.Tx
}

func (s *Store) beginTx(ctx context.Context) (*flowTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &flowTx{tx: tx}, nil
}

// insertFlow adds the flow row. A zero time is stored as 0.
func (t *flowTx) insertFlow(name string, savedAt time.Time) error {
	var ms int64
	if !savedAt.IsZero() {
		ms = savedAt.UnixMilli()
	}
	_, err := t.tx.Exec(`INSERT INTO flows (name, saved_at) VALUES (?, ?)`, name, ms)
	return err
}

// insertNode adds a node at position ord in the flow's node order
func (t *flowTx) insertNode(flow string, ord int, n domain.Node) error {
	data, err := domain.MarshalNodeData(n.Data)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(`
		INSERT INTO nodes (flow, id, type, x, y, data, ord)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, flow, n.ID, n.Type.String(), n.Position.X, n.Position.Y, string(data), ord)
	return err
}

// insertEdge adds an edge. A second edge from the same source replaces the first.
func (t *flowTx) insertEdge(flow string, ord int, e domain.Edge) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO edges (flow, source, target, id, ord)
		VALUES (?, ?, ?, ?, ?)
	`, flow, e.Source, e.Target, e.ID, ord)
	return err
}

// deleteFlow removes a flow and its contents
func (t *flowTx) deleteFlow(name string) error {
	_, err := t.deleteFlowCount(name)
	return err
}

// deleteFlowCount removes a flow and its contents, reporting how many flows went
func (t *flowTx) deleteFlowCount(name string) (int64, error) {
	if _, err := t.tx.Exec(`DELETE FROM edges WHERE flow = ?`, name); err != nil {
		return 0, err
	}
	if _, err := t.tx.Exec(`DELETE FROM nodes WHERE flow = ?`, name); err != nil {
		return 0, err
	}
	res, err := t.tx.Exec(`DELETE FROM flows WHERE name = ?`, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Commit commits the transaction
func (t *flowTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. Calling it after Commit is harmless.
func (t *flowTx) Rollback() error {
	return t.tx.Rollback()
}
