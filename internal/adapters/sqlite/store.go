package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/ports"
)

const schemaVersion = "1"

// Store implements ports.FlowStore using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
}

// Ensure Store implements FlowStore
var _ ports.FlowStore = (*Store)(nil)

// NewStore creates a new SQLite flow store
func NewStore() *Store {
	return &Store{}
}

// Open opens or creates the database at dbPath
func (s *Store) Open(dbPath string) error {
	// Expand ~ in path
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	s.dbPath = dbPath

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS flows (
			name TEXT PRIMARY KEY,
			saved_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS nodes (
			flow TEXT NOT NULL REFERENCES flows(name) ON DELETE CASCADE,
			id TEXT NOT NULL,
			type TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			data TEXT NOT NULL,
			ord INTEGER NOT NULL,
			PRIMARY KEY (flow, id)
		);
		CREATE TABLE IF NOT EXISTS edges (
			flow TEXT NOT NULL REFERENCES flows(name) ON DELETE CASCADE,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			id TEXT NOT NULL,
			ord INTEGER NOT NULL,
			PRIMARY KEY (flow, source)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file in use
func (s *Store) Path() string {
	return s.dbPath
}

// SaveFlow replaces the stored flow with the same name in one transaction
func (s *Store) SaveFlow(ctx context.Context, flow domain.Flow) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.deleteFlow(flow.Name); err != nil {
		return fmt.Errorf("failed to clear flow: %w", err)
	}
	if err := tx.insertFlow(flow.Name, flow.SavedAt); err != nil {
		return fmt.Errorf("failed to insert flow: %w", err)
	}
	for i, n := range flow.Nodes {
		if err := tx.insertNode(flow.Name, i, n); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", n.ID, err)
		}
	}
	for i, e := range flow.Edges {
		if err := tx.insertEdge(flow.Name, i, e); err != nil {
			return fmt.Errorf("failed to insert edge %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// LoadFlow reads a flow with nodes and edges in their saved order
func (s *Store) LoadFlow(ctx context.Context, name string) (domain.Flow, error) {
	flow := domain.Flow{Name: name}

	var savedAt int64
	err := s.db.QueryRowContext(ctx, `SELECT saved_at FROM flows WHERE name = ?`, name).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Flow{}, &application.NotFoundError{Kind: "flow", ID: name}
	}
	if err != nil {
		return domain.Flow{}, err
	}
	if savedAt != 0 {
		flow.SavedAt = time.UnixMilli(savedAt).UTC()
	}

	nodes, err := s.loadNodes(ctx, name)
	if err != nil {
		return domain.Flow{}, err
	}
	flow.Nodes = nodes

	edges, err := s.loadEdges(ctx, name)
	if err != nil {
		return domain.Flow{}, err
	}
	flow.Edges = edges

	return flow, nil
}

func (s *Store) loadNodes(ctx context.Context, flow string) ([]domain.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, x, y, data
		FROM nodes WHERE flow = ?
		ORDER BY ord
	`, flow)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []domain.Node
	for rows.Next() {
		var n domain.Node
		var nodeType, data string
		if err := rows.Scan(&n.ID, &nodeType, &n.Position.X, &n.Position.Y, &data); err != nil {
			return nil, err
		}
		n.Type = domain.NodeType(nodeType)
		n.Data, err = domain.UnmarshalNodeData(n.Type, []byte(data))
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (s *Store) loadEdges(ctx context.Context, flow string) ([]domain.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, target
		FROM edges WHERE flow = ?
		ORDER BY ord
	`, flow)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.Edge
	for rows.Next() {
		var e domain.Edge
		if err := rows.Scan(&e.ID, &e.Source, &e.Target); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// ListFlows returns a summary of every stored flow, by name
func (s *Store) ListFlows(ctx context.Context) ([]domain.FlowSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.name, f.saved_at,
			(SELECT COUNT(*) FROM nodes n WHERE n.flow = f.name),
			(SELECT COUNT(*) FROM edges e WHERE e.flow = f.name)
		FROM flows f
		ORDER BY f.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FlowSummary
	for rows.Next() {
		var sum domain.FlowSummary
		var savedAt int64
		if err := rows.Scan(&sum.Name, &savedAt, &sum.Nodes, &sum.Edges); err != nil {
			return nil, err
		}
		if savedAt != 0 {
			sum.SavedAt = time.UnixMilli(savedAt).UTC()
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteFlow removes a flow with its nodes and edges
func (s *Store) DeleteFlow(ctx context.Context, name string) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	n, err := tx.deleteFlowCount(name)
	if err != nil {
		return err
	}
	if n == 0 {
		return &application.NotFoundError{Kind: "flow", ID: name}
	}
	return tx.Commit()
}
