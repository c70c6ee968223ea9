// Package history persists recently picked entities in a local SQLite
// database so pickers can surface them ahead of remote results before the
// first search keystroke.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/umarmehmood-wq/superset/internal/selector"
)

//go:embed schema.sql
var schemaSQL string

// Entity kinds recorded in the store.
const (
	KindChart   = "chart"
	KindDataset = "dataset"
	KindColumn  = "column"
)

// keepPerKind bounds how many rows survive pruning per kind.
const keepPerKind = 50

// Store is a recent-selections database. Safe for use from a single process;
// database/sql serializes access to the connection.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Touch records that (kind, value) was picked now, creating or refreshing
// its row, and prunes old rows beyond the per-kind retention bound.
func (s *Store) Touch(kind, value, label string) error {
	_, err := s.db.Exec(`
		INSERT INTO recent_selections (kind, value, label, picked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, value) DO UPDATE SET
			label = excluded.label,
			picked_at = excluded.picked_at`,
		kind, value, label, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("record selection: %w", err)
	}

	_, err = s.db.Exec(`
		DELETE FROM recent_selections
		WHERE kind = ? AND value NOT IN (
			SELECT value FROM recent_selections
			WHERE kind = ? ORDER BY picked_at DESC LIMIT ?
		)`, kind, kind, keepPerKind)
	if err != nil {
		return fmt.Errorf("prune selections: %w", err)
	}
	return nil
}

// Recent returns up to limit options of the given kind, most recent first.
func (s *Store) Recent(kind string, limit int) ([]selector.Option, error) {
	rows, err := s.db.Query(`
		SELECT value, label FROM recent_selections
		WHERE kind = ? ORDER BY picked_at DESC LIMIT ?`,
		kind, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent selections: %w", err)
	}
	defer rows.Close()

	var options []selector.Option
	for rows.Next() {
		var opt selector.Option
		if err := rows.Scan(&opt.Value, &opt.Label); err != nil {
			return nil, fmt.Errorf("scan recent selection: %w", err)
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}
