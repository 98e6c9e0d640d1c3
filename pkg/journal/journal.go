// Package journal persists an append-only edit history for a project in
// a local sqlite database, so reviewers can see who changed which
// weighting and when.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Operation names recorded in the journal.
const (
	OpEdit       = "edit"
	OpAdd        = "add"
	OpRemove     = "remove"
	OpClear      = "clear"
	OpAutoAssign = "auto_assign"
	OpReload     = "reload"
)

// Entry is one recorded mutation
type Entry struct {
	ID        int64
	Op        string
	NodePath  string
	Column    int
	OldValue  string
	NewValue  string
	CreatedAt time.Time
}

// DB handles journal persistence
type DB struct {
	db *sql.DB
}

// Open opens or creates the journal database at the given path
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	jdb := &DB{db: db}
	if err := jdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}

	return jdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		op TEXT NOT NULL,
		node_path TEXT NOT NULL,
		col INTEGER NOT NULL DEFAULT 0,
		old_value TEXT DEFAULT '',
		new_value TEXT DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_node ON entries(node_path);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Record inserts a new journal entry
func (d *DB) Record(e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	result, err := d.db.Exec(`
		INSERT INTO entries (op, node_path, col, old_value, new_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Op, e.NodePath, e.Column, e.OldValue, e.NewValue, e.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// Recent returns the newest n entries, most recent first
func (d *DB) Recent(n int) ([]Entry, error) {
	rows, err := d.db.Query(`
		SELECT id, op, node_path, col, old_value, new_value, created_at
		FROM entries
		ORDER BY id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Op, &e.NodePath, &e.Column, &e.OldValue, &e.NewValue, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ForNode returns all entries touching a node path, most recent first
func (d *DB) ForNode(nodePath string) ([]Entry, error) {
	rows, err := d.db.Query(`
		SELECT id, op, node_path, col, old_value, new_value, created_at
		FROM entries
		WHERE node_path = ?
		ORDER BY id DESC
	`, nodePath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Op, &e.NodePath, &e.Column, &e.OldValue, &e.NewValue, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
