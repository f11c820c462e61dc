// Package sqlite provides a SQLite-backed history.Driver.
//
// The conversation log lives in a single table; Save replaces the whole
// row set inside one transaction so a crash mid-save never leaves a
// partially updated history.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/veil/pkg/history"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	role    TEXT NOT NULL,
	content TEXT NOT NULL
);`

// Driver implements history.Driver on a SQLite database.
type Driver struct {
	db *sql.DB
}

// NewDriver opens (or creates) the database at dbPath and ensures the
// schema exists. dbPath may be ":memory:" for tests.
func NewDriver(dbPath string) (*Driver, error) {
	if dbPath == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Driver{db: db}, nil
}

// Load reads all turns in insertion order, then sanitizes and truncates
// them to the MaxEntries cap.
func (d *Driver) Load(ctx context.Context) (*history.Memory, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT role, content FROM history ORDER BY id ASC")
	if err != nil {
		return history.NewMemory(), fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	mem := history.NewMemory()
	for rows.Next() {
		var t history.Turn
		if err := rows.Scan(&t.Role, &t.Content); err != nil {
			return history.NewMemory(), fmt.Errorf("scanning turn: %w", err)
		}
		mem.History = append(mem.History, t)
	}
	if err := rows.Err(); err != nil {
		return history.NewMemory(), fmt.Errorf("iterating history: %w", err)
	}

	mem.History = history.Truncate(mem.History, history.MaxEntries)
	return mem, nil
}

// Save replaces the stored history with the given memory in one transaction.
func (d *Driver) Save(ctx context.Context, mem *history.Memory) error {
	if mem == nil {
		return errors.New("cannot save nil memory")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO history (role, content) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range mem.History {
		if _, err := stmt.ExecContext(ctx, t.Role, t.Content); err != nil {
			return fmt.Errorf("inserting turn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.db.Close()
}
