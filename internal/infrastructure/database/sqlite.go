package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"mixerboard/internal/domain"
	"mixerboard/internal/domain/entities"
	"mixerboard/internal/ports/output"
)

//go:embed schema.sql
var schemaSQL string

var _ output.EventStore = (*SQLiteStore)(nil)

// SQLiteStore is the local-mode event store: a single-client file database
// with no change notification. Read-modify-write runs inside one
// transaction; with one writer there is nothing to retry.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database file at path and applies the
// schema. Safe to call repeatedly.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent use from goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database file.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReadAll returns the current collection.
func (s *SQLiteStore) ReadAll(ctx context.Context) (entities.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM events`)
	if err != nil {
		return nil, domain.NewStoreError("read all", err)
	}
	defer rows.Close()

	col := entities.Collection{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, domain.NewStoreError("read all", err)
		}
		ev, err := decodeEvent(doc)
		if err != nil {
			return nil, domain.NewStoreError("read all", err)
		}
		col[ev.ID] = ev
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("read all", err)
	}
	return col, nil
}

// Transact applies mutator to the current collection and persists the
// result in one transaction. A mutator error aborts without commit and is
// propagated unchanged.
func (s *SQLiteStore) Transact(ctx context.Context, mutator output.Mutator) (entities.Collection, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.NewStoreError("begin", err)
	}
	defer tx.Rollback()

	current := entities.Collection{}
	rows, err := tx.QueryContext(ctx, `SELECT doc FROM events`)
	if err != nil {
		return nil, domain.NewStoreError("read collection", err)
	}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			rows.Close()
			return nil, domain.NewStoreError("read collection", err)
		}
		ev, err := decodeEvent(doc)
		if err != nil {
			rows.Close()
			return nil, domain.NewStoreError("read collection", err)
		}
		current[ev.ID] = ev
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("read collection", err)
	}

	next, err := mutator(current)
	if err != nil {
		return nil, err
	}

	for id := range current {
		if _, ok := next[id]; !ok {
			if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
				return nil, domain.NewStoreError("delete event", err)
			}
		}
	}
	for id, ev := range next {
		doc, err := encodeEvent(ev)
		if err != nil {
			return nil, domain.NewStoreError("encode event", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO events (id, doc) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET doc = excluded.doc
		`, id, doc)
		if err != nil {
			return nil, domain.NewStoreError("write event", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.NewStoreError("commit", err)
	}
	return next, nil
}
