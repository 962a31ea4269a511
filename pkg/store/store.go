// Package store keeps pipeline runs and their enriched game tables in a
// SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/richard-senior/gamecomp/internal/logger"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a handle on the results database
type Store struct {
	db   *sql.DB
	path string
}

// Open opens, creating if needed, the database at path and makes sure the
// bookkeeping tables exist
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == MemoryPath {
		// every connection to :memory: is a fresh database
		db.SetMaxOpenConns(1)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, path: path}
	for _, obj := range []Persistable{&PipelineRun{}, &RunIssue{}, &GameColumn{}} {
		if err := s.CreateTable(ctx, obj); err != nil {
			db.Close()
			return nil, err
		}
	}
	logger.Info("Database initialized successfully", path)
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the connection for ad hoc queries
func (s *Store) DB() *sql.DB {
	return s.db
}

// inTx runs fn in a transaction, rolling back when it fails
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
