// Package transaction wraps database/sql transactions with commit/rollback
// bookkeeping so a unit of work can be finished exactly once.
package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrAlreadyCommitted is returned when a committed transaction is used again
	ErrAlreadyCommitted = errors.New("transaction already committed")
	// ErrAlreadyRolledBack is returned when committing a rolled back transaction
	ErrAlreadyRolledBack = errors.New("transaction already rolled back")
)

// Transaction represents a top-level database transaction
type Transaction struct {
	tx         *sql.Tx
	ctx        context.Context
	committed  atomic.Bool
	rolledBack atomic.Bool
}

// Manager manages database transactions
type Manager struct {
	db *sql.DB
}

// NewManager creates a new transaction manager
func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// DB returns the managed database
func (m *Manager) DB() *sql.DB {
	return m.db
}

// Begin starts a new transaction
func (m *Manager) Begin(ctx context.Context) (*Transaction, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &Transaction{tx: tx, ctx: ctx}, nil
}

// WithTransaction executes a function within a transaction.
// Commits on success, rolls back on error or panic.
func (m *Manager) WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %w, rollback failed: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// Tx returns the underlying sql.Tx
func (t *Transaction) Tx() *sql.Tx {
	return t.tx
}

// Commit commits the transaction
func (t *Transaction) Commit() error {
	if t.committed.Load() {
		return ErrAlreadyCommitted
	}
	if t.rolledBack.Load() {
		return ErrAlreadyRolledBack
	}

	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	t.committed.Store(true)
	return nil
}

// Rollback rolls back the transaction. Rolling back twice is a no-op.
func (t *Transaction) Rollback() error {
	if t.committed.Load() {
		return ErrAlreadyCommitted
	}
	if t.rolledBack.Load() {
		return nil
	}

	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	t.rolledBack.Store(true)
	return nil
}

// Done reports whether the transaction was committed or rolled back
func (t *Transaction) Done() bool {
	return t.committed.Load() || t.rolledBack.Load()
}

// Exec executes a query that doesn't return rows
func (t *Transaction) Exec(query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(t.ctx, query, args...)
}

// Query executes a query that returns rows
func (t *Transaction) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return t.tx.QueryContext(t.ctx, query, args...)
}

// QueryRow executes a query that returns at most one row
func (t *Transaction) QueryRow(query string, args ...interface{}) *sql.Row {
	return t.tx.QueryRowContext(t.ctx, query, args...)
}

// IsCommitted returns true if the transaction has been committed
func (t *Transaction) IsCommitted() bool {
	return t.committed.Load()
}

// IsRolledBack returns true if the transaction has been rolled back
func (t *Transaction) IsRolledBack() bool {
	return t.rolledBack.Load()
}
