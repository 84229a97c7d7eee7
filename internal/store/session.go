package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a2ldb/a2ldb/internal/a2l/model"
	"github.com/a2ldb/a2ldb/internal/orm/transaction"
)

// Session is one unit of work. Entities added to the session are written on
// Flush and made durable on Commit; nothing is visible to other readers of
// the file before Commit.
type Session struct {
	ID uuid.UUID

	db      *Database
	tx      *transaction.Transaction
	writer  *writer
	logger  *zap.Logger
	pending []*model.Entity
	roots   []int64

	closeOnce sync.Once
	closeErr  error
}

func newSession(d *Database, tx *transaction.Transaction) *Session {
	id := uuid.New()
	return &Session{
		ID:     id,
		db:     d,
		tx:     tx,
		writer: newWriter(d.schema, tx),
		logger: d.logger.With(zap.String("session", id.String())),
	}
}

// Add queues root entities for the next Flush
func (s *Session) Add(entities ...*model.Entity) {
	s.pending = append(s.pending, entities...)
}

// Pending returns the number of queued root entities
func (s *Session) Pending() int {
	return len(s.pending)
}

// Flush writes the queued entities inside the session transaction. On any
// error the transaction is rolled back and the session is unusable.
func (s *Session) Flush() error {
	if s.tx.Done() {
		return fmt.Errorf("%w: session %s is finished", ErrClosed, s.ID)
	}

	for len(s.pending) > 0 {
		e := s.pending[0]
		rid, err := s.writer.writeRoot(e)
		if err != nil {
			s.abort(err)
			return err
		}
		s.roots = append(s.roots, rid)
		s.pending = s.pending[1:]
	}
	return nil
}

// Commit flushes and commits the transaction
func (s *Session) Commit() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if err := s.tx.Commit(); err != nil {
		s.abort(err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.logger.Debug("session committed", zap.Int("rows", s.writer.rows), zap.Int("roots", len(s.roots)))
	return nil
}

// Rollback discards everything written by the session
func (s *Session) Rollback() error {
	s.pending = nil
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, transaction.ErrAlreadyCommitted) {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Close rolls back an unfinished transaction. It is safe to call repeatedly.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if !s.tx.Done() {
			s.logger.Debug("rolling back unfinished session")
			s.closeErr = s.Rollback()
		}
	})
	return s.closeErr
}

// Rows returns the number of rows written so far
func (s *Session) Rows() int {
	return s.writer.rows
}

// Roots returns the rids of the flushed root entities in order
func (s *Session) Roots() []int64 {
	return s.roots
}

// Committed reports whether the session committed
func (s *Session) Committed() bool {
	return s.tx.IsCommitted()
}

func (s *Session) abort(cause error) {
	s.pending = nil
	if err := s.tx.Rollback(); err != nil {
		s.logger.Warn("rollback failed", zap.NamedError("cause", cause), zap.Error(err))
		return
	}
	s.logger.Debug("session rolled back", zap.Error(cause))
}
