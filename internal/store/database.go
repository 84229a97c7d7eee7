// Package store manages .a2ldb database files: connection setup, schema
// creation, the schema version guard and write sessions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/a2ldb/a2ldb/internal/a2l/synth"
	"github.com/a2ldb/a2ldb/internal/orm/codegen"
	"github.com/a2ldb/a2ldb/internal/orm/transaction"
)

// Metadata is the content of the metadata row
type Metadata struct {
	SchemaVersion int
	Created       time.Time
}

// Database is an open .a2ldb file
type Database struct {
	db      *sql.DB
	path    string
	schema  *synth.Schema
	logger  *zap.Logger
	manager *transaction.Manager
	now     func() time.Time

	fresh bool

	mu      sync.Mutex
	session *Session

	closeOnce sync.Once
	closeErr  error
	closed    bool
}

// NormalizePath enforces the .a2ldb extension. The in-memory path is kept.
func NormalizePath(path string) string {
	if path == MemoryPath || path == "" {
		return path
	}
	ext := filepath.Ext(path)
	if ext == Extension {
		return path
	}
	return strings.TrimSuffix(path, ext) + Extension
}

// Open opens or creates a database file. A fresh file receives the schema
// and a metadata row; an existing file must carry the current schema version.
func Open(ctx context.Context, path string, opts Options) (*Database, error) {
	opts = opts.withDefaults()
	path = NormalizePath(path)
	if path == "" {
		path = MemoryPath
	}

	db := sql.OpenDB(newConnector(path, opts.CacheMB))
	d, err := open(ctx, db, path, opts)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// OpenDB runs the same initialization as Open over an existing pool
func OpenDB(ctx context.Context, db *sql.DB, opts Options) (*Database, error) {
	return open(ctx, db, "", opts.withDefaults())
}

func open(ctx context.Context, db *sql.DB, path string, opts Options) (*Database, error) {
	// Pragmas are per connection and LOCKING_MODE=EXCLUSIVE holds the file,
	// so the pool is pinned to a single long-lived connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &Database{
		db:      db,
		path:    path,
		schema:  opts.Schema,
		logger:  opts.Logger.With(zap.String("path", path)),
		manager: transaction.NewManager(db),
		now:     opts.Now,
	}

	if err := d.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	tables, err := d.tableNames(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading catalog: %v", ErrPersistence, err)
	}

	if len(tables) == 0 {
		return d.create(ctx)
	}
	if !contains(tables, synth.MetadataTable) {
		return fmt.Errorf("%w: database has %d tables but no %s table", ErrSchemaMismatch, len(tables), synth.MetadataTable)
	}

	meta, err := d.Metadata(ctx)
	if err != nil {
		return err
	}
	if meta.SchemaVersion != synth.CurrentSchemaVersion {
		d.logger.Warn("schema version mismatch",
			zap.Int("found", meta.SchemaVersion),
			zap.Int("expected", synth.CurrentSchemaVersion),
		)
		return fmt.Errorf("%w: file has version %d, expected %d", ErrSchemaMismatch, meta.SchemaVersion, synth.CurrentSchemaVersion)
	}

	d.logger.Debug("opened database",
		zap.Int("schema_version", meta.SchemaVersion),
		zap.Time("created", meta.Created),
	)
	return nil
}

func (d *Database) create(ctx context.Context) error {
	stmts, err := d.schema.DDL(codegen.DialectSQLite)
	if err != nil {
		return err
	}

	err = d.manager.WithTransaction(ctx, func(tx *transaction.Transaction) error {
		for _, stmt := range stmts {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
		}
		_, err := tx.Exec(
			fmt.Sprintf("INSERT INTO %s (schema_version, created) VALUES (?, ?)", codegen.QuoteIdentifier(synth.MetadataTable)),
			synth.CurrentSchemaVersion, d.now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("%w: writing metadata: %v", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.fresh = true
	d.logger.Info("created database",
		zap.Int("tables", d.schema.Tables.Count()),
		zap.Int("schema_version", synth.CurrentSchemaVersion),
	)
	return nil
}

func (d *Database) tableNames(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Metadata reads the metadata row
func (d *Database) Metadata(ctx context.Context) (Metadata, error) {
	var meta Metadata
	err := d.queryRow(ctx,
		fmt.Sprintf("SELECT schema_version, created FROM %s ORDER BY rid LIMIT 1", codegen.QuoteIdentifier(synth.MetadataTable)),
	).Scan(&meta.SchemaVersion, &meta.Created)
	if err == sql.ErrNoRows {
		return meta, fmt.Errorf("%w: %s table is empty", ErrSchemaMismatch, synth.MetadataTable)
	}
	if err != nil {
		return meta, fmt.Errorf("%w: reading metadata: %v", ErrPersistence, err)
	}
	return meta, nil
}

// TableCounts returns the row count of every synthesized table
func (d *Database) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, d.schema.Tables.Count())
	for _, name := range d.schema.Tables.List() {
		var n int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", codegen.QuoteIdentifier(name))
		if err := d.queryRow(ctx, query).Scan(&n); err != nil {
			return nil, fmt.Errorf("%w: counting %s: %v", ErrPersistence, name, err)
		}
		counts[name] = n
	}
	return counts, nil
}

// Query runs a read query. While a session is open the query runs inside its
// transaction, since the pool holds a single connection.
func (d *Database) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if tx := d.activeTx(); tx != nil {
		return tx.Tx().QueryContext(ctx, query, args...)
	}
	return d.db.QueryContext(ctx, query, args...)
}

func (d *Database) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	if tx := d.activeTx(); tx != nil {
		return tx.Tx().QueryRowContext(ctx, query, args...)
	}
	return d.db.QueryRowContext(ctx, query, args...)
}

func (d *Database) activeTx() *transaction.Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil || d.session.tx.Done() {
		return nil
	}
	return d.session.tx
}

// NewSession starts a unit of work. Only one session may be open at a time.
func (d *Database) NewSession(ctx context.Context) (*Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if d.session != nil && !d.session.tx.Done() {
		return nil, fmt.Errorf("session %s is still open", d.session.ID)
	}

	tx, err := d.manager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s := newSession(d, tx)
	d.session = s
	d.logger.Debug("session started", zap.String("session", s.ID.String()))
	return s, nil
}

// Close closes the current session and releases the connection. Calling
// Close more than once returns the first result.
func (d *Database) Close() error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		s := d.session
		d.closed = true
		d.mu.Unlock()

		if s != nil {
			if err := s.Close(); err != nil {
				d.logger.Warn("closing session", zap.Error(err))
			}
		}
		d.closeErr = d.db.Close()
		d.logger.Debug("database closed")
	})
	return d.closeErr
}

// Fresh reports whether Open created the schema
func (d *Database) Fresh() bool {
	return d.fresh
}

// Path returns the normalized file path, empty for OpenDB
func (d *Database) Path() string {
	return d.path
}

// Schema returns the schema the database was opened with
func (d *Database) Schema() *synth.Schema {
	return d.schema
}

// Logger returns the database logger
func (d *Database) Logger() *zap.Logger {
	return d.logger
}

// DB returns the underlying pool
func (d *Database) DB() *sql.DB {
	return d.db
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
