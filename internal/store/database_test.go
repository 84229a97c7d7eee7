package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2ldb/a2ldb/internal/a2l/synth"
)

var fixedNow = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func openMemory(t *testing.T) *Database {
	t.Helper()
	db, err := Open(context.Background(), MemoryPath, Options{Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ecu.a2ldb", "ecu.a2ldb"},
		{"ecu.a2l", "ecu.a2ldb"},
		{"dir/ecu", "dir/ecu.a2ldb"},
		{"dir.v2/ecu.A2L", "dir.v2/ecu.a2ldb"},
		{MemoryPath, MemoryPath},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestOpen_Memory(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	assert.True(t, db.Fresh())
	assert.Equal(t, MemoryPath, db.Path())
	assert.Same(t, synth.Default(), db.Schema())

	meta, err := db.Metadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, synth.CurrentSchemaVersion, meta.SchemaVersion)
	assert.True(t, meta.Created.Equal(fixedNow), "created = %v", meta.Created)

	counts, err := db.TableCounts(ctx)
	require.NoError(t, err)
	assert.Len(t, counts, db.Schema().Tables.Count())
	assert.Equal(t, 1, counts[synth.MetadataTable])
	assert.Equal(t, 0, counts["measurement"])
	assert.Equal(t, 0, counts["annotation_association"])
}

func TestOpen_Pragmas(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	pageSize := os.Getpagesize()
	var (
		foreignKeys, synchronous, tempStore, cacheSize, gotPageSize int
		lockingMode                                                 string
	)
	require.NoError(t, db.DB().QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys))
	require.NoError(t, db.DB().QueryRowContext(ctx, "PRAGMA synchronous").Scan(&synchronous))
	require.NoError(t, db.DB().QueryRowContext(ctx, "PRAGMA temp_store").Scan(&tempStore))
	require.NoError(t, db.DB().QueryRowContext(ctx, "PRAGMA cache_size").Scan(&cacheSize))
	require.NoError(t, db.DB().QueryRowContext(ctx, "PRAGMA page_size").Scan(&gotPageSize))
	require.NoError(t, db.DB().QueryRowContext(ctx, "PRAGMA locking_mode").Scan(&lockingMode))

	assert.Equal(t, 1, foreignKeys)
	assert.Equal(t, 0, synchronous, "OFF")
	assert.Equal(t, 2, tempStore, "MEMORY")
	assert.Equal(t, -(DefaultCacheMB*1024*1024)/pageSize, cacheSize)
	assert.Equal(t, pageSize, gotPageSize)
	assert.Equal(t, "exclusive", lockingMode)
}

func TestPragmas(t *testing.T) {
	stmts := Pragmas(8)
	require.Len(t, stmts, 6)
	assert.Equal(t, "PRAGMA FOREIGN_KEYS=ON", stmts[0])
	assert.Contains(t, stmts[2], "CACHE_SIZE=-")
	assert.Equal(t, "PRAGMA TEMP_STORE=MEMORY", stmts[5])
}

func TestOpen_Regexp(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	tests := []struct {
		value   interface{}
		pattern string
		want    bool
	}{
		{"ENGINE_SPEED", "ENGINE_.*", true},
		{"ENGINE_SPEED", "SPEED", false},
		{"ENGINE_SPEED", "engine", false},
		{"ENGINE_SPEED", "(?i)engine", true},
		{nil, ".*", false},
	}
	for _, tt := range tests {
		var got bool
		err := db.DB().QueryRowContext(ctx, "SELECT ? REGEXP ?", tt.value, tt.pattern).Scan(&got)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v REGEXP %q", tt.value, tt.pattern)
	}

	var n int
	err := db.DB().QueryRowContext(ctx, "SELECT 'x' REGEXP '('").Scan(&n)
	assert.Error(t, err, "invalid pattern must surface")
}

func TestPatternCache(t *testing.T) {
	c := newPatternCache()

	ok, err := c.match("AB+", []byte("ABBB"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.match("1", int64(12))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Len(t, c.patterns, 2)
	_, err = c.match("AB+", "x")
	require.NoError(t, err)
	assert.Len(t, c.patterns, 2)

	_, err = c.match("[", "x")
	assert.Error(t, err)
}

func TestOpen_File(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := Open(ctx, filepath.Join(dir, "ecu.a2l"), Options{Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ecu.a2ldb"), db.Path())
	assert.True(t, db.Fresh())
	require.NoError(t, db.Close())
	require.NoError(t, db.Close(), "second Close returns the first result")

	_, err = os.Stat(filepath.Join(dir, "ecu.a2ldb"))
	require.NoError(t, err)

	db, err = Open(ctx, filepath.Join(dir, "ecu.a2ldb"), Options{})
	require.NoError(t, err)
	defer db.Close()
	assert.False(t, db.Fresh())

	meta, err := db.Metadata(ctx)
	require.NoError(t, err)
	assert.True(t, meta.Created.Equal(fixedNow))
}

func TestOpen_SchemaVersionGuard(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "old.a2ldb")

	db, err := Open(ctx, path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec("UPDATE metadata SET schema_version = ?", synth.CurrentSchemaVersion-1)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)

	_, err = Open(ctx, path, Options{})
	require.ErrorIs(t, err, ErrSchemaMismatch)

	raw, err = sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer raw.Close()

	var version, rows int
	require.NoError(t, raw.QueryRow("SELECT schema_version FROM metadata").Scan(&version))
	require.NoError(t, raw.QueryRow("SELECT COUNT(*) FROM metadata").Scan(&rows))
	assert.Equal(t, synth.CurrentSchemaVersion-1, version)
	assert.Equal(t, 1, rows)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), after.Size())
}

func TestOpen_ForeignDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "other.a2ldb")

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)")
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	_, err = Open(ctx, path, Options{})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestOpenDB_Mock(t *testing.T) {
	t.Run("current version", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectQuery("SELECT name FROM sqlite_master").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("measurement").AddRow("metadata"))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT schema_version, created FROM "metadata"`)).
			WillReturnRows(sqlmock.NewRows([]string{"schema_version", "created"}).AddRow(synth.CurrentSchemaVersion, fixedNow))
		mock.ExpectClose()

		db, err := OpenDB(context.Background(), mockDB, Options{})
		require.NoError(t, err)
		assert.False(t, db.Fresh())
		require.NoError(t, db.Close())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty metadata", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectQuery("SELECT name FROM sqlite_master").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("metadata"))
		mock.ExpectQuery("SELECT schema_version").
			WillReturnRows(sqlmock.NewRows([]string{"schema_version", "created"}))
		mock.ExpectClose()

		_, err = OpenDB(context.Background(), mockDB, Options{})
		assert.ErrorIs(t, err, ErrSchemaMismatch)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("catalog read failure", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectQuery("SELECT name FROM sqlite_master").WillReturnError(sql.ErrConnDone)
		mock.ExpectClose()

		_, err = OpenDB(context.Background(), mockDB, Options{})
		assert.ErrorIs(t, err, ErrPersistence)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
