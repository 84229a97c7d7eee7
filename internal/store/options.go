package store

import (
	"time"

	"go.uber.org/zap"

	"github.com/a2ldb/a2ldb/internal/a2l/synth"
)

// DefaultCacheMB is the page cache budget used when none is configured
const DefaultCacheMB = 4

// Extension is appended to database paths that lack it
const Extension = ".a2ldb"

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Options configures Open
type Options struct {
	// CacheMB is the page cache size in MiB
	CacheMB int

	Logger *zap.Logger

	// Schema defaults to the schema of the built-in catalog
	Schema *synth.Schema

	// Now stamps the metadata row of a fresh database
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.CacheMB <= 0 {
		o.CacheMB = DefaultCacheMB
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Schema == nil {
		o.Schema = synth.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
