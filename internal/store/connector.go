package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"os"

	"github.com/mattn/go-sqlite3"
)

// Pragmas returns the tuning statements applied to every connection
func Pragmas(cacheMB int) []string {
	pageSize := os.Getpagesize()
	cacheSize := -(cacheMB * 1024 * 1024 / pageSize)
	return []string{
		"PRAGMA FOREIGN_KEYS=ON",
		fmt.Sprintf("PRAGMA PAGE_SIZE=%d", pageSize),
		fmt.Sprintf("PRAGMA CACHE_SIZE=%d", cacheSize),
		"PRAGMA SYNCHRONOUS=OFF",
		"PRAGMA LOCKING_MODE=EXCLUSIVE",
		"PRAGMA TEMP_STORE=MEMORY",
	}
}

// connector opens sqlite3 connections with the REGEXP function registered
// and the tuning pragmas applied
type connector struct {
	dsn    string
	driver *sqlite3.SQLiteDriver
}

func newConnector(dsn string, cacheMB int) *connector {
	pragmas := Pragmas(cacheMB)
	return &connector{
		dsn: dsn,
		driver: &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if err := conn.RegisterFunc("regexp", defaultPatterns.match, true); err != nil {
					return fmt.Errorf("failed to register REGEXP: %w", err)
				}
				for _, stmt := range pragmas {
					if _, err := conn.Exec(stmt, nil); err != nil {
						return fmt.Errorf("failed to apply %q: %w", stmt, err)
					}
				}
				return nil
			},
		},
	}
}

// Connect implements driver.Connector
func (c *connector) Connect(ctx context.Context) (driver.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.driver.Open(c.dsn)
}

// Driver implements driver.Connector
func (c *connector) Driver() driver.Driver {
	return c.driver
}
