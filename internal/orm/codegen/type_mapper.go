// Package codegen provides code generation for database schema DDL.
// It renders the synthesized relational model as CREATE TABLE statements for
// SQLite (the runtime store) and PostgreSQL.
package codegen

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/a2ldb/a2ldb/internal/orm/schema"
)

// Dialect selects the SQL flavour of the generated DDL
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// String returns the dialect name
func (d Dialect) String() string {
	switch d {
	case DialectSQLite:
		return "sqlite"
	case DialectPostgres:
		return "postgres"
	default:
		return "unknown"
	}
}

// ParseDialect converts a dialect name to a Dialect
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	default:
		return 0, fmt.Errorf("unsupported dialect: %s", s)
	}
}

// TypeMapper maps relational model types to dialect column types
type TypeMapper struct {
	dialect Dialect
}

// NewTypeMapper creates a new TypeMapper
func NewTypeMapper(dialect Dialect) *TypeMapper {
	return &TypeMapper{dialect: dialect}
}

// MapType converts a TypeSpec to a column type
func (tm *TypeMapper) MapType(typeSpec schema.TypeSpec) (string, error) {
	switch typeSpec.BaseType {
	case schema.TypeInteger:
		if tm.dialect == DialectPostgres {
			return "BIGINT", nil
		}
		return "INTEGER", nil

	case schema.TypeFloat:
		if tm.dialect == DialectPostgres {
			return "DOUBLE PRECISION", nil
		}
		return "REAL", nil

	case schema.TypeText:
		if typeSpec.Length > 0 {
			return fmt.Sprintf("VARCHAR(%d)", typeSpec.Length), nil
		}
		return "TEXT", nil

	case schema.TypeBoolean:
		return "BOOLEAN", nil

	case schema.TypeTimestamp:
		return "TIMESTAMP", nil

	default:
		return "", fmt.Errorf("unsupported type: %s", typeSpec.BaseType)
	}
}

// MapPrimaryKey returns the column definition tail of a surrogate row id
func (tm *TypeMapper) MapPrimaryKey() string {
	if tm.dialect == DialectPostgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER NOT NULL PRIMARY KEY"
}

// MapNullability returns the NULL/NOT NULL constraint for a column
func (tm *TypeMapper) MapNullability(col *schema.Column) string {
	if col.Nullable {
		return "NULL"
	}
	return "NOT NULL"
}

// MapDefault formats a column default for the dialect. Boolean defaults are
// written as "true"/"false" in the model.
func (tm *TypeMapper) MapDefault(col *schema.Column) (string, error) {
	if col.Default == "" {
		return "", nil
	}

	switch col.Type.BaseType {
	case schema.TypeBoolean:
		var v bool
		switch strings.ToLower(col.Default) {
		case "true", "1":
			v = true
		case "false", "0":
			v = false
		default:
			return "", fmt.Errorf("invalid boolean default %q", col.Default)
		}
		if tm.dialect == DialectPostgres {
			if v {
				return "TRUE", nil
			}
			return "FALSE", nil
		}
		if v {
			return "1", nil
		}
		return "0", nil

	case schema.TypeText:
		return QuoteLiteral(col.Default), nil

	default:
		return col.Default, nil
	}
}

// QuoteIdentifier wraps a SQL identifier in double quotes and escapes internal quotes
func QuoteIdentifier(identifier string) string {
	return pq.QuoteIdentifier(identifier)
}

// QuoteLiteral wraps a string literal in single quotes, doubling internal quotes
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
