// Package schema provides the relational model produced by the schema
// synthesizer: tables, columns, foreign keys and table-level constraints,
// together with the foreign-key dependency graph used to order DDL.
package schema

import (
	"errors"
	"fmt"
)

// ErrColumnConflict is returned when two columns of one table share a name
var ErrColumnConflict = errors.New("column name conflict")

// BaseType represents the storage class of a column
type BaseType int

const (
	TypeInteger BaseType = iota
	TypeFloat
	TypeText
	TypeBoolean
	TypeTimestamp
)

// String returns the string representation of the base type
func (b BaseType) String() string {
	switch b {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeText:
		return "text"
	case TypeBoolean:
		return "boolean"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// TypeSpec is a column type. Length applies to text columns only.
type TypeSpec struct {
	BaseType BaseType
	Length   int
}

// String returns a human-readable type (text(256))
func (t TypeSpec) String() string {
	if t.BaseType == TypeText && t.Length > 0 {
		return fmt.Sprintf("%s(%d)", t.BaseType, t.Length)
	}
	return t.BaseType.String()
}

// TableKind distinguishes the table shapes the synthesizer emits
type TableKind int

const (
	KindEntity TableKind = iota
	KindValueList
	KindAssociation
	KindMetadata
)

// String returns the string representation of the table kind
func (k TableKind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindValueList:
		return "value_list"
	case KindAssociation:
		return "association"
	case KindMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// Column represents a table column
type Column struct {
	Name       string
	Type       TypeSpec
	Nullable   bool
	Default    string // SQL literal, empty for none
	PrimaryKey bool
	Unique     bool
}

// Referential actions
const (
	ActionCascade = "CASCADE"
	ActionSetNull = "SET NULL"
)

// ForeignKey links a column to the primary key of another table
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
}

// CheckKind enumerates the table-level checks the synthesizer needs
type CheckKind int

const (
	// CheckAtMostOne allows at most one of the columns to be non-null
	CheckAtMostOne CheckKind = iota
	// CheckExactlyOne requires exactly one of the columns to be non-null
	CheckExactlyOne
)

// Check is a table-level constraint over a set of nullable columns
type Check struct {
	Kind    CheckKind
	Columns []string
}

// Table represents a relational table
type Table struct {
	Name        string
	Kind        TableKind
	Tag         string // owning keyword, empty for metadata
	Columns     []*Column
	ForeignKeys []*ForeignKey
	Uniques     [][]string
	Checks      []Check

	index map[string]*Column
}

// NewTable creates an empty table
func NewTable(name string, kind TableKind) *Table {
	return &Table{
		Name:  name,
		Kind:  kind,
		index: make(map[string]*Column),
	}
}

// AddColumn appends a column, failing if the name is taken
func (t *Table) AddColumn(col *Column) error {
	if t.index == nil {
		t.index = make(map[string]*Column)
	}
	if _, exists := t.index[col.Name]; exists {
		return fmt.Errorf("%w: %s.%s", ErrColumnConflict, t.Name, col.Name)
	}
	t.index[col.Name] = col
	t.Columns = append(t.Columns, col)
	return nil
}

// AddForeignKey adds a foreign key over an existing column
func (t *Table) AddForeignKey(fk *ForeignKey) error {
	if _, ok := t.Column(fk.Column); !ok {
		return fmt.Errorf("table %s: foreign key on unknown column %s", t.Name, fk.Column)
	}
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return nil
}

// AddUnique adds a multi-column unique constraint
func (t *Table) AddUnique(columns ...string) {
	t.Uniques = append(t.Uniques, columns)
}

// AddCheck adds a table-level check
func (t *Table) AddCheck(kind CheckKind, columns ...string) {
	t.Checks = append(t.Checks, Check{Kind: kind, Columns: columns})
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	col, ok := t.index[name]
	return col, ok
}

// ColumnNames returns the column names in declaration order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// ForeignKey returns the foreign key declared on a column, if any
func (t *Table) ForeignKey(column string) (*ForeignKey, bool) {
	for _, fk := range t.ForeignKeys {
		if fk.Column == column {
			return fk, true
		}
	}
	return nil, false
}

// References returns the distinct tables this table points to, excluding itself
func (t *Table) References() []string {
	seen := make(map[string]bool)
	var refs []string
	for _, fk := range t.ForeignKeys {
		if fk.RefTable == t.Name || seen[fk.RefTable] {
			continue
		}
		seen[fk.RefTable] = true
		refs = append(refs, fk.RefTable)
	}
	return refs
}
