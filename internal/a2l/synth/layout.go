package synth

import (
	"strings"

	"github.com/a2ldb/a2ldb/internal/a2l/catalog"
	"github.com/a2ldb/a2ldb/internal/a2l/resolver"
)

// Layout records where the data of one keyword lives in the database.
// It is shared by the writer and the dumper.
type Layout struct {
	Tag     string
	Class   resolver.Class
	Keyword *catalog.Keyword

	// Table is empty for flag keywords, which only exist as parent columns.
	Table string

	// Columns holds one entry per scalar parameter in declaration order.
	Columns []ParamColumn

	// Flags maps flag child tags to boolean columns of this table.
	Flags map[string]string

	// Parents maps parent tags to the back-reference column of an entity.
	Parents map[string]string

	// Association is set for polymorphic keywords that occur more than once
	// under a parent.
	Association *Association

	ValueLists []*ValueList
}

// ParamColumn binds a scalar parameter to its column
type ParamColumn struct {
	Param  catalog.Param
	Column string
}

// Association describes the ordered link table of a multiple polymorphic keyword
type Association struct {
	Table string

	// Column is the NOT NULL back-reference on the child table
	Column string

	// Parents maps parent tags to FK columns of the association table
	Parents map[string]string
}

// ValueList describes the side table of a MULTIPLE parameter
type ValueList struct {
	Param   catalog.Param
	Table   string
	Columns []string // value columns, one per tuple field or a single one
}

// IsFlag reports whether the keyword is stored as a boolean on its parent
func (l *Layout) IsFlag() bool {
	return l.Class.IsFlag()
}

// ValueList returns the side table of a MULTIPLE parameter
func (l *Layout) ValueList(param string) (*ValueList, bool) {
	for _, vl := range l.ValueLists {
		if vl.Param.Name == param {
			return vl, true
		}
	}
	return nil, false
}

// Discriminator returns the association discriminator written for a parent tag
func Discriminator(parentTag string) string {
	return strings.ToLower(parentTag)
}

// Well-known column names
const (
	ColumnRID          = "rid"
	ColumnOwner        = "owner_rid"
	ColumnPosition     = "position"
	ColumnDiscriminant = "discriminator"
	ColumnAssociation  = "_association_rid"
)

func parentColumn(parentTag string) string {
	return "_" + strings.ToLower(parentTag) + "_rid"
}

func flagColumn(childTag string) string {
	return strings.ToLower(childTag)
}

func associationTable(tag string) string {
	return strings.ToLower(tag) + "_association"
}
