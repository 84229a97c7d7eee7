// Package synth derives the normalized relational schema of an A2L database
// from a resolved keyword catalog.
//
// Every entity keyword owns a table keyed by rid. Scalar parameters become NOT
// NULL columns, MULTIPLE parameters get ordered side tables, marker children
// become boolean columns. Entities and single-valued polymorphic keywords point
// at their owner through one nullable `_<parent>_rid` column per possible
// parent; multiple polymorphic keywords go through an ordered association
// table.
package synth

import (
	"fmt"
	"sync"

	"github.com/a2ldb/a2ldb/internal/a2l/catalog"
	"github.com/a2ldb/a2ldb/internal/a2l/resolver"
	"github.com/a2ldb/a2ldb/internal/orm/codegen"
	"github.com/a2ldb/a2ldb/internal/orm/schema"
)

// CurrentSchemaVersion is stamped into the metadata table of every database
const CurrentSchemaVersion = 11

// MetadataTable is the name of the single-row version table
const MetadataTable = "metadata"

// ErrColumnConflict is returned when two columns of one table share a name
var ErrColumnConflict = schema.ErrColumnConflict

// Text column widths
const (
	StringLength = 256
	IdentLength  = 1025
)

// Schema is the synthesized relational schema together with per-keyword layouts
type Schema struct {
	Tables     *schema.Registry
	Layouts    map[string]*Layout
	Resolution *resolver.Resolution
}

// ColumnType maps an A2L parameter type to a column type
func ColumnType(t catalog.Type) schema.TypeSpec {
	switch t {
	case catalog.Uint, catalog.Int, catalog.Ulong, catalog.Long:
		return schema.TypeSpec{BaseType: schema.TypeInteger}
	case catalog.Float:
		return schema.TypeSpec{BaseType: schema.TypeFloat}
	case catalog.String, catalog.Enum, catalog.Byteorder:
		return schema.TypeSpec{BaseType: schema.TypeText, Length: StringLength}
	default:
		return schema.TypeSpec{BaseType: schema.TypeText, Length: IdentLength}
	}
}

func ridColumn() *schema.Column {
	return &schema.Column{Name: ColumnRID, Type: schema.TypeSpec{BaseType: schema.TypeInteger}, PrimaryKey: true}
}

func fkColumn(name string, nullable bool) *schema.Column {
	return &schema.Column{Name: name, Type: schema.TypeSpec{BaseType: schema.TypeInteger}, Nullable: nullable}
}

// Synthesize builds the relational schema of a resolved catalog
func Synthesize(res *resolver.Resolution) (*Schema, error) {
	s := &Schema{
		Tables:     schema.NewRegistry(),
		Layouts:    make(map[string]*Layout),
		Resolution: res,
	}

	if err := s.Tables.Register(metadataTable()); err != nil {
		return nil, err
	}

	for _, tag := range res.Order() {
		if err := s.addKeyword(tag); err != nil {
			return nil, fmt.Errorf("keyword %s: %w", tag, err)
		}
	}

	if err := s.Tables.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func metadataTable() *schema.Table {
	t := schema.NewTable(MetadataTable, schema.KindMetadata)
	t.AddColumn(ridColumn())
	t.AddColumn(&schema.Column{Name: "schema_version", Type: schema.TypeSpec{BaseType: schema.TypeInteger}})
	t.AddColumn(&schema.Column{Name: "created", Type: schema.TypeSpec{BaseType: schema.TypeTimestamp}})
	return t
}

func (s *Schema) addKeyword(tag string) error {
	res := s.Resolution
	kw, err := res.Catalog().Lookup(tag)
	if err != nil {
		return err
	}
	class, err := res.Class(tag)
	if err != nil {
		return err
	}

	layout := &Layout{
		Tag:     tag,
		Class:   class,
		Keyword: kw,
		Flags:   make(map[string]string),
		Parents: make(map[string]string),
	}
	s.Layouts[tag] = layout
	if class.IsFlag() {
		return nil
	}

	layout.Table = kw.LowerName()
	table := schema.NewTable(layout.Table, schema.KindEntity)
	table.Tag = tag
	if err := table.AddColumn(ridColumn()); err != nil {
		return err
	}

	for _, p := range kw.ScalarParams() {
		if err := table.AddColumn(&schema.Column{Name: p.Name, Type: ColumnType(p.Type)}); err != nil {
			return err
		}
		layout.Columns = append(layout.Columns, ParamColumn{Param: p, Column: p.Name})
	}

	for _, elem := range kw.Children {
		childClass, err := res.Class(elem.Tag)
		if err != nil {
			return err
		}
		if !childClass.IsFlag() {
			continue
		}
		col := flagColumn(elem.Tag)
		if err := table.AddColumn(&schema.Column{
			Name:    col,
			Type:    schema.TypeSpec{BaseType: schema.TypeBoolean},
			Default: "false",
		}); err != nil {
			return err
		}
		layout.Flags[elem.Tag] = col
	}

	parents := res.ReferencedBy(tag)
	switch {
	case class == resolver.Entity, class == resolver.PolymorphicEntity && !kw.Multiple:
		var cols []string
		for _, parent := range parents {
			col := parentColumn(parent)
			if err := table.AddColumn(fkColumn(col, true)); err != nil {
				return err
			}
			if err := table.AddForeignKey(&schema.ForeignKey{
				Column:    col,
				RefTable:  childTable(res, parent),
				RefColumn: ColumnRID,
				OnDelete:  schema.ActionCascade,
			}); err != nil {
				return err
			}
			layout.Parents[parent] = col
			cols = append(cols, col)
		}
		switch {
		case class == resolver.PolymorphicEntity:
			// one row per owner, and every row has exactly one owner
			for _, col := range cols {
				table.AddUnique(col)
			}
			table.AddCheck(schema.CheckExactlyOne, cols...)
		case len(cols) > 1:
			table.AddCheck(schema.CheckAtMostOne, cols...)
		}

	case class == resolver.PolymorphicEntity && kw.Multiple:
		assoc, err := s.addAssociation(tag, parents)
		if err != nil {
			return err
		}
		if err := table.AddColumn(&schema.Column{
			Name:   ColumnAssociation,
			Type:   schema.TypeSpec{BaseType: schema.TypeInteger},
			Unique: true,
		}); err != nil {
			return err
		}
		if err := table.AddForeignKey(&schema.ForeignKey{
			Column:    ColumnAssociation,
			RefTable:  assoc.Table,
			RefColumn: ColumnRID,
			OnDelete:  schema.ActionCascade,
		}); err != nil {
			return err
		}
		layout.Association = assoc
	}

	if err := s.Tables.Register(table); err != nil {
		return err
	}

	for _, p := range kw.MultipleParams() {
		vl, err := s.addValueList(layout.Table, p)
		if err != nil {
			return err
		}
		layout.ValueLists = append(layout.ValueLists, vl)
	}
	return nil
}

func (s *Schema) addAssociation(tag string, parents []string) (*Association, error) {
	assoc := &Association{
		Table:   associationTable(tag),
		Column:  ColumnAssociation,
		Parents: make(map[string]string),
	}

	table := schema.NewTable(assoc.Table, schema.KindAssociation)
	table.Tag = tag
	table.AddColumn(ridColumn())
	table.AddColumn(&schema.Column{Name: ColumnPosition, Type: schema.TypeSpec{BaseType: schema.TypeInteger}})
	table.AddColumn(&schema.Column{Name: ColumnDiscriminant, Type: schema.TypeSpec{BaseType: schema.TypeText, Length: StringLength}})

	var cols []string
	for _, parent := range parents {
		col := parentColumn(parent)
		if err := table.AddColumn(fkColumn(col, true)); err != nil {
			return nil, err
		}
		if err := table.AddForeignKey(&schema.ForeignKey{
			Column:    col,
			RefTable:  childTable(s.Resolution, parent),
			RefColumn: ColumnRID,
			OnDelete:  schema.ActionCascade,
		}); err != nil {
			return nil, err
		}
		table.AddUnique(col, ColumnPosition)
		assoc.Parents[parent] = col
		cols = append(cols, col)
	}
	table.AddCheck(schema.CheckExactlyOne, cols...)

	if err := s.Tables.Register(table); err != nil {
		return nil, err
	}
	return assoc, nil
}

func (s *Schema) addValueList(owner string, p catalog.Param) (*ValueList, error) {
	vl := &ValueList{Param: p, Table: p.Table}

	table := schema.NewTable(p.Table, schema.KindValueList)
	table.AddColumn(ridColumn())
	table.AddColumn(fkColumn(ColumnOwner, false))
	table.AddColumn(&schema.Column{Name: ColumnPosition, Type: schema.TypeSpec{BaseType: schema.TypeInteger}})

	fields := p.Fields
	if !p.IsTuple() {
		fields = []catalog.Param{{Name: p.Name, Type: p.Type}}
	}
	for _, f := range fields {
		if err := table.AddColumn(&schema.Column{Name: f.Name, Type: ColumnType(f.Type)}); err != nil {
			return nil, err
		}
		vl.Columns = append(vl.Columns, f.Name)
	}

	table.AddForeignKey(&schema.ForeignKey{
		Column:    ColumnOwner,
		RefTable:  owner,
		RefColumn: ColumnRID,
		OnDelete:  schema.ActionCascade,
	})
	table.AddUnique(ColumnOwner, ColumnPosition)

	if err := s.Tables.Register(table); err != nil {
		return nil, err
	}
	return vl, nil
}

func childTable(res *resolver.Resolution, tag string) string {
	kw, err := res.Catalog().Lookup(tag)
	if err != nil {
		return tag
	}
	return kw.LowerName()
}

// Layout returns the layout of a keyword
func (s *Schema) Layout(tag string) (*Layout, error) {
	layout, ok := s.Layouts[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownKeyword, tag)
	}
	return layout, nil
}

// DDL renders the schema for a dialect
func (s *Schema) DDL(dialect codegen.Dialect) ([]string, error) {
	return codegen.NewDDLGenerator(dialect).GenerateSchema(s.Tables)
}

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
)

// Default synthesizes the schema of the default catalog once
func Default() *Schema {
	defaultOnce.Do(func() {
		s, err := Synthesize(resolver.Default())
		if err != nil {
			panic(fmt.Sprintf("synth: built-in catalog does not synthesize: %v", err))
		}
		defaultSchema = s
	})
	return defaultSchema
}
