package codegen

import (
	"fmt"
	"strings"

	"github.com/a2ldb/a2ldb/internal/orm/schema"
)

// DDLGenerator generates DDL statements from a table registry
type DDLGenerator struct {
	dialect     Dialect
	typeMapper  *TypeMapper
	constraints *ConstraintGenerator
	indexes     *IndexGenerator
}

// NewDDLGenerator creates a new DDL generator for a dialect
func NewDDLGenerator(dialect Dialect) *DDLGenerator {
	return &DDLGenerator{
		dialect:     dialect,
		typeMapper:  NewTypeMapper(dialect),
		constraints: NewConstraintGenerator(),
		indexes:     NewIndexGenerator(),
	}
}

// Dialect returns the generator's dialect
func (g *DDLGenerator) Dialect() Dialect {
	return g.dialect
}

// GenerateCreateTable generates a CREATE TABLE statement for a table
func (g *DDLGenerator) GenerateCreateTable(table *schema.Table) (string, error) {
	if table == nil {
		return "", fmt.Errorf("table cannot be nil")
	}
	if len(table.Columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", table.Name)
	}

	lines := make([]string, 0, len(table.Columns)+len(table.ForeignKeys))
	for _, col := range table.Columns {
		def, err := g.generateColumnDefinition(col)
		if err != nil {
			return "", fmt.Errorf("table %s column %s: %w", table.Name, col.Name, err)
		}
		lines = append(lines, def)
	}

	clauses, err := g.constraints.GenerateTableConstraints(table)
	if err != nil {
		return "", err
	}
	lines = append(lines, clauses...)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n", QuoteIdentifier(table.Name)))
	for i, line := range lines {
		b.WriteString("  ")
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");")

	return b.String(), nil
}

// generateColumnDefinition generates a column definition
func (g *DDLGenerator) generateColumnDefinition(col *schema.Column) (string, error) {
	if col.PrimaryKey {
		return QuoteIdentifier(col.Name) + " " + g.typeMapper.MapPrimaryKey(), nil
	}

	columnType, err := g.typeMapper.MapType(col.Type)
	if err != nil {
		return "", fmt.Errorf("mapping type: %w", err)
	}

	parts := []string{QuoteIdentifier(col.Name), columnType, g.typeMapper.MapNullability(col)}

	defaultValue, err := g.typeMapper.MapDefault(col)
	if err != nil {
		return "", fmt.Errorf("mapping default value: %w", err)
	}
	if defaultValue != "" {
		parts = append(parts, "DEFAULT "+defaultValue)
	}

	if col.Unique {
		parts = append(parts, "UNIQUE")
	}

	return strings.Join(parts, " "), nil
}

// GenerateSchema generates CREATE TABLE and CREATE INDEX statements for every
// table of the registry. Tables are emitted in foreign-key dependency order
// with ties broken by name, so the output is deterministic.
func (g *DDLGenerator) GenerateSchema(registry *schema.Registry) ([]string, error) {
	if err := registry.Validate(); err != nil {
		return nil, err
	}

	order, err := registry.DependencyOrder()
	if err != nil {
		return nil, err
	}

	var statements []string
	for _, name := range order {
		table, _ := registry.Get(name)

		createTable, err := g.GenerateCreateTable(table)
		if err != nil {
			return nil, err
		}
		statements = append(statements, createTable)
		statements = append(statements, g.indexes.GenerateForeignKeyIndexes(table)...)
	}

	return statements, nil
}

// Generate returns the whole schema as one script
func (g *DDLGenerator) Generate(registry *schema.Registry) (string, error) {
	statements, err := g.GenerateSchema(registry)
	if err != nil {
		return "", err
	}
	return strings.Join(statements, "\n\n") + "\n", nil
}

// GenerateDropTable generates a DROP TABLE statement
func (g *DDLGenerator) GenerateDropTable(table *schema.Table) string {
	if g.dialect == DialectPostgres {
		return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", QuoteIdentifier(table.Name))
	}
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", QuoteIdentifier(table.Name))
}
