package codegen

import (
	"fmt"

	"github.com/a2ldb/a2ldb/internal/orm/schema"
)

// IndexGenerator generates CREATE INDEX statements
type IndexGenerator struct{}

// NewIndexGenerator creates a new index generator
func NewIndexGenerator() *IndexGenerator {
	return &IndexGenerator{}
}

// GenerateForeignKeyIndexes generates indexes on foreign key columns that are
// not already covered by a unique constraint leading with that column.
func (g *IndexGenerator) GenerateForeignKeyIndexes(table *schema.Table) []string {
	covered := make(map[string]bool)
	for _, cols := range table.Uniques {
		if len(cols) > 0 {
			covered[cols[0]] = true
		}
	}
	for _, col := range table.Columns {
		if col.Unique || col.PrimaryKey {
			covered[col.Name] = true
		}
	}

	var indexes []string
	for _, fk := range table.ForeignKeys {
		if covered[fk.Column] {
			continue
		}
		indexName := fmt.Sprintf("idx_%s_%s", table.Name, fk.Column)
		indexes = append(indexes,
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s);",
				QuoteIdentifier(indexName), QuoteIdentifier(table.Name), QuoteIdentifier(fk.Column)))
		covered[fk.Column] = true
	}

	return indexes
}
