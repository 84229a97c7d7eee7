package codegen

import (
	"fmt"
	"strings"

	"github.com/a2ldb/a2ldb/internal/orm/schema"
)

// ConstraintGenerator renders table-level constraints inside CREATE TABLE
type ConstraintGenerator struct{}

// NewConstraintGenerator creates a new constraint generator
func NewConstraintGenerator() *ConstraintGenerator {
	return &ConstraintGenerator{}
}

// GenerateTableConstraints returns the constraint clauses of a table:
// foreign keys, then unique constraints, then checks, each in declaration order.
func (g *ConstraintGenerator) GenerateTableConstraints(table *schema.Table) ([]string, error) {
	var clauses []string

	for _, fk := range table.ForeignKeys {
		clause, err := g.GenerateForeignKey(fk)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table.Name, err)
		}
		clauses = append(clauses, clause)
	}

	for _, cols := range table.Uniques {
		clauses = append(clauses, fmt.Sprintf("UNIQUE (%s)", quoteList(cols)))
	}

	for _, check := range table.Checks {
		clause, err := g.GenerateCheck(check)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table.Name, err)
		}
		clauses = append(clauses, clause)
	}

	return clauses, nil
}

// GenerateForeignKey renders a FOREIGN KEY clause
func (g *ConstraintGenerator) GenerateForeignKey(fk *schema.ForeignKey) (string, error) {
	if fk.RefTable == "" || fk.RefColumn == "" {
		return "", fmt.Errorf("foreign key on %s has no target", fk.Column)
	}

	clause := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
		QuoteIdentifier(fk.Column), QuoteIdentifier(fk.RefTable), QuoteIdentifier(fk.RefColumn))

	switch fk.OnDelete {
	case "":
	case schema.ActionCascade, schema.ActionSetNull:
		clause += " ON DELETE " + fk.OnDelete
	default:
		return "", fmt.Errorf("unsupported referential action %q", fk.OnDelete)
	}
	return clause, nil
}

// GenerateCheck renders a CHECK clause counting non-null columns
func (g *ConstraintGenerator) GenerateCheck(check schema.Check) (string, error) {
	if len(check.Columns) == 0 {
		return "", fmt.Errorf("check without columns")
	}

	terms := make([]string, len(check.Columns))
	for i, col := range check.Columns {
		terms[i] = fmt.Sprintf("CASE WHEN %s IS NULL THEN 0 ELSE 1 END", QuoteIdentifier(col))
	}
	sum := strings.Join(terms, " + ")

	switch check.Kind {
	case schema.CheckAtMostOne:
		return fmt.Sprintf("CHECK ((%s) <= 1)", sum), nil
	case schema.CheckExactlyOne:
		return fmt.Sprintf("CHECK ((%s) = 1)", sum), nil
	default:
		return "", fmt.Errorf("unsupported check kind %d", check.Kind)
	}
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = QuoteIdentifier(name)
	}
	return strings.Join(quoted, ", ")
}
