package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/a2ldb/a2ldb/internal/a2l/model"
	"github.com/a2ldb/a2ldb/internal/a2l/resolver"
	"github.com/a2ldb/a2ldb/internal/a2l/synth"
	"github.com/a2ldb/a2ldb/internal/orm/codegen"
	"github.com/a2ldb/a2ldb/internal/orm/transaction"
)

// writer inserts entity graphs according to the synthesized layouts
type writer struct {
	schema *synth.Schema
	tx     *transaction.Transaction
	rows   int
}

func newWriter(s *synth.Schema, tx *transaction.Transaction) *writer {
	return &writer{schema: s, tx: tx}
}

// writeRoot stores a top-level entity and everything below it
func (w *writer) writeRoot(e *model.Entity) (int64, error) {
	layout, err := w.schema.Layout(e.Tag())
	if err != nil {
		return 0, err
	}
	if layout.IsFlag() || layout.Class == resolver.PolymorphicEntity {
		return 0, fmt.Errorf("%w: %s cannot be stored without a parent", model.ErrUnexpectedChild, e.Tag())
	}
	return w.write(e, nil)
}

// write inserts e with the given link columns set, then its value lists and
// children. Children reference e, so e is always inserted first.
func (w *writer) write(e *model.Entity, link map[string]int64) (int64, error) {
	layout, err := w.schema.Layout(e.Tag())
	if err != nil {
		return 0, err
	}

	var (
		cols []string
		args []interface{}
	)

	for _, pc := range layout.Columns {
		v, ok := e.Values[pc.Param.Name]
		if !ok {
			return 0, fmt.Errorf("%w: %s.%s", model.ErrMissingParameter, e.Tag(), pc.Param.Name)
		}
		cols = append(cols, pc.Column)
		args = append(args, v)
	}

	for _, tag := range sortedKeys(layout.Flags) {
		cols = append(cols, layout.Flags[tag])
		args = append(args, e.Flags[tag])
	}

	linkCols := make([]string, 0, len(link))
	for col := range link {
		linkCols = append(linkCols, col)
	}
	sort.Strings(linkCols)
	for _, col := range linkCols {
		cols = append(cols, col)
		args = append(args, link[col])
	}

	rid, err := w.insert(layout.Table, cols, args)
	if err != nil {
		return 0, err
	}

	for _, vl := range layout.ValueLists {
		if err := w.writeValueList(vl, rid, e.Lists[vl.Param.Name]); err != nil {
			return 0, err
		}
	}

	positions := make(map[string]int64)
	for _, child := range e.Children {
		childLayout, err := w.schema.Layout(child.Tag())
		if err != nil {
			return 0, err
		}

		switch {
		case childLayout.Association != nil:
			col, ok := childLayout.Association.Parents[e.Tag()]
			if !ok {
				return 0, fmt.Errorf("%w: %s under %s", model.ErrUnexpectedChild, child.Tag(), e.Tag())
			}
			pos := positions[child.Tag()]
			positions[child.Tag()]++
			assocRid, err := w.insert(childLayout.Association.Table,
				[]string{synth.ColumnPosition, synth.ColumnDiscriminant, col},
				[]interface{}{pos, synth.Discriminator(e.Tag()), rid},
			)
			if err != nil {
				return 0, err
			}
			if _, err := w.write(child, map[string]int64{childLayout.Association.Column: assocRid}); err != nil {
				return 0, err
			}

		case childLayout.Class == resolver.Entity, childLayout.Class == resolver.PolymorphicEntity:
			col, ok := childLayout.Parents[e.Tag()]
			if !ok {
				return 0, fmt.Errorf("%w: %s under %s", model.ErrUnexpectedChild, child.Tag(), e.Tag())
			}
			if _, err := w.write(child, map[string]int64{col: rid}); err != nil {
				return 0, err
			}

		default:
			return 0, fmt.Errorf("%w: %s (%s) under %s", model.ErrUnexpectedChild, child.Tag(), childLayout.Class, e.Tag())
		}
	}
	return rid, nil
}

func (w *writer) writeValueList(vl *synth.ValueList, owner int64, items []any) error {
	cols := append([]string{synth.ColumnOwner, synth.ColumnPosition}, vl.Columns...)
	for i, item := range items {
		args := []interface{}{owner, i}
		if tuple, ok := item.([]any); ok {
			if len(tuple) != len(vl.Columns) {
				return fmt.Errorf("%w: %s item %d has %d fields", model.ErrInvalidValue, vl.Table, i, len(tuple))
			}
			args = append(args, tuple...)
		} else {
			args = append(args, item)
		}
		if _, err := w.insert(vl.Table, cols, args); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) insert(table string, cols []string, args []interface{}) (int64, error) {
	var query string
	if len(cols) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", codegen.QuoteIdentifier(table))
	} else {
		quoted := make([]string, len(cols))
		for i, c := range cols {
			quoted[i] = codegen.QuoteIdentifier(c)
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			codegen.QuoteIdentifier(table),
			strings.Join(quoted, ", "),
			strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
		)
	}

	res, err := w.tx.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: insert into %s: %v", ErrPersistence, table, err)
	}
	rid, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %s rid: %v", ErrPersistence, table, err)
	}
	w.rows++
	return rid, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
