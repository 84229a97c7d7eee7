// Package dump reads an a2ldb database back into parser nodes. Children come
// out in catalog order, and within one tag in insertion order, so dumping,
// reloading and dumping again yields the same trees.
package dump

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/a2ldb/a2ldb/internal/a2l/catalog"
	"github.com/a2ldb/a2ldb/internal/a2l/model"
	"github.com/a2ldb/a2ldb/internal/a2l/resolver"
	"github.com/a2ldb/a2ldb/internal/a2l/synth"
	"github.com/a2ldb/a2ldb/internal/orm/codegen"
)

// Querier is satisfied by *sql.DB and *sql.Tx
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Dumper reads entity rows according to the synthesized layouts
type Dumper struct {
	schema *synth.Schema
	q      Querier
}

// New creates a dumper
func New(s *synth.Schema, q Querier) *Dumper {
	return &Dumper{schema: s, q: q}
}

type record struct {
	rid    int64
	values []any
	flags  map[string]bool
}

// Roots returns every stored root entity as a node tree. Root tags are visited
// in resolution order and rows of one tag in rid order.
func (d *Dumper) Roots(ctx context.Context) ([]*model.Node, error) {
	var out []*model.Node
	for _, tag := range d.schema.Resolution.Order() {
		layout, err := d.schema.Layout(tag)
		if err != nil {
			return nil, err
		}
		if layout.Class != resolver.Entity {
			continue
		}

		records, err := d.selectRecords(ctx, layout, "", rootCondition(layout))
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			n, err := d.node(ctx, layout, rec)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// Tag returns the node trees of every row of one keyword, wherever it is attached
func (d *Dumper) Tag(ctx context.Context, tag string) ([]*model.Node, error) {
	layout, err := d.schema.Layout(tag)
	if err != nil {
		return nil, err
	}
	if layout.IsFlag() {
		return nil, fmt.Errorf("%s is stored as a flag column, not a table", tag)
	}
	records, err := d.selectRecords(ctx, layout, "", "ORDER BY c.rid")
	if err != nil {
		return nil, err
	}
	out := make([]*model.Node, 0, len(records))
	for _, rec := range records {
		n, err := d.node(ctx, layout, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// rootCondition selects rows that no parent owns
func rootCondition(layout *synth.Layout) string {
	var conds []string
	for _, parent := range sortedKeys(layout.Parents) {
		conds = append(conds, fmt.Sprintf("c.%s IS NULL", codegen.QuoteIdentifier(layout.Parents[parent])))
	}
	if len(conds) == 0 {
		return "ORDER BY c.rid"
	}
	return "WHERE " + strings.Join(conds, " AND ") + " ORDER BY c.rid"
}

// selectRecords reads rows of a layout table aliased as c. All rows are read
// before returning so nested queries never compete for the connection.
func (d *Dumper) selectRecords(ctx context.Context, layout *synth.Layout, join, tail string, args ...interface{}) ([]record, error) {
	flagTags := sortedKeys(layout.Flags)

	cols := []string{"c.rid"}
	for _, pc := range layout.Columns {
		cols = append(cols, "c."+codegen.QuoteIdentifier(pc.Column))
	}
	for _, tag := range flagTags {
		cols = append(cols, "c."+codegen.QuoteIdentifier(layout.Flags[tag]))
	}

	query := fmt.Sprintf("SELECT %s FROM %s c %s%s",
		strings.Join(cols, ", "), codegen.QuoteIdentifier(layout.Table), join, tail)

	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", layout.Table, err)
	}
	defer rows.Close()

	var out []record
	for rows.Next() {
		dest := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("reading %s: %w", layout.Table, err)
		}

		rid, err := cast.ToInt64E(dest[0])
		if err != nil {
			return nil, fmt.Errorf("reading %s rid: %w", layout.Table, err)
		}
		rec := record{
			rid:    rid,
			values: dest[1 : 1+len(layout.Columns)],
			flags:  make(map[string]bool, len(flagTags)),
		}
		offset := 1 + len(layout.Columns)
		for i, tag := range flagTags {
			set, err := cast.ToBoolE(dest[offset+i])
			if err != nil {
				return nil, fmt.Errorf("reading %s.%s: %w", layout.Table, layout.Flags[tag], err)
			}
			rec.flags[tag] = set
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *Dumper) node(ctx context.Context, layout *synth.Layout, rec record) (*model.Node, error) {
	n := &model.Node{Tag: layout.Tag}

	for i, pc := range layout.Columns {
		v, err := normalize(pc.Param.Type, rec.values[i])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", layout.Tag, pc.Param.Name, err)
		}
		if n.Params == nil {
			n.Params = make(map[string]any, len(layout.Columns))
		}
		n.Params[pc.Param.Name] = v
	}

	for _, vl := range layout.ValueLists {
		items, err := d.valueList(ctx, vl, rec.rid)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			continue
		}
		if len(layout.ValueLists) == 1 {
			n.Items = items
			continue
		}
		if n.Params == nil {
			n.Params = make(map[string]any)
		}
		n.Params[vl.Param.Name] = items
	}

	for _, elem := range layout.Keyword.Children {
		children, err := d.children(ctx, layout, rec, elem.Tag)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, children...)
	}
	return n, nil
}

func (d *Dumper) children(ctx context.Context, parent *synth.Layout, rec record, tag string) ([]*model.Node, error) {
	layout, err := d.schema.Layout(tag)
	if err != nil {
		return nil, err
	}

	switch {
	case layout.IsFlag():
		if rec.flags[tag] {
			return []*model.Node{{Tag: tag}}, nil
		}
		return nil, nil

	case layout.Association != nil:
		col, ok := layout.Association.Parents[parent.Tag]
		if !ok {
			return nil, nil
		}
		join := fmt.Sprintf("JOIN %s a ON c.%s = a.rid ",
			codegen.QuoteIdentifier(layout.Association.Table), codegen.QuoteIdentifier(layout.Association.Column))
		tail := fmt.Sprintf("WHERE a.%s = ? ORDER BY a.%s", codegen.QuoteIdentifier(col), codegen.QuoteIdentifier(synth.ColumnPosition))
		return d.nodes(ctx, layout, join, tail, rec.rid)

	default:
		col, ok := layout.Parents[parent.Tag]
		if !ok {
			return nil, nil
		}
		return d.nodes(ctx, layout, "", fmt.Sprintf("WHERE c.%s = ? ORDER BY c.rid", codegen.QuoteIdentifier(col)), rec.rid)
	}
}

func (d *Dumper) nodes(ctx context.Context, layout *synth.Layout, join, tail string, args ...interface{}) ([]*model.Node, error) {
	records, err := d.selectRecords(ctx, layout, join, tail, args...)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Node, 0, len(records))
	for _, rec := range records {
		n, err := d.node(ctx, layout, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (d *Dumper) valueList(ctx context.Context, vl *synth.ValueList, owner int64) ([]any, error) {
	cols := make([]string, len(vl.Columns))
	for i, c := range vl.Columns {
		cols[i] = codegen.QuoteIdentifier(c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? ORDER BY %s",
		strings.Join(cols, ", "),
		codegen.QuoteIdentifier(vl.Table),
		codegen.QuoteIdentifier(synth.ColumnOwner),
		codegen.QuoteIdentifier(synth.ColumnPosition),
	)

	rows, err := d.q.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", vl.Table, err)
	}
	defer rows.Close()

	fields := vl.Param.Fields
	if !vl.Param.IsTuple() {
		fields = []catalog.Param{{Name: vl.Param.Name, Type: vl.Param.Type}}
	}

	var items []any
	for rows.Next() {
		dest := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("reading %s: %w", vl.Table, err)
		}
		for i, f := range fields {
			v, err := normalize(f.Type, dest[i])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", vl.Table, f.Name, err)
			}
			dest[i] = v
		}
		if vl.Param.IsTuple() {
			items = append(items, dest)
		} else {
			items = append(items, dest[0])
		}
	}
	return items, rows.Err()
}

// normalize converts a driver value to the type the factory produces
func normalize(t catalog.Type, v any) (any, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch {
	case t.IsInteger():
		return cast.ToInt64E(v)
	case t == catalog.Float:
		return cast.ToFloat64E(v)
	default:
		return cast.ToStringE(v)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
