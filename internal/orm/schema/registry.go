package schema

import (
	"fmt"
)

// Registry is an ordered set of tables. It is filled once by the synthesizer
// and read concurrently afterwards.
type Registry struct {
	tables map[string]*Table
	order  []string
}

// NewRegistry creates a new table registry
func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[string]*Table),
	}
}

// Register adds a table
func (r *Registry) Register(table *Table) error {
	if _, exists := r.tables[table.Name]; exists {
		return fmt.Errorf("table %s is already registered", table.Name)
	}
	r.tables[table.Name] = table
	r.order = append(r.order, table.Name)
	return nil
}

// Get retrieves a table by name
func (r *Registry) Get(name string) (*Table, bool) {
	table, exists := r.tables[name]
	return table, exists
}

// Tables returns the tables in registration order
func (r *Registry) Tables() []*Table {
	out := make([]*Table, len(r.order))
	for i, name := range r.order {
		out[i] = r.tables[name]
	}
	return out
}

// List returns the table names in registration order
func (r *Registry) List() []string {
	return append([]string(nil), r.order...)
}

// Count returns the number of registered tables
func (r *Registry) Count() int {
	return len(r.tables)
}

// Graph builds the foreign-key dependency graph of the registry
func (r *Registry) Graph() *Graph {
	g := NewGraph()
	for _, name := range r.order {
		g.AddNode(name)
	}
	for _, name := range r.order {
		for _, ref := range r.tables[name].References() {
			g.AddEdge(name, ref)
		}
	}
	return g
}

// Validate checks that every foreign key targets a registered table and
// column and that the dependency graph is acyclic.
func (r *Registry) Validate() error {
	for _, name := range r.order {
		table := r.tables[name]
		for _, fk := range table.ForeignKeys {
			ref, ok := r.tables[fk.RefTable]
			if !ok {
				return fmt.Errorf("table %s references unknown table %s", name, fk.RefTable)
			}
			if _, ok := ref.Column(fk.RefColumn); !ok {
				return fmt.Errorf("table %s references unknown column %s.%s", name, fk.RefTable, fk.RefColumn)
			}
		}
	}

	if cycles := r.Graph().DetectCycles(); len(cycles) > 0 {
		return fmt.Errorf("%w:\n%s", ErrCircularDependency, FormatCycles(cycles))
	}
	return nil
}

// DependencyOrder returns table names with referenced tables first
func (r *Registry) DependencyOrder() ([]string, error) {
	return r.Graph().TopologicalSort()
}
