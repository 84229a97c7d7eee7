package model

import (
	"fmt"

	"github.com/a2ldb/a2ldb/internal/a2l/catalog"
)

// Entity is one materialized keyword occurrence
type Entity struct {
	Class *Class

	// Values holds coerced scalar parameters (int64, float64 or string).
	Values map[string]any

	// Lists holds MULTIPLE parameters. Items are scalars or []any tuples.
	Lists map[string][]any

	// Flags records marker children that were present, by tag.
	Flags map[string]bool

	// Children holds table-backed children in source order.
	Children []*Entity

	// Attrs lists the assigned parameter names in declaration order.
	Attrs []string
}

func newEntity(class *Class) *Entity {
	return &Entity{
		Class:  class,
		Values: make(map[string]any),
		Lists:  make(map[string][]any),
		Flags:  make(map[string]bool),
	}
}

// Tag returns the keyword tag of the entity
func (e *Entity) Tag() string {
	return e.Class.Tag
}

// Keyword returns the catalog entry of the entity
func (e *Entity) Keyword() *catalog.Keyword {
	return e.Class.Keyword
}

// Has reports whether a parameter was assigned
func (e *Entity) Has(attr string) bool {
	for _, a := range e.Attrs {
		if a == attr {
			return true
		}
	}
	return false
}

// ChildrenOf returns the children with the given tag in source order
func (e *Entity) ChildrenOf(tag string) []*Entity {
	var out []*Entity
	for _, child := range e.Children {
		if child.Tag() == tag {
			out = append(out, child)
		}
	}
	return out
}

// Validate checks that every scalar required parameter was assigned.
// MULTIPLE parameters may be absent and are treated as empty.
func (e *Entity) Validate() error {
	for _, p := range e.Keyword().ScalarParams() {
		if !e.Has(p.Name) {
			return fmt.Errorf("%w: %s.%s", ErrMissingParameter, e.Tag(), p.Name)
		}
	}
	return nil
}

// Count returns the number of entities in the tree rooted at e
func (e *Entity) Count() int {
	total := 1
	for _, child := range e.Children {
		total += child.Count()
	}
	return total
}

// String returns a debug representation of the entity
func (e *Entity) String() string {
	return fmt.Sprintf("%s%v", e.Class.Name, e.Attrs)
}
