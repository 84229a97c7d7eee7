// Package resolver classifies catalog keywords and derives the parent/child
// relations the schema synthesizer and the loader work from.
package resolver

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/a2ldb/a2ldb/internal/a2l/catalog"
	"github.com/a2ldb/a2ldb/internal/orm/schema"
)

// ErrCyclicSchema is returned when non-polymorphic parent/child relations form a cycle
var ErrCyclicSchema = errors.New("cyclic schema")

// Class is the storage classification of a keyword
type Class int

const (
	// Entity owns a table and points to its single parent
	Entity Class = iota
	// Leaf is a marker with one parent, stored as a boolean on the parent
	Leaf
	// PolymorphicFlag is a marker shared by several parents, stored as a boolean on each
	PolymorphicFlag
	// PolymorphicEntity owns a table and is attached to several parents
	PolymorphicEntity
)

// String returns the string representation of the class
func (c Class) String() string {
	switch c {
	case Entity:
		return "entity"
	case Leaf:
		return "leaf"
	case PolymorphicFlag:
		return "polymorphic_flag"
	case PolymorphicEntity:
		return "polymorphic_entity"
	default:
		return "unknown"
	}
}

// IsFlag reports whether the class is stored as a boolean column on its parent
func (c Class) IsFlag() bool {
	return c == Leaf || c == PolymorphicFlag
}

// Resolution is the immutable result of resolving a catalog
type Resolution struct {
	catalog      *catalog.Catalog
	references   map[string][]string
	referencedBy map[string][]string
	classes      map[string]Class
	reachable    map[string]bool
	order        []string
}

// Resolve walks the catalog from its roots and classifies every keyword.
// Keywords not reachable from a root are walked afterwards in tag order so
// custom catalogs resolve completely.
func Resolve(c *catalog.Catalog) (*Resolution, error) {
	r := &Resolution{
		catalog:      c,
		references:   make(map[string][]string),
		referencedBy: make(map[string][]string),
		classes:      make(map[string]Class),
		reachable:    make(map[string]bool),
	}

	visited := make(map[string]bool)
	var queue []string
	walk := func(start string) error {
		if visited[start] {
			return nil
		}
		visited[start] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			tag := queue[0]
			queue = queue[1:]
			r.order = append(r.order, tag)

			kw, err := c.Lookup(tag)
			if err != nil {
				return err
			}
			for _, elem := range kw.Children {
				r.references[tag] = append(r.references[tag], elem.Tag)
				r.referencedBy[elem.Tag] = appendUnique(r.referencedBy[elem.Tag], tag)
				if !visited[elem.Tag] {
					visited[elem.Tag] = true
					queue = append(queue, elem.Tag)
				}
			}
		}
		return nil
	}

	for _, root := range c.Roots() {
		if err := walk(root); err != nil {
			return nil, err
		}
	}
	for tag := range visited {
		r.reachable[tag] = true
	}
	for _, tag := range c.Tags() {
		if err := walk(tag); err != nil {
			return nil, err
		}
	}

	for tag, parents := range r.referencedBy {
		sort.Strings(parents)
		r.referencedBy[tag] = parents
	}

	for _, tag := range r.order {
		kw, _ := c.Lookup(tag)
		r.classes[tag] = classify(kw, len(r.referencedBy[tag]) > 1)
	}

	if err := r.checkCycles(); err != nil {
		return nil, err
	}
	return r, nil
}

func classify(kw *catalog.Keyword, polymorphic bool) Class {
	flag := kw.IsMarker() && !kw.Multiple
	switch {
	case polymorphic && flag:
		return PolymorphicFlag
	case polymorphic:
		return PolymorphicEntity
	case flag:
		return Leaf
	default:
		return Entity
	}
}

func (r *Resolution) checkCycles() error {
	g := schema.NewGraph()
	for _, parent := range r.order {
		g.AddNode(parent)
		for _, child := range r.references[parent] {
			if r.Polymorphic(child) {
				continue
			}
			g.AddEdge(parent, child)
		}
	}
	if cycles := g.DetectCycles(); len(cycles) > 0 {
		return fmt.Errorf("%w:\n%s", ErrCyclicSchema, schema.FormatCycles(cycles))
	}
	return nil
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

var (
	defaultOnce       sync.Once
	defaultResolution *Resolution
)

// Default resolves the default catalog once and caches the result
func Default() *Resolution {
	defaultOnce.Do(func() {
		res, err := Resolve(catalog.Default())
		if err != nil {
			panic(fmt.Sprintf("resolver: built-in catalog does not resolve: %v", err))
		}
		defaultResolution = res
	})
	return defaultResolution
}

// Catalog returns the resolved catalog
func (r *Resolution) Catalog() *catalog.Catalog {
	return r.catalog
}

// References returns the child tags of t in declaration order
func (r *Resolution) References(t string) []string {
	return append([]string(nil), r.references[t]...)
}

// ReferencedBy returns the parent tags of t sorted by name
func (r *Resolution) ReferencedBy(t string) []string {
	return append([]string(nil), r.referencedBy[t]...)
}

// Polymorphic reports whether t appears under two or more parents
func (r *Resolution) Polymorphic(t string) bool {
	return len(r.referencedBy[t]) > 1
}

// PolymorphicSet returns all polymorphic tags sorted by name
func (r *Resolution) PolymorphicSet() []string {
	var out []string
	for tag, parents := range r.referencedBy {
		if len(parents) > 1 {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// Class returns the classification of t
func (r *Resolution) Class(t string) (Class, error) {
	class, ok := r.classes[t]
	if !ok {
		return 0, fmt.Errorf("%w: %s", catalog.ErrUnknownKeyword, t)
	}
	return class, nil
}

// IsValueListCarrier reports whether t has at least one MULTIPLE parameter
func (r *Resolution) IsValueListCarrier(t string) bool {
	kw, err := r.catalog.Lookup(t)
	if err != nil {
		return false
	}
	return len(kw.MultipleParams()) > 0
}

// ValueListCarriers returns every value-list carrier sorted by tag
func (r *Resolution) ValueListCarriers() []string {
	var out []string
	for _, tag := range r.catalog.Tags() {
		if r.IsValueListCarrier(tag) {
			out = append(out, tag)
		}
	}
	return out
}

// Reachable returns the tags reachable from the catalog roots, sorted
func (r *Resolution) Reachable() []string {
	out := make([]string, 0, len(r.reachable))
	for tag := range r.reachable {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Order returns every tag in walk order: roots first, breadth first
func (r *Resolution) Order() []string {
	return append([]string(nil), r.order...)
}
