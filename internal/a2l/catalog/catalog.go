package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	strutil "github.com/a2ldb/a2ldb/internal/util/strings"
)

// ErrUnknownKeyword is returned when a tag is absent from the catalog
var ErrUnknownKeyword = errors.New("unknown keyword")

// Catalog is an immutable keyword table.
type Catalog struct {
	keywords map[string]*Keyword
	tags     []string
	roots    []string
}

// New builds a catalog from keyword definitions. Element names and
// multiplicities are filled from the referenced child keywords. Children
// naming unknown tags and duplicate tags are rejected. The definitions are
// copied, so the caller's slice is left untouched.
func New(keywords []*Keyword, roots []string) (*Catalog, error) {
	c := &Catalog{
		keywords: make(map[string]*Keyword, len(keywords)),
		tags:     make([]string, 0, len(keywords)),
	}

	defs := make([]*Keyword, 0, len(keywords))
	for _, def := range keywords {
		if def == nil || def.Tag == "" {
			return nil, fmt.Errorf("keyword without tag")
		}
		if _, exists := c.keywords[def.Tag]; exists {
			return nil, fmt.Errorf("keyword %s is defined twice", def.Tag)
		}
		kw := *def
		kw.Params = append([]Param(nil), def.Params...)
		kw.Children = append([]Element(nil), def.Children...)
		c.keywords[kw.Tag] = &kw
		c.tags = append(c.tags, kw.Tag)
		defs = append(defs, &kw)
	}
	sort.Strings(c.tags)

	for _, kw := range defs {
		for i, elem := range kw.Children {
			child, ok := c.keywords[elem.Tag]
			if !ok {
				return nil, fmt.Errorf("keyword %s: child %w: %s", kw.Tag, ErrUnknownKeyword, elem.Tag)
			}
			kw.Children[i].Name = strutil.ToCamelCase(elem.Tag, false)
			kw.Children[i].Multiple = child.Multiple
		}
		for _, p := range kw.Params {
			if p.Multiple && p.Table == "" {
				return nil, fmt.Errorf("keyword %s: multiple parameter %s has no value-list table", kw.Tag, p.Name)
			}
		}
	}

	for _, root := range roots {
		if _, ok := c.keywords[root]; !ok {
			return nil, fmt.Errorf("root %w: %s", ErrUnknownKeyword, root)
		}
	}
	c.roots = append([]string(nil), roots...)

	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide ASAP2 catalog. It is built once and must
// not be modified.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(asap2Keywords(), asap2Roots)
		if err != nil {
			panic(fmt.Sprintf("catalog: invalid built-in keyword table: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Lookup returns the keyword for a tag
func (c *Catalog) Lookup(tag string) (*Keyword, error) {
	kw, ok := c.keywords[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKeyword, tag)
	}
	return kw, nil
}

// Has reports whether the tag is part of the catalog
func (c *Catalog) Has(tag string) bool {
	_, ok := c.keywords[tag]
	return ok
}

// Required returns the required parameters of a keyword
func (c *Catalog) Required(tag string) ([]Param, error) {
	kw, err := c.Lookup(tag)
	if err != nil {
		return nil, err
	}
	return kw.Params, nil
}

// Optional returns the optional child elements of a keyword
func (c *Catalog) Optional(tag string) ([]Element, error) {
	kw, err := c.Lookup(tag)
	if err != nil {
		return nil, err
	}
	return kw.Children, nil
}

// Multiple reports whether a keyword may occur more than once under a parent
func (c *Catalog) Multiple(tag string) (bool, error) {
	kw, err := c.Lookup(tag)
	if err != nil {
		return false, err
	}
	return kw.Multiple, nil
}

// AttrsEmpty reports whether a keyword has no required parameters
func (c *Catalog) AttrsEmpty(tag string) (bool, error) {
	kw, err := c.Lookup(tag)
	if err != nil {
		return false, err
	}
	return kw.AttrsEmpty(), nil
}

// Roots returns the keywords allowed at file level
func (c *Catalog) Roots() []string {
	return append([]string(nil), c.roots...)
}

// Tags returns all tags in sorted order
func (c *Catalog) Tags() []string {
	return append([]string(nil), c.tags...)
}

// Len returns the number of keywords
func (c *Catalog) Len() int {
	return len(c.keywords)
}
