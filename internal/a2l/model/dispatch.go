package model

import (
	"fmt"
	"sync"

	"github.com/a2ldb/a2ldb/internal/a2l/catalog"
	"github.com/a2ldb/a2ldb/internal/a2l/resolver"
)

// Class is the runtime class of a keyword
type Class struct {
	Tag     string
	Name    string // camel case class name
	Kind    resolver.Class
	Keyword *catalog.Keyword
}

// Dispatch maps tags to classes. It is immutable once built.
type Dispatch struct {
	resolution *resolver.Resolution
	classes    map[string]*Class
}

// NewDispatch builds the tag to class map of a resolved catalog
func NewDispatch(res *resolver.Resolution) (*Dispatch, error) {
	d := &Dispatch{
		resolution: res,
		classes:    make(map[string]*Class),
	}
	for _, tag := range res.Catalog().Tags() {
		kw, err := res.Catalog().Lookup(tag)
		if err != nil {
			return nil, err
		}
		kind, err := res.Class(tag)
		if err != nil {
			return nil, err
		}
		d.classes[tag] = &Class{Tag: tag, Name: kw.ClassName(), Kind: kind, Keyword: kw}
	}
	return d, nil
}

var (
	defaultDispatchOnce sync.Once
	defaultDispatch     *Dispatch
)

// DefaultDispatch returns the dispatch of the default catalog
func DefaultDispatch() *Dispatch {
	defaultDispatchOnce.Do(func() {
		d, err := NewDispatch(resolver.Default())
		if err != nil {
			panic(fmt.Sprintf("model: building default dispatch: %v", err))
		}
		defaultDispatch = d
	})
	return defaultDispatch
}

// Lookup returns the class of a tag
func (d *Dispatch) Lookup(tag string) (*Class, error) {
	class, ok := d.classes[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKeyword, tag)
	}
	return class, nil
}

// Resolution returns the resolution the dispatch was built from
func (d *Dispatch) Resolution() *resolver.Resolution {
	return d.resolution
}

// Len returns the number of classes
func (d *Dispatch) Len() int {
	return len(d.classes)
}
