package model

import (
	"fmt"
	"sort"

	strutil "github.com/a2ldb/a2ldb/internal/util/strings"
)

// Factory creates entities from keyword invocations
type Factory struct {
	dispatch *Dispatch
}

// NewFactory creates a factory over a dispatch
func NewFactory(d *Dispatch) *Factory {
	return &Factory{dispatch: d}
}

// Dispatch returns the factory's dispatch
func (f *Factory) Dispatch() *Dispatch {
	return f.dispatch
}

// New creates an entity of the given tag. Parameter names are matched after
// lower-casing their first letter. Missing parameters are not an error here.
func (f *Factory) New(tag string, params map[string]any) (*Entity, error) {
	class, err := f.dispatch.Lookup(tag)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	normalized := make(map[string]any, len(params))
	for _, name := range names {
		attr := strutil.LowerFirst(name)
		if _, ok := class.Keyword.Param(attr); !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownParameter, tag, name)
		}
		if _, dup := normalized[attr]; dup {
			return nil, fmt.Errorf("%w: %s.%s given twice", ErrInvalidValue, tag, attr)
		}
		normalized[attr] = params[name]
	}

	e := newEntity(class)
	for _, p := range class.Keyword.Params {
		value, ok := normalized[p.Name]
		if !ok {
			continue
		}
		if err := f.Assign(e, p.Name, value); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Assign coerces and stores one parameter value on an entity
func (f *Factory) Assign(e *Entity, name string, value any) error {
	p, ok := e.Keyword().Param(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownParameter, e.Tag(), name)
	}
	if e.Has(name) {
		return fmt.Errorf("%w: %s.%s given twice", ErrInvalidValue, e.Tag(), name)
	}

	if p.Multiple {
		list, err := coerceList(p, value)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", e.Tag(), name, err)
		}
		e.Lists[name] = list
	} else {
		v, err := coerceScalar(p, value)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", e.Tag(), name, err)
		}
		e.Values[name] = v
	}

	e.Attrs = append(e.Attrs, name)
	order := make(map[string]int, len(e.Keyword().Params))
	for i, p := range e.Keyword().Params {
		order[p.Name] = i
	}
	sort.SliceStable(e.Attrs, func(i, j int) bool {
		return order[e.Attrs[i]] < order[e.Attrs[j]]
	})
	return nil
}
