package catalog

import (
	"fmt"
	"strings"

	strutil "github.com/a2ldb/a2ldb/internal/util/strings"
)

// Param is a required positional parameter of a keyword.
type Param struct {
	Name     string
	Type     Type
	Multiple bool // sequence whose length is not fixed by the grammar

	// Fields lists the tuple members of a multiple parameter whose items are
	// pairs or triples (COMPU_TAB in/out pairs). Empty for scalar lists.
	Fields []Param

	// Table names the value-list side table of a multiple parameter.
	Table string

	// Values is the closed literal set of an Enum parameter. Enumeration-valued
	// types fall back to their type-level set.
	Values []string
}

// IsTuple reports whether the items of a multiple parameter are tuples
func (p Param) IsTuple() bool {
	return p.Multiple && len(p.Fields) > 0
}

// AllowedValues returns the closed literal set for enum parameters, or nil
func (p Param) AllowedValues() []string {
	if len(p.Values) > 0 {
		return p.Values
	}
	if p.Type.IsEnum() {
		return p.Type.EnumValues()
	}
	return nil
}

// String returns a debug representation of the parameter
func (p Param) String() string {
	if p.Multiple {
		return fmt.Sprintf("Param('%s' %s MULTIPLE)", p.Name, p.Type)
	}
	return fmt.Sprintf("Param('%s' %s)", p.Name, p.Type)
}

// Element is an optional child keyword.
type Element struct {
	Name     string // camel case attribute name (compuTab)
	Tag      string // keyword tag (COMPU_TAB)
	Multiple bool   // may appear more than once under the same parent
}

// String returns a debug representation of the element
func (e Element) String() string {
	if e.Multiple {
		return fmt.Sprintf("Element('%s' %s MULTIPLE)", e.Name, e.Tag)
	}
	return fmt.Sprintf("Element('%s' %s)", e.Name, e.Tag)
}

// Keyword describes one A2L keyword.
type Keyword struct {
	Tag      string
	Params   []Param
	Children []Element
	Multiple bool
}

// ClassName returns the derived camel case class name (COMPU_METHOD -> CompuMethod)
func (k *Keyword) ClassName() string {
	return strutil.ToCamelCase(k.Tag, true)
}

// LowerName returns the lower snake case form used for tables and columns
func (k *Keyword) LowerName() string {
	return strings.ToLower(k.Tag)
}

// AttrsEmpty is true iff the keyword has no required parameters
func (k *Keyword) AttrsEmpty() bool {
	return len(k.Params) == 0
}

// IsMarker is true for pure marker keywords: no parameters and no children.
func (k *Keyword) IsMarker() bool {
	return k.AttrsEmpty() && len(k.Children) == 0
}

// Param looks up a parameter by name
func (k *Keyword) Param(name string) (Param, bool) {
	for _, p := range k.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Child looks up an optional child element by tag
func (k *Keyword) Child(tag string) (Element, bool) {
	for _, e := range k.Children {
		if e.Tag == tag {
			return e, true
		}
	}
	return Element{}, false
}

// ScalarParams returns the parameters that are stored inline
func (k *Keyword) ScalarParams() []Param {
	var out []Param
	for _, p := range k.Params {
		if !p.Multiple {
			out = append(out, p)
		}
	}
	return out
}

// MultipleParams returns the parameters stored in value-list side tables
func (k *Keyword) MultipleParams() []Param {
	var out []Param
	for _, p := range k.Params {
		if p.Multiple {
			out = append(out, p)
		}
	}
	return out
}
