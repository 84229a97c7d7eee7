// Package catalog provides the ASAM MCD-2MC (A2L) keyword metamodel: the primitive
// parameter types, the required positional parameters of every keyword and the
// optional child keywords each keyword may contain.
package catalog

import "fmt"

// Type represents a primitive A2L parameter type
type Type int

const (
	// Integer types
	Uint Type = iota
	Int
	Ulong
	Long

	// Floating point
	Float

	// Text types
	String
	Ident
	Enum

	// Enumeration-valued types with a closed literal set
	Datatype
	Indexorder
	Addrtype
	Datasize
	Byteorder
)

var typeNames = [...]string{
	Uint:       "Uint",
	Int:        "Int",
	Ulong:      "Ulong",
	Long:       "Long",
	Float:      "Float",
	String:     "String",
	Ident:      "Ident",
	Enum:       "Enum",
	Datatype:   "Datatype",
	Indexorder: "Indexorder",
	Addrtype:   "Addrtype",
	Datasize:   "Datasize",
	Byteorder:  "Byteorder",
}

// String returns the string representation of the type
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// ParseType converts a type name to a Type
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown A2L type: %s", s)
}

// IsInteger returns true for the integer family
func (t Type) IsInteger() bool {
	return t == Uint || t == Int || t == Ulong || t == Long
}

// IsNumeric returns true for integers and floats
func (t Type) IsNumeric() bool {
	return t.IsInteger() || t == Float
}

// IsText returns true for every type stored as text
func (t Type) IsText() bool {
	return !t.IsNumeric()
}

// IsEnum returns true for Enum and the enumeration-valued types
func (t Type) IsEnum() bool {
	switch t {
	case Enum, Datatype, Indexorder, Addrtype, Datasize, Byteorder:
		return true
	}
	return false
}

var enumValues = map[Type][]string{
	Datatype: {
		"UBYTE", "SBYTE", "UWORD", "SWORD", "ULONG", "SLONG",
		"A_UINT64", "A_INT64", "FLOAT32_IEEE", "FLOAT64_IEEE",
	},
	Datasize:   {"BYTE", "WORD", "LONG"},
	Addrtype:   {"PBYTE", "PWORD", "PLONG", "DIRECT"},
	Byteorder:  {"LITTLE_ENDIAN", "BIG_ENDIAN", "MSB_LAST", "MSB_FIRST"},
	Indexorder: {"INDEX_INCR", "INDEX_DECR"},
}

// EnumValues returns the closed literal set of an enumeration-valued type.
// Plain Enum has no type-level set; parameters declare their own.
func (t Type) EnumValues() []string {
	values := enumValues[t]
	out := make([]string, len(values))
	copy(out, values)
	return out
}
