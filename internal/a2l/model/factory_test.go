package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2ldb/a2ldb/internal/a2l/resolver"
)

func newFactory() *Factory {
	return NewFactory(DefaultDispatch())
}

func TestDefaultDispatch(t *testing.T) {
	d := DefaultDispatch()
	assert.Same(t, d, DefaultDispatch())
	assert.Equal(t, 181, d.Len())

	class, err := d.Lookup("COMPU_VTAB_RANGE")
	require.NoError(t, err)
	assert.Equal(t, "CompuVtabRange", class.Name)
	assert.Equal(t, resolver.Entity, class.Kind)

	class, err = d.Lookup("READ_ONLY")
	require.NoError(t, err)
	assert.Equal(t, resolver.PolymorphicFlag, class.Kind)

	_, err = d.Lookup("BOGUS")
	assert.ErrorIs(t, err, ErrUnknownKeyword)
}

func TestFactory_New(t *testing.T) {
	f := newFactory()

	e, err := f.New("MEASUREMENT", map[string]any{
		"UpperLimit":     255,
		"name":           "M1",
		"LongIdentifier": "engine speed",
		"datatype":       "UBYTE",
		"conversion":     "NO_COMPU_METHOD",
		"resolution":     uint8(1),
		"accuracy":       0,
		"lowerLimit":     "0",
	})
	require.NoError(t, err)

	assert.Equal(t, "MEASUREMENT", e.Tag())
	assert.Equal(t, "M1", e.Values["name"])
	assert.Equal(t, "engine speed", e.Values["longIdentifier"])
	assert.Equal(t, int64(1), e.Values["resolution"])
	assert.Equal(t, float64(0), e.Values["accuracy"])
	assert.Equal(t, float64(0), e.Values["lowerLimit"])
	assert.Equal(t, float64(255), e.Values["upperLimit"])
	assert.Equal(t, []string{
		"name", "longIdentifier", "datatype", "conversion", "resolution", "accuracy", "lowerLimit", "upperLimit",
	}, e.Attrs)
	assert.NoError(t, e.Validate())
}

func TestFactory_Errors(t *testing.T) {
	f := newFactory()

	tests := []struct {
		name   string
		tag    string
		params map[string]any
		want   error
	}{
		{"unknown keyword", "NOT_A_TAG", nil, ErrUnknownKeyword},
		{"unknown parameter", "FORMAT", map[string]any{"pattern": "%8.3"}, ErrUnknownParameter},
		{"enum outside set", "BYTE_ORDER", map[string]any{"byteOrder": "SIDEWAYS"}, ErrInvalidValue},
		{"keyword enum outside set", "DEPOSIT", map[string]any{"mode": "RELATIVE"}, ErrInvalidValue},
		{"not a number", "ECU_ADDRESS", map[string]any{"address": "here"}, ErrInvalidValue},
		{"fractional integer", "ARRAY_SIZE", map[string]any{"number": 1.5}, ErrInvalidValue},
		{"boolean number", "ARRAY_SIZE", map[string]any{"number": true}, ErrInvalidValue},
		{"nil value", "FORMAT", map[string]any{"formatString": nil}, ErrInvalidValue},
		{"duplicate after lowering", "FORMAT", map[string]any{"formatString": "a", "FormatString": "b"}, ErrInvalidValue},
		{"list is not a list", "DEF_CHARACTERISTIC", map[string]any{"identifier": 3}, ErrInvalidValue},
		{"float beyond int64", "ECU_ADDRESS", map[string]any{"address": 1e30}, ErrInvalidValue},
		{"float at 2^63", "ECU_ADDRESS", map[string]any{"address": float64(math.MaxInt64)}, ErrInvalidValue},
		{"unsigned beyond int64", "ECU_ADDRESS", map[string]any{"address": uint64(1 << 63)}, ErrInvalidValue},
		{"decimal string beyond int64", "ECU_ADDRESS", map[string]any{"address": "9223372036854775808"}, ErrInvalidValue},
		{"json number beyond int64", "ECU_ADDRESS", map[string]any{"address": json.Number("1e30")}, ErrInvalidValue},
		{"not a number at all", "ECU_ADDRESS", map[string]any{"address": math.NaN()}, ErrInvalidValue},
		{"hex without prefix", "ECU_ADDRESS", map[string]any{"address": "ff"}, ErrInvalidValue},
		{"sign after hex prefix", "ECU_ADDRESS", map[string]any{"address": "0x-10"}, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.New(tt.tag, tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFactory_IntegerValues(t *testing.T) {
	f := newFactory()

	tests := []struct {
		name  string
		value any
		want  int64
	}{
		{"leading zero is decimal", "010", 10},
		{"hex prefix", "0x100", 256},
		{"upper hex prefix", "0XFF", 255},
		{"negative hex", "-0x10", -16},
		{"surrounding space", " 42 ", 42},
		{"json integer", json.Number("256"), 256},
		{"json exponent", json.Number("1e3"), 1000},
		{"integral float", 4096.0, 4096},
		{"largest unsigned", uint64(math.MaxInt64), math.MaxInt64},
		{"smallest float", -9.223372036854775808e18, math.MinInt64},
		{"small int", int8(-3), -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := f.New("ECU_ADDRESS", map[string]any{"address": tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Values["address"])
		})
	}
}

func TestFactory_Lists(t *testing.T) {
	f := newFactory()

	t.Run("scalar list", func(t *testing.T) {
		e, err := f.New("DEF_CHARACTERISTIC", map[string]any{"identifier": []string{"A", "B", "C"}})
		require.NoError(t, err)
		assert.Equal(t, []any{"A", "B", "C"}, e.Lists["identifier"])
		assert.Equal(t, []string{"identifier"}, e.Attrs)
	})

	t.Run("tuple list from slices and maps", func(t *testing.T) {
		e, err := f.New("COMPU_TAB", map[string]any{
			"name":             "T",
			"longIdentifier":   "",
			"conversionType":   "TAB_NOINTP",
			"numberValuePairs": 2,
			"pairs": []any{
				[]any{0, 1.0},
				map[string]any{"inVal": 1, "outVal": 2.5},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{
			[]any{float64(0), 1.0},
			[]any{float64(1), 2.5},
		}, e.Lists["pairs"])
	})

	t.Run("tuple arity", func(t *testing.T) {
		_, err := f.New("COMPU_VTAB", map[string]any{"pairs": []any{[]any{1}}})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("tuple map missing field", func(t *testing.T) {
		_, err := f.New("COMPU_VTAB", map[string]any{"pairs": []any{map[string]any{"inVal": 1}}})
		assert.ErrorIs(t, err, ErrMissingParameter)
	})

	t.Run("assign keeps declaration order", func(t *testing.T) {
		e, err := f.New("DEPENDENT_CHARACTERISTIC", nil)
		require.NoError(t, err)
		require.NoError(t, f.Assign(e, "characteristic", []any{"X"}))
		require.NoError(t, f.Assign(e, "formula", "sin(X1)"))
		assert.Equal(t, []string{"formula", "characteristic"}, e.Attrs)

		assert.ErrorIs(t, f.Assign(e, "formula", "cos(X1)"), ErrInvalidValue)
		assert.ErrorIs(t, f.Assign(e, "nope", 1), ErrUnknownParameter)
	})
}

func TestEntity_Validate(t *testing.T) {
	f := newFactory()

	e, err := f.New("MEASUREMENT", map[string]any{"name": "M1"})
	require.NoError(t, err)
	err = e.Validate()
	assert.ErrorIs(t, err, ErrMissingParameter)
	assert.ErrorContains(t, err, "MEASUREMENT.longIdentifier")

	list, err := f.New("DEF_CHARACTERISTIC", nil)
	require.NoError(t, err)
	assert.NoError(t, list.Validate(), "MULTIPLE parameters may be absent")
}

func TestNode(t *testing.T) {
	n := NewNode("FUNCTION", map[string]any{"name": "F"},
		NewNode("DEF_CHARACTERISTIC", nil).WithItems("A", "B"),
		NewNode("ANNOTATION", nil, NewNode("ANNOTATION_LABEL", map[string]any{"label": "L"})),
	)
	assert.Equal(t, 4, n.Count())
	assert.Equal(t, []any{"A", "B"}, n.Children[0].Items)
	assert.Equal(t, 0, (*Node)(nil).Count())
}
