package model

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/a2ldb/a2ldb/internal/a2l/catalog"
)

// coerceScalar converts a parsed value to the storage form of a parameter:
// int64 for integer types, float64 for Float and string otherwise.
func coerceScalar(p catalog.Param, value any) (any, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: nil", ErrInvalidValue)
	}
	if _, isBool := value.(bool); isBool {
		return nil, fmt.Errorf("%w: boolean %v for %s", ErrInvalidValue, value, p.Type)
	}

	switch {
	case p.Type.IsInteger():
		v, err := coerceInteger(value)
		if err != nil {
			return nil, err
		}
		return v, nil

	case p.Type == catalog.Float:
		v, err := cast.ToFloat64E(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return v, nil

	default:
		v, err := cast.ToStringE(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		if allowed := p.AllowedValues(); allowed != nil && !contains(allowed, v) {
			return nil, fmt.Errorf("%w: %q is not one of %v", ErrInvalidValue, v, allowed)
		}
		return v, nil
	}
}

// coerceInteger converts value to int64, rejecting overflow. Strings are decimal
// unless they carry a 0x prefix.
func coerceInteger(value any) (int64, error) {
	switch v := value.(type) {
	case float64:
		return floatToInteger(v)
	case float32:
		return floatToInteger(float64(v))
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrInvalidValue, v)
		}
		return int64(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrInvalidValue, v)
		}
		return int64(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v.String())
		}
		return floatToInteger(f)
	case string:
		return parseInteger(v)
	}

	i, err := cast.ToInt64E(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return i, nil
}

// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
const maxIntegerFloat = 9.223372036854775808e18

func floatToInteger(f float64) (int64, error) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, f)
	case f != math.Trunc(f):
		return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, f)
	case f < -maxIntegerFloat || f >= maxIntegerFloat:
		return 0, fmt.Errorf("%w: %v overflows int64", ErrInvalidValue, f)
	}
	return int64(f), nil
}

func parseInteger(s string) (int64, error) {
	digits := strings.TrimSpace(s)
	sign := ""
	if digits != "" && (digits[0] == '-' || digits[0] == '+') {
		sign, digits = digits[:1], digits[1:]
	}
	base := 10
	if len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits, base = digits[2:], 16
		if digits[0] == '-' || digits[0] == '+' {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, s)
		}
	}
	i, err := strconv.ParseInt(sign+digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, s)
	}
	return i, nil
}

// coerceList converts a MULTIPLE parameter value. Tuple items may be given
// as lists in field order or as maps keyed by field name.
func coerceList(p catalog.Param, value any) ([]any, error) {
	items, err := toSlice(value)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(items))
	for i, item := range items {
		if !p.IsTuple() {
			v, err := coerceScalar(p, item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out = append(out, v)
			continue
		}

		tuple, err := coerceTuple(p, item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, tuple)
	}
	return out, nil
}

func coerceTuple(p catalog.Param, item any) ([]any, error) {
	var raw []any
	if m, err := cast.ToStringMapE(item); err == nil {
		raw = make([]any, len(p.Fields))
		for i, f := range p.Fields {
			v, ok := m[f.Name]
			if !ok {
				return nil, fmt.Errorf("%w: tuple field %s", ErrMissingParameter, f.Name)
			}
			raw[i] = v
		}
		if len(m) != len(p.Fields) {
			return nil, fmt.Errorf("%w: tuple has %d fields, want %d", ErrInvalidValue, len(m), len(p.Fields))
		}
	} else {
		raw, err = toSlice(item)
		if err != nil {
			return nil, err
		}
		if len(raw) != len(p.Fields) {
			return nil, fmt.Errorf("%w: tuple has %d fields, want %d", ErrInvalidValue, len(raw), len(p.Fields))
		}
	}

	tuple := make([]any, len(p.Fields))
	for i, f := range p.Fields {
		v, err := coerceScalar(f, raw[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		tuple[i] = v
	}
	return tuple, nil
}

// toSlice accepts any slice or array value
func toSlice(value any) ([]any, error) {
	if value == nil {
		return nil, nil
	}
	if s, ok := value.([]any); ok {
		return s, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidValue, value)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
