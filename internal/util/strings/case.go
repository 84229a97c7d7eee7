package strings

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts CamelCase to snake_case
// Handles acronyms properly (HTTPRequest -> http_request)
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				// Add underscore before uppercase letter if:
				// 1. Previous char is lowercase
				// 2. Next char is lowercase (for acronyms like HTTPRequest -> http_request)
				if unicode.IsLower(prev) {
					result.WriteRune('_')
				} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ToCamelCase converts an upper snake case keyword (COMPU_VTAB_RANGE) to
// camel case (compuVtabRange, or CompuVtabRange when upperFirst is set).
// Digit-only segments are kept verbatim (AXIS_PTS_4 -> axisPts4).
func ToCamelCase(s string, upperFirst bool) string {
	parts := strings.Split(strings.ToLower(s), "_")

	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 && !upperFirst {
			b.WriteString(part)
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// LowerFirst lowers the first rune of s (LongIdentifier -> longIdentifier).
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
