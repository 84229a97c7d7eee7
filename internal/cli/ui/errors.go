package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError renders an error block:
//
//	✗ UNKNOWN KEYWORD: MEASURMENT
//
//	   Did you mean: MEASUREMENT?
//
//	   → List keywords: a2ldb keywords
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var attr color.Attribute
	var symbol string
	switch opts.Level {
	case ErrorLevelWarning:
		attr, symbol = color.FgYellow, "!"
	case ErrorLevelInfo:
		attr, symbol = color.FgCyan, "i"
	default:
		attr, symbol = color.FgRed, "✗"
	}
	header := newColor(opts.NoColor, attr, color.Bold)
	body := newColor(opts.NoColor, attr)

	if opts.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		body.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		newColor(opts.NoColor, color.FgYellow).Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := newColor(opts.NoColor, color.FgCyan)
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}
	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	return newColor(noColor, color.FgGreen, color.Bold).Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// UnknownKeywordError reports a tag missing from the catalog
func UnknownKeywordError(tag string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Context:      "unknown keyword",
		Problem:      tag,
		Suggestions:  suggestions,
		HelpCommands: []string{"List keywords: a2ldb keywords"},
		NoColor:      noColor,
	})
}

// SchemaMismatchError reports a database written by another schema version
func SchemaMismatchError(path string, detail string, noColor bool) string {
	return FormatError(ErrorOptions{
		Context:     "schema mismatch",
		Problem:     path,
		Consequence: detail + ". The file was not modified.",
		HelpCommands: []string{
			"Inspect the file: a2ldb info " + path,
			"Rebuild it: a2ldb load <input> -o " + path + " --force",
		},
		NoColor: noColor,
	})
}

// LoadError reports a failed load
func LoadError(input string, cause error, noColor bool) string {
	return FormatError(ErrorOptions{
		Context:      "load failed",
		Problem:      input,
		Consequence:  cause.Error() + ". Nothing was written.",
		HelpCommands: []string{"Check keyword signatures: a2ldb keywords <TAG>"},
		NoColor:      noColor,
	})
}
