// Package diag holds the diagnostics shared by the scanner, parser and
// semantic analyzer.
//
// Each phase owns its own List; nothing here aborts. Rendering is left to the
// caller.
package diag

import "fmt"

// Kind classifies the phase that produced a diagnostic.
type Kind int

// Diagnostic kinds.
const (
	// Lexical errors: malformed numbers, unterminated strings, stray characters.
	Lexical Kind = iota
	// Syntax errors: unexpected or missing tokens.
	Syntax
	// Semantic errors: duplicate or misplaced declarations.
	Semantic
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// ErrorInfo is one diagnostic.
type ErrorInfo struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Context string `json:"context" yaml:"context"` // filename, or module:filename
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line" yaml:"line"`
}

func (e ErrorInfo) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%s error at line %d: %s", e.Kind, e.Line, e.Message)
	}
	return fmt.Sprintf("%s error at %s, line %d: %s", e.Kind, e.Context, e.Line, e.Message)
}

// List accumulates diagnostics in report order. The zero value is ready to use.
type List struct {
	items []ErrorInfo
}

// Add appends a diagnostic.
func (l *List) Add(e ErrorInfo) {
	l.items = append(l.items, e)
}

// Addf appends a diagnostic with a formatted message.
func (l *List) Addf(kind Kind, context string, line int, format string, args ...any) {
	l.Add(ErrorInfo{
		Kind:    kind,
		Context: context,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	})
}

// Len returns the number of diagnostics.
func (l *List) Len() int { return len(l.items) }

// HadErrors reports whether anything was recorded.
func (l *List) HadErrors() bool { return len(l.items) > 0 }

// Items returns a copy of the recorded diagnostics.
func (l *List) Items() []ErrorInfo {
	out := make([]ErrorInfo, len(l.items))
	copy(out, l.items)
	return out
}
