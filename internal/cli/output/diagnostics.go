package output

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/plc/pkg/diag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DiagnosticJSON is the JSON form of one diagnostic.
type DiagnosticJSON struct {
	Kind    string `json:"kind"`
	Context string `json:"context"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// CheckSummary counts what a check run saw.
type CheckSummary struct {
	Files     int  `json:"files"`
	Functions int  `json:"functions"`
	Lexical   int  `json:"lexical_errors"`
	Syntax    int  `json:"syntax_errors"`
	Semantic  int  `json:"semantic_errors"`
	OK        bool `json:"ok"`
}

// CheckOutput is the JSON document written by the check command.
type CheckOutput struct {
	Module      string           `json:"module"`
	Summary     CheckSummary     `json:"summary"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// ToDiagnosticJSON converts diagnostics for JSON output.
func ToDiagnosticJSON(items []diag.ErrorInfo) []DiagnosticJSON {
	out := make([]DiagnosticJSON, 0, len(items))
	for _, e := range items {
		out = append(out, DiagnosticJSON{
			Kind:    e.Kind.String(),
			Context: e.Context,
			Line:    e.Line,
			Message: e.Message,
		})
	}
	return out
}

// FormatDiagnostic renders one diagnostic as
//
//	Error [at <context>, line <n>]:
//		<message>
func FormatDiagnostic(e diag.ErrorInfo) string {
	return fmt.Sprintf("Error [at %s, line %d]:\n\t%s", e.Context, e.Line, e.Message)
}

var diagnosticOrder = []diag.Kind{diag.Lexical, diag.Syntax, diag.Semantic}

// Diagnostics writes items grouped by kind, each group under its own header.
// Kinds with no items are skipped. Nothing is written for an empty slice.
func (r *Renderer) Diagnostics(items []diag.ErrorInfo) {
	if len(items) == 0 {
		return
	}
	titleCaser := cases.Title(language.English)
	markdown := r.EffectiveMode() == ModeMarkdown

	for _, kind := range diagnosticOrder {
		var group []diag.ErrorInfo
		for _, e := range items {
			if e.Kind == kind {
				group = append(group, e)
			}
		}
		if len(group) == 0 {
			continue
		}

		title := titleCaser.String(kind.String() + " errors")
		if markdown {
			r.Println(FormatHeader(title, 2))
			r.Println()
			var b strings.Builder
			for i, e := range group {
				if i > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(FormatDiagnostic(e))
			}
			r.Println(FormatCodeBlock("", b.String()))
			r.Println()
			continue
		}

		r.Println(r.styles.Bold.Render(title))
		for _, e := range group {
			header, message, _ := strings.Cut(FormatDiagnostic(e), "\n")
			r.Println(r.styles.Error.Render(header))
			r.Println(message)
		}
		r.Println()
	}
}
