package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/plc/internal/cli/output"
	"github.com/leapstack-labs/plc/pkg/scanner"
	"github.com/leapstack-labs/plc/pkg/token"
	"github.com/spf13/cobra"
)

// TokenJSON is the JSON form of one token.
type TokenJSON struct {
	Line    int    `json:"line"`
	Type    string `json:"type"`
	Literal string `json:"literal,omitempty"`
	Value   string `json:"value,omitempty"`
}

// TokensOutput is the JSON document written by the tokens command.
type TokensOutput struct {
	File        string                  `json:"file"`
	Tokens      []TokenJSON             `json:"tokens"`
	Diagnostics []output.DiagnosticJSON `json:"diagnostics"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a source file",
		Long: `Scan a source file and print every token up to and including the end of
input, with its line, kind, lexeme and decoded literal value. Lexical errors
are reported after the table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd).WithFormat(cmd, format)
			sc, err := scanner.FromFile(args[0])
			if err != nil {
				return err
			}
			toks := sc.Tokenize()
			cc.Logger.Debug("scanned tokens", "file", args[0], "tokens", len(toks))

			if err := renderTokens(cc.Renderer, args[0], toks, sc); err != nil {
				return err
			}
			if sc.HadErrors() {
				return ErrDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: auto, text, markdown, json")
	return cmd
}

func tokenRows(toks []token.Token) []TokenJSON {
	rows := make([]TokenJSON, 0, len(toks))
	for _, tok := range toks {
		row := TokenJSON{Line: tok.Line, Type: tok.Type.String(), Literal: tok.Literal}
		if tok.Value != nil {
			row.Value = tok.Value.String()
		}
		rows = append(rows, row)
	}
	return rows
}

func renderTokens(r *output.Renderer, file string, toks []token.Token, sc *scanner.Scanner) error {
	rows := tokenRows(toks)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(TokensOutput{
			File:        file,
			Tokens:      rows,
			Diagnostics: output.ToDiagnosticJSON(sc.Errors()),
		})
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	if markdown {
		r.Println(output.FormatHeader(file, 2))
		r.Println()
	} else {
		r.Header(file)
	}
	writeTokenTable(r.Writer(), rows, markdown)
	r.Println()
	r.Diagnostics(sc.Errors())
	return nil
}

func writeTokenTable(w io.Writer, rows []TokenJSON, markdown bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Line", "Type", "Literal", "Value"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.Line, row.Type, row.Literal, row.Value})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tokens", len(rows)), "", ""})

	if markdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}
