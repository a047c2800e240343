package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/leapstack-labs/plc/internal/cli/output"
	"github.com/leapstack-labs/plc/pkg/ast"
	"github.com/leapstack-labs/plc/pkg/diag"
	"github.com/spf13/cobra"
)

var astFormats = []string{"sexpr", "yaml", "json"}

// NewASTCommand creates the ast command.
func NewASTCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the syntax tree of a source file",
		Long: `Parse a source file and print its syntax tree on stdout. Statements that
failed to parse are left out of the tree; their diagnostics go to stderr.

Formats:
  sexpr  one s-expression per statement (default)
  yaml   node tree as YAML, with the collected comments
  json   node tree as JSON, with the collected comments`,
		Example: `  plc ast main.pl
  plc ast main.pl --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(astFormats, format) {
				return fmt.Errorf("invalid format %q (valid: sexpr, yaml, json)", format)
			}
			cc := NewCommandContext(cmd)
			p, err := cc.Parse(args[0])
			if err != nil {
				return err
			}
			file := p.Parse()

			dump := ast.Dump(file)
			dump.Comments = p.Comments()
			if err := writeAST(cmd.OutOrStdout(), dump, file, format); err != nil {
				return err
			}

			diags := slices.Concat(p.ScanErrors(), p.Errors())
			writeDiagnosticsPlain(cmd.ErrOrStderr(), diags)
			if len(diags) > 0 {
				return ErrDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "sexpr", "Tree format: sexpr, yaml, json")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return astFormats, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func writeAST(w io.Writer, dump *ast.FileDump, file *ast.File, format string) error {
	switch format {
	case "yaml":
		data, err := dump.YAML()
		if err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dump)
	default:
		_, err := io.WriteString(w, ast.SexprFile(file))
		return err
	}
}

func writeDiagnosticsPlain(w io.Writer, diags []diag.ErrorInfo) {
	for _, e := range diags {
		_, _ = fmt.Fprintln(w, output.FormatDiagnostic(e))
	}
}
