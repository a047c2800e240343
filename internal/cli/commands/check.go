package commands

import (
	"fmt"

	"github.com/leapstack-labs/plc/internal/cli/output"
	"github.com/leapstack-labs/plc/internal/driver"
	"github.com/leapstack-labs/plc/pkg/diag"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch  bool
	Format string
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Parse and analyze source files",
		Long: `Scan, parse and analyze every source file under the given paths as one
module. Directories are searched recursively for files with the configured
extension (default .pl). With no paths the current directory is checked.

Diagnostics are grouped into lexical, syntax and semantic errors. The command
exits with a non-zero status when any error is found.

Output adapts to the environment:
  - Terminal (TTY): styled text
  - Piped/Scripted: Markdown format`,
		Example: `  # Check the current directory
  plc check

  # Check two files as one module, JSON output
  plc check main.pl math.pl --format json

  # Re-check whenever a source file changes
  plc check src --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when source files change")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Output format: auto, text, markdown, json")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cc := NewCommandContext(cmd).WithFormat(cmd, opts.Format)
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	d := cc.Driver()
	check := func() (*driver.Result, error) {
		res, err := d.Check(cmd.Context(), paths)
		if err != nil {
			return nil, err
		}
		if err := renderCheck(cc.Renderer, res); err != nil {
			return nil, err
		}
		return res, nil
	}

	res, err := check()
	if err != nil {
		return err
	}

	if !opts.Watch {
		if !res.OK() {
			return ErrDiagnostics
		}
		return nil
	}

	cc.Renderer.Muted("Watching for changes (Ctrl+C to stop)...")
	return d.Watch(cmd.Context(), paths, func(changed string) {
		cc.Renderer.Println()
		cc.Renderer.Muted(fmt.Sprintf("Change detected: %s", changed))
		if _, err := check(); err != nil {
			cc.Renderer.Error(err.Error())
		}
	})
}

func renderCheck(r *output.Renderer, res *driver.Result) error {
	summary := output.CheckSummary{
		Files:     len(res.Files),
		Functions: res.Functions(),
		Lexical:   res.Count(diag.Lexical),
		Syntax:    res.Count(diag.Syntax),
		Semantic:  res.Count(diag.Semantic),
		OK:        res.OK(),
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.CheckOutput{
			Module:      res.Module,
			Summary:     summary,
			Diagnostics: output.ToDiagnosticJSON(res.Diagnostics()),
		})

	case output.ModeMarkdown:
		r.Diagnostics(res.Diagnostics())
		r.Println(output.FormatHeader("Summary", 2))
		r.Println()
		r.Println(output.FormatKeyValue("Module", res.Module))
		r.Println(output.FormatKeyValue("Files", summary.Files))
		r.Println(output.FormatKeyValue("Functions", summary.Functions))
		r.Println(output.FormatKeyValue("Errors", summary.Lexical+summary.Syntax+summary.Semantic))
		return nil

	default:
		r.Diagnostics(res.Diagnostics())
		if summary.OK {
			r.Success(fmt.Sprintf("%s: %d files, %d functions, no errors", res.Module, summary.Files, summary.Functions))
			return nil
		}
		r.Println(r.Styles().Error.Render(fmt.Sprintf(
			"%s: %d lexical, %d syntax, %d semantic errors in %d files",
			res.Module, summary.Lexical, summary.Syntax, summary.Semantic, summary.Files)))
		return nil
	}
}
