package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/plc/pkg/ast"
	"github.com/leapstack-labs/plc/pkg/parser"
	"github.com/leapstack-labs/plc/pkg/scanner"
	"github.com/leapstack-labs/plc/pkg/sema"
	"github.com/leapstack-labs/plc/pkg/token"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "plc> "
	replContPrompt = "...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse statements interactively",
		Long: `Start an interactive session. Each complete statement is parsed and printed
as an s-expression. Input continues over several lines until braces are
balanced and the statement ends with ';' or '}'.

Every input is kept for the session; .check runs the semantic pass over
all of it, so statements outside functions are reported there just as
'plc check' reports them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			return runREPL(cmd, newREPLSession(cmd.OutOrStdout(), cmd.ErrOrStderr(), cc.Cfg.Module, cc.Logger))
		},
	}
}

func runREPL(cmd *cobra.Command, s *replSession) error {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".plc_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(s.out, "plc REPL (module: %s)\n", s.module)
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.pending.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if s.Feed(line) {
			return nil
		}
		if s.pending.Len() > 0 {
			rl.SetPrompt(replContPrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
}

func newREPLCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".tokens"),
		readline.PcItem(".check"),
		readline.PcItem(".funcs"),
		readline.PcItem(".reset"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	for _, kw := range []string{"func", "return"} {
		items = append(items, readline.PcItem(kw))
	}
	return readline.NewPrefixCompleter(items...)
}

// replSession holds the state of one interactive session independent of the
// terminal, so it can be driven line by line.
type replSession struct {
	out, errOut io.Writer
	module      string
	logger      *slog.Logger

	pending    strings.Builder
	showTokens bool
	inputs     int
	files      []*ast.File
}

func newREPLSession(out, errOut io.Writer, module string, logger *slog.Logger) *replSession {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &replSession{out: out, errOut: errOut, module: module, logger: logger}
}

// Feed handles one input line and reports whether the session should end.
func (s *replSession) Feed(line string) bool {
	trimmed := strings.TrimSpace(line)
	if s.pending.Len() == 0 {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return s.command(trimmed)
		}
	}

	s.pending.WriteString(line)
	s.pending.WriteByte('\n')
	src := s.pending.String()
	if !inputComplete(src) {
		return false
	}
	s.pending.Reset()
	s.eval(src)
	return false
}

// inputComplete reports whether src has balanced braces and ends a
// statement. Input with lexical errors counts as complete so the errors
// get reported.
func inputComplete(src string) bool {
	sc := scanner.FromString(src)
	toks := sc.Tokenize()
	if sc.HadErrors() {
		return true
	}
	depth := 0
	last := token.EOF
	for _, tok := range toks {
		switch tok.Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
		case token.EOF:
			continue
		}
		last = tok.Type
	}
	return depth <= 0 && (last == token.SEMICOLON || last == token.RBRACE)
}

func (s *replSession) eval(src string) {
	s.inputs++
	name := fmt.Sprintf("<repl:%d>", s.inputs)

	sc := scanner.FromString(src, scanner.WithFilename(name))
	if s.showTokens {
		preview := scanner.FromString(src, scanner.WithFilename(name))
		for _, tok := range preview.Tokenize() {
			_, _ = fmt.Fprintf(s.out, "  %d\t%s\n", tok.Line, tok)
		}
	}

	p := parser.FromScanner(sc, name, parser.WithLogger(s.logger))
	file := p.Parse()
	for _, stmt := range file.Statements {
		_, _ = fmt.Fprintln(s.out, ast.Sexpr(stmt))
	}
	writeDiagnosticsPlain(s.errOut, slices.Concat(p.ScanErrors(), p.Errors()))

	if len(file.Statements) > 0 {
		s.files = append(s.files, file)
	}
}

func (s *replSession) command(line string) bool {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".tokens":
		s.showTokens = !s.showTokens
		state := "off"
		if s.showTokens {
			state = "on"
		}
		_, _ = fmt.Fprintf(s.out, "token display %s\n", state)

	case ".check":
		a := sema.New(s.module, s.files, sema.WithLogger(s.logger))
		if a.Analyze() {
			_, _ = fmt.Fprintf(s.out, "ok: %d functions\n", a.Table().ModuleScope().Len())
			return false
		}
		writeDiagnosticsPlain(s.errOut, a.Errors())

	case ".funcs":
		n := 0
		for _, f := range s.files {
			for _, fn := range f.Funcs() {
				_, _ = fmt.Fprintf(s.out, "%s\t%s\n", f.Name, ast.Sexpr(fn))
				n++
			}
		}
		if n == 0 {
			_, _ = fmt.Fprintln(s.out, "(no functions)")
		}

	case ".reset":
		s.files = nil
		s.inputs = 0
		s.pending.Reset()
		_, _ = fmt.Fprintln(s.out, "session cleared")

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", line)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tokens         Toggle printing the token stream of each input
  .check          Run the semantic pass over everything entered so far,
                  as 'plc check' would over a file of the same statements
  .funcs          List the functions entered so far
  .reset          Forget all input
  .quit / .exit   Exit the REPL

Tips:
  - Statements end with ';' or a closing '}'
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}
