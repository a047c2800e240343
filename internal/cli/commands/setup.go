package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/plc/internal/cli/config"
	"github.com/leapstack-labs/plc/internal/cli/output"
	"github.com/leapstack-labs/plc/internal/driver"
	"github.com/leapstack-labs/plc/pkg/parser"
	"github.com/leapstack-labs/plc/pkg/scanner"
	"github.com/spf13/cobra"
)

// ErrDiagnostics is returned by commands that found errors in their input.
// The diagnostics themselves have already been rendered.
var ErrDiagnostics = errors.New("errors found")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the context for cmd from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}
}

// WithFormat overrides the renderer mode when format is set.
func (cc *CommandContext) WithFormat(cmd *cobra.Command, format string) *CommandContext {
	if format != "" {
		cc.Renderer = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
	}
	return cc
}

// Driver creates a driver from the configuration.
func (cc *CommandContext) Driver() *driver.Driver {
	return driver.New(driver.Config{
		Module:    cc.Cfg.Module,
		SourceExt: cc.Cfg.SourceExt,
		ParseMode: cc.Cfg.ParseMode,
		Jobs:      cc.Cfg.Jobs,
		Exclude:   cc.Cfg.Excluded,
		Logger:    cc.Logger,
	})
}

// Parse parses a single file in the configured parse mode.
func (cc *CommandContext) Parse(path string) (*parser.Parser, error) {
	sc, err := scanner.FromFile(path)
	if err != nil {
		return nil, err
	}
	opt := parser.WithLogger(cc.Logger)
	if cc.Cfg.ParseMode == config.ParseModeLazy {
		return parser.Lazy(sc, path, opt), nil
	}
	return parser.FromScanner(sc, path, opt), nil
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// defaults overlaid with PLC_* environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cfg, err := config.LoadConfig("", nil)
	if err == nil {
		return cfg
	}
	_, _ = fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)

	wd, _ := os.Getwd()
	return &config.Config{
		Module:      config.DefaultModule,
		SourceExt:   config.DefaultSourceExt,
		ParseMode:   config.DefaultParseMode,
		Output:      config.DefaultOutput,
		LogLevel:    config.DefaultLogLevel,
		ProjectRoot: wd,
	}
}
