// Package driver runs the front end over a set of source files: discovery,
// concurrent parsing and the module-wide semantic pass.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/plc/pkg/ast"
	"github.com/leapstack-labs/plc/pkg/diag"
	"github.com/leapstack-labs/plc/pkg/parser"
	"github.com/leapstack-labs/plc/pkg/scanner"
	"github.com/leapstack-labs/plc/pkg/sema"
	"github.com/leapstack-labs/plc/pkg/symtab"
)

// Parse modes.
const (
	ModeEager = "eager"
	ModeLazy  = "lazy"
)

// Config holds driver configuration.
type Config struct {
	// Module names the module scope used in semantic diagnostics.
	Module string
	// SourceExt selects files when a directory is given (default ".pl").
	SourceExt string
	// ParseMode is ModeEager or ModeLazy.
	ParseMode string
	// Jobs caps concurrent parses; zero means GOMAXPROCS.
	Jobs int
	// Exclude reports whether a discovered file should be skipped.
	// Files named explicitly are never excluded.
	Exclude func(path string) bool
	// Debounce delays a watch re-run after the last change (default 100ms).
	Debounce time.Duration
	// Logger for debug output
	Logger *slog.Logger
}

// Driver checks modules.
type Driver struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a driver, filling in defaults.
func New(cfg Config) *Driver {
	if cfg.Module == "" {
		cfg.Module = "main"
	}
	if cfg.SourceExt == "" {
		cfg.SourceExt = ".pl"
	}
	if cfg.ParseMode == "" {
		cfg.ParseMode = ModeEager
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 100 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{cfg: cfg, logger: logger}
}

// FileResult is the outcome of parsing one file.
type FileResult struct {
	Path    string
	File    *ast.File
	Lexical []diag.ErrorInfo
	Syntax  []diag.ErrorInfo
}

// Result is the outcome of checking a module.
type Result struct {
	Module   string
	Files    []*FileResult
	Semantic []diag.ErrorInfo
	// Table is the symbol table left by the semantic pass.
	Table *symtab.Table
}

// OK reports whether no diagnostic of any kind was recorded.
func (r *Result) OK() bool {
	return len(r.Diagnostics()) == 0
}

// Diagnostics returns every diagnostic: per file lexical then syntax, in file
// order, followed by the semantic ones.
func (r *Result) Diagnostics() []diag.ErrorInfo {
	var out []diag.ErrorInfo
	for _, f := range r.Files {
		out = append(out, f.Lexical...)
		out = append(out, f.Syntax...)
	}
	return append(out, r.Semantic...)
}

// Count returns the number of diagnostics of kind.
func (r *Result) Count(kind diag.Kind) int {
	n := 0
	for _, e := range r.Diagnostics() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Functions returns the number of symbols in the module scope.
func (r *Result) Functions() int {
	if r.Table == nil {
		return 0
	}
	return r.Table.ModuleScope().Len()
}

// Discover expands paths into a sorted, de-duplicated list of source files.
// Directories are walked recursively for files with the configured extension.
func (d *Driver) Discover(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		d.logger.Debug("discovering sources", "dir", root, "ext", d.cfg.SourceExt)
		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), d.cfg.SourceExt) {
				return nil
			}
			if d.cfg.Exclude != nil && d.cfg.Exclude(path) {
				d.logger.Debug("excluded source", "path", path)
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

// ParseFiles parses files concurrently. Results keep the order of files.
func (d *Driver) ParseFiles(ctx context.Context, files []string) ([]*FileResult, error) {
	results := make([]*FileResult, len(files))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(d.cfg.Jobs)
	for i, path := range files {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			res, err := d.parseFile(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Driver) parseFile(path string) (*FileResult, error) {
	sc, err := scanner.FromFile(path)
	if err != nil {
		return nil, err
	}

	opt := parser.WithLogger(d.logger)
	var p *parser.Parser
	if d.cfg.ParseMode == ModeLazy {
		p = parser.Lazy(sc, path, opt)
	} else {
		p = parser.FromScanner(sc, path, opt)
	}

	file := p.Parse()
	d.logger.Debug("parsed source",
		"path", path,
		"mode", d.cfg.ParseMode,
		"statements", len(file.Statements),
		"lexical_errors", len(p.ScanErrors()),
		"syntax_errors", len(p.Errors()))

	return &FileResult{
		Path:    path,
		File:    file,
		Lexical: p.ScanErrors(),
		Syntax:  p.Errors(),
	}, nil
}

// Analyze runs the semantic pass over already parsed files.
func (d *Driver) Analyze(files []*FileResult) *Result {
	trees := make([]*ast.File, len(files))
	for i, f := range files {
		trees[i] = f.File
	}

	a := sema.New(d.cfg.Module, trees, sema.WithLogger(d.logger))
	a.Analyze()

	return &Result{
		Module:   d.cfg.Module,
		Files:    files,
		Semantic: a.Errors(),
		Table:    a.Table(),
	}
}

// Check discovers, parses and analyzes the sources under paths.
func (d *Driver) Check(ctx context.Context, paths []string) (*Result, error) {
	files, err := d.Discover(paths)
	if err != nil {
		return nil, err
	}
	parsed, err := d.ParseFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	return d.Analyze(parsed), nil
}
