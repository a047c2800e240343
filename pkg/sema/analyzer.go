// Package sema runs the semantic checks over parsed files.
//
// Analysis has two passes. The first declares every top-level function of
// every file in the module scope, so files may call functions declared in
// other files. The second walks each file, checking where functions are
// declared and that parameters do not shadow existing names.
package sema

import (
	"log/slog"

	"github.com/leapstack-labs/plc/pkg/ast"
	"github.com/leapstack-labs/plc/pkg/diag"
	"github.com/leapstack-labs/plc/pkg/symtab"
)

// Diagnostic messages.
const (
	ErrFunctionRedefined = "Function '%s' already defined."
	ErrGlobalStatement   = "global scope only supports function and type declarations"
	ErrNestedFunction    = "functions may only be declared on file scope"
	ErrParamShadows      = "argument '%s' shadows already existing name"
	ErrUnsupportedStmt   = "unsupported statement type"
)

// Analyzer checks a module made of one or more files.
type Analyzer struct {
	files  []*ast.File
	table  *symtab.Table
	logger *slog.Logger
	errors diag.List
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// New creates an analyzer for the files of module.
func New(module string, files []*ast.File, opts ...Option) *Analyzer {
	a := &Analyzer{files: files}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	a.table = symtab.New(module, symtab.WithLogger(a.logger))
	return a
}

// Analyze runs both passes and reports whether no error was found.
func (a *Analyzer) Analyze() bool {
	for _, f := range a.files {
		a.declareGlobals(f)
	}
	a.logger.Debug("declared globals",
		"module", a.table.ModuleName(),
		"symbols", a.table.ModuleScope().Len())

	for _, f := range a.files {
		a.analyzeFile(f)
	}
	a.logger.Debug("analysis finished",
		"module", a.table.ModuleName(),
		"files", len(a.files),
		"errors", a.errors.Len())

	return !a.errors.HadErrors()
}

// Errors returns the semantic diagnostics in report order.
func (a *Analyzer) Errors() []diag.ErrorInfo { return a.errors.Items() }

// HadErrors reports whether any semantic diagnostic was recorded.
func (a *Analyzer) HadErrors() bool { return a.errors.HadErrors() }

// Table returns the symbol table. After Analyze the module scope holds every
// declared function.
func (a *Analyzer) Table() *symtab.Table { return a.table }

func (a *Analyzer) errorf(line int, format string, args ...any) {
	a.errors.Addf(diag.Semantic, a.table.Context(), line, format, args...)
}

// declareGlobals inserts the functions of f into the module scope.
func (a *Analyzer) declareGlobals(f *ast.File) {
	defer a.table.EnterFile(f.Name)()

	for _, stmt := range f.Statements {
		fn, ok := stmt.(*ast.FuncDecl)
		if !ok {
			a.errorf(stmt.Line(), ErrGlobalStatement)
			continue
		}
		if !a.table.Insert(fn.Name, symtab.NewFunction(fn)) {
			a.errorf(fn.Line(), ErrFunctionRedefined, fn.Name)
		}
	}
}

func (a *Analyzer) analyzeFile(f *ast.File) {
	defer a.table.EnterFile(f.Name)()

	for _, stmt := range f.Statements {
		a.analyzeStmt(stmt)
	}
}

// analyzeStmt checks one statement. Expression statements, returns and
// blocks are accepted as they are.
func (a *Analyzer) analyzeStmt(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.ExprStmt, *ast.Return, *ast.Block:
		return true
	case *ast.FuncDecl:
		return a.analyzeFunc(s)
	default:
		a.errorf(stmt.Line(), ErrUnsupportedStmt)
		return false
	}
}

// analyzeFunc checks a function declaration and its parameters, then its
// body when there is one.
func (a *Analyzer) analyzeFunc(fn *ast.FuncDecl) bool {
	if !a.table.IsModuleScope() {
		a.errorf(fn.Line(), ErrNestedFunction)
		return false
	}

	release := a.table.EnterFunction(fn)
	defer release()

	if !a.declareParams(fn) {
		return false
	}
	if fn.IsForward() {
		return true
	}
	return a.analyzeStmt(fn.Body)
}

// declareParams inserts the parameters of fn as mutable variables in the
// current scope. It stops at the first name that is already defined.
func (a *Analyzer) declareParams(fn *ast.FuncDecl) bool {
	for _, p := range fn.Params {
		if a.table.Defined(p.Name) {
			a.errorf(fn.Line(), ErrParamShadows, p.Name)
			return false
		}
		a.table.Insert(p.Name, &symtab.VariableSymbol{Type: p.Type, Mutability: symtab.Mutable})
	}
	return true
}
