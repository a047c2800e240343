// Package symtab implements the lexically scoped symbol table.
//
// The table is a stack of scopes. The bottom scope belongs to the module and
// is never dropped. Scopes are opened with EnterScope or EnterFunction, which
// return a release function meant to be deferred:
//
//	release := tab.EnterFunction(fn)
//	defer release()
package symtab

import (
	"log/slog"

	"github.com/leapstack-labs/plc/pkg/ast"
)

// Scope maps names to symbols.
type Scope struct {
	// Name is set only on the module scope.
	Name string
	// Function is the declaration that opened this scope, if any.
	Function *ast.FuncDecl

	symbols map[string]Symbol
	order   []string
}

func newScope() *Scope {
	return &Scope{symbols: make(map[string]Symbol)}
}

// Lookup returns the symbol named name in this scope only.
func (s *Scope) Lookup(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Names returns the names in insertion order.
func (s *Scope) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of symbols in the scope.
func (s *Scope) Len() int { return len(s.order) }

// Table is a stack of scopes plus the current file context.
type Table struct {
	scopes   []*Scope
	fileName string
	logger   *slog.Logger
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger for scope tracing.
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) { t.logger = l }
}

// New creates a table whose root scope is named after the module.
func New(moduleName string, opts ...Option) *Table {
	root := newScope()
	root.Name = moduleName
	t := &Table{scopes: []*Scope{root}}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.New(slog.DiscardHandler)
	}
	return t
}

// ModuleName returns the name of the root scope.
func (t *Table) ModuleName() string { return t.scopes[0].Name }

// FileName returns the file currently being analyzed.
func (t *Table) FileName() string { return t.fileName }

// Context returns "module:filename" for diagnostics.
func (t *Table) Context() string { return t.ModuleName() + ":" + t.fileName }

// Depth returns the number of open scopes, including the module scope.
func (t *Table) Depth() int { return len(t.scopes) }

// IsModuleScope reports whether only the module scope is open.
func (t *Table) IsModuleScope() bool { return len(t.scopes) == 1 }

// CurrentScope returns the innermost scope.
func (t *Table) CurrentScope() *Scope { return t.scopes[len(t.scopes)-1] }

// ModuleScope returns the root scope.
func (t *Table) ModuleScope() *Scope { return t.scopes[0] }

// CurrentFunction returns the innermost enclosing function, or nil.
func (t *Table) CurrentFunction() *ast.FuncDecl {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if fn := t.scopes[i].Function; fn != nil {
			return fn
		}
	}
	return nil
}

// Insert adds name to the current scope. It returns false, leaving the table
// unchanged, when the current scope already holds name. Shadowing a name from
// an outer scope is allowed here; callers that forbid it check Defined first.
func (t *Table) Insert(name string, sym Symbol) bool {
	s := t.CurrentScope()
	if _, exists := s.symbols[name]; exists {
		return false
	}
	s.symbols[name] = sym
	s.order = append(s.order, name)
	return true
}

// Defined reports whether any open scope holds name.
func (t *Table) Defined(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Lookup finds name, searching from the innermost scope outward.
func (t *Table) Lookup(name string) (Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// CreateScope pushes an empty scope.
func (t *Table) CreateScope() {
	t.scopes = append(t.scopes, newScope())
	t.logger.Debug("scope opened", "depth", len(t.scopes))
}

// DropScope pops the innermost scope. The module scope is never dropped.
func (t *Table) DropScope() {
	if len(t.scopes) == 1 {
		return
	}
	t.scopes[len(t.scopes)-1] = nil
	t.scopes = t.scopes[:len(t.scopes)-1]
	t.logger.Debug("scope closed", "depth", len(t.scopes))
}

// EnterScope pushes a scope and returns the function that pops it.
func (t *Table) EnterScope() func() {
	t.CreateScope()
	return t.release(len(t.scopes))
}

// EnterFunction pushes a scope bound to fn and returns the function that
// pops it.
func (t *Table) EnterFunction(fn *ast.FuncDecl) func() {
	t.CreateScope()
	t.CurrentScope().Function = fn
	return t.release(len(t.scopes))
}

// release returns a function that pops scopes back to below depth. Calling it
// more than once has no further effect.
func (t *Table) release(depth int) func() {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		for len(t.scopes) >= depth && len(t.scopes) > 1 {
			t.DropScope()
		}
	}
}

// EnterFile sets the current file name and returns the function that
// restores the previous one.
func (t *Table) EnterFile(name string) func() {
	prev := t.fileName
	t.fileName = name
	return func() { t.fileName = prev }
}
