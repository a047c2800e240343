package symtab

import (
	"strings"

	"github.com/leapstack-labs/plc/pkg/ast"
)

// Symbol is a named entity stored in a scope.
// It is one of *VariableSymbol or *FunctionSymbol.
type Symbol interface {
	// String describes the symbol for dumps and debug logs.
	String() string
	symbol()
}

// Mutability of a variable.
type Mutability uint8

// Mutability values.
const (
	Immutable Mutability = iota
	Mutable
)

func (m Mutability) String() string {
	if m == Mutable {
		return "mutable"
	}
	return "immutable"
}

// VariableSymbol is a variable or parameter.
type VariableSymbol struct {
	Type       ast.TypeExpr
	Mutability Mutability
}

// FunctionSymbol is a declared function.
type FunctionSymbol struct {
	ReturnType ast.TypeExpr
	Params     []ast.TypeExpr
}

func (*VariableSymbol) symbol() {}
func (*FunctionSymbol) symbol() {}

func (v *VariableSymbol) String() string {
	return v.Mutability.String() + " " + typeString(v.Type)
}

func (f *FunctionSymbol) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = typeString(p)
	}
	return "func(" + strings.Join(params, ", ") + ") " + typeString(f.ReturnType)
}

// NewFunction builds the symbol for a function declaration.
func NewFunction(fn *ast.FuncDecl) *FunctionSymbol {
	return &FunctionSymbol{ReturnType: fn.ReturnType, Params: fn.ParamTypes()}
}

func typeString(t ast.TypeExpr) string {
	if t == nil {
		return "?"
	}
	return t.String()
}
