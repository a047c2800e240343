// Package ast defines the syntax tree produced by the parser.
//
// The node set is closed: expressions, statements and type expressions are
// sealed interfaces, and every concrete node reports its Kind. Each parent
// owns its children exclusively; nodes are never shared between trees.
package ast

import "fmt"

// Kind enumerates the concrete node types.
type Kind uint8

// Node kinds.
const (
	KindInvalid Kind = iota

	// Expressions
	KindLiteral
	KindIdentifier
	KindUnary
	KindBinary
	KindParen
	KindCall
	KindIndex

	// Statements
	KindFuncDecl
	KindReturn
	KindBlock
	KindExprStmt

	// Types
	KindNamedType

	numKinds
)

var kindNames = [numKinds]string{
	KindInvalid:    "Invalid",
	KindLiteral:    "Literal",
	KindIdentifier: "Identifier",
	KindUnary:      "Unary",
	KindBinary:     "Binary",
	KindParen:      "Paren",
	KindCall:       "Call",
	KindIndex:      "Index",
	KindFuncDecl:   "FuncDecl",
	KindReturn:     "Return",
	KindBlock:      "Block",
	KindExprStmt:   "ExprStmt",
	KindNamedType:  "NamedType",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsExpr reports whether k is an expression kind.
func (k Kind) IsExpr() bool { return k >= KindLiteral && k <= KindIndex }

// IsStmt reports whether k is a statement kind.
func (k Kind) IsStmt() bool { return k >= KindFuncDecl && k <= KindExprStmt }

// Node is the base interface for all AST nodes.
type Node interface {
	// Kind returns the concrete node type.
	Kind() Kind
	// Line returns the 1-based source line the node starts on.
	Line() int
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	// ResolvedType returns the type assigned by a checker, or nil.
	ResolvedType() TypeExpr
	exprNode()
}

// Stmt is a marker interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// TypeExpr is a marker interface for type expressions.
type TypeExpr interface {
	Node
	// String returns the type as written in source.
	String() string
	typeNode()
}

// NodeInfo carries the source line shared by all nodes.
type NodeInfo struct {
	SrcLine int
}

// Line implements Node.
func (n NodeInfo) Line() int { return n.SrcLine }

// ExprInfo is embedded by every expression. Resolved stays nil until a type
// checker fills it in.
type ExprInfo struct {
	NodeInfo
	Resolved TypeExpr
}

// ResolvedType implements Expr.
func (e ExprInfo) ResolvedType() TypeExpr { return e.Resolved }

// At returns an ExprInfo for an expression starting on line.
func At(line int) ExprInfo { return ExprInfo{NodeInfo: NodeInfo{SrcLine: line}} }

// File is the root of a parsed source file.
type File struct {
	Name       string
	Statements []Stmt
}

// Funcs returns the function declarations at file scope in source order.
func (f *File) Funcs() []*FuncDecl {
	var out []*FuncDecl
	for _, s := range f.Statements {
		if fn, ok := s.(*FuncDecl); ok {
			out = append(out, fn)
		}
	}
	return out
}
