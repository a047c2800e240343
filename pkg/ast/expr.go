package ast

import "github.com/leapstack-labs/plc/pkg/token"

// Literal is an integer, float or string constant.
type Literal struct {
	ExprInfo
	Type  token.TokenType // INT, FLOAT or STRING
	Value token.Value
}

// Identifier is a reference to a named entity.
type Identifier struct {
	ExprInfo
	Name string
}

// Unary is a prefix operator applied to one operand: -x, +x or *p.
type Unary struct {
	ExprInfo
	Op      token.TokenType
	Operand Expr
}

// Binary is an infix operator applied to two operands.
type Binary struct {
	ExprInfo
	Op    token.TokenType
	Left  Expr
	Right Expr
}

// Paren is a parenthesized expression. It is kept in the tree so printers
// can reproduce the source grouping.
type Paren struct {
	ExprInfo
	Inner Expr
}

// Call is a function application f(a, b).
type Call struct {
	ExprInfo
	Callee Expr
	Args   []Expr
}

// Index is a subscript a[i, j].
type Index struct {
	ExprInfo
	Target Expr
	Args   []Expr
}

func (*Literal) exprNode()    {}
func (*Identifier) exprNode() {}
func (*Unary) exprNode()      {}
func (*Binary) exprNode()     {}
func (*Paren) exprNode()      {}
func (*Call) exprNode()       {}
func (*Index) exprNode()      {}

// Kind implements Node.
func (*Literal) Kind() Kind { return KindLiteral }

// Kind implements Node.
func (*Identifier) Kind() Kind { return KindIdentifier }

// Kind implements Node.
func (*Unary) Kind() Kind { return KindUnary }

// Kind implements Node.
func (*Binary) Kind() Kind { return KindBinary }

// Kind implements Node.
func (*Paren) Kind() Kind { return KindParen }

// Kind implements Node.
func (*Call) Kind() Kind { return KindCall }

// Kind implements Node.
func (*Index) Kind() Kind { return KindIndex }

// Unparen strips any number of enclosing Paren nodes.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*Paren)
		if !ok {
			return e
		}
		e = p.Inner
	}
}
