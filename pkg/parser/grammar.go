package parser

import (
	"fmt"
	"maps"

	"github.com/leapstack-labs/plc/pkg/ast"
	"github.com/leapstack-labs/plc/pkg/token"
)

// Binding powers of the default grammar. Higher binds tighter.
const (
	BPLowest         = 0
	BPComparison     = 5
	BPAdditive       = 10
	BPMultiplicative = 20
	BPUnary          = 30
	BPDeref          = 40
	BPPostfix        = 50
)

// Ops exposes parser operations to parselets.
// It lets grammars built outside this package drive the token stream.
type Ops interface {
	// Current returns the token that would be consumed next.
	Current() token.Token
	// Advance consumes the current token and returns it.
	Advance() token.Token
	Check(t token.TokenType) bool
	// Match consumes the current token if it has type t.
	Match(t token.TokenType) bool
	// Expect consumes a token of type t or returns a syntax error naming what.
	Expect(t token.TokenType, what string) (token.Token, error)
	// ParseExpr parses an expression whose operators bind at least minBP.
	ParseExpr(minBP int) (ast.Expr, error)
	// Errorf builds a syntax error located at tok.
	Errorf(tok token.Token, format string, args ...any) error
}

// PrefixFunc parses an expression that starts with tok.
// Called AFTER tok has been consumed.
type PrefixFunc func(p Ops, tok token.Token, bp int) (ast.Expr, error)

// InfixFunc parses the right-hand side of a binary operator.
// Called AFTER the operator has been consumed; rightBP is the binding power
// to use for the right operand.
type InfixFunc func(p Ops, left ast.Expr, op token.Token, rightBP int) (ast.Expr, error)

// PostfixFunc parses a postfix form such as a call or an index.
// Called AFTER the opening token has been consumed.
type PostfixFunc func(p Ops, left ast.Expr, op token.Token) (ast.Expr, error)

// PrefixParselet is a prefix table entry. BP is handed to Parse and is the
// operand binding power for unary operators.
type PrefixParselet struct {
	BP    int
	Parse PrefixFunc
}

// InfixParselet is an infix table entry.
type InfixParselet struct {
	LeftBP  int
	RightBP int
	Parse   InfixFunc
}

// PostfixParselet is a postfix table entry.
type PostfixParselet struct {
	BP    int
	Parse PostfixFunc
}

// Grammar holds the parselet tables keyed by token type.
//
// Grammars are built by chaining registrations:
//
//	g := parser.NewGrammar().
//		Prefix(token.INT, 0, parser.LiteralParselet).
//		Infix(token.PLUS, parser.BPAdditive, parser.BinaryParselet)
//
// Registration mutates the receiver; use Extend to derive a grammar without
// touching the receiver.
type Grammar struct {
	prefix  map[token.TokenType]PrefixParselet
	infix   map[token.TokenType]InfixParselet
	postfix map[token.TokenType]PostfixParselet
}

// NewGrammar returns an empty grammar.
func NewGrammar() *Grammar {
	return &Grammar{
		prefix:  make(map[token.TokenType]PrefixParselet),
		infix:   make(map[token.TokenType]InfixParselet),
		postfix: make(map[token.TokenType]PostfixParselet),
	}
}

// Prefix registers a prefix parselet for t.
func (g *Grammar) Prefix(t token.TokenType, bp int, fn PrefixFunc) *Grammar {
	g.prefix[t] = PrefixParselet{BP: bp, Parse: fn}
	return g
}

// Infix registers a left-associative infix parselet for t.
func (g *Grammar) Infix(t token.TokenType, bp int, fn InfixFunc) *Grammar {
	g.infix[t] = InfixParselet{LeftBP: bp, RightBP: bp + 1, Parse: fn}
	return g
}

// InfixRight registers a right-associative infix parselet for t.
func (g *Grammar) InfixRight(t token.TokenType, bp int, fn InfixFunc) *Grammar {
	g.infix[t] = InfixParselet{LeftBP: bp, RightBP: bp, Parse: fn}
	return g
}

// Postfix registers a postfix parselet for t.
func (g *Grammar) Postfix(t token.TokenType, bp int, fn PostfixFunc) *Grammar {
	g.postfix[t] = PostfixParselet{BP: bp, Parse: fn}
	return g
}

// Remove drops every parselet registered for t.
func (g *Grammar) Remove(t token.TokenType) *Grammar {
	delete(g.prefix, t)
	delete(g.infix, t)
	delete(g.postfix, t)
	return g
}

// Extend returns a copy of g that can be modified independently.
func (g *Grammar) Extend() *Grammar {
	return &Grammar{
		prefix:  maps.Clone(g.prefix),
		infix:   maps.Clone(g.infix),
		postfix: maps.Clone(g.postfix),
	}
}

// PrefixFor returns the prefix parselet for t.
func (g *Grammar) PrefixFor(t token.TokenType) (PrefixParselet, bool) {
	p, ok := g.prefix[t]
	return p, ok
}

// InfixFor returns the infix parselet for t.
func (g *Grammar) InfixFor(t token.TokenType) (InfixParselet, bool) {
	p, ok := g.infix[t]
	return p, ok
}

// PostfixFor returns the postfix parselet for t.
func (g *Grammar) PostfixFor(t token.TokenType) (PostfixParselet, bool) {
	p, ok := g.postfix[t]
	return p, ok
}

// DefaultGrammar returns a fresh copy of the standard expression grammar.
func DefaultGrammar() *Grammar {
	g := NewGrammar().
		Prefix(token.INT, BPLowest, LiteralParselet).
		Prefix(token.FLOAT, BPLowest, LiteralParselet).
		Prefix(token.STRING, BPLowest, LiteralParselet).
		Prefix(token.IDENT, BPLowest, IdentParselet).
		Prefix(token.LPAREN, BPLowest, GroupParselet).
		Prefix(token.PLUS, BPUnary, UnaryParselet).
		Prefix(token.MINUS, BPUnary, UnaryParselet).
		Prefix(token.STAR, BPDeref, UnaryParselet).
		Postfix(token.LPAREN, BPPostfix, CallParselet).
		Postfix(token.LBRACKET, BPPostfix, IndexParselet)

	for _, t := range []token.TokenType{token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE} {
		g.Infix(t, BPComparison, BinaryParselet)
	}
	for _, t := range []token.TokenType{token.PLUS, token.MINUS} {
		g.Infix(t, BPAdditive, BinaryParselet)
	}
	for _, t := range []token.TokenType{token.STAR, token.SLASH, token.MOD} {
		g.Infix(t, BPMultiplicative, BinaryParselet)
	}
	return g
}

// ---------- Standard parselets ----------

// LiteralParselet builds a Literal from an INT, FLOAT or STRING token.
func LiteralParselet(_ Ops, tok token.Token, _ int) (ast.Expr, error) {
	return &ast.Literal{ExprInfo: ast.At(tok.Line), Type: tok.Type, Value: tok.Value}, nil
}

// IdentParselet builds an Identifier.
func IdentParselet(_ Ops, tok token.Token, _ int) (ast.Expr, error) {
	return &ast.Identifier{ExprInfo: ast.At(tok.Line), Name: tok.Literal}, nil
}

// GroupParselet parses "( expr )" into a Paren node.
func GroupParselet(p Ops, tok token.Token, _ int) (ast.Expr, error) {
	inner, err := p.ParseExpr(BPLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.Expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return &ast.Paren{ExprInfo: ast.At(tok.Line), Inner: inner}, nil
}

// UnaryParselet parses a prefix operator whose operand binds at bp.
func UnaryParselet(p Ops, tok token.Token, bp int) (ast.Expr, error) {
	operand, err := p.ParseExpr(bp)
	if err != nil {
		return nil, err
	}
	return &ast.Unary{ExprInfo: ast.At(tok.Line), Op: tok.Type, Operand: operand}, nil
}

// BinaryParselet parses the right operand of a binary operator.
func BinaryParselet(p Ops, left ast.Expr, op token.Token, rightBP int) (ast.Expr, error) {
	right, err := p.ParseExpr(rightBP)
	if err != nil {
		return nil, err
	}
	return &ast.Binary{ExprInfo: ast.At(left.Line()), Op: op.Type, Left: left, Right: right}, nil
}

// CallParselet parses the argument list of f(...).
func CallParselet(p Ops, left ast.Expr, _ token.Token) (ast.Expr, error) {
	args, err := parseArgs(p, token.RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.Call{ExprInfo: ast.At(left.Line()), Callee: left, Args: args}, nil
}

// IndexParselet parses the subscripts of a[...].
func IndexParselet(p Ops, left ast.Expr, _ token.Token) (ast.Expr, error) {
	args, err := parseArgs(p, token.RBRACKET)
	if err != nil {
		return nil, err
	}
	return &ast.Index{ExprInfo: ast.At(left.Line()), Target: left, Args: args}, nil
}

// parseArgs parses zero or more comma-separated expressions up to closer.
// A trailing comma is rejected.
func parseArgs(p Ops, closer token.TokenType) ([]ast.Expr, error) {
	var args []ast.Expr
	if p.Match(closer) {
		return args, nil
	}
	for {
		arg, err := p.ParseExpr(BPLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.Match(closer) {
			return args, nil
		}
		if _, err := p.Expect(token.COMMA, fmt.Sprintf("',' or '%s'", closer)); err != nil {
			return nil, err
		}
	}
}
