package parser

import (
	"github.com/leapstack-labs/plc/pkg/ast"
)

// Expression parsing using a Pratt loop over the grammar tables.
//
// Binding powers of the default grammar:
//
//	BPComparison     = 5   (== != < > <= >=)
//	BPAdditive       = 10  (+ -)
//	BPMultiplicative = 20  (* / %)
//	BPUnary          = 30  (prefix + -)
//	BPDeref          = 40  (prefix *)
//	BPPostfix        = 50  (call, index)
//
// Infix operators parse their right operand at LeftBP+1, which makes them
// left-associative.

// parseExpression parses a full expression.
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.ParseExpr(BPLowest)
}

// ParseExpr implements Ops.
func (p *Parser) ParseExpr(minBP int) (ast.Expr, error) {
	tok := p.token
	prefix, ok := p.grammar.PrefixFor(tok.Type)
	if !ok {
		// Leave the token in place so recovery can decide what to skip.
		return nil, p.Errorf(tok, ErrNoPrefix, describe(tok))
	}
	p.Advance()

	left, err := prefix.Parse(p, tok, prefix.BP)
	if err != nil {
		return nil, err
	}

	for {
		op := p.token

		if post, ok := p.grammar.PostfixFor(op.Type); ok && post.BP >= minBP {
			p.Advance()
			if left, err = post.Parse(p, left, op); err != nil {
				return nil, err
			}
			continue
		}

		if in, ok := p.grammar.InfixFor(op.Type); ok && in.LeftBP >= minBP {
			p.Advance()
			if left, err = in.Parse(p, left, op, in.RightBP); err != nil {
				return nil, err
			}
			continue
		}

		return left, nil
	}
}
