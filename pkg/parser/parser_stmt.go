package parser

import (
	"fmt"

	"github.com/leapstack-labs/plc/pkg/ast"
	"github.com/leapstack-labs/plc/pkg/token"
)

// statement parses one statement. On failure it records the error,
// resynchronizes and returns nil.
func (p *Parser) statement() ast.Stmt {
	start := p.consumed
	stmt, err := p.parseStatement()
	if err == nil {
		return stmt
	}

	p.report(err)
	p.synchronize(p.consumed != start)
	p.logger.Debug("recovered from syntax error",
		"file", p.filename,
		"error", err,
		"resume_line", p.token.Line)
	return nil
}

// parseStatement dispatches on the current token.
func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.token.Type {
	case token.FUNC:
		return p.parseFuncDecl()
	case token.RETURN:
		return p.parseReturn()
	case token.LBRACE:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return block, nil
	default:
		return p.parseExprStmt()
	}
}

// synchronize skips tokens until a likely statement boundary:
//
//   - just after a ';' outside any skipped braces
//   - just after a '}' that closes a brace skipped here
//   - just before 'func' or 'return' outside skipped braces
//   - just before a '}' that belongs to an enclosing block
//
// When the failed statement consumed nothing, at least one token is skipped.
func (p *Parser) synchronize(progress bool) {
	depth := 0
	for !p.Check(token.EOF) {
		switch p.token.Type {
		case token.SEMICOLON:
			p.Advance()
			if depth == 0 {
				return
			}
			continue

		case token.LBRACE:
			depth++

		case token.RBRACE:
			if depth > 0 {
				depth--
				p.Advance()
				if depth == 0 {
					return
				}
				continue
			}
			if progress {
				return
			}

		case token.FUNC, token.RETURN:
			if depth == 0 && progress {
				return
			}
		}

		p.Advance()
		progress = true
	}
}

// parseFuncDecl parses:
//
//	'func' IDENT '(' [IDENT type (',' IDENT type)*] ')' type (block | ';')
func (p *Parser) parseFuncDecl() (*ast.FuncDecl, error) {
	fn := &ast.FuncDecl{NodeInfo: ast.NodeInfo{SrcLine: p.Advance().Line}}

	name, err := p.Expect(token.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	fn.Name = name.Literal

	if _, err := p.Expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	if fn.Params, err = p.parseParams(); err != nil {
		return nil, err
	}

	if fn.ReturnType, err = p.parseType(); err != nil {
		return nil, err
	}

	switch {
	case p.Match(token.SEMICOLON):
		return fn, nil
	case p.Check(token.LBRACE):
		if fn.Body, err = p.parseBlock(); err != nil {
			return nil, err
		}
		return fn, nil
	default:
		return nil, p.Errorf(p.token, ErrFuncBody, fn.Name, describe(p.token))
	}
}

// parseParams parses the parameter list after '(' up to and including ')'.
func (p *Parser) parseParams() ([]ast.Param, error) {
	var params []ast.Param
	if p.Match(token.RPAREN) {
		return params, nil
	}
	for {
		name, err := p.Expect(token.IDENT, "parameter name")
		if err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: name.Literal, Type: typ, Line: name.Line})

		if p.Match(token.RPAREN) {
			return params, nil
		}
		if _, err := p.Expect(token.COMMA, "',' or ')'"); err != nil {
			return nil, err
		}
	}
}

// parseType parses a type name.
func (p *Parser) parseType() (ast.TypeExpr, error) {
	tok, err := p.Expect(token.IDENT, "type")
	if err != nil {
		return nil, err
	}
	return &ast.NamedType{NodeInfo: ast.NodeInfo{SrcLine: tok.Line}, Name: tok.Literal}, nil
}

// parseReturn parses 'return' [expr] ';'.
func (p *Parser) parseReturn() (*ast.Return, error) {
	ret := &ast.Return{NodeInfo: ast.NodeInfo{SrcLine: p.Advance().Line}}
	if p.Match(token.SEMICOLON) {
		return ret, nil
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	ret.Value = value

	if _, err := p.Expect(token.SEMICOLON, "';' after return value"); err != nil {
		return nil, err
	}
	return ret, nil
}

// parseBlock parses '{' statement* '}'. Errors inside the block are
// recovered here; only a missing '}' fails the block itself.
func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.Expect(token.LBRACE, "'{'")
	if err != nil {
		return nil, err
	}
	block := &ast.Block{NodeInfo: ast.NodeInfo{SrcLine: open.Line}}

	for !p.Check(token.RBRACE) {
		if p.Check(token.EOF) {
			return nil, p.Errorf(p.token, ErrUnclosedBlock, open.Line)
		}
		if stmt := p.statement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.Advance()
	return block, nil
}

// parseExprStmt parses expr ';'.
func (p *Parser) parseExprStmt() (*ast.ExprStmt, error) {
	line := p.token.Line
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.Expect(token.SEMICOLON, fmt.Sprintf("';' after %s", x.Kind())); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{NodeInfo: ast.NodeInfo{SrcLine: line}, X: x}, nil
}
