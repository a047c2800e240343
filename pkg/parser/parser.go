// Package parser builds an AST from the scanner's token stream.
//
// # Usage
//
//	p := parser.FromString("func main() i32 { return 0; }", "main.pl")
//	file := p.Parse()
//	if p.HadErrors() {
//	    // p.Errors() and p.ScanErrors()
//	}
//
// # Grammar Overview
//
// Statements are parsed by recursive descent:
//
//	program    → statement*
//	statement  → funcDecl | returnStmt | block | exprStmt
//	funcDecl   → 'func' IDENT '(' [param (',' param)*] ')' type (block | ';')
//	param      → IDENT type
//	returnStmt → 'return' [expr] ';'
//	block      → '{' statement* '}'
//	exprStmt   → expr ';'
//	type       → IDENT
//
// Expressions are parsed by a Pratt engine driven by a Grammar (see
// grammar.go). Callers may supply their own grammar with WithGrammar.
//
// Syntax errors never stop the parse: the failing statement is dropped, a
// diagnostic is recorded and the parser skips ahead to the next statement.
package parser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/plc/pkg/ast"
	"github.com/leapstack-labs/plc/pkg/diag"
	"github.com/leapstack-labs/plc/pkg/scanner"
	"github.com/leapstack-labs/plc/pkg/token"
)

// Parser parses one source file.
type Parser struct {
	src      tokenSource
	scanner  *scanner.Scanner
	filename string
	grammar  *Grammar
	logger   *slog.Logger

	token    token.Token // current token
	consumed int         // number of tokens consumed so far

	errors diag.List
}

// Option configures a Parser.
type Option func(*Parser)

// WithGrammar replaces the default expression grammar.
func WithGrammar(g *Grammar) Option {
	return func(p *Parser) { p.grammar = g }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// FromString creates an eager parser over src.
func FromString(src, filename string, opts ...Option) *Parser {
	return FromScanner(scanner.FromString(src, scanner.WithFilename(filename)), filename, opts...)
}

// FromFile reads path and creates an eager parser over its contents.
func FromFile(path string, opts ...Option) (*Parser, error) {
	sc, err := scanner.FromFile(path)
	if err != nil {
		return nil, err
	}
	return FromScanner(sc, path, opts...), nil
}

// FromScanner drains sc into a buffer and parses from it.
func FromScanner(sc *scanner.Scanner, filename string, opts ...Option) *Parser {
	return newParser(newBufferedSource(sc), sc, filename, opts)
}

// Lazy creates a parser that pulls tokens from sc as it needs them.
// It produces the same tree and diagnostics as FromScanner.
func Lazy(sc *scanner.Scanner, filename string, opts ...Option) *Parser {
	return newParser(&lazySource{sc: sc}, sc, filename, opts)
}

func newParser(src tokenSource, sc *scanner.Scanner, filename string, opts []Option) *Parser {
	p := &Parser{
		src:      src,
		scanner:  sc,
		filename: filename,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.grammar == nil {
		p.grammar = DefaultGrammar()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	p.token = p.src.next()
	return p
}

// Filename returns the name used in diagnostics.
func (p *Parser) Filename() string { return p.filename }

// Errors returns the syntax diagnostics recorded so far.
func (p *Parser) Errors() []diag.ErrorInfo { return p.errors.Items() }

// HadErrors reports whether any syntax diagnostic was recorded.
func (p *Parser) HadErrors() bool { return p.errors.HadErrors() }

// ScanErrors returns the lexical diagnostics of the underlying scanner.
func (p *Parser) ScanErrors() []diag.ErrorInfo { return p.scanner.Errors() }

// Comments returns the comments skipped by the scanner.
func (p *Parser) Comments() []token.Comment { return p.scanner.Comments() }

// Parse parses statements until end of input. The token stream is consumed,
// so a second call returns an empty file.
func (p *Parser) Parse() *ast.File {
	file := &ast.File{Name: p.filename}
	for !p.Check(token.EOF) {
		if stmt := p.statement(); stmt != nil {
			file.Statements = append(file.Statements, stmt)
		}
	}
	p.logger.Debug("parsed file",
		"file", p.filename,
		"statements", len(file.Statements),
		"errors", p.errors.Len())
	return file
}

// ---------- Token Helpers ----------

// Current implements Ops.
func (p *Parser) Current() token.Token { return p.token }

// Advance implements Ops.
func (p *Parser) Advance() token.Token {
	tok := p.token
	if tok.Type != token.EOF {
		p.token = p.src.next()
		p.consumed++
	}
	return tok
}

// Check implements Ops.
func (p *Parser) Check(t token.TokenType) bool { return p.token.Type == t }

// Match implements Ops.
func (p *Parser) Match(t token.TokenType) bool {
	if p.Check(t) {
		p.Advance()
		return true
	}
	return false
}

// Expect implements Ops.
func (p *Parser) Expect(t token.TokenType, what string) (token.Token, error) {
	if p.Check(t) {
		return p.Advance(), nil
	}
	return p.token, p.Errorf(p.token, ErrUnexpectedToken, describe(p.token), what)
}

// Errorf implements Ops.
func (p *Parser) Errorf(tok token.Token, format string, args ...any) error {
	return &SyntaxError{Line: tok.Line, Token: tok.Type, Message: fmt.Sprintf(format, args...)}
}

// report records err as a syntax diagnostic.
func (p *Parser) report(err error) {
	line := p.token.Line
	msg := err.Error()
	var se *SyntaxError
	if errors.As(err, &se) {
		line, msg = se.Line, se.Message
	}
	p.errors.Add(diag.ErrorInfo{
		Kind:    diag.Syntax,
		Context: p.filename,
		Message: msg,
		Line:    line,
	})
}

// describe renders a token for error messages.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ERROR:
		if tok.Literal != "" {
			return fmt.Sprintf("invalid token %q", tok.Literal)
		}
		return "invalid token"
	}
	if token.IsOperator(tok.Type) {
		return "'" + tok.Type.String() + "'"
	}
	return tok.String()
}

// ---------- Token sources ----------

// tokenSource yields tokens; after the end it keeps yielding EOF.
type tokenSource interface {
	next() token.Token
}

// bufferedSource holds every token of the file.
type bufferedSource struct {
	toks []token.Token
	pos  int
}

func newBufferedSource(sc *scanner.Scanner) *bufferedSource {
	var toks []token.Token
	for sc.IsOpen() {
		toks = append(toks, sc.NextToken())
	}
	if n := len(toks); n == 0 || toks[n-1].Type != token.EOF {
		line := 1
		if n > 0 {
			line = toks[n-1].Line
		}
		toks = append(toks, token.Token{Type: token.EOF, Line: line})
	}
	return &bufferedSource{toks: toks}
}

func (b *bufferedSource) next() token.Token {
	tok := b.toks[b.pos]
	if b.pos < len(b.toks)-1 {
		b.pos++
	}
	return tok
}

// lazySource pulls from the scanner on demand.
type lazySource struct {
	sc   *scanner.Scanner
	last int
}

func (l *lazySource) next() token.Token {
	if !l.sc.IsOpen() {
		return token.Token{Type: token.EOF, Line: max(l.last, 1)}
	}
	tok := l.sc.NextToken()
	l.last = tok.Line
	return tok
}
