// Package scanner turns source text into tokens.
//
// The scanner works on an in-memory copy of the source and produces one token
// per NextToken call. Problems are recorded as lexical diagnostics and surface
// to the parser as token.ERROR tokens.
package scanner

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/leapstack-labs/plc/pkg/diag"
	"github.com/leapstack-labs/plc/pkg/token"
)

// Scanner tokenizes source text.
type Scanner struct {
	input    string
	filename string
	pos      int  // current position in input
	readPos  int  // reading position (after current char)
	ch       byte // current char under examination
	line     int  // current line number (1-based)

	valid bool // false for an empty or unreadable source
	done  bool // EOF has been returned

	errors   diag.List
	comments []token.Comment
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFilename sets the name used as context in diagnostics.
func WithFilename(name string) Option {
	return func(s *Scanner) { s.filename = name }
}

// FromString creates a Scanner over src. An empty src yields an invalid
// scanner whose first token is token.ERROR.
func FromString(src string, opts ...Option) *Scanner {
	s := &Scanner{
		input: src,
		line:  1,
		valid: src != "",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.readChar()
	return s
}

// FromFile reads path and creates a Scanner over its contents.
func FromFile(path string, opts ...Option) (*Scanner, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the caller on purpose
	if err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", path, err)
	}
	return FromString(string(data), append([]Option{WithFilename(path)}, opts...)...), nil
}

// Filename returns the name used in diagnostics.
func (s *Scanner) Filename() string { return s.filename }

// IsOpen reports whether more tokens may be produced.
func (s *Scanner) IsOpen() bool { return s.valid && !s.done }

// Errors returns the lexical diagnostics recorded so far.
func (s *Scanner) Errors() []diag.ErrorInfo { return s.errors.Items() }

// HadErrors reports whether any lexical diagnostic was recorded.
func (s *Scanner) HadErrors() bool { return s.errors.HadErrors() }

// Comments returns the line comments skipped so far.
func (s *Scanner) Comments() []token.Comment { return s.comments }

// readChar advances to the next character.
func (s *Scanner) readChar() {
	if s.readPos >= len(s.input) {
		s.ch = 0
	} else {
		s.ch = s.input[s.readPos]
	}
	s.pos = s.readPos
	s.readPos++

	if s.ch == '\n' {
		s.line++
	}
}

// peekChar returns the next character without advancing.
func (s *Scanner) peekChar() byte {
	if s.readPos >= len(s.input) {
		return 0
	}
	return s.input[s.readPos]
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.input) }

func (s *Scanner) advance(n int) {
	for i := 0; i < n; i++ {
		s.readChar()
	}
}

func (s *Scanner) errorf(line int, format string, args ...any) {
	s.errors.Addf(diag.Lexical, s.filename, line, format, args...)
}

// NextToken returns the next token. After the end of input it keeps
// returning token.EOF.
func (s *Scanner) NextToken() token.Token {
	if !s.valid {
		return token.Token{Type: token.ERROR, Line: s.line}
	}
	if s.done {
		return token.Token{Type: token.EOF, Line: s.line}
	}

	s.skipWhitespaceAndComments()

	line := s.line
	if s.atEnd() {
		s.done = true
		return token.Token{Type: token.EOF, Line: line}
	}

	if tok, ok := s.scanPunctuation(line); ok {
		return tok
	}

	switch {
	case isLetter(s.ch) || s.ch == '_':
		return s.scanIdentifier(line)
	case isDigit(s.ch):
		return s.scanNumber(line)
	case s.ch == '"':
		return s.scanString(line)
	}

	ch := s.ch
	s.readChar()
	s.errorf(line, "unexpected character %q", ch)
	return token.Token{Type: token.ERROR, Line: line, Literal: string(ch)}
}

// Tokenize drains the scanner and returns every token including the final
// EOF (or the single ERROR of an invalid scanner).
func (s *Scanner) Tokenize() []token.Token {
	var toks []token.Token
	for {
		tok := s.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF || !s.IsOpen() {
			return toks
		}
	}
}

// skipWhitespaceAndComments skips blanks and collects '#' comments.
func (s *Scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		switch s.ch {
		case ' ', '\t', '\r', '\n':
			s.readChar()
		case '#':
			s.collectLineComment()
		default:
			return
		}
	}
}

func (s *Scanner) collectLineComment() {
	start, line := s.pos, s.line
	for !s.atEnd() && s.ch != '\n' {
		s.readChar()
	}
	s.comments = append(s.comments, token.Comment{Text: s.input[start:s.pos], Line: line})
}

// scanPunctuation applies maximal munch over the punctuation table. The
// lexeme grows one character at a time while a longer punctuation is still
// possible; once it cannot grow, the longest exact match seen wins.
// It returns false when the current character starts no punctuation.
func (s *Scanner) scanPunctuation(line int) (token.Token, bool) {
	start := s.pos
	best := 0     // length of the longest exact match
	consumed := 0 // length of the longest prefix that matched anything
	for n := 1; start+n <= len(s.input); n++ {
		res := token.MatchPunctuation(s.input[start : start+n])
		if res == token.MatchNone {
			break
		}
		consumed = n
		if res == token.MatchLonger || res == token.MatchFull {
			best = n
		}
		if res == token.MatchFull {
			break
		}
	}

	if consumed == 0 {
		return token.Token{}, false
	}

	if best == 0 {
		lexeme := s.input[start : start+consumed]
		s.advance(consumed)
		s.errorf(line, "unexpected character sequence %q", lexeme)
		return token.Token{Type: token.ERROR, Line: line, Literal: lexeme}, true
	}

	lexeme := s.input[start : start+best]
	s.advance(best)
	typ, _ := token.LookupPunctuation(lexeme)
	return token.Token{Type: typ, Line: line, Literal: lexeme}, true
}

func (s *Scanner) scanIdentifier(line int) token.Token {
	start := s.pos
	for isLetter(s.ch) || isDigit(s.ch) || s.ch == '_' || s.ch == '$' {
		s.readChar()
	}
	text := s.input[start:s.pos]
	return token.Token{Type: token.LookupIdent(text), Line: line, Literal: text}
}

// scanNumber reads an integer, or a float when a '.' is followed by a digit.
func (s *Scanner) scanNumber(line int) token.Token {
	start := s.pos
	for isDigit(s.ch) {
		s.readChar()
	}

	if s.ch == '.' && isDigit(s.peekChar()) {
		s.readChar() // skip '.'
		for isDigit(s.ch) {
			s.readChar()
		}
		text := s.input[start:s.pos]
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			s.errorf(line, "float literal out of range: (%s)", text)
			return token.Token{Type: token.ERROR, Line: line, Literal: text}
		}
		return token.Token{Type: token.FLOAT, Line: line, Literal: text, Value: token.FloatValue(v)}
	}

	text := s.input[start:s.pos]
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		s.errorf(line, "integer literal out of range: (%s)", text)
		return token.Token{Type: token.ERROR, Line: line, Literal: text}
	}
	return token.Token{Type: token.INT, Line: line, Literal: text, Value: token.IntValue(v)}
}

// scanString reads a double-quoted string literal.
func (s *Scanner) scanString(line int) token.Token {
	start := s.pos
	s.readChar() // skip opening quote

	var b strings.Builder
	for !s.atEnd() {
		switch s.ch {
		case '"':
			s.readChar() // skip closing quote
			return token.Token{
				Type:    token.STRING,
				Line:    line,
				Literal: s.input[start:s.pos],
				Value:   token.StringValue(b.String()),
			}
		case '\\':
			s.readChar()
			if s.atEnd() {
				continue
			}
			switch s.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte('\\')
				b.WriteByte(s.ch)
			}
			s.readChar()
		default:
			b.WriteByte(s.ch)
			s.readChar()
		}
	}

	s.errorf(line, "unterminated string literal starting at line %d", line)
	return token.Token{Type: token.ERROR, Line: line, Literal: s.input[start:s.pos]}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
