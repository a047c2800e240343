// Package token defines the lexical units produced by the scanner.
//
// Token kinds are a closed enumeration. Punctuation and keyword lexemes are kept
// in lookup tables so the scanner can stay table driven.
package token

import "fmt"

// TokenType represents the kind of a lexical token.
//
//nolint:revive // token.TokenType reads better at call sites than token.Type
type TokenType uint8

const (
	// Special tokens
	EOF TokenType = iota
	ERROR

	// Literals
	INT    // 42
	FLOAT  // 4.2
	STRING // "text"
	IDENT  // name

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	MOD    // %
	ASSIGN // =
	EQ     // ==
	NE     // !=
	LT     // <
	GT     // >
	LE     // <=
	GE     // >=

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	DOT       // .
	COLON     // :
	DCOLON    // ::
	COMMA     // ,
	SEMICOLON // ;

	// Keywords
	FUNC
	RETURN

	numTypes
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if t < numTypes {
		return tokenNames[t]
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = [numTypes]string{
	EOF:   "EOF",
	ERROR: "Error",

	INT:    "IntLiteral",
	FLOAT:  "DoubleLiteral",
	STRING: "StringLiteral",
	IDENT:  "Identifier",

	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	MOD:    "%",
	ASSIGN: "=",
	EQ:     "==",
	NE:     "!=",
	LT:     "<",
	GT:     ">",
	LE:     "<=",
	GE:     ">=",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
	DOT:       ".",
	COLON:     ":",
	DCOLON:    "::",
	COMMA:     ",",
	SEMICOLON: ";",

	FUNC:   "func",
	RETURN: "return",
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"func":   FUNC,
	"return": RETURN,
}

// LookupIdent returns the keyword token type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= FUNC && t <= RETURN
}

// IsOperator returns true if the token type is punctuation.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= SEMICOLON
}

// IsLiteral returns true for integer, float and string literals.
func IsLiteral(t TokenType) bool {
	return t >= INT && t <= STRING
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Line    int    // 1-based source line
	Literal string // raw lexeme; the identifier text for IDENT
	Value   Value  // decoded payload for literals, nil otherwise
}

// Is reports whether the token has one of the given types.
func (t Token) Is(types ...TokenType) bool {
	for _, typ := range types {
		if t.Type == typ {
			return true
		}
	}
	return false
}

// String renders the token for dumps and diagnostics.
func (t Token) String() string {
	switch {
	case IsKeyword(t.Type):
		return "Kw" + capitalize(t.Type.String())
	case t.Type == IDENT:
		return fmt.Sprintf("%s: %q", t.Type, t.Literal)
	case IsLiteral(t.Type) && t.Value != nil:
		return fmt.Sprintf("%s: %s", t.Type, t.Value)
	}
	return t.Type.String()
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
