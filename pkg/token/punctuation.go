package token

import (
	"sort"
	"strings"
)

// punctuations maps every punctuation lexeme to its token type.
var punctuations = map[string]TokenType{
	"+": PLUS,
	"-": MINUS,
	"*": STAR,
	"/": SLASH,
	"%": MOD,

	"=": ASSIGN,

	"==": EQ,
	"!=": NE,
	"<":  LT,
	">":  GT,
	"<=": LE,
	">=": GE,

	"(": LPAREN,
	")": RPAREN,
	"[": LBRACKET,
	"]": RBRACKET,
	"{": LBRACE,
	"}": RBRACE,

	".":  DOT,
	":":  COLON,
	"::": DCOLON,
	",":  COMMA,
	";":  SEMICOLON,
}

// sortedPunctuations holds the keys of punctuations in lexical order.
var sortedPunctuations = func() []string {
	keys := make([]string, 0, len(punctuations))
	for k := range punctuations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// MatchResult classifies a candidate lexeme against the punctuation table.
type MatchResult uint8

const (
	// MatchNone means no punctuation starts with the candidate.
	MatchNone MatchResult = iota
	// MatchPartial means the candidate is a strict prefix of some punctuation
	// but not a punctuation itself (e.g. "!").
	MatchPartial
	// MatchLonger means the candidate is a punctuation and a longer one
	// starting with it exists (e.g. "<" and "<=").
	MatchLonger
	// MatchFull means the candidate is a punctuation and nothing longer exists.
	MatchFull
)

// String returns the result name.
func (m MatchResult) String() string {
	switch m {
	case MatchPartial:
		return "Partial"
	case MatchLonger:
		return "MatchButLongerPossible"
	case MatchFull:
		return "FullMatch"
	default:
		return "None"
	}
}

// MatchPunctuation classifies s against the sorted punctuation table.
// Every lexeme starting with s sorts at or after s, so the scan starts at the
// lower bound and stops at the first lexeme that no longer shares the prefix.
func MatchPunctuation(s string) MatchResult {
	if s == "" {
		return MatchNone
	}
	i := sort.SearchStrings(sortedPunctuations, s)
	exact := i < len(sortedPunctuations) && sortedPunctuations[i] == s

	longer := false
	for _, p := range sortedPunctuations[i:] {
		if !strings.HasPrefix(p, s) {
			break
		}
		if p != s {
			longer = true
			break
		}
	}

	switch {
	case exact && longer:
		return MatchLonger
	case exact:
		return MatchFull
	case longer:
		return MatchPartial
	default:
		return MatchNone
	}
}

// LookupPunctuation returns the token type for an exact punctuation lexeme.
func LookupPunctuation(s string) (TokenType, bool) {
	t, ok := punctuations[s]
	return t, ok
}

// Punctuations returns all punctuation lexemes in sorted order.
func Punctuations() []string {
	out := make([]string, len(sortedPunctuations))
	copy(out, sortedPunctuations)
	return out
}
