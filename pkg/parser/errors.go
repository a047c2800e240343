package parser

import (
	"fmt"

	"github.com/leapstack-labs/plc/pkg/token"
)

// SyntaxError is returned by parselets and statement rules. The parser turns
// it into a diagnostic and resynchronizes.
type SyntaxError struct {
	Line    int
	Token   token.TokenType
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d: %s", e.Line, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken = "unexpected token %s, expected %s"
	ErrNoPrefix        = "unexpected token %s at start of expression"
	ErrUnclosedBlock   = "expected '}' to close block opened at line %d, found end of input"
	ErrFuncBody        = "expected '{' or ';' after return type of '%s', found %s"
)
