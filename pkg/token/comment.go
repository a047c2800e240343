package token

// Comment is a `#` line comment collected by the scanner.
type Comment struct {
	Text string `json:"text" yaml:"text"` // includes the leading '#', excludes the newline
	Line int    `json:"line" yaml:"line"`
}
