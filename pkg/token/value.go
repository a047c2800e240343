package token

import "strconv"

// Value is the decoded payload of a literal token.
// It is one of IntValue, FloatValue or StringValue.
type Value interface {
	isValue() // sealed
	String() string
}

// IntValue is the payload of an INT token.
type IntValue int64

// FloatValue is the payload of a FLOAT token.
type FloatValue float64

// StringValue is the payload of a STRING token.
type StringValue string

func (IntValue) isValue()    {}
func (FloatValue) isValue()  {}
func (StringValue) isValue() {}

func (v IntValue) String() string { return strconv.FormatInt(int64(v), 10) }

func (v FloatValue) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

func (v StringValue) String() string { return strconv.Quote(string(v)) }

// Int returns the integer payload, if any.
func (t Token) Int() (int64, bool) {
	v, ok := t.Value.(IntValue)
	return int64(v), ok
}

// Float returns the float payload, if any.
func (t Token) Float() (float64, bool) {
	v, ok := t.Value.(FloatValue)
	return float64(v), ok
}

// Str returns the string payload, if any.
func (t Token) Str() (string, bool) {
	v, ok := t.Value.(StringValue)
	return string(v), ok
}
