package fits

import (
	"fmt"
	"strconv"
)

// Kind identifies the type held by a Value.
type Kind uint8

const (
	Null Kind = iota
	Integer
	Float
	Boolean
	Text
	Pair
	// Raw holds a token the value grammar does not classify. The token is
	// kept verbatim so no header data is dropped.
	Raw
)

var kindNames = []string{
	Null:    "null",
	Integer: "integer",
	Float:   "float",
	Boolean: "boolean",
	Text:    "text",
	Pair:    "pair",
	Raw:     "raw",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is a typed header value. The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	f    [2]float64
	b    bool
	s    string
}

// IntValue returns an Integer value.
func IntValue(v int64) Value { return Value{kind: Integer, i: v} }

// FloatValue returns a Float value.
func FloatValue(v float64) Value { return Value{kind: Float, f: [2]float64{v}} }

// BoolValue returns a Boolean value.
func BoolValue(v bool) Value { return Value{kind: Boolean, b: v} }

// TextValue returns a Text value.
func TextValue(v string) Value { return Value{kind: Text, s: v} }

// PairValue returns a Pair value.
func PairValue(x, y float64) Value { return Value{kind: Pair, f: [2]float64{x, y}} }

// RawValue returns an unclassified token.
func RawValue(v string) Value { return Value{kind: Raw, s: v} }

// Kind returns the type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool { return v.kind == Null }

// Int returns the integer held by v. Floats are truncated.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case Integer:
		return v.i, true
	case Float:
		return int64(v.f[0]), true
	}
	return 0, false
}

// Float returns the number held by v as a float64.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case Float:
		return v.f[0], true
	case Integer:
		return float64(v.i), true
	}
	return 0, false
}

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == Boolean
}

// Text returns the string held by a Text or Raw value.
func (v Value) Text() (string, bool) {
	return v.s, v.kind == Text || v.kind == Raw
}

// Pair returns the two components of a Pair value.
func (v Value) Pair() (x, y float64, ok bool) {
	return v.f[0], v.f[1], v.kind == Pair
}

// Interface returns v as a plain Go value: nil, int64, float64, bool,
// string or [2]float64.
func (v Value) Interface() interface{} {
	switch v.kind {
	case Integer:
		return v.i
	case Float:
		return v.f[0]
	case Boolean:
		return v.b
	case Text, Raw:
		return v.s
	case Pair:
		return v.f
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f[0], 'G', -1, 64)
	case Boolean:
		if v.b {
			return "T"
		}
		return "F"
	case Text, Raw:
		return v.s
	case Pair:
		return fmt.Sprintf("(%s,%s)",
			strconv.FormatFloat(v.f[0], 'G', -1, 64),
			strconv.FormatFloat(v.f[1], 'G', -1, 64))
	}
	return ""
}

// concat appends s to the string form of v. A Null value becomes Text s.
func (v Value) concat(s string) Value {
	switch v.kind {
	case Null:
		return TextValue(s)
	case Text:
		return TextValue(v.s + s)
	}
	return TextValue(v.String() + s)
}
