package resp

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a Value.
//
// The byte values match the RESP type tags, except KindNull which has no tag
// of its own and travels as a bulk string of length -1.
type Kind byte

const (
	KindSimpleString Kind = '+'
	KindError        Kind = '-'
	KindBulkString   Kind = '$'
	KindArray        Kind = '*'
	KindNull         Kind = '_'
)

// String returns a human readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSimpleString:
		return "simple-string"
	case KindError:
		return "error"
	case KindBulkString:
		return "bulk-string"
	case KindArray:
		return "array"
	case KindNull:
		return "null"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one RESP protocol unit.
//
// Str carries the text of simple strings, errors and bulk strings.
// Elems carries the items of an array. Both are empty for KindNull.
type Value struct {
	Kind  Kind
	Str   string
	Elems []Value
}

// SimpleString returns a simple string value.
func SimpleString(s string) Value {
	return Value{Kind: KindSimpleString, Str: s}
}

// Error returns an error value.
func Error(msg string) Value {
	return Value{Kind: KindError, Str: msg}
}

// BulkString returns a bulk string value.
func BulkString(s string) Value {
	return Value{Kind: KindBulkString, Str: s}
}

// Null returns the null value (encoded as a null bulk string).
func Null() Value {
	return Value{Kind: KindNull}
}

// Array returns an array value holding elems in order.
func Array(elems ...Value) Value {
	return Value{Kind: KindArray, Elems: elems}
}

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Equal reports whether v and o are structurally identical.
// A nil and an empty element list compare equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindArray:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case KindNull:
		return true
	default:
		return v.Str == o.Str
	}
}

// String returns a debug representation of the value.
func (v Value) String() string {
	switch v.Kind {
	case KindSimpleString:
		return v.Str
	case KindError:
		return "(error) " + v.Str
	case KindBulkString:
		return strconv.Quote(v.Str)
	case KindNull:
		return "(nil)"
	case KindArray:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "(" + v.Kind.String() + ")"
	}
}
