// Package value provides the typed value model for configuration entries.
//
// A value is a tagged union over strings, integers, floats, and flat lists
// of scalars. The evaluator in this package parses the right-hand side of
// an assignment into a Value, expanding range expressions eagerly.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the type of a Value.
type Kind int

const (
	// KindString is a quoted string literal.
	KindString Kind = iota

	// KindInt is an integer literal.
	KindInt

	// KindFloat is a floating-point literal.
	KindFloat

	// KindList is an ordered sequence of scalar values.
	KindList
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is an immutable typed configuration value.
// The zero Value is the empty string.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	list []Value
}

// String creates a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Int creates an integer Value.
func Int(i int64) Value {
	return Value{kind: KindInt, num: i}
}

// Float creates a floating-point Value.
func Float(f float64) Value {
	return Value{kind: KindFloat, flt: f}
}

// List creates a list Value from the given elements.
func List(elems ...Value) Value {
	list := make([]Value, len(elems))
	copy(list, elems)
	return Value{kind: KindList, list: list}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsList returns true if the value is a list.
func (v Value) IsList() bool {
	return v.kind == KindList
}

// AsString returns the string content and true if the value is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns the integer content and true if the value is an integer.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.num, true
}

// AsFloat returns the numeric content as a float64 and true if the value
// is a float or an integer.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.flt, true
	case KindInt:
		return float64(v.num), true
	default:
		return 0, false
	}
}

// Items returns a copy of the list elements.
// Returns nil for non-list values.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	items := make([]Value, len(v.list))
	copy(items, v.list)
	return items
}

// Len returns the number of elements in a list, or 0 for scalars.
func (v Value) Len() int {
	return len(v.list)
}

// Equal reports structural equality: same kind and same scalar content,
// or for lists the same ordered sequence of equal elements.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.num == o.num
	case KindFloat:
		return v.flt == o.flt
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String returns a literal-style rendering of the value.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case KindList:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.list {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.String())
		}
		b.WriteByte(']')
		return b.String()
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}

// Interface returns the value as a plain Go value: string, int64,
// float64, or []any for lists. Used by export and tooling.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindList:
		items := make([]any, len(v.list))
		for i, e := range v.list {
			items[i] = e.Interface()
		}
		return items
	default:
		return nil
	}
}
