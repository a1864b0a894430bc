package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Errors returned by the evaluator.
var (
	// ErrSyntax indicates a malformed value expression or line.
	ErrSyntax = errors.New("syntax error")

	// ErrType indicates a range with incompatible operand types.
	ErrType = errors.New("type error")
)

// Eval parses a value expression into a Value.
//
// An expression is a quoted string, a numeric literal, a range, or a
// list of those. Ranges expand eagerly: 'a'..'e' becomes the five
// single-character strings, 5..1 the descending integer sequence. A
// range used as a list element splices its expansion into the list.
func Eval(expr string) (Value, error) {
	s := &scanner{in: expr}
	s.skipSpace()

	var v Value
	var err error
	if s.peek() == '[' {
		v, err = s.parseList()
	} else {
		vals, isRange, perr := s.parseScalarOrRange()
		if perr != nil {
			return Value{}, perr
		}
		if isRange {
			v = List(vals...)
		} else {
			v = vals[0]
		}
	}
	if err != nil {
		return Value{}, err
	}

	s.skipSpace()
	if !s.eof() {
		return Value{}, fmt.Errorf("%w: unexpected %q after value", ErrSyntax, s.rest())
	}
	return v, nil
}

// scanner walks a value expression left to right.
type scanner struct {
	in  string
	pos int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.in)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.in[s.pos]
}

func (s *scanner) rest() string {
	return s.in[s.pos:]
}

func (s *scanner) skipSpace() {
	for !s.eof() && (s.in[s.pos] == ' ' || s.in[s.pos] == '\t') {
		s.pos++
	}
}

// parseList parses '[' (expr (',' expr)*)? ']'. Range elements are
// spliced into the enclosing list.
func (s *scanner) parseList() (Value, error) {
	s.pos++ // consume '['
	s.skipSpace()

	var elems []Value
	if s.peek() == ']' {
		s.pos++
		return List(), nil
	}

	for {
		vals, _, err := s.parseScalarOrRange()
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, vals...)

		s.skipSpace()
		switch s.peek() {
		case ',':
			s.pos++
			s.skipSpace()
		case ']':
			s.pos++
			return List(elems...), nil
		default:
			if s.eof() {
				return Value{}, fmt.Errorf("%w: unterminated list", ErrSyntax)
			}
			return Value{}, fmt.Errorf("%w: expected ',' or ']' in list, found %q", ErrSyntax, s.rest())
		}
	}
}

// parseScalarOrRange parses one scalar, and if it is followed by '..',
// the second operand of a range. Returns the scalar alone or the
// materialized range expansion.
func (s *scanner) parseScalarOrRange() ([]Value, bool, error) {
	first, err := s.parseScalar()
	if err != nil {
		return nil, false, err
	}

	s.skipSpace()
	if !strings.HasPrefix(s.rest(), "..") {
		return []Value{first}, false, nil
	}
	s.pos += 2
	s.skipSpace()

	second, err := s.parseScalar()
	if err != nil {
		return nil, false, err
	}

	expanded, err := expandRange(first, second)
	if err != nil {
		return nil, false, err
	}
	return expanded, true, nil
}

// parseScalar parses a quoted string or a numeric literal.
func (s *scanner) parseScalar() (Value, error) {
	if s.eof() {
		return Value{}, fmt.Errorf("%w: missing value", ErrSyntax)
	}

	c := s.peek()
	if c == '\'' || c == '"' {
		return s.parseQuoted(c)
	}
	if c == '+' || c == '-' || isDigit(c) {
		return s.parseNumber()
	}
	return Value{}, fmt.Errorf("%w: bare token %q", ErrSyntax, s.rest())
}

// parseQuoted reads a string literal delimited by quote. There is no
// escape processing; the literal ends at the next quote of the same kind.
func (s *scanner) parseQuoted(quote byte) (Value, error) {
	s.pos++ // opening quote
	start := s.pos
	for !s.eof() {
		if s.in[s.pos] == quote {
			lit := s.in[start:s.pos]
			s.pos++
			return String(lit), nil
		}
		s.pos++
	}
	return Value{}, fmt.Errorf("%w: unterminated string literal", ErrSyntax)
}

// parseNumber reads an optionally signed integer or float literal.
// A '.' followed by another '.' belongs to a range operator, not the
// number.
func (s *scanner) parseNumber() (Value, error) {
	start := s.pos
	if c := s.peek(); c == '+' || c == '-' {
		s.pos++
	}

	digits := 0
	dots := 0
	for !s.eof() {
		c := s.in[s.pos]
		switch {
		case isDigit(c):
			digits++
			s.pos++
		case c == '.':
			if s.pos+1 < len(s.in) && s.in[s.pos+1] == '.' {
				// Range operator; stop the number here.
				goto done
			}
			dots++
			if dots > 1 {
				return Value{}, fmt.Errorf("%w: malformed number %q", ErrSyntax, s.in[start:s.pos+1])
			}
			s.pos++
		default:
			goto done
		}
	}
done:
	lit := s.in[start:s.pos]
	if digits == 0 {
		return Value{}, fmt.Errorf("%w: malformed number %q", ErrSyntax, lit)
	}

	if dots == 0 {
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: malformed number %q", ErrSyntax, lit)
		}
		return Int(n), nil
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: malformed number %q", ErrSyntax, lit)
	}
	return Float(f), nil
}

// expandRange materializes a range into its inclusive scalar sequence.
// Both operands must be integers, or both single-character strings.
func expandRange(a, b Value) ([]Value, error) {
	if a.Kind() == KindInt && b.Kind() == KindInt {
		lo, _ := a.AsInt()
		hi, _ := b.AsInt()
		return expandIntRange(lo, hi), nil
	}

	if a.Kind() == KindString && b.Kind() == KindString {
		as, _ := a.AsString()
		bs, _ := b.AsString()
		ar, ok1 := singleRune(as)
		br, ok2 := singleRune(bs)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: character range operands must be single characters, got %q..%q", ErrType, as, bs)
		}
		return expandRuneRange(ar, br), nil
	}

	return nil, fmt.Errorf("%w: range operands must both be integers or both single-character strings, got %s..%s", ErrType, a.Kind(), b.Kind())
}

func expandIntRange(lo, hi int64) []Value {
	step := int64(1)
	if lo > hi {
		step = -1
	}
	vals := make([]Value, 0, abs64(hi-lo)+1)
	for n := lo; ; n += step {
		vals = append(vals, Int(n))
		if n == hi {
			break
		}
	}
	return vals
}

func expandRuneRange(lo, hi rune) []Value {
	step := rune(1)
	if lo > hi {
		step = -1
	}
	var vals []Value
	for r := lo; ; r += step {
		vals = append(vals, String(string(r)))
		if r == hi {
			break
		}
	}
	return vals
}

func singleRune(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
