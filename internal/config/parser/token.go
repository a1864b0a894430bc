package parser

import (
	"fmt"
	"strings"

	"github.com/dshills/blockconf/internal/config/value"
)

// lineKind classifies a non-blank, non-comment line.
type lineKind int

const (
	lineHeader lineKind = iota
	lineAssign
)

// line is one structural token produced by the tokenizer.
type line struct {
	kind lineKind
	num  int

	// Header fields
	blockType string
	blockName string

	// Assignment fields
	key  string
	expr string
}

// tokenize classifies each line of src as a block header or an
// assignment. Blank lines and comment lines (first non-whitespace
// character '#') are discarded. Any other unrecognized line is a
// syntax error.
func tokenize(path, src string) ([]line, error) {
	var lines []line

	for num, raw := range strings.Split(src, "\n") {
		num++ // 1-based for diagnostics
		text := strings.TrimSpace(raw)
		if text == "" || text[0] == '#' {
			continue
		}

		if text[0] == '[' {
			typ, name, err := parseHeader(text)
			if err != nil {
				return nil, &ParseError{Path: path, Line: num, Message: err.Error(), Err: err}
			}
			lines = append(lines, line{kind: lineHeader, num: num, blockType: typ, blockName: name})
			continue
		}

		if eq := strings.IndexByte(text, '='); eq >= 0 {
			key := strings.TrimSpace(text[:eq])
			expr := strings.TrimSpace(text[eq+1:])
			if !isIdent(key) {
				err := fmt.Errorf("%w: invalid key %q", value.ErrSyntax, key)
				return nil, &ParseError{Path: path, Line: num, Message: err.Error(), Err: err}
			}
			lines = append(lines, line{kind: lineAssign, num: num, key: key, expr: expr})
			continue
		}

		err := fmt.Errorf("%w: unrecognized line %q", value.ErrSyntax, text)
		return nil, &ParseError{Path: path, Line: num, Message: err.Error(), Err: err}
	}

	return lines, nil
}

// parseHeader parses "[ type ]" or "[ type: name ]".
func parseHeader(text string) (typ, name string, err error) {
	if !strings.HasSuffix(text, "]") {
		return "", "", fmt.Errorf("%w: unterminated block header %q", value.ErrSyntax, text)
	}
	inner := strings.TrimSpace(text[1 : len(text)-1])

	if colon := strings.IndexByte(inner, ':'); colon >= 0 {
		typ = strings.TrimSpace(inner[:colon])
		name = strings.TrimSpace(inner[colon+1:])
		if !isIdent(typ) || !isIdent(name) {
			return "", "", fmt.Errorf("%w: malformed block header %q", value.ErrSyntax, text)
		}
		return typ, name, nil
	}

	typ = inner
	if !isIdent(typ) {
		return "", "", fmt.Errorf("%w: malformed block header %q", value.ErrSyntax, text)
	}
	return typ, "", nil
}

// isIdent reports whether s is a bare identifier: letters, digits,
// underscores, and hyphens, not starting with a digit or hyphen.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9', r == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
