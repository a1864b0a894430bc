// Package parser turns raw configuration text into a populated store.
//
// Parsing is all-or-nothing: any syntax, type, or state error aborts
// the pass and no store is produced, so callers can retain the previous
// store untouched.
package parser

import (
	"errors"
	"fmt"

	"github.com/dshills/blockconf/internal/config/store"
	"github.com/dshills/blockconf/internal/config/value"
)

// ErrState indicates an assignment that appears before any block header.
var ErrState = errors.New("assignment outside any block")

// ParseError describes a failure at a specific line of a source file.
type ParseError struct {
	// Path is the source path being parsed.
	Path string
	// Line is the 1-based line number where the error occurred.
	Line int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse tokenizes and evaluates src into a new store. The path is used
// for diagnostics only; reading the source is the caller's concern.
//
// A block header opens (or reopens) the block for its identifier;
// duplicate headers within one pass merge. Assignments store evaluated
// values into the current block, last assignment winning per key.
func Parse(path string, src []byte) (*store.Store, error) {
	lines, err := tokenize(path, string(src))
	if err != nil {
		return nil, err
	}

	st := store.New()
	var current *store.Block

	for _, ln := range lines {
		switch ln.kind {
		case lineHeader:
			id := store.BlockID{Type: ln.blockType, Name: ln.blockName}
			current = st.Open(id)

		case lineAssign:
			if current == nil {
				err := fmt.Errorf("%w: key %q", ErrState, ln.key)
				return nil, &ParseError{Path: path, Line: ln.num, Message: err.Error(), Err: err}
			}
			v, err := value.Eval(ln.expr)
			if err != nil {
				return nil, &ParseError{Path: path, Line: ln.num, Message: err.Error(), Err: err}
			}
			current.Set(ln.key, v)
		}
	}

	return st, nil
}
