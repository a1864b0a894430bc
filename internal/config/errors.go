package config

import (
	"errors"
	"fmt"

	"github.com/dshills/blockconf/internal/config/parser"
	"github.com/dshills/blockconf/internal/config/value"
)

// Errors surfaced by configuration operations. The parse-time kinds are
// re-exported from the packages that produce them so callers match with
// errors.Is against a single surface.
var (
	// ErrSourceUnreadable indicates the configuration source could not
	// be read. The previous store is left untouched.
	ErrSourceUnreadable = errors.New("config source unreadable")

	// ErrSyntax indicates an unrecognized line shape or malformed literal.
	ErrSyntax = value.ErrSyntax

	// ErrType indicates a range with incompatible operand types.
	ErrType = value.ErrType

	// ErrState indicates an assignment before any block header.
	ErrState = parser.ErrState
)

// SourceError describes a failure to read the configuration source.
type SourceError struct {
	// Path is the source path that could not be read.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("config source unreadable: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match SourceError with ErrSourceUnreadable.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnreadable
}
