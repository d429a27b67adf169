package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedReference is returned for reference strings that do not
	// follow the "@unit[.path]" or "@@project.unit[.path]" grammar.
	ErrMalformedReference = errors.New("malformed reference")

	// ErrEmptyReference is returned for an empty reference string.
	ErrEmptyReference = errors.New("empty reference")
)

// ReferenceError describes a reference string that could not be parsed.
type ReferenceError struct {
	Raw string
	Err error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("reference %q: %v", e.Raw, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}
