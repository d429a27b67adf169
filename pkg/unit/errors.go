package unit

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPath is returned when a lookup is requested for an empty key path.
	ErrEmptyPath = errors.New("empty key path")

	// ErrNotATable is returned when a lookup descends through a leaf value.
	ErrNotATable = errors.New("value is not a table")
)

// PathError reports the first segment of a dotted key path that could not be found.
type PathError struct {
	Path    string
	Segment string
	Err     error
}

func (e *PathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("key path %q: segment %q: %v", e.Path, e.Segment, e.Err)
	}
	return fmt.Sprintf("key path %q: segment %q not found", e.Path, e.Segment)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
