package diagnostic

import (
	"fmt"
)

// Error aggregates diagnostics into one fatal error.
// It unwraps to Kind, so errors.Is works with the package sentinels.
type Error struct {
	Kind        error
	Diagnostics List
}

func (e *Error) Error() string {
	kind := "compilation failed"
	if e.Kind != nil {
		kind = e.Kind.Error()
	}
	noun := "problems"
	if len(e.Diagnostics) == 1 {
		noun = "problem"
	}
	return fmt.Sprintf("%s: %d %s found\n%s", kind, len(e.Diagnostics), noun, e.Diagnostics.Report())
}

func (e *Error) Unwrap() error {
	return e.Kind
}
