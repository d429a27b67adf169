package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrNotScanned       = errors.New("input has not been scanned")
	ErrCompileCancelled = errors.New("compilation cancelled")
	ErrWorkspaceScan    = errors.New("failed to scan workspace project")
)

// ErrNoTransitionAvailable indicates the lifecycle cannot handle an event in its current state.
type ErrNoTransitionAvailable struct {
	State State
	Event Event
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.State, e.Event)
}
