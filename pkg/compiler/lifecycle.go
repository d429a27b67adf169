package compiler

import (
	"sync"
)

// State is a stage of the compilation lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateScanning   State = "scanning"
	StateValidating State = "validating"
	StateResolving  State = "resolving"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Event triggers a lifecycle transition.
type Event string

const (
	EventScan     Event = "scan"
	EventScanned  Event = "scanned"
	EventValidate Event = "validate"
	EventResolve  Event = "resolve"
	EventSucceed  Event = "succeed"
	EventFail     Event = "fail"
	EventReload   Event = "reload"
)

// transitions maps [from][event] to the next state.
var transitions = map[State]map[Event]State{
	StateIdle: {
		EventScan:   StateScanning,
		EventReload: StateIdle,
	},
	StateScanning: {
		EventScanned:  StateIdle,
		EventValidate: StateValidating,
		EventFail:     StateFailed,
	},
	StateValidating: {
		EventResolve: StateResolving,
		EventFail:    StateFailed,
	},
	StateResolving: {
		EventSucceed: StateSucceeded,
		EventFail:    StateFailed,
	},
	StateSucceeded: {
		EventScan:   StateScanning,
		EventReload: StateIdle,
	},
	StateFailed: {
		EventScan:   StateScanning,
		EventReload: StateIdle,
	},
}

// Terminal reports whether s ends a compilation.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// lifecycle is a thread-safe state machine over the fixed transition table.
type lifecycle struct {
	mu       sync.RWMutex
	current  State
	onChange func(from, to State, event Event)
}

func newLifecycle(onChange func(from, to State, event Event)) *lifecycle {
	return &lifecycle{current: StateIdle, onChange: onChange}
}

func (l *lifecycle) Current() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

func (l *lifecycle) Fire(event Event) error {
	l.mu.Lock()
	from := l.current
	to, ok := transitions[from][event]
	if !ok {
		l.mu.Unlock()
		return &ErrNoTransitionAvailable{State: from, Event: event}
	}
	l.current = to
	l.mu.Unlock()

	if l.onChange != nil {
		l.onChange(from, to, event)
	}
	return nil
}
