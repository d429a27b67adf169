package notify

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// EventType classifies a build event.
type EventType string

const (
	// EventBuilt follows a successful compilation.
	EventBuilt EventType = "built"
	// EventFailed follows a compilation that produced diagnostics or errors.
	EventFailed EventType = "failed"
	// EventReloaded follows a single-unit reload that invalidated the result.
	EventReloaded EventType = "reloaded"
)

// Event describes one compilation attempt.
type Event struct {
	Type    EventType `json:"type"`
	BuildID uuid.UUID `json:"build_id,omitzero"`
	Locales []string  `json:"locales,omitempty"`
	Time    time.Time `json:"time"`
}

// NewEvent returns an event stamped with the current UTC time.
func NewEvent(typ EventType, buildID uuid.UUID, locales []string) Event {
	return Event{
		Type:    typ,
		BuildID: buildID,
		Locales: slices.Clone(locales),
		Time:    time.Now().UTC(),
	}
}

// Notifier receives build events.
// Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, ev Event) error

func (f NotifierFunc) Notify(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Multi forwards every event to all notifiers, even when some of them fail.
// Errors are joined.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, ev Event) error {
		var errs []error
		for _, n := range notifiers {
			if n == nil {
				continue
			}
			if err := n.Notify(ctx, ev); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Nop discards every event.
var Nop Notifier = NotifierFunc(func(context.Context, Event) error { return nil })
