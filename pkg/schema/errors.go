package schema

import "errors"

var (
	// ErrPrimaryLocaleMissing is returned when the store has no directory for
	// the primary locale.
	ErrPrimaryLocaleMissing = errors.New("primary locale not found")

	// ErrNoPrimaryLocale is returned when no primary locale is configured.
	ErrNoPrimaryLocale = errors.New("primary locale is not set")
)
