package compiler

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/transkit/pkg/resolver"
)

// Result is the compiled output of one successful build.
// It is immutable once published.
type Result struct {
	ID        uuid.UUID                     `json:"id"`
	CreatedAt time.Time                     `json:"created_at"`
	Primary   string                        `json:"primary_locale"`
	Locales   map[string][]*resolver.Result `json:"locales"`
}

// LocaleNames returns the compiled locales in sorted order.
func (r *Result) LocaleNames() []string {
	return slices.Sorted(maps.Keys(r.Locales))
}

// Units returns the resolved units of a locale in unit name order.
func (r *Result) Units(locale string) []*resolver.Result {
	return r.Locales[locale]
}

// Unit returns one resolved unit.
func (r *Result) Unit(locale, name string) (*resolver.Result, bool) {
	for _, u := range r.Locales[locale] {
		if u.Metadata.Name == name {
			return u, true
		}
	}
	return nil, false
}

// Len returns the number of resolved units across all locales.
func (r *Result) Len() int {
	n := 0
	for _, units := range r.Locales {
		n += len(units)
	}
	return n
}

// Parameters returns the parameters of every unit of a locale, keyed by unit name.
func (r *Result) Parameters(locale string) map[string][]string {
	out := make(map[string][]string, len(r.Locales[locale]))
	for _, u := range r.Locales[locale] {
		out[u.Metadata.Name] = u.Parameters
	}
	return out
}
