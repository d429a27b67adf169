package store

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrymomot/transkit/pkg/unit"
)

// Store is a read-only index of units: locale -> unit name -> unit.
type Store struct {
	locales map[string]map[string]*unit.Unit
}

// FromUnits builds a store from already parsed units.
// Unit names must be unique within their locale.
func FromUnits(units ...*unit.Unit) (*Store, error) {
	s := empty()
	for _, u := range units {
		if err := s.add(u); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustFromUnits is like FromUnits but panics on error.
func MustFromUnits(units ...*unit.Unit) *Store {
	s, err := FromUnits(units...)
	if err != nil {
		panic(err)
	}
	return s
}

func empty() *Store {
	return &Store{locales: make(map[string]map[string]*unit.Unit)}
}

func (s *Store) add(u *unit.Unit) error {
	names, ok := s.locales[u.Locale]
	if !ok {
		names = make(map[string]*unit.Unit)
		s.locales[u.Locale] = names
	}
	if existing, ok := names[u.Name]; ok {
		return fmt.Errorf("%w: %q in %q (%s and %s)", ErrDuplicateUnit, u.Name, u.Locale, existing.Path, u.Path)
	}
	names[u.Name] = u
	return nil
}

func (s *Store) addLocale(locale string) {
	if _, ok := s.locales[locale]; !ok {
		s.locales[locale] = make(map[string]*unit.Unit)
	}
}

// Locales returns the locale identifiers in sorted order.
func (s *Store) Locales() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.locales))
}

// HasLocale reports whether the locale exists, even without units.
func (s *Store) HasLocale(locale string) bool {
	if s == nil {
		return false
	}
	_, ok := s.locales[locale]
	return ok
}

// Names returns the unit names of a locale in sorted order.
func (s *Store) Names(locale string) []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.locales[locale]))
}

// Units returns the units of a locale sorted by name.
func (s *Store) Units(locale string) []*unit.Unit {
	names := s.Names(locale)
	out := make([]*unit.Unit, 0, len(names))
	for _, n := range names {
		out = append(out, s.locales[locale][n])
	}
	return out
}

// Unit returns the unit with the given name in the locale.
func (s *Store) Unit(locale, name string) (*unit.Unit, bool) {
	if s == nil {
		return nil, false
	}
	u, ok := s.locales[locale][name]
	return u, ok
}

// Len returns the total number of units across all locales.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, names := range s.locales {
		n += len(names)
	}
	return n
}

// Empty reports whether the store holds no locales.
func (s *Store) Empty() bool {
	return s == nil || len(s.locales) == 0
}

// With returns a copy of the store in which u replaces the unit with the same
// locale and name (or is added). The receiver is left untouched.
func (s *Store) With(u *unit.Unit) *Store {
	out := &Store{locales: make(map[string]map[string]*unit.Unit, len(s.locales)+1)}
	for locale, names := range s.locales {
		out.locales[locale] = maps.Clone(names)
	}
	out.addLocale(u.Locale)
	out.locales[u.Locale][u.Name] = u
	return out
}
