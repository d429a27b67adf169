package unit

import (
	"path/filepath"
	"strconv"
	"strings"
)

// ReferencesKey is the reserved top-level key holding the alias table of a unit.
const ReferencesKey = "references"

// Unit is one parsed source document for a single locale.
// Data is treated as immutable once the unit is published in a store.
type Unit struct {
	Locale string
	Name   string
	Path   string
	Data   *Table
}

// New returns a unit. A nil data table is replaced with an empty one.
func New(locale, name, path string, data *Table) *Unit {
	if data == nil {
		data = NewTable()
	}
	return &Unit{Locale: locale, Name: name, Path: path, Data: data}
}

// NameFromPath derives the logical unit name from a source file path:
// the base name without its extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ID identifies the unit as "locale/name".
func (u *Unit) ID() string {
	return u.Locale + "/" + u.Name
}

// References returns the raw value of the reserved references entry.
func (u *Unit) References() (Value, bool) {
	return u.Data.Get(ReferencesKey)
}

// Content returns the unit data without the reserved references entry.
// The returned table shares values with the unit and must not be mutated.
func (u *Unit) Content() *Table {
	out := NewTable()
	for _, k := range u.Data.Keys() {
		if k == ReferencesKey {
			continue
		}
		v, _ := u.Data.Get(k)
		out.Set(k, v)
	}
	return out
}

// Lookup resolves a dotted key path against the unit content.
func (u *Unit) Lookup(path string) (Value, error) {
	return Lookup(u.Content(), path)
}

// Lookup resolves a dotted key path against a table.
// A *PathError names the first segment that could not be resolved.
func Lookup(t *Table, path string) (Value, error) {
	if strings.TrimSpace(path) == "" {
		return Value{}, ErrEmptyPath
	}

	current := TableValue(t)
	for _, segment := range strings.Split(path, ".") {
		switch current.Kind() {
		case KindTable:
			tbl, _ := current.Table()
			next, ok := tbl.Get(segment)
			if !ok {
				return Value{}, &PathError{Path: path, Segment: segment}
			}
			current = next
		case KindArray:
			items, _ := current.Items()
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(items) {
				return Value{}, &PathError{Path: path, Segment: segment}
			}
			current = items[idx]
		default:
			return Value{}, &PathError{Path: path, Segment: segment, Err: ErrNotATable}
		}
	}
	return current, nil
}

// KeyPaths returns every leaf path of the unit content in tree order.
func (u *Unit) KeyPaths() []string {
	return KeyPaths(u.Content())
}

// KeyPaths returns every leaf path of a table in tree order.
// Array items contribute one path per index; empty tables and arrays
// contribute their own path so that their presence is still visible.
func KeyPaths(t *Table) []string {
	var paths []string
	var walk func(prefix string, v Value)
	walk = func(prefix string, v Value) {
		switch v.Kind() {
		case KindTable:
			tbl, _ := v.Table()
			if tbl.Len() == 0 && prefix != "" {
				paths = append(paths, prefix)
				return
			}
			for _, k := range tbl.Keys() {
				child, _ := tbl.Get(k)
				walk(join(prefix, k), child)
			}
		case KindArray:
			items, _ := v.Items()
			if len(items) == 0 {
				paths = append(paths, prefix)
				return
			}
			for i, item := range items {
				walk(join(prefix, strconv.Itoa(i)), item)
			}
		default:
			paths = append(paths, prefix)
		}
	}
	walk("", TableValue(t))
	return paths
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
