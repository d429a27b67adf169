package unit

import (
	"encoding/json"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindTable
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindTable:
		return "table"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Value is a node of a translation tree: a string leaf, a nested table or an array.
// The zero Value is invalid.
type Value struct {
	kind  Kind
	str   string
	table *Table
	items []Value
}

// String returns a string leaf.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// TableValue wraps a table. A nil table becomes an empty one.
func TableValue(t *Table) Value {
	if t == nil {
		t = NewTable()
	}
	return Value{kind: KindTable, table: t}
}

// Array returns an array value holding the given items.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Kind reports the variant of the value.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether the value holds one of the known variants.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Str returns the string of a leaf value.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Table returns the table of a table value.
func (v Value) Table() (*Table, bool) {
	return v.table, v.kind == KindTable
}

// Items returns the items of an array value.
func (v Value) Items() ([]Value, bool) {
	return v.items, v.kind == KindArray
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	switch v.kind {
	case KindTable:
		return TableValue(v.table.Clone())
	case KindArray:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = item.Clone()
		}
		return Array(items...)
	default:
		return v
	}
}

// Equal reports whether both values have the same shape and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindTable:
		return v.table.Equal(other.table)
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON encodes strings as JSON strings, tables as objects in key order
// and arrays as JSON arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindTable:
		return v.table.MarshalJSON()
	case KindArray:
		var b strings.Builder
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteByte(',')
			}
			raw, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			b.Write(raw)
		}
		b.WriteByte(']')
		return []byte(b.String()), nil
	default:
		return []byte("null"), nil
	}
}
