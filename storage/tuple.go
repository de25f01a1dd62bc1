package storage

import (
	"maps"
	"slices"
	"strings"

	"rsc.io/ordered"
)

// Tuple is one row of data: a mapping from column name to a textual value.
// It is the unit exchanged between query operators (e.g., Filter, Join).
//
// Column names are unique within a tuple and their order is irrelevant: two tuples
// built from the same pairs in a different order are equal. A Tuple is immutable once
// built, so handing one from an operator to its parent never requires a copy; the
// producing operator simply drops its own reference.
//
// The zero Tuple has no columns. It is the "empty" tuple and never carries data.
type Tuple struct {
	fields map[string]string
}

// NewTuple creates a Tuple holding a copy of fields.
func NewTuple(fields map[string]string) Tuple {
	return Tuple{fields: maps.Clone(fields)}
}

// FromMap creates a Tuple that takes ownership of fields. The caller must not modify
// fields after the call.
func FromMap(fields map[string]string) Tuple {
	return Tuple{fields: fields}
}

// FromPairs creates a Tuple from alternating column names and values, e.g.
// FromPairs("id", "1", "name", "alice"). A later pair overrides an earlier pair with the
// same column name.
func FromPairs(pairs ...string) Tuple {
	if len(pairs)%2 != 0 {
		panic("FromPairs requires an even number of arguments")
	}
	fields := make(map[string]string, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		fields[pairs[i]] = pairs[i+1]
	}
	return Tuple{fields: fields}
}

// IsEmpty reports whether the tuple has no columns.
func (t Tuple) IsEmpty() bool {
	return len(t.fields) == 0
}

// NumColumns returns the number of columns in the tuple.
func (t Tuple) NumColumns() int {
	return len(t.fields)
}

// Get returns the value stored under column and whether the column is present.
func (t Tuple) Get(column string) (string, bool) {
	v, ok := t.fields[column]
	return v, ok
}

// GetValue returns the value stored under column, or "" if it is absent.
func (t Tuple) GetValue(column string) string {
	return t.fields[column]
}

// Has reports whether column is present.
func (t Tuple) Has(column string) bool {
	_, ok := t.fields[column]
	return ok
}

// Columns returns the tuple's column names in lexicographic order.
func (t Tuple) Columns() []string {
	cols := make([]string, 0, len(t.fields))
	for c := range t.fields {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	return cols
}

// ToMap returns a copy of the tuple's column-value pairs.
func (t Tuple) ToMap() map[string]string {
	return maps.Clone(t.fields)
}

// Equals reports whether both tuples have the same set of columns and every column maps
// to the same value in both. Comparison is case-sensitive.
func (t Tuple) Equals(other Tuple) bool {
	if len(t.fields) != len(other.fields) {
		return false
	}
	for k, v := range t.fields {
		if ov, ok := other.fields[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Compare orders tuples canonically. Both tuples are viewed as their (column, value)
// pairs sorted by column name; the sequences are compared pair by pair, column name
// first, then value. If one sequence is a prefix of the other, the shorter sorts first.
// Returns -1, 0 or 1, and 0 exactly when Equals is true.
func (t Tuple) Compare(other Tuple) int {
	a, b := t.Columns(), other.Columns()
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
		if c := strings.Compare(t.fields[a[i]], other.fields[b[i]]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Key returns an order-preserving binary encoding of the tuple: comparing two keys with
// bytes.Compare gives the same result as Compare on the tuples. Sorting on keys avoids
// re-sorting column names on every comparison.
func (t Tuple) Key() []byte {
	var key []byte
	for _, c := range t.Columns() {
		key = ordered.Append(key, c, t.fields[c])
	}
	return key
}

// String renders the tuple as "<column, value>" pairs in column order.
func (t Tuple) String() string {
	if len(t.fields) == 0 {
		return "<empty>"
	}
	var sb strings.Builder
	for i, c := range t.Columns() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("<")
		sb.WriteString(c)
		sb.WriteString(", ")
		sb.WriteString(t.fields[c])
		sb.WriteString(">")
	}
	return sb.String()
}
