package execution

import (
	"strings"

	"github.com/tidwall/btree"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// sortEntry is a buffered row together with its precomputed sort key. seq is the
// arrival position, which breaks ties so that equal keys keep input order.
type sortEntry struct {
	tuple   storage.Tuple
	seq     uint64
	present bool    // the sort column exists in the row
	text    string  // the column value, or the row's canonical key when sorting whole rows
	number  float64 // parsed value in numeric mode
	parsed  bool    // number is valid
}

func newSortEntry(t storage.Tuple, order planner.OrderBy, seq uint64) sortEntry {
	entry := sortEntry{tuple: t, seq: seq}
	if order.Column == "" {
		entry.present = true
		entry.text = string(t.Key())
		return entry
	}
	entry.text, entry.present = t.Get(order.Column)
	if entry.present && order.Numeric {
		if n, err := planner.ParseNumber(entry.text); err == nil {
			entry.number, entry.parsed = n, true
		}
	}
	return entry
}

// compareKeys orders two entries ascending, ignoring direction and arrival order.
// Missing values sort first; in numeric mode unparsable values sort before numbers.
func compareKeys(a, b sortEntry) int {
	if a.present != b.present {
		if !a.present {
			return -1
		}
		return 1
	}
	if a.parsed != b.parsed {
		if !a.parsed {
			return -1
		}
		return 1
	}
	if a.parsed {
		if c := compareFloat(a.number, b.number); c != 0 {
			return c
		}
	}
	// whole-row keys are order-preserving byte strings, so both cases compare bytes
	return strings.Compare(a.text, b.text)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// entryLess builds the btree ordering for order: the key in the requested direction,
// then arrival order.
func entryLess(order planner.OrderBy) func(a, b sortEntry) bool {
	return func(a, b sortEntry) bool {
		c := compareKeys(a, b)
		if order.Direction == planner.SortOrderDescending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.seq < b.seq
	}
}

// treeEntries copies the tree's entries out in order.
func treeEntries(tree *btree.BTreeG[sortEntry]) []sortEntry {
	entries := make([]sortEntry, 0, tree.Len())
	tree.Scan(func(entry sortEntry) bool {
		entries = append(entries, entry)
		return true
	})
	return entries
}
