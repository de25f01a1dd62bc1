package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTupleEquality(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Tuple
		equal bool
	}{
		{"same pairs", FromPairs("student", "jimmy cricket", "id", "2"), FromPairs("student", "jimmy cricket", "id", "2"), true},
		{"construction order", FromPairs("id", "2", "student", "jimmy cricket"), FromPairs("student", "jimmy cricket", "id", "2"), true},
		{"same keys diff value", FromPairs("student", "jimmy cricket", "id", "2"), FromPairs("student", "jimmy cricket", "id", "1"), false},
		{"diff keys same value", FromPairs("student", "jimmy cricket", "ids", "2"), FromPairs("student", "jimmy cricket", "id", "2"), false},
		{"diff size", FromPairs("student", "jimmy cricket", "id", "2", "fav_novel", "IT"), FromPairs("student", "jimmy cricket", "id", "2"), false},
		{"case sensitive", FromPairs("student", "James"), FromPairs("student", "james"), false},
		{"both empty", Tuple{}, NewTuple(nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equals(tt.b))
			assert.Equal(t, tt.equal, tt.b.Equals(tt.a))
			assert.Equal(t, tt.equal, tt.a.Compare(tt.b) == 0)
		})
	}
}

func TestTupleIsImmutableCopy(t *testing.T) {
	src := map[string]string{"id": "1"}
	tup := NewTuple(src)
	src["id"] = "2"
	assert.Equal(t, "1", tup.GetValue("id"))

	out := tup.ToMap()
	out["id"] = "3"
	assert.Equal(t, "1", tup.GetValue("id"))
}

func TestTupleAccessors(t *testing.T) {
	tup := FromPairs("b", "2", "a", "1")
	assert.Equal(t, 2, tup.NumColumns())
	assert.False(t, tup.IsEmpty())
	assert.Equal(t, []string{"a", "b"}, tup.Columns())

	v, ok := tup.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	_, ok = tup.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", tup.GetValue("missing"))
	assert.Equal(t, "<a, 1> <b, 2>", tup.String())
	assert.Equal(t, "<empty>", Tuple{}.String())
	assert.True(t, Tuple{}.IsEmpty())
}

func TestTupleCompareIsTotal(t *testing.T) {
	tuples := []Tuple{
		{},
		FromPairs("a", "1"),
		FromPairs("a", "1", "b", "1"),
		FromPairs("a", "2"),
		FromPairs("b", "0"),
		FromPairs("a", "10"),
		FromPairs("a", "", "b", "x"),
	}
	for _, x := range tuples {
		for _, y := range tuples {
			c := x.Compare(y)
			assert.Equal(t, -c, y.Compare(x), "antisymmetry %s vs %s", x, y)
			// The ordered key must agree with Compare.
			assert.Equal(t, c, bytes.Compare(x.Key(), y.Key()), "key order %s vs %s", x, y)
		}
	}
	assert.Equal(t, -1, FromPairs("a", "1").Compare(FromPairs("a", "1", "b", "1")), "prefix sorts first")
	assert.Equal(t, -1, FromPairs("a", "10").Compare(FromPairs("a", "9")), "values compare as text")
	assert.Equal(t, -1, FromPairs("a", "9").Compare(FromPairs("b", "0")), "column names decide first")
}

func TestFromPairsOddArguments(t *testing.T) {
	assert.Panics(t, func() { FromPairs("a") })
}
