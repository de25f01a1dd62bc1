package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

func TestBuildPlan(t *testing.T) {
	tests := []struct {
		name     string
		opts     queryOptions
		expected string
	}{
		{
			name:     "sort distinct",
			opts:     queryOptions{CSV: "r.csv", Sort: "rating", Distinct: true, Limit: -1},
			expected: "Distinct\n  Sort: rating ASC\n    SeqScan: Source(r.csv)\n",
		},
		{
			name:     "sort with limit becomes topn",
			opts:     queryOptions{Table: "r", Sort: "rating", Numeric: true, Desc: true, Limit: 3},
			expected: "TopN: Limit 3, rating (numeric) DESC\n  SeqScan: Table(r)\n",
		},
		{
			name: "join project limit",
			opts: queryOptions{Table: "ratings", Join: "movies", On: "movieId=movieId", Collision: "keep-outer",
				Project: "title,rating:score", Limit: 5},
			expected: "Limit: 5\n" +
				"  Projection: title, rating AS score\n" +
				"    NestedLoopJoin: (outer.movieId = inner.movieId), collisions=keep-outer\n" +
				"      SeqScan: Table(ratings)\n" +
				"      Materialize\n" +
				"        SeqScan: Table(movies)\n",
		},
		{
			name:     "where and aggregate",
			opts:     queryOptions{Table: "r", Where: "rating>=4", NumericWhere: true, Aggregate: "avg:rating", Limit: -1},
			expected: "Aggregate: Average(rating) AS Average\n  Filter: (rating >= 4)\n    SeqScan: Table(r)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := buildPlan(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, planner.Explain(plan))
		})
	}
}

func TestBuildPlanErrors(t *testing.T) {
	for _, opts := range []queryOptions{
		{Limit: -1},
		{Table: "r", Join: "m", On: "id", Limit: -1},
		{Table: "r", Join: "m", On: "id=id", Collision: "merge", Limit: -1},
		{Table: "r", Aggregate: "median:x", Limit: -1},
		{Table: "r", Where: "rating", Limit: -1},
		{Table: "r", Where: "rating>four", NumericWhere: true, Limit: -1},
	} {
		_, err := buildPlan(opts)
		assert.Error(t, err, "%+v", opts)
	}
}

func TestParseWhere(t *testing.T) {
	row := storage.FromPairs("title", "Star Wars", "rating", "4.5")
	tests := []struct {
		expr     string
		numeric  bool
		expected bool
	}{
		{"title~Star%", false, true},
		{"title=Star Wars", false, true},
		{"title!=Star Wars", false, false},
		{"rating>=4.5", true, true},
		{"rating<10", true, true},
		{"rating<10", false, false},
	}
	for _, tt := range tests {
		pred, err := parseWhere(tt.expr, tt.numeric)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.expected, pred.Eval(row), tt.expr)
	}
}

func TestRunExport(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "ratings.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("id,rating\n1,3\n2,5\n3,4\n"), 0o644))
	out := filepath.Join(dir, "top.msgpack")

	config := parseArguments([]string{"-csv", csvPath, "-sort", "rating", "-desc", "-limit", "2", "-export", out, "-log-level", "error"})
	require.NoError(t, run(config))

	rows, err := readAll(storage.NewMsgpackSource(out))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "rating"}, {"2", "5"}, {"3", "4"}}, rows)
}

func readAll(source storage.RowSource) ([][]string, error) {
	r, err := source.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var out [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

func TestRenderRows(t *testing.T) {
	out := renderRows([]storage.Tuple{storage.FromPairs("a", "1"), storage.FromPairs("b", "2")})
	assert.Contains(t, out, "(2 rows)")
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
	assert.Contains(t, renderRows(nil), "(0 rows)")
}
