package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"mit.edu/dsg/pulldb/storage"
)

func TestExplain(t *testing.T) {
	ratings := NewSeqScanNode("ratings")
	movies := NewSourceScanNode(storage.NewMemorySource("movies", []string{"movieId"}))

	plan := NewLimitNode(
		NewProjectionNode(
			NewNestedLoopJoinNode(
				NewDistinctNode(NewSortNode(ratings, "")),
				NewMaterializeNode(movies),
				NewColumnsEqualPredicate("movieId", "movieId"),
			),
			[]ProjectColumn{{Name: "title"}, {Name: "rating", Alias: "score"}},
		),
		10,
	)

	expected := "Limit: 10\n" +
		"  Projection: title, rating AS score\n" +
		"    NestedLoopJoin: (outer.movieId = inner.movieId), collisions=prefix\n" +
		"      Distinct\n" +
		"        Sort: <row> ASC\n" +
		"          SeqScan: Table(ratings)\n" +
		"      Materialize\n" +
		"        SeqScan: Source(movies)\n"
	assert.Equal(t, expected, Explain(plan))
}

func TestExplain_MissingJoinInput(t *testing.T) {
	plan := NewNestedLoopJoinNode(NewSeqScanNode("a"), nil, nil).WithCollisionPolicy(CollisionError)
	assert.Equal(t, "NestedLoopJoin: <none>, collisions=error\n  SeqScan: Table(a)\n  <missing>\n", Explain(plan))
}

func TestNodeStrings(t *testing.T) {
	scan := NewSeqScanNode("t")
	assert.Equal(t, "Aggregate: Count AS Count", NewCountNode(scan).String())
	assert.Equal(t, "Aggregate: Average(rating) AS Average", NewAverageNode(scan, "rating").String())
	assert.Equal(t, "Aggregate: Max(rating) AS best", NewAggregateNode(scan, AggMax, "rating", "best").String())
	assert.Equal(t, "Sort: rating ASC", NewSortNode(scan, "rating").String())
	assert.Equal(t, "Sort: rating (numeric) DESC",
		NewOrderedSortNode(scan, OrderBy{Column: "rating", Numeric: true, Direction: SortOrderDescending}).String())
	assert.Equal(t, "TopN: Limit 3, rating ASC", NewTopNNode(scan, 3, OrderBy{Column: "rating"}).String())
	assert.Equal(t, "Projection: *", NewProjectionNode(scan, nil).String())
	assert.Equal(t, "Filter: <none>", NewFilterNode(scan, nil).String())
	assert.Empty(t, NewFilterNode(nil, nil).Children())
}

func TestAggregateResultColumn(t *testing.T) {
	assert.Equal(t, "Count", NewCountNode(nil).ResultColumn())
	assert.Equal(t, "total", NewAggregateNode(nil, AggCount, "", "total").ResultColumn())
	assert.Equal(t, "Average", NewAverageNode(nil, "x").ResultColumn())
	assert.Equal(t, "Sum", NewAggregateNode(nil, AggSum, "x", "").ResultColumn())
}
