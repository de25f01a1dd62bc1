package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/pulldb/common"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// allExecutors builds one of every executor kind over a small source.
func allExecutors() map[string]Executor {
	scan := func() *SeqScanExecutor { return scanOf(setupTestSource(3)) }
	always := planner.PredicateFunc(func(storage.Tuple) bool { return true })
	joinAll := planner.JoinPredicateFunc(func(_, _ storage.Tuple) bool { return true })

	s := scan()
	f := scan()
	a := scan()
	d := scan()
	so := scan()
	tn := scan()
	l := scan()
	p := scan()
	m := scan()
	o, i := scan(), scan()
	return map[string]Executor{
		"SeqScan":        s,
		"Filter":         NewFilter(planner.NewFilterNode(f.PlanNode(), always), f),
		"Aggregate":      NewAggregateExecutor(planner.NewCountNode(a.PlanNode()), a),
		"Distinct":       NewDistinctExecutor(planner.NewDistinctNode(d.PlanNode()), d),
		"Sort":           NewSortExecutor(planner.NewSortNode(so.PlanNode(), ""), so),
		"TopN":           NewTopNExecutor(planner.NewTopNNode(tn.PlanNode(), 2, planner.OrderBy{Column: "id"}), tn),
		"Limit":          NewLimitExecutor(planner.NewLimitNode(l.PlanNode(), 2), l),
		"Projection":     NewProjectionExecutor(planner.NewProjectionNode(p.PlanNode(), planner.ProjectColumns("id")), p),
		"Materialize":    NewMaterializeExecutor(planner.NewMaterializeNode(m.PlanNode()), m),
		"NestedLoopJoin": NewNestedLoopJoinExecutor(planner.NewNestedLoopJoinNode(o.PlanNode(), i.PlanNode(), joinAll).WithCollisionPolicy(planner.CollisionKeepOuter), o, i),
	}
}

func TestLifecycle_NextBeforeInit(t *testing.T) {
	for name, exec := range allExecutors() {
		t.Run(name, func(t *testing.T) {
			assert.False(t, exec.Next())
			assert.True(t, common.IsErrorCode(exec.Error(), common.ExecutorStateError), "got %v", exec.Error())
		})
	}
}

func TestLifecycle_CloseBeforeInit(t *testing.T) {
	for name, exec := range allExecutors() {
		t.Run(name, func(t *testing.T) {
			err := exec.Close()
			assert.True(t, common.IsErrorCode(err, common.ExecutorStateError), "got %v", err)
		})
	}
}

func TestLifecycle_ExhaustionIsSticky(t *testing.T) {
	for name, exec := range allExecutors() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, exec.Init(testContext()))
			n := 0
			for exec.Next() {
				n++
			}
			require.NoError(t, exec.Error())
			assert.Positive(t, n)
			for i := 0; i < 3; i++ {
				assert.False(t, exec.Next())
			}
			assert.NoError(t, exec.Error())
			require.NoError(t, exec.Close())
		})
	}
}

func TestLifecycle_CloseIsIdempotentAndReinitRestarts(t *testing.T) {
	for name, exec := range allExecutors() {
		t.Run(name, func(t *testing.T) {
			ctx := testContext()
			first, err := Collect(exec, ctx)
			require.NoError(t, err)

			assert.NoError(t, exec.Close(), "second Close should be a no-op")
			assert.False(t, exec.Next())
			assert.True(t, common.IsErrorCode(exec.Error(), common.ExecutorStateError), "Next after Close: %v", exec.Error())

			second, err := Collect(exec, ctx)
			require.NoError(t, err)
			require.Equal(t, len(first), len(second))
			for i := range first {
				assert.True(t, first[i].Equals(second[i]), "row %d differs after re-Init", i)
			}
		})
	}
}

func TestLifecycle_ErrorClearedByInit(t *testing.T) {
	exec := scanOf(setupTestSource(2))
	assert.False(t, exec.Next())
	require.Error(t, exec.Error())

	require.NoError(t, exec.Init(testContext()))
	assert.NoError(t, exec.Error())
	assert.True(t, exec.Next())
	require.NoError(t, exec.Close())
}
