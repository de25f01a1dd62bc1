package execution

import (
	"github.com/tidwall/btree"
	"mit.edu/dsg/pulldb/common"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// TopNExecutor keeps the first Limit tuples of the ordering in a bounded btree, evicting
// the largest entry whenever the tree grows past Limit.
type TopNExecutor struct {
	lifecycle
	plan  *planner.TopNNode
	child Executor

	sorted       []sortEntry
	computed     bool
	currentIndex int
	current      storage.Tuple
}

func NewTopNExecutor(plan *planner.TopNNode, child Executor) *TopNExecutor {
	return &TopNExecutor{
		lifecycle: newLifecycle("TopN"),
		plan:      plan,
		child:     child,
	}
}

func (e *TopNExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *TopNExecutor) Init(ctx *ExecutorContext) error {
	e.begin(ctx)
	e.sorted = nil
	e.computed = false
	e.currentIndex = 0
	e.current = storage.Tuple{}
	if err := initChildren(ctx, e.child); err != nil {
		e.fail(err)
		return err
	}
	return nil
}

func (e *TopNExecutor) computeTopN() error {
	if e.child == nil || e.plan.Limit <= 0 {
		return nil
	}
	tree := btree.NewBTreeG(entryLess(e.plan.OrderBy))
	var seq uint64
	for e.child.Next() {
		tree.Set(newSortEntry(e.child.Current(), e.plan.OrderBy, seq))
		seq++
		if tree.Len() > e.plan.Limit {
			tree.PopMax()
		}
	}
	if err := e.child.Error(); err != nil {
		return err
	}
	e.sorted = treeEntries(tree)
	common.Assert(len(e.sorted) <= e.plan.Limit, "TopN kept %d rows for limit %d", len(e.sorted), e.plan.Limit)
	return nil
}

func (e *TopNExecutor) Next() bool {
	if !e.advance() {
		return false
	}
	if !e.computed {
		e.computed = true
		if err := e.computeTopN(); err != nil {
			return e.fail(err)
		}
	}
	if e.currentIndex >= len(e.sorted) {
		e.current = storage.Tuple{}
		return e.exhaust()
	}
	e.current = e.sorted[e.currentIndex].tuple
	e.sorted[e.currentIndex] = sortEntry{}
	e.currentIndex++
	return true
}

func (e *TopNExecutor) Current() storage.Tuple {
	return e.current
}

func (e *TopNExecutor) Close() error {
	if ok, err := e.finish(); !ok {
		return err
	}
	e.sorted = nil
	e.current = storage.Tuple{}
	return closeChildren(e.child)
}
