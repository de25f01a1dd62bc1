package execution

import (
	"github.com/tidwall/btree"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// SortExecutor sorts the input tuples based on the provided ordering.
// It is a blocking operator: Init drains the child into an ordered buffer, and Next plays
// the buffer back. The sort is stable.
type SortExecutor struct {
	lifecycle
	plan  *planner.SortNode
	child Executor

	// Runtime state
	sorted       []sortEntry
	currentIndex int
	current      storage.Tuple
}

func NewSortExecutor(plan *planner.SortNode, child Executor) *SortExecutor {
	return &SortExecutor{
		lifecycle: newLifecycle("Sort"),
		plan:      plan,
		child:     child,
	}
}

func (e *SortExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *SortExecutor) Init(ctx *ExecutorContext) error {
	e.begin(ctx)
	e.sorted = nil
	e.currentIndex = 0
	e.current = storage.Tuple{}
	if err := initChildren(ctx, e.child); err != nil {
		e.fail(err)
		return err
	}
	if e.child == nil {
		return nil
	}
	if err := e.sortAllRows(); err != nil {
		e.fail(err)
		return err
	}
	return nil
}

func (e *SortExecutor) sortAllRows() error {
	tree := btree.NewBTreeG(entryLess(e.plan.OrderBy))
	var seq uint64
	for e.child.Next() {
		tree.Set(newSortEntry(e.child.Current(), e.plan.OrderBy, seq))
		seq++
	}
	if err := e.child.Error(); err != nil {
		return err
	}
	e.sorted = treeEntries(tree)
	e.log.Debug("sorted", "rows", len(e.sorted))
	return nil
}

func (e *SortExecutor) Next() bool {
	if !e.advance() {
		return false
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

func (e *SortExecutor) Current() storage.Tuple {
	return e.current
}

func (e *SortExecutor) Close() error {
	if ok, err := e.finish(); !ok {
		return err
	}
	e.sorted = nil
	e.current = storage.Tuple{}
	return closeChildren(e.child)
}
