package execution

import (
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// DistinctExecutor drops tuples equal to the one before them. It holds back one candidate
// row until it sees a different row (or the end of input), so output lags the child by one
// row. Only adjacent duplicates are detected: the child must deliver equal rows together.
type DistinctExecutor struct {
	lifecycle
	plan  *planner.DistinctNode
	child Executor

	candidate    storage.Tuple
	hasCandidate bool
	current      storage.Tuple
}

func NewDistinctExecutor(plan *planner.DistinctNode, child Executor) *DistinctExecutor {
	return &DistinctExecutor{
		lifecycle: newLifecycle("Distinct"),
		plan:      plan,
		child:     child,
	}
}

func (e *DistinctExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *DistinctExecutor) Init(ctx *ExecutorContext) error {
	e.begin(ctx)
	e.candidate = storage.Tuple{}
	e.hasCandidate = false
	e.current = storage.Tuple{}
	if err := initChildren(ctx, e.child); err != nil {
		e.fail(err)
		return err
	}
	return nil
}

func (e *DistinctExecutor) Next() bool {
	if !e.advance() {
		return false
	}
	e.current = storage.Tuple{}
	if e.child == nil {
		return e.exhaust()
	}
	for e.child.Next() {
		t := e.child.Current()
		if !e.hasCandidate {
			e.candidate, e.hasCandidate = t, true
			continue
		}
		if t.Equals(e.candidate) {
			continue
		}
		e.current, e.candidate = e.candidate, t
		return true
	}
	if err := e.child.Error(); err != nil {
		return e.fail(err)
	}
	if e.hasCandidate {
		e.current = e.candidate
		e.candidate, e.hasCandidate = storage.Tuple{}, false
		return true
	}
	return e.exhaust()
}

func (e *DistinctExecutor) Current() storage.Tuple {
	return e.current
}

func (e *DistinctExecutor) Close() error {
	if ok, err := e.finish(); !ok {
		return err
	}
	e.candidate, e.hasCandidate = storage.Tuple{}, false
	e.current = storage.Tuple{}
	return closeChildren(e.child)
}
