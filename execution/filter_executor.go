package execution

import (
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// FilterExecutor filters tuples from its child executor based on a predicate.
type FilterExecutor struct {
	lifecycle
	plan    *planner.FilterNode
	child   Executor
	current storage.Tuple
}

// NewFilter creates a new FilterExecutor executor.
func NewFilter(plan *planner.FilterNode, child Executor) *FilterExecutor {
	return &FilterExecutor{
		lifecycle: newLifecycle("Filter"),
		plan:      plan,
		child:     child,
	}
}

func (e *FilterExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

// Init initializes the child.
func (e *FilterExecutor) Init(ctx *ExecutorContext) error {
	e.begin(ctx)
	e.current = storage.Tuple{}
	if err := initChildren(ctx, e.child); err != nil {
		e.fail(err)
		return err
	}
	return nil
}

func (e *FilterExecutor) Next() bool {
	if !e.advance() {
		return false
	}
	e.current = storage.Tuple{}
	if e.child == nil || e.plan.Predicate == nil {
		return e.exhaust()
	}
	for e.child.Next() {
		t := e.child.Current()
		if e.plan.Predicate.Eval(t) {
			e.current = t
			return true
		}
	}
	if err := e.child.Error(); err != nil {
		return e.fail(err)
	}
	return e.exhaust()
}

func (e *FilterExecutor) Current() storage.Tuple {
	return e.current
}

func (e *FilterExecutor) Close() error {
	if ok, err := e.finish(); !ok {
		return err
	}
	e.current = storage.Tuple{}
	return closeChildren(e.child)
}
