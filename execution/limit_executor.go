package execution

import (
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// LimitExecutor stops after Limit tuples. It never pulls more rows from its child than it
// returns.
type LimitExecutor struct {
	lifecycle
	plan  *planner.LimitNode
	child Executor

	count   int
	current storage.Tuple
}

func NewLimitExecutor(plan *planner.LimitNode, child Executor) *LimitExecutor {
	return &LimitExecutor{
		lifecycle: newLifecycle("Limit"),
		plan:      plan,
		child:     child,
	}
}

func (e *LimitExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *LimitExecutor) Init(ctx *ExecutorContext) error {
	e.begin(ctx)
	e.count = 0
	e.current = storage.Tuple{}
	if err := initChildren(ctx, e.child); err != nil {
		e.fail(err)
		return err
	}
	return nil
}

func (e *LimitExecutor) Next() bool {
	if !e.advance() {
		return false
	}
	e.current = storage.Tuple{}
	if e.child == nil || e.count >= e.plan.Limit {
		return e.exhaust()
	}
	if !e.child.Next() {
		if err := e.child.Error(); err != nil {
			return e.fail(err)
		}
		return e.exhaust()
	}
	e.count++
	e.current = e.child.Current()
	return true
}

func (e *LimitExecutor) Current() storage.Tuple {
	return e.current
}

func (e *LimitExecutor) Close() error {
	if ok, err := e.finish(); !ok {
		return err
	}
	e.current = storage.Tuple{}
	return closeChildren(e.child)
}
