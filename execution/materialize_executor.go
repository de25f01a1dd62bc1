package execution

import (
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// MaterializeExecutor acts as a pipeline barrier.
// It consumes all tuples from its child during the first complete pass and stores them.
// Once the child has been drained it is closed, and every later Init replays the stored
// tuples without touching the child again. A pass abandoned before the end is discarded
// and the next Init starts over from the child.
type MaterializeExecutor struct {
	lifecycle
	plan  *planner.MaterializeNode
	child Executor

	// Runtime state
	tuples       []storage.Tuple
	complete     bool
	childOpen    bool
	currentIndex int
	current      storage.Tuple
}

func NewMaterializeExecutor(plan *planner.MaterializeNode, child Executor) *MaterializeExecutor {
	return &MaterializeExecutor{
		lifecycle: newLifecycle("Materialize"),
		plan:      plan,
		child:     child,
	}
}

func (e *MaterializeExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *MaterializeExecutor) Init(ctx *ExecutorContext) error {
	e.begin(ctx)
	e.currentIndex = 0
	e.current = storage.Tuple{}
	if e.complete || e.child == nil {
		return nil
	}
	if e.childOpen {
		if err := e.child.Close(); err != nil {
			e.fail(err)
			return err
		}
	}
	e.tuples = e.tuples[:0]
	e.childOpen = true
	if err := e.child.Init(ctx); err != nil {
		e.fail(err)
		return err
	}
	return nil
}

func (e *MaterializeExecutor) Next() bool {
	if !e.advance() {
		return false
	}
	if e.currentIndex < len(e.tuples) {
		// stored tuples are immutable and may be handed out on every replay
		e.current = e.tuples[e.currentIndex]
		e.currentIndex++
		return true
	}
	e.current = storage.Tuple{}
	if e.complete || e.child == nil {
		return e.exhaust()
	}

	if e.child.Next() {
		e.current = e.child.Current()
		e.tuples = append(e.tuples, e.current)
		e.currentIndex++
		return true
	}
	if err := e.child.Error(); err != nil {
		return e.fail(err)
	}
	e.complete = true
	e.childOpen = false
	e.log.Debug("materialized", "rows", len(e.tuples))
	if err := e.child.Close(); err != nil {
		return e.fail(err)
	}
	return e.exhaust()
}

func (e *MaterializeExecutor) Current() storage.Tuple {
	return e.current
}

// Close keeps the stored tuples so that a later Init can replay them.
func (e *MaterializeExecutor) Close() error {
	if ok, err := e.finish(); !ok {
		return err
	}
	e.current = storage.Tuple{}
	if e.childOpen {
		e.childOpen = false
		return e.child.Close()
	}
	return nil
}
