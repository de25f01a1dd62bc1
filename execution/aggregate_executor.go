package execution

import (
	"strconv"

	"mit.edu/dsg/pulldb/common"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// AggregateExecutor reduces its whole input to one single-column tuple. It is blocking:
// the first call to Next drains the child, and every later call reports exhaustion.
type AggregateExecutor struct {
	lifecycle
	plan  *planner.AggregateNode
	child Executor

	done    bool
	current storage.Tuple
}

func NewAggregateExecutor(plan *planner.AggregateNode, child Executor) *AggregateExecutor {
	return &AggregateExecutor{
		lifecycle: newLifecycle(plan.Type.String()),
		plan:      plan,
		child:     child,
	}
}

func (e *AggregateExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *AggregateExecutor) Init(ctx *ExecutorContext) error {
	e.begin(ctx)
	e.done = false
	e.current = storage.Tuple{}
	if err := initChildren(ctx, e.child); err != nil {
		e.fail(err)
		return err
	}
	if e.plan.Type != planner.AggCount && e.plan.Column == "" {
		err := common.NewError(common.ConfigurationError, "%s requires a target column", e.plan.Type)
		e.fail(err)
		return err
	}
	return nil
}

// aggregateState accumulates one aggregate over a stream of rows.
type aggregateState struct {
	count   int64
	sum     float64
	extreme float64
	text    string
}

func (s *aggregateState) add(aggType planner.AggregatorType, value string) error {
	n, err := planner.ParseNumber(value)
	if err != nil {
		return err
	}
	switch aggType {
	case planner.AggMin:
		if s.count == 0 || n < s.extreme {
			s.extreme, s.text = n, value
		}
	case planner.AggMax:
		if s.count == 0 || n > s.extreme {
			s.extreme, s.text = n, value
		}
	}
	s.count++
	s.sum += n
	return nil
}

func (s *aggregateState) result(aggType planner.AggregatorType) string {
	switch aggType {
	case planner.AggCount:
		return strconv.FormatInt(s.count, 10)
	case planner.AggAverage:
		if s.count == 0 {
			return formatDecimal(0)
		}
		return formatDecimal(s.sum / float64(s.count))
	case planner.AggSum:
		return formatDecimal(s.sum)
	}
	// Min and Max keep the text of the extreme value; empty when there were no rows
	return s.text
}

func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

func (e *AggregateExecutor) aggregate() (storage.Tuple, error) {
	var state aggregateState
	if e.child != nil {
		for e.child.Next() {
			t := e.child.Current()
			if e.plan.Type == planner.AggCount {
				state.count++
				continue
			}
			value, ok := t.Get(e.plan.Column)
			if !ok {
				return storage.Tuple{}, common.NewError(common.DataShapeError,
					"%s: row %s has no column '%s'", e.plan.Type, t, e.plan.Column)
			}
			if err := state.add(e.plan.Type, value); err != nil {
				return storage.Tuple{}, common.WrapError(common.DataShapeError, err,
					"%s: column '%s' holds non-numeric value '%s'", e.plan.Type, e.plan.Column, value)
			}
		}
		if err := e.child.Error(); err != nil {
			return storage.Tuple{}, err
		}
	}
	e.log.Debug("aggregated", "rows", state.count)
	return storage.FromPairs(e.plan.ResultColumn(), state.result(e.plan.Type)), nil
}

func (e *AggregateExecutor) Next() bool {
	if !e.advance() {
		return false
	}
	if e.done {
		e.current = storage.Tuple{}
		return e.exhaust()
	}
	e.done = true
	t, err := e.aggregate()
	if err != nil {
		return e.fail(err)
	}
	e.current = t
	return true
}

func (e *AggregateExecutor) Current() storage.Tuple {
	return e.current
}

func (e *AggregateExecutor) Close() error {
	if ok, err := e.finish(); !ok {
		return err
	}
	e.current = storage.Tuple{}
	return closeChildren(e.child)
}
