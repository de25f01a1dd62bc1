package execution

import (
	mapset "github.com/deckarep/golang-set/v2"
	"mit.edu/dsg/pulldb/common"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// ProjectionExecutor keeps a configured subset of columns, optionally renaming them.
// With no columns configured it passes tuples through unchanged.
type ProjectionExecutor struct {
	lifecycle
	plan    *planner.ProjectionNode
	child   Executor
	current storage.Tuple
}

// NewProjectionExecutor creates a new ProjectionExecutor.
func NewProjectionExecutor(plan *planner.ProjectionNode, child Executor) *ProjectionExecutor {
	return &ProjectionExecutor{
		lifecycle: newLifecycle("Projection"),
		plan:      plan,
		child:     child,
	}
}

func (e *ProjectionExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *ProjectionExecutor) Init(ctx *ExecutorContext) error {
	e.begin(ctx)
	e.current = storage.Tuple{}
	if err := initChildren(ctx, e.child); err != nil {
		e.fail(err)
		return err
	}
	names := mapset.NewThreadUnsafeSet[string]()
	for _, col := range e.plan.Columns {
		if col.Name == "" {
			err := common.NewError(common.ConfigurationError, "projection column name must not be empty")
			e.fail(err)
			return err
		}
		if !names.Add(col.OutputName()) {
			err := common.NewError(common.ConfigurationError, "projection produces column '%s' twice", col.OutputName())
			e.fail(err)
			return err
		}
	}
	return nil
}

func (e *ProjectionExecutor) project(t storage.Tuple) (storage.Tuple, error) {
	if len(e.plan.Columns) == 0 {
		return t, nil
	}
	fields := make(map[string]string, len(e.plan.Columns))
	for _, col := range e.plan.Columns {
		value, ok := t.Get(col.Name)
		if !ok {
			return storage.Tuple{}, common.NewError(common.DataShapeError,
				"projection: row %s has no column '%s'", t, col.Name)
		}
		fields[col.OutputName()] = value
	}
	return storage.FromMap(fields), nil
}

func (e *ProjectionExecutor) Next() bool {
	if !e.advance() {
		return false
	}
	e.current = storage.Tuple{}
	if e.child == nil {
		return e.exhaust()
	}
	if !e.child.Next() {
		if err := e.child.Error(); err != nil {
			return e.fail(err)
		}
		return e.exhaust()
	}
	t, err := e.project(e.child.Current())
	if err != nil {
		return e.fail(err)
	}
	e.current = t
	return true
}

func (e *ProjectionExecutor) Current() storage.Tuple {
	return e.current
}

func (e *ProjectionExecutor) Close() error {
	if ok, err := e.finish(); !ok {
		return err
	}
	e.current = storage.Tuple{}
	return closeChildren(e.child)
}
