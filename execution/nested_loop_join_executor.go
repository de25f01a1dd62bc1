package execution

import (
	mapset "github.com/deckarep/golang-set/v2"
	"mit.edu/dsg/pulldb/common"
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// NestedLoopJoinExecutor implements the tuple-at-a-time nested loop join.
// It holds one outer tuple and scans the inner child for matches. A match is returned
// immediately, leaving the inner cursor just past it so the next call resumes the scan.
// When the inner child is exhausted the next outer tuple is fetched and the inner child is
// reset (Close, then Init) for it. The join ends when the outer child is exhausted, without
// a further reset.
type NestedLoopJoinExecutor struct {
	lifecycle
	plan         *planner.NestedLoopJoinNode
	outer, inner Executor

	// Runtime state
	ctx      *ExecutorContext
	outerRow   storage.Tuple
	hasOuter   bool
	innerSpent bool
	current    storage.Tuple
}

// NewNestedLoopJoinExecutor creates a new NestedLoopJoinExecutor.
func NewNestedLoopJoinExecutor(plan *planner.NestedLoopJoinNode, outer Executor, inner Executor) *NestedLoopJoinExecutor {
	return &NestedLoopJoinExecutor{
		lifecycle: newLifecycle("NestedLoopJoin"),
		plan:      plan,
		outer:     outer,
		inner:     inner,
	}
}

func (e *NestedLoopJoinExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *NestedLoopJoinExecutor) Init(ctx *ExecutorContext) error {
	e.begin(ctx)
	e.ctx = ctx
	e.outerRow, e.hasOuter = storage.Tuple{}, false
	e.innerSpent = false
	e.current = storage.Tuple{}
	if err := initChildren(ctx, e.outer, e.inner); err != nil {
		e.fail(err)
		return err
	}
	var err error
	switch {
	case e.outer == nil:
		err = common.NewError(common.ConfigurationError, "join has no outer input")
	case e.inner == nil:
		err = common.NewError(common.ConfigurationError, "join has no inner input")
	case e.plan.Predicate == nil:
		err = common.NewError(common.ConfigurationError, "join has no predicate")
	case e.plan.Collision == planner.CollisionPrefix && e.plan.OuterPrefix == e.plan.InnerPrefix:
		err = common.NewError(common.ConfigurationError,
			"join renames shared columns but outer and inner prefixes are both '%s'", e.plan.OuterPrefix)
	}
	if err != nil {
		e.fail(err)
		return err
	}
	return nil
}

func (e *NestedLoopJoinExecutor) resetInner() error {
	if err := e.inner.Close(); err != nil {
		return err
	}
	return e.inner.Init(e.ctx)
}

func (e *NestedLoopJoinExecutor) Next() bool {
	if !e.advance() {
		return false
	}
	e.current = storage.Tuple{}

	for {
		if !e.hasOuter {
			if !e.outer.Next() {
				if err := e.outer.Error(); err != nil {
					return e.fail(err)
				}
				e.outerRow = storage.Tuple{}
				return e.exhaust()
			}
			e.outerRow, e.hasOuter = e.outer.Current(), true
			if e.innerSpent {
				if err := e.resetInner(); err != nil {
					return e.fail(err)
				}
				e.innerSpent = false
			}
		}

		for e.inner.Next() {
			innerRow := e.inner.Current()
			if !e.plan.Predicate.Eval(e.outerRow, innerRow) {
				continue
			}
			merged, err := mergeTuples(e.plan, e.outerRow, innerRow)
			if err != nil {
				return e.fail(err)
			}
			e.current = merged
			return true
		}
		if err := e.inner.Error(); err != nil {
			return e.fail(err)
		}

		// the inner side is done with this outer row
		e.outerRow, e.hasOuter = storage.Tuple{}, false
		e.innerSpent = true
	}
}

// mergeTuples combines a matching pair of rows, resolving shared column names with the
// join's collision policy.
func mergeTuples(plan *planner.NestedLoopJoinNode, outer, inner storage.Tuple) (storage.Tuple, error) {
	outerCols := mapset.NewThreadUnsafeSet(outer.Columns()...)
	innerCols := mapset.NewThreadUnsafeSet(inner.Columns()...)
	collisions := outerCols.Intersect(innerCols)

	fields := make(map[string]string, outer.NumColumns()+inner.NumColumns())
	if collisions.Cardinality() == 0 {
		for col, v := range outer.ToMap() {
			fields[col] = v
		}
		for col, v := range inner.ToMap() {
			fields[col] = v
		}
		return storage.FromMap(fields), nil
	}

	switch plan.Collision {
	case planner.CollisionError:
		return storage.Tuple{}, common.NewError(common.ColumnCollisionError,
			"join inputs share columns %v", collisions.ToSlice())
	case planner.CollisionKeepOuter:
		for col, v := range inner.ToMap() {
			fields[col] = v
		}
		for col, v := range outer.ToMap() {
			fields[col] = v
		}
	default:
		if err := putPrefixed(fields, outer, collisions, plan.OuterPrefix); err != nil {
			return storage.Tuple{}, err
		}
		if err := putPrefixed(fields, inner, collisions, plan.InnerPrefix); err != nil {
			return storage.Tuple{}, err
		}
	}
	return storage.FromMap(fields), nil
}

// putPrefixed copies row into fields, renaming the shared columns with prefix. A renamed
// column that lands on a name already present is an error rather than an overwrite.
func putPrefixed(fields map[string]string, row storage.Tuple, shared mapset.Set[string], prefix string) error {
	for col, v := range row.ToMap() {
		if shared.Contains(col) {
			col = prefix + col
		}
		if _, taken := fields[col]; taken {
			return common.NewError(common.ColumnCollisionError,
				"join output column '%s' is produced twice", col)
		}
		fields[col] = v
	}
	return nil
}

func (e *NestedLoopJoinExecutor) Current() storage.Tuple {
	return e.current
}

func (e *NestedLoopJoinExecutor) Close() error {
	if ok, err := e.finish(); !ok {
		return err
	}
	e.outerRow, e.hasOuter = storage.Tuple{}, false
	e.innerSpent = false
	e.current = storage.Tuple{}
	return closeChildren(e.outer, e.inner)
}
