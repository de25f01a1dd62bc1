package execution

import (
	"mit.edu/dsg/pulldb/common"
	"mit.edu/dsg/pulldb/planner"
)

// Build instantiates the executor tree described by plan. Scans of named tables are
// resolved through tm, which may be nil when every scan carries its own source. A missing
// child plan becomes a missing child executor; the executor reports it at Init.
func Build(plan planner.PlanNode, tm *TableManager) (Executor, error) {
	switch node := plan.(type) {
	case *planner.SeqScanNode:
		source := node.Source
		if source == nil {
			if tm == nil {
				return nil, common.NewError(common.ConfigurationError, "no table manager to resolve table '%s'", node.Table)
			}
			var err error
			if source, err = tm.GetSource(node.Table); err != nil {
				return nil, err
			}
		}
		return NewSeqScanExecutor(node, source), nil
	case *planner.FilterNode:
		child, err := buildChild(node.Child, tm)
		if err != nil {
			return nil, err
		}
		return NewFilter(node, child), nil
	case *planner.AggregateNode:
		child, err := buildChild(node.Child, tm)
		if err != nil {
			return nil, err
		}
		return NewAggregateExecutor(node, child), nil
	case *planner.DistinctNode:
		child, err := buildChild(node.Child, tm)
		if err != nil {
			return nil, err
		}
		return NewDistinctExecutor(node, child), nil
	case *planner.SortNode:
		child, err := buildChild(node.Child, tm)
		if err != nil {
			return nil, err
		}
		return NewSortExecutor(node, child), nil
	case *planner.TopNNode:
		child, err := buildChild(node.Child, tm)
		if err != nil {
			return nil, err
		}
		return NewTopNExecutor(node, child), nil
	case *planner.LimitNode:
		child, err := buildChild(node.Child, tm)
		if err != nil {
			return nil, err
		}
		return NewLimitExecutor(node, child), nil
	case *planner.ProjectionNode:
		child, err := buildChild(node.Child, tm)
		if err != nil {
			return nil, err
		}
		return NewProjectionExecutor(node, child), nil
	case *planner.MaterializeNode:
		child, err := buildChild(node.Child, tm)
		if err != nil {
			return nil, err
		}
		return NewMaterializeExecutor(node, child), nil
	case *planner.NestedLoopJoinNode:
		outer, err := buildChild(node.Outer, tm)
		if err != nil {
			return nil, err
		}
		inner, err := buildChild(node.Inner, tm)
		if err != nil {
			return nil, err
		}
		return NewNestedLoopJoinExecutor(node, outer, inner), nil
	case nil:
		return nil, common.NewError(common.ConfigurationError, "cannot build an empty plan")
	}
	return nil, common.NewError(common.ConfigurationError, "unsupported plan node %T", plan)
}

// buildChild returns a nil Executor (not a typed nil) for a missing child plan.
func buildChild(plan planner.PlanNode, tm *TableManager) (Executor, error) {
	if plan == nil {
		return nil, nil
	}
	return Build(plan, tm)
}
