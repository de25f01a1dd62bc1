package main

import (
	"fmt"
	"strings"

	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// queryOptions describes the single pipeline the command runs:
// scan -> filter -> join -> sort -> distinct -> aggregate -> project -> limit.
type queryOptions struct {
	Table        string
	CSV          string
	Msgpack      string
	Delimiter    string
	Where        string
	NumericWhere bool
	Join         string
	On           string
	Collision    string
	Sort         string
	Numeric      bool
	Desc         bool
	Distinct     bool
	Aggregate    string
	Project      string
	Limit        int
}

func buildPlan(q queryOptions) (planner.PlanNode, error) {
	var plan planner.PlanNode
	switch {
	case q.CSV != "":
		source := storage.NewCSVSource(q.CSV)
		if q.Delimiter != "" {
			source.Comma = []rune(q.Delimiter)[0]
		}
		plan = planner.NewSourceScanNode(source)
	case q.Msgpack != "":
		plan = planner.NewSourceScanNode(storage.NewMsgpackSource(q.Msgpack))
	case q.Table != "":
		plan = planner.NewSeqScanNode(q.Table)
	default:
		return nil, fmt.Errorf("one of -table, -csv or -msgpack is required")
	}

	if q.Where != "" {
		pred, err := parseWhere(q.Where, q.NumericWhere)
		if err != nil {
			return nil, err
		}
		plan = planner.NewFilterNode(plan, pred)
	}

	if q.Join != "" {
		outerCol, innerCol, ok := strings.Cut(q.On, "=")
		if !ok || outerCol == "" || innerCol == "" {
			return nil, fmt.Errorf("-join needs -on outerColumn=innerColumn")
		}
		policy, err := parseCollision(q.Collision)
		if err != nil {
			return nil, err
		}
		inner := planner.NewMaterializeNode(planner.NewSeqScanNode(q.Join))
		plan = planner.NewNestedLoopJoinNode(plan, inner, planner.NewColumnsEqualPredicate(outerCol, innerCol)).
			WithCollisionPolicy(policy)
	}

	limitApplied := false
	if q.Sort != "" {
		order := planner.OrderBy{Numeric: q.Numeric}
		if q.Sort != "*" {
			order.Column = q.Sort
		}
		if q.Desc {
			order.Direction = planner.SortOrderDescending
		}
		if q.Limit >= 0 && !q.Distinct && q.Aggregate == "" && q.Project == "" {
			plan = planner.NewTopNNode(plan, q.Limit, order)
			limitApplied = true
		} else {
			plan = planner.NewOrderedSortNode(plan, order)
		}
	}
	if q.Distinct {
		plan = planner.NewDistinctNode(plan)
	}

	if q.Aggregate != "" {
		agg, err := parseAggregate(plan, q.Aggregate)
		if err != nil {
			return nil, err
		}
		plan = agg
	}

	if q.Project != "" {
		plan = planner.NewProjectionNode(plan, parseProjection(q.Project))
	}
	if q.Limit >= 0 && !limitApplied {
		plan = planner.NewLimitNode(plan, q.Limit)
	}
	return plan, nil
}

var whereOperators = []struct {
	token string
	op    planner.ComparisonType
}{
	// two-character operators are matched first
	{">=", planner.GreaterThanOrEqual},
	{"<=", planner.LessThanOrEqual},
	{"!=", planner.NotEqual},
	{"=", planner.Equal},
	{">", planner.GreaterThan},
	{"<", planner.LessThan},
}

func parseWhere(expr string, numeric bool) (planner.Predicate, error) {
	if column, pattern, ok := strings.Cut(expr, "~"); ok {
		return planner.NewLikePredicate(strings.TrimSpace(column), pattern), nil
	}
	for _, candidate := range whereOperators {
		column, constant, ok := strings.Cut(expr, candidate.token)
		if !ok {
			continue
		}
		column = strings.TrimSpace(column)
		if column == "" {
			break
		}
		if !numeric {
			return planner.NewComparisonPredicate(column, candidate.op, constant), nil
		}
		n, err := planner.ParseNumber(constant)
		if err != nil {
			return nil, fmt.Errorf("-where constant %q is not a number", constant)
		}
		return planner.NewNumericComparisonPredicate(column, candidate.op, n), nil
	}
	return nil, fmt.Errorf("cannot parse -where %q", expr)
}

func parseCollision(s string) (planner.CollisionPolicy, error) {
	for _, p := range []planner.CollisionPolicy{planner.CollisionPrefix, planner.CollisionError, planner.CollisionKeepOuter} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown collision policy %q", s)
}

func parseAggregate(child planner.PlanNode, spec string) (planner.PlanNode, error) {
	name, column, _ := strings.Cut(spec, ":")
	switch strings.ToLower(name) {
	case "count":
		return planner.NewCountNode(child), nil
	case "avg", "average":
		return planner.NewAverageNode(child, column), nil
	case "sum":
		return planner.NewAggregateNode(child, planner.AggSum, column, ""), nil
	case "min":
		return planner.NewAggregateNode(child, planner.AggMin, column, ""), nil
	case "max":
		return planner.NewAggregateNode(child, planner.AggMax, column, ""), nil
	}
	return nil, fmt.Errorf("unknown aggregate %q", name)
}

func parseProjection(spec string) []planner.ProjectColumn {
	var cols []planner.ProjectColumn
	for _, part := range strings.Split(spec, ",") {
		name, alias, _ := strings.Cut(strings.TrimSpace(part), ":")
		cols = append(cols, planner.ProjectColumn{Name: name, Alias: alias})
	}
	return cols
}
