package planner

import (
	"fmt"
)

type AggregatorType int

const (
	AggCount AggregatorType = iota
	AggAverage
	AggSum
	AggMin
	AggMax
)

func (a AggregatorType) String() string {
	switch a {
	case AggCount:
		return "Count"
	case AggAverage:
		return "Average"
	case AggSum:
		return "Sum"
	case AggMin:
		return "Min"
	case AggMax:
		return "Max"
	}
	return "unknown"
}

// AggregateNode reduces its whole input to a single one-column tuple.
//
// Column is the input column the aggregate reads; every type except AggCount requires
// it. Alias names the result column and defaults to the aggregate's name ("Count",
// "Average", ...).
type AggregateNode struct {
	Child  PlanNode
	Type   AggregatorType
	Column string
	Alias  string
}

func NewCountNode(child PlanNode) *AggregateNode {
	return &AggregateNode{Child: child, Type: AggCount}
}

func NewAverageNode(child PlanNode, column string) *AggregateNode {
	return &AggregateNode{Child: child, Type: AggAverage, Column: column}
}

func NewAggregateNode(child PlanNode, aggType AggregatorType, column, alias string) *AggregateNode {
	return &AggregateNode{Child: child, Type: aggType, Column: column, Alias: alias}
}

// ResultColumn is the name of the single column the aggregate produces.
func (n *AggregateNode) ResultColumn() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Type.String()
}

func (n *AggregateNode) Children() []PlanNode {
	return children(n.Child)
}

func (n *AggregateNode) String() string {
	if n.Type == AggCount {
		return fmt.Sprintf("Aggregate: %s AS %s", n.Type, n.ResultColumn())
	}
	return fmt.Sprintf("Aggregate: %s(%s) AS %s", n.Type, n.Column, n.ResultColumn())
}
