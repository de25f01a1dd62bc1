package planner

import (
	"fmt"
)

// FilterNode filters tuples from its child based on a predicate.
type FilterNode struct {
	Child     PlanNode
	Predicate Predicate
}

func NewFilterNode(child PlanNode, predicate Predicate) *FilterNode {
	return &FilterNode{
		Child:     child,
		Predicate: predicate,
	}
}

func (n *FilterNode) Children() []PlanNode {
	return children(n.Child)
}

func (n *FilterNode) String() string {
	if n.Predicate == nil {
		return "Filter: <none>"
	}
	return fmt.Sprintf("Filter: %s", n.Predicate.String())
}
