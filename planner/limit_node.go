package planner

import (
	"fmt"
)

// LimitNode limits the number of output tuples.
type LimitNode struct {
	Child PlanNode
	Limit int
}

func NewLimitNode(child PlanNode, limit int) *LimitNode {
	return &LimitNode{
		Child: child,
		Limit: limit,
	}
}

func (n *LimitNode) Children() []PlanNode {
	return children(n.Child)
}

func (n *LimitNode) String() string {
	return fmt.Sprintf("Limit: %d", n.Limit)
}
