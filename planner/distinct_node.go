package planner

// DistinctNode collapses runs of equal adjacent tuples into one. The child must yield
// equal tuples contiguously (typically a SortNode without a column); this is not checked.
type DistinctNode struct {
	Child PlanNode
}

func NewDistinctNode(child PlanNode) *DistinctNode {
	return &DistinctNode{Child: child}
}

func (n *DistinctNode) Children() []PlanNode {
	return children(n.Child)
}

func (n *DistinctNode) String() string {
	return "Distinct"
}
