package planner

// MaterializeNode acts as a pipeline barrier, fully buffering the child to reuse tuples on a rescan
type MaterializeNode struct {
	Child PlanNode
}

func NewMaterializeNode(child PlanNode) *MaterializeNode {
	return &MaterializeNode{
		Child: child,
	}
}

func (n *MaterializeNode) Children() []PlanNode {
	return children(n.Child)
}

func (n *MaterializeNode) String() string {
	return "Materialize"
}
