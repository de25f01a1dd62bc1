package planner

import (
	"strings"
)

// PlanNode represents the static structure of a query plan.
// It is immutable and carries the configuration of the operator it describes; the
// execution package turns a plan tree into a tree of executors.
type PlanNode interface {
	// Children returns the child plan nodes. Nil entries stand for missing inputs.
	Children() []PlanNode

	// String returns a one-line description of the plan node.
	String() string
}

// Explain renders the plan tree, one node per line, children indented below parents.
func Explain(root PlanNode) string {
	var sb strings.Builder
	explain(&sb, root, 0)
	return sb.String()
}

func explain(sb *strings.Builder, node PlanNode, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if node == nil {
		sb.WriteString("<missing>\n")
		return
	}
	sb.WriteString(node.String())
	sb.WriteByte('\n')
	for _, child := range node.Children() {
		explain(sb, child, depth+1)
	}
}

func children(nodes ...PlanNode) []PlanNode {
	out := make([]PlanNode, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
