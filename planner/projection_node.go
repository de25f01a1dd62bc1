package planner

import (
	"strings"
)

// ProjectColumn retains column Name, renamed to Alias when Alias is set.
type ProjectColumn struct {
	Name  string
	Alias string
}

// OutputName is the column name in the projected tuple.
func (c ProjectColumn) OutputName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// ProjectionNode keeps (and optionally renames) a subset of columns. With no columns
// configured, tuples pass through unchanged.
type ProjectionNode struct {
	Child   PlanNode
	Columns []ProjectColumn
}

func NewProjectionNode(child PlanNode, columns []ProjectColumn) *ProjectionNode {
	return &ProjectionNode{
		Child:   child,
		Columns: columns,
	}
}

// ProjectColumns is shorthand for a projection that keeps names unchanged.
func ProjectColumns(names ...string) []ProjectColumn {
	cols := make([]ProjectColumn, len(names))
	for i, n := range names {
		cols[i] = ProjectColumn{Name: n}
	}
	return cols
}

func (n *ProjectionNode) Children() []PlanNode {
	return children(n.Child)
}

func (n *ProjectionNode) String() string {
	if len(n.Columns) == 0 {
		return "Projection: *"
	}
	parts := make([]string, len(n.Columns))
	for i, c := range n.Columns {
		if c.Alias != "" && c.Alias != c.Name {
			parts[i] = c.Name + " AS " + c.Alias
		} else {
			parts[i] = c.Name
		}
	}
	return "Projection: " + strings.Join(parts, ", ")
}
