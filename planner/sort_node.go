package planner

import (
	"fmt"
	"strings"
)

type SortDirection int

const (
	SortOrderAscending SortDirection = iota
	SortOrderDescending
)

func (d SortDirection) String() string {
	if d == SortOrderDescending {
		return "DESC"
	}
	return "ASC"
}

// OrderBy configures how Sort and TopN order rows.
//
// With a Column, rows are ordered by that column's text compared byte by byte, so "12"
// sorts before "9". Numeric opts in to comparing the column as decimal numbers instead.
// Without a Column, rows are ordered by the canonical full-row ordering (Tuple.Compare).
// Ties always keep the order in which rows arrived.
type OrderBy struct {
	Column    string
	Direction SortDirection
	Numeric   bool
}

func (o OrderBy) String() string {
	if o.Column == "" {
		return fmt.Sprintf("<row> %s", o.Direction)
	}
	var sb strings.Builder
	sb.WriteString(o.Column)
	if o.Numeric {
		sb.WriteString(" (numeric)")
	}
	sb.WriteByte(' ')
	sb.WriteString(o.Direction.String())
	return sb.String()
}

// SortNode sorts the input tuples.
type SortNode struct {
	Child PlanNode
	OrderBy
}

// NewSortNode sorts ascending by column, or by the whole row if column is empty.
func NewSortNode(child PlanNode, column string) *SortNode {
	return &SortNode{
		Child:   child,
		OrderBy: OrderBy{Column: column},
	}
}

func NewOrderedSortNode(child PlanNode, orderBy OrderBy) *SortNode {
	return &SortNode{
		Child:   child,
		OrderBy: orderBy,
	}
}

func (n *SortNode) Children() []PlanNode {
	return children(n.Child)
}

func (n *SortNode) String() string {
	return fmt.Sprintf("Sort: %s", n.OrderBy)
}

// TopNNode represents a combined Sort + Limit operation.
type TopNNode struct {
	Child PlanNode
	Limit int
	OrderBy
}

func NewTopNNode(child PlanNode, limit int, orderBy OrderBy) *TopNNode {
	return &TopNNode{
		Child:   child,
		Limit:   limit,
		OrderBy: orderBy,
	}
}

func (n *TopNNode) Children() []PlanNode {
	return children(n.Child)
}

func (n *TopNNode) String() string {
	return fmt.Sprintf("TopN: Limit %d, %s", n.Limit, n.OrderBy)
}
