package planner

import (
	"fmt"
)

// CollisionPolicy decides what a join does when both inputs carry a column of the same
// name.
type CollisionPolicy int

const (
	// CollisionPrefix renames both colliding columns with the side's prefix
	// (OuterPrefix / InnerPrefix). Non-colliding columns keep their names.
	CollisionPrefix CollisionPolicy = iota
	// CollisionError fails the join with a ColumnCollisionError.
	CollisionError
	// CollisionKeepOuter keeps the outer row's value under the shared name.
	CollisionKeepOuter
)

func (p CollisionPolicy) String() string {
	switch p {
	case CollisionPrefix:
		return "prefix"
	case CollisionError:
		return "error"
	case CollisionKeepOuter:
		return "keep-outer"
	}
	return "unknown"
}

const (
	DefaultOuterPrefix = "outer."
	DefaultInnerPrefix = "inner."
)

// NestedLoopJoinNode represents a tuple-at-a-time nested loop join. Outer is scanned
// once; Inner is rescanned for every outer row.
type NestedLoopJoinNode struct {
	Outer       PlanNode
	Inner       PlanNode
	Predicate   JoinPredicate
	Collision   CollisionPolicy
	OuterPrefix string
	InnerPrefix string
}

func NewNestedLoopJoinNode(outer, inner PlanNode, predicate JoinPredicate) *NestedLoopJoinNode {
	return &NestedLoopJoinNode{
		Outer:       outer,
		Inner:       inner,
		Predicate:   predicate,
		Collision:   CollisionPrefix,
		OuterPrefix: DefaultOuterPrefix,
		InnerPrefix: DefaultInnerPrefix,
	}
}

// WithCollisionPolicy returns a copy of the node using policy.
func (n *NestedLoopJoinNode) WithCollisionPolicy(policy CollisionPolicy) *NestedLoopJoinNode {
	cp := *n
	cp.Collision = policy
	return &cp
}

func (n *NestedLoopJoinNode) Children() []PlanNode {
	// both slots are reported so Explain shows a missing input
	return []PlanNode{n.Outer, n.Inner}
}

func (n *NestedLoopJoinNode) String() string {
	pred := "<none>"
	if n.Predicate != nil {
		pred = n.Predicate.String()
	}
	return fmt.Sprintf("NestedLoopJoin: %s, collisions=%s", pred, n.Collision)
}
