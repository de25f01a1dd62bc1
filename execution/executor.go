package execution

import (
	"mit.edu/dsg/pulldb/planner"
	"mit.edu/dsg/pulldb/storage"
)

// Executor is the interface that all physical execution nodes must implement.
//
// Executors form a tree. A parent pulls rows from its children one at a time by calling
// Next, and reads the row through Current. Executors are single-threaded: one executor
// tree belongs to one query and must not be shared between goroutines.
type Executor interface {
	PlanNode() planner.PlanNode

	// Init initializes the executor and, recursively, its children. Calling Init again
	// restarts the executor from the beginning.
	Init(ctx *ExecutorContext) error

	// Next advances to the next tuple. It returns false when the executor is exhausted or
	// has failed; Error() distinguishes the two. Exhaustion is sticky until the next Init.
	Next() bool

	// Current returns the tuple most recently read by Next().
	Current() storage.Tuple

	// Error returns the first error encountered by the executor, if any.
	Error() error

	// Close releases any resources held by the executor and closes its children.
	Close() error
}

func initChildren(ctx *ExecutorContext, children ...Executor) error {
	var first error
	for _, child := range children {
		if child == nil {
			continue
		}
		// every child is initialized so that a later Close is legal on all of them
		if err := child.Init(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func closeChildren(children ...Executor) error {
	var first error
	for _, child := range children {
		if child == nil {
			continue
		}
		if err := child.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
