package common

import "fmt"

// Assert checks a condition and panics if it is false.
//
// Assertions guard invariants of the engine itself: conditions that can only fail if
// the engine's own logic is broken (an impossible switch case, a buffer cursor that
// ran past its end). They are never used for user input or I/O failures, which are
// reported as errors.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
