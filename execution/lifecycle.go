package execution

import (
	"log/slog"

	"mit.edu/dsg/pulldb/common"
	"mit.edu/dsg/pulldb/logging"
)

type executorState int

const (
	stateUninitialized executorState = iota
	stateReady
	stateExhausted
	stateClosed
)

func (s executorState) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateReady:
		return "ready"
	case stateExhausted:
		return "exhausted"
	case stateClosed:
		return "closed"
	}
	return "unknown"
}

// lifecycle tracks the state machine shared by every executor and latches the first
// error. Executors embed it and get Error() from it.
type lifecycle struct {
	operator string
	state    executorState
	err      error
	log      *slog.Logger
}

func newLifecycle(operator string) lifecycle {
	return lifecycle{operator: operator, log: logging.Discard()}
}

// begin moves the executor to Ready, clearing any error from an earlier run.
func (l *lifecycle) begin(ctx *ExecutorContext) {
	l.log = logging.WithOperator(ctx.Logger(), l.operator)
	l.state = stateReady
	l.err = nil
	l.log.Debug("init")
}

// advance reports whether Next may produce a row. Calling Next on an executor that is not
// initialized, or that is closed, latches an ExecutorStateError.
func (l *lifecycle) advance() bool {
	switch l.state {
	case stateReady:
		return true
	case stateUninitialized, stateClosed:
		if l.err == nil {
			l.err = common.NewError(common.ExecutorStateError, "%s: Next called while %s", l.operator, l.state)
		}
	}
	return false
}

// exhaust marks the end of the output. It always returns false so Next can return it.
func (l *lifecycle) exhaust() bool {
	if l.state == stateReady {
		l.state = stateExhausted
		l.log.Debug("exhausted")
	}
	return false
}

// fail latches err (keeping an earlier one) and stops the executor.
func (l *lifecycle) fail(err error) bool {
	if l.err == nil {
		l.err = err
		l.log.Debug("failed", "error", err)
	}
	if l.state == stateReady {
		l.state = stateExhausted
	}
	return false
}

// finish moves the executor to Closed. It returns false when there is nothing left to
// release, either because the executor is already closed or because Close came before Init.
func (l *lifecycle) finish() (bool, error) {
	switch l.state {
	case stateUninitialized:
		return false, common.NewError(common.ExecutorStateError, "%s: Close called before Init", l.operator)
	case stateClosed:
		return false, nil
	}
	l.state = stateClosed
	l.log.Debug("close")
	return true, nil
}

func (l *lifecycle) Error() error {
	return l.err
}
