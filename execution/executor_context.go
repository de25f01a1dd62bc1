package execution

import (
	"log/slog"

	"mit.edu/dsg/pulldb/logging"
)

// ExecutorContext holds all the state and resources required for query execution.
// It is passed to every Executor during Init.
type ExecutorContext struct {
	logger *slog.Logger
}

// NewExecutorContext creates a context that traces executor lifecycles through logger.
// A nil logger discards everything.
func NewExecutorContext(logger *slog.Logger) *ExecutorContext {
	return &ExecutorContext{
		logger: logger,
	}
}

func (ctx *ExecutorContext) Logger() *slog.Logger {
	if ctx == nil || ctx.logger == nil {
		return logging.Discard()
	}
	return ctx.logger
}
