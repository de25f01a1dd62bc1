package common

import (
	"errors"
	"fmt"
)

type GoDBErrorCode int

const (
	// DuplicateObjectError indicates an attempt to register a table that already
	// exists in the catalog.
	DuplicateObjectError GoDBErrorCode = iota
	// NoSuchObjectError indicates a request for a table that does not exist in
	// the catalog.
	NoSuchObjectError
	// ConfigurationError indicates an operator that cannot run as configured: a
	// missing child, predicate or target column.
	ConfigurationError
	// SourceError is returned when a row source cannot be opened or one of its
	// records cannot be parsed. A malformed source aborts the whole scan.
	SourceError
	// DataShapeError indicates a row that does not have the shape an operator
	// expects, such as a missing column or a non-numeric value being averaged.
	DataShapeError
	// ExecutorStateError indicates a call that is not legal in the executor's
	// current lifecycle state, such as Next before Init.
	ExecutorStateError
	// ColumnCollisionError is returned by a join configured to reject rows whose
	// inputs share a column name.
	ColumnCollisionError
)

func (ec GoDBErrorCode) String() string {
	switch ec {
	case DuplicateObjectError:
		return "DuplicateObjectError"
	case NoSuchObjectError:
		return "NoSuchObjectError"
	case ConfigurationError:
		return "ConfigurationError"
	case SourceError:
		return "SourceError"
	case DataShapeError:
		return "DataShapeError"
	case ExecutorStateError:
		return "ExecutorStateError"
	case ColumnCollisionError:
		return "ColumnCollisionError"
	}
	return "unknown"
}

// GoDBError is the custom error type for the engine.
// It wraps a specific GoDBErrorCode with a detailed message and, optionally, the
// lower-level error that caused it.
type GoDBError struct {
	Code      GoDBErrorCode
	ErrString string
	Cause     error
}

func (e GoDBError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("err: %s; msg: %s: %v", e.Code.String(), e.ErrString, e.Cause)
	}
	return fmt.Sprintf("err: %s; msg: %s", e.Code.String(), e.ErrString)
}

func (e GoDBError) Unwrap() error {
	return e.Cause
}

// NewError builds a GoDBError with a formatted message.
func NewError(code GoDBErrorCode, format string, args ...any) GoDBError {
	return GoDBError{Code: code, ErrString: fmt.Sprintf(format, args...)}
}

// WrapError builds a GoDBError that records cause as the underlying error.
func WrapError(code GoDBErrorCode, cause error, format string, args ...any) GoDBError {
	return GoDBError{Code: code, ErrString: fmt.Sprintf(format, args...), Cause: cause}
}

// IsErrorCode reports whether any GoDBError in err's chain carries code.
func IsErrorCode(err error, code GoDBErrorCode) bool {
	var dbErr GoDBError
	if errors.As(err, &dbErr) {
		return dbErr.Code == code
	}
	return false
}
