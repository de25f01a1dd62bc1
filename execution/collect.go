package execution

import (
	"mit.edu/dsg/pulldb/storage"
)

// Collect runs exec to completion and returns every tuple it produced. The executor is
// always closed, whether or not the run succeeds. A Close error is only reported when the
// run itself succeeded.
func Collect(exec Executor, ctx *ExecutorContext) ([]storage.Tuple, error) {
	var rows []storage.Tuple
	err := Drain(exec, ctx, func(t storage.Tuple) error {
		rows = append(rows, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Drain runs exec to completion, handing each tuple to fn as it is produced. It stops
// early if fn returns an error. The executor is always closed.
func Drain(exec Executor, ctx *ExecutorContext, fn func(storage.Tuple) error) error {
	if err := exec.Init(ctx); err != nil {
		_ = exec.Close()
		return err
	}
	var fnErr error
	for fnErr == nil && exec.Next() {
		fnErr = fn(exec.Current())
	}
	runErr := exec.Error()
	closeErr := exec.Close()
	switch {
	case fnErr != nil:
		return fnErr
	case runErr != nil:
		return runErr
	}
	return closeErr
}
