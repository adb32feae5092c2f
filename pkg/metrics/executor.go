package metrics

import (
	"context"
	"errors"
	"path/filepath"

	"auggie-mcp/pkg/exec"
)

// Subprocess result labels.
const (
	ResultOK       = "ok"
	ResultNonZero  = "nonzero"
	ResultTimeout  = "timeout"
	ResultNotFound = "not_found"
	ResultCanceled = "canceled"
	ResultError    = "error"
)

// InstrumentedExecutor counts every subprocess run by the wrapped executor.
type InstrumentedExecutor struct {
	next     exec.Executor
	recorder Recorder
}

// InstrumentExecutor wraps next so each Run is recorded on recorder.
func InstrumentExecutor(next exec.Executor, recorder Recorder) *InstrumentedExecutor {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &InstrumentedExecutor{next: next, recorder: recorder}
}

// Run implements exec.Executor.
func (e *InstrumentedExecutor) Run(ctx context.Context, cmd []string, opts *exec.Opts) (exec.Result, error) {
	result, err := e.next.Run(ctx, cmd, opts)

	binary := ""
	if len(cmd) > 0 {
		binary = filepath.Base(cmd[0])
	}
	e.recorder.ObserveSubprocess(binary, classify(result, err))
	return result, err
}

// Name implements exec.Executor.
func (e *InstrumentedExecutor) Name() exec.ExecutorType {
	return e.next.Name()
}

func classify(result exec.Result, err error) string {
	switch {
	case err == nil && result.Succeeded():
		return ResultOK
	case err == nil:
		return ResultNonZero
	case errors.Is(err, exec.ErrTimeout):
		return ResultTimeout
	case errors.Is(err, exec.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, context.Canceled):
		return ResultCanceled
	default:
		return ResultError
	}
}
