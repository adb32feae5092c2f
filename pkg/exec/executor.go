// Package exec runs external programs with captured output, a bounded
// lifetime, and process-group cleanup on timeout.
package exec

import (
	"context"
	"errors"
	"time"
)

// ExecutorType represents the type of executor.
type ExecutorType string

const (
	ExecutorTypeLocal ExecutorType = "local"
)

var (
	// ErrTimeout is returned when a command outlives Opts.Timeout. The
	// process group has been killed and no Result is produced.
	ErrTimeout = errors.New("command timed out")

	// ErrNotFound is returned when the executable cannot be located.
	ErrNotFound = errors.New("executable not found")
)

// Executor defines the interface for executing commands.
type Executor interface {
	// Run executes a command with the given options and returns the result.
	// A non-zero exit status is reported through Result.ExitCode, not err.
	Run(ctx context.Context, cmd []string, opts *Opts) (Result, error)

	// Name returns the executor type name for logging/debugging.
	Name() ExecutorType
}

// Opts contains options for command execution.
type Opts struct {
	// Env is appended to the inherited environment (KEY=VALUE format).
	// Later entries win.
	Env []string

	// Timeout is the maximum duration for command execution. Zero means
	// the command is bounded only by ctx.
	Timeout time.Duration

	// WorkDir is the working directory for the command.
	WorkDir string
}

// Result contains the result of command execution.
type Result struct {
	// Stdout contains the standard output.
	Stdout string

	// Stderr contains the standard error output.
	Stderr string

	// ExecutorUsed indicates which executor was used (for debugging)
	ExecutorUsed ExecutorType

	// Duration is how long the command took to execute.
	Duration time.Duration

	// ExitCode is the exit code of the command.
	ExitCode int
}

// Succeeded reports whether the command exited with status zero.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}
