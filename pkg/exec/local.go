package exec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"auggie-mcp/pkg/logx"
)

// waitDelay bounds how long Wait blocks on output pipes held open by
// grandchildren after the direct child has been killed.
const waitDelay = 2 * time.Second

// LocalExec executes commands directly on the local system.
type LocalExec struct {
	logger *logx.Logger
}

// NewLocalExec creates a new LocalExec executor.
func NewLocalExec() *LocalExec {
	return &LocalExec{logger: logx.NewLogger("exec")}
}

// Name returns the executor type name.
func (e *LocalExec) Name() ExecutorType {
	return ExecutorTypeLocal
}

// Run executes a command locally with the given options.
func (e *LocalExec) Run(ctx context.Context, cmd []string, opts *Opts) (Result, error) {
	if len(cmd) == 0 {
		return Result{}, fmt.Errorf("command cannot be empty")
	}
	if opts == nil {
		opts = &Opts{}
	}

	if _, err := exec.LookPath(cmd[0]); err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, cmd[0])
	}

	startTime := time.Now()

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	execCmd := exec.CommandContext(runCtx, cmd[0], cmd[1:]...)
	configureProcessGroup(execCmd)
	execCmd.WaitDelay = waitDelay

	if opts.WorkDir != "" {
		if _, err := os.Stat(opts.WorkDir); os.IsNotExist(err) {
			return Result{}, fmt.Errorf("working directory does not exist: %s", opts.WorkDir)
		}
		execCmd.Dir = opts.WorkDir
	}

	execCmd.Env = append(os.Environ(), opts.Env...)

	e.logger.Debug("running %s (timeout %s, dir %q)", cmd[0], opts.Timeout, opts.WorkDir)

	stdout, stderr, exitCode, err := e.executeCommand(execCmd)

	// The deadline of runCtx, not the parent's, is what distinguishes a
	// timeout from a caller cancellation.
	if ctxErr := runCtx.Err(); ctxErr != nil {
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("%s: %w", cmd[0], ctx.Err())
		}
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			e.logger.Warn("%s timed out after %s", cmd[0], opts.Timeout)
			return Result{}, fmt.Errorf("%s after %s: %w", cmd[0], opts.Timeout, ErrTimeout)
		}
	}
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", ErrNotFound, cmd[0])
		}
		return Result{}, fmt.Errorf("failed to run %s: %w", cmd[0], err)
	}

	// Non-zero exit codes are returned as a result; the caller decides.
	return Result{
		ExitCode:     exitCode,
		Stdout:       stdout,
		Stderr:       stderr,
		Duration:     time.Since(startTime),
		ExecutorUsed: e.Name(),
	}, nil
}

// executeCommand runs the command and captures output.
func (e *LocalExec) executeCommand(cmd *exec.Cmd) (stdout, stderr string, exitCode int, err error) {
	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()

	stdout = strings.ToValidUTF8(stdoutBuf.String(), "\uFFFD")
	stderr = strings.ToValidUTF8(stderrBuf.String(), "\uFFFD")

	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return stdout, stderr, exitError.ExitCode(), nil
		}
		return stdout, stderr, -1, err
	}

	return stdout, stderr, 0, nil
}
