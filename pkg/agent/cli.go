package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	"auggie-mcp/pkg/exec"
	"auggie-mcp/pkg/logx"
)

// DefaultBinary is the agent executable looked up on PATH.
const DefaultBinary = "auggie"

// FailureError reports an agent run that exited non-zero.
type FailureError struct {
	Message  string
	ExitCode int
}

func (e *FailureError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Auggie failed with exit code %d", e.ExitCode)
	}
	return "Auggie failed: " + e.Message
}

// CLI runs the agent through an executor.
type CLI struct {
	executor exec.Executor
	binary   string
	logger   *logx.Logger
}

// NewCLI creates an agent runner. An empty binary selects DefaultBinary.
func NewCLI(executor exec.Executor, binary string) *CLI {
	if binary == "" {
		binary = DefaultBinary
	}
	return &CLI{
		executor: executor,
		binary:   binary,
		logger:   logx.NewLogger("agent"),
	}
}

// Binary returns the configured agent executable.
func (c *CLI) Binary() string {
	return c.binary
}

// Invoke runs the agent once. A non-zero exit returns the result together
// with a *FailureError; a timeout or spawn failure returns no result.
func (c *CLI) Invoke(ctx context.Context, req Request) (exec.Result, error) {
	argv := BuildCommand(c.binary, req)
	c.logger.Notify(ctx, logx.LevelInfo, "Running: %s", shellquote.Join(argv...))

	result, err := c.executor.Run(ctx, argv, &exec.Opts{
		WorkDir: req.WorkspaceRoot,
		Timeout: req.Timeout,
		Env:     req.Env,
	})
	if err != nil {
		return exec.Result{}, fmt.Errorf("agent run failed: %w", err)
	}

	if !result.Succeeded() {
		message := strings.TrimSpace(result.Stderr)
		if message == "" {
			message = strings.TrimSpace(result.Stdout)
		}
		c.logger.Warn("agent exited %d after %s", result.ExitCode, result.Duration)
		return result, &FailureError{ExitCode: result.ExitCode, Message: message}
	}

	c.logger.Debug("agent finished in %s", result.Duration)
	return result, nil
}
