// Package git runs version-control subcommands against a working tree.
package git

import (
	"context"
	"fmt"
	"strings"
	"time"

	"auggie-mcp/pkg/exec"
	"auggie-mcp/pkg/logx"
)

// DefaultTimeout bounds a single git subcommand.
const DefaultTimeout = 60 * time.Second

// Runner provides an interface for running Git commands with dependency injection support.
type Runner interface {
	// Run executes `git <args>` in dir and returns raw stdout on success.
	// A non-zero exit yields *SubprocessError.
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// CLI implements Runner using the system git binary.
type CLI struct {
	executor exec.Executor
	binary   string
	timeout  time.Duration
	logger   *logx.Logger
}

// Option configures a CLI runner.
type Option func(*CLI)

// WithBinary overrides the git executable name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithTimeout overrides the per-subcommand timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewCLI creates a git runner backed by executor.
func NewCLI(executor exec.Executor, opts ...Option) *CLI {
	c := &CLI{
		executor: executor,
		binary:   "git",
		timeout:  DefaultTimeout,
		logger:   logx.NewLogger("git"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes a Git command in dir.
func (c *CLI) Run(ctx context.Context, dir string, args ...string) (string, error) {
	logDir := dir
	if logDir == "" {
		logDir = "."
	}
	c.logger.Debug("Executing Git command: cd %s && git %s", logDir, strings.Join(args, " "))

	cmd := append([]string{c.binary}, args...)
	result, err := c.executor.Run(ctx, cmd, &exec.Opts{WorkDir: dir, Timeout: c.timeout})
	if err != nil {
		return "", fmt.Errorf("git %s: %w", subcommand(args), err)
	}

	if !result.Succeeded() {
		subErr := newSubprocessError(args, result)
		c.logger.Debug("Git command failed: %v", subErr)
		return "", subErr
	}

	return result.Stdout, nil
}

// Status returns `git status --porcelain` output.
func Status(ctx context.Context, r Runner, dir string) (string, error) {
	return r.Run(ctx, dir, "status", "--porcelain")
}

// Diff returns the unstaged diff of the working tree.
func Diff(ctx context.Context, r Runner, dir string) (string, error) {
	return r.Run(ctx, dir, "diff")
}

// CheckoutBranch creates or resets branch and switches to it.
func CheckoutBranch(ctx context.Context, r Runner, dir, branch string) error {
	_, err := r.Run(ctx, dir, "checkout", "-B", branch)
	return err
}

// AddAll stages every change in the working tree.
func AddAll(ctx context.Context, r Runner, dir string) error {
	_, err := r.Run(ctx, dir, "add", "-A")
	return err
}

// Commit records the staged changes with message.
func Commit(ctx context.Context, r Runner, dir, message string) error {
	_, err := r.Run(ctx, dir, "commit", "-m", message)
	return err
}

// Head resolves the current commit id.
func Head(ctx context.Context, r Runner, dir string) (string, error) {
	out, err := r.Run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ResetIndex unstages everything while leaving the working tree intact.
func ResetIndex(ctx context.Context, r Runner, dir string) error {
	_, err := r.Run(ctx, dir, "reset", "-q")
	return err
}

func subcommand(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
