// Package preflight verifies that the agent CLI and its runtime are usable
// before a tool call spawns any task process.
package preflight

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"auggie-mcp/pkg/exec"
	"auggie-mcp/pkg/logx"
)

// Dependency names an external program a check verifies.
type Dependency string

// Dependencies probed before every first successful call.
const (
	DependencyRuntime        Dependency = "node"
	DependencyRuntimeVersion Dependency = "node-version"
	DependencyAgent          Dependency = "auggie"
)

// CheckResult represents the outcome of a single preflight check.
type CheckResult struct {
	Error      error
	Message    string
	Dependency Dependency
	Passed     bool
}

// Results contains all preflight check results.
type Results struct {
	Summary string
	Checks  []CheckResult
	Passed  bool
}

// FirstFailure returns the first failed check, or nil.
func (r *Results) FirstFailure() *CheckResult {
	for i := range r.Checks {
		if !r.Checks[i].Passed {
			return &r.Checks[i]
		}
	}
	return nil
}

// Options configures the probes.
type Options struct {
	RuntimeBinary   string
	AgentBinary     string
	MinRuntimeMajor int
	Timeout         time.Duration
}

// DefaultOptions returns the stock probe configuration.
func DefaultOptions() Options {
	return Options{
		RuntimeBinary:   "node",
		AgentBinary:     "auggie",
		MinRuntimeMajor: 18,
		Timeout:         5 * time.Second,
	}
}

// Error reports a missing or unusable dependency.
type Error struct {
	Err        error
	Dependency Dependency
	Message    string
	Guidance   string
	// Report lists every check, passed or not, with fix-up guidance.
	Report string
}

func (e *Error) Error() string {
	return fmt.Sprintf("preflight failed: %s: %s", e.Dependency, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Checker runs the probes lazily. A success is remembered for the life
// of the process; a failure is not, so installing a dependency later
// takes effect on the next call.
type Checker struct {
	executor exec.Executor
	opts     Options
	logger   *logx.Logger

	mu     sync.Mutex
	passed bool
}

// NewChecker creates a checker. Zero-valued options fall back to defaults.
func NewChecker(executor exec.Executor, opts Options) *Checker {
	defaults := DefaultOptions()
	if opts.RuntimeBinary == "" {
		opts.RuntimeBinary = defaults.RuntimeBinary
	}
	if opts.AgentBinary == "" {
		opts.AgentBinary = defaults.AgentBinary
	}
	if opts.MinRuntimeMajor <= 0 {
		opts.MinRuntimeMajor = defaults.MinRuntimeMajor
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	return &Checker{
		executor: executor,
		opts:     opts,
		logger:   logx.NewLogger("preflight"),
	}
}

// Ensure returns nil once all dependencies have been verified, running the
// probes if no earlier call succeeded.
func (c *Checker) Ensure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.passed {
		return nil
	}

	results := c.Run(ctx)
	if failed := results.FirstFailure(); failed != nil {
		report := FormatResults(results)
		c.logger.Error("%s", strings.TrimRight(report, "\n"))
		return &Error{
			Dependency: failed.Dependency,
			Message:    failed.Message,
			Guidance:   getGuidance(failed.Dependency),
			Report:     report,
			Err:        failed.Error,
		}
	}

	c.logger.Info("%s", results.Summary)
	c.passed = true
	return nil
}

// Run executes every check without consulting or updating the cache.
func (c *Checker) Run(ctx context.Context) *Results {
	results := &Results{Passed: true}

	runtime, version := c.checkRuntime(ctx)
	results.Checks = append(results.Checks, runtime)
	if runtime.Passed {
		results.Checks = append(results.Checks, c.checkRuntimeVersion(version))
	}
	results.Checks = append(results.Checks, c.checkAgent(ctx))

	var failed []string
	for i := range results.Checks {
		if !results.Checks[i].Passed {
			results.Passed = false
			failed = append(failed, fmt.Sprintf("%s: %s", results.Checks[i].Dependency, results.Checks[i].Message))
		}
	}

	if results.Passed {
		results.Summary = fmt.Sprintf("All %d preflight checks passed", len(results.Checks))
	} else {
		results.Summary = fmt.Sprintf("%d of %d preflight checks failed: %s",
			len(failed), len(results.Checks), strings.Join(failed, "; "))
	}
	return results
}
