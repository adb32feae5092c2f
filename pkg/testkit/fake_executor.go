// Package testkit provides test doubles and fixtures shared by package tests.
package testkit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"auggie-mcp/pkg/exec"
)

// Handler scripts the outcome of one matched command.
type Handler func(ctx context.Context, cmd []string, opts *exec.Opts) (exec.Result, error)

// Call records one invocation seen by FakeExecutor.
type Call struct {
	Cmd  []string
	Opts exec.Opts
}

// Joined returns the argv joined by single spaces.
func (c Call) Joined() string {
	return strings.Join(c.Cmd, " ")
}

// FakeExecutor is a scripted exec.Executor. Handlers are keyed by an argv
// prefix ("git status", "auggie"); the longest matching prefix wins.
// Commands with no handler fail with exec.ErrNotFound.
type FakeExecutor struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
}

// NewFakeExecutor creates an executor with no scripted commands.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{handlers: make(map[string]Handler)}
}

// On registers h for commands starting with prefix.
func (f *FakeExecutor) On(prefix string, h Handler) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[prefix] = h
	return f
}

// OnResult registers a fixed result for commands starting with prefix.
func (f *FakeExecutor) OnResult(prefix string, result exec.Result) *FakeExecutor {
	return f.On(prefix, func(context.Context, []string, *exec.Opts) (exec.Result, error) {
		return result, nil
	})
}

// OnStdout registers a successful run printing stdout.
func (f *FakeExecutor) OnStdout(prefix, stdout string) *FakeExecutor {
	return f.OnResult(prefix, exec.Result{Stdout: stdout})
}

// OnExit registers a run exiting with code and writing stderr.
func (f *FakeExecutor) OnExit(prefix string, code int, stderr string) *FakeExecutor {
	return f.OnResult(prefix, exec.Result{ExitCode: code, Stderr: stderr})
}

// OnError registers a run that fails with err before producing a result.
func (f *FakeExecutor) OnError(prefix string, err error) *FakeExecutor {
	return f.On(prefix, func(context.Context, []string, *exec.Opts) (exec.Result, error) {
		return exec.Result{}, err
	})
}

// Run implements exec.Executor.
func (f *FakeExecutor) Run(ctx context.Context, cmd []string, opts *exec.Opts) (exec.Result, error) {
	var recorded exec.Opts
	if opts != nil {
		recorded = *opts
		recorded.Env = append([]string(nil), opts.Env...)
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Cmd: append([]string(nil), cmd...), Opts: recorded})
	handler := f.match(cmd)
	f.mu.Unlock()

	if handler == nil {
		if len(cmd) == 0 {
			return exec.Result{}, fmt.Errorf("command cannot be empty")
		}
		return exec.Result{}, fmt.Errorf("%w: %s", exec.ErrNotFound, cmd[0])
	}
	result, err := handler(ctx, cmd, opts)
	if err == nil {
		result.ExecutorUsed = f.Name()
	}
	return result, err
}

// Name implements exec.Executor.
func (f *FakeExecutor) Name() exec.ExecutorType {
	return "fake"
}

// Calls returns a copy of every recorded invocation in order.
func (f *FakeExecutor) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded invocations of binary.
func (f *FakeExecutor) CallsTo(binary string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if len(c.Cmd) > 0 && c.Cmd[0] == binary {
			out = append(out, c)
		}
	}
	return out
}

// Ran reports whether any recorded invocation starts with prefix.
func (f *FakeExecutor) Ran(prefix string) bool {
	want := strings.Fields(prefix)
	for _, c := range f.Calls() {
		if hasPrefix(c.Cmd, want) {
			return true
		}
	}
	return false
}

func (f *FakeExecutor) match(cmd []string) Handler {
	var (
		best    Handler
		bestLen = -1
	)
	for prefix, h := range f.handlers {
		words := strings.Fields(prefix)
		if hasPrefix(cmd, words) && len(words) > bestLen {
			best, bestLen = h, len(words)
		}
	}
	return best
}

func hasPrefix(cmd, words []string) bool {
	if len(words) > len(cmd) {
		return false
	}
	for i, w := range words {
		if cmd[i] != w {
			return false
		}
	}
	return true
}
