package testkit

import (
	"context"
	"errors"
	"testing"

	"auggie-mcp/pkg/exec"
)

func TestFakeExecutorLongestPrefixWins(t *testing.T) {
	f := NewFakeExecutor().
		OnStdout("git", "generic").
		OnStdout("git status", "status")

	res, err := f.Run(context.Background(), []string{"git", "status", "--porcelain"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Stdout != "status" {
		t.Errorf("Expected 'status', got %q", res.Stdout)
	}

	res, err = f.Run(context.Background(), []string{"git", "diff"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Stdout != "generic" {
		t.Errorf("Expected 'generic', got %q", res.Stdout)
	}
}

func TestFakeExecutorUnscriptedIsNotFound(t *testing.T) {
	f := NewFakeExecutor()

	_, err := f.Run(context.Background(), []string{"node", "-v"}, nil)
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if len(f.CallsTo("node")) != 1 {
		t.Errorf("Expected the call to be recorded, got %v", f.Calls())
	}
}

func TestFakeExecutorRecordsOpts(t *testing.T) {
	f := NewFakeExecutor().OnExit("auggie", 2, "bad")

	opts := &exec.Opts{Env: []string{"A=1"}, WorkDir: "/ws"}
	res, err := f.Run(context.Background(), []string{"auggie", "--quiet", "hi"}, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.ExitCode != 2 || res.Stderr != "bad" {
		t.Errorf("Unexpected result %+v", res)
	}

	opts.Env[0] = "A=mutated"
	calls := f.Calls()
	AssertArgv(t, calls[0], "auggie", "--quiet", "hi")
	AssertEnvContains(t, calls[0], "A=1")
	AssertEnvLacksKey(t, calls[0], "B")
	AssertNotRan(t, f, "git")
}

func TestInitRepo(t *testing.T) {
	dir := InitRepo(t)

	if out := Git(t, dir, "status", "--porcelain"); out != "" {
		t.Errorf("Expected clean tree, got %q", out)
	}
}
