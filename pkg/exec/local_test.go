package exec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLocalExec_Name(t *testing.T) {
	exec := NewLocalExec()
	if exec.Name() != ExecutorTypeLocal {
		t.Errorf("Expected name 'local', got %s", exec.Name())
	}
}

func TestLocalExec_Run_Success(t *testing.T) {
	exec := NewLocalExec()
	ctx := context.Background()

	result, err := exec.Run(ctx, []string{"echo", "hello world"}, &Opts{Timeout: 5 * time.Minute})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !result.Succeeded() {
		t.Errorf("Expected exit code 0, got %d", result.ExitCode)
	}

	if strings.TrimSpace(result.Stdout) != "hello world" {
		t.Errorf("Expected stdout 'hello world', got %s", result.Stdout)
	}

	if result.ExecutorUsed != ExecutorTypeLocal {
		t.Errorf("Expected executor 'local', got %s", result.ExecutorUsed)
	}

	if result.Duration <= 0 {
		t.Error("Expected positive duration")
	}
}

func TestLocalExec_Run_NonZeroExitIsNotAnError(t *testing.T) {
	exec := NewLocalExec()

	result, err := exec.Run(context.Background(), []string{"sh", "-c", "echo oops >&2; exit 3"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", result.ExitCode)
	}
	if result.Succeeded() {
		t.Error("Expected Succeeded() to be false")
	}
	if strings.TrimSpace(result.Stderr) != "oops" {
		t.Errorf("Expected stderr 'oops', got %q", result.Stderr)
	}
}

func TestLocalExec_Run_EmptyCommand(t *testing.T) {
	exec := NewLocalExec()

	_, err := exec.Run(context.Background(), []string{}, &Opts{})
	if err == nil {
		t.Error("Expected error for empty command")
	}
}

func TestLocalExec_Run_MissingBinary(t *testing.T) {
	exec := NewLocalExec()

	_, err := exec.Run(context.Background(), []string{"definitely-not-a-real-binary-xyz"}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestLocalExec_Run_WorkDir(t *testing.T) {
	exec := NewLocalExec()
	dir := t.TempDir()

	result, err := exec.Run(context.Background(), []string{"pwd"}, &Opts{WorkDir: dir})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(result.Stdout))
	if got != want {
		t.Errorf("Expected working directory %s, got %s", want, got)
	}
}

func TestLocalExec_Run_MissingWorkDir(t *testing.T) {
	exec := NewLocalExec()

	_, err := exec.Run(context.Background(), []string{"pwd"}, &Opts{WorkDir: "/nonexistent/dir/for/test"})
	if err == nil {
		t.Error("Expected error for missing working directory")
	}
}

func TestLocalExec_Run_EnvironmentMerge(t *testing.T) {
	exec := NewLocalExec()
	t.Setenv("AUGGIE_EXEC_INHERITED", "from-parent")

	result, err := exec.Run(context.Background(),
		[]string{"sh", "-c", "echo $AUGGIE_EXEC_INHERITED:$AUGGIE_EXEC_CHILD"},
		&Opts{Env: []string{"AUGGIE_EXEC_CHILD=from-opts"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if strings.TrimSpace(result.Stdout) != "from-parent:from-opts" {
		t.Errorf("Expected merged environment, got %q", result.Stdout)
	}

	if _, ok := os.LookupEnv("AUGGIE_EXEC_CHILD"); ok {
		t.Error("Per-child env must not leak into the parent environment")
	}
}

func TestLocalExec_Run_InvalidUTF8Replaced(t *testing.T) {
	exec := NewLocalExec()

	result, err := exec.Run(context.Background(), []string{"printf", `a\377b`}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Stdout != "a\uFFFDb" {
		t.Errorf("Expected replacement character, got %q", result.Stdout)
	}
}

func TestLocalExec_Run_ParentCancellation(t *testing.T) {
	exec := NewLocalExec()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	_, err := exec.Run(ctx, []string{"sleep", "5"}, &Opts{Timeout: 10 * time.Second})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("Cancellation must not be reported as a timeout")
	}
}
