package git

import (
	"fmt"
	"strings"

	"auggie-mcp/pkg/exec"
)

// SubprocessError reports a git subcommand that exited non-zero.
type SubprocessError struct {
	Subcommand string
	Args       []string
	Output     string // trimmed stderr, or trimmed stdout when stderr is empty
	ExitCode   int
}

func (e *SubprocessError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("git %s failed (exit %d)", e.Subcommand, e.ExitCode)
	}
	return fmt.Sprintf("git %s failed (exit %d): %s", e.Subcommand, e.ExitCode, e.Output)
}

func newSubprocessError(args []string, result exec.Result) *SubprocessError {
	output := strings.TrimSpace(result.Stderr)
	if output == "" {
		output = strings.TrimSpace(result.Stdout)
	}
	return &SubprocessError{
		Subcommand: subcommand(args),
		Args:       append([]string(nil), args...),
		ExitCode:   result.ExitCode,
		Output:     output,
	}
}
