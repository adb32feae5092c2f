package operations

import (
	"context"
	"errors"
	"fmt"

	"auggie-mcp/pkg/agent"
	"auggie-mcp/pkg/exec"
	"auggie-mcp/pkg/git"
	"auggie-mcp/pkg/preflight"
)

// Kind classifies a failed call for clients, metrics and the journal.
type Kind string

const (
	KindPreflight  Kind = "preflight"
	KindTimeout    Kind = "timeout"
	KindSubprocess Kind = "subprocess"
	KindAgent      Kind = "agent"
	KindInvalid    Kind = "invalid"
	KindInternal   Kind = "internal"
)

// InvalidArgumentError rejects a call before anything is spawned.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// Invalid builds an InvalidArgumentError.
func Invalid(field, format string, args ...any) error {
	return &InvalidArgumentError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Classify maps err onto the failure taxonomy. A preflight failure wins
// over whatever its probe returned.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	var (
		preflightErr *preflight.Error
		agentErr     *agent.FailureError
		gitErr       *git.SubprocessError
		invalidErr   *InvalidArgumentError
	)
	switch {
	case errors.As(err, &preflightErr):
		return KindPreflight
	case errors.As(err, &invalidErr):
		return KindInvalid
	case errors.Is(err, exec.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &agentErr):
		return KindAgent
	case errors.As(err, &gitErr):
		return KindSubprocess
	default:
		return KindInternal
	}
}

// Retryable reports whether repeating the same call may succeed without
// any change on the host.
func (k Kind) Retryable() bool {
	switch k {
	case KindTimeout, KindAgent:
		return true
	default:
		return false
	}
}
