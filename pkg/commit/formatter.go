// Package commit records an agent's changes as a single commit.
package commit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auggie-mcp/pkg/git"
	"auggie-mcp/pkg/logx"
)

const (
	defaultPrefix       = "Implement: "
	defaultSubjectRunes = 72
)

// Outcome describes a successful commit.
type Outcome struct {
	SHA       string
	Committed bool
}

// Formatter stages, commits, and resolves the new head.
type Formatter struct {
	git              git.Runner
	unstageOnFailure bool
	logger           *logx.Logger
}

// NewFormatter creates a formatter. When unstageOnFailure is set, a failed
// commit is followed by a best-effort reset of the index.
func NewFormatter(runner git.Runner, unstageOnFailure bool) *Formatter {
	return &Formatter{
		git:              runner,
		unstageOnFailure: unstageOnFailure,
		logger:           logx.NewLogger("commit"),
	}
}

// DefaultMessage derives a commit message from the instruction.
func DefaultMessage(instruction string) string {
	runes := []rune(instruction)
	if len(runes) > defaultSubjectRunes {
		runes = runes[:defaultSubjectRunes]
	}
	return defaultPrefix + string(runes)
}

// Commit stages everything in dir and commits it. message wins over the
// derived default when non-empty.
func (f *Formatter) Commit(ctx context.Context, dir, message, instruction string) (Outcome, error) {
	if message == "" {
		message = DefaultMessage(instruction)
	}

	if err := git.AddAll(ctx, f.git, dir); err != nil {
		return Outcome{}, fmt.Errorf("failed to stage changes: %w", err)
	}

	if err := git.Commit(ctx, f.git, dir, message); err != nil {
		commitErr := fmt.Errorf("failed to commit: %w", err)
		if !f.unstageOnFailure {
			return Outcome{}, commitErr
		}
		// The caller's context may already be done; unstaging is bounded
		// by the runner's own timeout instead.
		if resetErr := git.ResetIndex(context.WithoutCancel(ctx), f.git, dir); resetErr != nil {
			f.logger.Warn("failed to unstage after commit failure in %s: %v", dir, resetErr)
			return Outcome{}, errors.Join(commitErr, fmt.Errorf("failed to unstage: %w", resetErr))
		}
		f.logger.Info("unstaged changes in %s after commit failure", dir)
		return Outcome{}, commitErr
	}

	sha, err := git.Head(ctx, f.git, dir)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to resolve commit: %w", err)
	}

	f.logger.Info("committed %s in %s: %s", shortSHA(sha), dir, firstLine(message))
	return Outcome{Committed: true, SHA: sha}, nil
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
