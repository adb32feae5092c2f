package operations

import (
	"context"
	"errors"
	"time"

	"auggie-mcp/pkg/agent"
	"auggie-mcp/pkg/persistence"
)

func (s *Service) begin(tool, workspace, model string, dryRun bool, start time.Time) *persistence.Invocation {
	return &persistence.Invocation{
		ID:        persistence.NewInvocationID(),
		Tool:      tool,
		Workspace: workspace,
		Model:     model,
		DryRun:    dryRun,
		StartedAt: start,
	}
}

// finish journals and meters a completed call. Neither can fail the call.
func (s *Service) finish(ctx context.Context, inv *persistence.Invocation, start time.Time, err error) {
	inv.Duration = time.Since(start)

	label := persistence.OutcomeSuccess
	if err != nil {
		kind := Classify(err)
		label = string(kind)
		inv.Outcome = persistence.OutcomeError
		inv.ErrorKind = string(kind)
		inv.ErrorText = err.Error()

		var agentErr *agent.FailureError
		if errors.As(err, &agentErr) {
			code := agentErr.ExitCode
			inv.ExitCode = &code
		}
		s.logger.Warn("%s failed (%s) after %s: %v", inv.Tool, kind, inv.Duration, err)
	} else {
		code := 0
		inv.ExitCode = &code
		inv.Outcome = persistence.OutcomeSuccess
		s.logger.Info("%s completed in %s", inv.Tool, inv.Duration)
	}

	s.recorder.ObserveCall(inv.Tool, label, inv.Duration)
	if inv.Tool == ToolImplement && err == nil {
		s.recorder.ObserveFilesChanged(inv.Tool, inv.FilesChanged)
	}

	if s.journal == nil {
		return
	}
	if jerr := s.journal.Record(context.WithoutCancel(ctx), inv); jerr != nil {
		s.logger.Warn("failed to journal %s call %s: %v", inv.Tool, inv.ID, jerr)
	}
}
