package operations

import (
	"context"
	"strings"
	"time"

	"auggie-mcp/pkg/agent"
)

// AskParams are the ask_question arguments. A zero Timeout selects the
// configured default.
type AskParams struct {
	Question      string
	WorkspaceRoot string
	Model         string
	RulesPath     string
	Timeout       time.Duration
}

// AskOutcome is the ask_question result.
type AskOutcome struct {
	Answer string `json:"answer"`
	Usage  Usage  `json:"usage"`
}

// Ask answers a question about the workspace in quiet mode. Any non-zero
// agent exit fails the call; no partial answer is returned.
func (s *Service) Ask(ctx context.Context, p AskParams) (out AskOutcome, err error) {
	start := time.Now()
	inv := s.begin(ToolAsk, p.WorkspaceRoot, p.Model, false, start)
	defer func() { s.finish(ctx, inv, start, err) }()

	if strings.TrimSpace(p.Question) == "" {
		return AskOutcome{}, Invalid("question", "must not be empty")
	}

	if err := s.ensureDependencies(ctx); err != nil {
		return AskOutcome{}, err
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = s.cfg.AskTimeout()
	}

	result, err := s.agent.Invoke(ctx, agent.Request{
		Instruction:   p.Question,
		WorkspaceRoot: p.WorkspaceRoot,
		Model:         p.Model,
		RulesPath:     p.RulesPath,
		Quiet:         true,
		Timeout:       timeout,
		Env:           s.agentEnv,
	})
	if err != nil {
		return AskOutcome{}, err
	}

	answer := strings.TrimSpace(result.Stdout)
	out = AskOutcome{Answer: answer, Usage: s.usage(start, answer)}
	inv.OutputTokens = out.Usage.OutputTokens
	return out, nil
}
