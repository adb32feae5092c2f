package operations

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"auggie-mcp/pkg/agent"
	"auggie-mcp/pkg/git"
	"auggie-mcp/pkg/logx"
	"auggie-mcp/pkg/sandbox"
)

// ImplementParams are the implement arguments. A zero Timeout selects the
// configured default; callers decide the DryRun default.
type ImplementParams struct {
	Prompt        string
	WorkspaceRoot string
	Branch        string
	CommitMessage string
	Model         string
	RulesPath     string
	Scope         []string
	Timeout       time.Duration
	DryRun        bool
}

// ImplementOutcome is the implement result. CommitSHA is non-nil exactly
// when Committed is true.
type ImplementOutcome struct {
	Summary      string   `json:"summary"`
	FilesChanged []string `json:"files_changed"`
	Diff         string   `json:"diff"`
	Committed    bool     `json:"committed"`
	CommitSHA    *string  `json:"commit_sha"`
	Usage        Usage    `json:"usage"`
}

// Instruction renders the agent prompt, appending a scope hint line when
// scope is non-empty.
func Instruction(prompt string, scope []string) string {
	instruction := strings.TrimSpace(prompt)
	if len(scope) > 0 {
		instruction += "\nScope: limit edits to " + strings.Join(scope, ", ")
	}
	return instruction
}

// Implement runs the agent against a workspace and reports, and unless
// DryRun commits, whatever it changed. Steps run strictly in order:
// branch, sandbox, agent, status, diff, commit.
func (s *Service) Implement(ctx context.Context, p ImplementParams) (out ImplementOutcome, err error) {
	start := time.Now()
	inv := s.begin(ToolImplement, p.WorkspaceRoot, p.Model, p.DryRun, start)
	defer func() { s.finish(ctx, inv, start, err) }()

	if strings.TrimSpace(p.Prompt) == "" {
		return ImplementOutcome{}, Invalid("prompt", "must not be empty")
	}

	if err := s.ensureDependencies(ctx); err != nil {
		return ImplementOutcome{}, err
	}

	ws := p.WorkspaceRoot
	if ws == "" {
		if ws, err = s.getwd(); err != nil {
			return ImplementOutcome{}, fmt.Errorf("failed to resolve workspace: %w", err)
		}
	}
	inv.Workspace = ws

	if p.Branch != "" {
		if err := git.CheckoutBranch(ctx, s.git, ws, p.Branch); err != nil {
			return ImplementOutcome{}, fmt.Errorf("failed to switch to branch %q: %w", p.Branch, err)
		}
	}

	env := append([]string(nil), s.agentEnv...)
	var ignore []string
	if p.DryRun {
		dir := s.sandboxDir(ws)
		path, err := sandbox.Build(dir)
		if err != nil {
			return ImplementOutcome{}, err
		}
		env = append(env, sandbox.EnvWithKey(s.cfg.CacheDirEnv, dir)...)
		if rel, relErr := filepath.Rel(ws, dir); relErr == nil && !strings.HasPrefix(rel, "..") {
			ignore = append(ignore, filepath.ToSlash(rel))
		}
		s.logger.Notify(ctx, logx.LevelDebug, "Dry run: agent mutations denied by %s", path)
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = s.cfg.ImplementTimeout()
	}

	result, err := s.agent.Invoke(ctx, agent.Request{
		Instruction:   Instruction(p.Prompt, p.Scope),
		WorkspaceRoot: ws,
		Model:         p.Model,
		RulesPath:     p.RulesPath,
		Quiet:         true,
		Timeout:       timeout,
		Env:           env,
	})
	if err != nil {
		return ImplementOutcome{}, err
	}

	set, err := s.collector.Collect(ctx, ws, ignore...)
	if err != nil {
		return ImplementOutcome{}, err
	}
	inv.FilesChanged = len(set.Paths)

	summary := strings.TrimSpace(result.Stdout)
	out = ImplementOutcome{
		Summary:      summary,
		FilesChanged: set.Paths,
		Diff:         set.Diff,
	}
	if out.FilesChanged == nil {
		out.FilesChanged = []string{}
	}

	if !p.DryRun && !set.Empty() {
		committed, err := s.committer.Commit(ctx, ws, p.CommitMessage, strings.TrimSpace(p.Prompt))
		if err != nil {
			return ImplementOutcome{}, err
		}
		sha := committed.SHA
		out.Committed = true
		out.CommitSHA = &sha
		inv.Committed = true
		inv.CommitSHA = sha
	}

	out.Usage = s.usage(start, summary)
	inv.OutputTokens = out.Usage.OutputTokens
	return out, nil
}
