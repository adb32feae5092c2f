// Package operations composes the agent, git and sandbox components into
// the two tool calls: Ask and Implement.
package operations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"auggie-mcp/pkg/agent"
	"auggie-mcp/pkg/changes"
	"auggie-mcp/pkg/commit"
	"auggie-mcp/pkg/config"
	"auggie-mcp/pkg/exec"
	"auggie-mcp/pkg/git"
	"auggie-mcp/pkg/logx"
	"auggie-mcp/pkg/metrics"
	"auggie-mcp/pkg/persistence"
	"auggie-mcp/pkg/preflight"
	"auggie-mcp/pkg/utils"
)

// Tool names as advertised to clients.
const (
	ToolAsk       = "ask_question"
	ToolImplement = "implement"
)

// Preflighter verifies dependencies before a call spawns a task process.
type Preflighter interface {
	Ensure(ctx context.Context) error
}

// Journal stores one record per call.
type Journal interface {
	Record(ctx context.Context, inv *persistence.Invocation) error
}

// Service runs tool calls. It holds no per-call state; concurrent calls
// share only the preflight cache.
type Service struct {
	cfg       *config.Config
	preflight Preflighter
	agent     *agent.CLI
	git       git.Runner
	collector *changes.Collector
	committer *commit.Formatter
	journal   Journal
	recorder  metrics.Recorder
	tokens    *utils.TokenCounter
	agentEnv  []string
	getwd     func() (string, error)
	logger    *logx.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithJournal records every call in j.
func WithJournal(j Journal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

// WithRecorder meters every call on r.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithPreflight replaces the dependency checker.
func WithPreflight(p Preflighter) Option {
	return func(s *Service) {
		s.preflight = p
	}
}

// WithAgentEnv adds KEY=VALUE entries to every agent run, e.g. decrypted
// secrets.
func WithAgentEnv(env []string) Option {
	return func(s *Service) {
		s.agentEnv = append([]string(nil), env...)
	}
}

// WithWorkingDir overrides how the default workspace is resolved.
func WithWorkingDir(getwd func() (string, error)) Option {
	return func(s *Service) {
		s.getwd = getwd
	}
}

// New wires a Service from cfg. Every subprocess goes through executor.
func New(cfg *config.Config, executor exec.Executor, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	logger := logx.NewLogger("operations")

	runner := git.NewCLI(executor,
		git.WithBinary(cfg.GitBinary),
		git.WithTimeout(cfg.GitTimeout()),
	)

	tokens, err := utils.NewTokenCounter(cfg.AgentBinary)
	if err != nil {
		logger.Warn("token counting falls back to estimation: %v", err)
	}

	s := &Service{
		cfg: cfg,
		preflight: preflight.NewChecker(executor, preflight.Options{
			RuntimeBinary:   cfg.RuntimeBinary,
			AgentBinary:     cfg.AgentBinary,
			MinRuntimeMajor: cfg.MinRuntimeMajor,
			Timeout:         cfg.PreflightTimeout(),
		}),
		agent:     agent.NewCLI(executor, cfg.AgentBinary),
		git:       runner,
		collector: changes.NewCollector(runner, cfg.MaxDiffChars),
		committer: commit.NewFormatter(runner, cfg.UnstageOnCommitFailure),
		recorder:  metrics.NopRecorder{},
		tokens:    tokens,
		getwd:     os.Getwd,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ensureDependencies runs preflight and, on failure, sends the full check
// report to the caller before returning the error.
func (s *Service) ensureDependencies(ctx context.Context) error {
	err := s.preflight.Ensure(ctx)
	var pfErr *preflight.Error
	if errors.As(err, &pfErr) && pfErr.Report != "" {
		s.logger.Notify(ctx, logx.LevelError, "%s", strings.TrimRight(pfErr.Report, "\n"))
	}
	return err
}

// Usage reports call cost.
type Usage struct {
	DurationMS   int64 `json:"duration_ms"`
	OutputTokens int   `json:"output_tokens"`
}

func (s *Service) usage(start time.Time, output string) Usage {
	return Usage{
		DurationMS:   time.Since(start).Milliseconds(),
		OutputTokens: s.tokens.CountTokens(output),
	}
}

// sandboxDir resolves the configured sandbox directory against ws.
func (s *Service) sandboxDir(ws string) string {
	if filepath.IsAbs(s.cfg.SandboxDir) {
		return s.cfg.SandboxDir
	}
	return filepath.Join(ws, filepath.FromSlash(s.cfg.SandboxDir))
}
