// auggie-mcp exposes the Auggie CLI to MCP clients.
//
// Usage:
//
//	auggie-mcp          serve streamable HTTP on the configured address
//	auggie-mcp stdio    serve newline-delimited JSON-RPC on stdin/stdout
//
// Any first argument other than "stdio" selects HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"auggie-mcp/pkg/config"
	"auggie-mcp/pkg/exec"
	"auggie-mcp/pkg/logx"
	"auggie-mcp/pkg/mcpserver"
	"auggie-mcp/pkg/metrics"
	"auggie-mcp/pkg/operations"
	"auggie-mcp/pkg/persistence"
	"auggie-mcp/pkg/tools"
	"auggie-mcp/pkg/version"
)

type mode string

const (
	modeHTTP  mode = "http"
	modeStdio mode = "stdio"
)

// parseMode selects stdio when the first argument is "stdio" and HTTP
// otherwise. Trailing arguments are ignored.
func parseMode(args []string) mode {
	if len(args) > 0 && args[0] == string(modeStdio) {
		return modeStdio
	}
	return modeHTTP
}

func main() {
	m := parseMode(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, m, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "auggie-mcp: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run wires the service and serves until the transport ends or ctx is
// cancelled. Logs go to stderr in both modes.
func run(ctx context.Context, m mode, stdin io.Reader, stdout io.Writer) error {
	logger := logx.NewLogger("main")
	logger.Info("%s", version.String())

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyLogging()

	secretEnv, err := cfg.SecretEnv()
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	recorder := metrics.NewPrometheusRecorder()
	opts := []operations.Option{
		operations.WithRecorder(recorder),
		operations.WithAgentEnv(secretEnv),
	}
	httpOpts := mcpserver.HTTPOptions{
		Path:    cfg.HTTP.Path,
		Metrics: recorder.Handler(),
	}

	if cfg.Journal != "" {
		journal, err := persistence.Open(ctx, cfg.Journal)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer func() {
			if err := journal.Close(); err != nil {
				logger.Warn("%v", err)
			}
		}()
		opts = append(opts, operations.WithJournal(journal))
		httpOpts.Calls = journal
	}

	executor := metrics.InstrumentExecutor(exec.NewLocalExec(), recorder)
	service := operations.New(cfg, executor, opts...)
	server := mcpserver.NewServer(tools.NewProvider(service), nil)

	switch m {
	case modeStdio:
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			logger.Warn("stdin is a terminal; stdio mode expects an MCP client on the other end")
		}
		err = server.ServeStdio(ctx, stdin, stdout)
	default:
		err = server.ListenAndServe(ctx, cfg.HTTP.Addr, server.HTTPHandler(httpOpts))
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Shutdown complete")
	return nil
}
