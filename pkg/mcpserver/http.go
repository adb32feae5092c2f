package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"auggie-mcp/pkg/logx"
)

const shutdownTimeout = 10 * time.Second

// HTTPOptions configures the streamable HTTP transport.
type HTTPOptions struct {
	// Metrics is mounted on /metrics when non-nil.
	Metrics http.Handler
	// Calls is served on /calls when non-nil.
	Calls CallLog
	// Path is the MCP endpoint; defaults to /mcp.
	Path string
}

// HTTPHandler returns the HTTP routes: the MCP endpoint, /healthz and,
// when configured, /metrics and /calls.
func (s *Server) HTTPHandler(opts HTTPOptions) http.Handler {
	path := opts.Path
	if path == "" {
		path = "/mcp"
	}

	mux := http.NewServeMux()
	mux.Handle(path, server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath(path)))
	mux.HandleFunc("/healthz", HealthHandler)
	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics)
	}
	if opts.Calls != nil {
		h := &callsHandler{log: opts.Calls, logger: s.logger}
		mux.HandleFunc("GET /calls", h.list)
		mux.HandleFunc("GET /calls/{id}", h.get)
	}
	return mux
}

// HealthHandler answers GET with 200 "OK".
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// ListenAndServe serves handler on addr until ctx is cancelled. Request
// contexts derive from ctx, so shutdown cancels in-flight calls and kills
// their processes before the listener drains.
func (s *Server) ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.serveListener(ctx, listener, handler)
}

func (s *Server) serveListener(ctx context.Context, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ErrorLog:          s.logger.StdLogger(logx.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.logger.Info("MCP server listening on http://%s", listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	return nil
}
