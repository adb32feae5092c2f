package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/server"

	"auggie-mcp/pkg/logx"
)

// ServeStdio serves newline-delimited JSON-RPC from in to out until in
// reaches EOF or ctx is cancelled. Logs never go to out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(s.logger.StdLogger(logx.LevelError))

	s.logger.Info("MCP server ready on stdio")
	err := stdio.Listen(ctx, in, out)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		s.logger.Info("stdin closed, stopping")
		return nil
	case errors.Is(err, context.Canceled):
		s.logger.Info("stdio session cancelled")
		return nil
	default:
		return fmt.Errorf("stdio transport failed: %w", err)
	}
}
