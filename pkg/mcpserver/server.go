// Package mcpserver exposes the tool provider over MCP using mcp-go, on
// stdio or streamable HTTP. Log messages emitted during a tool call are
// forwarded to the calling client as notifications/message.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"auggie-mcp/pkg/logx"
	"auggie-mcp/pkg/operations"
	"auggie-mcp/pkg/tools"
	"auggie-mcp/pkg/version"
)

// Server owns the MCP server and the tools registered on it.
type Server struct {
	mcp    *server.MCPServer
	logger *logx.Logger
}

// NewServer registers every tool of toolProvider on a new MCP server.
func NewServer(toolProvider *tools.ToolProvider, logger *logx.Logger) *Server {
	if logger == nil {
		logger = logx.NewLogger("mcp-server")
	}
	s := &Server{
		mcp: server.NewMCPServer(
			version.Name,
			version.Version,
			server.WithToolCapabilities(false),
			server.WithLogging(),
			server.WithRecovery(),
		),
		logger: logger,
	}

	for _, def := range toolProvider.List() {
		tool, err := toolProvider.Get(def.Name)
		if err != nil {
			logger.Error("skipping tool %s: %v", def.Name, err)
			continue
		}
		s.mcp.AddTool(mcpTool(def), s.handler(tool))
	}
	return s
}

// mcpTool converts a tool definition, keeping its JSON Schema verbatim.
func mcpTool(def tools.ToolDefinition) mcp.Tool {
	schema, err := json.Marshal(def.InputSchema)
	if err != nil {
		panic(fmt.Sprintf("tool %s: invalid input schema: %v", def.Name, err))
	}
	return mcp.NewToolWithRawSchema(def.Name, def.Description, schema)
}

// handler adapts a tool to mcp-go. Tool failures become results with
// isError set, not protocol errors, so the calling model sees the message.
func (s *Server) handler(tool tools.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		if args == nil {
			args = map[string]any{}
		}
		s.logger.Info("MCP tool call: %s", tool.Name())

		ctx = logx.WithSink(ctx, s.forward(ctx))
		result, err := s.execTool(ctx, tool, args)
		if err != nil {
			kind := operations.Classify(err)
			s.logger.Warn("MCP tool %s failed (%s): %v", tool.Name(), kind, err)
			return errorResult(err, kind), nil
		}

		return &mcp.CallToolResult{
			Content:           []mcp.Content{mcp.NewTextContent(result.Content)},
			StructuredContent: result.Structured,
		}, nil
	}
}

// errorResult carries the error category next to the message so clients
// can decide on retries without parsing text.
func errorResult(err error, kind operations.Kind) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(err.Error())},
		StructuredContent: map[string]any{
			"error":     err.Error(),
			"category":  string(kind),
			"retryable": kind.Retryable(),
		},
		IsError: true,
	}
}

// forward returns a sink that sends messages to the client session of ctx.
func (s *Server) forward(ctx context.Context) logx.Sink {
	return func(level logx.Level, logger, message string) {
		err := s.mcp.SendNotificationToClient(ctx, "notifications/message", map[string]any{
			"level":  mcpLevel(level),
			"logger": logger,
			"data":   message,
		})
		if err != nil {
			s.logger.Debug("dropping notification: %v", err)
		}
	}
}

// execTool runs tool, turning a panic into an internal error so one bad
// call cannot take down a stdio session.
func (s *Server) execTool(ctx context.Context, tool tools.Tool, args map[string]any) (result *tools.ExecResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool %s panicked: %v", tool.Name(), r)
			err = fmt.Errorf("tool %s panicked: %v", tool.Name(), r)
		}
	}()
	result, err = tool.Exec(ctx, args)
	if err == nil && result == nil {
		err = errors.New("tool returned no result")
	}
	return result, err
}

// mcpLevel maps logger levels onto MCP logging levels.
func mcpLevel(level logx.Level) mcp.LoggingLevel {
	switch level {
	case logx.LevelDebug:
		return mcp.LoggingLevelDebug
	case logx.LevelWarn:
		return mcp.LoggingLevelWarning
	case logx.LevelError:
		return mcp.LoggingLevelError
	default:
		return mcp.LoggingLevelInfo
	}
}
