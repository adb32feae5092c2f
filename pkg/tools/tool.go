// Package tools defines the MCP tool surface: schemas, argument decoding,
// and dispatch into the operations service.
package tools

import (
	"context"
	"errors"
	"fmt"
)

// Tool names.
const (
	ToolAskQuestion = "ask_question"
	ToolImplement   = "implement"
)

// ErrUnknownTool is returned for a tool name the provider does not serve.
var ErrUnknownTool = errors.New("unknown tool")

// Property describes one argument in a tool's JSON Schema.
type Property struct {
	Items       *Property `json:"items,omitempty"`
	Default     any       `json:"default,omitempty"`
	Minimum     *int      `json:"minimum,omitempty"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
}

// InputSchema is the JSON Schema of a tool's arguments.
type InputSchema struct {
	Properties map[string]Property `json:"properties"`
	Type       string              `json:"type"`
	Required   []string            `json:"required,omitempty"`
}

// ToolDefinition is what tools/list advertises.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// ExecResult is a successful tool result. Content is the JSON text sent to
// the client; Structured is the same value for structuredContent.
type ExecResult struct {
	Structured any
	Content    string
}

// Tool is one callable tool.
type Tool interface {
	Name() string
	Definition() ToolDefinition
	Exec(ctx context.Context, args map[string]any) (*ExecResult, error)
}

// ToolProvider serves a fixed, ordered set of tools.
type ToolProvider struct {
	byName map[string]Tool
	order  []Tool
}

// NewToolProvider creates a provider over tools in listing order.
func NewToolProvider(tools ...Tool) *ToolProvider {
	p := &ToolProvider{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, dup := p.byName[t.Name()]; dup {
			panic(fmt.Sprintf("tool %s registered twice", t.Name()))
		}
		p.byName[t.Name()] = t
		p.order = append(p.order, t)
	}
	return p
}

// Get returns the named tool.
func (p *ToolProvider) Get(name string) (Tool, error) {
	t, ok := p.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// List returns every tool definition in registration order.
func (p *ToolProvider) List() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(p.order))
	for _, t := range p.order {
		defs = append(defs, t.Definition())
	}
	return defs
}

func intPtr(n int) *int {
	return &n
}
