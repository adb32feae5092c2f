package tools

import (
	"context"

	"auggie-mcp/pkg/operations"
)

// AskQuestionTool answers questions about a repository.
type AskQuestionTool struct {
	service *operations.Service
}

// NewAskQuestionTool creates the ask_question tool.
func NewAskQuestionTool(service *operations.Service) *AskQuestionTool {
	return &AskQuestionTool{service: service}
}

// Name returns the tool name.
func (t *AskQuestionTool) Name() string {
	return ToolAskQuestion
}

// Definition returns the advertised schema.
func (t *AskQuestionTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolAskQuestion,
		Description: "Q&A over a repository using Auggie's context engine. Read-only.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"question": {
					Type:        "string",
					Description: "The question to ask about the codebase",
				},
				"workspace_root": {
					Type:        "string",
					Description: "Repository root; defaults to the server's working directory",
				},
				"model": {
					Type:        "string",
					Description: "Agent model override",
				},
				"rules_path": {
					Type:        "string",
					Description: "Additional rules file passed to the agent",
				},
				"timeout_sec": {
					Type:        "integer",
					Description: "Seconds before the agent is killed",
					Default:     120,
					Minimum:     intPtr(1),
				},
			},
			Required: []string{"question"},
		},
	}
}

// Exec decodes the arguments and runs the question.
func (t *AskQuestionTool) Exec(ctx context.Context, args map[string]any) (*ExecResult, error) {
	params, err := decodeAskParams(args)
	if err != nil {
		return nil, err
	}

	out, err := t.service.Ask(ctx, params)
	if err != nil {
		return nil, err
	}
	return marshalResult(out)
}

func decodeAskParams(args map[string]any) (operations.AskParams, error) {
	var (
		p   operations.AskParams
		err error
	)
	if p.Question, err = requiredString(args, "question"); err != nil {
		return p, err
	}
	if p.WorkspaceRoot, err = optionalString(args, "workspace_root"); err != nil {
		return p, err
	}
	if p.Model, err = optionalString(args, "model"); err != nil {
		return p, err
	}
	if p.RulesPath, err = optionalString(args, "rules_path"); err != nil {
		return p, err
	}
	if p.Timeout, err = timeoutSeconds(args, "timeout_sec"); err != nil {
		return p, err
	}
	return p, nil
}
