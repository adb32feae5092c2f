package tools

import (
	"context"

	"auggie-mcp/pkg/operations"
)

// ImplementTool asks the agent to change code and reports the result.
type ImplementTool struct {
	service *operations.Service
}

// NewImplementTool creates the implement tool.
func NewImplementTool(service *operations.Service) *ImplementTool {
	return &ImplementTool{service: service}
}

// Name returns the tool name.
func (t *ImplementTool) Name() string {
	return ToolImplement
}

// Definition returns the advertised schema.
func (t *ImplementTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: ToolImplement,
		Description: "Ask Auggie to implement a change. Dry run by default: the agent is denied every " +
			"file-editing and process-launching tool and nothing is committed. With dry_run=false, " +
			"changed files are staged and committed.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"prompt": {
					Type:        "string",
					Description: "What to implement",
				},
				"workspace_root": {
					Type:        "string",
					Description: "Repository root; defaults to the server's working directory",
				},
				"branch": {
					Type:        "string",
					Description: "Branch to create or reset (git checkout -B) before running",
				},
				"commit_message": {
					Type:        "string",
					Description: "Commit message; defaults to \"Implement: \" plus the start of the prompt",
				},
				"scope": {
					Type:        "array",
					Items:       &Property{Type: "string"},
					Description: "Paths the agent should limit its edits to",
				},
				"dry_run": {
					Type:        "boolean",
					Description: "Sandbox the agent and skip the commit",
					Default:     true,
				},
				"timeout_sec": {
					Type:        "integer",
					Description: "Seconds before the agent is killed",
					Default:     300,
					Minimum:     intPtr(1),
				},
				"model": {
					Type:        "string",
					Description: "Agent model override",
				},
				"rules_path": {
					Type:        "string",
					Description: "Additional rules file passed to the agent",
				},
			},
			Required: []string{"prompt"},
		},
	}
}

// Exec decodes the arguments and runs the implementation.
func (t *ImplementTool) Exec(ctx context.Context, args map[string]any) (*ExecResult, error) {
	params, err := decodeImplementParams(args)
	if err != nil {
		return nil, err
	}

	out, err := t.service.Implement(ctx, params)
	if err != nil {
		return nil, err
	}
	return marshalResult(out)
}

func decodeImplementParams(args map[string]any) (operations.ImplementParams, error) {
	var (
		p   operations.ImplementParams
		err error
	)
	if p.Prompt, err = requiredString(args, "prompt"); err != nil {
		return p, err
	}
	for _, f := range []struct {
		dst *string
		key string
	}{
		{&p.WorkspaceRoot, "workspace_root"},
		{&p.Branch, "branch"},
		{&p.CommitMessage, "commit_message"},
		{&p.Model, "model"},
		{&p.RulesPath, "rules_path"},
	} {
		if *f.dst, err = optionalString(args, f.key); err != nil {
			return p, err
		}
	}
	if p.Scope, err = optionalStrings(args, "scope"); err != nil {
		return p, err
	}
	if p.DryRun, err = optionalBool(args, "dry_run", true); err != nil {
		return p, err
	}
	if p.Timeout, err = timeoutSeconds(args, "timeout_sec"); err != nil {
		return p, err
	}
	return p, nil
}
