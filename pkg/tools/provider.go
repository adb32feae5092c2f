package tools

import "auggie-mcp/pkg/operations"

// NewProvider serves ask_question and implement backed by service.
func NewProvider(service *operations.Service) *ToolProvider {
	return NewToolProvider(
		NewAskQuestionTool(service),
		NewImplementTool(service),
	)
}
