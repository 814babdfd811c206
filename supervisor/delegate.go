package supervisor

import "github.com/agentmux/agentmux/model"

// DelegateToolName is the single capability exposed to the coordinator model.
const DelegateToolName = "delegate_to_agent"

// delegateToolDefinition declares the delegation tool with the member set as
// an enum so providers can constrain the selection.
func delegateToolDefinition(members []string) model.ToolDefinition {
	enum := make([]any, len(members))
	for i, m := range members {
		enum[i] = m
	}
	return model.ToolDefinition{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        DelegateToolName,
			Description: "Hand the conversation to the named member agent. Use when a member is better suited to answer.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"agent": map[string]any{
						"type":        "string",
						"description": "Target agent name",
						"enum":        enum,
					},
				},
				"required": []string{"agent"},
			},
		},
	}
}
