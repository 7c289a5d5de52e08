package delegation

import (
	"context"
	"encoding/json"
	"fmt"
)

// AgentTool exposes a specialist to the coordinator as a callable tool.
// The tool result is the specialist's full reply serialized as JSON, so
// the coordinator model sees the same payload the dispatch layer decodes.
type AgentTool struct {
	specialist *Specialist
}

// NewAgentTool wraps a specialist for use in a coordinator toolset.
func NewAgentTool(specialist *Specialist) *AgentTool {
	return &AgentTool{specialist: specialist}
}

func (t *AgentTool) Name() string {
	return t.specialist.Code
}

func (t *AgentTool) Description() string {
	return t.specialist.Description
}

func (t *AgentTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{
				"type":        "string",
				"description": "The request to hand to the specialist, phrased as a complete standalone question.",
			},
		},
		"required": []string{"input"},
	}
}

func (t *AgentTool) Call(ctx context.Context, args string) (string, error) {
	var parsed struct {
		Input string `json:"input"`
	}
	if err := json.Unmarshal([]byte(args), &parsed); err != nil {
		return "", fmt.Errorf("specialist %s: invalid arguments: %w", t.specialist.Code, err)
	}

	reply, err := t.specialist.Run(ctx, parsed.Input)
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(reply)
	if err != nil {
		return "", fmt.Errorf("specialist %s: encode reply: %w", t.specialist.Code, err)
	}
	return string(encoded), nil
}
