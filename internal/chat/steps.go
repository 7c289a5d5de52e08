package chat

import (
	"fmt"

	"github.com/parlorlabs/parlor/internal/delegation"
	"github.com/parlorlabs/parlor/pkg/decode"
)

// stepResult is a classified, parsed step ready for persistence.
type stepResult struct {
	agentCode    string
	content      string
	totalTokens  int64
	inputTokens  int64
	outputTokens int64
}

// splitTokens derives input tokens from provider accounting. Providers
// may omit either count, so missing values are treated as zero and the
// result never goes negative.
func splitTokens(total, completion int64) (input, output int64) {
	if total < 0 {
		total = 0
	}
	if completion < 0 {
		completion = 0
	}
	input = total - completion
	if input < 0 {
		input = 0
	}
	return input, completion
}

// parseDirect extracts a result from a coordinator-authored step.
func parseDirect(agentCode string, step delegation.Step) stepResult {
	input, output := splitTokens(step.Usage.TotalTokens, step.Usage.CompletionTokens)
	return stepResult{
		agentCode:    agentCode,
		content:      step.Content,
		totalTokens:  step.Usage.TotalTokens,
		inputTokens:  input,
		outputTokens: output,
	}
}

// parseDelegated decodes a specialist's serialized reply and extracts
// the final message with its nested token accounting.
func parseDelegated(step delegation.Step) (stepResult, error) {
	reply, err := decode.JSONStrict[delegation.Reply]([]byte(step.Payload))
	if err != nil {
		return stepResult{}, fmt.Errorf("decode delegated payload from %s: %w", step.Agent, err)
	}
	if len(reply.Messages) == 0 {
		return stepResult{}, fmt.Errorf("delegated payload from %s has no messages", step.Agent)
	}

	last := reply.Messages[len(reply.Messages)-1]
	usage := last.ResponseMetadata.TokenUsage
	input, output := splitTokens(usage.TotalTokens, usage.CompletionTokens)

	return stepResult{
		agentCode:    step.Agent,
		content:      last.Content,
		totalTokens:  usage.TotalTokens,
		inputTokens:  input,
		outputTokens: output,
	}, nil
}
