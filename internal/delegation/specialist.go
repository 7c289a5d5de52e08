// Package delegation runs a coordinator model that can hand work off to
// specialist agents exposed as tools, surfacing each assistant turn and
// each specialist result as a discrete step.
package delegation

import (
	"context"
	"fmt"

	"github.com/parlorlabs/parlor/internal/llm"
)

// TokenUsage carries the token counts reported for a specialist turn.
type TokenUsage struct {
	TotalTokens      int64 `json:"total_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

// ReplyMetadata wraps provider metadata attached to a reply message.
type ReplyMetadata struct {
	TokenUsage TokenUsage `json:"token_usage"`
}

// ReplyMessage is one assistant message produced by a specialist run.
type ReplyMessage struct {
	Role             string        `json:"role"`
	Content          string        `json:"content"`
	ResponseMetadata ReplyMetadata `json:"response_metadata"`
}

// Reply is the full serialized result of a specialist run. Its JSON form
// is what the coordinator receives as a tool result and what the dispatch
// layer decodes to persist the delegated step.
type Reply struct {
	Messages []ReplyMessage `json:"messages"`
}

// Specialist is a single-purpose agent invoked through delegation. Each
// run is a fresh completion against the specialist's own system prompt.
type Specialist struct {
	Code         string
	Name         string
	Description  string
	SystemPrompt string

	completer llm.Completer
}

// NewSpecialist builds a specialist backed by the given completer.
func NewSpecialist(completer llm.Completer, code, name, description, systemPrompt string) *Specialist {
	return &Specialist{
		Code:         code,
		Name:         name,
		Description:  description,
		SystemPrompt: systemPrompt,
		completer:    completer,
	}
}

// Run executes the specialist against a single input and returns the
// structured reply, including the provider's token accounting.
func (s *Specialist) Run(ctx context.Context, input string) (*Reply, error) {
	resp, err := s.completer.Complete(ctx, llm.Request{
		Instructions: s.SystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: input},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("specialist %s: %w", s.Code, err)
	}
	return &Reply{
		Messages: []ReplyMessage{
			{
				Role:    llm.RoleAssistant,
				Content: resp.Content,
				ResponseMetadata: ReplyMetadata{
					TokenUsage: TokenUsage{
						TotalTokens:      resp.Usage.TotalTokens,
						CompletionTokens: resp.Usage.CompletionTokens,
					},
				},
			},
		},
	}, nil
}
