package chat

import (
	"encoding/json"
	"testing"

	"github.com/parlorlabs/parlor/internal/delegation"
	"github.com/parlorlabs/parlor/internal/llm"
)

func TestSplitTokens(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		completion int64
		wantInput  int64
		wantOutput int64
	}{
		{"standard split", 100, 40, 60, 40},
		{"missing completion", 60, 0, 60, 0},
		{"all zero", 0, 0, 0, 0},
		{"completion exceeds total", 10, 40, 0, 40},
		{"negative total", -5, 3, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, output := splitTokens(tt.total, tt.completion)

			if input != tt.wantInput {
				t.Errorf("input = %d, want %d", input, tt.wantInput)
			}
			if output != tt.wantOutput {
				t.Errorf("output = %d, want %d", output, tt.wantOutput)
			}
		})
	}
}

func TestParseDirect(t *testing.T) {
	step := delegation.Step{
		Kind:    delegation.StepDirect,
		Content: "direct answer",
		Usage:   llm.Usage{TotalTokens: 100, CompletionTokens: 40},
	}

	result := parseDirect("Parlor_Assistant", step)

	if result.agentCode != "Parlor_Assistant" {
		t.Errorf("agentCode = %q, want Parlor_Assistant", result.agentCode)
	}
	if result.content != "direct answer" {
		t.Errorf("content = %q, want direct answer", result.content)
	}
	if result.inputTokens != 60 || result.outputTokens != 40 {
		t.Errorf("tokens = %d/%d, want 60/40", result.inputTokens, result.outputTokens)
	}
}

func delegatedPayload(t *testing.T, reply delegation.Reply) string {
	t.Helper()
	data, err := json.Marshal(reply)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return string(data)
}

func TestParseDelegated(t *testing.T) {
	payload := delegatedPayload(t, delegation.Reply{
		Messages: []delegation.ReplyMessage{
			{
				Role:    "assistant",
				Content: "Performance grew 5% YoY",
				ResponseMetadata: delegation.ReplyMetadata{
					TokenUsage: delegation.TokenUsage{TotalTokens: 120, CompletionTokens: 30},
				},
			},
		},
	})

	result, err := parseDelegated(delegation.Step{
		Kind:    delegation.StepDelegated,
		Agent:   "Performance_Agent",
		Payload: payload,
	})
	if err != nil {
		t.Fatalf("parseDelegated() failed: %v", err)
	}

	if result.agentCode != "Performance_Agent" {
		t.Errorf("agentCode = %q, want Performance_Agent", result.agentCode)
	}
	if result.content != "Performance grew 5% YoY" {
		t.Errorf("content = %q", result.content)
	}
	if result.totalTokens != 120 {
		t.Errorf("totalTokens = %d, want 120", result.totalTokens)
	}
	if result.inputTokens != 90 || result.outputTokens != 30 {
		t.Errorf("tokens = %d/%d, want 90/30", result.inputTokens, result.outputTokens)
	}
}

func TestParseDelegated_UsesLastMessage(t *testing.T) {
	payload := delegatedPayload(t, delegation.Reply{
		Messages: []delegation.ReplyMessage{
			{Role: "assistant", Content: "intermediate"},
			{
				Role:    "assistant",
				Content: "final answer",
				ResponseMetadata: delegation.ReplyMetadata{
					TokenUsage: delegation.TokenUsage{TotalTokens: 50, CompletionTokens: 20},
				},
			},
		},
	})

	result, err := parseDelegated(delegation.Step{Agent: "Trends_Agent", Payload: payload})
	if err != nil {
		t.Fatalf("parseDelegated() failed: %v", err)
	}

	if result.content != "final answer" {
		t.Errorf("content = %q, want final answer", result.content)
	}
	if result.inputTokens != 30 {
		t.Errorf("inputTokens = %d, want 30", result.inputTokens)
	}
}

func TestParseDelegated_MissingUsageDefaultsZero(t *testing.T) {
	payload := delegatedPayload(t, delegation.Reply{
		Messages: []delegation.ReplyMessage{
			{Role: "assistant", Content: "no usage reported"},
		},
	})

	result, err := parseDelegated(delegation.Step{Agent: "Reality_Agent", Payload: payload})
	if err != nil {
		t.Fatalf("parseDelegated() failed: %v", err)
	}

	if result.totalTokens != 0 || result.inputTokens != 0 || result.outputTokens != 0 {
		t.Errorf("tokens = %d/%d/%d, want all zero",
			result.totalTokens, result.inputTokens, result.outputTokens)
	}
}

func TestParseDelegated_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "definitely not json"},
		{"error envelope", `{"error":"unknown tool"}`},
		{"empty messages", `{"messages":[]}`},
		{"unknown fields", `{"messages":[],"extra":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDelegated(delegation.Step{Agent: "X_Agent", Payload: tt.payload})
			if err == nil {
				t.Fatal("parseDelegated() accepted malformed payload")
			}
		})
	}
}
