package delegation

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/parlorlabs/parlor/internal/llm"
)

// Coordinator drives a multi-turn agent loop: it completes against its
// toolset, executes any requested tool calls in order, feeds the results
// back, and repeats until the model stops calling tools or the turn
// limit is reached.
type Coordinator struct {
	completer    llm.Completer
	instructions string
	tools        []Tool
	byName       map[string]Tool
	maxTurns     int
	logger       *slog.Logger
}

// NewCoordinator builds a coordinator over the given toolset. Tool order
// is preserved in the definitions sent to the model.
func NewCoordinator(completer llm.Completer, instructions string, tools []Tool, maxTurns int, logger *slog.Logger) *Coordinator {
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	if maxTurns < 1 {
		maxTurns = 1
	}
	return &Coordinator{
		completer:    completer,
		instructions: instructions,
		tools:        tools,
		byName:       byName,
		maxTurns:     maxTurns,
		logger:       logger,
	}
}

// Run executes the agent loop over the given conversation and streams
// steps as they occur. The channel is unbuffered so production pauses
// until the consumer is ready, and it closes when the run completes,
// fails, or the context is canceled.
func (c *Coordinator) Run(ctx context.Context, messages []llm.Message) <-chan Step {
	out := make(chan Step)
	go func() {
		defer close(out)
		c.run(ctx, messages, out)
	}()
	return out
}

func (c *Coordinator) run(ctx context.Context, messages []llm.Message, out chan<- Step) {
	convo := make([]llm.Message, len(messages))
	copy(convo, messages)

	for turn := 0; turn < c.maxTurns; turn++ {
		resp, err := c.completer.Complete(ctx, llm.Request{
			Instructions: c.instructions,
			Messages:     convo,
			Tools:        c.definitions(),
		})
		if err != nil {
			c.logger.Error("coordinator completion failed", "turn", turn, "error", err)
			return
		}

		if resp.Content != "" {
			if !c.emit(ctx, out, Step{
				Kind:    StepDirect,
				Content: resp.Content,
				Usage:   resp.Usage,
			}) {
				return
			}
		}

		if len(resp.ToolCalls) == 0 {
			return
		}

		convo = append(convo, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			payload := c.invoke(ctx, call)
			if !c.emit(ctx, out, Step{
				Kind:    StepDelegated,
				Agent:   call.Name,
				Payload: payload,
			}) {
				return
			}
			convo = append(convo, llm.Message{
				Role:       llm.RoleTool,
				Content:    payload,
				ToolCallID: call.ID,
			})
		}
	}

	c.logger.Warn("coordinator reached turn limit", "max_turns", c.maxTurns)
}

// invoke runs a single tool call. Failures produce an error envelope so
// the model sees what went wrong and the run keeps going.
func (c *Coordinator) invoke(ctx context.Context, call llm.ToolCall) string {
	tool, ok := c.byName[call.Name]
	if !ok {
		c.logger.Warn("unknown tool requested", "tool", call.Name)
		return errorEnvelope("unknown tool: " + call.Name)
	}
	result, err := tool.Call(ctx, call.Arguments)
	if err != nil {
		c.logger.Warn("tool call failed", "tool", call.Name, "error", err)
		return errorEnvelope(err.Error())
	}
	return result
}

func (c *Coordinator) emit(ctx context.Context, out chan<- Step, step Step) bool {
	select {
	case out <- step:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Coordinator) definitions() []llm.ToolDef {
	defs := make([]llm.ToolDef, len(c.tools))
	for i, t := range c.tools {
		defs[i] = llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		}
	}
	return defs
}

func errorEnvelope(message string) string {
	encoded, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return `{"error":"delegation failed"}`
	}
	return string(encoded)
}
