package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parlorlabs/parlor/internal/agents"
	"github.com/parlorlabs/parlor/internal/delegation"
	"github.com/parlorlabs/parlor/internal/llm"
	"github.com/parlorlabs/parlor/internal/sessions"
	"github.com/parlorlabs/parlor/internal/threads"
)

// Runner drives one coordinator run at step granularity.
type Runner interface {
	Run(ctx context.Context, messages []llm.Message) <-chan delegation.Step
}

// AssembleFunc resolves the per-request delegation setup for a user.
type AssembleFunc func(ctx context.Context, userEmail string) (*sessions.Assembly, error)

// RunnerFactory builds a fresh runner from an assembly. A new runner per
// request keeps toolset changes from racing in-flight streams.
type RunnerFactory func(assembly *sessions.Assembly) Runner

// Dispatcher turns one inbound chat message into a persisted, ordered
// event stream. Every message event corresponds to exactly one persisted
// message, and every stream ends with exactly one terminal event.
type Dispatcher struct {
	threads   threads.System
	assemble  AssembleFunc
	newRunner RunnerFactory
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher over the thread store and assembler.
func NewDispatcher(threadSys threads.System, assemble AssembleFunc, newRunner RunnerFactory, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		threads:   threadSys,
		assemble:  assemble,
		newRunner: newRunner,
		logger:    logger.With("system", "dispatcher"),
	}
}

// DefaultRunnerFactory builds coordinators from assemblies using the
// given completer and turn limit.
func DefaultRunnerFactory(completer llm.Completer, maxTurns int, logger *slog.Logger) RunnerFactory {
	return func(assembly *sessions.Assembly) Runner {
		return delegation.NewCoordinator(completer, assembly.Instructions, assembly.Tools, maxTurns, logger)
	}
}

// Send dispatches one user message. Failures before the run starts are
// returned directly; once the event channel is handed out, every failure
// is contained to its step and the channel always terminates with a
// single stream-end event.
func (d *Dispatcher) Send(ctx context.Context, userEmail string, preferred *uuid.UUID, content string) (<-chan Event, *threads.Thread, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, ErrEmptyMessage
	}

	assembly, err := d.assemble(ctx, userEmail)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAssembly, err)
	}

	thread, err := d.threads.Resolve(ctx, userEmail, preferred)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve thread: %w", err)
	}

	history, err := d.threads.Messages(ctx, thread.ID, userEmail)
	if err != nil {
		return nil, nil, fmt.Errorf("load history: %w", err)
	}

	// The user's message is durable before any model work happens.
	if _, err := d.threads.Append(ctx, thread.ID, threads.AppendCommand{
		Role:    threads.RoleUser,
		Content: content,
	}); err != nil {
		return nil, nil, fmt.Errorf("persist user message: %w", err)
	}

	convo := buildConversation(history, content)
	runner := d.newRunner(assembly)
	startedAt := time.Now()

	events := make(chan Event)
	go func() {
		defer close(events)
		d.pump(ctx, runner, thread.ID, convo, startedAt, events)
	}()

	return events, thread, nil
}

// pump consumes coordinator steps, persisting each before emitting its
// event. Step failures are logged and skipped. The terminal event is
// emitted exactly once on every path except client cancellation.
func (d *Dispatcher) pump(ctx context.Context, runner Runner, threadID uuid.UUID, convo []llm.Message, startedAt time.Time, events chan<- Event) {
	for step := range runner.Run(ctx, convo) {
		result, ok := d.classify(step)
		if !ok {
			continue
		}

		if _, err := d.threads.Append(ctx, threadID, threads.AppendCommand{
			Role:         threads.RoleAssistant,
			AgentCode:    result.agentCode,
			Content:      result.content,
			InputTokens:  result.inputTokens,
			OutputTokens: result.outputTokens,
		}); err != nil {
			d.logger.Error("step persistence failed, suppressing event",
				"thread", threadID, "agent", result.agentCode, "error", err)
			continue
		}

		if !emit(ctx, events, messageEvent(result.agentCode, result.content, result.totalTokens, startedAt)) {
			return
		}
	}

	emit(ctx, events, streamEndEvent())
}

func (d *Dispatcher) classify(step delegation.Step) (stepResult, bool) {
	switch step.Kind {
	case delegation.StepDirect:
		return parseDirect(agents.PrimaryAssistant, step), true
	case delegation.StepDelegated:
		result, err := parseDelegated(step)
		if err != nil {
			d.logger.Warn("skipping unparseable delegated step", "agent", step.Agent, "error", err)
			return stepResult{}, false
		}
		return result, true
	default:
		d.logger.Warn("skipping unrecognized step", "kind", step.Kind)
		return stepResult{}, false
	}
}

func emit(ctx context.Context, events chan<- Event, event Event) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

// buildConversation renders persisted history plus the new user message
// into model turns. Assistant attribution collapses to the assistant
// role; the store keeps the per-agent detail.
func buildConversation(history []threads.Message, content string) []llm.Message {
	convo := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == threads.RoleAssistant {
			role = llm.RoleAssistant
		}
		convo = append(convo, llm.Message{Role: role, Content: m.Content})
	}
	return append(convo, llm.Message{Role: llm.RoleUser, Content: content})
}
