package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/parlorlabs/parlor/internal/delegation"
	"github.com/parlorlabs/parlor/internal/llm"
	"github.com/parlorlabs/parlor/internal/sessions"
	"github.com/parlorlabs/parlor/internal/threads"
	"github.com/parlorlabs/parlor/pkg/pagination"
)

type fakeThreads struct {
	thread    threads.Thread
	appended  []threads.AppendCommand
	failAfter int
	failUser  bool
}

func newFakeThreads() *fakeThreads {
	return &fakeThreads{
		thread: threads.Thread{
			ID:        uuid.New(),
			UserEmail: "user@example.com",
			Title:     threads.DefaultTitle,
			Active:    true,
		},
		failAfter: -1,
	}
}

func (f *fakeThreads) List(ctx context.Context, userEmail string, page pagination.PageRequest) (*pagination.PageResult[threads.Thread], error) {
	result := pagination.NewPageResult([]threads.Thread{f.thread}, 1, 1, 20)
	return &result, nil
}

func (f *fakeThreads) Find(ctx context.Context, id uuid.UUID, userEmail string) (*threads.Thread, error) {
	return &f.thread, nil
}

func (f *fakeThreads) Create(ctx context.Context, userEmail string) (*threads.Thread, error) {
	return &f.thread, nil
}

func (f *fakeThreads) Resolve(ctx context.Context, userEmail string, preferred *uuid.UUID) (*threads.Thread, error) {
	return &f.thread, nil
}

func (f *fakeThreads) Messages(ctx context.Context, threadID uuid.UUID, userEmail string) ([]threads.Message, error) {
	return nil, nil
}

func (f *fakeThreads) Append(ctx context.Context, threadID uuid.UUID, cmd threads.AppendCommand) (*threads.Message, error) {
	if cmd.Role == threads.RoleUser && f.failUser {
		return nil, errors.New("store unavailable")
	}
	if f.failAfter >= 0 && len(f.appended) >= f.failAfter {
		return nil, errors.New("store unavailable")
	}
	f.appended = append(f.appended, cmd)
	return &threads.Message{
		ID:       uuid.New(),
		ThreadID: threadID,
		Position: len(f.appended),
		Role:     cmd.Role,
		Content:  cmd.Content,
	}, nil
}

func (f *fakeThreads) SetTitle(ctx context.Context, threadID uuid.UUID, title string) error {
	return nil
}

func (f *fakeThreads) Deactivate(ctx context.Context, id uuid.UUID, userEmail string) error {
	return nil
}

type fakeRunner struct {
	steps []delegation.Step
}

func (f *fakeRunner) Run(ctx context.Context, messages []llm.Message) <-chan delegation.Step {
	out := make(chan delegation.Step)
	go func() {
		defer close(out)
		for _, step := range f.steps {
			select {
			case out <- step:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func assembleOK(ctx context.Context, userEmail string) (*sessions.Assembly, error) {
	return &sessions.Assembly{Instructions: "assist"}, nil
}

func newTestDispatcher(store *fakeThreads, steps []delegation.Step) *Dispatcher {
	return NewDispatcher(
		store,
		assembleOK,
		func(assembly *sessions.Assembly) Runner { return &fakeRunner{steps: steps} },
		slog.Default(),
	)
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var got []Event
	for e := range events {
		got = append(got, e)
	}
	return got
}

func directStep(content string, total, completion int64) delegation.Step {
	return delegation.Step{
		Kind:    delegation.StepDirect,
		Content: content,
		Usage:   llm.Usage{TotalTokens: total, CompletionTokens: completion},
	}
}

func delegatedStep(t *testing.T, agent, content string, total, completion int64) delegation.Step {
	t.Helper()
	payload, err := json.Marshal(delegation.Reply{
		Messages: []delegation.ReplyMessage{
			{
				Role:    "assistant",
				Content: content,
				ResponseMetadata: delegation.ReplyMetadata{
					TokenUsage: delegation.TokenUsage{TotalTokens: total, CompletionTokens: completion},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return delegation.Step{Kind: delegation.StepDelegated, Agent: agent, Payload: string(payload)}
}

func TestDispatcher_Send_EmptyMessage(t *testing.T) {
	d := newTestDispatcher(newFakeThreads(), nil)

	_, _, err := d.Send(context.Background(), "user@example.com", nil, "   ")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestDispatcher_Send_UserPersistenceFatal(t *testing.T) {
	store := newFakeThreads()
	store.failUser = true
	d := newTestDispatcher(store, []delegation.Step{directStep("hi", 10, 5)})

	_, _, err := d.Send(context.Background(), "user@example.com", nil, "hello")
	if err == nil {
		t.Fatal("Send() succeeded despite user message persistence failure")
	}
}

func TestDispatcher_Send_AssemblyFailureFatal(t *testing.T) {
	d := NewDispatcher(
		newFakeThreads(),
		func(ctx context.Context, userEmail string) (*sessions.Assembly, error) {
			return nil, errors.New("no session")
		},
		func(assembly *sessions.Assembly) Runner { return &fakeRunner{} },
		slog.Default(),
	)

	_, _, err := d.Send(context.Background(), "user@example.com", nil, "hello")
	if !errors.Is(err, ErrAssembly) {
		t.Fatalf("err = %v, want ErrAssembly", err)
	}
}

func TestDispatcher_Termination_SingleStreamEnd(t *testing.T) {
	d := newTestDispatcher(newFakeThreads(), []delegation.Step{
		directStep("one", 10, 5),
		directStep("two", 10, 5),
	})

	events, _, err := d.Send(context.Background(), "user@example.com", nil, "hello")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	got := collect(t, events)

	ends := 0
	for i, e := range got {
		if e.Type == EventStreamEnd {
			ends++
			if i != len(got)-1 {
				t.Errorf("stream_end at index %d, want last", i)
			}
		}
	}
	if ends != 1 {
		t.Errorf("stream_end count = %d, want 1", ends)
	}
}

func TestDispatcher_Ordering_And_Coupling(t *testing.T) {
	store := newFakeThreads()
	d := newTestDispatcher(store, []delegation.Step{
		directStep("first", 10, 4),
		delegatedStep(t, "Trends_Agent", "second", 30, 10),
		directStep("third", 20, 8),
	})

	events, _, err := d.Send(context.Background(), "user@example.com", nil, "hello")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	got := collect(t, events)

	var messages []Event
	for _, e := range got {
		if e.Type == EventMessage {
			messages = append(messages, e)
		}
	}

	// One persisted message per event, plus the initiating user message.
	if len(store.appended) != len(messages)+1 {
		t.Fatalf("persisted = %d, events = %d, want persisted = events+1",
			len(store.appended), len(messages))
	}

	if store.appended[0].Role != threads.RoleUser {
		t.Errorf("first persisted role = %q, want user", store.appended[0].Role)
	}

	for i, e := range messages {
		persisted := store.appended[i+1]
		if persisted.Content != e.Content {
			t.Errorf("order mismatch at %d: persisted %q, emitted %q", i, persisted.Content, e.Content)
		}
		if persisted.AgentCode != e.AgentCode {
			t.Errorf("attribution mismatch at %d: persisted %q, emitted %q", i, persisted.AgentCode, e.AgentCode)
		}
	}

	if messages[0].Content != "first" || messages[1].Content != "second" || messages[2].Content != "third" {
		t.Errorf("emission order = %q, %q, %q", messages[0].Content, messages[1].Content, messages[2].Content)
	}
}

func TestDispatcher_GracefulDelegationFailure(t *testing.T) {
	store := newFakeThreads()
	d := newTestDispatcher(store, []delegation.Step{
		delegatedStep(t, "Reality_Agent", "good answer", 40, 10),
		{Kind: delegation.StepDelegated, Agent: "Broken_Agent", Payload: `{"error":"boom"}`},
		directStep("wrap up", 15, 5),
	})

	events, _, err := d.Send(context.Background(), "user@example.com", nil, "hello")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	got := collect(t, events)

	var contents []string
	for _, e := range got {
		if e.Type == EventMessage {
			contents = append(contents, e.Content)
		}
	}

	if len(contents) != 2 {
		t.Fatalf("message events = %v, want 2 entries", contents)
	}
	if contents[0] != "good answer" || contents[1] != "wrap up" {
		t.Errorf("contents = %v", contents)
	}
	if got[len(got)-1].Type != EventStreamEnd {
		t.Error("stream did not terminate with stream_end")
	}
}

func TestDispatcher_PersistFailureSuppressesEvent(t *testing.T) {
	store := newFakeThreads()
	store.failAfter = 2 // user message + first step persist, then fail
	d := newTestDispatcher(store, []delegation.Step{
		directStep("kept", 10, 5),
		directStep("dropped", 10, 5),
	})

	events, _, err := d.Send(context.Background(), "user@example.com", nil, "hello")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	got := collect(t, events)

	var contents []string
	for _, e := range got {
		if e.Type == EventMessage {
			contents = append(contents, e.Content)
		}
	}

	if len(contents) != 1 || contents[0] != "kept" {
		t.Errorf("contents = %v, want [kept]", contents)
	}
	if got[len(got)-1].Type != EventStreamEnd {
		t.Error("stream did not terminate with stream_end")
	}
}

func TestDispatcher_DelegationScenario(t *testing.T) {
	store := newFakeThreads()
	d := newTestDispatcher(store, []delegation.Step{
		delegatedStep(t, "Performance_Agent", "Performance grew 5% YoY", 120, 30),
	})

	events, _, err := d.Send(context.Background(), "user@example.com", nil, "What is performance in market X?")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	got := collect(t, events)

	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}

	msg := got[0]
	if msg.Type != EventMessage || msg.AgentCode != "Performance_Agent" {
		t.Errorf("event = %+v, want Performance_Agent message", msg)
	}
	if msg.Content != "Performance grew 5% YoY" || msg.Tokens != 120 {
		t.Errorf("event payload = %q/%d, want answer with 120 tokens", msg.Content, msg.Tokens)
	}
	if msg.CreatedDate == "" {
		t.Error("CreatedDate not set on message event")
	}
	if got[1].Type != EventStreamEnd {
		t.Errorf("terminal event = %+v, want stream_end", got[1])
	}

	if len(store.appended) != 2 {
		t.Fatalf("persisted = %d, want 2", len(store.appended))
	}
	answer := store.appended[1]
	if answer.InputTokens != 90 || answer.OutputTokens != 30 {
		t.Errorf("persisted tokens = %d/%d, want 90/30", answer.InputTokens, answer.OutputTokens)
	}
}

func TestDispatcher_CreatedDateConstant(t *testing.T) {
	d := newTestDispatcher(newFakeThreads(), []delegation.Step{
		directStep("one", 10, 5),
		directStep("two", 10, 5),
		directStep("three", 10, 5),
	})

	events, _, err := d.Send(context.Background(), "user@example.com", nil, "hello")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	var dates []string
	for e := range events {
		if e.Type == EventMessage {
			dates = append(dates, e.CreatedDate)
		}
	}

	for i := 1; i < len(dates); i++ {
		if dates[i] != dates[0] {
			t.Errorf("CreatedDate varies across events: %v", dates)
		}
	}
}

func TestDispatcher_UnknownStepKindSkipped(t *testing.T) {
	step := delegation.Step{Kind: delegation.StepKind("mystery")}
	d := newTestDispatcher(newFakeThreads(), []delegation.Step{step})

	events, _, err := d.Send(context.Background(), "user@example.com", nil, "hello")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	got := collect(t, events)
	if len(got) != 1 || got[0].Type != EventStreamEnd {
		t.Errorf("events = %+v, want single stream_end", got)
	}
}

func TestBuildConversation(t *testing.T) {
	history := []threads.Message{
		{Role: threads.RoleUser, Content: "hi"},
		{Role: threads.RoleAssistant, AgentCode: "Parlor_Assistant", Content: "hello"},
	}

	convo := buildConversation(history, "follow up")

	if len(convo) != 3 {
		t.Fatalf("len = %d, want 3", len(convo))
	}
	if convo[1].Role != llm.RoleAssistant {
		t.Errorf("convo[1].Role = %q, want assistant", convo[1].Role)
	}
	last := convo[len(convo)-1]
	if last.Role != llm.RoleUser || last.Content != "follow up" {
		t.Errorf("last = %+v, want trailing user message", last)
	}
}
