package threads

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parlorlabs/parlor/internal/llm"
	"github.com/parlorlabs/parlor/pkg/pagination"
)

type fakeStore struct {
	messages  map[uuid.UUID][]Message
	titles    map[uuid.UUID]string
	titleErr  error
	loadErr   error
	setCalled int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		messages: map[uuid.UUID][]Message{},
		titles:   map[uuid.UUID]string{},
	}
}

func (f *fakeStore) List(ctx context.Context, userEmail string, page pagination.PageRequest) (*pagination.PageResult[Thread], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Find(ctx context.Context, id uuid.UUID, userEmail string) (*Thread, error) {
	return nil, ErrNotFound
}

func (f *fakeStore) Create(ctx context.Context, userEmail string) (*Thread, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Resolve(ctx context.Context, userEmail string, preferred *uuid.UUID) (*Thread, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Messages(ctx context.Context, threadID uuid.UUID, userEmail string) ([]Message, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.messages[threadID], nil
}

func (f *fakeStore) Append(ctx context.Context, threadID uuid.UUID, cmd AppendCommand) (*Message, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) SetTitle(ctx context.Context, threadID uuid.UUID, title string) error {
	f.setCalled++
	if f.titleErr != nil {
		return f.titleErr
	}
	f.titles[threadID] = title
	return nil
}

func (f *fakeStore) Deactivate(ctx context.Context, id uuid.UUID, userEmail string) error {
	return errors.New("not implemented")
}

type titleCompleter struct {
	content string
	err     error
	prompts []string
}

func (c *titleCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if len(req.Messages) > 0 {
		c.prompts = append(c.prompts, req.Messages[0].Content)
	}
	if c.err != nil {
		return nil, c.err
	}
	return &llm.Response{Content: c.content}, nil
}

func newTestTitler(store *fakeStore, completer *titleCompleter, budget int64) *Titler {
	return NewTitler(completer, store, budget, time.Second, slog.Default())
}

func TestTitler_Refresh_GeneratesForDefaultTitle(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.messages[id] = []Message{
		{Role: RoleUser, Content: "tell me about trends"},
		{Role: RoleAssistant, Content: "trends are up"},
		{Role: RoleUser, Content: "which markets are growing"},
		{Role: RoleAssistant, Content: "market X"},
	}

	titler := newTestTitler(store, &titleCompleter{content: `"Market Trends"`}, 1024)
	items := []Thread{{ID: id, Title: DefaultTitle, TotalMessages: 4}}

	titler.Refresh(context.Background(), "user@example.com", items)

	if items[0].Title != "Market Trends" {
		t.Errorf("Title = %q, want Market Trends", items[0].Title)
	}
	if store.titles[id] != "Market Trends" {
		t.Errorf("persisted title = %q, want Market Trends", store.titles[id])
	}
}

func TestTitler_Refresh_SkipsTitledAndEmptyThreads(t *testing.T) {
	store := newFakeStore()
	completer := &titleCompleter{content: "Unused"}
	titler := newTestTitler(store, completer, 1024)

	items := []Thread{
		{ID: uuid.New(), Title: "Already Named", TotalMessages: 4},
		{ID: uuid.New(), Title: DefaultTitle, TotalMessages: 0},
	}

	titler.Refresh(context.Background(), "user@example.com", items)

	if store.setCalled != 0 {
		t.Errorf("SetTitle called %d times, want 0", store.setCalled)
	}
	if items[0].Title != "Already Named" || items[1].Title != DefaultTitle {
		t.Errorf("titles changed: %q, %q", items[0].Title, items[1].Title)
	}
}

func TestTitler_Refresh_BestEffortOnFailure(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.messages[id] = []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleUser, Content: "anyone there"},
	}

	titler := newTestTitler(store, &titleCompleter{err: errors.New("provider down")}, 1024)
	items := []Thread{{ID: id, Title: DefaultTitle, TotalMessages: 2}}

	titler.Refresh(context.Background(), "user@example.com", items)

	if items[0].Title != DefaultTitle {
		t.Errorf("Title = %q, want unchanged default", items[0].Title)
	}
}

func TestTitler_Refresh_SkipsSingleUserTurn(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.messages[id] = []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi there"},
	}

	completer := &titleCompleter{content: "Unused"}
	titler := newTestTitler(store, completer, 1024)
	items := []Thread{{ID: id, Title: DefaultTitle, TotalMessages: 2}}

	titler.Refresh(context.Background(), "user@example.com", items)

	if len(completer.prompts) != 0 {
		t.Errorf("completions = %d, want 0", len(completer.prompts))
	}
	if items[0].Title != DefaultTitle {
		t.Errorf("Title = %q, want unchanged default", items[0].Title)
	}
}

func TestTitler_TranscriptHonorsBudget(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.messages[id] = []Message{
		{Role: RoleUser, Content: strings.Repeat("a", 40)},
		{Role: RoleUser, Content: strings.Repeat("b", 40)},
	}

	completer := &titleCompleter{content: "Short"}
	titler := newTestTitler(store, completer, 50)
	items := []Thread{{ID: id, Title: DefaultTitle, TotalMessages: 2}}

	titler.Refresh(context.Background(), "user@example.com", items)

	if len(completer.prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(completer.prompts))
	}
	if int64(len(completer.prompts[0])) > 50 {
		t.Errorf("prompt length = %d, want <= 50", len(completer.prompts[0]))
	}
	if strings.Contains(completer.prompts[0], "bbbb") {
		t.Error("second message should be truncated from prompt")
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"Quoted Title"`, "Quoted Title"},
		{"  padded  ", "padded"},
		{"'single quoted'", "single quoted"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := sanitizeTitle(tt.in); got != tt.want {
			t.Errorf("sanitizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
