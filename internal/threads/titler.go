package threads

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/parlorlabs/parlor/internal/llm"
)

const titleInstructions = "Generate a short title for the conversation below. " +
	"Respond with the title only: no quotes, no punctuation at the end, at most six words."

// Titler derives display titles for threads still carrying the default
// title. Title generation is best effort: failures are logged and the
// thread keeps its current title.
type Titler struct {
	completer llm.Completer
	sys       System
	budget    int64
	timeout   time.Duration
	logger    *slog.Logger
}

// NewTitler creates a titler with a prompt byte budget and a per-thread
// generation timeout.
func NewTitler(completer llm.Completer, sys System, budget int64, timeout time.Duration, logger *slog.Logger) *Titler {
	return &Titler{
		completer: completer,
		sys:       sys,
		budget:    budget,
		timeout:   timeout,
		logger:    logger.With("system", "titler"),
	}
}

// Refresh generates titles for any listed thread that has history but
// still carries the default title, updating the slice in place.
func (t *Titler) Refresh(ctx context.Context, userEmail string, items []Thread) {
	for i := range items {
		if items[i].Title != DefaultTitle || items[i].TotalMessages == 0 {
			continue
		}

		title, err := t.generate(ctx, userEmail, &items[i])
		if err != nil {
			t.logger.Warn("title generation failed", "thread", items[i].ID, "error", err)
			continue
		}
		if title == "" {
			continue
		}

		if err := t.sys.SetTitle(ctx, items[i].ID, title); err != nil {
			t.logger.Warn("title update failed", "thread", items[i].ID, "error", err)
			continue
		}
		items[i].Title = title
	}
}

func (t *Titler) generate(ctx context.Context, userEmail string, thread *Thread) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	messages, err := t.sys.Messages(ctx, thread.ID, userEmail)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	var turns []Message
	for _, m := range messages {
		if m.Role == RoleUser {
			turns = append(turns, m)
		}
	}
	// One user turn is not enough signal for a meaningful title.
	if len(turns) < 2 {
		return "", nil
	}

	resp, err := t.completer.Complete(ctx, llm.Request{
		Instructions: titleInstructions,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: t.transcript(turns)},
		},
	})
	if err != nil {
		return "", err
	}

	return sanitizeTitle(resp.Content), nil
}

// transcript joins the user's turns in conversation order, truncated to
// the configured byte budget.
func (t *Titler) transcript(turns []Message) string {
	var b strings.Builder
	for _, m := range turns {
		line := m.Content + "\n"
		if int64(b.Len()+len(line)) > t.budget {
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

func sanitizeTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"'`)
	title = strings.TrimSpace(title)
	if len(title) > 120 {
		title = title[:120]
	}
	return title
}
