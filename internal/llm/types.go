package llm

// Message roles accepted by Complete.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single conversation turn. Assistant turns may carry tool
// calls; tool turns carry the result for a prior call via ToolCallID.
type Message struct {
	Role       string
	Content    string
	ToolCallID string
	ToolCalls  []ToolCall
}

// ToolCall is a function invocation requested by the model. Arguments is
// the raw JSON argument payload as produced by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolDef declares a callable tool to the model. Parameters is a JSON
// schema object describing the tool's arguments.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Request is a single completion request.
type Request struct {
	Instructions string
	Messages     []Message
	Tools        []ToolDef
}

// Usage reports token consumption for one completion.
type Usage struct {
	TotalTokens      int64
	CompletionTokens int64
}

// Response is the model's reply to a Request.
type Response struct {
	Content   string
	ToolCalls []ToolCall
	Usage     Usage
}
