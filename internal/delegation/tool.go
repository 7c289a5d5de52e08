package delegation

import "context"

// Tool is a capability the coordinator can invoke mid-conversation. Call
// receives the raw JSON argument payload produced by the model and returns
// a serialized result suitable for a tool message.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Call(ctx context.Context, args string) (string, error)
}
