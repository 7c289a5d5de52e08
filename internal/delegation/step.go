package delegation

import "github.com/parlorlabs/parlor/internal/llm"

// StepKind identifies who produced a step.
type StepKind string

const (
	// StepDirect is an assistant turn from the coordinator itself.
	StepDirect StepKind = "direct"

	// StepDelegated is a specialist result routed through a tool call.
	StepDelegated StepKind = "delegated"
)

// Step is one observable unit of a coordinator run. Direct steps carry
// Content and Usage from the coordinator's completion. Delegated steps
// carry the specialist code in Agent and the serialized reply in Payload.
type Step struct {
	Kind    StepKind
	Agent   string
	Content string
	Usage   llm.Usage
	Payload string
}
