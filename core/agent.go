package core

import "context"

// AgentType categorizes an agent implementation for listing and discovery.
type AgentType string

const (
	// AgentTypeUtility marks small deterministic helpers (calculator, safety scanner).
	AgentTypeUtility AgentType = "utility"
	// AgentTypeSpecialized marks agents bound to a specific capability domain
	// (file writing, spreadsheet or PDF processing).
	AgentTypeSpecialized AgentType = "specialized"
	// AgentTypeSupervisor marks coordinating agents that route work to members.
	AgentTypeSupervisor AgentType = "supervisor"
)

// Agent is the uniform contract every orchestrated unit must satisfy.
//
// Invoke receives the shared conversation state and returns the successor
// state. Implementations must never mutate messages that existed before the
// call; the default behavior is to append exactly one new assistant message.
// Attachment-processing agents replace the assistant tail instead - that
// divergence is documented on the concrete type, never assumed by callers.
//
// Invoke is synchronous: it blocks until the turn is complete or ctx is done.
// Concurrent Invoke calls against the same Agent from different conversations
// are safe as long as each call operates on its own State.
type Agent interface {
	Name() string
	Type() AgentType
	Description() string
	Icon() string
	Invoke(ctx context.Context, state *State) (*State, error)
}

// VerboseInvoker is implemented by agents that can keep the function call and
// response traffic of a turn in the successor state instead of collapsing the
// turn to a single appended assistant message. Supervisors merging with full
// history use it so the shared transcript records everything a member
// produced; agents without internal traffic need not implement it.
type VerboseInvoker interface {
	InvokeVerbose(ctx context.Context, state *State) (*State, error)
}
