package core

import (
	"errors"
	"fmt"
)

// ErrAgentNotFound is returned by registry lookups for unknown agent names.
var ErrAgentNotFound = errors.New("agent not found")

// ConfigurationError reports a supervisor build referencing an agent name
// that does not resolve in the registry. It is fatal to the build call; no
// partial graph is ever returned alongside it.
type ConfigurationError struct {
	Agent string // First unresolved agent name
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("supervisor configuration references unregistered agent %q", e.Agent)
}

// RoutingError reports a coordinator selecting an agent outside the
// supervisor's member set. It is fatal to the turn and surfaced verbatim;
// dispatch never falls back to an arbitrary agent.
type RoutingError struct {
	Agent   string   // Invalid selection
	Members []string // Configured member set
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("coordinator selected agent %q outside member set %v", e.Agent, e.Members)
}

// TerminalAgentError reports total inability to reach the bound model or
// service for a turn, attributed to a specific agent. It propagates past the
// agent boundary so a supervisor can reroute or a caller can retry - unlike
// capability failures, which agents recover and narrate in the transcript.
type TerminalAgentError struct {
	Agent string
	Err   error
}

func (e *TerminalAgentError) Error() string {
	return fmt.Sprintf("agent %q terminally failed: %v", e.Agent, e.Err)
}

func (e *TerminalAgentError) Unwrap() error { return e.Err }
