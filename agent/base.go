package agent

import (
	"fmt"

	"github.com/agentmux/agentmux/core"
)

// BaseAgent bundles the identity surface shared by all agent implementations:
// name, type tag, description and icon. Embed it in concrete agents and
// supply an Invoke method to satisfy the core.Agent interface.
type BaseAgent struct {
	name        string         // Human-readable name, doubles as the agent id
	agentType   core.AgentType // Category used for listing and registry bootstrap
	description string         // Detailed description of agent's purpose
	icon        string         // Short glyph shown in listings
}

// NewBaseAgent constructs a BaseAgent with a generated description
// (customizable via SetDescription).
func NewBaseAgent(name string, agentType core.AgentType) BaseAgent {
	return BaseAgent{
		name:        name,
		agentType:   agentType,
		description: fmt.Sprintf("Agent %s", name),
	}
}

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Type returns the category tag of this agent.
func (b *BaseAgent) Type() core.AgentType { return b.agentType }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// Icon returns the display glyph for this agent, possibly empty.
func (b *BaseAgent) Icon() string { return b.icon }

// SetDescription updates the agent's description. Coordinators surface it to
// the routing model, so it should state what the agent is good at.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// SetIcon updates the agent's display glyph.
func (b *BaseAgent) SetIcon(icon string) { b.icon = icon }
