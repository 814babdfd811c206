// Package agentmux provides a high-level façade over the agent registry,
// supervisor composition and turn orchestration, enabling rapid construction
// of multi-agent conversational systems. Most applications interact with this
// package by:
//  1. Creating an AgentMux via New() with a default model (optionally
//     overriding the in-memory stores)
//  2. Registering agents directly or bootstrapping them from definitions
//  3. Composing supervisors over registered subsets
//  4. Driving conversation turns with Turn()
//
// The façade delegates cataloging to registry.Registry and turn execution to
// runner.Runner while keeping setup ergonomics concise. All defaults are safe
// for local development and testing; production deployments typically supply
// durable store implementations and a structured logger.
package agentmux

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentmux/agentmux/artifact"
	"github.com/agentmux/agentmux/continuation"
	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/logging"
	"github.com/agentmux/agentmux/model"
	"github.com/agentmux/agentmux/registry"
	"github.com/agentmux/agentmux/runner"
	"github.com/agentmux/agentmux/session"
	"github.com/agentmux/agentmux/supervisor"
)

// Options configures the AgentMux instance.
type Options struct {
	// Stores (defaults to in-memory implementations if not provided)
	SessionStore      core.SessionStore
	ArtifactStore     core.ArtifactStore
	ContinuationStore core.ContinuationStore

	// WorkDir confines file-producing tools of bootstrapped agents. Empty
	// disables them.
	WorkDir string

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentMux is the high-level façade aggregating the registry and the
// per-agent runners.
type AgentMux struct {
	opts     Options
	registry *registry.Registry

	mu      sync.Mutex
	runners map[string]*runner.Runner
}

// New creates an AgentMux around a default model with optional overrides.
// Any unset store is initialized with an in-memory implementation.
func New(llm model.Model, optFns ...func(o *Options)) *AgentMux {
	opts := Options{
		SessionStore:      session.NewInMemoryStore(),
		ArtifactStore:     artifact.NewInMemoryStore(),
		ContinuationStore: continuation.NewInMemoryStore(),
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	reg := registry.New(llm, func(o *registry.Options) {
		o.Artifacts = opts.ArtifactStore
		o.Continuations = opts.ContinuationStore
		o.WorkDir = opts.WorkDir
		o.Logger = opts.Logger
	})

	return &AgentMux{
		opts:     opts,
		registry: reg,
		runners:  make(map[string]*runner.Runner),
	}
}

// Registry exposes the underlying agent catalog.
func (m *AgentMux) Registry() *registry.Registry { return m.registry }

// Register adds an agent to the catalog. Re-registering a name replaces the
// prior agent.
func (m *AgentMux) Register(a core.Agent) {
	m.registry.Register(a)

	// Drop any cached runner so the next turn binds the replacement.
	m.mu.Lock()
	delete(m.runners, a.Name())
	m.mu.Unlock()
}

// Bootstrap constructs and registers agents from declarative definitions.
func (m *AgentMux) Bootstrap(defs ...registry.Definition) error {
	return m.registry.Bootstrap(defs...)
}

// CreateSupervisor composes a supervisor over the named registered agents and
// registers it. Empty memberNames means all currently registered agents.
func (m *AgentMux) CreateSupervisor(name string, memberNames []string, optFns ...func(o *supervisor.Options)) (*supervisor.Supervisor, error) {
	return m.registry.CreateSupervisor(name, memberNames, optFns...)
}

// Turn runs one conversation turn of userID against the named agent and
// returns the newest assistant message. Transcripts persist in the session
// store between calls, scoped per agent and user.
func (m *AgentMux) Turn(ctx context.Context, agentName, userID string, msg core.Message) (core.Message, error) {
	r, err := m.runnerFor(agentName)
	if err != nil {
		return core.Message{}, err
	}
	return r.Turn(ctx, userID, msg)
}

// Ask is a convenience wrapper around Turn for plain text input.
func (m *AgentMux) Ask(ctx context.Context, agentName, userID, text string) (string, error) {
	reply, err := m.Turn(ctx, agentName, userID, core.NewUserMessage(text))
	if err != nil {
		return "", err
	}
	return reply.Text(), nil
}

// History returns the stored transcript for userID's conversation with the
// named agent.
func (m *AgentMux) History(agentName, userID string) ([]core.Message, error) {
	if _, err := m.registry.Get(agentName); err != nil {
		return nil, err
	}
	return m.opts.SessionStore.Messages(core.ConversationKey{AgentID: agentName, UserID: userID})
}

// Reset clears the stored transcript for userID's conversation with the
// named agent.
func (m *AgentMux) Reset(agentName, userID string) error {
	return m.opts.SessionStore.Reset(core.ConversationKey{AgentID: agentName, UserID: userID})
}

// runnerFor resolves the named agent and returns its cached runner.
func (m *AgentMux) runnerFor(agentName string) (*runner.Runner, error) {
	a, err := m.registry.Get(agentName)
	if err != nil {
		return nil, fmt.Errorf("resolve agent: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.runners[agentName]; ok {
		return r, nil
	}
	r := runner.New(a, func(o *runner.Options) {
		o.SessionStore = m.opts.SessionStore
		o.Logger = m.opts.Logger
	})
	m.runners[agentName] = r
	return r, nil
}
