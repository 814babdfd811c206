package registry

import (
	"fmt"
	"sync"

	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/logging"
	"github.com/agentmux/agentmux/model"
	"github.com/agentmux/agentmux/supervisor"
)

// Options configures a Registry.
type Options struct {
	// Artifacts and Continuations are handed to agents built through
	// Bootstrap so their tools share the process-wide stores.
	Artifacts     core.ArtifactStore
	Continuations core.ContinuationStore
	// WorkDir confines file-producing tools of bootstrapped agents.
	WorkDir string
	Logger  logging.Logger
}

// Registry is the process-wide agent catalog. It maps unique names to Agent
// instances and acts as the factory for supervisors. All methods are safe for
// concurrent use; a reader never observes a partially registered agent.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]core.Agent
	order  []string // Names in first-registration order, for stable listing
	llm    model.Model
	opts   Options
}

// New creates a registry around a default model handle. The model is used
// when constructing supervisors and bootstrapped agents.
func New(llm model.Model, optFns ...func(o *Options)) *Registry {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Registry{
		agents: make(map[string]core.Agent),
		llm:    llm,
		opts:   opts,
	}
}

// Register stores the agent under its name. Registering an existing name
// replaces the prior agent (last-write-wins) and keeps its listing position;
// the collision is logged so accidental overwrites are visible.
func (r *Registry) Register(a core.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := a.Name()
	if _, exists := r.agents[name]; exists {
		r.opts.Logger.Warn("registry.replace", "agent", name)
	} else {
		r.order = append(r.order, name)
	}
	r.agents[name] = a
}

// Get looks up an agent by name. Unknown names return an error wrapping
// core.ErrAgentNotFound; Get never constructs agents as a side effect.
func (r *Registry) Get(name string) (core.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrAgentNotFound, name)
	}
	return a, nil
}

// List returns all registered agent names in first-registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Remove deletes the agent registered under name, reporting whether it
// existed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.agents[name]; !ok {
		return false
	}
	delete(r.agents, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// CreateSupervisor builds a supervisor over the named members, using the
// registry's default model as coordinator, and registers the result. An
// empty memberNames means all currently registered agents. Every name must
// resolve; the first unresolved name fails the build with a
// *core.ConfigurationError and nothing is registered.
//
// Membership is fixed at build time: agents registered afterwards do not
// join existing supervisors.
func (r *Registry) CreateSupervisor(name string, memberNames []string, optFns ...func(o *supervisor.Options)) (*supervisor.Supervisor, error) {
	if len(memberNames) == 0 {
		memberNames = r.List()
	}

	members := make([]core.Agent, 0, len(memberNames))
	for _, n := range memberNames {
		a, err := r.Get(n)
		if err != nil {
			return nil, &core.ConfigurationError{Agent: n}
		}
		members = append(members, a)
	}

	withLogger := append([]func(o *supervisor.Options){func(o *supervisor.Options) {
		o.Logger = r.opts.Logger
	}}, optFns...)

	sup, err := supervisor.New(name, r.llm, members, withLogger...)
	if err != nil {
		return nil, err
	}

	r.Register(sup)
	return sup, nil
}
