package registry

import (
	"fmt"

	"github.com/agentmux/agentmux/agent"
	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/supervisor"
	"github.com/agentmux/agentmux/tool"
)

// Kind tags the agent variant a Definition describes. Construction goes
// through an explicit table keyed by Kind; there is no name-based module
// resolution or runtime discovery.
type Kind string

const (
	KindModel      Kind = "model"
	KindExcel      Kind = "excel"
	KindPDF        Kind = "pdf"
	KindSupervisor Kind = "supervisor"
)

// Definition declaratively describes an agent to register. It mirrors the
// agent-discovery document shape: identity fields, a system prompt and tool
// references by name.
type Definition struct {
	Name        string         `json:"name"`
	Kind        Kind           `json:"kind"`
	Type        core.AgentType `json:"type,omitempty"`
	Description string         `json:"description,omitempty"`
	Icon        string         `json:"icon,omitempty"`
	// Instruction is the system prompt. Template variables agent_name,
	// agent_icon and description are available.
	Instruction string `json:"instruction,omitempty"`
	// Tools names built-in capabilities from the tool catalog.
	Tools []string `json:"tools,omitempty"`
	// Members lists member agent names; only meaningful for KindSupervisor.
	Members []string `json:"members,omitempty"`
	// OutputMode selects the supervisor transcript merge mode; only
	// meaningful for KindSupervisor. Empty means full history.
	OutputMode supervisor.OutputMode `json:"output_mode,omitempty"`
}

// toolCatalog maps tool references in definitions to constructors.
var toolCatalog = map[string]func() tool.Tool{
	"calculator":  func() tool.Tool { return tool.NewCalculatorTool() },
	"safety_scan": func() tool.Tool { return tool.NewSafetyScanTool() },
	"write_file":  func() tool.Tool { return tool.NewFileWriterTool() },
}

// constructors is the explicit registration table: one constructor per Kind.
// Supervisors are handled separately in Bootstrap because they resolve
// members against the registry.
var constructors = map[Kind]func(r *Registry, def Definition) (core.Agent, error){
	KindModel: func(r *Registry, def Definition) (core.Agent, error) {
		tools, err := resolveTools(def.Tools)
		if err != nil {
			return nil, err
		}
		return agent.NewModelAgent(def.Name, r.llm, func(o *agent.ModelAgentOptions) {
			applyDefinition(o, def, r)
			o.Tools = tools
		}), nil
	},
	KindExcel: func(r *Registry, def Definition) (core.Agent, error) {
		if len(def.Tools) > 0 {
			return nil, fmt.Errorf("agent %q: excel agents take no tool references", def.Name)
		}
		return agent.NewExcelAgent(def.Name, r.llm, func(o *agent.ModelAgentOptions) {
			applyDefinition(o, def, r)
		}), nil
	},
	KindPDF: func(r *Registry, def Definition) (core.Agent, error) {
		if len(def.Tools) > 0 {
			return nil, fmt.Errorf("agent %q: pdf agents take no tool references", def.Name)
		}
		return agent.NewPDFAgent(def.Name, r.llm, func(o *agent.ModelAgentOptions) {
			applyDefinition(o, def, r)
		}), nil
	},
}

// Bootstrap constructs and registers agents from definitions in order.
// Supervisor definitions may reference earlier definitions as members. The
// first failing definition aborts the bootstrap; agents registered before it
// remain registered.
func (r *Registry) Bootstrap(defs ...Definition) error {
	for _, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("agent definition missing name (kind %q)", def.Kind)
		}

		if def.Kind == KindSupervisor {
			_, err := r.CreateSupervisor(def.Name, def.Members, func(o *supervisor.Options) {
				if def.Description != "" {
					o.Description = def.Description
				}
				if def.Icon != "" {
					o.Icon = def.Icon
				}
				if def.Instruction != "" {
					o.Instruction = def.Instruction
				}
				if def.OutputMode != "" {
					o.OutputMode = def.OutputMode
				}
			})
			if err != nil {
				return err
			}
			continue
		}

		build, ok := constructors[def.Kind]
		if !ok {
			return fmt.Errorf("agent %q: unknown kind %q", def.Name, def.Kind)
		}
		a, err := build(r, def)
		if err != nil {
			return err
		}
		r.Register(a)
	}
	return nil
}

// resolveTools maps tool names through the catalog.
func resolveTools(names []string) ([]tool.Tool, error) {
	tools := make([]tool.Tool, 0, len(names))
	for _, name := range names {
		build, ok := toolCatalog[name]
		if !ok {
			return nil, fmt.Errorf("unknown tool %q", name)
		}
		tools = append(tools, build())
	}
	return tools, nil
}

// applyDefinition copies the shared definition fields into agent options and
// wires the registry's stores.
func applyDefinition(o *agent.ModelAgentOptions, def Definition, r *Registry) {
	if def.Type != "" {
		o.Type = def.Type
	}
	if def.Description != "" {
		o.Description = def.Description
	}
	if def.Icon != "" {
		o.Icon = def.Icon
	}
	if def.Instruction != "" {
		o.Instruction = agent.NewInstructionFromText(def.Instruction)
	}
	o.Artifacts = r.opts.Artifacts
	o.Continuations = r.opts.Continuations
	o.WorkDir = r.opts.WorkDir
	o.Logger = r.opts.Logger
}
