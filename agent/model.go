package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/internal/util"
	"github.com/agentmux/agentmux/logging"
	"github.com/agentmux/agentmux/model"
	"github.com/agentmux/agentmux/tool"
)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	Type          core.AgentType
	Description   string
	Icon          string
	Instruction   Instruction
	Tools         []tool.Tool
	MaxModelCalls int           // Cap on model calls per Invoke; 0 means unlimited
	ToolTimeout   time.Duration // Timeout for individual tool calls
	// MaxHistoryMessages limits how much transcript is sent to the model.
	// Oldest messages are dropped first; 0 keeps everything.
	MaxHistoryMessages int
	Artifacts          core.ArtifactStore
	Continuations      core.ContinuationStore
	// WorkDir confines file-producing tools. Empty disables them.
	WorkDir string
	Logger  logging.Logger
}

// ModelAgent integrates with language models to provide conversational and
// tool-calling capabilities behind the uniform core.Agent contract.
//
// Invoke drives a synchronous loop: the model is asked for a completion; if
// it requests capability calls they are executed one at a time, their results
// fed back, and the model asked again. The loop ends when the model produces
// a plain assistant message, which is appended to the input state.
//
// Capability failures (ToolError) are contained: the error text flows back to
// the model as a function response and the turn continues, normally ending in
// an assistant message that narrates the failure. Only total inability to
// reach the model surfaces as *core.TerminalAgentError.
type ModelAgent struct {
	BaseAgent
	llm           model.Model
	instruction   Instruction
	tools         map[string]tool.Tool
	maxModelCalls int
	toolTimeout   time.Duration
	maxHistory    int
	artifacts     core.ArtifactStore
	continuations core.ContinuationStore
	workDir       string
	logger        logging.Logger
}

// NewModelAgent creates a new model-based agent with sensible defaults:
// specialized type, a generic assistant instruction, a 10 call model budget
// per turn and a 15 second timeout per tool call.
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Type:          core.AgentTypeSpecialized,
		Instruction:   NewInstructionFromText(fmt.Sprintf("You are %s, a helpful assistant.", name)),
		MaxModelCalls: 10,
		ToolTimeout:   15 * time.Second,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	a := &ModelAgent{
		BaseAgent:     NewBaseAgent(name, opts.Type),
		llm:           llm,
		instruction:   opts.Instruction,
		tools:         make(map[string]tool.Tool),
		maxModelCalls: opts.MaxModelCalls,
		toolTimeout:   opts.ToolTimeout,
		maxHistory:    opts.MaxHistoryMessages,
		artifacts:     opts.Artifacts,
		continuations: opts.Continuations,
		workDir:       opts.WorkDir,
		logger:        opts.Logger,
	}
	if opts.Description != "" {
		a.SetDescription(opts.Description)
	}
	if opts.Icon != "" {
		a.SetIcon(opts.Icon)
	}
	a.RegisterTools(opts.Tools...)

	return a
}

// RegisterTool adds a capability to the agent's tool set.
func (a *ModelAgent) RegisterTool(t tool.Tool) {
	a.tools[t.Name()] = t
}

// RegisterTools adds multiple tools to the agent's capability set.
func (a *ModelAgent) RegisterTools(tools ...tool.Tool) {
	for _, t := range tools {
		a.RegisterTool(t)
	}
}

// HasTool checks if a tool is registered with the agent.
func (a *ModelAgent) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// ListTools returns the names of all registered tools in sorted order.
func (a *ModelAgent) ListTools() []string {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTool retrieves a specific tool by name.
func (a *ModelAgent) GetTool(name string) (tool.Tool, bool) {
	t, exists := a.tools[name]
	return t, exists
}

// Invoke implements core.Agent. The returned state is the input state plus
// exactly one assistant message; intermediate function call and response
// traffic stays internal to the loop.
func (a *ModelAgent) Invoke(ctx context.Context, state *core.State) (*core.State, error) {
	_, final, err := a.run(ctx, state)
	if err != nil {
		return nil, err
	}
	out := state.Clone()
	out.Append(final)
	return out, nil
}

// InvokeVerbose implements core.VerboseInvoker: the returned state retains
// every message the turn produced, function calls and responses included,
// with the final assistant message last. Supervisors merging with full
// history call this instead of Invoke.
func (a *ModelAgent) InvokeVerbose(ctx context.Context, state *core.State) (*core.State, error) {
	working, final, err := a.run(ctx, state)
	if err != nil {
		return nil, err
	}
	working.Append(final)
	return working, nil
}

// run drives the model/tool loop. It returns the working transcript (input
// plus any function call and response traffic) and the final assistant
// message, which is not yet appended to the working transcript.
func (a *ModelAgent) run(ctx context.Context, state *core.State) (*core.State, core.Message, error) {
	instructions, err := a.resolveInstructions(state)
	if err != nil {
		return nil, core.Message{}, fmt.Errorf("agent %q: resolve instructions: %w", a.Name(), err)
	}

	working := state.Clone()
	limiter := core.NewCallLimiter(a.maxModelCalls)

	for {
		if err := limiter.Increment(); err != nil {
			return nil, core.Message{}, fmt.Errorf("agent %q: %w", a.Name(), err)
		}

		req := model.Request{
			Instructions: instructions,
			Messages:     a.trimHistory(working.Messages),
			Tools:        a.toolDefinitions(),
		}

		start := time.Now()
		resp, err := a.llm.Generate(ctx, req)
		if err != nil {
			a.logger.Error("agent.model.error", "agent", a.Name(), "error", err.Error())
			return nil, core.Message{}, &core.TerminalAgentError{Agent: a.Name(), Err: err}
		}
		a.logger.Debug("agent.model.response",
			"agent", a.Name(),
			"finish_reason", resp.FinishReason,
			"duration_ms", time.Since(start).Milliseconds(),
		)

		msg := resp.Message
		msg.Author = a.Name()
		msg.Role = core.RoleAssistant

		calls := msg.GetFunctionCalls()
		if len(calls) == 0 {
			return working, msg, nil
		}

		working.Append(msg)

		// One capability at a time: calls run strictly in request order,
		// each completing before the next starts.
		for _, call := range calls {
			result, callErr := a.executeCall(ctx, call)
			working.Append(core.NewFunctionResponseMessage(a.Name(), call.ID, call.Name, result, callErr))
		}
	}
}

// executeCall runs a single capability invocation. All failures, including
// unknown tools and bad arguments, are returned as errors for containment in
// a function response; they never abort the turn.
func (a *ModelAgent) executeCall(ctx context.Context, call core.FunctionCall) (any, error) {
	t, exists := a.tools[call.Name]
	if !exists {
		return nil, fmt.Errorf("tool %s not found", call.Name)
	}

	args := make(map[string]any)
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return nil, fmt.Errorf("failed to unmarshal args: %w", err)
		}
	}

	callCtx := ctx
	if a.toolTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.toolTimeout)
		defer cancel()
	}

	key, ok := core.ConversationFromContext(ctx)
	if !ok {
		key = core.ConversationKey{AgentID: a.Name()}
	}

	toolCtx := tool.NewContext(callCtx, key, a.Name(), call.ID, func(o *tool.ContextOptions) {
		o.Artifacts = a.artifacts
		o.Continuations = a.continuations
		o.WorkDir = a.workDir
		o.Logger = a.logger
	})

	return t.Call(toolCtx, args)
}

// resolveInstructions produces the final system prompt by resolving the
// instruction source then rendering template variables.
func (a *ModelAgent) resolveInstructions(state *core.State) (string, error) {
	text, err := a.instruction.Resolve(state)
	if err != nil {
		return "", err
	}
	return util.RenderTemplate(text, map[string]any{
		"agent_name":  a.Name(),
		"agent_icon":  a.Icon(),
		"description": a.Description(),
	})
}

// trimHistory drops the oldest messages beyond the configured window.
func (a *ModelAgent) trimHistory(messages []core.Message) []core.Message {
	if a.maxHistory <= 0 || len(messages) <= a.maxHistory {
		return messages
	}
	return messages[len(messages)-a.maxHistory:]
}

// toolDefinitions exposes the registered tools to the model in sorted order.
func (a *ModelAgent) toolDefinitions() []model.ToolDefinition {
	if len(a.tools) == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, 0, len(a.tools))
	for _, name := range a.ListTools() {
		t := a.tools[name]
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}
