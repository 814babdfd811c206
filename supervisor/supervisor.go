package supervisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentmux/agentmux/agent"
	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/logging"
	"github.com/agentmux/agentmux/model"
)

// OutputMode controls what a supervisor turn contributes to the transcript.
type OutputMode string

const (
	// OutputModeFullHistory keeps everything the members produced during the
	// turn, including intermediate assistant messages.
	OutputModeFullHistory OutputMode = "full_history"
	// OutputModeLastMessage keeps only the final message of the turn on top
	// of the input transcript.
	OutputModeLastMessage OutputMode = "last_message"
)

// Options configures a Supervisor.
type Options struct {
	Description string
	Icon        string
	// Instruction is prepended to the generated member roster in the
	// coordinator's system prompt.
	Instruction string
	OutputMode  OutputMode
	// MaxModelCalls caps coordinator model calls per turn; 0 means unlimited.
	MaxModelCalls int
	Logger        logging.Logger
}

// Supervisor is a coordinating agent. It satisfies core.Agent, so supervisors
// nest: a supervisor can be a member of another supervisor.
type Supervisor struct {
	agent.BaseAgent
	llm         model.Model
	members     map[string]core.Agent
	memberOrder []string
	instruction string
	outputMode  OutputMode
	maxCalls    int
	logger      logging.Logger
}

// New composes a supervisor over the given members. The member set is fixed
// at construction; an empty set is a configuration mistake and rejected.
func New(name string, llm model.Model, members []core.Agent, optFns ...func(o *Options)) (*Supervisor, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("supervisor %q requires at least one member", name)
	}

	opts := Options{
		Instruction:   "You are a supervisor coordinating a team of agents. Decide which member should handle the user's request and delegate to it. Answer directly only when no member fits.",
		OutputMode:    OutputModeFullHistory,
		MaxModelCalls: 10,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	s := &Supervisor{
		BaseAgent:   agent.NewBaseAgent(name, core.AgentTypeSupervisor),
		llm:         llm,
		members:     make(map[string]core.Agent, len(members)),
		memberOrder: make([]string, 0, len(members)),
		instruction: opts.Instruction,
		outputMode:  opts.OutputMode,
		maxCalls:    opts.MaxModelCalls,
		logger:      opts.Logger,
	}
	for _, m := range members {
		if _, dup := s.members[m.Name()]; dup {
			return nil, fmt.Errorf("supervisor %q: duplicate member %q", name, m.Name())
		}
		s.members[m.Name()] = m
		s.memberOrder = append(s.memberOrder, m.Name())
	}

	if opts.Description != "" {
		s.SetDescription(opts.Description)
	} else {
		s.SetDescription(fmt.Sprintf("Supervisor routing between: %s", strings.Join(s.memberOrder, ", ")))
	}
	if opts.Icon != "" {
		s.SetIcon(opts.Icon)
	}

	return s, nil
}

// Members returns the member names in composition order.
func (s *Supervisor) Members() []string {
	out := make([]string, len(s.memberOrder))
	copy(out, s.memberOrder)
	return out
}

// OutputMode returns the configured transcript merge mode.
func (s *Supervisor) OutputMode() OutputMode { return s.outputMode }

// Invoke implements core.Agent. The coordinator model is asked who should
// handle the turn; delegations run synchronously one at a time until the
// coordinator produces a final answer.
func (s *Supervisor) Invoke(ctx context.Context, state *core.State) (*core.State, error) {
	start := time.Now()
	instructions := s.systemPrompt()
	limiter := core.NewCallLimiter(s.maxCalls)

	// conversation is the user-visible transcript; coordLog holds the
	// coordinator's delegation traffic, which stays internal to the turn.
	conversation := state.Clone()
	var coordLog []core.Message

	for {
		if err := limiter.Increment(); err != nil {
			return nil, fmt.Errorf("supervisor %q: %w", s.Name(), err)
		}

		req := model.Request{
			Instructions: instructions,
			Messages:     append(append([]core.Message{}, conversation.Messages...), coordLog...),
			Tools:        []model.ToolDefinition{delegateToolDefinition(s.memberOrder)},
		}

		resp, err := s.llm.Generate(ctx, req)
		if err != nil {
			s.logger.Error("supervisor.model.error", "supervisor", s.Name(), "error", err.Error())
			return nil, &core.TerminalAgentError{Agent: s.Name(), Err: err}
		}

		msg := resp.Message
		msg.Author = s.Name()
		msg.Role = core.RoleAssistant

		calls := msg.GetFunctionCalls()
		if len(calls) == 0 {
			conversation.Append(msg)
			s.logger.Info("supervisor.dispatch.complete",
				"supervisor", s.Name(),
				"hops", limiter.Count(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return s.merge(state, conversation), nil
		}

		coordLog = append(coordLog, msg)

		// One delegation at a time; extra calls in the same response are
		// answered with an error so the coordinator retries sequentially.
		call := calls[0]
		for _, extra := range calls[1:] {
			coordLog = append(coordLog, core.NewFunctionResponseMessage(
				s.Name(), extra.ID, extra.Name, nil,
				errors.New("one delegation at a time; repeat this call after the first completes")))
		}

		target, err := parseDelegation(call)
		if err != nil {
			coordLog = append(coordLog, core.NewFunctionResponseMessage(s.Name(), call.ID, call.Name, nil, err))
			continue
		}

		member, ok := s.members[target]
		if !ok {
			return nil, &core.RoutingError{Agent: target, Members: s.Members()}
		}

		s.logger.Info("supervisor.delegate", "supervisor", s.Name(), "member", target)

		next, err := s.invokeMember(ctx, member, conversation)
		if err != nil {
			var term *core.TerminalAgentError
			if errors.As(err, &term) {
				// Member outage is contained: report it to the coordinator
				// and let it reroute or answer on its own. With full history
				// the failure is also recorded in the shared transcript.
				s.logger.Warn("supervisor.member.unavailable", "supervisor", s.Name(), "member", target, "error", term.Err.Error())
				if s.outputMode == OutputModeFullHistory {
					conversation.Append(core.NewAssistantMessage(s.Name(),
						fmt.Sprintf("Agent %q was unable to respond: %v", target, term.Err)))
				}
				coordLog = append(coordLog, core.NewFunctionResponseMessage(
					s.Name(), call.ID, call.Name, nil,
					fmt.Errorf("agent %q is currently unavailable: %v", target, term.Err)))
				continue
			}
			return nil, fmt.Errorf("supervisor %q: member %q: %w", s.Name(), target, err)
		}

		conversation = next
		result := map[string]any{"agent": target}
		if last, ok := conversation.LastMessage(); ok {
			result["response"] = last.Text()
		}
		coordLog = append(coordLog, core.NewFunctionResponseMessage(s.Name(), call.ID, call.Name, result, nil))
	}
}

// invokeMember runs one delegation. With full history the member's internal
// function call and response traffic belongs in the shared transcript, so
// members that can report it are invoked verbosely; with last-message merging
// the collapsed Invoke suffices since intermediates are discarded anyway.
func (s *Supervisor) invokeMember(ctx context.Context, member core.Agent, conversation *core.State) (*core.State, error) {
	if s.outputMode == OutputModeFullHistory {
		if v, ok := member.(core.VerboseInvoker); ok {
			return v.InvokeVerbose(ctx, conversation)
		}
	}
	return member.Invoke(ctx, conversation)
}

// systemPrompt renders the coordinator instruction plus the member roster.
func (s *Supervisor) systemPrompt() string {
	var b strings.Builder
	b.WriteString(s.instruction)
	b.WriteString("\n\nAvailable members:\n")
	for _, name := range s.memberOrder {
		fmt.Fprintf(&b, "- %s: %s\n", name, s.members[name].Description())
	}
	fmt.Fprintf(&b, "\nDelegate with the %s tool, one member at a time.", DelegateToolName)
	return b.String()
}

// merge applies the output mode to produce the successor state.
func (s *Supervisor) merge(input, conversation *core.State) *core.State {
	if s.outputMode == OutputModeLastMessage {
		out := input.Clone()
		if last, ok := conversation.LastMessage(); ok {
			out.Append(last)
		}
		return out
	}
	return conversation
}

// parseDelegation extracts and validates the delegation target argument.
func parseDelegation(call core.FunctionCall) (string, error) {
	var args struct {
		Agent string `json:"agent"`
	}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", fmt.Errorf("invalid delegation arguments: %w", err)
		}
	}
	if args.Agent == "" {
		return "", errors.New("missing required field 'agent'")
	}
	return args.Agent, nil
}
