package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/logging"
	"github.com/agentmux/agentmux/session"
)

// DefaultUnavailableMessage is the canned reply persisted when the agent
// terminally fails for a turn.
const DefaultUnavailableMessage = "I am temporarily unable to respond. Please try again in a moment."

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	// SessionStore persists conversation transcripts between turns.
	SessionStore core.SessionStore
	// UnavailableMessage overrides the canned reply for terminal failures.
	UnavailableMessage string
	// Logging services.
	Logger logging.Logger
}

// Runner coordinates conversation turns for a single root agent: loads
// history, invokes the agent, persists the successor transcript. Public
// methods are safe for concurrent use as long as distinct conversations are
// not interleaved on the same key.
type Runner struct {
	agent       core.Agent
	sessions    core.SessionStore
	unavailable string
	logger      logging.Logger
}

// New constructs a Runner with optional overrides. Without a session store
// override, transcripts live in process memory.
func New(agent core.Agent, optFns ...func(o *Options)) *Runner {
	opts := Options{
		SessionStore:       session.NewInMemoryStore(),
		UnavailableMessage: DefaultUnavailableMessage,
		Logger:             logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Runner{
		agent:       agent,
		sessions:    opts.SessionStore,
		unavailable: opts.UnavailableMessage,
		logger:      opts.Logger,
	}
}

// Turn runs one conversation turn for userID: the stored transcript plus msg
// is handed to the agent, the result is persisted, and the newest assistant
// message returned.
//
// A *core.TerminalAgentError from the agent does not fail the turn; the
// canned unavailable message is persisted and returned instead, so the
// conversation stays consistent and the caller can retry. All other errors,
// including routing and configuration failures, are surfaced verbatim and
// leave the stored transcript untouched: those indicate a misbehaving or
// misconfigured graph, which a retry of the same input cannot narrate away.
func (r *Runner) Turn(ctx context.Context, userID string, msg core.Message) (core.Message, error) {
	key := core.ConversationKey{AgentID: r.agent.Name(), UserID: userID}

	history, err := r.sessions.Messages(key)
	if err != nil {
		return core.Message{}, fmt.Errorf("load session %s: %w", key, err)
	}

	state := core.NewState(history...)
	state.Append(msg)

	start := time.Now()
	out, err := r.agent.Invoke(core.WithConversation(ctx, key), state)
	if err != nil {
		var term *core.TerminalAgentError
		if !errors.As(err, &term) {
			return core.Message{}, fmt.Errorf("agent %q: %w", r.agent.Name(), err)
		}
		r.logger.Warn("runner.turn.unavailable",
			"agent", term.Agent,
			"conversation", key.String(),
			"error", term.Err.Error(),
		)
		out = state.Clone()
		out.Append(core.NewAssistantMessage(r.agent.Name(), r.unavailable))
	}

	if err := r.persist(key, history, out); err != nil {
		return core.Message{}, fmt.Errorf("persist session %s: %w", key, err)
	}

	r.logger.Info("runner.turn.complete",
		"agent", r.agent.Name(),
		"conversation", key.String(),
		"messages", len(out.Messages),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	reply, ok := out.LastMessage()
	if !ok {
		return core.Message{}, fmt.Errorf("agent %q returned an empty transcript", r.agent.Name())
	}
	return reply, nil
}

// History returns the stored transcript for userID's conversation with the
// runner's agent.
func (r *Runner) History(userID string) ([]core.Message, error) {
	key := core.ConversationKey{AgentID: r.agent.Name(), UserID: userID}
	return r.sessions.Messages(key)
}

// Reset clears the stored transcript for userID's conversation.
func (r *Runner) Reset(userID string) error {
	key := core.ConversationKey{AgentID: r.agent.Name(), UserID: userID}
	return r.sessions.Reset(key)
}

// persist stores the successor transcript. When the result extends the
// stored history only the new messages are appended; attachment agents
// rewrite history, in which case the stored transcript is replaced wholesale.
func (r *Runner) persist(key core.ConversationKey, stored []core.Message, out *core.State) error {
	if extendsPrefix(stored, out.Messages) {
		return r.sessions.Append(key, out.Messages[len(stored):]...)
	}
	if err := r.sessions.Reset(key); err != nil {
		return err
	}
	return r.sessions.Append(key, out.Messages...)
}

// extendsPrefix reports whether next begins with exactly the messages of
// prev, compared by ID.
func extendsPrefix(prev, next []core.Message) bool {
	if len(next) < len(prev) {
		return false
	}
	for i := range prev {
		if prev[i].ID != next[i].ID {
			return false
		}
	}
	return true
}
