package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentmux/agentmux/continuation"
	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/model"
)

// attachmentAgent implements the merge contract shared by document
// processing agents: the reply REPLACES the assistant tail of the transcript
// instead of appending to it. User messages are always preserved in order.
//
// Turn resolution, in priority order:
//  1. The newest user message carries a recognized attachment: parse it
//     deterministically, store the parsed content under a continuation
//     handle and reply with a summary carrying that handle.
//  2. The transcript carries a continuation handle from an earlier turn:
//     answer the follow-up question against the stored content. Expired or
//     unknown handles produce a reply asking the user to re-upload.
//  3. Neither: fall through to plain ModelAgent behavior (append one
//     assistant message).
type attachmentAgent struct {
	*ModelAgent
	docNoun    string // "workbook", "PDF document"; used in narrated replies
	recognizes func(core.FileRef) bool
	parse      func(core.FileRef) (string, error)
}

// Invoke implements core.Agent with the replace-tail merge described above.
func (a *attachmentAgent) Invoke(ctx context.Context, state *core.State) (*core.State, error) {
	if last, ok := state.LastUserMessage(); ok {
		if file, hasFile := last.Attachment(); hasFile && a.recognizes(file) {
			return a.processAttachment(state, file), nil
		}
	}

	if id := state.LastContinuationID(); id != "" {
		return a.processFollowUp(ctx, state, id)
	}

	return a.ModelAgent.Invoke(ctx, state)
}

// InvokeVerbose implements core.VerboseInvoker. Attachment turns are
// deterministic with no internal function traffic, so the replaced transcript
// already is the full story; this override keeps full-history supervisors
// from reaching the embedded ModelAgent loop and skipping attachment
// handling.
func (a *attachmentAgent) InvokeVerbose(ctx context.Context, state *core.State) (*core.State, error) {
	return a.Invoke(ctx, state)
}

// processAttachment parses the file without any model involvement. Parse
// failures are contained as a narrated reply; the turn always succeeds.
func (a *attachmentAgent) processAttachment(state *core.State, file core.FileRef) *core.State {
	content, err := a.parse(file)
	if err != nil {
		a.logger.Warn("agent.attachment.parse_failed", "agent", a.Name(), "file", file.Name, "error", err.Error())
		reply := core.NewAssistantMessage(a.Name(),
			fmt.Sprintf("I could not read %q as a %s: %v. Please check the file and upload it again.", file.Name, a.docNoun, err))
		return state.ReplaceAssistantTail(reply)
	}

	reply := core.NewAssistantMessage(a.Name(), content)

	if a.continuations != nil {
		id, putErr := a.continuations.Put(content)
		if putErr != nil {
			a.logger.Warn("agent.attachment.continuation_failed", "agent", a.Name(), "error", putErr.Error())
		} else {
			reply.Parts = append(reply.Parts, core.DataPart{Data: map[string]any{core.ContinuationKey: id}})
		}
	}

	a.logger.Info("agent.attachment.processed", "agent", a.Name(), "file", file.Name)

	return state.ReplaceAssistantTail(reply)
}

// processFollowUp answers a question about previously parsed content. The
// reply re-attaches the continuation handle so later follow-ups keep working
// after the assistant tail is replaced.
func (a *attachmentAgent) processFollowUp(ctx context.Context, state *core.State, id string) (*core.State, error) {
	content, err := a.continuations.Get(id)
	if err != nil {
		if errors.Is(err, continuation.ErrExpired) || errors.Is(err, continuation.ErrNotFound) {
			reply := core.NewAssistantMessage(a.Name(),
				fmt.Sprintf("The %s from earlier in this conversation is no longer available. Please upload it again.", a.docNoun))
			return state.ReplaceAssistantTail(reply), nil
		}
		return nil, fmt.Errorf("agent %q: continuation lookup: %w", a.Name(), err)
	}

	instructions, err := a.resolveInstructions(state)
	if err != nil {
		return nil, fmt.Errorf("agent %q: resolve instructions: %w", a.Name(), err)
	}
	instructions = fmt.Sprintf("%s\n\nThe user previously uploaded a %s. Its extracted content:\n\n%v", instructions, a.docNoun, content)

	resp, err := a.llm.Generate(ctx, model.Request{
		Instructions: instructions,
		Messages:     a.trimHistory(userMessages(state)),
	})
	if err != nil {
		return nil, &core.TerminalAgentError{Agent: a.Name(), Err: err}
	}

	reply := resp.Message
	reply.Author = a.Name()
	reply.Role = core.RoleAssistant
	reply.Parts = append(reply.Parts, core.DataPart{Data: map[string]any{core.ContinuationKey: id}})

	return state.ReplaceAssistantTail(reply), nil
}

// userMessages filters the transcript down to user turns for follow-up
// generation; stale assistant output is about to be replaced anyway.
func userMessages(state *core.State) []core.Message {
	var out []core.Message
	for _, m := range state.Messages {
		if m.Role == core.RoleUser {
			out = append(out, m)
		}
	}
	return out
}
