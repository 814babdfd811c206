package core

// State is the shared conversation transcript passed into and returned from
// every dispatch. Messages are strictly ordered by production sequence; no
// reordering or speculative execution is permitted.
//
// State values are not safe for concurrent mutation. Each Invoke call must
// operate on its own State; Clone produces an independent copy for that
// purpose.
type State struct {
	Messages []Message `json:"messages"`
}

// NewState creates a state seeded with the given messages.
func NewState(messages ...Message) *State {
	s := &State{Messages: make([]Message, len(messages))}
	copy(s.Messages, messages)
	return s
}

// Clone returns an independent copy of the state. Message values are shared
// (they are treated as immutable after construction); only the slice is
// duplicated.
func (s *State) Clone() *State {
	return NewState(s.Messages...)
}

// Append adds messages to the end of the transcript.
func (s *State) Append(messages ...Message) {
	s.Messages = append(s.Messages, messages...)
}

// LastMessage returns the newest message, if any.
func (s *State) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// LastUserMessage scans the transcript in reverse for the most recent user
// message. Attachment agents use this to locate the input of the current turn.
func (s *State) LastUserMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// LastContinuationID scans the transcript in reverse for the newest assistant
// message carrying a continuation handle.
func (s *State) LastContinuationID() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m.Role != RoleAssistant {
			continue
		}
		if id := m.ContinuationID(); id != "" {
			return id
		}
	}
	return ""
}

// ReplaceAssistantTail implements the attachment-agent merge contract: all
// prior user messages are kept in order, all prior assistant and tool
// messages are dropped, and the given assistant message is appended. The
// receiver is left untouched; a new State is returned.
func (s *State) ReplaceAssistantTail(reply Message) *State {
	next := &State{Messages: make([]Message, 0, len(s.Messages)+1)}
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			next.Messages = append(next.Messages, m)
		}
	}
	next.Messages = append(next.Messages, reply)
	return next
}
