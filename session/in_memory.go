package session

import (
	"sync"

	"github.com/agentmux/agentmux/core"
)

// InMemoryStore is a volatile SessionStore implementation keeping transcripts
// in a process local map keyed by conversation. It is safe for concurrent
// access and best suited for tests or ephemeral demo servers. Returned
// message slices are copies to prevent external mutation of internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	history map[core.ConversationKey][]core.Message
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{history: make(map[core.ConversationKey][]core.Message)}
}

// Messages returns a snapshot of the transcript for the conversation. An
// unknown key yields an empty slice, never an error: conversations come into
// existence on first append.
func (s *InMemoryStore) Messages(key core.ConversationKey) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.history[key]
	cp := make([]core.Message, len(msgs))
	copy(cp, msgs)
	return cp, nil
}

// Append adds messages to the end of the conversation transcript.
func (s *InMemoryStore) Append(key core.ConversationKey, messages ...core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[key] = append(s.history[key], messages...)
	return nil
}

// Reset discards the transcript of the conversation.
func (s *InMemoryStore) Reset(key core.ConversationKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, key)
	return nil
}
