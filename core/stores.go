package core

import "fmt"

// ConversationKey identifies one conversation: the agent serving it and the
// user owning it. Persistence layers scope all reads and writes by this pair;
// no state ever crosses conversations.
type ConversationKey struct {
	AgentID string
	UserID  string
}

// String renders the key in agent/user form for logging.
func (k ConversationKey) String() string {
	return fmt.Sprintf("%s/%s", k.AgentID, k.UserID)
}

// SessionStore defines persistence for conversation transcripts. Implementations
// should be thread-safe and scope messages by ConversationKey. Short method
// names (Messages/Append/Reset) mirror other store interfaces for consistency.
type SessionStore interface {
	Messages(key ConversationKey) ([]Message, error)
	Append(key ConversationKey, messages ...Message) error
	Reset(key ConversationKey) error
}

// ArtifactStore defines the interface for artifact persistence. Implementations
// should be thread-safe and scope artifacts by conversation.
type ArtifactStore interface {
	Save(key ConversationKey, artifactID string, data []byte) error
	Get(key ConversationKey, artifactID string) ([]byte, error)
	List(key ConversationKey) ([]string, error)
	Delete(key ConversationKey, artifactID string) error
}

// ContinuationStore holds parsed attachment content under an opaque handle so
// follow-up turns can reference a document without re-uploading it. Entries
// expire; Get distinguishes expired handles from unknown ones via the
// sentinel errors of the implementing package.
type ContinuationStore interface {
	Put(content any) (string, error)
	Get(id string) (any, error)
}
