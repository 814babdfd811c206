package core

import "context"

type conversationKeyCtx struct{}

// WithConversation attaches the conversation identity to the context so
// agents and tools invoked downstream can scope their storage access.
func WithConversation(ctx context.Context, key ConversationKey) context.Context {
	return context.WithValue(ctx, conversationKeyCtx{}, key)
}

// ConversationFromContext returns the conversation identity attached by
// WithConversation, or false when the context carries none.
func ConversationFromContext(ctx context.Context) (ConversationKey, bool) {
	key, ok := ctx.Value(conversationKeyCtx{}).(ConversationKey)
	return key, ok
}
