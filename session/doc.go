// Package session houses concrete implementations of core.SessionStore.
// The interface itself (and the ConversationKey) live in the core package
// to centralize domain contracts. Keeping only implementations here prevents
// higher level packages (agents, registry) from depending on concrete storage.
//
// Add additional backends (Redis, Postgres, etc.) in sub-packages without
// changing any calling code; only the wiring layer decides which
// implementation to instantiate.
package session
