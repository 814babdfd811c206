// Package core defines the shared contracts of the AgentMux orchestration
// backend: the Agent invocation interface, the conversation State and its
// polymorphic message Parts, the typed error taxonomy used across package
// boundaries, and small shared primitives such as ID generation and call
// budgeting.
//
// Everything in this package is deliberately free of provider or transport
// concerns. Higher layers (agent, supervisor, registry, runner) depend on
// core; core depends on nothing but the standard library, uuid and the
// logging facade.
package core
