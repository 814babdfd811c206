// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Normalize tool / function call representation (ToolDefinition)
//   - Block until a complete response is available; partial output never
//     reaches the orchestration layer
//   - Facilitate deterministic testing (ScriptedModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (agents, supervisors) remain decoupled from
// vendor SDKs.
package model
