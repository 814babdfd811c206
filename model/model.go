package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentmux/agentmux/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by agents.
type Request struct {
	Instructions string           `json:"instructions"` // System instructions for the model
	Messages     []core.Message   `json:"messages"`     // Conversation history converted to provider messages
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed output of one model call. Message carries text
// parts, function call parts or both; FinishReason mirrors the provider's
// stop reason ("stop", "length", "tool_calls", etc.).
type Response struct {
	ID           string       `json:"id"`
	Message      core.Message `json:"message"`
	FinishReason string       `json:"finish_reason"`
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by agents to drive generation.
// Generate blocks until the provider returns a complete response or ctx is
// done; an error return means the call produced nothing usable.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel is a deterministic in-memory Model for tests and examples.
//
// Two modes compose: a script of responses consumed in order (useful for
// tool calling flows) and a prompt->completion map consulted when the script
// is exhausted. A configured failure error takes precedence over both,
// simulating an unreachable provider.
type ScriptedModel struct {
	mu        sync.Mutex
	info      Info
	script    []Response
	responses map[string]string
	failWith  error
	requests  []Request
}

// NewScriptedModel constructs a ScriptedModel with tool support enabled.
func NewScriptedModel(name string) *ScriptedModel {
	return &ScriptedModel{
		info: Info{
			Name:          name,
			Provider:      "scripted",
			SupportsTools: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *ScriptedModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Enqueue appends responses to the script. Scripted responses are served in
// FIFO order before any prompt lookup.
func (m *ScriptedModel) Enqueue(responses ...Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, responses...)
}

// FailWith makes every subsequent Generate call return err. Pass nil to clear.
func (m *ScriptedModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Requests returns a copy of all requests seen so far, for assertions.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Model.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.failWith != nil {
		return nil, m.failWith
	}

	if len(m.script) > 0 {
		resp := m.script[0]
		m.script = m.script[1:]
		return &resp, nil
	}

	var inputText string
	if len(req.Messages) > 0 {
		inputText = req.Messages[len(req.Messages)-1].Text()
	}
	full, ok := m.responses[inputText]
	if !ok {
		full = fmt.Sprintf("Scripted response to: %s", inputText)
	}

	return &Response{
		ID:           core.NewID(),
		Message:      core.NewAssistantMessage(m.info.Name, full),
		FinishReason: "stop",
	}, nil
}

// Info returns metadata describing this model implementation.
func (m *ScriptedModel) Info() Info { return m.info }

// TextResponse builds a final text response for scripting.
func TextResponse(text string) Response {
	return Response{
		ID:           core.NewID(),
		Message:      core.NewAssistantMessage("model", text),
		FinishReason: "stop",
	}
}

// ToolCallResponse builds a response requesting one function call, for
// scripting tool flows.
func ToolCallResponse(name, arguments string) Response {
	return Response{
		ID: core.NewID(),
		Message: core.NewFunctionCallMessage("model", core.FunctionCall{
			ID:        core.NewID(),
			Name:      name,
			Arguments: arguments,
		}),
		FinishReason: "tool_calls",
	}
}
