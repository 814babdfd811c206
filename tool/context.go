package tool

import (
	"context"
	"fmt"

	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/logging"
)

// Context provides a constrained, auditable surface for tool implementations
// invoked by an agent. It carries the conversation identity, the originating
// function call ID and access to the configured stores. Tools never touch the
// transcript directly; their results flow back through function response
// messages produced by the agent.
type Context struct {
	ctx            context.Context
	key            core.ConversationKey
	agentName      string
	functionCallID string
	artifacts      core.ArtifactStore
	continuations  core.ContinuationStore
	workDir        string
	logger         logging.Logger
}

// ContextOptions configures optional services of a tool Context.
type ContextOptions struct {
	Artifacts     core.ArtifactStore
	Continuations core.ContinuationStore
	// WorkDir is the directory file-producing tools are confined to.
	WorkDir string
	Logger  logging.Logger
}

// NewContext constructs a tool context bound to a conversation and a unique
// functionCallID.
func NewContext(ctx context.Context, key core.ConversationKey, agentName, functionCallID string, optFns ...func(o *ContextOptions)) *Context {
	opts := ContextOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Context{
		ctx:            ctx,
		key:            key,
		agentName:      agentName,
		functionCallID: functionCallID,
		artifacts:      opts.Artifacts,
		continuations:  opts.Continuations,
		workDir:        opts.WorkDir,
		logger:         opts.Logger,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *Context) Context() context.Context { return tc.ctx }

// ConversationKey returns the conversation the tool invocation belongs to.
func (tc *Context) ConversationKey() core.ConversationKey { return tc.key }

// AgentName returns the agent name associated with the tool invocation.
func (tc *Context) AgentName() string { return tc.agentName }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *Context) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *Context) Logger() logging.Logger { return tc.logger }

// WorkDir returns the directory file-producing tools must stay within.
// Empty when no working directory is configured.
func (tc *Context) WorkDir() string { return tc.workDir }

// SaveArtifact persists artifact bytes scoped to the conversation.
func (tc *Context) SaveArtifact(id string, data []byte) error {
	if tc.artifacts == nil {
		return fmt.Errorf("artifact store not configured")
	}
	return tc.artifacts.Save(tc.key, id, data)
}

// LoadArtifact retrieves a persisted artifact by id.
func (tc *Context) LoadArtifact(id string) ([]byte, error) {
	if tc.artifacts == nil {
		return nil, fmt.Errorf("artifact store not configured")
	}
	return tc.artifacts.Get(tc.key, id)
}

// ListArtifacts returns artifact IDs stored for the conversation.
func (tc *Context) ListArtifacts() ([]string, error) {
	if tc.artifacts == nil {
		return nil, fmt.Errorf("artifact store not configured")
	}
	return tc.artifacts.List(tc.key)
}

// PutContinuation stores parsed content and returns the handle under which a
// later turn can retrieve it.
func (tc *Context) PutContinuation(content any) (string, error) {
	if tc.continuations == nil {
		return "", fmt.Errorf("continuation store not configured")
	}
	return tc.continuations.Put(content)
}

// GetContinuation retrieves previously stored content by handle.
func (tc *Context) GetContinuation(id string) (any, error) {
	if tc.continuations == nil {
		return nil, fmt.Errorf("continuation store not configured")
	}
	return tc.continuations.Get(id)
}

// Validate performs a structural sanity check of the context.
func (tc *Context) Validate() error {
	if tc.ctx == nil || tc.key.AgentID == "" || tc.functionCallID == "" {
		return fmt.Errorf("invalid tool context")
	}
	return nil
}
