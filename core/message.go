package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Conversation roles used throughout the dispatch pipeline.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	RoleSystem    = "system"
)

// ContinuationKey is the DataPart key under which attachment agents store the
// handle of previously processed content for follow-up turns.
const ContinuationKey = "continuation_id"

// Message is the unit of conversation state. After construction it should be
// treated as immutable: dispatch produces new messages, it never rewrites
// delivered ones.
//
// Author identifies the producer (an agent name, or "user" for inbound
// messages); Role drives model serialization and transcript filtering.
type Message struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Role      string    `json:"role"`
	Parts     []Part    `json:"parts"`
	Timestamp time.Time `json:"timestamp"`
}

// NewID generates a unique identifier for messages and function calls.
func NewID() string { return uuid.NewString() }

// NewMessage creates a bare message authored by author with the given role.
// Prefer the semantic constructors below for common message categories.
func NewMessage(author, role string) Message {
	return Message{
		ID:        NewID(),
		Author:    author,
		Role:      role,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message {
	m := NewMessage(RoleUser, RoleUser)
	m.Parts = []Part{TextPart{Text: text}}
	return m
}

// NewUserFileMessage creates a user message carrying text plus an attachment.
func NewUserFileMessage(text string, file FileRef) Message {
	m := NewMessage(RoleUser, RoleUser)
	if text != "" {
		m.Parts = append(m.Parts, TextPart{Text: text})
	}
	m.Parts = append(m.Parts, FilePart{File: file})
	return m
}

// NewAssistantMessage creates an assistant text message attributed to author.
func NewAssistantMessage(author, text string) Message {
	m := NewMessage(author, RoleAssistant)
	m.Parts = []Part{TextPart{Text: text}}
	return m
}

// NewFunctionCallMessage records a model requesting execution of capabilities.
func NewFunctionCallMessage(author string, calls ...FunctionCall) Message {
	m := NewMessage(author, RoleAssistant)
	for _, fc := range calls {
		m.Parts = append(m.Parts, FunctionCallPart{FunctionCall: fc})
	}
	return m
}

// NewFunctionResponseMessage records the completion result (or error) of a
// capability invocation.
func NewFunctionResponseMessage(author, id, name string, result any, err error) Message {
	m := NewMessage(author, RoleTool)
	fr := FunctionResponse{ID: id, Name: name, Response: result}
	if err != nil {
		fr.Error = err.Error()
	}
	m.Parts = []Part{FunctionResponsePart{FunctionResponse: fr}}
	return m
}

// Text concatenates all text parts of the message preserving order.
func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// GetFunctionCalls returns any FunctionCall parts in original order.
func (m Message) GetFunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, p := range m.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}

// GetFunctionResponses returns any FunctionResponse parts in original order.
func (m Message) GetFunctionResponses() []FunctionResponse {
	var responses []FunctionResponse
	for _, p := range m.Parts {
		if fr, ok := p.(FunctionResponsePart); ok {
			responses = append(responses, fr.FunctionResponse)
		}
	}
	return responses
}

// Attachment returns the first file attachment of the message, if any.
func (m Message) Attachment() (FileRef, bool) {
	for _, p := range m.Parts {
		if fp, ok := p.(FilePart); ok {
			return fp.File, true
		}
	}
	return FileRef{}, false
}

// ContinuationID returns the continuation handle stored in a DataPart
// side-channel, or "" when the message carries none.
func (m Message) ContinuationID() string {
	for _, p := range m.Parts {
		dp, ok := p.(DataPart)
		if !ok {
			continue
		}
		if id, ok := dp.Data[ContinuationKey].(string); ok {
			return id
		}
	}
	return ""
}
