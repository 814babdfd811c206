package core

// Part represents a polymorphic segment of a message. Concrete part types
// implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text segment.
type TextPart struct {
	Text string // Plain UTF-8 text
}

func (TextPart) isPart() {}

// DataPart is a structured data segment. Agents use it as an opaque
// side-channel, e.g. to carry a continuation handle for a previously
// processed attachment across turns.
type DataPart struct {
	Data map[string]any
}

func (DataPart) isPart() {}

// FilePart is a file attachment segment.
type FilePart struct {
	File FileRef
}

func (FilePart) isPart() {}

// FileRef describes an attached file. Bytes holds the raw contents when the
// file is inlined; URI points at external storage otherwise. MimeType drives
// attachment recognition in processing agents.
type FileRef struct {
	Name     string
	MimeType string
	Bytes    []byte
	URI      string
}

// FunctionCall describes a capability invocation request emitted by a model.
type FunctionCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"` // Serialized JSON argument payload
}

// FunctionCallPart wraps a FunctionCall as a message part.
type FunctionCallPart struct {
	FunctionCall FunctionCall
}

func (FunctionCallPart) isPart() {}

// FunctionResponse describes the outcome of a capability invocation.
type FunctionResponse struct {
	ID       string `json:"id,omitempty"` // Matches originating FunctionCall ID
	Name     string `json:"name"`
	Response any    `json:"response,omitempty"` // Successful result (any JSON-serializable shape)
	Error    string `json:"error,omitempty"`    // Populated on failure
}

// FunctionResponsePart wraps a FunctionResponse as a message part.
type FunctionResponsePart struct {
	FunctionResponse FunctionResponse
}

func (FunctionResponsePart) isPart() {}
