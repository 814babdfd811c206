// Package agent contains first-class agent implementations and supporting
// utilities for building multi-agent systems. The package focuses on three
// concerns:
//
//  1. Shared identity plumbing (BaseAgent)
//  2. Model-centric conversational / tool-calling agent (ModelAgent)
//  3. Attachment-processing variants (ExcelAgent, PDFAgent)
//
// Design principles:
//   - Minimal hidden global state; explicit wiring via functional options
//   - Uniform contract: every agent satisfies core.Agent regardless of what
//     runs behind Invoke
//   - Observability via structured logging at model and tool boundaries
//
// Execution model:
//   - Invoke receives the conversation state and blocks until the turn is done
//   - ModelAgent drives a model / tool loop executing one capability at a time
//   - Attachment agents parse recognized files deterministically and replace
//     the assistant tail instead of appending to it
//
// The package intentionally keeps persistence, model specifics and tool
// abstractions in their respective packages to avoid cyclic deps.
package agent
