// Package runner bridges external callers and agents: it loads the
// conversation transcript from the session store, applies the caller's
// message, drives the agent's synchronous Invoke, and persists the resulting
// transcript.
//
// The runner owns the persistence contract so agents stay stateless between
// turns. A terminal agent failure is absorbed into a canned assistant message
// rather than surfaced to the caller; everything else propagates.
package runner
