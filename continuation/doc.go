// Package continuation implements core.ContinuationStore: short-lived storage
// for parsed attachment content keyed by opaque handles. Attachment agents
// put parsed documents here and embed the handle in their reply so follow-up
// questions can be answered without the user re-uploading the file.
//
// Entries expire after a configurable TTL. Get distinguishes an expired
// handle (ErrExpired) from one that never existed (ErrNotFound) so agents
// can tell the user to re-upload rather than silently failing.
package continuation
