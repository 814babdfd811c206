// Package registry provides the process-wide agent catalog: registration,
// lookup, listing and removal of agents by unique name, plus supervisor
// construction over registered subsets.
//
// The registry is an explicit, injectable object with internal locking; it is
// never consulted through ambient globals. Registration is last-write-wins:
// re-registering a name replaces the prior agent (with a warning) and keeps
// its listing position.
package registry
