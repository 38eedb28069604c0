// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// Package sync keeps the client's view of a session converged with
// the remote authority by polling.
//
// The pieces:
//
//   - [Poller]: one fetch loop per active resource [Key], publishing
//     [Snapshot] records. Slow fetches skip ticks instead of queuing
//     them; a manual [Poller.Refresh] fetches immediately and resets
//     the tick clock.
//   - [Draft]: the edit state machine for the open document —
//     Clean, Dirty, Saving — deciding when polled content replaces
//     the visible draft and when it is shadowed.
//   - [ResolveReply]: single-hop reply lookup in the loaded message
//     window.
//   - [Orchestrator]: owns the active view and the live draft, wires
//     mutations to the authority, and refreshes the affected keys
//     after each successful write.
//
// The authority is the only writer of document revisions and locks.
// Everything here reads, compares, and re-fetches; nothing guesses.
package sync
