// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// Package remote is the typed HTTP client for the Parlor remote
// authority.
//
// The authority owns all durable truth: sessions, channels, messages,
// documents, revisions, and locks. This client only reads and
// compares that state — it never increments a revision or clears a
// lock itself.
//
// Errors fall into two classes callers must treat differently:
//
//   - [RejectionError]: the authority refused a write and returned a
//     human-readable reason. The message is opaque — display it
//     verbatim, never parse it for control flow.
//   - everything else: transport failure. The caller keeps its
//     previous snapshot and tries again on its own schedule.
package remote
