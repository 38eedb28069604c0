// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// Package localstate persists client-owned state under the configured
// state directory: preferences, the sticker set, the quick-chat
// profile, the last session context, and the cached session template.
//
// None of this exists on the remote authority. Files are CBOR (via
// lib/codec) and written atomically — temporary file, fsync, rename —
// so a crash mid-write leaves the previous version intact. A corrupt
// file never fails a load: preferences fall back to defaults, the
// quick-chat profile is cleared, the template cache reads as absent.
// Losing local state must always be survivable.
//
// A single Store owns the directory. Callers create it at startup and
// pass it where needed; nothing here is package-global.
package localstate
