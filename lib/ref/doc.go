// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref defines the identifier types used across the Parlor
// client: numeric entity identifiers assigned by the remote authority
// and the opaque caller identity string.
//
// Entity identifiers are plain uint64 wrappers. The remote authority
// is the only component that mints them; the client never invents or
// arithmetically manipulates an identifier, it only compares and
// forwards them. Zero is never a valid assigned identifier, so the
// zero value doubles as "absent".
package ref
