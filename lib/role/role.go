// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// Package role derives mutation capabilities from identity
// comparison. The remote authority enforces permissions; this package
// only decides which affordances the client should enable, so a wrong
// answer here degrades to a rejected request, never to a privilege
// escalation.
//
// Results are plain value comparisons with no caching. Callers must
// recompute whenever the caller identity or the compared entity
// changes — a stale comparison silently under- or over-grants.
package role

import "github.com/parlor-foundation/parlor/lib/ref"

// Capabilities enumerates the affordances the client may enable for
// one caller against one entity.
type Capabilities struct {
	// Rename allows renaming the entity.
	Rename bool

	// Delete allows deleting the entity.
	Delete bool

	// Edit allows editing the entity's content. For session
	// documents this is independent of the locked flag, which the
	// edit coordinator checks separately.
	Edit bool

	// ToggleLock allows locking and unlocking a session document.
	ToggleLock bool

	// ViewPrivate allows seeing a player document whose private flag
	// is set.
	ViewPrivate bool
}

// ForChannel computes capabilities for a host-created channel. Only
// the session host manages these.
func ForChannel(caller, host ref.Identity) Capabilities {
	isHost := caller == host && !caller.IsZero()
	return Capabilities{
		Rename: isHost,
		Delete: isHost,
	}
}

// ForMembersChannel computes capabilities for a member-created
// channel: the creator manages their own channel, and the host may
// moderate any.
func ForMembersChannel(caller, host, creator ref.Identity) Capabilities {
	allowed := !caller.IsZero() && (caller == creator || caller == host)
	return Capabilities{
		Rename: allowed,
		Delete: allowed,
	}
}

// ForDocument computes capabilities for a session document. Any
// member may edit (the locked flag is enforced elsewhere); renaming
// and deleting belong to the creator and the host; the lock toggle is
// the host's moderation tool.
func ForDocument(caller, host, creator ref.Identity) Capabilities {
	if caller.IsZero() {
		return Capabilities{}
	}
	manage := caller == creator || caller == host
	return Capabilities{
		Edit:       true,
		Rename:     manage,
		Delete:     manage,
		ToggleLock: caller == host,
	}
}

// ForPlayerDocument computes capabilities for an owner-scoped player
// document. The owner holds every mutation right; the host may view
// a private document for moderation but never edit it.
func ForPlayerDocument(caller, host, owner ref.Identity) Capabilities {
	if caller.IsZero() {
		return Capabilities{}
	}
	isOwner := caller == owner
	return Capabilities{
		Edit:        isOwner,
		Rename:      isOwner,
		Delete:      isOwner,
		ViewPrivate: isOwner || caller == host,
	}
}
