// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "strconv"

// SessionID identifies a session on the remote authority.
type SessionID uint64

// String returns the decimal form of the identifier.
func (id SessionID) String() string { return strconv.FormatUint(uint64(id), 10) }

// IsZero reports whether the identifier is unassigned.
func (id SessionID) IsZero() bool { return id == 0 }

// ChannelID identifies a chat channel within a session. Host-created
// channels and member-created channels draw from separate identifier
// spaces on the remote authority, so a ChannelID is only meaningful
// together with the list it came from.
type ChannelID uint64

func (id ChannelID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (id ChannelID) IsZero() bool   { return id == 0 }

// DocumentID identifies a session document or a player document.
type DocumentID uint64

func (id DocumentID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (id DocumentID) IsZero() bool   { return id == 0 }

// MessageID identifies a chat message within a channel.
type MessageID uint64

func (id MessageID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (id MessageID) IsZero() bool   { return id == 0 }

// FileID identifies an uploaded file or image reference.
type FileID uint64

func (id FileID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (id FileID) IsZero() bool   { return id == 0 }

// CommentID identifies a comment attached to a document.
type CommentID uint64

func (id CommentID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (id CommentID) IsZero() bool   { return id == 0 }
