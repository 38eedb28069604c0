// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"github.com/parlor-foundation/parlor/lib/ref"
)

// Member is one participant in a session.
type Member struct {
	Identity ref.Identity `json:"identity"`
	Nickname string       `json:"nickname"`
	JoinedAt int64        `json:"joined_at"` // unix milliseconds
}

// Session is the session roster and metadata. The host is always
// present in Members — the authority guarantees it, and the client
// relies on it when resolving the host's nickname.
type Session struct {
	ID         ref.SessionID `json:"id"`
	Name       string        `json:"name"`
	Host       ref.Identity  `json:"host"`
	Members    []Member      `json:"members"`
	CreatedAt  int64         `json:"created_at"`
	LastActive int64         `json:"last_active"`
}

// Channel is a host-created chat channel. Channel names are not
// unique — the authority tolerates duplicates, and the client
// disambiguates by identifier only.
type Channel struct {
	ID        ref.ChannelID `json:"id"`
	Name      string        `json:"name"`
	CreatedBy ref.Identity  `json:"created_by"`
}

// MembersChannel is a member-created chat channel. Identical shape to
// Channel but a separate identifier space and management rules, so it
// is a distinct type rather than a flag.
type MembersChannel struct {
	ID        ref.ChannelID `json:"id"`
	Name      string        `json:"name"`
	CreatedBy ref.Identity  `json:"created_by"`
}

// Message is one chat message. ReplyTo, when set, names a message
// created strictly earlier in the same channel; the target may have
// scrolled out of the loaded window, and the client must treat that
// as a normal condition.
type Message struct {
	ID        ref.MessageID `json:"id"`
	ChannelID ref.ChannelID `json:"channel_id"`
	Author    string        `json:"author"`
	Content   string        `json:"content"`
	Timestamp int64         `json:"timestamp"`
	ImageID   ref.FileID    `json:"image_id,omitempty"`
	ReplyTo   ref.MessageID `json:"reply_to,omitempty"`
}

// Document is a session-wide shared document. Revision strictly
// increases on every accepted edit; the authority rejects edits while
// Locked is true. The client observes both fields and never writes
// them.
type Document struct {
	ID           ref.DocumentID  `json:"id"`
	Name         string          `json:"name"`
	Content      string          `json:"content"`
	CreatedBy    ref.Identity    `json:"created_by"`
	Locked       bool            `json:"locked"`
	Revision     uint64          `json:"revision"`
	LastModified int64           `json:"last_modified"`
	Files        []FileReference `json:"files,omitempty"`
}

// PlayerDocument is an owner-scoped document. When Private is true,
// only the owner sees it — except the host, who may always view it
// for moderation.
type PlayerDocument struct {
	ID           ref.DocumentID `json:"id"`
	Owner        ref.Identity   `json:"owner"`
	Name         string         `json:"name"`
	Content      string         `json:"content"`
	Private      bool           `json:"private"`
	LastModified int64          `json:"last_modified"`
}

// Comment is one comment attached to a document.
type Comment struct {
	ID         ref.CommentID  `json:"id"`
	DocumentID ref.DocumentID `json:"document_id"`
	Author     string         `json:"author"`
	Text       string         `json:"text"`
	Timestamp  int64          `json:"timestamp"`
}

// FileReference describes an uploaded file or image attached to a
// document. Content embeds references to it via markup markers; a
// marker pointing at a reference that no longer exists degrades to a
// placeholder at render time.
type FileReference struct {
	ID         ref.FileID     `json:"id"`
	DocumentID ref.DocumentID `json:"document_id"`
	Label      string         `json:"label"`
	Size       int64          `json:"size"`
	MediaType  string         `json:"media_type"`
	Position   int64          `json:"position"`
	CreatedBy  ref.Identity   `json:"created_by"`
}

// TurnOrder is the session's optional turn rotation: an ordered list
// of member nicknames and the index of whoever acts next.
type TurnOrder struct {
	SessionID    ref.SessionID `json:"session_id"`
	Order        []string      `json:"order"`
	CurrentIndex int           `json:"current_index"`
}

// RollResult is the authority's record of one executed dice roll.
type RollResult struct {
	Pattern  string  `json:"pattern"`
	Rolls    []int64 `json:"rolls"`
	Modifier int64   `json:"modifier"`
	Total    int64   `json:"total"`
}

// SessionExport is the full session snapshot used for backup and
// template reuse. The client treats it as opaque beyond the version
// wrapper: it is produced and consumed by the authority.
type SessionExport struct {
	Session         Session          `json:"session"`
	Channels        []Channel        `json:"channels"`
	MembersChannels []MembersChannel `json:"members_channels"`
	Messages        []Message        `json:"messages"`
	Documents       []Document       `json:"documents"`
	PlayerDocuments []PlayerDocument `json:"player_documents"`
	Files           []FileReference  `json:"files"`
	TurnOrder       *TurnOrder       `json:"turn_order,omitempty"`
}

// CreateSessionRequest holds parameters for creating a session.
type CreateSessionRequest struct {
	Name         string `json:"name"`
	HostNickname string `json:"host_nickname"`
	Password     string `json:"password,omitempty"`
}

// JoinSessionRequest holds parameters for joining a session.
type JoinSessionRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password,omitempty"`
}

// AuthResponse is the authority's answer to a successful create or
// join: the session snapshot, the caller's identity within it, and an
// opaque bearer token for subsequent requests.
type AuthResponse struct {
	Session  Session      `json:"session"`
	Identity ref.Identity `json:"identity"`
	Nickname string       `json:"nickname"`
	Token    string       `json:"token"`
}

// ChannelKind distinguishes the two channel identifier spaces.
type ChannelKind int

const (
	// ChannelHost is a host-created channel.
	ChannelHost ChannelKind = iota
	// ChannelMembers is a member-created channel.
	ChannelMembers
)

// String returns the path segment for the kind.
func (k ChannelKind) String() string {
	if k == ChannelMembers {
		return "members-channels"
	}
	return "channels"
}

// ChannelScope names one channel unambiguously: kind plus identifier.
// Identifiers alone are ambiguous because the two kinds draw from
// separate spaces.
type ChannelScope struct {
	Kind ChannelKind
	ID   ref.ChannelID
}

// PostMessageRequest holds parameters for posting a chat message.
// ImageID and ReplyTo are optional; zero means absent.
type PostMessageRequest struct {
	Content string        `json:"content"`
	ImageID ref.FileID    `json:"image_id,omitempty"`
	ReplyTo ref.MessageID `json:"reply_to,omitempty"`
}

// UploadFileRequest holds an upload's payload and metadata.
type UploadFileRequest struct {
	DocumentID ref.DocumentID
	Label      string
	MediaType  string
	Data       []byte
}
