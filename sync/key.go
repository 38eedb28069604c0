// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"fmt"

	"github.com/parlor-foundation/parlor/lib/ref"
	"github.com/parlor-foundation/parlor/remote"
)

// Kind names a polled resource class.
type Kind uint8

const (
	// KindSession is the session roster and metadata.
	KindSession Kind = iota
	// KindChannels is the host-channel list.
	KindChannels
	// KindMembersChannels is the member-channel list.
	KindMembersChannels
	// KindDocuments is the session document list.
	KindDocuments
	// KindDocument is one document's content.
	KindDocument
	// KindMessages is one channel's message window.
	KindMessages
	// KindPlayerDocuments is the visible player document list.
	KindPlayerDocuments
	// KindPlayerDocument is one player document's content.
	KindPlayerDocument
	// KindComments is one document's comment list.
	KindComments
)

var kindNames = map[Kind]string{
	KindSession:         "session",
	KindChannels:        "channels",
	KindMembersChannels: "members-channels",
	KindDocuments:       "documents",
	KindDocument:        "document",
	KindMessages:        "messages",
	KindPlayerDocuments: "player-documents",
	KindPlayerDocument:  "player-document",
	KindComments:        "comments",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Key identifies one polled resource: a kind plus its scoping
// identifier. Keys are comparable and compared structurally — they
// are the sole map key for poll loops and snapshots.
//
// Scope is zero for session-wide kinds. Channel holds the channel
// identifier space for KindMessages only, because host and member
// channel identifiers overlap.
type Key struct {
	Kind    Kind
	Scope   uint64
	Channel remote.ChannelKind
}

func (k Key) String() string {
	if k.Scope == 0 {
		return k.Kind.String()
	}
	if k.Kind == KindMessages {
		return fmt.Sprintf("%s/%s/%d", k.Kind, k.Channel, k.Scope)
	}
	return fmt.Sprintf("%s/%d", k.Kind, k.Scope)
}

// SessionKey is the key for the session roster.
func SessionKey() Key { return Key{Kind: KindSession} }

// ChannelsKey is the key for the host-channel list.
func ChannelsKey() Key { return Key{Kind: KindChannels} }

// MembersChannelsKey is the key for the member-channel list.
func MembersChannelsKey() Key { return Key{Kind: KindMembersChannels} }

// DocumentsKey is the key for the session document list.
func DocumentsKey() Key { return Key{Kind: KindDocuments} }

// PlayerDocumentsKey is the key for the player document list.
func PlayerDocumentsKey() Key { return Key{Kind: KindPlayerDocuments} }

// MessagesKey is the key for one channel's message window.
func MessagesKey(scope remote.ChannelScope) Key {
	return Key{Kind: KindMessages, Scope: uint64(scope.ID), Channel: scope.Kind}
}

// DocumentKey is the key for one session document's content.
func DocumentKey(id ref.DocumentID) Key {
	return Key{Kind: KindDocument, Scope: uint64(id)}
}

// PlayerDocumentKey is the key for one player document's content.
func PlayerDocumentKey(id ref.DocumentID) Key {
	return Key{Kind: KindPlayerDocument, Scope: uint64(id)}
}

// CommentsKey is the key for one document's comment list.
func CommentsKey(id ref.DocumentID) Key {
	return Key{Kind: KindComments, Scope: uint64(id)}
}
