// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"github.com/parlor-foundation/parlor/remote"
)

// ResolveReply looks up a message's reply target in the loaded
// window. Absence is a normal outcome — the target may have scrolled
// out of the window — so the result is a boolean, never an error, and
// renderers show "original message unavailable" for false.
//
// Resolution is a single hop. The target's own reply-to, if any, is
// not chased: the source data never guarantees acyclicity, and one
// hop is all the preview needs.
func ResolveReply(message remote.Message, window []remote.Message) (remote.Message, bool) {
	if message.ReplyTo.IsZero() {
		return remote.Message{}, false
	}
	for _, candidate := range window {
		if candidate.ID == message.ReplyTo {
			return candidate, true
		}
	}
	return remote.Message{}, false
}
