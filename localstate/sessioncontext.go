// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package localstate

import (
	"github.com/parlor-foundation/parlor/lib/ref"
)

// SessionContext remembers the last joined session so the client can
// resume across restarts without the join flow.
type SessionContext struct {
	SessionID ref.SessionID `cbor:"session_id"`
	Identity  ref.Identity  `cbor:"identity"`
	Nickname  string        `cbor:"nickname"`
	Host      bool          `cbor:"host"`
	Token     string        `cbor:"token"`
}

// LoadSessionContext reads the saved context. The boolean reports
// whether a usable context exists; corrupt files read as absent.
func (s *Store) LoadSessionContext() (SessionContext, bool) {
	var context SessionContext
	existed, err := s.readFile(sessionContextFile, &context)
	if err != nil {
		s.logger.Warn("session context unreadable, ignoring", "error", err)
		return SessionContext{}, false
	}
	if !existed || context.SessionID.IsZero() || context.Token == "" {
		return SessionContext{}, false
	}
	return context, true
}

// SaveSessionContext persists the context after a successful create,
// join, or resume.
func (s *Store) SaveSessionContext(context SessionContext) error {
	return s.writeFile(sessionContextFile, context)
}

// ClearSessionContext forgets the saved session, e.g. after leaving.
func (s *Store) ClearSessionContext() error {
	return s.removeFile(sessionContextFile)
}
