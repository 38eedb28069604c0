// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"errors"
	"fmt"
)

// RejectionError is the authority's refusal of a write: a
// human-readable reason with an HTTP status. Extract it with
// errors.As:
//
//	var rejection *remote.RejectionError
//	if errors.As(err, &rejection) {
//	    show(rejection.Message) // verbatim, never parsed
//	}
//
// The message is opaque. Branching on its text would couple the
// client to authority wording that can change at any time; the only
// structured signal is the error's presence.
type RejectionError struct {
	// Message is the authority's reason, displayed verbatim.
	Message string `json:"error"`

	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("remote: rejected (%d): %s", e.StatusCode, e.Message)
}

// IsRejection reports whether err is (or wraps) a RejectionError —
// i.e. the authority answered and said no, as opposed to a transport
// failure where it never answered at all.
func IsRejection(err error) bool {
	var rejection *RejectionError
	return errors.As(err, &rejection)
}
