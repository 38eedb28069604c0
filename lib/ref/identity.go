// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// Identity is a validated caller identity as issued by the identity
// provider (e.g., "h4k2v-...-cai"). The client treats it as an opaque
// token: the only operations are equality comparison and display.
//
// Identity is an immutable value type. The zero value is not valid;
// use IsZero to check.
type Identity struct {
	id string
}

// ParseIdentity validates and wraps a raw identity string. The client
// does not know the provider's exact alphabet, so validation is
// structural only: non-empty and free of whitespace. Anything
// stricter would reject identities from providers the client has
// never seen.
func ParseIdentity(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, fmt.Errorf("ref: empty identity")
	}
	if strings.ContainsAny(raw, " \t\r\n") {
		return Identity{}, fmt.Errorf("ref: identity %q contains whitespace", raw)
	}
	return Identity{id: raw}, nil
}

// MustIdentity wraps a raw identity string, panicking if it is
// invalid. For tests and constants only.
func MustIdentity(raw string) Identity {
	identity, err := ParseIdentity(raw)
	if err != nil {
		panic(err)
	}
	return identity
}

// String returns the full identity string.
func (i Identity) String() string { return i.id }

// IsZero reports whether the Identity is the zero value.
func (i Identity) IsZero() bool { return i.id == "" }

// Short returns an abbreviated display form: the first five and last
// three characters joined by an ellipsis. Identities short enough to
// not benefit are returned whole. Used as the display-name fallback
// when no profile name is known.
func (i Identity) Short() string {
	if len(i.id) <= 10 {
		return i.id
	}
	return i.id[:5] + "..." + i.id[len(i.id)-3:]
}

// MarshalText implements encoding.TextMarshaler so identities
// serialize as plain strings in JSON and CBOR.
func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with the same
// validation as ParseIdentity.
func (i *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
