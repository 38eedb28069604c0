// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides deterministic CBOR encoding for locally
// persisted client state. Deterministic encoding (RFC 8949 §4.2)
// means the same logical data always produces identical bytes, which
// keeps state files diffable and makes content hashing meaningful.
package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Types implementing encoding.TextMarshaler (ref.Identity)
	// serialize as CBOR text strings via MarshalText. Without this,
	// struct fields with unexported data would serialize as empty
	// CBOR maps, losing their value.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// When the decode target is any, pick map[string]any instead
		// of the CBOR default map[any]any, for compatibility with
		// encoding/json-shaped code. Struct decoding is unaffected.
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to deterministic CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Unknown fields are ignored for
// forward compatibility with newer state file layouts.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
