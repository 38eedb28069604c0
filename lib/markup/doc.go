// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// Package markup parses and creates the inline markup embedded in
// document and message content.
//
// Three layers, applied independently:
//
//   - Reference markers: [FILE:id:label] and [IMAGE:id:label] tokens
//     embedding an uploaded file's identifier in free-form text.
//     Malformed or partial markers are never an error — they stay in
//     the text as literals.
//   - Line directives: a small fixed set of line prefixes ("[C] ",
//     "[B] ", "# ", "-# ") consumed before inline parsing.
//   - Inline spans: ||spoiler|| and __underline__ pairs, matched
//     non-greedily left to right; unmatched delimiters are literal.
//
// The package never resolves what a marker points at. A marker whose
// identifier no longer exists is the renderer's problem (it shows a
// placeholder), not the parser's.
package markup
