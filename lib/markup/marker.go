// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/parlor-foundation/parlor/lib/ref"
)

// Tag distinguishes the two marker families. Stored uppercase in
// content; matched case-insensitively.
type Tag string

const (
	// TagFile marks a reference to an uploaded file, rendered as a
	// download chip on its own line.
	TagFile Tag = "FILE"

	// TagImage marks a reference to an uploaded image, rendered
	// inline with its caption.
	TagImage Tag = "IMAGE"
)

// Marker is one well-formed reference marker found in content.
type Marker struct {
	// Tag is the marker family, normalized to uppercase.
	Tag Tag

	// ID is the referenced file or image identifier. The referenced
	// entity may no longer exist; that is a rendering condition, not
	// a parse failure.
	ID ref.FileID

	// Label is the display filename or caption.
	Label string

	// Position is the byte offset of the marker's '[' in the
	// original content.
	Position int
}

// markerPattern matches a complete well-formed marker of either
// family. The label may be empty and never contains brackets, which
// is what keeps a scan unambiguous: NewMarker strips brackets from
// labels at creation time.
var markerPattern = regexp.MustCompile(`(?i)\[(FILE|IMAGE):(\d+):([^\[\]]*)\]`)

// NewMarker formats a marker string for embedding in content. Square
// brackets are stripped from the label so the resulting token always
// parses back as a single marker.
func NewMarker(tag Tag, id ref.FileID, label string) string {
	sanitized := strings.NewReplacer("[", "", "]", "").Replace(label)
	return fmt.Sprintf("[%s:%s:%s]", tag, id, sanitized)
}

// Markers scans content left to right and returns every well-formed
// marker in order of appearance. Malformed fragments (truncated
// markers, non-numeric identifiers) are skipped, left intact in the
// content.
func Markers(content string) []Marker {
	var markers []Marker
	for _, match := range markerPattern.FindAllStringSubmatchIndex(content, -1) {
		marker, ok := markerAt(content, match)
		if !ok {
			continue
		}
		markers = append(markers, marker)
	}
	return markers
}

// markerAt builds a Marker from one pattern match. Returns false when
// the numeric identifier overflows, in which case the fragment is
// treated as literal text.
func markerAt(content string, match []int) (Marker, bool) {
	id, err := strconv.ParseUint(content[match[4]:match[5]], 10, 64)
	if err != nil {
		return Marker{}, false
	}
	return Marker{
		Tag:      Tag(strings.ToUpper(content[match[2]:match[3]])),
		ID:       ref.FileID(id),
		Label:    content[match[6]:match[7]],
		Position: match[0],
	}, true
}

// Insert places marker into content at the given byte offset,
// clamped to the content bounds.
func Insert(content string, offset int, marker string) string {
	offset = clamp(offset, len(content))
	return content[:offset] + marker + content[offset:]
}

// InsertBlock places marker into content at the given byte offset on
// its own line. Used for file markers, which render as block-level
// chips.
func InsertBlock(content string, offset int, marker string) string {
	offset = clamp(offset, len(content))
	return content[:offset] + "\n" + marker + "\n" + content[offset:]
}

func clamp(offset, length int) int {
	if offset < 0 {
		return 0
	}
	if offset > length {
		return length
	}
	return offset
}

// Remove deletes every marker of the given family referencing id.
// The tag is matched case-insensitively and the identifier exactly,
// so removing id 1 never touches id 12. Removing an id that is not
// present is a no-op, which makes removal idempotent.
func Remove(content string, tag Tag, id ref.FileID) string {
	pattern := regexp.MustCompile(`(?i)\[` + regexp.QuoteMeta(string(tag)) + `:` + id.String() + `:[^\[\]]*\]`)
	return pattern.ReplaceAllString(content, "")
}
