// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"strings"
	"testing"
)

// reassemble concatenates segment raw spans in order.
func reassemble(segments []Segment) string {
	var b strings.Builder
	for _, segment := range segments {
		b.WriteString(segment.Raw)
	}
	return b.String()
}

func TestTokenizeRoundTrip(t *testing.T) {
	contents := []string{
		"",
		"plain text only",
		"[FILE:1:a]",
		"[FILE:1:a][IMAGE:2:b]",
		"lead [FILE:1:a] mid [IMAGE:2:b] tail",
		"[FILE:1:a] starts it",
		"ends with it [IMAGE:9:z]",
		"malformed [FILE:x:a] stays literal",
		"truncated [FILE:3",
		"overflow [FILE:99999999999999999999:a] kept",
		"newlines\n[FILE:2:doc]\nand more",
	}
	for _, content := range contents {
		segments := Tokenize(content)
		if got := reassemble(segments); got != content {
			t.Errorf("Tokenize(%q) reassembles to %q", content, got)
		}
	}
}

func TestTokenizeNoGapsNoOverlaps(t *testing.T) {
	content := "a [FILE:1:x] b [IMAGE:2:y] c"
	segments := Tokenize(content)

	offset := 0
	for i, segment := range segments {
		if segment.Raw == "" {
			t.Errorf("segment %d is empty", i)
		}
		if !strings.HasPrefix(content[offset:], segment.Raw) {
			t.Fatalf("segment %d (%q) does not continue at offset %d", i, segment.Raw, offset)
		}
		offset += len(segment.Raw)
	}
	if offset != len(content) {
		t.Errorf("segments cover %d bytes of %d", offset, len(content))
	}
}

func TestTokenizeSegmentKinds(t *testing.T) {
	segments := Tokenize("a [FILE:1:x] b")
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	if segments[0].Kind != SegmentText || segments[0].Raw != "a " {
		t.Errorf("segment 0 = %+v", segments[0])
	}
	if segments[1].Kind != SegmentMarker || segments[1].Marker.ID != 1 {
		t.Errorf("segment 1 = %+v", segments[1])
	}
	if segments[2].Kind != SegmentText || segments[2].Raw != " b" {
		t.Errorf("segment 2 = %+v", segments[2])
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if segments := Tokenize(""); len(segments) != 0 {
		t.Errorf("Tokenize(\"\") = %+v, want no segments", segments)
	}
}

func TestTokenizeMalformedAbsorbedIntoText(t *testing.T) {
	content := "see [FILE:1:ok] and [FILE:bad] here"
	segments := Tokenize(content)

	markerCount := 0
	for _, segment := range segments {
		if segment.Kind == SegmentMarker {
			markerCount++
		}
	}
	if markerCount != 1 {
		t.Errorf("marker segments = %d, want 1 (malformed stays literal)", markerCount)
	}
	if got := reassemble(segments); got != content {
		t.Errorf("reassembled = %q", got)
	}
}
