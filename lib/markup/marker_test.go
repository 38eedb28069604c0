// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"testing"

	"github.com/parlor-foundation/parlor/lib/ref"
)

func TestNewMarkerStripsBrackets(t *testing.T) {
	marker := NewMarker(TagFile, 7, "ma[p] of the [keep].pdf")
	if marker != "[FILE:7:map of the keep.pdf]" {
		t.Errorf("NewMarker = %q", marker)
	}

	// The sanitized marker must parse back as exactly one marker.
	parsed := Markers(marker)
	if len(parsed) != 1 {
		t.Fatalf("marker round trip found %d markers, want 1", len(parsed))
	}
	if parsed[0].ID != 7 || parsed[0].Label != "map of the keep.pdf" {
		t.Errorf("parsed marker = %+v", parsed[0])
	}
}

func TestMarkersOrderAndPosition(t *testing.T) {
	content := "intro [IMAGE:3:sketch] middle [FILE:12:notes.txt] end"
	markers := Markers(content)
	if len(markers) != 2 {
		t.Fatalf("found %d markers, want 2", len(markers))
	}
	if markers[0].Tag != TagImage || markers[0].ID != 3 || markers[0].Label != "sketch" {
		t.Errorf("first marker = %+v", markers[0])
	}
	if markers[1].Tag != TagFile || markers[1].ID != 12 {
		t.Errorf("second marker = %+v", markers[1])
	}
	if markers[0].Position != 6 {
		t.Errorf("first marker position = %d, want 6", markers[0].Position)
	}
}

func TestMarkersCaseInsensitiveTag(t *testing.T) {
	markers := Markers("[file:1:a] [Image:2:b]")
	if len(markers) != 2 {
		t.Fatalf("found %d markers, want 2", len(markers))
	}
	// Tags normalize to uppercase regardless of source casing.
	if markers[0].Tag != TagFile || markers[1].Tag != TagImage {
		t.Errorf("tags = %v, %v", markers[0].Tag, markers[1].Tag)
	}
}

func TestMarkersMalformedLeftAlone(t *testing.T) {
	for _, content := range []string{
		"[FILE:notanumber:x]",
		"[FILE:1",
		"[FILE::label]",
		"[OTHER:1:label]",
		"plain text with ] and [ stray brackets",
		"[FILE:99999999999999999999:overflow]",
	} {
		if markers := Markers(content); len(markers) != 0 {
			t.Errorf("Markers(%q) = %+v, want none", content, markers)
		}
	}
}

func TestInsertClamps(t *testing.T) {
	if got := Insert("abc", -5, "[IMAGE:1:x]"); got != "[IMAGE:1:x]abc" {
		t.Errorf("negative offset: %q", got)
	}
	if got := Insert("abc", 99, "[IMAGE:1:x]"); got != "abc[IMAGE:1:x]" {
		t.Errorf("oversized offset: %q", got)
	}
	if got := Insert("abcd", 2, "[IMAGE:1:x]"); got != "ab[IMAGE:1:x]cd" {
		t.Errorf("interior offset: %q", got)
	}
}

func TestInsertBlockSurroundsWithNewlines(t *testing.T) {
	got := InsertBlock("before after", 7, "[FILE:4:doc.pdf]")
	if got != "before \n[FILE:4:doc.pdf]\nafter" {
		t.Errorf("InsertBlock = %q", got)
	}
}

func TestRemove(t *testing.T) {
	content := "a [FILE:1:x] b [file:1:y] c [FILE:12:z]"
	got := Remove(content, TagFile, 1)
	if got != "a  b  c [FILE:12:z]" {
		t.Errorf("Remove = %q", got)
	}

	// Exact identifier match: removing 1 must not touch 12.
	if markers := Markers(got); len(markers) != 1 || markers[0].ID != 12 {
		t.Errorf("surviving markers = %+v", markers)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	content := "x [IMAGE:5:cap] y"
	once := Remove(content, TagImage, 5)
	twice := Remove(once, TagImage, 5)
	if once != twice {
		t.Errorf("second removal changed content: %q -> %q", once, twice)
	}
}

func TestRemoveWrongFamilyUntouched(t *testing.T) {
	content := "x [IMAGE:5:cap] y"
	if got := Remove(content, TagFile, 5); got != content {
		t.Errorf("Remove touched the other marker family: %q", got)
	}
}

func TestRemoveAbsentID(t *testing.T) {
	content := "nothing here"
	if got := Remove(content, TagFile, ref.FileID(3)); got != content {
		t.Errorf("Remove of absent id changed content: %q", got)
	}
}
