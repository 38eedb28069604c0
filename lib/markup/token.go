// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package markup

// SegmentKind distinguishes token kinds produced by Tokenize.
type SegmentKind uint8

const (
	// SegmentText is a literal text span.
	SegmentText SegmentKind = iota

	// SegmentMarker is a well-formed reference marker.
	SegmentMarker
)

// Segment is one span of tokenized content. Raw always holds the
// exact bytes of the span, so concatenating the Raw fields of all
// segments in order reconstructs the original content.
type Segment struct {
	Kind SegmentKind

	// Raw is the literal span from the original content. For marker
	// segments this is the full "[TAG:id:label]" token.
	Raw string

	// Marker holds the parsed marker for SegmentMarker segments.
	Marker Marker
}

// Tokenize walks content once and splits it into an ordered sequence
// of text and marker segments with no gaps or overlaps. The empty
// string produces no segments.
func Tokenize(content string) []Segment {
	var segments []Segment
	last := 0

	for _, match := range markerPattern.FindAllStringSubmatchIndex(content, -1) {
		marker, ok := markerAt(content, match)
		if !ok {
			// Identifier overflow: the fragment stays literal and is
			// absorbed into the surrounding text segment.
			continue
		}
		if match[0] > last {
			segments = append(segments, Segment{
				Kind: SegmentText,
				Raw:  content[last:match[0]],
			})
		}
		segments = append(segments, Segment{
			Kind:   SegmentMarker,
			Raw:    content[match[0]:match[1]],
			Marker: marker,
		})
		last = match[1]
	}

	if last < len(content) {
		segments = append(segments, Segment{
			Kind: SegmentText,
			Raw:  content[last:],
		})
	}
	return segments
}
