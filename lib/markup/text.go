// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"regexp"
	"strings"
)

// LineDirective is a line-level rendering directive consumed as a
// prefix before inline parsing.
type LineDirective uint8

const (
	// LineNone means the line carries no directive.
	LineNone LineDirective = iota

	// LineCenter centers the line ("[C] " prefix).
	LineCenter

	// LineEmphasis renders the line larger ("[B] " prefix).
	LineEmphasis

	// LineHeading renders the line as a heading ("# " prefix).
	LineHeading

	// LineSmall renders the line as small print ("-# " prefix).
	LineSmall
)

// SplitLineDirective recognizes a directive prefix on a single line
// and returns the directive plus the line with the prefix stripped.
// Leading whitespace is ignored when matching but a line without a
// directive is returned byte-for-byte unchanged.
func SplitLineDirective(line string) (LineDirective, string) {
	trimmed := strings.TrimLeft(line, " \t")
	switch {
	case strings.HasPrefix(trimmed, "[C] "):
		return LineCenter, trimmed[4:]
	case strings.HasPrefix(trimmed, "[B] "):
		return LineEmphasis, trimmed[4:]
	case strings.HasPrefix(trimmed, "# "):
		return LineHeading, trimmed[2:]
	case strings.HasPrefix(trimmed, "-# "):
		return LineSmall, trimmed[3:]
	}
	return LineNone, line
}

// InlineKind distinguishes inline span kinds.
type InlineKind uint8

const (
	// InlineText is a plain text run.
	InlineText InlineKind = iota

	// InlineSpoiler is a reveal-on-interaction span (||…||).
	InlineSpoiler

	// InlineUnderline is an underlined span (__…__).
	InlineUnderline
)

// InlineSpan is one run of inline-parsed text. For spoiler and
// underline spans, Text holds the inner content with the delimiters
// stripped; for plain runs it holds the literal text, including any
// unmatched delimiter characters.
type InlineSpan struct {
	Kind InlineKind
	Text string
}

// inlinePattern matches one complete spoiler or underline span. The
// negated character classes make matching non-greedy and keep a
// stray delimiter inside a span from extending it.
var inlinePattern = regexp.MustCompile(`(\|\|[^|]+\|\|)|(__[^_]+__)`)

// ParseInline splits text into plain, spoiler, and underline spans,
// scanning left to right. Unmatched delimiters remain literal text.
func ParseInline(text string) []InlineSpan {
	var spans []InlineSpan
	last := 0

	for _, match := range inlinePattern.FindAllStringIndex(text, -1) {
		if match[0] > last {
			spans = append(spans, InlineSpan{Kind: InlineText, Text: text[last:match[0]]})
		}
		matched := text[match[0]:match[1]]
		if strings.HasPrefix(matched, "||") {
			spans = append(spans, InlineSpan{Kind: InlineSpoiler, Text: matched[2 : len(matched)-2]})
		} else {
			spans = append(spans, InlineSpan{Kind: InlineUnderline, Text: matched[2 : len(matched)-2]})
		}
		last = match[1]
	}

	if last < len(text) {
		spans = append(spans, InlineSpan{Kind: InlineText, Text: text[last:]})
	}
	if spans == nil {
		spans = []InlineSpan{{Kind: InlineText, Text: text}}
	}
	return spans
}
