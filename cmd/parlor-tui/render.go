// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/parlor-foundation/parlor/lib/dice"
	"github.com/parlor-foundation/parlor/lib/markup"
	"github.com/parlor-foundation/parlor/remote"
	"github.com/parlor-foundation/parlor/sync"
)

// replyPreviewLength bounds the quoted snippet above a reply.
const replyPreviewLength = 60

// renderMessages renders a channel's message window, oldest first.
func renderMessages(theme Theme, messages []remote.Message, ownNickname string) string {
	var builder strings.Builder
	for i, message := range messages {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(renderMessage(theme, message, messages, ownNickname))
	}
	return builder.String()
}

// renderMessage renders one message: reply preview, then the
// timestamped line. Dice results are styled as a unit so they stand
// apart from ordinary chat.
func renderMessage(theme Theme, message remote.Message, window []remote.Message, ownNickname string) string {
	var builder strings.Builder

	if !message.ReplyTo.IsZero() {
		if target, ok := sync.ResolveReply(message, window); ok {
			builder.WriteString(theme.Reply.Render("↳ " + target.Author + ": " + truncate(target.Content, replyPreviewLength)))
		} else {
			builder.WriteString(theme.Reply.Render("↳ (earlier message)"))
		}
		builder.WriteByte('\n')
	}

	authorStyle := theme.Author
	if message.Author == ownNickname {
		authorStyle = theme.OwnAuthor
	}
	builder.WriteString(theme.Timestamp.Render(formatTimestamp(message.Timestamp)))
	builder.WriteByte(' ')
	builder.WriteString(authorStyle.Render(message.Author))
	builder.WriteByte(' ')

	if strings.HasPrefix(message.Content, dice.Prefix) {
		builder.WriteString(theme.Roll.Render(message.Content))
	} else {
		builder.WriteString(renderContent(theme, message.Content))
	}

	if !message.ImageID.IsZero() {
		builder.WriteByte('\n')
		builder.WriteString(theme.Marker.Render(fmt.Sprintf("  [image %s]", message.ImageID)))
	}
	return builder.String()
}

// renderDocument renders the open document: a header with the lock and
// draft state, the draft content, then comments.
func renderDocument(theme Theme, document remote.Document, draft *sync.Draft, comments []remote.Comment) string {
	var builder strings.Builder

	header := document.Name + "  " + theme.Timestamp.Render(fmt.Sprintf("rev %d", document.Revision))
	if document.Locked {
		header += "  " + theme.Locked.Render("locked")
	}
	if draft != nil {
		switch draft.State() {
		case sync.DraftDirty:
			header += "  " + theme.Dirty.Render("unsaved")
		case sync.DraftSaving:
			header += "  " + theme.Status.Render("saving…")
		}
	}
	builder.WriteString(theme.Heading.Render(header))
	builder.WriteString("\n\n")

	content := document.Content
	if draft != nil {
		content = draft.Content()
	}
	builder.WriteString(renderContent(theme, content))

	if len(comments) > 0 {
		builder.WriteString("\n\n")
		builder.WriteString(theme.SidebarSection.Render("Comments"))
		for _, comment := range comments {
			builder.WriteByte('\n')
			builder.WriteString(theme.Timestamp.Render(formatTimestamp(comment.Timestamp)))
			builder.WriteByte(' ')
			builder.WriteString(theme.Author.Render(comment.Author))
			builder.WriteByte(' ')
			builder.WriteString(comment.Text)
		}
	}
	return builder.String()
}

// renderPlayerDocument renders a player document: name, visibility,
// owner, content.
func renderPlayerDocument(theme Theme, document remote.PlayerDocument) string {
	header := document.Name
	if document.Private {
		header += "  " + theme.Locked.Render("private")
	}
	return theme.Heading.Render(header) + "\n\n" + renderContent(theme, document.Content)
}

// renderContent renders markup content line by line: line directives
// first, then markers and inline spans within each line.
func renderContent(theme Theme, content string) string {
	lines := strings.Split(content, "\n")
	rendered := make([]string, len(lines))
	for i, line := range lines {
		directive, rest := markup.SplitLineDirective(line)
		text := renderSegments(theme, rest)
		switch directive {
		case markup.LineHeading:
			text = theme.Heading.Render(text)
		case markup.LineEmphasis:
			text = theme.Emphasis.Render(text)
		case markup.LineSmall:
			text = theme.Small.Render(text)
		case markup.LineCenter:
			// Centering needs the pane width; the viewport handles
			// wrapping, so approximate with an indent.
			text = "    " + text
		}
		rendered[i] = text
	}
	return strings.Join(rendered, "\n")
}

// renderSegments renders one line's markers and inline spans.
func renderSegments(theme Theme, line string) string {
	var builder strings.Builder
	for _, segment := range markup.Tokenize(line) {
		if segment.Kind == markup.SegmentMarker {
			symbol := "📎"
			if segment.Marker.Tag == markup.TagImage {
				symbol = "🖼"
			}
			builder.WriteString(theme.Marker.Render(fmt.Sprintf("%s %s", symbol, segment.Marker.Label)))
			continue
		}
		for _, span := range markup.ParseInline(segment.Raw) {
			switch span.Kind {
			case markup.InlineSpoiler:
				// Hidden until the user reveals it; render as a block of
				// the same width.
				builder.WriteString(theme.Spoiler.Render(span.Text))
			case markup.InlineUnderline:
				builder.WriteString(theme.Underline.Render(span.Text))
			default:
				builder.WriteString(span.Text)
			}
		}
	}
	return builder.String()
}

func formatTimestamp(unixMilliseconds int64) string {
	return time.UnixMilli(unixMilliseconds).Local().Format("15:04")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
