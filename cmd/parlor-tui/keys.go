// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the session view.
type KeyMap struct {
	// Sidebar navigation.
	Up   key.Binding
	Down key.Binding
	Open key.Binding

	// Focus switching between the sidebar and the content pane.
	FocusToggle key.Binding

	// Content pane scrolling.
	PageUp   key.Binding
	PageDown key.Binding

	// Document actions.
	Save   key.Binding // Save the open draft.
	Lock   key.Binding // Toggle the open document's lock.
	Edit   key.Binding // Enter the draft editor.
	Cancel key.Binding // Leave the editor or close the view.

	// Session actions.
	NextTurn key.Binding
	Export   key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set. Vim-style navigation
// alongside arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch focus"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "save draft"),
	),
	Lock: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "lock/unlock"),
	),
	Edit: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "edit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	NextTurn: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("C-n", "next turn"),
	),
	Export: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("C-e", "export session"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
