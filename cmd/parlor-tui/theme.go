// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette for the session view. Dark-terminal
// defaults; light terminals get usable if muddy colors.
type Theme struct {
	Sidebar         lipgloss.Style
	SidebarSection  lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarEntry    lipgloss.Style

	Author    lipgloss.Style
	OwnAuthor lipgloss.Style
	Timestamp lipgloss.Style
	Roll      lipgloss.Style
	Reply     lipgloss.Style

	Heading   lipgloss.Style
	Emphasis  lipgloss.Style
	Small     lipgloss.Style
	Underline lipgloss.Style
	Spoiler   lipgloss.Style
	Marker    lipgloss.Style

	Locked lipgloss.Style
	Dirty  lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// ThemeFor maps a preferences theme mode to a palette. "system" and
// anything unrecognized fall back to the dark scheme.
func ThemeFor(mode string) Theme {
	if mode == "light" {
		return LightTheme
	}
	return DefaultTheme
}

// DefaultTheme is the built-in dark-terminal scheme.
var DefaultTheme = Theme{
	Sidebar:         lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color("238")),
	SidebarSection:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true),
	SidebarSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
	SidebarEntry:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),

	Author:    lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true),
	OwnAuthor: lipgloss.NewStyle().Foreground(lipgloss.Color("150")).Bold(true),
	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Roll:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	Reply:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),

	Heading:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")),
	Emphasis:  lipgloss.NewStyle().Bold(true),
	Small:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Underline: lipgloss.NewStyle().Underline(true),
	Spoiler:   lipgloss.NewStyle().Foreground(lipgloss.Color("236")).Background(lipgloss.Color("236")),
	Marker:    lipgloss.NewStyle().Foreground(lipgloss.Color("75")),

	Locked: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	Dirty:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
}

// LightTheme is the light-terminal scheme. Same layout styles, darker
// foregrounds.
var LightTheme = Theme{
	Sidebar:         lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color("250")),
	SidebarSection:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true),
	SidebarSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("127")).Bold(true),
	SidebarEntry:    lipgloss.NewStyle().Foreground(lipgloss.Color("235")),

	Author:    lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
	OwnAuthor: lipgloss.NewStyle().Foreground(lipgloss.Color("22")).Bold(true),
	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Roll:      lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
	Reply:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),

	Heading:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")),
	Emphasis:  lipgloss.NewStyle().Bold(true),
	Small:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Underline: lipgloss.NewStyle().Underline(true),
	Spoiler:   lipgloss.NewStyle().Foreground(lipgloss.Color("253")).Background(lipgloss.Color("253")),
	Marker:    lipgloss.NewStyle().Foreground(lipgloss.Color("26")),

	Locked: lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
	Dirty:  lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
	Status: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
}
