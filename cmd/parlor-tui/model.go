// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/parlor-foundation/parlor/lib/ref"
	"github.com/parlor-foundation/parlor/lib/role"
	"github.com/parlor-foundation/parlor/localstate"
	"github.com/parlor-foundation/parlor/remote"
	"github.com/parlor-foundation/parlor/sync"
)

const sidebarWidth = 28

// focusArea names which pane receives key input.
type focusArea uint8

const (
	focusSidebar focusArea = iota
	focusContent
	focusInput
	focusEditor
)

// entryKind distinguishes sidebar rows.
type entryKind uint8

const (
	entrySection entryKind = iota
	entryChannel
	entryDocument
	entryPlayerDocument
)

// sidebarEntry is one row of the sidebar: a section header or a
// selectable channel or document.
type sidebarEntry struct {
	kind     entryKind
	label    string
	channel  remote.ChannelScope
	document ref.DocumentID
}

// Messages delivered to Update.
type (
	snapshotMsg struct{ snapshot sync.Snapshot }

	documentOpenedMsg       struct{ document remote.Document }
	playerDocumentOpenedMsg struct{ document remote.PlayerDocument }
	documentUpdatedMsg      struct{ document remote.Document }

	statusMsg string
	errorMsg  struct{ err error }
)

// model is the bubbletea model for the session view. All
// synchronization state lives in the orchestrator; the model holds
// only what the screen needs.
type model struct {
	ctx          context.Context
	orchestrator *sync.Orchestrator
	membership   *remote.Membership
	store        *localstate.Store
	keys         KeyMap
	theme        Theme
	nickname     string

	session         remote.Session
	channels        []remote.Channel
	membersChannels []remote.MembersChannel
	documents       []remote.Document
	playerDocuments []remote.PlayerDocument
	messages        []remote.Message
	comments        []remote.Comment
	openDocument    remote.Document
	openPlayer      remote.PlayerDocument

	entries []sidebarEntry
	cursor  int
	focus   focusArea

	viewport viewport.Model
	input    textinput.Model
	editor   textarea.Model

	width  int
	height int
	ready  bool

	status string
	err    error
}

func newModel(
	ctx context.Context,
	orchestrator *sync.Orchestrator,
	membership *remote.Membership,
	store *localstate.Store,
	session remote.Session,
	preferences localstate.Preferences,
) model {
	input := textinput.New()
	input.Placeholder = "message, or /roll 2d6+3"
	input.CharLimit = 4096

	editor := textarea.New()
	editor.CharLimit = 0

	m := model{
		ctx:          ctx,
		orchestrator: orchestrator,
		membership:   membership,
		store:        store,
		keys:         DefaultKeyMap,
		theme:        ThemeFor(preferences.ThemeMode),
		nickname:     membership.Nickname(),
		session:      session,
		input:        input,
		editor:       editor,
		status:       fmt.Sprintf("joined %s as %s", session.Name, membership.Nickname()),
	}
	m.rebuildSidebar()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.waitForSnapshot(), textinput.Blink)
}

// waitForSnapshot delivers the next poller snapshot as a message. The
// returned command re-arms itself from Update.
func (m model) waitForSnapshot() tea.Cmd {
	updates := m.orchestrator.Updates()
	return func() tea.Msg {
		snapshot, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg{snapshot}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentWidth := max(msg.Width-sidebarWidth-1, 20)
		contentHeight := max(msg.Height-3, 5)
		if !m.ready {
			m.viewport = viewport.New(contentWidth, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = contentHeight
		}
		m.input.Width = contentWidth - 2
		m.editor.SetWidth(contentWidth)
		m.editor.SetHeight(contentHeight)
		m.refreshViewport()
		return m, nil

	case snapshotMsg:
		m = m.applySnapshot(msg.snapshot)
		return m, m.waitForSnapshot()

	case documentOpenedMsg:
		m.openDocument = msg.document
		m.comments = nil
		m.editor.SetValue(msg.document.Content)
		m.focus = focusContent
		m.status = ""
		m.refreshViewport()
		return m, nil

	case playerDocumentOpenedMsg:
		m.openPlayer = msg.document
		m.focus = focusContent
		m.status = ""
		m.refreshViewport()
		return m, nil

	case documentUpdatedMsg:
		m.openDocument = msg.document
		m.refreshViewport()
		return m, nil

	case statusMsg:
		m.status = string(msg)
		m.err = nil
		m.refreshViewport()
		return m, nil

	case errorMsg:
		m.err = msg.err
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.focus {
	case focusInput:
		return m.handleInputKey(msg)
	case focusEditor:
		return m.handleEditorKey(msg)
	}

	// Sidebar and content pane.
	switch {
	case key.Matches(msg, m.keys.FocusToggle):
		m.focus = m.nextFocus()
		m.syncInputFocus()
		return m, nil

	case key.Matches(msg, m.keys.Up) && m.focus == focusSidebar:
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down) && m.focus == focusSidebar:
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Open) && m.focus == focusSidebar:
		return m.openSelected()

	case key.Matches(msg, m.keys.Edit) && m.focus == focusContent:
		if m.orchestrator.ActiveView().Kind == sync.ViewDocument {
			if content, ok := m.orchestrator.DraftContent(); ok {
				m.editor.SetValue(content)
			}
			m.focus = focusEditor
			m.editor.Focus()
			return m, nil
		}

	case key.Matches(msg, m.keys.Save):
		if m.orchestrator.ActiveView().Kind == sync.ViewDocument {
			return m, m.saveDraft()
		}

	case key.Matches(msg, m.keys.Lock):
		if m.orchestrator.ActiveView().Kind == sync.ViewDocument {
			capabilities := role.ForDocument(m.membership.Identity(), m.session.Host, m.openDocument.CreatedBy)
			if !capabilities.ToggleLock {
				m.status = "only the host can lock or unlock"
				return m, nil
			}
			return m, m.toggleLock()
		}

	case key.Matches(msg, m.keys.NextTurn):
		return m, m.nextTurn()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportSession()

	case key.Matches(msg, m.keys.Cancel):
		m.orchestrator.CloseView()
		m.messages = nil
		m.comments = nil
		m.focus = focusSidebar
		m.syncInputFocus()
		m.refreshViewport()
		return m, nil
	}

	if m.focus == focusContent {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.FocusToggle):
		m.focus = m.nextFocus()
		m.syncInputFocus()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.focus = focusSidebar
		m.syncInputFocus()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		content := strings.TrimSpace(m.input.Value())
		if content == "" {
			return m, nil
		}
		m.input.Reset()
		return m, m.sendChat(content)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.focus = focusContent
		m.editor.Blur()
		m.refreshViewport()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m, m.saveDraft()
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	// Every edit flows into the draft immediately so polls cannot
	// clobber what is on screen.
	if err := m.orchestrator.SetDraftContent(m.editor.Value()); err == nil {
		m.refreshViewport()
	}
	return m, cmd
}

// nextFocus cycles focus through the panes that exist for the active
// view.
func (m model) nextFocus() focusArea {
	viewKind := m.orchestrator.ActiveView().Kind
	switch m.focus {
	case focusSidebar:
		if viewKind == sync.ViewNone {
			return focusSidebar
		}
		return focusContent
	case focusContent:
		if viewKind == sync.ViewChannel {
			return focusInput
		}
		return focusSidebar
	default:
		return focusSidebar
	}
}

func (m *model) syncInputFocus() {
	if m.focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *model) moveCursor(delta int) {
	next := m.cursor
	for {
		next += delta
		if next < 0 || next >= len(m.entries) {
			return
		}
		if m.entries[next].kind != entrySection {
			m.cursor = next
			return
		}
	}
}

func (m model) openSelected() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.entries) {
		return m, nil
	}
	entry := m.entries[m.cursor]
	switch entry.kind {
	case entryChannel:
		m.orchestrator.OpenChannel(m.ctx, entry.channel)
		m.messages = nil
		m.focus = focusInput
		m.syncInputFocus()
		m.status = ""
		m.refreshViewport()
		return m, nil
	case entryDocument:
		id := entry.document
		return m, func() tea.Msg {
			document, err := m.orchestrator.OpenDocument(m.ctx, id)
			if err != nil {
				return errorMsg{err}
			}
			return documentOpenedMsg{document}
		}
	case entryPlayerDocument:
		id := entry.document
		return m, func() tea.Msg {
			document, err := m.orchestrator.OpenPlayerDocument(m.ctx, id)
			if err != nil {
				return errorMsg{err}
			}
			return playerDocumentOpenedMsg{document}
		}
	}
	return m, nil
}

// applySnapshot folds one poller snapshot into the screen state.
// Snapshots carrying a fetch error keep their last good value; the
// error surfaces in the status line instead of wiping the pane.
func (m model) applySnapshot(snapshot sync.Snapshot) model {
	if snapshot.Err != nil {
		m.status = "authority unreachable, showing cached data"
	} else if strings.HasPrefix(m.status, "authority unreachable") {
		m.status = ""
	}

	switch snapshot.Key.Kind {
	case sync.KindSession:
		if session, ok := snapshot.Value.(remote.Session); ok {
			m.session = session
		}
	case sync.KindChannels:
		if channels, ok := snapshot.Value.([]remote.Channel); ok {
			m.channels = channels
			m.rebuildSidebar()
		}
	case sync.KindMembersChannels:
		if channels, ok := snapshot.Value.([]remote.MembersChannel); ok {
			m.membersChannels = channels
			m.rebuildSidebar()
		}
	case sync.KindDocuments:
		if documents, ok := snapshot.Value.([]remote.Document); ok {
			m.documents = documents
			m.rebuildSidebar()
		}
	case sync.KindPlayerDocuments:
		if documents, ok := snapshot.Value.([]remote.PlayerDocument); ok {
			m.playerDocuments = documents
			m.rebuildSidebar()
		}
	case sync.KindMessages:
		if messages, ok := snapshot.Value.([]remote.Message); ok {
			m.messages = messages
		}
	case sync.KindDocument:
		if document, ok := snapshot.Value.(remote.Document); ok {
			m.openDocument = document
		}
	case sync.KindPlayerDocument:
		if document, ok := snapshot.Value.(remote.PlayerDocument); ok {
			m.openPlayer = document
		}
	case sync.KindComments:
		if comments, ok := snapshot.Value.([]remote.Comment); ok {
			m.comments = comments
		}
	}

	m.refreshViewport()
	return m
}

func (m *model) rebuildSidebar() {
	entries := []sidebarEntry{{kind: entrySection, label: "Channels"}}
	for _, channel := range m.channels {
		entries = append(entries, sidebarEntry{
			kind:    entryChannel,
			label:   channel.Name,
			channel: remote.ChannelScope{Kind: remote.ChannelHost, ID: channel.ID},
		})
	}
	entries = append(entries, sidebarEntry{kind: entrySection, label: "Member channels"})
	for _, channel := range m.membersChannels {
		entries = append(entries, sidebarEntry{
			kind:    entryChannel,
			label:   channel.Name,
			channel: remote.ChannelScope{Kind: remote.ChannelMembers, ID: channel.ID},
		})
	}
	entries = append(entries, sidebarEntry{kind: entrySection, label: "Documents"})
	for _, document := range m.documents {
		label := document.Name
		if document.Locked {
			label += " 🔒"
		}
		entries = append(entries, sidebarEntry{
			kind:     entryDocument,
			label:    label,
			document: document.ID,
		})
	}
	entries = append(entries, sidebarEntry{kind: entrySection, label: "Player documents"})
	for _, document := range m.playerDocuments {
		label := document.Name
		if document.Private {
			label += " (private)"
		}
		entries = append(entries, sidebarEntry{
			kind:     entryPlayerDocument,
			label:    label,
			document: document.ID,
		})
	}
	m.entries = entries

	if m.cursor >= len(entries) {
		m.cursor = len(entries) - 1
	}
	if m.cursor < len(entries) && entries[m.cursor].kind == entrySection {
		m.moveCursor(1)
	}
}

// refreshViewport re-renders the content pane for the active view.
func (m *model) refreshViewport() {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()

	switch m.orchestrator.ActiveView().Kind {
	case sync.ViewChannel:
		m.viewport.SetContent(renderMessages(m.theme, m.messages, m.nickname))
		if atBottom {
			m.viewport.GotoBottom()
		}
	case sync.ViewDocument:
		m.viewport.SetContent(renderDocument(m.theme, m.openDocument, m.orchestrator.Draft(), m.comments))
	case sync.ViewPlayerDocument:
		m.viewport.SetContent(renderPlayerDocument(m.theme, m.openPlayer))
	default:
		m.viewport.SetContent(m.welcome())
	}
}

func (m *model) welcome() string {
	var builder strings.Builder
	builder.WriteString(m.theme.Heading.Render(m.session.Name))
	builder.WriteString("\n\n")
	builder.WriteString(m.theme.SidebarSection.Render("Members"))
	for _, member := range m.session.Members {
		builder.WriteByte('\n')
		name := member.Nickname
		if member.Identity == m.session.Host {
			name += " (host)"
		}
		builder.WriteString(name)
	}
	builder.WriteString("\n\n")
	builder.WriteString(m.theme.Status.Render("enter opens the selected channel or document"))
	return builder.String()
}

// Commands against the orchestrator. Each runs on its own goroutine
// under bubbletea and reports back as a message.

func (m model) sendChat(content string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.orchestrator.SendChat(m.ctx, content, 0, 0); err != nil {
			return errorMsg{err}
		}
		return statusMsg("")
	}
}

func (m model) saveDraft() tea.Cmd {
	return func() tea.Msg {
		document, err := m.orchestrator.SaveDocument(m.ctx)
		if err != nil {
			return errorMsg{err}
		}
		return documentUpdatedMsg{document}
	}
}

func (m model) toggleLock() tea.Cmd {
	locked := m.openDocument.Locked
	id := m.openDocument.ID
	return func() tea.Msg {
		var (
			document remote.Document
			err      error
		)
		if locked {
			document, err = m.orchestrator.UnlockDocument(m.ctx, id)
		} else {
			document, err = m.orchestrator.LockDocument(m.ctx, id)
		}
		if err != nil {
			return errorMsg{err}
		}
		return documentUpdatedMsg{document}
	}
}

func (m model) nextTurn() tea.Cmd {
	return func() tea.Msg {
		order, err := m.orchestrator.NextTurn(m.ctx)
		if err != nil {
			return errorMsg{err}
		}
		if len(order.Order) == 0 {
			return statusMsg("no turn order set")
		}
		current := order.Order[order.CurrentIndex%len(order.Order)]
		return statusMsg(fmt.Sprintf("turn: %s", current))
	}
}

// exportSession writes the export next to the local state and caches
// it as the session template for later reuse.
func (m model) exportSession() tea.Cmd {
	return func() tea.Msg {
		export, err := m.orchestrator.ExportSession(m.ctx)
		if err != nil {
			return errorMsg{err}
		}
		path := filepath.Join(m.store.Directory(), fmt.Sprintf("%s-export.json", m.session.ID))
		if err := localstate.WriteExportFile(path, export); err != nil {
			return errorMsg{err}
		}
		if err := m.store.SaveTemplate(export, localstate.CompressionZstd); err != nil {
			return errorMsg{err}
		}
		return statusMsg("exported to " + path)
	}
}

func (m model) View() string {
	if !m.ready {
		return "loading…"
	}

	sidebar := m.renderSidebar()

	var content string
	if m.focus == focusEditor {
		content = m.editor.View()
	} else {
		content = m.viewport.View()
	}
	if m.orchestrator.ActiveView().Kind == sync.ViewChannel {
		content += "\n" + m.input.View()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	return body + "\n" + m.statusLine()
}

func (m model) renderSidebar() string {
	height := max(m.height-2, 3)
	lines := make([]string, 0, len(m.entries))
	for i, entry := range m.entries {
		switch {
		case entry.kind == entrySection:
			lines = append(lines, m.theme.SidebarSection.Render(entry.label))
		case i == m.cursor && m.focus == focusSidebar:
			lines = append(lines, m.theme.SidebarSelected.Render("> "+entry.label))
		case i == m.cursor:
			lines = append(lines, m.theme.SidebarSelected.Render("  "+entry.label))
		default:
			lines = append(lines, m.theme.SidebarEntry.Render("  "+entry.label))
		}
	}
	return m.theme.Sidebar.
		Width(sidebarWidth).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func (m model) statusLine() string {
	if m.err != nil {
		text := m.err.Error()
		var rejection *remote.RejectionError
		if errors.As(m.err, &rejection) {
			text = rejection.Message
		}
		return m.theme.Error.Render(text)
	}
	if m.status != "" {
		return m.theme.Status.Render(m.status)
	}
	return m.theme.Status.Render(fmt.Sprintf("%s · %s · tab switches panes, C-c quits", m.session.Name, m.nickname))
}
