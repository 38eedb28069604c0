// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/parlor-foundation/parlor/lib/clock"
	"github.com/parlor-foundation/parlor/lib/config"
	"github.com/parlor-foundation/parlor/lib/dice"
	"github.com/parlor-foundation/parlor/lib/markup"
	"github.com/parlor-foundation/parlor/lib/ref"
	"github.com/parlor-foundation/parlor/remote"
)

// Authority is the slice of remote.Membership the orchestrator
// drives. Tests substitute an in-memory fake.
type Authority interface {
	SessionID() ref.SessionID
	Identity() ref.Identity
	Nickname() string

	GetSession(ctx context.Context) (remote.Session, error)
	ListChannels(ctx context.Context) ([]remote.Channel, error)
	ListMembersChannels(ctx context.Context) ([]remote.MembersChannel, error)
	ListDocuments(ctx context.Context) ([]remote.Document, error)
	GetDocument(ctx context.Context, id ref.DocumentID) (remote.Document, error)
	ListPlayerDocuments(ctx context.Context) ([]remote.PlayerDocument, error)
	GetPlayerDocument(ctx context.Context, id ref.DocumentID) (remote.PlayerDocument, error)
	ListMessages(ctx context.Context, scope remote.ChannelScope) ([]remote.Message, error)
	ListComments(ctx context.Context, documentID ref.DocumentID) ([]remote.Comment, error)

	CreateChannel(ctx context.Context, name string) (remote.Channel, error)
	CreateMembersChannel(ctx context.Context, name string) (remote.MembersChannel, error)
	RenameChannel(ctx context.Context, scope remote.ChannelScope, name string) error
	DeleteChannel(ctx context.Context, scope remote.ChannelScope) error
	PostMessage(ctx context.Context, scope remote.ChannelScope, request remote.PostMessageRequest) (remote.Message, error)
	Roll(ctx context.Context, pattern string) (remote.RollResult, error)

	CreateDocument(ctx context.Context, name string) (remote.Document, error)
	RenameDocument(ctx context.Context, id ref.DocumentID, name string) error
	DeleteDocument(ctx context.Context, id ref.DocumentID) error
	EditDocument(ctx context.Context, id ref.DocumentID, content string, revision uint64) (remote.Document, error)
	LockDocument(ctx context.Context, id ref.DocumentID) (remote.Document, error)
	UnlockDocument(ctx context.Context, id ref.DocumentID) (remote.Document, error)

	CreatePlayerDocument(ctx context.Context, name string, private bool) (remote.PlayerDocument, error)
	EditPlayerDocument(ctx context.Context, id ref.DocumentID, content string) (remote.PlayerDocument, error)
	RenamePlayerDocument(ctx context.Context, id ref.DocumentID, name string) error
	DeletePlayerDocument(ctx context.Context, id ref.DocumentID) error
	SetPlayerDocumentVisibility(ctx context.Context, id ref.DocumentID, private bool) (remote.PlayerDocument, error)

	AddComment(ctx context.Context, documentID ref.DocumentID, text string) (remote.Comment, error)
	DeleteComment(ctx context.Context, documentID ref.DocumentID, commentID ref.CommentID) error
	UploadFile(ctx context.Context, request remote.UploadFileRequest) (remote.FileReference, error)

	GetTurnOrder(ctx context.Context) (remote.TurnOrder, error)
	SetTurnOrder(ctx context.Context, order []string) (remote.TurnOrder, error)
	NextTurn(ctx context.Context) (remote.TurnOrder, error)
	ExportSession(ctx context.Context) (remote.SessionExport, error)
}

// Compile-time check: *remote.Membership implements Authority.
var _ Authority = (*remote.Membership)(nil)

// InitializationError is the terminal failure class for session
// establishment: the first fetch timed out or failed outright. It is
// never retried automatically — the UI offers an explicit retry or a
// local-data reset.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("sync: session initialization failed: %v", e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// ViewKind names what the user is looking at.
type ViewKind uint8

const (
	// ViewNone means no channel or document is selected.
	ViewNone ViewKind = iota
	// ViewChannel means a chat channel is selected.
	ViewChannel
	// ViewDocument means a session document is open.
	ViewDocument
	// ViewPlayerDocument means a player document is open.
	ViewPlayerDocument
)

// View is the active selection. Channel is set for ViewChannel,
// Document for the two document kinds.
type View struct {
	Kind     ViewKind
	Channel  remote.ChannelScope
	Document ref.DocumentID
}

// rollCommand prefixes a chat message that should be executed as a
// dice roll instead of posted verbatim.
const rollCommand = "/roll"

// OrchestratorConfig holds configuration for creating an
// Orchestrator.
type OrchestratorConfig struct {
	// Authority is the authenticated session handle. Required.
	Authority Authority
	// Clock drives polling and the startup timeout. If nil, the real
	// clock is used.
	Clock clock.Clock
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
	// Polling holds the per-resource intervals. Zero fields fall back
	// to the defaults.
	Polling config.PollingConfig
	// StartupTimeout bounds the first session fetch. Zero falls back
	// to the default.
	StartupTimeout time.Duration
}

// Orchestrator owns the active view, the live draft, and the
// post-mutation refresh wiring. All methods are safe for concurrent
// use; no lock is held across a network call except the draft save
// transition, which is what serializes saves.
type Orchestrator struct {
	authority Authority
	poller    *Poller
	clock     clock.Clock
	logger    *slog.Logger
	polling   config.PollingConfig
	timeout   time.Duration

	mu    sync.Mutex
	view  View
	draft *Draft
}

// NewOrchestrator creates an Orchestrator. Polling begins at Start.
func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if cfg.Authority == nil {
		return nil, fmt.Errorf("sync: Authority is required")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	defaults := config.Default()
	polling := cfg.Polling
	if polling.Messages <= 0 {
		polling.Messages = defaults.Polling.Messages
	}
	if polling.Lists <= 0 {
		polling.Lists = defaults.Polling.Lists
	}
	if polling.Document <= 0 {
		polling.Document = defaults.Polling.Document
	}
	if polling.Session <= 0 {
		polling.Session = defaults.Polling.Session
	}
	timeout := cfg.StartupTimeout
	if timeout <= 0 {
		timeout = defaults.StartupTimeout
	}

	return &Orchestrator{
		authority: cfg.Authority,
		poller:    NewPoller(PollerConfig{Clock: clk, Logger: logger}),
		clock:     clk,
		logger:    logger,
		polling:   polling,
		timeout:   timeout,
	}, nil
}

// Updates returns the snapshot publication channel.
func (o *Orchestrator) Updates() <-chan Snapshot { return o.poller.Updates() }

// Latest returns the newest snapshot for key, if any.
func (o *Orchestrator) Latest(key Key) (Snapshot, bool) { return o.poller.Latest(key) }

// Authority returns the session handle, for presentation needs the
// orchestrator does not mediate (file download, identity display).
func (o *Orchestrator) Authority() Authority { return o.authority }

// Start establishes the session: one fetch under the startup timeout,
// then the standing pollers for the roster and the four lists.
// Failure or timeout returns an *InitializationError and starts
// nothing — the caller decides whether to retry.
func (o *Orchestrator) Start(ctx context.Context) (remote.Session, error) {
	type fetchResult struct {
		session remote.Session
		err     error
	}
	resultChannel := make(chan fetchResult, 1)
	go func() {
		session, err := o.authority.GetSession(ctx)
		resultChannel <- fetchResult{session, err}
	}()

	var session remote.Session
	select {
	case result := <-resultChannel:
		if result.err != nil {
			return remote.Session{}, &InitializationError{Err: result.err}
		}
		session = result.session
	case <-o.clock.After(o.timeout):
		return remote.Session{}, &InitializationError{
			Err: fmt.Errorf("no session response within %v", o.timeout),
		}
	case <-ctx.Done():
		return remote.Session{}, &InitializationError{Err: ctx.Err()}
	}

	o.startPoll(ctx, SessionKey(), o.polling.Session, func(ctx context.Context) (any, error) {
		return o.authority.GetSession(ctx)
	})
	o.startPoll(ctx, ChannelsKey(), o.polling.Lists, func(ctx context.Context) (any, error) {
		return o.authority.ListChannels(ctx)
	})
	o.startPoll(ctx, MembersChannelsKey(), o.polling.Lists, func(ctx context.Context) (any, error) {
		return o.authority.ListMembersChannels(ctx)
	})
	o.startPoll(ctx, DocumentsKey(), o.polling.Lists, func(ctx context.Context) (any, error) {
		return o.authority.ListDocuments(ctx)
	})
	o.startPoll(ctx, PlayerDocumentsKey(), o.polling.Lists, func(ctx context.Context) (any, error) {
		return o.authority.ListPlayerDocuments(ctx)
	})

	o.logger.Info("session established",
		"session_id", session.ID,
		"name", session.Name,
		"members", len(session.Members),
	)
	return session, nil
}

// startPoll starts a poll loop. The intervals are validated at
// construction, so a failure here is a programming error worth a loud
// log rather than a return value every caller would ignore.
func (o *Orchestrator) startPoll(ctx context.Context, key Key, interval time.Duration, fetch FetchFunc) {
	if err := o.poller.Start(ctx, key, interval, fetch); err != nil {
		o.logger.Error("starting poll loop", "key", key.String(), "error", err)
	}
}

// Shutdown stops every poll loop and discards the draft.
func (o *Orchestrator) Shutdown() {
	o.poller.StopAll()
	o.mu.Lock()
	o.view = View{}
	o.draft = nil
	o.mu.Unlock()
}

// ActiveView returns the current selection.
func (o *Orchestrator) ActiveView() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.view
}

// Draft returns the live draft, or nil when no session document is
// open. The returned draft must only be used from the goroutine that
// drives the orchestrator; see DraftContent/SetDraftContent for
// mutex-guarded access.
func (o *Orchestrator) Draft() *Draft {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.draft
}

// DraftContent returns the visible draft content and whether a draft
// is open.
func (o *Orchestrator) DraftContent() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.draft == nil {
		return "", false
	}
	return o.draft.Content(), true
}

// SetDraftContent records a local edit to the open document.
func (o *Orchestrator) SetDraftContent(content string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.draft == nil {
		return fmt.Errorf("sync: no document open")
	}
	o.draft.SetContent(content)
	return nil
}

// OpenChannel selects a chat channel: the previous scoped pollers
// stop, the draft (if any) is discarded, and the channel's message
// poller starts.
func (o *Orchestrator) OpenChannel(ctx context.Context, scope remote.ChannelScope) {
	o.closeScopedLocked(View{Kind: ViewChannel, Channel: scope})
	o.startPoll(ctx, MessagesKey(scope), o.polling.Messages, func(ctx context.Context) (any, error) {
		return o.authority.ListMessages(ctx, scope)
	})
}

// OpenDocument opens a session document for editing: an immediate
// fetch seeds the draft, then content and comment pollers keep it
// converged. Poll results flow through the draft reducer before
// publication, so a Dirty draft never loses local edits.
func (o *Orchestrator) OpenDocument(ctx context.Context, id ref.DocumentID) (remote.Document, error) {
	document, err := o.authority.GetDocument(ctx, id)
	if err != nil {
		return remote.Document{}, fmt.Errorf("sync: open document %s: %w", id, err)
	}

	o.closeScopedLocked(View{Kind: ViewDocument, Document: id})
	o.mu.Lock()
	o.draft = NewDraft(document)
	o.mu.Unlock()

	o.startPoll(ctx, DocumentKey(id), o.polling.Document, func(ctx context.Context) (any, error) {
		polled, err := o.authority.GetDocument(ctx, id)
		if err != nil {
			return nil, err
		}
		o.applyDocumentPoll(polled)
		return polled, nil
	})
	o.startPoll(ctx, CommentsKey(id), o.polling.Document, func(ctx context.Context) (any, error) {
		return o.authority.ListComments(ctx, id)
	})
	return document, nil
}

// OpenPlayerDocument opens a player document. Player documents have
// no revision counter or lock, so there is no draft machinery — the
// poller simply tracks content.
func (o *Orchestrator) OpenPlayerDocument(ctx context.Context, id ref.DocumentID) (remote.PlayerDocument, error) {
	document, err := o.authority.GetPlayerDocument(ctx, id)
	if err != nil {
		return remote.PlayerDocument{}, fmt.Errorf("sync: open player document %s: %w", id, err)
	}

	o.closeScopedLocked(View{Kind: ViewPlayerDocument, Document: id})
	o.startPoll(ctx, PlayerDocumentKey(id), o.polling.Document, func(ctx context.Context) (any, error) {
		return o.authority.GetPlayerDocument(ctx, id)
	})
	return document, nil
}

// CloseView deselects whatever is open, stopping its scoped pollers
// and discarding the draft unconditionally.
func (o *Orchestrator) CloseView() {
	o.closeScopedLocked(View{})
}

// closeScopedLocked stops the pollers scoped to the current view,
// discards the draft, and installs the next view. In-flight fetches
// for stopped keys finish and are discarded by the poller.
func (o *Orchestrator) closeScopedLocked(next View) {
	o.mu.Lock()
	previous := o.view
	o.view = next
	o.draft = nil
	o.mu.Unlock()

	switch previous.Kind {
	case ViewChannel:
		o.poller.Stop(MessagesKey(previous.Channel))
	case ViewDocument:
		o.poller.Stop(DocumentKey(previous.Document))
		o.poller.Stop(CommentsKey(previous.Document))
	case ViewPlayerDocument:
		o.poller.Stop(PlayerDocumentKey(previous.Document))
	}
}

// applyDocumentPoll routes a polled document through the draft
// reducer when it is the open one.
func (o *Orchestrator) applyDocumentPoll(document remote.Document) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.draft != nil && o.draft.DocumentID() == document.ID {
		o.draft.ApplyPoll(document)
	}
}

// SendChat posts to the active channel, executing dice commands
// through the roll pipeline. A message starting with "/roll" is
// validated locally (malformed patterns never reach the network),
// executed by the authority so every member sees the same audited
// result, and posted as formatted content.
func (o *Orchestrator) SendChat(ctx context.Context, content string, imageID ref.FileID, replyTo ref.MessageID) (remote.Message, error) {
	o.mu.Lock()
	view := o.view
	o.mu.Unlock()
	if view.Kind != ViewChannel {
		return remote.Message{}, fmt.Errorf("sync: no channel selected")
	}

	trimmed := strings.TrimSpace(content)
	if rest, ok := strings.CutPrefix(trimmed, rollCommand); ok && (rest == "" || strings.HasPrefix(rest, " ")) {
		pattern := strings.TrimSpace(rest)
		roll, err := dice.Parse(pattern)
		if err != nil {
			return remote.Message{}, err
		}
		result, err := o.authority.Roll(ctx, roll.Pattern)
		if err != nil {
			return remote.Message{}, fmt.Errorf("sync: roll failed: %w", err)
		}
		content = dice.Format(o.authority.Nickname(), toDiceResult(result))
		imageID = 0
	} else if trimmed == "" && imageID.IsZero() {
		return remote.Message{}, fmt.Errorf("sync: message is empty")
	}

	message, err := o.authority.PostMessage(ctx, view.Channel, remote.PostMessageRequest{
		Content: content,
		ImageID: imageID,
		ReplyTo: replyTo,
	})
	if err != nil {
		return remote.Message{}, err
	}
	o.poller.Refresh(MessagesKey(view.Channel))
	return message, nil
}

func toDiceResult(result remote.RollResult) dice.Result {
	rolls := make([]int, len(result.Rolls))
	for i, roll := range result.Rolls {
		rolls[i] = int(roll)
	}
	return dice.Result{
		Pattern:  result.Pattern,
		Rolls:    rolls,
		Modifier: int(result.Modifier),
		Total:    int(result.Total),
	}
}

// SaveDocument saves the open draft. Locked documents are rejected
// locally; a failed save keeps the draft for an explicit retry; a
// successful save adopts the authority's revision from the save
// response.
func (o *Orchestrator) SaveDocument(ctx context.Context) (remote.Document, error) {
	o.mu.Lock()
	if o.draft == nil {
		o.mu.Unlock()
		return remote.Document{}, fmt.Errorf("sync: no document open")
	}
	draft := o.draft
	id := draft.DocumentID()
	content, revision, err := draft.BeginSave()
	o.mu.Unlock()
	if err != nil {
		return remote.Document{}, err
	}

	document, err := o.authority.EditDocument(ctx, id, content, revision)

	o.mu.Lock()
	// The draft may have been replaced while the request was in
	// flight (view switch). The outcome then applies to a dead draft
	// and must not touch the live one.
	live := o.draft == draft
	if live {
		if err != nil {
			draft.FailSave()
		} else {
			draft.CompleteSave(document)
		}
	}
	o.mu.Unlock()

	if err != nil {
		return remote.Document{}, err
	}
	o.poller.Refresh(DocumentKey(id))
	return document, nil
}

// CreateChannel creates a host channel and refreshes the list.
func (o *Orchestrator) CreateChannel(ctx context.Context, name string) (remote.Channel, error) {
	channel, err := o.authority.CreateChannel(ctx, name)
	if err != nil {
		return remote.Channel{}, err
	}
	o.poller.Refresh(ChannelsKey())
	return channel, nil
}

// CreateMembersChannel creates a member channel and refreshes the
// list.
func (o *Orchestrator) CreateMembersChannel(ctx context.Context, name string) (remote.MembersChannel, error) {
	channel, err := o.authority.CreateMembersChannel(ctx, name)
	if err != nil {
		return remote.MembersChannel{}, err
	}
	o.poller.Refresh(MembersChannelsKey())
	return channel, nil
}

// RenameChannel renames a channel of either kind and refreshes its
// list.
func (o *Orchestrator) RenameChannel(ctx context.Context, scope remote.ChannelScope, name string) error {
	if err := o.authority.RenameChannel(ctx, scope, name); err != nil {
		return err
	}
	o.refreshChannelList(scope.Kind)
	return nil
}

// DeleteChannel deletes a channel of either kind, refreshes its list,
// and closes the view if the deleted channel was selected.
func (o *Orchestrator) DeleteChannel(ctx context.Context, scope remote.ChannelScope) error {
	if err := o.authority.DeleteChannel(ctx, scope); err != nil {
		return err
	}
	o.mu.Lock()
	selected := o.view.Kind == ViewChannel && o.view.Channel == scope
	o.mu.Unlock()
	if selected {
		o.CloseView()
	}
	o.refreshChannelList(scope.Kind)
	return nil
}

func (o *Orchestrator) refreshChannelList(kind remote.ChannelKind) {
	if kind == remote.ChannelMembers {
		o.poller.Refresh(MembersChannelsKey())
	} else {
		o.poller.Refresh(ChannelsKey())
	}
}

// CreateDocument creates a session document and refreshes the list.
func (o *Orchestrator) CreateDocument(ctx context.Context, name string) (remote.Document, error) {
	document, err := o.authority.CreateDocument(ctx, name)
	if err != nil {
		return remote.Document{}, err
	}
	o.poller.Refresh(DocumentsKey())
	return document, nil
}

// RenameDocument renames a session document, refreshing the document
// and the list.
func (o *Orchestrator) RenameDocument(ctx context.Context, id ref.DocumentID, name string) error {
	if err := o.authority.RenameDocument(ctx, id, name); err != nil {
		return err
	}
	o.poller.Refresh(DocumentsKey())
	o.poller.Refresh(DocumentKey(id))
	return nil
}

// DeleteDocument deletes a session document, refreshes the list, and
// closes the view if the deleted document was open.
func (o *Orchestrator) DeleteDocument(ctx context.Context, id ref.DocumentID) error {
	if err := o.authority.DeleteDocument(ctx, id); err != nil {
		return err
	}
	o.mu.Lock()
	open := o.view.Kind == ViewDocument && o.view.Document == id
	o.mu.Unlock()
	if open {
		o.CloseView()
	}
	o.poller.Refresh(DocumentsKey())
	return nil
}

// LockDocument locks a session document and feeds the response
// through the draft reducer so the lock is visible immediately.
func (o *Orchestrator) LockDocument(ctx context.Context, id ref.DocumentID) (remote.Document, error) {
	document, err := o.authority.LockDocument(ctx, id)
	if err != nil {
		return remote.Document{}, err
	}
	o.applyDocumentPoll(document)
	o.poller.Refresh(DocumentKey(id))
	return document, nil
}

// UnlockDocument clears a session document's lock.
func (o *Orchestrator) UnlockDocument(ctx context.Context, id ref.DocumentID) (remote.Document, error) {
	document, err := o.authority.UnlockDocument(ctx, id)
	if err != nil {
		return remote.Document{}, err
	}
	o.applyDocumentPoll(document)
	o.poller.Refresh(DocumentKey(id))
	return document, nil
}

// CreatePlayerDocument creates a player document and refreshes the
// list.
func (o *Orchestrator) CreatePlayerDocument(ctx context.Context, name string, private bool) (remote.PlayerDocument, error) {
	document, err := o.authority.CreatePlayerDocument(ctx, name, private)
	if err != nil {
		return remote.PlayerDocument{}, err
	}
	o.poller.Refresh(PlayerDocumentsKey())
	return document, nil
}

// EditPlayerDocument replaces a player document's content and
// refreshes it.
func (o *Orchestrator) EditPlayerDocument(ctx context.Context, id ref.DocumentID, content string) (remote.PlayerDocument, error) {
	document, err := o.authority.EditPlayerDocument(ctx, id, content)
	if err != nil {
		return remote.PlayerDocument{}, err
	}
	o.poller.Refresh(PlayerDocumentKey(id))
	o.poller.Refresh(PlayerDocumentsKey())
	return document, nil
}

// RenamePlayerDocument renames a player document and refreshes the
// list.
func (o *Orchestrator) RenamePlayerDocument(ctx context.Context, id ref.DocumentID, name string) error {
	if err := o.authority.RenamePlayerDocument(ctx, id, name); err != nil {
		return err
	}
	o.poller.Refresh(PlayerDocumentsKey())
	return nil
}

// DeletePlayerDocument deletes a player document, refreshes the list,
// and closes the view if it was open.
func (o *Orchestrator) DeletePlayerDocument(ctx context.Context, id ref.DocumentID) error {
	if err := o.authority.DeletePlayerDocument(ctx, id); err != nil {
		return err
	}
	o.mu.Lock()
	open := o.view.Kind == ViewPlayerDocument && o.view.Document == id
	o.mu.Unlock()
	if open {
		o.CloseView()
	}
	o.poller.Refresh(PlayerDocumentsKey())
	return nil
}

// SetPlayerDocumentVisibility flips a player document's private flag
// and refreshes the list (visibility changes list membership for
// other members).
func (o *Orchestrator) SetPlayerDocumentVisibility(ctx context.Context, id ref.DocumentID, private bool) (remote.PlayerDocument, error) {
	document, err := o.authority.SetPlayerDocumentVisibility(ctx, id, private)
	if err != nil {
		return remote.PlayerDocument{}, err
	}
	o.poller.Refresh(PlayerDocumentsKey())
	o.poller.Refresh(PlayerDocumentKey(id))
	return document, nil
}

// AddComment attaches a comment and refreshes the document's comment
// list.
func (o *Orchestrator) AddComment(ctx context.Context, documentID ref.DocumentID, text string) (remote.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return remote.Comment{}, fmt.Errorf("sync: comment is empty")
	}
	comment, err := o.authority.AddComment(ctx, documentID, text)
	if err != nil {
		return remote.Comment{}, err
	}
	o.poller.Refresh(CommentsKey(documentID))
	return comment, nil
}

// DeleteComment removes a comment and refreshes the list.
func (o *Orchestrator) DeleteComment(ctx context.Context, documentID ref.DocumentID, commentID ref.CommentID) error {
	if err := o.authority.DeleteComment(ctx, documentID, commentID); err != nil {
		return err
	}
	o.poller.Refresh(CommentsKey(documentID))
	return nil
}

// AttachFile uploads a file against the open document and inserts
// its marker into the draft at the given offset: file markers on
// their own line, image markers inline. The upload's identifier
// comes from the upload response itself.
func (o *Orchestrator) AttachFile(ctx context.Context, request remote.UploadFileRequest, offset int, image bool) (remote.FileReference, error) {
	o.mu.Lock()
	draft := o.draft
	o.mu.Unlock()
	if draft == nil || draft.DocumentID() != request.DocumentID {
		return remote.FileReference{}, fmt.Errorf("sync: document %s is not open", request.DocumentID)
	}

	reference, err := o.authority.UploadFile(ctx, request)
	if err != nil {
		return remote.FileReference{}, err
	}

	tag := markup.TagFile
	if image {
		tag = markup.TagImage
	}
	marker := markup.NewMarker(tag, reference.ID, reference.Label)

	o.mu.Lock()
	if o.draft == draft {
		content := draft.Content()
		if image {
			content = markup.Insert(content, offset, marker)
		} else {
			content = markup.InsertBlock(content, offset, marker)
		}
		draft.SetContent(content)
	}
	o.mu.Unlock()

	o.poller.Refresh(DocumentKey(request.DocumentID))
	return reference, nil
}

// RemoveFileMarkers deletes every marker for a file id from the open
// draft.
func (o *Orchestrator) RemoveFileMarkers(id ref.FileID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.draft == nil {
		return fmt.Errorf("sync: no document open")
	}
	content := o.draft.Content()
	content = markup.Remove(content, markup.TagFile, id)
	content = markup.Remove(content, markup.TagImage, id)
	o.draft.SetContent(content)
	return nil
}

// GetTurnOrder fetches the turn order.
func (o *Orchestrator) GetTurnOrder(ctx context.Context) (remote.TurnOrder, error) {
	return o.authority.GetTurnOrder(ctx)
}

// SetTurnOrder replaces the turn order and refreshes the roster.
func (o *Orchestrator) SetTurnOrder(ctx context.Context, order []string) (remote.TurnOrder, error) {
	result, err := o.authority.SetTurnOrder(ctx, order)
	if err != nil {
		return remote.TurnOrder{}, err
	}
	o.poller.Refresh(SessionKey())
	return result, nil
}

// NextTurn advances the turn order.
func (o *Orchestrator) NextTurn(ctx context.Context) (remote.TurnOrder, error) {
	result, err := o.authority.NextTurn(ctx)
	if err != nil {
		return remote.TurnOrder{}, err
	}
	o.poller.Refresh(SessionKey())
	return result, nil
}

// ExportSession fetches the full session snapshot.
func (o *Orchestrator) ExportSession(ctx context.Context) (remote.SessionExport, error) {
	return o.authority.ExportSession(ctx)
}
