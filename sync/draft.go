// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"errors"
	"fmt"

	"github.com/parlor-foundation/parlor/lib/ref"
	"github.com/parlor-foundation/parlor/remote"
)

// ErrDocumentLocked rejects a save attempt on a locked document
// before any network call. Callers surface it exactly like a server
// rejection; only the timing differs.
var ErrDocumentLocked = errors.New("sync: document is locked")

// ErrSaveInFlight rejects a save while a previous one is running.
var ErrSaveInFlight = errors.New("sync: save already in progress")

// DraftState is the edit state of the open document.
type DraftState uint8

const (
	// DraftClean means the draft equals the last known server
	// content. Polls replace the visible draft.
	DraftClean DraftState = iota
	// DraftDirty means the draft diverges locally. Polls update the
	// shadow server state only; the visible draft is untouched.
	DraftDirty
	// DraftSaving means a save is in flight. Like Dirty, polls are
	// shadowed.
	DraftSaving
)

func (s DraftState) String() string {
	switch s {
	case DraftClean:
		return "clean"
	case DraftDirty:
		return "dirty"
	case DraftSaving:
		return "saving"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Draft is the edit state machine for one open document. It is a
// pure state reducer: no I/O, no locking. The Orchestrator owns the
// single live Draft and serializes access to it; the draft is
// destroyed when the document is closed or the view switches.
type Draft struct {
	state   DraftState
	content string
	// baseRevision is the revision the visible draft is based on —
	// what a save submits for conflict detection.
	baseRevision uint64
	// server is the latest known server state, updated on every poll
	// regardless of draft state.
	server remote.Document
}

// NewDraft opens a draft over the given server document, starting
// Clean.
func NewDraft(document remote.Document) *Draft {
	return &Draft{
		state:        DraftClean,
		content:      document.Content,
		baseRevision: document.Revision,
		server:       document,
	}
}

// State returns the current state.
func (d *Draft) State() DraftState { return d.state }

// Dirty reports whether the visible draft diverges from the server.
func (d *Draft) Dirty() bool { return d.state != DraftClean }

// Content returns the visible draft content.
func (d *Draft) Content() string { return d.content }

// BaseRevision returns the revision the draft is based on.
func (d *Draft) BaseRevision() uint64 { return d.baseRevision }

// Server returns the latest known server state, which may be newer
// than the draft's base while the draft is Dirty or Saving.
func (d *Draft) Server() remote.Document { return d.server }

// DocumentID returns the document this draft belongs to.
func (d *Draft) DocumentID() ref.DocumentID { return d.server.ID }

// SetContent records a local edit. Any divergence from the server
// content makes the draft Dirty; editing back to an exact match of
// the server content while still Clean keeps it Clean. Content
// changes during Saving are permitted and leave the state Saving —
// the outcome handlers sort it out.
func (d *Draft) SetContent(content string) {
	d.content = content
	if d.state == DraftClean && content != d.server.Content {
		d.state = DraftDirty
	}
}

// ApplyPoll is the reducer for poll results: always adopt the polled
// document as the latest known server state; replace the visible
// draft only when Clean, so in-progress local edits are never lost to
// a background poll.
func (d *Draft) ApplyPoll(document remote.Document) {
	d.server = document
	if d.state == DraftClean {
		d.content = document.Content
		d.baseRevision = document.Revision
	}
}

// BeginSave validates and starts a save, returning the content and
// base revision to submit. A locked document (per the latest poll) is
// rejected locally with ErrDocumentLocked — no network call happens,
// and the draft stays Dirty with its content intact.
func (d *Draft) BeginSave() (content string, revision uint64, err error) {
	if d.state == DraftSaving {
		return "", 0, ErrSaveInFlight
	}
	if d.server.Locked {
		return "", 0, ErrDocumentLocked
	}
	d.state = DraftSaving
	return d.content, d.baseRevision, nil
}

// CompleteSave adopts the save response: the draft becomes Clean at
// the revision the authority assigned, not at whatever an earlier
// stale poll reported. If the user kept typing while the save was in
// flight, the divergence is re-detected and the draft lands Dirty on
// the new base.
func (d *Draft) CompleteSave(document remote.Document) {
	d.server = document
	d.baseRevision = document.Revision
	if d.content == document.Content {
		d.state = DraftClean
	} else {
		d.state = DraftDirty
	}
}

// FailSave records a failed save: back to Dirty, draft content
// preserved for an explicit user retry. Mutations are never
// auto-retried.
func (d *Draft) FailSave() {
	d.state = DraftDirty
}
