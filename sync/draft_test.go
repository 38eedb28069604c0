// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"errors"
	"testing"

	"github.com/parlor-foundation/parlor/remote"
)

func testDocument(revision uint64, content string) remote.Document {
	return remote.Document{ID: 9, Name: "world notes", Content: content, Revision: revision}
}

func TestDraftStartsClean(t *testing.T) {
	draft := NewDraft(testDocument(4, "the keep stands"))
	if draft.State() != DraftClean {
		t.Fatalf("state = %v", draft.State())
	}
	if draft.Content() != "the keep stands" {
		t.Errorf("content = %q", draft.Content())
	}
	if draft.BaseRevision() != 4 {
		t.Errorf("base revision = %d", draft.BaseRevision())
	}
}

func TestDraftLocalEditMakesDirty(t *testing.T) {
	draft := NewDraft(testDocument(4, "original"))
	draft.SetContent("edited")
	if draft.State() != DraftDirty {
		t.Fatalf("state after edit = %v", draft.State())
	}

	// Editing back to the server content before anything else happened
	// is not a divergence.
	draft = NewDraft(testDocument(4, "original"))
	draft.SetContent("original")
	if draft.State() != DraftClean {
		t.Errorf("state after no-op edit = %v", draft.State())
	}
}

func TestDraftCleanAdoptsPolledContent(t *testing.T) {
	draft := NewDraft(testDocument(4, "original"))
	draft.ApplyPoll(testDocument(5, "someone else's edit"))
	if draft.Content() != "someone else's edit" {
		t.Errorf("clean draft did not adopt polled content: %q", draft.Content())
	}
	if draft.BaseRevision() != 5 {
		t.Errorf("base revision = %d, want 5", draft.BaseRevision())
	}
}

func TestDraftDirtyShadowsPolledContent(t *testing.T) {
	draft := NewDraft(testDocument(4, "original"))
	draft.SetContent("my in-progress edit")
	draft.ApplyPoll(testDocument(5, "someone else's edit"))

	if draft.Content() != "my in-progress edit" {
		t.Errorf("dirty draft lost local edit: %q", draft.Content())
	}
	if draft.Server().Revision != 5 {
		t.Errorf("shadow server revision = %d, want 5", draft.Server().Revision)
	}
	// The visible base is still what the draft was edited against.
	if draft.BaseRevision() != 4 {
		t.Errorf("base revision = %d, want 4", draft.BaseRevision())
	}
}

func TestDraftSaveLifecycle(t *testing.T) {
	draft := NewDraft(testDocument(4, "original"))
	draft.SetContent("edited")

	content, revision, err := draft.BeginSave()
	if err != nil {
		t.Fatalf("BeginSave failed: %v", err)
	}
	if content != "edited" || revision != 4 {
		t.Fatalf("BeginSave = %q, %d", content, revision)
	}
	if draft.State() != DraftSaving {
		t.Fatalf("state = %v", draft.State())
	}

	if _, _, err := draft.BeginSave(); !errors.Is(err, ErrSaveInFlight) {
		t.Errorf("second BeginSave error = %v", err)
	}

	draft.CompleteSave(testDocument(5, "edited"))
	if draft.State() != DraftClean {
		t.Errorf("state after save = %v", draft.State())
	}
	if draft.BaseRevision() != 5 {
		t.Errorf("base revision after save = %d, want the save response's", draft.BaseRevision())
	}
}

// The concurrent-edit scenario: open at revision 4, edit locally, a
// poll lands showing revision 5 with different content, then the save
// succeeds. The draft must keep the user's text throughout and land
// Clean at the revision from the save response — not from the stale
// poll.
func TestDraftConcurrentPollThenSave(t *testing.T) {
	draft := NewDraft(testDocument(4, "original"))
	draft.SetContent("the user's edited text")

	draft.ApplyPoll(testDocument(5, "a concurrent edit by someone else"))
	if draft.Content() != "the user's edited text" {
		t.Fatalf("draft lost the user's text: %q", draft.Content())
	}

	content, revision, err := draft.BeginSave()
	if err != nil {
		t.Fatalf("BeginSave failed: %v", err)
	}
	if content != "the user's edited text" || revision != 4 {
		t.Fatalf("BeginSave = %q, %d", content, revision)
	}

	draft.CompleteSave(testDocument(6, "the user's edited text"))
	if draft.State() != DraftClean {
		t.Errorf("state = %v", draft.State())
	}
	if draft.BaseRevision() != 6 {
		t.Errorf("base revision = %d, want 6 from the save response", draft.BaseRevision())
	}
	if draft.Content() != "the user's edited text" {
		t.Errorf("content = %q", draft.Content())
	}
}

func TestDraftFailedSavePreservesDraft(t *testing.T) {
	draft := NewDraft(testDocument(4, "original"))
	draft.SetContent("edited")
	if _, _, err := draft.BeginSave(); err != nil {
		t.Fatalf("BeginSave failed: %v", err)
	}

	draft.FailSave()
	if draft.State() != DraftDirty {
		t.Errorf("state after failed save = %v", draft.State())
	}
	if draft.Content() != "edited" {
		t.Errorf("draft content lost on failed save: %q", draft.Content())
	}
}

func TestDraftLockedSaveRejectedLocally(t *testing.T) {
	document := testDocument(4, "original")
	document.Locked = true
	draft := NewDraft(document)
	draft.SetContent("edited")

	_, _, err := draft.BeginSave()
	if !errors.Is(err, ErrDocumentLocked) {
		t.Fatalf("BeginSave error = %v, want ErrDocumentLocked", err)
	}
	if draft.State() != DraftDirty {
		t.Errorf("state after rejected save = %v", draft.State())
	}
	if draft.Content() != "edited" {
		t.Errorf("draft content lost on rejected save: %q", draft.Content())
	}
}

func TestDraftLockArrivesByPoll(t *testing.T) {
	draft := NewDraft(testDocument(4, "original"))
	draft.SetContent("edited")

	locked := testDocument(4, "original")
	locked.Locked = true
	draft.ApplyPoll(locked)

	if _, _, err := draft.BeginSave(); !errors.Is(err, ErrDocumentLocked) {
		t.Errorf("BeginSave error = %v, want ErrDocumentLocked from the latest poll", err)
	}
}

func TestDraftEditDuringSave(t *testing.T) {
	draft := NewDraft(testDocument(4, "original"))
	draft.SetContent("first edit")
	if _, _, err := draft.BeginSave(); err != nil {
		t.Fatalf("BeginSave failed: %v", err)
	}

	// The user keeps typing while the save is in flight.
	draft.SetContent("first edit plus more")

	draft.CompleteSave(testDocument(5, "first edit"))
	if draft.State() != DraftDirty {
		t.Errorf("state = %v, want Dirty since the draft moved past the saved content", draft.State())
	}
	if draft.BaseRevision() != 5 {
		t.Errorf("base revision = %d, want the saved revision", draft.BaseRevision())
	}
	if draft.Content() != "first edit plus more" {
		t.Errorf("content = %q", draft.Content())
	}
}
