// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package localstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parlor-foundation/parlor/lib/ref"
	"github.com/parlor-foundation/parlor/remote"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func corrupt(t *testing.T, store *Store, name string) {
	t.Helper()
	path := filepath.Join(store.Directory(), name)
	if err := os.WriteFile(path, []byte("not cbor at all"), 0o600); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	store := newTestStore(t)

	preferences := Preferences{
		ThemeMode:       "dark",
		DefaultNickname: "Kira",
		UIScale:         125,
	}
	if err := store.SavePreferences(preferences); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	loaded := store.LoadPreferences()
	if loaded != preferences {
		t.Errorf("loaded = %+v, want %+v", loaded, preferences)
	}
}

func TestPreferencesDefaults(t *testing.T) {
	store := newTestStore(t)

	loaded := store.LoadPreferences()
	if loaded != DefaultPreferences() {
		t.Errorf("missing file loaded = %+v", loaded)
	}

	corrupt(t, store, preferencesFile)
	loaded = store.LoadPreferences()
	if loaded != DefaultPreferences() {
		t.Errorf("corrupt file loaded = %+v", loaded)
	}
}

func TestPreferencesScaleClamp(t *testing.T) {
	store := newTestStore(t)

	if err := store.SavePreferences(Preferences{ThemeMode: "dark", UIScale: 500}); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}
	if got := store.LoadPreferences().UIScale; got != MaxUIScale {
		t.Errorf("oversized scale = %d, want %d", got, MaxUIScale)
	}

	if err := store.SavePreferences(Preferences{ThemeMode: "dark", UIScale: 3}); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}
	if got := store.LoadPreferences().UIScale; got != MinUIScale {
		t.Errorf("undersized scale = %d, want %d", got, MinUIScale)
	}
}

func TestStickerAddDedupAndCap(t *testing.T) {
	store := newTestStore(t)

	stickers, err := store.AddSticker(nil, []byte("grinning goblin"), "image/png", 1)
	if err != nil {
		t.Fatalf("AddSticker failed: %v", err)
	}
	if len(stickers) != 1 {
		t.Fatalf("set size = %d", len(stickers))
	}

	// Same bytes again: deduplicated by content hash.
	stickers, err = store.AddSticker(stickers, []byte("grinning goblin"), "image/png", 2)
	if err != nil {
		t.Fatalf("AddSticker failed: %v", err)
	}
	if len(stickers) != 1 {
		t.Errorf("dedup failed, set size = %d", len(stickers))
	}

	// Fill to the cap.
	for i := len(stickers); i < MaxStickers; i++ {
		stickers, err = store.AddSticker(stickers, []byte{byte(i), byte(i >> 8), 1}, "image/png", int64(i))
		if err != nil {
			t.Fatalf("AddSticker %d failed: %v", i, err)
		}
	}
	if _, err := store.AddSticker(stickers, []byte("one too many"), "image/png", 99); err == nil {
		t.Error("expected error at the set cap")
	}

	loaded := store.LoadStickers()
	if len(loaded) != MaxStickers {
		t.Errorf("persisted set size = %d, want %d", len(loaded), MaxStickers)
	}
}

func TestStickerSizeCap(t *testing.T) {
	store := newTestStore(t)
	oversized := make([]byte, MaxStickerSize+1)
	if _, err := store.AddSticker(nil, oversized, "image/png", 1); err == nil {
		t.Error("expected error for oversized sticker")
	}
}

func TestStickerRemove(t *testing.T) {
	store := newTestStore(t)
	stickers, err := store.AddSticker(nil, []byte("goblin"), "image/png", 1)
	if err != nil {
		t.Fatalf("AddSticker failed: %v", err)
	}

	id := stickers[0].ID
	stickers, err = store.RemoveSticker(stickers, id)
	if err != nil {
		t.Fatalf("RemoveSticker failed: %v", err)
	}
	if len(stickers) != 0 {
		t.Errorf("set size = %d", len(stickers))
	}

	// Removing again is a no-op.
	stickers, err = store.RemoveSticker(stickers, id)
	if err != nil || len(stickers) != 0 {
		t.Errorf("second remove = %v, %v", stickers, err)
	}
}

func TestQuickChatProfileCorruptCleared(t *testing.T) {
	store := newTestStore(t)

	profile := QuickChatProfile{DisplayName: "Kira", Avatar: []byte{1, 2}, AvatarMediaType: "image/png"}
	if err := store.SaveQuickChatProfile(profile); err != nil {
		t.Fatalf("SaveQuickChatProfile failed: %v", err)
	}
	if loaded := store.LoadQuickChatProfile(); loaded.DisplayName != "Kira" {
		t.Errorf("loaded = %+v", loaded)
	}

	corrupt(t, store, quickChatFile)
	if loaded := store.LoadQuickChatProfile(); loaded.DisplayName != "" {
		t.Errorf("corrupt profile not cleared: %+v", loaded)
	}
	if _, err := os.Stat(filepath.Join(store.Directory(), quickChatFile)); !os.IsNotExist(err) {
		t.Error("corrupt profile file left on disk")
	}
}

func TestQuickChatProfileAvatarCap(t *testing.T) {
	store := newTestStore(t)
	profile := QuickChatProfile{
		DisplayName:     "Kira",
		Avatar:          make([]byte, MaxAvatarSize+1),
		AvatarMediaType: "image/png",
	}
	if err := store.SaveQuickChatProfile(profile); err == nil {
		t.Error("expected error for oversized avatar")
	}
}

func TestSessionContextRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if _, ok := store.LoadSessionContext(); ok {
		t.Fatal("context present before save")
	}

	saved := SessionContext{
		SessionID: 42,
		Identity:  ref.MustIdentity("kira-aaaaa-cai"),
		Nickname:  "Kira",
		Host:      true,
		Token:     "issued-token",
	}
	if err := store.SaveSessionContext(saved); err != nil {
		t.Fatalf("SaveSessionContext failed: %v", err)
	}

	loaded, ok := store.LoadSessionContext()
	if !ok || loaded != saved {
		t.Errorf("loaded = %+v, %v", loaded, ok)
	}

	if err := store.ClearSessionContext(); err != nil {
		t.Fatalf("ClearSessionContext failed: %v", err)
	}
	if _, ok := store.LoadSessionContext(); ok {
		t.Error("context present after clear")
	}
}

func testExport() remote.SessionExport {
	return remote.SessionExport{
		Session: remote.Session{ID: 7, Name: "kitchen-table", Host: ref.MustIdentity("kira-aaaaa-cai")},
		Channels: []remote.Channel{
			{ID: 1, Name: "table-talk"},
		},
		Documents: []remote.Document{
			{ID: 9, Name: "world notes", Content: "the keep stands on the hill above the river crossing", Revision: 4},
		},
	}
}

func TestTemplateRoundTripBothCodecs(t *testing.T) {
	for _, tag := range []CompressionTag{CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			store := newTestStore(t)
			if err := store.SaveTemplate(testExport(), tag); err != nil {
				t.Fatalf("SaveTemplate failed: %v", err)
			}
			loaded, ok := store.LoadTemplate()
			if !ok {
				t.Fatal("template absent after save")
			}
			if loaded.Session.Name != "kitchen-table" || len(loaded.Documents) != 1 {
				t.Errorf("loaded = %+v", loaded)
			}
			if loaded.Documents[0].Content != testExport().Documents[0].Content {
				t.Errorf("document content = %q", loaded.Documents[0].Content)
			}
		})
	}
}

func TestTemplateCorruptReadsAsAbsent(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveTemplate(testExport(), CompressionZstd); err != nil {
		t.Fatalf("SaveTemplate failed: %v", err)
	}

	corrupt(t, store, templateFile)
	if _, ok := store.LoadTemplate(); ok {
		t.Error("corrupt template loaded")
	}
}

func TestExportFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kitchen-table.json")
	if err := WriteExportFile(path, testExport()); err != nil {
		t.Fatalf("WriteExportFile failed: %v", err)
	}

	export, err := ReadExportFile(path)
	if err != nil {
		t.Fatalf("ReadExportFile failed: %v", err)
	}
	if export.Session.Name != "kitchen-table" {
		t.Errorf("export = %+v", export.Session)
	}
}

func TestExportFileVersionRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version":"0.9","export":{}}`), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if _, err := ReadExportFile(path); err == nil {
		t.Error("expected error for unsupported version")
	}
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	if err := store.SavePreferences(Preferences{ThemeMode: "dark", UIScale: 100}); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}
	if err := store.SaveSessionContext(SessionContext{SessionID: 42, Token: "t"}); err != nil {
		t.Fatalf("SaveSessionContext failed: %v", err)
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if loaded := store.LoadPreferences(); loaded != DefaultPreferences() {
		t.Errorf("preferences after reset = %+v", loaded)
	}
	if _, ok := store.LoadSessionContext(); ok {
		t.Error("session context survived reset")
	}
}
