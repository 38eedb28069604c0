// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package localstate

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parlor-foundation/parlor/lib/codec"
)

// State file names within the store directory.
const (
	preferencesFile    = "preferences.cbor"
	stickersFile       = "stickers.cbor"
	quickChatFile      = "quickchat.cbor"
	sessionContextFile = "session.cbor"
	templateFile       = "template.cbor"
)

// Store reads and writes the client's local state files.
type Store struct {
	directory string
	logger    *slog.Logger
}

// NewStore opens a store over the given directory, creating it (mode
// 0700, local state includes a session token) if needed.
func NewStore(directory string, logger *slog.Logger) (*Store, error) {
	if directory == "" {
		return nil, fmt.Errorf("localstate: directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return nil, fmt.Errorf("localstate: creating state directory: %w", err)
	}
	return &Store{directory: directory, logger: logger}, nil
}

// Directory returns the store's directory.
func (s *Store) Directory() string { return s.directory }

// Reset deletes every state file, returning the client to first-run
// condition. This is the recovery path offered alongside retry when
// session initialization fails terminally.
func (s *Store) Reset() error {
	var errs []error
	for _, name := range []string{
		preferencesFile, stickersFile, quickChatFile, sessionContextFile, templateFile,
	} {
		if err := os.Remove(filepath.Join(s.directory, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("removing %s: %w", name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("localstate: reset: %w", err)
	}
	s.logger.Info("local state reset", "directory", s.directory)
	return nil
}

// writeFile atomically persists v as CBOR: temporary file in the same
// directory, fsync, rename. Readers never see a partial write.
func (s *Store) writeFile(name string, v any) error {
	data, err := codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstate: encoding %s: %w", name, err)
	}
	return s.writeRaw(name, data)
}

func (s *Store) writeRaw(name string, data []byte) error {
	path := filepath.Join(s.directory, name)
	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("localstate: creating temporary file for %s: %w", name, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("localstate: writing %s: %w", name, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("localstate: syncing %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("localstate: closing %s: %w", name, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("localstate: renaming %s into place: %w", name, err)
	}

	// Sync the directory so the rename survives power loss.
	if directory, err := os.Open(s.directory); err == nil {
		directory.Sync()
		directory.Close()
	}
	return nil
}

// readFile loads a state file into v. The boolean reports whether the
// file existed; a decode failure is returned as an error for the
// caller to map to its fallback behavior.
func (s *Store) readFile(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.directory, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("localstate: reading %s: %w", name, err)
	}
	if err := codec.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("localstate: decoding %s: %w", name, err)
	}
	return true, nil
}

// readRaw loads a state file's bytes without decoding. The boolean
// reports whether the file existed.
func (s *Store) readRaw(name string, data *[]byte) (bool, error) {
	raw, err := os.ReadFile(filepath.Join(s.directory, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("localstate: reading %s: %w", name, err)
	}
	*data = raw
	return true, nil
}

// removeFile deletes a state file if present.
func (s *Store) removeFile(name string) error {
	err := os.Remove(filepath.Join(s.directory, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("localstate: removing %s: %w", name, err)
	}
	return nil
}
