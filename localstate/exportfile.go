// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package localstate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/parlor-foundation/parlor/remote"
)

// ExportFileVersion is the current user-visible export file format
// version.
const ExportFileVersion = "1.0"

// ExportFile is the versioned wrapper around a session export as
// saved to a user-chosen path. Unlike the state files, export files
// are JSON: users share them and occasionally inspect them.
type ExportFile struct {
	Version string               `json:"version"`
	Export  remote.SessionExport `json:"export"`
}

// WriteExportFile saves a session export to path as a versioned JSON
// document.
func WriteExportFile(path string, export remote.SessionExport) error {
	data, err := json.MarshalIndent(ExportFile{
		Version: ExportFileVersion,
		Export:  export,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("localstate: encoding export file: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("localstate: writing export file: %w", err)
	}
	return nil
}

// ReadExportFile loads a session export from path, rejecting files
// with a missing or unsupported version rather than guessing at their
// layout.
func ReadExportFile(path string) (remote.SessionExport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return remote.SessionExport{}, fmt.Errorf("localstate: reading export file: %w", err)
	}

	var file ExportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return remote.SessionExport{}, fmt.Errorf("localstate: parsing export file: %w", err)
	}
	if file.Version != ExportFileVersion {
		return remote.SessionExport{}, fmt.Errorf("localstate: unsupported export file version %q", file.Version)
	}
	return file.Export, nil
}
