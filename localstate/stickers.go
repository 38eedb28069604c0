// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package localstate

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

const (
	// MaxStickers caps the sticker set size.
	MaxStickers = 50

	// MaxStickerSize caps one sticker's bytes at 512 KiB.
	MaxStickerSize = 512 << 10
)

// Sticker is one locally stored sticker image. ID is the hex BLAKE3
// digest of the bytes, so re-adding identical content is a no-op
// rather than a duplicate.
type Sticker struct {
	ID        string `cbor:"id"`
	MediaType string `cbor:"media_type"`
	Data      []byte `cbor:"data"`
	AddedAt   int64  `cbor:"added_at"` // unix milliseconds
}

// StickerID computes the content-hash identifier for sticker bytes.
func StickerID(data []byte) string {
	digest := blake3.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// LoadStickers reads the sticker set. Missing or corrupt files read
// as empty.
func (s *Store) LoadStickers() []Sticker {
	var stickers []Sticker
	if _, err := s.readFile(stickersFile, &stickers); err != nil {
		s.logger.Warn("sticker set unreadable, starting empty", "error", err)
		return nil
	}
	return stickers
}

// AddSticker validates and appends a sticker, returning the updated
// set. Identical content already present is returned unchanged — the
// caller can compare lengths to detect the dedup. The set cap and the
// per-sticker size cap are validation errors, rejected before any
// write.
func (s *Store) AddSticker(stickers []Sticker, data []byte, mediaType string, addedAt int64) ([]Sticker, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("localstate: sticker is empty")
	}
	if len(data) > MaxStickerSize {
		return nil, fmt.Errorf("localstate: sticker is %d bytes, the limit is %d", len(data), MaxStickerSize)
	}

	id := StickerID(data)
	for _, sticker := range stickers {
		if sticker.ID == id {
			return stickers, nil
		}
	}
	if len(stickers) >= MaxStickers {
		return nil, fmt.Errorf("localstate: sticker set is full (%d)", MaxStickers)
	}

	updated := append(stickers, Sticker{
		ID:        id,
		MediaType: mediaType,
		Data:      data,
		AddedAt:   addedAt,
	})
	if err := s.writeFile(stickersFile, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveSticker deletes a sticker by id, returning the updated set.
// Removing an absent id is a no-op.
func (s *Store) RemoveSticker(stickers []Sticker, id string) ([]Sticker, error) {
	updated := make([]Sticker, 0, len(stickers))
	for _, sticker := range stickers {
		if sticker.ID != id {
			updated = append(updated, sticker)
		}
	}
	if len(updated) == len(stickers) {
		return stickers, nil
	}
	if err := s.writeFile(stickersFile, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
