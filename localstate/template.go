// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package localstate

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/parlor-foundation/parlor/lib/codec"
	"github.com/parlor-foundation/parlor/remote"
)

// CompressionTag identifies the algorithm used for the cached
// template blob. The tag is the first byte of the file — a format
// constant, do not renumber.
type CompressionTag uint8

const (
	// CompressionNone stores the payload uncompressed. Used when
	// compression does not shrink the payload (image-heavy exports).
	CompressionNone CompressionTag = 0

	// CompressionLZ4 is LZ4 block compression: fast, modest ratio.
	CompressionLZ4 CompressionTag = 1

	// CompressionZstd is zstd at the default level: the best ratio
	// for the text-dominated exports that are the common case.
	CompressionZstd CompressionTag = 2
)

func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	}
	return fmt.Sprintf("unknown(%d)", uint8(tag))
}

// errIncompressible signals that compression would not shrink the
// payload; the caller stores it uncompressed instead.
var errIncompressible = errors.New("localstate: data is incompressible")

// templateHeaderSize is 1 byte of tag plus 4 bytes of big-endian
// uncompressed size.
const templateHeaderSize = 5

// zstd encoder/decoder are reused across calls; both are safe for
// concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("localstate: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("localstate: zstd decoder initialization failed: " + err.Error())
	}
}

// SaveTemplate caches a session export as the creation template,
// compressed with the given tag. A payload the codec cannot shrink is
// stored uncompressed. There is one template slot; saving replaces it.
func (s *Store) SaveTemplate(export remote.SessionExport, tag CompressionTag) error {
	payload, err := codec.Marshal(export)
	if err != nil {
		return fmt.Errorf("localstate: encoding template: %w", err)
	}

	compressed, err := compress(payload, tag)
	if errors.Is(err, errIncompressible) {
		tag = CompressionNone
		compressed = payload
	} else if err != nil {
		return fmt.Errorf("localstate: compressing template: %w", err)
	}

	blob := make([]byte, templateHeaderSize+len(compressed))
	blob[0] = byte(tag)
	binary.BigEndian.PutUint32(blob[1:5], uint32(len(payload)))
	copy(blob[templateHeaderSize:], compressed)

	if err := s.writeRaw(templateFile, blob); err != nil {
		return err
	}
	s.logger.Debug("template cached",
		"compression", tag.String(),
		"payload_bytes", len(payload),
		"stored_bytes", len(compressed),
	)
	return nil
}

// LoadTemplate reads the cached template. The boolean reports whether
// a usable template exists; a corrupt cache reads as absent, never as
// an error — it is only a cache.
func (s *Store) LoadTemplate() (remote.SessionExport, bool) {
	var blob []byte
	existed, err := s.readRaw(templateFile, &blob)
	if err != nil || !existed {
		if err != nil {
			s.logger.Warn("template cache unreadable, ignoring", "error", err)
		}
		return remote.SessionExport{}, false
	}
	if len(blob) < templateHeaderSize {
		s.logger.Warn("template cache truncated, ignoring", "bytes", len(blob))
		return remote.SessionExport{}, false
	}

	tag := CompressionTag(blob[0])
	size := int(binary.BigEndian.Uint32(blob[1:5]))
	payload, err := decompress(blob[templateHeaderSize:], tag, size)
	if err != nil {
		s.logger.Warn("template cache corrupt, ignoring", "error", err)
		return remote.SessionExport{}, false
	}

	var export remote.SessionExport
	if err := codec.Unmarshal(payload, &export); err != nil {
		s.logger.Warn("template cache undecodable, ignoring", "error", err)
		return remote.SessionExport{}, false
	}
	return export, true
}

// ClearTemplate removes the cached template.
func (s *Store) ClearTemplate() error {
	return s.removeFile(templateFile)
}

func compress(data []byte, tag CompressionTag) ([]byte, error) {
	switch tag {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		destination := make([]byte, bound)
		written, err := lz4.CompressBlock(data, destination, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if written == 0 || written >= len(data) {
			return nil, errIncompressible
		}
		return destination[:written], nil
	case CompressionZstd:
		compressed := zstdEncoder.EncodeAll(data, nil)
		if len(compressed) >= len(data) {
			return nil, errIncompressible
		}
		return compressed, nil
	}
	return nil, fmt.Errorf("unsupported compression tag: %d", tag)
}

func decompress(compressed []byte, tag CompressionTag, uncompressedSize int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(compressed) != uncompressedSize {
			return nil, fmt.Errorf("uncompressed payload: size %d does not match expected %d",
				len(compressed), uncompressedSize)
		}
		return compressed, nil
	case CompressionLZ4:
		destination := make([]byte, uncompressedSize)
		read, err := lz4.UncompressBlock(compressed, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != uncompressedSize {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, uncompressedSize)
		}
		return destination, nil
	case CompressionZstd:
		result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(result) != uncompressedSize {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), uncompressedSize)
		}
		return result, nil
	}
	return nil, fmt.Errorf("unsupported compression tag: %d", tag)
}
