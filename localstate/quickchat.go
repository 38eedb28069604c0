// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package localstate

import "fmt"

// MaxAvatarSize caps the quick-chat avatar at 5 MB.
const MaxAvatarSize = 5 << 20

// QuickChatProfile is the lightweight display identity used for chat
// before (or without) joining a session.
type QuickChatProfile struct {
	DisplayName     string `cbor:"display_name"`
	Avatar          []byte `cbor:"avatar,omitempty"`
	AvatarMediaType string `cbor:"avatar_media_type,omitempty"`
}

// valid checks structural integrity of a loaded profile.
func (p QuickChatProfile) valid() bool {
	if len(p.Avatar) > MaxAvatarSize {
		return false
	}
	if len(p.Avatar) > 0 && p.AvatarMediaType == "" {
		return false
	}
	return true
}

// LoadQuickChatProfile reads the profile. A missing file returns an
// empty profile; a corrupt or structurally invalid one is cleared on
// disk and an empty profile returned — quick chat degrades to
// anonymous rather than refusing to work.
func (s *Store) LoadQuickChatProfile() QuickChatProfile {
	var profile QuickChatProfile
	existed, err := s.readFile(quickChatFile, &profile)
	if err != nil || (existed && !profile.valid()) {
		s.logger.Warn("quick-chat profile invalid, clearing", "error", err)
		if removeErr := s.removeFile(quickChatFile); removeErr != nil {
			s.logger.Warn("clearing quick-chat profile failed", "error", removeErr)
		}
		return QuickChatProfile{}
	}
	return profile
}

// SaveQuickChatProfile validates and persists the profile.
func (s *Store) SaveQuickChatProfile(profile QuickChatProfile) error {
	if len(profile.Avatar) > MaxAvatarSize {
		return fmt.Errorf("localstate: avatar is %d bytes, the limit is %d", len(profile.Avatar), MaxAvatarSize)
	}
	if len(profile.Avatar) > 0 && profile.AvatarMediaType == "" {
		return fmt.Errorf("localstate: avatar media type is required")
	}
	return s.writeFile(quickChatFile, profile)
}
