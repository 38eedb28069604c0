// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package localstate

// UI scale bounds, in percent. Values outside the range are clamped
// on both load and save so a hand-edited or stale file can never
// render the UI unusable.
const (
	MinUIScale = 10
	MaxUIScale = 200
)

// Preferences is the user's local-only presentation configuration.
type Preferences struct {
	// ThemeMode is "dark", "light", or "system".
	ThemeMode string `cbor:"theme_mode"`

	// BackgroundImage is a path or identifier for the table
	// background, empty for none.
	BackgroundImage string `cbor:"background_image"`

	// DefaultNickname pre-fills the join screen.
	DefaultNickname string `cbor:"default_nickname"`

	// UIScale is the interface scale in percent, within
	// [MinUIScale, MaxUIScale].
	UIScale int `cbor:"ui_scale"`
}

// DefaultPreferences returns the first-run preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		ThemeMode: "system",
		UIScale:   100,
	}
}

func clampScale(scale int) int {
	if scale < MinUIScale {
		return MinUIScale
	}
	if scale > MaxUIScale {
		return MaxUIScale
	}
	return scale
}

// LoadPreferences reads preferences, falling back to defaults when
// the file is missing or corrupt. The scale is clamped on the way in.
func (s *Store) LoadPreferences() Preferences {
	var preferences Preferences
	existed, err := s.readFile(preferencesFile, &preferences)
	if err != nil {
		s.logger.Warn("preferences unreadable, using defaults", "error", err)
		return DefaultPreferences()
	}
	if !existed {
		return DefaultPreferences()
	}
	preferences.UIScale = clampScale(preferences.UIScale)
	if preferences.ThemeMode == "" {
		preferences.ThemeMode = "system"
	}
	return preferences
}

// SavePreferences persists preferences, clamping the scale.
func (s *Store) SavePreferences(preferences Preferences) error {
	preferences.UIScale = clampScale(preferences.UIScale)
	return s.writeFile(preferencesFile, preferences)
}
