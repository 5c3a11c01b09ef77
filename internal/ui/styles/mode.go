// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/libernet/sofia-tui/internal/storage"
	"github.com/libernet/sofia-tui/internal/util"
)

// =============================================================================
// THEME MODE
// =============================================================================

// Mode is the user's theme preference. "system" follows the terminal
// background.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// ParseMode maps a stored string to a Mode. Anything unrecognized
// falls back to system.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeLight, ModeDark, ModeSystem:
		return Mode(s)
	default:
		return ModeSystem
	}
}

// Next cycles light -> dark -> system -> light.
func (m Mode) Next() Mode {
	switch m {
	case ModeLight:
		return ModeDark
	case ModeDark:
		return ModeSystem
	default:
		return ModeLight
	}
}

// Dark resolves the mode to a concrete dark-or-light answer, asking the
// terminal when the mode is system.
func (m Mode) Dark() bool {
	switch m {
	case ModeLight:
		return false
	case ModeDark:
		return true
	default:
		return termenv.HasDarkBackground()
	}
}

// Apply points lipgloss adaptive colors at the right palette side.
func (m Mode) Apply() {
	lipgloss.SetHasDarkBackground(m.Dark())
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// LoadMode reads the stored preference, falling back to the config
// value and then to system.
func LoadMode(kv storage.KV, fallback string) Mode {
	value, ok, err := kv.Get(storage.ThemeKey)
	if err != nil {
		util.DebugLogf("theme read failed: %v", err)
	}
	if ok {
		return ParseMode(value)
	}
	return ParseMode(fallback)
}

// SaveMode persists the preference immediately.
func SaveMode(kv storage.KV, m Mode) {
	if err := kv.Set(storage.ThemeKey, string(m)); err != nil {
		util.DebugLogf("theme save failed: %v", err)
	}
}
