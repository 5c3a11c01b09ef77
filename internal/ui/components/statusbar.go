// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/libernet/sofia-tui/internal/ui/styles"
)

// StatusBar is the bottom bar: connection health, signed-in user, theme
// mode and key hints.
type StatusBar struct {
	UserEmail     string
	UserPlan      string
	Online        bool
	HealthKnown   bool
	ThemeMode     styles.Mode
	Width         int
	ShowShortcuts bool

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		ThemeMode:     theme.Mode,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetTheme swaps the style set after a theme change.
func (sb *StatusBar) SetTheme(theme *styles.Theme) {
	sb.theme = theme
	sb.ThemeMode = theme.Mode
}

func (sb *StatusBar) healthSegment() string {
	if !sb.HealthKnown {
		return sb.theme.MutedText.Render("o checking")
	}
	if sb.Online {
		return sb.theme.StatusOnline.Render("* online")
	}
	return sb.theme.StatusOffline.Render("x offline")
}

func (sb *StatusBar) shortcutSegment() string {
	if !sb.ShowShortcuts || sb.Width < 70 {
		return ""
	}
	pairs := []struct{ key, desc string }{
		{"^t", "theme"},
		{"^n", "new"},
		{"^l", "logout"},
		{"^q", "quit"},
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = sb.theme.ShortcutKey.Render(p.key) + sb.theme.ShortcutDesc.Render(" "+p.desc)
	}
	return strings.Join(parts, "  ")
}

// View renders the bar padded to the full width.
func (sb *StatusBar) View() string {
	left := sb.healthSegment()
	if sb.UserEmail != "" {
		left += "  " + sb.theme.HeaderUser.Render(sb.UserEmail)
		if sb.UserPlan != "" {
			left += " " + sb.theme.MutedText.Render("("+sb.UserPlan+")")
		}
	}
	left += "  " + sb.theme.MutedText.Render("theme:"+string(sb.ThemeMode))

	right := sb.shortcutSegment()

	gap := sb.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		right = ""
		gap = sb.Width - lipgloss.Width(left) - 2
		if gap < 0 {
			gap = 0
		}
	}
	line := left + strings.Repeat(" ", gap) + right
	return sb.theme.StatusBar.Width(sb.Width).Render(line)
}
