// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the TUI:
// adaptive colors, the theme preference (light, dark or system), and
// the lipgloss style set the views render with.
package styles
