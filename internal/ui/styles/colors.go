// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// All colors are AdaptiveColor pairs; the theme mode decides which side
// lipgloss resolves.

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Teal - Brand color, titles, the active chat marker
var Teal = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}

// TealDeep - Darker teal for backgrounds
var TealDeep = lipgloss.AdaptiveColor{Light: "#115E59", Dark: "#134E4A"}

// Indigo - Assistant messages, selections
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// Emerald - Success states, the online indicator
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors, the offline indicator
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, the sending indicator
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Header and footer background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// SurfaceBright - Highlighted rows
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#EFEFEF", Dark: "#313244"}

// TextPrimary - Main text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}

// TextSecondary - Timestamps, hints, metadata
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

// TextMuted - Disabled and placeholder text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}

// Border - Box borders
var Border = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#45475A"}
