// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	Mode         Mode
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderUser  lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserBubble     lipgloss.Style
	MessageTime    lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarTitle        lipgloss.Style
	SidebarItem         lipgloss.Style
	SidebarItemSelected lipgloss.Style
	SidebarItemActive   lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar     lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style
	ShortcutKey   lipgloss.Style
	ShortcutDesc  lipgloss.Style

	// ==========================================================================
	// LOGIN FORM STYLES
	// ==========================================================================

	LoginBox   lipgloss.Style
	LoginTitle lipgloss.Style
	LoginLabel lipgloss.Style

	// ==========================================================================
	// FEEDBACK STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ErrorMessage lipgloss.Style
	SuccessStyle lipgloss.Style
	MutedText    lipgloss.Style
}

// NewTheme creates a theme for the given mode. The mode is applied to
// lipgloss before styles are built so adaptive colors resolve against
// the right palette.
func NewTheme(mode Mode) *Theme {
	mode.Apply()

	t := &Theme{
		Mode:         mode,
		IsDark:       mode.Dark(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)
	t.HeaderUser = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Messages
	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)
	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)
	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(0, 1).
		MarginLeft(4)
	t.MessageTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Border).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)
	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.SidebarItemSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		Background(SurfaceBright)
	t.SidebarItemActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.StatusOnline = lipgloss.NewStyle().
		Foreground(Emerald)
	t.StatusOffline = lipgloss.NewStyle().
		Foreground(Rose)
	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Login form
	t.LoginBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(1, 3)
	t.LoginTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal).
		MarginBottom(1)
	t.LoginLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Feedback
	t.Spinner = lipgloss.NewStyle().
		Foreground(Amber)
	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(Rose)
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald)
	t.MutedText = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize records the current terminal dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// =============================================================================
// LAYOUT MODES
// =============================================================================

// LayoutMode buckets the terminal width for responsive rendering.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, sidebar hidden
	LayoutMedium                   // < 100 columns
	LayoutWide
)

// GetLayoutMode returns the layout bucket for the current width.
func (t *Theme) GetLayoutMode() LayoutMode {
	switch {
	case t.Width < 60:
		return LayoutNarrow
	case t.Width < 100:
		return LayoutMedium
	default:
		return LayoutWide
	}
}
