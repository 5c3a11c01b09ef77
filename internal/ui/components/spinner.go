// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/libernet/sofia-tui/internal/ui/styles"
)

// Spinner is a loading spinner with a label, shown while a request is
// in flight.
type Spinner struct {
	spinner  spinner.Model
	message  string
	isActive bool
	theme    *styles.Theme
}

// NewSpinner creates a spinner with ASCII-compatible frames.
func NewSpinner(theme *styles.Theme, message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return Spinner{spinner: s, message: message, theme: theme}
}

// Start activates the spinner and returns the tick command that drives
// the animation.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// Active reports whether the spinner is animating.
func (s *Spinner) Active() bool {
	return s.isActive
}

// SetMessage changes the label next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.message = message
}

// Update advances the animation on spinner ticks.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.isActive {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner line, or "" when inactive.
func (s *Spinner) View() string {
	if !s.isActive {
		return ""
	}
	return s.theme.Spinner.Render(s.spinner.View()) + " " + s.theme.MutedText.Render(s.message)
}
