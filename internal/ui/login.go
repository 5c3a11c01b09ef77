// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/libernet/sofia-tui/internal/ui/components"
	"github.com/libernet/sofia-tui/internal/ui/styles"
)

// loginField indexes the focusable inputs on the login screen.
type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

// LoginModel is the sign-in form.
type LoginModel struct {
	email    textinput.Model
	password textinput.Model
	focused  loginField
	spinner  components.Spinner
	errText  string
	busy     bool
	width    int
	height   int
	theme    *styles.Theme
}

// NewLoginModel builds the form with the email field focused.
func NewLoginModel(theme *styles.Theme) *LoginModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "> "
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "> "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128

	return &LoginModel{
		email:    email,
		password: password,
		spinner:  components.NewSpinner(theme, "Signing in"),
		theme:    theme,
	}
}

// SetTheme swaps the style set after a theme change.
func (m *LoginModel) SetTheme(theme *styles.Theme) {
	m.theme = theme
	m.spinner = components.NewSpinner(theme, "Signing in")
}

// SetSize records the terminal dimensions for centering.
func (m *LoginModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Fail surfaces a rejected login and re-enables the form.
func (m *LoginModel) Fail() {
	m.busy = false
	m.spinner.Stop()
	m.errText = "Invalid email or password"
	m.password.SetValue("")
}

// Update handles form input. Submitting emits LoginSubmitMsg for the
// app to act on.
func (m *LoginModel) Update(msg tea.Msg) tea.Cmd {
	if cmd := m.spinner.Update(msg); cmd != nil {
		return cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok || m.busy {
		return nil
	}

	switch key.String() {
	case "tab", "shift+tab", "up", "down":
		if m.focused == fieldEmail {
			m.focused = fieldPassword
			m.email.Blur()
			m.password.Focus()
		} else {
			m.focused = fieldEmail
			m.password.Blur()
			m.email.Focus()
		}
		return nil

	case "enter":
		email := strings.TrimSpace(m.email.Value())
		password := m.password.Value()
		if email == "" || password == "" {
			m.errText = "Email and password are required"
			return nil
		}
		m.busy = true
		m.errText = ""
		tick := m.spinner.Start()
		return tea.Batch(tick, func() tea.Msg {
			return LoginSubmitMsg{Email: email, Password: password}
		})
	}

	var cmd tea.Cmd
	if m.focused == fieldEmail {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return cmd
}

// View renders the centered login box.
func (m *LoginModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.LoginTitle.Render("Sofia LiberNet"))
	b.WriteString("\n")
	b.WriteString(m.theme.LoginLabel.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.LoginLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.ErrorMessage.Render(m.errText))
	}
	if spin := m.spinner.View(); spin != "" {
		b.WriteString("\n")
		b.WriteString(spin)
	}

	box := m.theme.LoginBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
