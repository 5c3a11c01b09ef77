// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/libernet/sofia-tui/internal/chat"
	"github.com/libernet/sofia-tui/internal/model"
	"github.com/libernet/sofia-tui/internal/ui/components"
	"github.com/libernet/sofia-tui/internal/ui/styles"
)

// Layout constants. The vertical chrome around the viewport is the
// header line, the input box (border + text + border) and the status
// bar.
const (
	headerHeight    = 1
	inputHeight     = 3
	statusBarHeight = 1
	spinnerHeight   = 1
)

// focusArea tracks which pane owns the keyboard.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// ChatModel is the conversation screen: sidebar, transcript viewport
// and composer.
type ChatModel struct {
	ctx        context.Context
	controller *chat.Controller

	viewport viewport.Model
	input    textinput.Model
	spinner  components.Spinner
	sidebar  *components.Sidebar
	markdown *components.MarkdownRenderer

	theme   *styles.Theme
	focus   focusArea
	errText string
	width   int
	height  int
	ready   bool
}

// NewChatModel builds the conversation screen.
func NewChatModel(ctx context.Context, controller *chat.Controller, theme *styles.Theme) *ChatModel {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.CharLimit = 4096
	input.Focus()

	vp := viewport.New(80, 20)

	return &ChatModel{
		ctx:        ctx,
		controller: controller,
		viewport:   vp,
		input:      input,
		spinner:    components.NewSpinner(theme, "Waiting for reply"),
		sidebar:    components.NewSidebar(theme),
		markdown:   components.NewMarkdownRenderer(72, theme.IsDark),
		theme:      theme,
	}
}

// SetTheme swaps the style set after a theme change and re-renders the
// transcript with the matching markdown style.
func (m *ChatModel) SetTheme(theme *styles.Theme) {
	m.theme = theme
	m.sidebar.SetTheme(theme)
	m.spinner = components.NewSpinner(theme, "Waiting for reply")
	m.markdown = components.NewMarkdownRenderer(m.contentWidth(), theme.IsDark)
	m.updateViewport()
}

// SetSize lays the panes out for the new terminal dimensions.
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	chrome := headerHeight + inputHeight + statusBarHeight + spinnerHeight
	vpHeight := height - chrome
	if vpHeight < 3 {
		vpHeight = 3
	}

	sw := m.sidebarWidth()
	m.viewport.Width = width - sw - 2
	m.viewport.Height = vpHeight
	m.sidebar.SetSize(sw, vpHeight)
	m.input.Width = width - sw - 8

	m.markdown = components.NewMarkdownRenderer(m.contentWidth(), m.theme.IsDark)
	m.updateViewport()
}

func (m *ChatModel) sidebarWidth() int {
	switch m.theme.GetLayoutMode() {
	case styles.LayoutNarrow:
		return 0
	case styles.LayoutMedium:
		return 24
	default:
		return 28
	}
}

func (m *ChatModel) contentWidth() int {
	w := m.viewport.Width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// Init starts the initial sidebar load.
func (m *ChatModel) Init() tea.Cmd {
	return m.controller.RefreshChatsCmd(m.ctx)
}

// Update routes messages for the conversation screen.
func (m *ChatModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case chat.ChatsLoadedMsg:
		m.sidebar.SetChats(msg.Chats)
		return nil

	case chat.HistoryLoadedMsg:
		if msg.Result.Applied {
			m.updateViewport()
			m.viewport.GotoBottom()
		}
		return nil

	case chat.SendStartedMsg:
		return m.handleSendStarted(msg)

	case chat.MessageSettledMsg:
		m.spinner.Stop()
		m.updateViewport()
		m.viewport.GotoBottom()
		return m.controller.RefreshChatsCmd(m.ctx)
	}

	if cmd := m.spinner.Update(msg); cmd != nil {
		return cmd
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *ChatModel) handleKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "tab":
		if m.sidebarWidth() > 0 {
			if m.focus == focusInput {
				m.focus = focusSidebar
				m.sidebar.Focus()
				m.input.Blur()
			} else {
				m.focus = focusInput
				m.sidebar.Blur()
				m.input.Focus()
			}
		}
		return nil

	case "ctrl+n":
		m.controller.StartNew()
		m.sidebar.SetActive("")
		m.errText = ""
		m.updateViewport()
		return nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return cmd
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(key)
	}
	return m.handleInputKey(key)
}

func (m *ChatModel) handleSidebarKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "up", "k":
		m.sidebar.CursorUp()
	case "down", "j":
		m.sidebar.CursorDown()
	case "n":
		m.controller.StartNew()
		m.sidebar.SetActive("")
		m.updateViewport()
	case "enter":
		if chosen := m.sidebar.Selected(); chosen != nil {
			m.sidebar.SetActive(chosen.ID)
			m.errText = ""
			m.updateViewport()
			return m.controller.OpenCmd(m.ctx, chosen.ID)
		}
	}
	return nil
}

func (m *ChatModel) handleInputKey(key tea.KeyMsg) tea.Cmd {
	if key.String() == "enter" {
		content := strings.TrimSpace(m.input.Value())
		if content == "" || m.controller.Sending() {
			return nil
		}
		m.input.SetValue("")
		m.errText = ""
		tick := m.spinner.Start()
		return tea.Batch(tick, m.controller.BeginSendCmd(m.ctx, content))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return cmd
}

func (m *ChatModel) handleSendStarted(msg chat.SendStartedMsg) tea.Cmd {
	if !msg.Result.Proceed {
		m.spinner.Stop()
		switch {
		case errors.Is(msg.Result.Err, chat.ErrCreateChat):
			m.errText = "Erro ao criar chat"
		case errors.Is(msg.Result.Err, chat.ErrBusy):
			// Keep the spinner; the in-flight send will settle.
			return nil
		}
		return nil
	}

	m.sidebar.SetActive(msg.Result.ChatID)
	m.updateViewport()
	m.viewport.GotoBottom()
	return m.controller.SettleSendCmd(m.ctx, msg.Result.ChatID, msg.Content)
}

// =============================================================================
// RENDERING
// =============================================================================

// updateViewport re-renders the transcript into the viewport.
func (m *ChatModel) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
}

func (m *ChatModel) renderMessages() string {
	messages := m.controller.Messages()
	if len(messages) == 0 {
		return m.theme.MutedText.Render("Send a message to start the conversation.")
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderMessage(msg))
	}
	return b.String()
}

func (m *ChatModel) renderMessage(msg model.Message) string {
	stamp := ""
	if msg.Timestamp != "" {
		stamp = " " + m.theme.MessageTime.Render(msg.Timestamp)
	}

	if msg.IsUser() {
		label := m.theme.UserLabel.Render("You") + stamp
		body := m.theme.UserBubble.Width(m.contentWidth()).Render(msg.Content)
		return label + "\n" + body
	}

	label := m.theme.AssistantLabel.Render("Sofia") + stamp
	return label + "\n" + m.markdown.Render(msg.Content)
}

// View renders the conversation screen without the header and status
// bar, which the app owns.
func (m *ChatModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	transcript := m.viewport.View()

	var feedback string
	if spin := m.spinner.View(); spin != "" {
		feedback = spin
	} else if m.errText != "" {
		feedback = m.theme.ErrorMessage.Render(m.errText)
	}

	composer := m.theme.InputContainer.Width(m.viewport.Width).Render(m.input.View())
	right := lipgloss.JoinVertical(lipgloss.Left, transcript, feedback, composer)

	if m.sidebarWidth() == 0 {
		return right
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), right)
}
