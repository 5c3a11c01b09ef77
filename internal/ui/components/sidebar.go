// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/libernet/sofia-tui/internal/model"
	"github.com/libernet/sofia-tui/internal/ui/styles"
	"github.com/libernet/sofia-tui/internal/util"
)

// Sidebar lists the user's chats, most recently created first, with a
// cursor for keyboard selection and a marker on the open chat.
type Sidebar struct {
	chats        []model.Chat
	cursor       int
	activeChatID string
	width        int
	height       int
	focused      bool
	theme        *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{width: 28, height: 20, theme: theme}
}

// SetTheme swaps the style set after a theme change.
func (s *Sidebar) SetTheme(theme *styles.Theme) { s.theme = theme }

// SetSize sets the rendered dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetChats replaces the list, keeping the cursor in range.
func (s *Sidebar) SetChats(chats []model.Chat) {
	s.chats = chats
	if s.cursor >= len(chats) {
		s.cursor = len(chats) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// SetActive marks the open chat.
func (s *Sidebar) SetActive(chatID string) { s.activeChatID = chatID }

// Focus and Blur toggle keyboard ownership.
func (s *Sidebar) Focus()        { s.focused = true }
func (s *Sidebar) Blur()         { s.focused = false }
func (s *Sidebar) Focused() bool { return s.focused }

// CursorUp and CursorDown move the selection.
func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.chats)-1 {
		s.cursor++
	}
}

// Selected returns the chat under the cursor, or nil when the list is
// empty.
func (s *Sidebar) Selected() *model.Chat {
	if len(s.chats) == 0 {
		return nil
	}
	chat := s.chats[s.cursor]
	return &chat
}

// View renders the chat list column.
func (s *Sidebar) View() string {
	var b strings.Builder
	b.WriteString(s.theme.SidebarTitle.Render("Chats"))
	b.WriteString("\n")

	inner := s.width - 4
	if inner < 8 {
		inner = 8
	}

	visible := s.height - 3
	if visible < 1 {
		visible = 1
	}
	for i, chat := range s.chats {
		if i >= visible {
			break
		}
		name := util.PadRight(chat.Name, inner)
		style := s.theme.SidebarItem
		prefix := "  "
		if chat.ID == s.activeChatID {
			style = s.theme.SidebarItemActive
			prefix = "* "
		}
		if s.focused && i == s.cursor {
			style = s.theme.SidebarItemSelected
			prefix = "> "
		}
		b.WriteString(style.Render(prefix + name))
		b.WriteString("\n")
	}
	if len(s.chats) == 0 {
		b.WriteString(s.theme.MutedText.Render("  no chats yet"))
		b.WriteString("\n")
	}

	return s.theme.Sidebar.Width(s.width).Height(s.height).Render(b.String())
}
