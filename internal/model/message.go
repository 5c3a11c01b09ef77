// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// ROLES
// =============================================================================

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one the client understands.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE
// =============================================================================

// Message is a single entry in a chat transcript. Timestamp is a
// pre-formatted HH:mm display string, not a point in time; the backend
// and the client both produce it in local time.
type Message struct {
	ID        string `json:"id"`
	ChatID    string `json:"chatId,omitempty"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// IsUser reports whether the message was authored by the user.
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// Preview returns the first maxRunes runes of the content with newlines
// collapsed, for single-line display in lists.
func (m *Message) Preview(maxRunes int) string {
	s := strings.ReplaceAll(m.Content, "\n", " ")
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}
