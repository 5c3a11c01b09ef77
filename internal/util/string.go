// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"time"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// CHAT NAMING
// =============================================================================

// chatNameMax is the number of leading runes kept when deriving a chat
// name from the first message.
const chatNameMax = 50

// ChatName derives a chat name from message content: the first 50 runes,
// with "..." appended when the content is longer. Content at or under the
// limit is returned unchanged.
func ChatName(content string) string {
	runes := []rune(content)
	if len(runes) <= chatNameMax {
		return content
	}
	return string(runes[:chatNameMax]) + "..."
}

// =============================================================================
// TRUNCATION
// =============================================================================

// TruncateRunes shortens s to at most maxRunes runes, replacing the tail
// with "..." when truncation happens. Unlike ChatName the result never
// exceeds maxRunes.
func TruncateRunes(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// StringWidth returns the display width of s in terminal cells.
// Wide runes (CJK) count as two cells.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// PadRight pads s with spaces to the given display width, truncating
// first if it is too wide.
func PadRight(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}

// =============================================================================
// TIMESTAMPS
// =============================================================================

// ClockStamp formats t as a 24-hour HH:mm display string in local time,
// matching the timestamps the backend attaches to messages.
func ClockStamp(t time.Time) string {
	return t.Format("15:04")
}
