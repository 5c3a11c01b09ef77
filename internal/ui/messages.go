// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui assembles the terminal interface: the login screen, the
// chat screen with its sidebar, and the surrounding chrome.
//
// This file defines the Bubble Tea message types owned by the ui
// package. Messages produced by the controllers live in their own
// packages (session.SessionChangedMsg, chat.HistoryLoadedMsg and
// friends) and are handled here as well.
package ui

import "time"

// HealthMsg reports the result of a backend health probe.
type HealthMsg struct {
	Online bool
}

// healthTickMsg schedules the next periodic health probe.
type healthTickMsg struct {
	At time.Time
}

// LoginSubmitMsg carries credentials from the login form to the app.
type LoginSubmitMsg struct {
	Email    string
	Password string
}
