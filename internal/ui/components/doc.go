// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable visual pieces of the TUI:
// spinner, status bar, sidebar and message rendering.
package components
