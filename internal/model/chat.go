// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// Chat is a conversation thread owned by the current user.
// The backend assigns the ID; the name is derived from the first
// message when the client creates the chat implicitly. TokensUsed and
// Limit track the thread's usage quota.
type Chat struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
	TokensUsed int       `json:"tokens_used,omitempty"`
	Limit      int       `json:"limit,omitempty"`
}
