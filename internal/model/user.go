// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// User is an authenticated account on the LiberNet backend.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty"`
	Plan       string `json:"plan,omitempty"`
	TokensUsed int    `json:"tokens_used,omitempty"`
}

// DisplayName returns the name when set, otherwise the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
