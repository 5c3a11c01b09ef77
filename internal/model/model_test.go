// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

// =============================================================================
// WIRE FORMAT TESTS
// =============================================================================

// The backend uses snake_case field names; these fixtures pin the tags
// so a rename does not silently decode to zero values.

func TestChat_DecodesBackendJSON(t *testing.T) {
	raw := `{
		"id": "c1",
		"name": "Deploy a new relay node",
		"created_at": "2025-06-01T10:00:00Z",
		"updated_at": "2025-06-01T12:30:00Z",
		"tokens_used": 1200,
		"limit": 10000
	}`

	var chat Chat
	if err := json.Unmarshal([]byte(raw), &chat); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if chat.CreatedAt.IsZero() {
		t.Error("created_at decoded as zero")
	}
	if chat.UpdatedAt.IsZero() {
		t.Error("updated_at decoded as zero")
	}
	if chat.TokensUsed != 1200 {
		t.Errorf("tokens_used: got %d, want 1200", chat.TokensUsed)
	}
	if chat.Limit != 10000 {
		t.Errorf("limit: got %d, want 10000", chat.Limit)
	}
}

func TestUser_DecodesBackendJSON(t *testing.T) {
	raw := `{
		"id": "u1",
		"name": "Ana",
		"email": "ana@example.com",
		"role": "member",
		"plan": "pro",
		"tokens_used": 431
	}`

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if user.Role != "member" {
		t.Errorf("role: got %q", user.Role)
	}
	if user.Plan != "pro" {
		t.Errorf("plan: got %q", user.Plan)
	}
	if user.TokensUsed != 431 {
		t.Errorf("tokens_used: got %d, want 431", user.TokensUsed)
	}
}

func TestMessage_Preview(t *testing.T) {
	m := Message{Content: "first line\nsecond line"}
	if got := m.Preview(50); got != "first line second line" {
		t.Errorf("Preview: got %q", got)
	}
	if got := m.Preview(10); got != "first l..." {
		t.Errorf("Preview truncated: got %q", got)
	}
}
