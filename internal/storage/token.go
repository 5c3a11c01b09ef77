// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import "github.com/libernet/sofia-tui/internal/util"

// TokenStore holds the opaque bearer token for the current session.
// Reads degrade to "no token" on storage failure so callers never have
// to handle errors on the hot path; failures are logged for diagnosis.
type TokenStore struct {
	kv KV
}

// NewTokenStore wraps kv with token accessors.
func NewTokenStore(kv KV) *TokenStore {
	return &TokenStore{kv: kv}
}

// Token returns the stored bearer token, or "" when absent.
func (t *TokenStore) Token() string {
	value, ok, err := t.kv.Get(TokenKey)
	if err != nil {
		util.DebugLogf("token read failed: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return value
}

// SaveToken persists the bearer token.
func (t *TokenStore) SaveToken(token string) {
	if err := t.kv.Set(TokenKey, token); err != nil {
		util.DebugLogf("token save failed: %v", err)
	}
}

// ClearToken removes the bearer token.
func (t *TokenStore) ClearToken() {
	if err := t.kv.Delete(TokenKey); err != nil {
		util.DebugLogf("token clear failed: %v", err)
	}
}
