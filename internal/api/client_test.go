// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libernet/sofia-tui/internal/model"
	"github.com/libernet/sofia-tui/internal/storage"
)

// newTestClient wires a client against an httptest server, sharing the
// token store so tests can inspect it.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *storage.TokenStore, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := storage.NewTokenStore(storage.NewMemoryKV())
	client := NewClient(tokens).WithOrigin(server.URL)
	return client, tokens, server
}

// deadClient points at a server that is already gone, so every request
// fails at the transport level.
func deadClient(t *testing.T) (*Client, *storage.TokenStore) {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	tokens := storage.NewTokenStore(storage.NewMemoryKV())
	return NewClient(tokens).WithOrigin(server.URL), tokens
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// =============================================================================
// LOGIN
// =============================================================================

func TestLogin_SuccessSavesToken(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ana@example.com", body["email"])
		require.Equal(t, "secret", body["password"])

		writeJSON(w, map[string]interface{}{
			"token": "tok-1",
			"user":  model.User{ID: "u1", Email: "ana@example.com"},
		})
	}))

	user := client.Login(context.Background(), "ana@example.com", "secret")
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "tok-1", tokens.Token())
}

func TestLogin_RejectedReturnsNil(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	assert.Nil(t, client.Login(context.Background(), "ana@example.com", "wrong"))
	assert.Empty(t, tokens.Token())
}

func TestLogin_ServerDownReturnsNil(t *testing.T) {
	client, tokens := deadClient(t)

	assert.Nil(t, client.Login(context.Background(), "ana@example.com", "secret"))
	assert.Empty(t, tokens.Token())
}

func TestLogin_MalformedBodyReturnsNil(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	assert.Nil(t, client.Login(context.Background(), "ana@example.com", "secret"))
}

// =============================================================================
// LOGOUT
// =============================================================================

func TestLogout_ClearsTokenOnSuccess(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/logout", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	tokens.SaveToken("tok-1")

	client.Logout(context.Background())
	assert.Empty(t, tokens.Token())
}

func TestLogout_ClearsTokenOnServerError(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	tokens.SaveToken("tok-1")

	client.Logout(context.Background())
	assert.Empty(t, tokens.Token())
}

func TestLogout_ClearsTokenWhenUnreachable(t *testing.T) {
	client, tokens := deadClient(t)
	tokens.SaveToken("tok-1")

	client.Logout(context.Background())
	assert.Empty(t, tokens.Token())
}

// =============================================================================
// CURRENT USER
// =============================================================================

func TestCurrentUser_NoTokenSkipsRequest(t *testing.T) {
	var calls int32
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	assert.Nil(t, client.CurrentUser(context.Background()))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestCurrentUser_SendsBearerToken(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		writeJSON(w, model.User{ID: "u1", Email: "ana@example.com"})
	}))
	tokens.SaveToken("tok-1")

	user := client.CurrentUser(context.Background())
	require.NotNil(t, user)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "tok-1", tokens.Token(), "a valid session keeps its token")
}

func TestCurrentUser_UnauthorizedClearsToken(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	tokens.SaveToken("stale")

	assert.Nil(t, client.CurrentUser(context.Background()))
	assert.Empty(t, tokens.Token())
}

func TestCurrentUser_ServerErrorKeepsToken(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	tokens.SaveToken("tok-1")

	assert.Nil(t, client.CurrentUser(context.Background()))
	assert.Equal(t, "tok-1", tokens.Token(), "only a 401 invalidates the token")
}

// =============================================================================
// CHATS
// =============================================================================

func TestListChats_Success(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chats", r.URL.Path)
		writeJSON(w, []model.Chat{{ID: "c1", Name: "first"}, {ID: "c2", Name: "second"}})
	}))

	chats := client.ListChats(context.Background())
	require.Len(t, chats, 2)
	assert.Equal(t, "c1", chats[0].ID)
}

func TestListChats_DecodesBackendTimestamps(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"id": "c1",
			"name": "first",
			"created_at": "2025-06-01T10:00:00Z",
			"updated_at": "2025-06-01T12:00:00Z",
			"tokens_used": 42,
			"limit": 1000
		}]`))
	}))

	chats := client.ListChats(context.Background())
	require.Len(t, chats, 1)
	assert.False(t, chats[0].CreatedAt.IsZero(), "created_at must decode")
	assert.False(t, chats[0].UpdatedAt.IsZero(), "updated_at must decode")
	assert.Equal(t, 42, chats[0].TokensUsed)
	assert.Equal(t, 1000, chats[0].Limit)
}

func TestListChats_FailureReturnsEmpty(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	chats := client.ListChats(context.Background())
	require.NotNil(t, chats)
	assert.Empty(t, chats)
}

func TestListChats_UnreachableReturnsEmpty(t *testing.T) {
	client, _ := deadClient(t)

	chats := client.ListChats(context.Background())
	require.NotNil(t, chats)
	assert.Empty(t, chats)
}

func TestCreateChat_Success(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, model.Chat{ID: "c9", Name: body["name"]})
	}))

	chat := client.CreateChat(context.Background(), "my chat")
	require.NotNil(t, chat)
	assert.Equal(t, "c9", chat.ID)
	assert.Equal(t, "my chat", chat.Name)
}

func TestCreateChat_FailureReturnsNil(t *testing.T) {
	client, _ := deadClient(t)
	assert.Nil(t, client.CreateChat(context.Background(), "my chat"))
}

// =============================================================================
// MESSAGES
// =============================================================================

func TestChatMessages_Success(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chats/c1/messages", r.URL.Path)
		writeJSON(w, []model.Message{
			{ID: "m1", Role: model.RoleUser, Content: "oi"},
			{ID: "m2", Role: model.RoleAssistant, Content: "olá"},
		})
	}))

	messages := client.ChatMessages(context.Background(), "c1")
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleAssistant, messages[1].Role)
}

func TestChatMessages_FailureReturnsEmpty(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	messages := client.ChatMessages(context.Background(), "gone")
	require.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestSendMessage_ReturnsReply(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chats/c1/message", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "hello there", body["message"])

		writeJSON(w, model.Message{ID: "m3", Role: model.RoleAssistant, Content: "hi!"})
	}))

	reply := client.SendMessage(context.Background(), "c1", "hello there")
	require.NotNil(t, reply)
	assert.Equal(t, "hi!", reply.Content)
}

func TestSendMessage_FailureReturnsNil(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	assert.Nil(t, client.SendMessage(context.Background(), "c1", "hello"))
}

// =============================================================================
// HEALTH
// =============================================================================

func TestCheckHealth_ProbesOutsideAPIPrefix(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	assert.True(t, client.CheckHealth(context.Background()))
}

func TestCheckHealth_FalseOnServerError(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	assert.False(t, client.CheckHealth(context.Background()))
}

func TestCheckHealth_FalseWhenUnreachable(t *testing.T) {
	client, _ := deadClient(t)
	assert.False(t, client.CheckHealth(context.Background()))
}
