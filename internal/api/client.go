// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the LiberNet backend.
//
// The client is deliberately forgiving: every operation absorbs
// transport failures, non-2xx statuses and malformed bodies, returning
// a zero value (nil pointer, empty slice, false) instead of an error.
// The UI treats "no data" and "request failed" identically, so the
// distinction never crosses this package boundary. Failures are still
// recorded through the debug log.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/libernet/sofia-tui/internal/model"
	"github.com/libernet/sofia-tui/internal/storage"
	"github.com/libernet/sofia-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// Internal sentinels for status mapping. They never escape the public
// methods; they exist for logging and tests of the low-level helpers.
var (
	ErrAuthFailed  = errors.New("authentication failed")
	ErrNotFound    = errors.New("resource not found")
	ErrServerError = errors.New("server error")
	ErrBadResponse = errors.New("malformed response")
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultOrigin is the backend origin used when none is configured.
	DefaultOrigin = "http://localhost:3000"

	// apiPrefix is where the API is mounted on the origin.
	apiPrefix = "/api"

	// healthPath is the health probe, mounted outside the API prefix.
	healthPath = "/health"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 1 << 20

	defaultTimeout = 30 * time.Second

	userAgent = "sofia-tui/1.0"
)

// sharedHTTPClient reuses connections across requests.
var sharedHTTPClient = &http.Client{
	Timeout: defaultTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	},
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the LiberNet backend. The zero value is not usable;
// construct with NewClient.
type Client struct {
	origin     string
	baseURL    string
	httpClient *http.Client
	tokens     *storage.TokenStore
}

// NewClient creates a client bound to a token store.
func NewClient(tokens *storage.TokenStore) *Client {
	return &Client{
		origin:     DefaultOrigin,
		baseURL:    DefaultOrigin + apiPrefix,
		httpClient: sharedHTTPClient,
		tokens:     tokens,
	}
}

// WithOrigin points the client at a different backend origin.
func (c *Client) WithOrigin(origin string) *Client {
	origin = strings.TrimRight(origin, "/")
	c.origin = origin
	c.baseURL = origin + apiPrefix
	return c
}

// WithTimeout sets the per-request timeout. This allocates a dedicated
// http.Client so the shared one keeps its default.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient = &http.Client{
		Timeout:   timeout,
		Transport: sharedHTTPClient.Transport,
	}
	return c
}

// WithHTTPClient replaces the underlying http.Client entirely.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Origin returns the configured backend origin.
func (c *Client) Origin() string { return c.origin }

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// setHeaders applies the standard headers: JSON content type always,
// bearer token when one is stored.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// do runs one request and returns the status code and the (bounded)
// body. Any transport failure comes back as an error.
func (c *Client) do(ctx context.Context, method, rawURL string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// statusError maps a non-2xx status to a sentinel for logging.
func statusError(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuthFailed
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServerError
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}

func (c *Client) apiURL(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login authenticates with email and password. On success the bearer
// token is persisted and the user returned. Any failure yields nil.
func (c *Client) Login(ctx context.Context, email, password string) *model.User {
	status, body, err := c.do(ctx, http.MethodPost, c.apiURL("login"), loginRequest{Email: email, Password: password})
	if err != nil {
		util.DebugLogf("login: %v", err)
		return nil
	}
	if status < 200 || status >= 300 {
		util.DebugLogf("login: %v", statusError(status))
		return nil
	}

	var out loginResponse
	if err := json.Unmarshal(body, &out); err != nil || out.Token == "" || out.User == nil {
		util.DebugLogf("login: %v", ErrBadResponse)
		return nil
	}
	c.tokens.SaveToken(out.Token)
	return out.User
}

// Logout tells the backend to end the session and clears the stored
// token. The token is cleared even when the request fails: a local
// logout must always succeed.
func (c *Client) Logout(ctx context.Context) {
	defer c.tokens.ClearToken()

	if _, _, err := c.do(ctx, http.MethodPost, c.apiURL("logout"), nil); err != nil {
		util.DebugLogf("logout: %v", err)
	}
}

// CurrentUser fetches the profile for the stored token. Without a
// token no request is made. A 401 invalidates the stored token. Every
// failure yields nil.
func (c *Client) CurrentUser(ctx context.Context) *model.User {
	if c.tokens.Token() == "" {
		return nil
	}

	status, body, err := c.do(ctx, http.MethodGet, c.apiURL("user"), nil)
	if err != nil {
		util.DebugLogf("current user: %v", err)
		return nil
	}
	if status == http.StatusUnauthorized {
		// The token is no longer honored by the server.
		c.tokens.ClearToken()
		return nil
	}
	if status < 200 || status >= 300 {
		util.DebugLogf("current user: %v", statusError(status))
		return nil
	}

	var user model.User
	if err := json.Unmarshal(body, &user); err != nil || user.ID == "" {
		util.DebugLogf("current user: %v", ErrBadResponse)
		return nil
	}
	return &user
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// ListChats returns the user's chats. Always non-nil; empty on any
// failure.
func (c *Client) ListChats(ctx context.Context) []model.Chat {
	status, body, err := c.do(ctx, http.MethodGet, c.apiURL("chats"), nil)
	if err != nil {
		util.DebugLogf("list chats: %v", err)
		return []model.Chat{}
	}
	if status < 200 || status >= 300 {
		util.DebugLogf("list chats: %v", statusError(status))
		return []model.Chat{}
	}

	var chats []model.Chat
	if err := json.Unmarshal(body, &chats); err != nil {
		util.DebugLogf("list chats: %v", ErrBadResponse)
		return []model.Chat{}
	}
	if chats == nil {
		chats = []model.Chat{}
	}
	return chats
}

type createChatRequest struct {
	Name string `json:"name"`
}

// CreateChat creates a named chat and returns it, or nil on failure.
func (c *Client) CreateChat(ctx context.Context, name string) *model.Chat {
	status, body, err := c.do(ctx, http.MethodPost, c.apiURL("chats"), createChatRequest{Name: name})
	if err != nil {
		util.DebugLogf("create chat: %v", err)
		return nil
	}
	if status < 200 || status >= 300 {
		util.DebugLogf("create chat: %v", statusError(status))
		return nil
	}

	var chat model.Chat
	if err := json.Unmarshal(body, &chat); err != nil || chat.ID == "" {
		util.DebugLogf("create chat: %v", ErrBadResponse)
		return nil
	}
	return &chat
}

// ChatMessages returns the transcript of a chat, oldest first. Always
// non-nil; empty on any failure.
func (c *Client) ChatMessages(ctx context.Context, chatID string) []model.Message {
	status, body, err := c.do(ctx, http.MethodGet, c.apiURL("chats", chatID, "messages"), nil)
	if err != nil {
		util.DebugLogf("chat messages: %v", err)
		return []model.Message{}
	}
	if status < 200 || status >= 300 {
		util.DebugLogf("chat messages: %v", statusError(status))
		return []model.Message{}
	}

	var messages []model.Message
	if err := json.Unmarshal(body, &messages); err != nil {
		util.DebugLogf("chat messages: %v", ErrBadResponse)
		return []model.Message{}
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessage posts the user's message to a chat and returns the
// assistant's reply, or nil on failure.
func (c *Client) SendMessage(ctx context.Context, chatID, content string) *model.Message {
	status, body, err := c.do(ctx, http.MethodPost, c.apiURL("chats", chatID, "message"), sendMessageRequest{Message: content})
	if err != nil {
		util.DebugLogf("send message: %v", err)
		return nil
	}
	if status < 200 || status >= 300 {
		util.DebugLogf("send message: %v", statusError(status))
		return nil
	}

	var msg model.Message
	if err := json.Unmarshal(body, &msg); err != nil || msg.Content == "" {
		util.DebugLogf("send message: %v", ErrBadResponse)
		return nil
	}
	return &msg
}

// =============================================================================
// HEALTH
// =============================================================================

// CheckHealth probes <origin>/health and reports whether the backend
// answered with a 2xx.
func (c *Client) CheckHealth(ctx context.Context) bool {
	status, _, err := c.do(ctx, http.MethodGet, c.origin+healthPath, nil)
	if err != nil {
		util.DebugLogf("health: %v", err)
		return false
	}
	return status >= 200 && status < 300
}
