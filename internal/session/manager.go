// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks who is signed in. The Manager restores a
// previous session from the stored token at startup, and mediates
// login and logout for the UI.
package session

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/libernet/sofia-tui/internal/model"
)

// API is the slice of the backend client the manager needs.
type API interface {
	Login(ctx context.Context, email, password string) *model.User
	Logout(ctx context.Context)
	CurrentUser(ctx context.Context) *model.User
}

// Status is a point-in-time snapshot of the session.
type Status struct {
	User    *model.User
	Loading bool
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the authentication state. All methods are safe for
// concurrent use.
type Manager struct {
	mu       sync.Mutex
	api      API
	user     *model.User
	loading  bool
	started  bool
	onChange func(Status)
}

// NewManager creates a manager over the given API. The session starts
// unauthenticated and loading, until Start settles it.
func NewManager(api API) *Manager {
	return &Manager{api: api, loading: true}
}

// OnChange registers a callback invoked after every state transition.
// The callback runs outside the manager lock.
func (m *Manager) OnChange(fn func(Status)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Start restores the session from the stored token. It runs the
// profile lookup at most once; repeated calls are no-ops.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	user := m.api.CurrentUser(ctx)

	m.mu.Lock()
	m.user = user
	m.loading = false
	m.mu.Unlock()
	m.notify()
}

// Login authenticates and reports success. On success the user becomes
// the current user.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	user := m.api.Login(ctx, email, password)
	if user == nil {
		return false
	}

	m.mu.Lock()
	m.user = user
	m.loading = false
	m.mu.Unlock()
	m.notify()
	return true
}

// Logout ends the session. The current user is cleared no matter what
// the backend answered.
func (m *Manager) Logout(ctx context.Context) {
	m.api.Logout(ctx)

	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
	m.notify()
}

// CurrentUser returns the signed-in user, or nil.
func (m *Manager) CurrentUser() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Loading reports whether the initial session restore is still running.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Authenticated reports whether a user is signed in.
func (m *Manager) Authenticated() bool {
	return m.CurrentUser() != nil
}

// GetStatus returns a snapshot of the session state.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{User: m.user, Loading: m.loading}
}

func (m *Manager) notify() {
	m.mu.Lock()
	fn := m.onChange
	status := Status{User: m.user, Loading: m.loading}
	m.mu.Unlock()
	if fn != nil {
		fn(status)
	}
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// SessionChangedMsg reports a settled session transition to the UI.
type SessionChangedMsg struct {
	Status Status

	// LoginOK is set by LoginCmd: true when the credentials were
	// accepted.
	LoginOK bool
}

// StartCmd restores the session in the background.
func (m *Manager) StartCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		m.Start(ctx)
		return SessionChangedMsg{Status: m.GetStatus(), LoginOK: m.Authenticated()}
	}
}

// LoginCmd attempts a login in the background.
func (m *Manager) LoginCmd(ctx context.Context, email, password string) tea.Cmd {
	return func() tea.Msg {
		ok := m.Login(ctx, email, password)
		return SessionChangedMsg{Status: m.GetStatus(), LoginOK: ok}
	}
}

// LogoutCmd ends the session in the background.
func (m *Manager) LogoutCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		m.Logout(ctx)
		return SessionChangedMsg{Status: m.GetStatus()}
	}
}
