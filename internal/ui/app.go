// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/libernet/sofia-tui/internal/api"
	"github.com/libernet/sofia-tui/internal/chat"
	"github.com/libernet/sofia-tui/internal/session"
	"github.com/libernet/sofia-tui/internal/storage"
	"github.com/libernet/sofia-tui/internal/ui/components"
	"github.com/libernet/sofia-tui/internal/ui/styles"
)

// healthInterval is how often the backend health probe runs.
const healthInterval = 30 * time.Second

// viewState selects the active screen.
type viewState int

const (
	viewLoading viewState = iota
	viewLogin
	viewChat
)

// App is the root Bubble Tea model. It owns the screens, the global
// key bindings and the surrounding chrome.
type App struct {
	ctx        context.Context
	kv         storage.KV
	client     *api.Client
	session    *session.Manager
	controller *chat.Controller

	theme     *styles.Theme
	view      viewState
	login     *LoginModel
	chatView  *ChatModel
	statusBar *components.StatusBar

	loginPending bool
	width        int
	height       int
}

// NewApp wires the screens over the shared controllers.
func NewApp(ctx context.Context, kv storage.KV, client *api.Client, sess *session.Manager, controller *chat.Controller, theme *styles.Theme) *App {
	return &App{
		ctx:        ctx,
		kv:         kv,
		client:     client,
		session:    sess,
		controller: controller,
		theme:      theme,
		view:       viewLoading,
		login:      NewLoginModel(theme),
		chatView:   NewChatModel(ctx, controller, theme),
		statusBar:  components.NewStatusBar(theme),
	}
}

// Init restores the session and starts the health probe loop.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.session.StartCmd(a.ctx),
		a.checkHealthCmd(),
	)
}

// Update routes messages to the active screen after handling global
// concerns.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.handleResize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			return a, tea.Quit
		case "ctrl+t":
			a.cycleTheme()
			return a, nil
		case "ctrl+l":
			if a.view == viewChat {
				a.controller.StartNew()
				return a, a.session.LogoutCmd(a.ctx)
			}
		}

	case session.SessionChangedMsg:
		return a, a.handleSessionChange(msg)

	case LoginSubmitMsg:
		a.loginPending = true
		return a, a.session.LoginCmd(a.ctx, msg.Email, msg.Password)

	case HealthMsg:
		a.statusBar.HealthKnown = true
		a.statusBar.Online = msg.Online
		return a, a.healthTickCmd()

	case healthTickMsg:
		return a, a.checkHealthCmd()
	}

	switch a.view {
	case viewLogin:
		return a, a.login.Update(msg)
	case viewChat:
		return a, a.chatView.Update(msg)
	default:
		return a, nil
	}
}

func (a *App) handleResize(width, height int) {
	a.width = width
	a.height = height
	a.theme.SetSize(width, height)
	a.statusBar.Width = width
	a.login.SetSize(width, height-statusBarHeight)
	a.chatView.SetSize(width, height)
}

func (a *App) handleSessionChange(msg session.SessionChangedMsg) tea.Cmd {
	if msg.Status.Loading {
		return nil
	}

	if msg.Status.User != nil {
		a.loginPending = false
		a.view = viewChat
		a.statusBar.UserEmail = msg.Status.User.Email
		a.statusBar.UserPlan = msg.Status.User.Plan
		return a.chatView.Init()
	}

	wasPending := a.loginPending
	a.loginPending = false
	a.statusBar.UserEmail = ""
	a.statusBar.UserPlan = ""
	if a.view == viewLogin && wasPending {
		a.login.Fail()
	} else {
		a.login = NewLoginModel(a.theme)
		a.login.SetSize(a.width, a.height-statusBarHeight)
	}
	a.view = viewLogin
	return nil
}

// cycleTheme advances light -> dark -> system, persists the choice and
// rebuilds every style-holding component.
func (a *App) cycleTheme() {
	mode := a.theme.Mode.Next()
	styles.SaveMode(a.kv, mode)

	a.theme = styles.NewTheme(mode)
	a.theme.SetSize(a.width, a.height)
	a.statusBar.SetTheme(a.theme)
	a.login.SetTheme(a.theme)
	a.chatView.SetTheme(a.theme)
	if a.width > 0 {
		a.chatView.SetSize(a.width, a.height)
	}
}

// =============================================================================
// HEALTH PROBES
// =============================================================================

func (a *App) checkHealthCmd() tea.Cmd {
	return func() tea.Msg {
		return HealthMsg{Online: a.client.CheckHealth(a.ctx)}
	}
}

func (a *App) healthTickCmd() tea.Cmd {
	return tea.Tick(healthInterval, func(t time.Time) tea.Msg {
		return healthTickMsg{At: t}
	})
}

// =============================================================================
// VIEW
// =============================================================================

func (a *App) headerView() string {
	title := a.theme.HeaderTitle.Render("Sofia LiberNet")
	return a.theme.Header.Width(a.width).Render(title)
}

// View composes header, active screen and status bar.
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var body string
	switch a.view {
	case viewLogin:
		body = a.login.View()
	case viewChat:
		body = a.chatView.View()
	default:
		body = lipgloss.Place(a.width, a.height-headerHeight-statusBarHeight,
			lipgloss.Center, lipgloss.Center,
			a.theme.MutedText.Render("Restoring session..."))
	}

	if a.view == viewChat {
		return lipgloss.JoinVertical(lipgloss.Left, a.headerView(), body, a.statusBar.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar.View())
}
