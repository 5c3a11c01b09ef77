// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat holds the view state for the conversation screen: which
// chat is open, its transcript, and the sending lifecycle.
//
// Sending is modeled in two steps. Begin ensures a chat exists (creating
// one named after the message when needed) and appends the user's
// message optimistically; Settle delivers the assistant's reply, or a
// synthesized apology when the backend failed. The transcript is
// append-only between those two steps.
package chat

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/libernet/sofia-tui/internal/model"
	"github.com/libernet/sofia-tui/internal/util"
)

// API is the slice of the backend client the controller needs.
type API interface {
	ListChats(ctx context.Context) []model.Chat
	CreateChat(ctx context.Context, name string) *model.Chat
	ChatMessages(ctx context.Context, chatID string) []model.Message
	SendMessage(ctx context.Context, chatID, content string) *model.Message
}

// =============================================================================
// ERRORS AND CONSTANTS
// =============================================================================

var (
	// ErrCreateChat means the backend refused to create the chat; the
	// transcript is left untouched.
	ErrCreateChat = errors.New("could not create chat")

	// ErrEmptyMessage means the content was blank and nothing was sent.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy means a send is already in flight.
	ErrBusy = errors.New("a message is already being sent")
)

// SendFailureText is appended as an assistant message when the backend
// fails to answer a send. The wording is fixed product copy.
const SendFailureText = "Desculpe, ocorreu um erro ao processar sua mensagem. Tente novamente."

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the conversation view state. All methods are safe for
// concurrent use.
type Controller struct {
	mu           sync.Mutex
	api          API
	activeChatID string
	messages     []model.Message
	sending      bool
	chats        []model.Chat

	// now is swappable for tests.
	now func() time.Time
}

// NewController creates a controller with no open chat.
func NewController(api API) *Controller {
	return &Controller{api: api, now: time.Now}
}

// ActiveChatID returns the id of the open chat, or "" when composing a
// new one.
func (c *Controller) ActiveChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeChatID
}

// Messages returns a copy of the transcript in display order.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Sending reports whether a send is in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// StartNew leaves the current chat and clears the transcript, so the
// next send creates a fresh chat.
func (c *Controller) StartNew() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeChatID = ""
	c.messages = nil
}

// =============================================================================
// HISTORY
// =============================================================================

// HistoryResult carries a loaded transcript tagged with the chat it was
// fetched for. Applied is false when the user switched chats while the
// fetch was in flight and the result was discarded.
type HistoryResult struct {
	ChatID   string
	Messages []model.Message
	Applied  bool
}

// Activate makes chatID the open chat and clears the transcript. The
// caller follows up with LoadHistory.
func (c *Controller) Activate(chatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeChatID = chatID
	c.messages = nil
}

// LoadHistory fetches the transcript for chatID and installs it if that
// chat is still the open one. Stale results are discarded.
func (c *Controller) LoadHistory(ctx context.Context, chatID string) HistoryResult {
	messages := c.api.ChatMessages(ctx, chatID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeChatID != chatID {
		return HistoryResult{ChatID: chatID, Messages: messages}
	}
	c.messages = messages
	return HistoryResult{ChatID: chatID, Messages: messages, Applied: true}
}

// Open activates chatID and loads its history in one blocking call.
func (c *Controller) Open(ctx context.Context, chatID string) HistoryResult {
	c.Activate(chatID)
	return c.LoadHistory(ctx, chatID)
}

// =============================================================================
// SENDING
// =============================================================================

// BeginResult reports the outcome of the optimistic half of a send.
type BeginResult struct {
	// Proceed is true when the user's message was appended and the
	// settle step should run.
	Proceed bool

	// ChatID is the chat the message belongs to, set when Proceed.
	ChatID string

	// Err explains why the send did not start (empty content, chat
	// creation failure, send already in flight).
	Err error
}

// Begin starts a send: it ensures a chat exists, appends the user's
// message optimistically and raises the sending flag. When no chat is
// open it creates one named after the message. On chat creation
// failure nothing is appended.
func (c *Controller) Begin(ctx context.Context, content string) BeginResult {
	if strings.TrimSpace(content) == "" {
		return BeginResult{Err: ErrEmptyMessage}
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return BeginResult{Err: ErrBusy}
	}
	chatID := c.activeChatID
	c.mu.Unlock()

	if chatID == "" {
		created := c.api.CreateChat(ctx, util.ChatName(content))
		if created == nil {
			return BeginResult{Err: ErrCreateChat}
		}
		chatID = created.ID
		c.mu.Lock()
		c.activeChatID = chatID
		c.mu.Unlock()
	}

	optimistic := model.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      model.RoleUser,
		Content:   content,
		Timestamp: util.ClockStamp(c.now()),
	}

	c.mu.Lock()
	c.messages = append(c.messages, optimistic)
	c.sending = true
	c.mu.Unlock()

	return BeginResult{Proceed: true, ChatID: chatID}
}

// Settle finishes a send started by Begin: it posts the content and
// appends the assistant's reply, or the fixed apology when the backend
// failed. The appended message is returned.
func (c *Controller) Settle(ctx context.Context, chatID, content string) model.Message {
	reply := c.api.SendMessage(ctx, chatID, content)
	if reply == nil {
		reply = &model.Message{
			ID:        uuid.NewString(),
			ChatID:    chatID,
			Role:      model.RoleAssistant,
			Content:   SendFailureText,
			Timestamp: util.ClockStamp(c.now()),
		}
	}

	c.mu.Lock()
	c.messages = append(c.messages, *reply)
	c.sending = false
	c.mu.Unlock()

	return *reply
}

// SendResult reports a completed blocking send.
type SendResult struct {
	ChatID  string
	Settled model.Message
	Err     error
}

// Send runs Begin and Settle back to back. The UI prefers the two-step
// commands so the optimistic message renders before the reply arrives;
// Send exists for non-interactive callers.
func (c *Controller) Send(ctx context.Context, content string) SendResult {
	begin := c.Begin(ctx, content)
	if !begin.Proceed {
		return SendResult{Err: begin.Err}
	}
	settled := c.Settle(ctx, begin.ChatID, content)
	return SendResult{ChatID: begin.ChatID, Settled: settled}
}

// =============================================================================
// CHAT LIST
// =============================================================================

// Chats returns the cached sidebar list, most recently created first.
func (c *Controller) Chats() []model.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Chat, len(c.chats))
	copy(out, c.chats)
	return out
}

// RefreshChats reloads the chat list from the backend.
func (c *Controller) RefreshChats(ctx context.Context) []model.Chat {
	chats := c.api.ListChats(ctx)
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].CreatedAt.After(chats[j].CreatedAt)
	})

	c.mu.Lock()
	c.chats = chats
	c.mu.Unlock()
	return c.Chats()
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// HistoryLoadedMsg delivers the result of a background history load.
type HistoryLoadedMsg struct {
	Result HistoryResult
}

// ChatsLoadedMsg delivers a refreshed sidebar list.
type ChatsLoadedMsg struct {
	Chats []model.Chat
}

// SendStartedMsg reports that the optimistic half of a send finished.
type SendStartedMsg struct {
	Result  BeginResult
	Content string
}

// MessageSettledMsg reports that a send settled with the given message.
type MessageSettledMsg struct {
	ChatID  string
	Settled model.Message
}

// OpenCmd activates chatID now and loads its history in the background.
func (c *Controller) OpenCmd(ctx context.Context, chatID string) tea.Cmd {
	c.Activate(chatID)
	return func() tea.Msg {
		return HistoryLoadedMsg{Result: c.LoadHistory(ctx, chatID)}
	}
}

// RefreshChatsCmd reloads the sidebar list in the background.
func (c *Controller) RefreshChatsCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		return ChatsLoadedMsg{Chats: c.RefreshChats(ctx)}
	}
}

// BeginSendCmd runs the optimistic half of a send in the background.
func (c *Controller) BeginSendCmd(ctx context.Context, content string) tea.Cmd {
	return func() tea.Msg {
		return SendStartedMsg{Result: c.Begin(ctx, content), Content: content}
	}
}

// SettleSendCmd finishes a send in the background.
func (c *Controller) SettleSendCmd(ctx context.Context, chatID, content string) tea.Cmd {
	return func() tea.Msg {
		return MessageSettledMsg{ChatID: chatID, Settled: c.Settle(ctx, chatID, content)}
	}
}
