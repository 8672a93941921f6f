// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify delivers the console's transient toasts.

Producers never block: a full [Inbox] drops its oldest toast, and toasts expire
on their own after the configured time-to-live, exactly like auto-dismissing
notifications in a browser. The HTTP layer drains a session's inbox on demand.
*/
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/pkg/uuid"
)

// Level classifies a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Defaults for a new [Inbox].
const (
	DefaultCapacity = 20
	DefaultTTL      = 5 * time.Second
)

// Toast is one user-facing notification.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// # Inbox

// Inbox is a bounded, self-expiring toast queue for one session.
type Inbox struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time

	mu     sync.Mutex
	toasts []Toast
}

var _ listctl.Notifier = (*Inbox)(nil)

// NewInbox creates an inbox. Non-positive arguments fall back to the defaults.
func NewInbox(capacity int, ttl time.Duration) *Inbox {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Inbox{capacity: capacity, ttl: ttl, now: time.Now}
}

func (i *Inbox) Success(message string) { i.push(LevelSuccess, message) }
func (i *Inbox) Error(message string)   { i.push(LevelError, message) }
func (i *Inbox) Info(message string)    { i.push(LevelInfo, message) }

// Pending returns the live toasts without removing them.
func (i *Inbox) Pending() []Toast {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.pruneLocked()
	return append([]Toast(nil), i.toasts...)
}

// Drain returns the live toasts, oldest first, and empties the inbox.
func (i *Inbox) Drain() []Toast {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.pruneLocked()
	out := i.toasts
	i.toasts = nil
	return out
}

func (i *Inbox) push(level Level, message string) {
	now := i.now()
	toast := Toast{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(i.ttl),
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.pruneLocked()
	if len(i.toasts) >= i.capacity {
		i.toasts = i.toasts[len(i.toasts)-i.capacity+1:]
	}
	i.toasts = append(i.toasts, toast)
}

// pruneLocked drops expired toasts. Toasts are ordered by creation, so the
// expired ones form a prefix.
func (i *Inbox) pruneLocked() {
	now := i.now()
	live := 0
	for live < len(i.toasts) && !i.toasts[live].ExpiresAt.After(now) {
		live++
	}
	if live > 0 {
		i.toasts = append([]Toast(nil), i.toasts[live:]...)
	}
}

// # Hub

// Hub owns one inbox per session.
type Hub struct {
	capacity int
	ttl      time.Duration

	mu      sync.Mutex
	inboxes map[string]*Inbox
}

// NewHub creates a hub whose inboxes use the given limits.
func NewHub(capacity int, ttl time.Duration) *Hub {
	return &Hub{capacity: capacity, ttl: ttl, inboxes: make(map[string]*Inbox)}
}

// For returns the session's inbox, creating it on first use.
func (h *Hub) For(sessionID string) *Inbox {
	h.mu.Lock()
	defer h.mu.Unlock()

	inbox, ok := h.inboxes[sessionID]
	if !ok {
		inbox = NewInbox(h.capacity, h.ttl)
		h.inboxes[sessionID] = inbox
	}
	return inbox
}

// Drop forgets a session's inbox.
func (h *Hub) Drop(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inboxes, sessionID)
}

// # Fan-out

// Log writes every toast to a structured logger.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Success(message string) { l.write(LevelSuccess, message) }
func (l Log) Error(message string)   { l.write(LevelError, message) }
func (l Log) Info(message string)    { l.write(LevelInfo, message) }

func (l Log) write(level Level, message string) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("toast_emitted", slog.String("toast_level", string(level)), slog.String("message", message))
}

// Multi forwards each toast to every notifier in order.
type Multi []listctl.Notifier

func (m Multi) Success(message string) {
	for _, n := range m {
		n.Success(message)
	}
}

func (m Multi) Error(message string) {
	for _, n := range m {
		n.Error(message)
	}
}

func (m Multi) Info(message string) {
	for _, n := range m {
		n.Info(message)
	}
}
