// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/erpconsole/internal/notify"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *clock {
	return &clock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

/*
TestInbox_DrainOrder returns toasts oldest first and empties the inbox.
*/
func TestInbox_DrainOrder(t *testing.T) {
	inbox := notify.NewInbox(10, time.Minute)
	inbox.Success("saved")
	inbox.Error("failed")
	inbox.Info("exporting")

	toasts := inbox.Drain()
	require.Len(t, toasts, 3)
	assert.Equal(t, notify.LevelSuccess, toasts[0].Level)
	assert.Equal(t, notify.LevelError, toasts[1].Level)
	assert.Equal(t, "exporting", toasts[2].Message)
	assert.NotEqual(t, toasts[0].ID, toasts[1].ID)

	assert.Empty(t, inbox.Drain())
}

/*
TestInbox_Expiry auto-dismisses toasts after their time-to-live.
*/
func TestInbox_Expiry(t *testing.T) {
	c := newClock()
	inbox := notify.NewInbox(10, 5*time.Second)
	inbox.SetClock(c.Now)

	inbox.Info("first")
	c.Advance(3 * time.Second)
	inbox.Info("second")

	assert.Len(t, inbox.Pending(), 2)

	c.Advance(2 * time.Second)
	pending := inbox.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "second", pending[0].Message)

	c.Advance(10 * time.Second)
	assert.Empty(t, inbox.Drain())
}

/*
TestInbox_Capacity drops the oldest toast instead of blocking.
*/
func TestInbox_Capacity(t *testing.T) {
	inbox := notify.NewInbox(3, time.Minute)
	for i := 1; i <= 5; i++ {
		inbox.Info(fmt.Sprintf("toast %d", i))
	}

	toasts := inbox.Drain()
	require.Len(t, toasts, 3)
	assert.Equal(t, "toast 3", toasts[0].Message)
	assert.Equal(t, "toast 5", toasts[2].Message)
}

/*
TestHub keeps one inbox per session.
*/
func TestHub(t *testing.T) {
	hub := notify.NewHub(5, time.Minute)

	a := hub.For("session-a")
	assert.Same(t, a, hub.For("session-a"))
	assert.NotSame(t, a, hub.For("session-b"))

	a.Info("hello")
	hub.Drop("session-a")
	assert.Empty(t, hub.For("session-a").Pending(), "dropped sessions start fresh")
}

/*
TestMulti fans every toast out to the log and the inbox.
*/
func TestMulti(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inbox := notify.NewInbox(5, time.Minute)

	multi := notify.Multi{notify.Log{Logger: logger}, inbox}
	multi.Error("Failed to delete vendor.")

	assert.Len(t, inbox.Pending(), 1)
	assert.Contains(t, buf.String(), `"msg":"toast_emitted"`)
	assert.Contains(t, buf.String(), `"toast_level":"error"`)
}
