// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/erpconsole/internal/platform/ctxutil"
	"github.com/taibuivan/erpconsole/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Session verifies that session claims can be stored in context.
*/
func TestContext_Session(t *testing.T) {
	ctx := context.Background()
	claims := &sec.Claims{
		SessionID: "sess-1",
		UserID:    "user001",
		Role:      "administrator",
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetSession(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithSession(ctx, claims)
	retrieved := ctxutil.GetSession(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "sess-1", retrieved.SessionID)
	assert.Equal(t, "administrator", retrieved.Role)
}
