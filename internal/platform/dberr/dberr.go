// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/erpconsole/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes the console distinguishes.
const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Record")

	// ErrUnavailable is returned when the database cannot be reached in time.
	ErrUnavailable = apperr.ServiceUnavailable("The data store is temporarily unavailable")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Errors already classified upstream (e.g. by a patch hook) pass through.
	if apperr.IsAppError(err) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		slog.Warn("db_call_interrupted", slog.String("action", action), slog.Any("error", err))
		return ErrUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperr.Conflict("A record with this identifier already exists")
		case codeCheckViolation:
			return apperr.Unprocessable("The record violates a storage constraint")
		}
	}

	slog.Error("db_call_failed", slog.String("action", action), slog.Any("error", err))
	return apperr.Internal(err)
}
