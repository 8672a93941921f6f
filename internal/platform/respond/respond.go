// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package respond writes the console API's JSON envelopes.

Screens answer with {"data": ...}, screen pages add {"meta": ...} for the
pagination bar, and failures answer with {"error", "code", "details"}. The
console shows the error text as a toast and uses details to mark form fields.
*/
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/ctxkey"
	"github.com/taibuivan/erpconsole/pkg/pagination"
)

// SuccessEnvelope wraps a record, an action result or a health report.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope wraps one page of a screen with its pagination bar.
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the body of every failed request.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON encodes payload with the given status.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK answers 200 with data.
func OK(writer http.ResponseWriter, data any) {
	Status(writer, http.StatusOK, data)
}

// Created answers 201 with the stored record.
func Created(writer http.ResponseWriter, data any) {
	Status(writer, http.StatusCreated, data)
}

// Paginated answers 200 with a screen page and its meta block.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// Status answers data with an explicit status, as the health report does on 503.
func Status(writer http.ResponseWriter, statusCode int, data any) {
	JSON(writer, statusCode, SuccessEnvelope{Data: data})
}

// NoContent answers 204 after a delete or a filter reset with no body.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error answers with the error's status and client message.
//
// Errors that are not an [apperr.AppError] become INTERNAL_ERROR and their
// text stays in the log. Every 5xx is logged with the request id.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		loggerFrom(request).ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("path", request.URL.Path),
			slog.String("request_id", requestIDFrom(request)),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}

func loggerFrom(request *http.Request) *slog.Logger {
	if logger, ok := request.Context().Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

func requestIDFrom(request *http.Request) string {
	id, _ := request.Context().Value(ctxkey.KeyRequestID).(string)
	return id
}
