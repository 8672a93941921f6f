// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/respond"
)

/*
TestError renders client errors as-is and hides internal ones.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "validation",
			err:    apperr.ValidationError("Invalid page", apperr.FieldError{Field: "page", Message: "Must be a whole number"}),
			status: http.StatusBadRequest,
			body:   `{"error":"Invalid page","code":"VALIDATION_ERROR","details":[{"field":"page","message":"Must be a whole number"}]}`,
		},
		{
			name:   "conflict",
			err:    apperr.Conflict("Account ID \"1010\" already exists."),
			status: http.StatusConflict,
			body:   `{"error":"Account ID \"1010\" already exists.","code":"CONFLICT"}`,
		},
		{
			name:   "internal",
			err:    errors.New("dial tcp: connection refused"),
			status: http.StatusInternalServerError,
			body:   `{"error":"An unexpected error occurred","code":"INTERNAL_ERROR"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/vendors", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.body, recorder.Body.String())
		})
	}
}

/*
TestCreated wraps the record in the data envelope.
*/
func TestCreated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Created(recorder, map[string]string{"id": "acc026"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":"acc026"}}`, recorder.Body.String())
}
