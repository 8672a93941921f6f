// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/constants"
	"github.com/taibuivan/erpconsole/internal/platform/ctxutil"
	"github.com/taibuivan/erpconsole/internal/platform/sec"
	"github.com/taibuivan/erpconsole/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// maxBodyBytes caps request bodies read whole.
const maxBodyBytes = 1 << 20

/*
RawJSON reads the whole request body without decoding it. An empty body
yields a nil message; anything that is not JSON yields validate.ErrInvalidJSON.
*/
func RawJSON(request *http.Request) (json.RawMessage, error) {
	if request.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(request.Body, maxBodyBytes))
	if err != nil {
		return nil, validate.ErrInvalidJSON
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, validate.ErrInvalidJSON
	}
	return body, nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Session extracts the verified session claims from the request context.

Returns nil if the request is not authenticated.
*/
func Session(request *http.Request) *sec.Claims {
	return ctxutil.GetSession(request.Context())
}

/*
RequiredSession ensures the request is authenticated and returns its claims.

Returns:
  - *sec.Claims: The session claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredSession(request *http.Request) (*sec.Claims, error) {
	claims := ctxutil.GetSession(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

/*
Confirmed reports whether a destructive call carries an explicit confirmation,
either as ?confirm=true or as an X-Confirm: true header.
*/
func Confirmed(request *http.Request) bool {
	for _, value := range []string{request.URL.Query().Get("confirm"), request.Header.Get(constants.HeaderXConfirm)} {
		if ok, err := strconv.ParseBool(value); err == nil && ok {
			return true
		}
	}
	return false
}
