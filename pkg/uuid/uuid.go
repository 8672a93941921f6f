// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the identifiers of sessions, toasts and requests.

Values are UUIDv7, so they sort by creation time, which keeps request ids in
log order and toast ids in display order.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// If the v7 generator fails it falls back to a random v4 value; callers only
// rely on uniqueness.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
