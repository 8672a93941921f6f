// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns console sign-in state.

A session is what a browser tab would keep in local storage: who is signed in
and since when. Every list screen a session opens is keyed by the session id,
so ending a session (logout or expiry) is also what unmounts its screens.

# Architecture

  - Service: Login, Verify and Logout use cases.
  - Store: memory and Redis implementations behind one interface.
  - Handler: the /api/v1/auth routes.
*/
package session

import (
	"context"
	"time"

	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/sec"
)

// # Domain Entities

// Account is a console user able to sign in.
type Account struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Role         sec.Role `json:"role"`
	PasswordHash string   `json:"-"`
}

// Session is one signed-in console.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      sec.Role  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ErrNotFound is returned by stores for unknown or expired sessions.
var ErrNotFound = apperr.NotFound("Session")

// # Data Access

// Store persists sessions until they expire.
type Store interface {
	// Save stores the session; it disappears on its own after ttl.
	Save(ctx context.Context, session *Session, ttl time.Duration) error

	// Get returns the session, or [ErrNotFound].
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error
}

// MockAdministrator is the built-in console account (admin / password).
func MockAdministrator() (Account, error) {
	hash, err := sec.HashPassword("password")
	if err != nil {
		return Account{}, err
	}

	return Account{
		ID:           "user001",
		Username:     "admin",
		Email:        "admin@gmail.com",
		FirstName:    "Admin",
		LastName:     "User",
		Role:         sec.RoleAdministrator,
		PasswordHash: hash,
	}, nil
}
