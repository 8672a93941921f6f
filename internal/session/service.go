// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/sec"
	"github.com/taibuivan/erpconsole/pkg/uuid"
)

// ErrInvalidCredentials is the single answer to any failed sign-in.
var ErrInvalidCredentials = apperr.Unauthorized("Invalid username or password")

// # Interfaces

// TokenProvider signs and verifies session tokens.
type TokenProvider interface {
	Issue(sessionID, userID, username, role string, timeToLive time.Duration) (string, time.Time, error)
	Verify(token string) (*sec.Claims, error)
}

// EndHook runs after a session ends, by logout or by expiry.
type EndHook func(sessionID string)

// # Service

// Service signs console users in and out.
type Service struct {
	store    Store
	tokens   TokenProvider
	accounts map[string]Account
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu    sync.Mutex
	hooks []EndHook
	live  map[string]time.Time
}

// Option configures a [Service].
type Option func(*Service)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// WithLogger sets the logger used for session lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(service *Service) { service.logger = logger }
}

// NewService creates a session service over the given accounts.
func NewService(store Store, tokens TokenProvider, accounts []Account, ttl time.Duration, opts ...Option) *Service {
	service := &Service{
		store:    store,
		tokens:   tokens,
		accounts: make(map[string]Account, len(accounts)),
		ttl:      ttl,
		now:      time.Now,
		logger:   slog.Default(),
		live:     make(map[string]time.Time),
	}
	for _, account := range accounts {
		service.accounts[strings.ToLower(account.Username)] = account
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// OnEnd registers a hook fired whenever a session ends.
func (service *Service) OnEnd(hook EndHook) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.hooks = append(service.hooks, hook)
}

func (service *Service) ended(sessionID string) {
	service.mu.Lock()
	delete(service.live, sessionID)
	hooks := append([]EndHook(nil), service.hooks...)
	service.mu.Unlock()

	for _, hook := range hooks {
		hook(sessionID)
	}
}

// # Use cases

// LoginInput carries sign-in credentials.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is a fresh session and its bearer token.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Session   *Session  `json:"session"`
}

/*
Login checks the credentials, opens a session and signs a token for it.

Parameters:
  - ctx: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Token and session
  - error: [ErrInvalidCredentials] or store failures
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	account, ok := service.accounts[strings.ToLower(strings.TrimSpace(input.Username))]
	if !ok || !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := service.now()
	session := &Session{
		ID:        uuid.New(),
		UserID:    account.ID,
		Username:  account.Username,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Role:      account.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(service.ttl),
	}

	token, expiresAt, err := service.tokens.Issue(session.ID, account.ID, account.Username, string(account.Role), service.ttl)
	if err != nil {
		return nil, fmt.Errorf("session_service_issue_failed: %w", err)
	}
	session.ExpiresAt = expiresAt

	if err := service.store.Save(ctx, session, service.ttl); err != nil {
		return nil, fmt.Errorf("session_service_save_failed: %w", err)
	}
	service.track(session.ID, now.Add(service.ttl), true)

	service.logger.InfoContext(ctx, "session_started",
		slog.String("session_id", session.ID),
		slog.String("user_id", account.ID),
	)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Session: session}, nil
}

/*
Verify resolves a bearer token to its live session claims.

A well-signed token whose session is gone (logged out, or expired in the
store) is rejected, and the end hooks fire so per-session state is released.
*/
func (service *Service) Verify(ctx context.Context, token string) (*sec.Claims, error) {
	claims, err := service.tokens.Verify(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired session")
	}

	if _, err := service.store.Get(ctx, claims.SessionID); err != nil {
		if errors.Is(err, ErrNotFound) {
			service.ended(claims.SessionID)
			return nil, apperr.Unauthorized("Session has ended")
		}
		return nil, fmt.Errorf("session_service_lookup_failed: %w", err)
	}
	if claims.ExpiresAt != nil {
		service.track(claims.SessionID, claims.ExpiresAt.Time, false)
	}
	return claims, nil
}

// Current returns the session record behind an id.
func (service *Service) Current(ctx context.Context, sessionID string) (*Session, error) {
	session, err := service.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.Unauthorized("Session has ended")
		}
		return nil, fmt.Errorf("session_service_current_failed: %w", err)
	}
	return session, nil
}

// Logout ends the session and releases everything it owns.
func (service *Service) Logout(ctx context.Context, sessionID string) error {
	if err := service.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("session_service_logout_failed: %w", err)
	}

	service.ended(sessionID)
	service.logger.InfoContext(ctx, "session_ended", slog.String("session_id", sessionID))
	return nil
}

// # Expiry

// track remembers a session served by this process until it expires.
// Sessions opened elsewhere are tracked from their token expiry the first
// time they are seen.
func (service *Service) track(sessionID string, expiresAt time.Time, replace bool) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if _, ok := service.live[sessionID]; ok && !replace {
		return
	}
	service.live[sessionID] = expiresAt
}

/*
Sweep ends every tracked session whose lifetime has passed.

An expired token is rejected before its session is looked up, so a session
that simply times out is never seen by [Service.Verify] again. Sweep removes
it from the store and fires the end hooks instead.

Returns:
  - int: Number of sessions ended
*/
func (service *Service) Sweep(ctx context.Context) int {
	now := service.now()

	service.mu.Lock()
	var expired []string
	for id, expiresAt := range service.live {
		if !now.Before(expiresAt) {
			expired = append(expired, id)
		}
	}
	service.mu.Unlock()

	for _, id := range expired {
		if err := service.store.Delete(ctx, id); err != nil {
			service.logger.WarnContext(ctx, "session_sweep_delete_failed",
				slog.String("session_id", id),
				slog.Any("error", err),
			)
		}
		service.ended(id)
		service.logger.InfoContext(ctx, "session_expired", slog.String("session_id", id))
	}
	return len(expired)
}

// RunSweeper calls [Service.Sweep] every interval until ctx is cancelled.
func (service *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			service.Sweep(ctx)
		}
	}
}
