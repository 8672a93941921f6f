// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package console hosts the ERP list screens over HTTP.

Each [Screen] keeps one list controller per session. The first request a
session makes to a screen mounts and loads its controller; the controller
lives until the session ends, when [Registry.Unmount] closes it.

# Endpoints (per screen, under /api/v1/{screen})

  - GET    /                : Current page, after applying q, status and page.
  - POST   /reload          : Reloads the Collection from the store.
  - DELETE /filters         : Clears search and status.
  - GET    /export.csv      : Downloads the filtered View as CSV.
  - GET    /{id}            : One record of the Collection.
  - POST   /                : Creates a record.
  - PATCH  /{id}            : Merges the JSON body over the record.
  - DELETE /{id}            : Deletes a record (needs confirmation).
  - POST   /{id}/{action}   : Runs a workflow action.
*/
package console

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/notify"
)

// Inboxes hands out the toast inbox of a session. [*notify.Hub] implements it.
type Inboxes interface {
	For(sessionID string) *notify.Inbox
}

// Mount is a screen as the registry sees it, without its record type.
type Mount interface {
	Path() string
	Routes() chi.Router
	Unmount(sessionID string)
}

// Screen hosts one entity screen for every session.
type Screen[T listctl.Resource] struct {
	screen  erp.Screen[T]
	backing erp.Backing[T]
	inboxes Inboxes
	logger  *slog.Logger
	now     func() time.Time

	mu          sync.Mutex
	controllers map[string]*listctl.Controller[T]
}

// New creates a screen host. All sessions share backing; each gets its own
// controller over it.
func New[T listctl.Resource](screen erp.Screen[T], backing erp.Backing[T], inboxes Inboxes, logger *slog.Logger) *Screen[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Screen[T]{
		screen:      screen,
		backing:     backing,
		inboxes:     inboxes,
		logger:      logger,
		now:         time.Now,
		controllers: make(map[string]*listctl.Controller[T]),
	}
}

// Path is the URL segment of the screen: "purchase orders" is served at
// "purchase-orders".
func (s *Screen[T]) Path() string {
	return strings.ReplaceAll(s.screen.Config.Name, " ", "-")
}

// controller returns the session's controller, mounting and loading it on
// first use. A failed first load still returns the controller; its State
// carries the error.
func (s *Screen[T]) controller(ctx context.Context, sessionID string) *listctl.Controller[T] {
	s.mu.Lock()
	ctrl, ok := s.controllers[sessionID]
	if !ok {
		notifier := notify.Multi{s.inboxes.For(sessionID), notify.Log{Logger: s.logger}}
		ctrl = listctl.New(s.screen.Config, s.backing, notifier, s.logger.With(slog.String("session_id", sessionID)))
		s.controllers[sessionID] = ctrl
	}
	s.mu.Unlock()

	if err := ctrl.EnsureLoaded(ctx); err != nil {
		s.logger.WarnContext(ctx, "console_mount_load_failed",
			slog.String("screen", s.screen.Config.Name),
			slog.Any("error", err),
		)
	}
	return ctrl
}

// Unmount closes the session's controller, if it has one.
func (s *Screen[T]) Unmount(sessionID string) {
	s.mu.Lock()
	ctrl, ok := s.controllers[sessionID]
	delete(s.controllers, sessionID)
	s.mu.Unlock()

	if ok {
		ctrl.Close()
	}
}

// Mounted reports how many sessions currently hold a controller.
func (s *Screen[T]) Mounted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.controllers)
}

// # Registry

// Registry is the set of screens served by the console.
type Registry struct {
	mounts []Mount
}

// Add registers screens.
func (r *Registry) Add(mounts ...Mount) {
	r.mounts = append(r.mounts, mounts...)
}

// Mounts returns the registered screens in registration order.
func (r *Registry) Mounts() []Mount {
	return r.mounts
}

// Routes mounts every screen under its path.
func (r *Registry) Routes() chi.Router {
	router := chi.NewRouter()
	for _, mount := range r.mounts {
		router.Mount("/"+mount.Path(), mount.Routes())
	}
	return router
}

// Unmount closes every controller owned by the session.
func (r *Registry) Unmount(sessionID string) {
	for _, mount := range r.mounts {
		mount.Unmount(sessionID)
	}
}
