// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package console

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/erpconsole/internal/notify"
	"github.com/taibuivan/erpconsole/internal/platform/middleware"
	requestutil "github.com/taibuivan/erpconsole/internal/platform/request"
	"github.com/taibuivan/erpconsole/internal/platform/respond"
)

// Notifications serves the toast inbox of the calling session.
type Notifications struct {
	hub *notify.Hub
}

// NewNotifications constructs the toast endpoint.
func NewNotifications(hub *notify.Hub) *Notifications {
	return &Notifications{hub: hub}
}

// Routes returns the notifications router.
//
// # Endpoints
//   - GET / : Returns and clears the pending toasts.
//   - GET /pending : Returns the pending toasts without clearing them.
func (handler *Notifications) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Get("/", handler.drain)
	router.Get("/pending", handler.pending)
	return router
}

func (handler *Notifications) drain(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	toasts := handler.hub.For(claims.SessionID).Drain()
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	respond.OK(writer, toasts)
}

func (handler *Notifications) pending(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	toasts := handler.hub.For(claims.SessionID).Pending()
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	respond.OK(writer, toasts)
}
