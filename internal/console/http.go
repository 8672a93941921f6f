// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/middleware"
	requestutil "github.com/taibuivan/erpconsole/internal/platform/request"
	"github.com/taibuivan/erpconsole/internal/platform/respond"
	"github.com/taibuivan/erpconsole/internal/platform/sec"
	"github.com/taibuivan/erpconsole/internal/platform/validate"
)

// Routes returns the screen router. Every route needs a session; writes need
// at least the clerk role.
func (s *Screen[T]) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", s.list)
	router.Post("/reload", s.reload)
	router.Delete("/filters", s.resetFilters)
	router.Get("/export.csv", s.export)
	router.Get("/{id}", s.find)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleClerk))
		r.Post("/", s.create)
		r.Patch("/{id}", s.update)
		r.Delete("/{id}", s.remove)
		r.Post("/{id}/{action}", s.transition)
	})

	return router
}

// Page is the data block of a list response.
type Page[T listctl.Resource] struct {
	Items          []T              `json:"items"`
	Criteria       listctl.Criteria `json:"criteria"`
	Statuses       []string         `json:"statuses,omitempty"`
	CollectionSize int              `json:"collection_size"`
	Loading        bool             `json:"loading"`
	Error          string           `json:"error,omitempty"`
}

func (s *Screen[T]) render(writer http.ResponseWriter, ctrl *listctl.Controller[T]) {
	state := ctrl.Snapshot()
	respond.Paginated(writer, Page[T]{
		Items:          state.Items,
		Criteria:       state.Criteria,
		Statuses:       state.Statuses,
		CollectionSize: state.CollectionSize,
		Loading:        state.Loading,
		Error:          state.Error,
	}, state.Meta)
}

// session resolves the caller's controller.
func (s *Screen[T]) session(writer http.ResponseWriter, request *http.Request) (*listctl.Controller[T], bool) {
	claims, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return nil, false
	}
	return s.controller(request.Context(), claims.SessionID), true
}

/*
List renders the current page.

GET /api/v1/{screen}?q=&status=&page=

Description: Query parameters are applied as list inputs in the order
search, status, page. Omitted parameters leave the session's inputs as they
are, so a bare GET re-renders the current page.
*/
func (s *Screen[T]) list(writer http.ResponseWriter, request *http.Request) {
	ctrl, ok := s.session(writer, request)
	if !ok {
		return
	}

	query := request.URL.Query()
	page := 0
	if query.Has("page") {
		parsed, err := strconv.Atoi(query.Get("page"))
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("Invalid page",
				apperr.FieldError{Field: "page", Message: "Must be a whole number"}))
			return
		}
		page = parsed
	}
	if query.Has("status") {
		if err := s.screen.Config.CheckStatus(query.Get("status")); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	// Nothing changes until every parameter is known to be valid.
	if query.Has("q") {
		ctrl.SetSearch(query.Get("q"))
	}
	if query.Has("status") {
		if err := ctrl.SetStatus(query.Get("status")); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}
	if query.Has("page") {
		ctrl.GoToPage(page)
	}

	s.render(writer, ctrl)
}

// reload handles POST /api/v1/{screen}/reload.
func (s *Screen[T]) reload(writer http.ResponseWriter, request *http.Request) {
	ctrl, ok := s.session(writer, request)
	if !ok {
		return
	}

	if err := ctrl.Load(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	s.render(writer, ctrl)
}

// resetFilters handles DELETE /api/v1/{screen}/filters.
func (s *Screen[T]) resetFilters(writer http.ResponseWriter, request *http.Request) {
	ctrl, ok := s.session(writer, request)
	if !ok {
		return
	}

	ctrl.ResetFilters()
	s.render(writer, ctrl)
}

/*
Export downloads the filtered View.

GET /api/v1/{screen}/export.csv

Response:
  - 200: text/csv attachment named {base}_{YYYY-MM-DD}.csv
  - 204: The View is empty
*/
func (s *Screen[T]) export(writer http.ResponseWriter, request *http.Request) {
	ctrl, ok := s.session(writer, request)
	if !ok {
		return
	}

	var buffer bytes.Buffer
	result, err := ctrl.Export(&buffer, s.now())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if result.Rows == 0 {
		respond.NoContent(writer)
		return
	}

	writer.Header().Set("Content-Type", "text/csv;charset=utf-8")
	writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	writer.WriteHeader(http.StatusOK)
	_, _ = buffer.WriteTo(writer)
}

// find handles GET /api/v1/{screen}/{id}.
func (s *Screen[T]) find(writer http.ResponseWriter, request *http.Request) {
	ctrl, ok := s.session(writer, request)
	if !ok {
		return
	}

	item, found := ctrl.Find(requestutil.Param(request, "id"))
	if !found {
		respond.Error(writer, request, apperr.NotFound(s.screen.Config.Label))
		return
	}
	respond.OK(writer, item)
}

// create handles POST /api/v1/{screen}.
func (s *Screen[T]) create(writer http.ResponseWriter, request *http.Request) {
	ctrl, ok := s.session(writer, request)
	if !ok {
		return
	}

	var input T
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := ctrl.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

/*
Update merges the body over the stored record.

PATCH /api/v1/{screen}/{id}

Description: Fields present in the body replace the record's fields; arrays
are replaced whole. The merge runs against the store's current version.
*/
func (s *Screen[T]) update(writer http.ResponseWriter, request *http.Request) {
	ctrl, ok := s.session(writer, request)
	if !ok {
		return
	}

	body, err := requestutil.RawJSON(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if body == nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := ctrl.Update(request.Context(), requestutil.Param(request, "id"), merge[T](body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

// merge decodes body over a copy of the current record.
func merge[T listctl.Resource](body json.RawMessage) listctl.Patch[T] {
	return func(current T) (T, error) {
		if err := json.Unmarshal(body, &current); err != nil {
			var zero T
			return zero, validate.ErrInvalidJSON
		}
		return current, nil
	}
}

/*
Remove deletes a record.

DELETE /api/v1/{screen}/{id}?confirm=true

Response:
  - 204: Deleted
  - 400: CONFIRMATION_REQUIRED when confirmation is missing
*/
func (s *Screen[T]) remove(writer http.ResponseWriter, request *http.Request) {
	ctrl, ok := s.session(writer, request)
	if !ok {
		return
	}

	if err := ctrl.Remove(request.Context(), requestutil.Param(request, "id"), requestutil.Confirmed(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// transition handles POST /api/v1/{screen}/{id}/{action}.
func (s *Screen[T]) transition(writer http.ResponseWriter, request *http.Request) {
	ctrl, ok := s.session(writer, request)
	if !ok {
		return
	}

	params, err := requestutil.RawJSON(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	action, err := s.screen.Action(requestutil.Param(request, "action"), params, s.now())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := ctrl.Transition(request.Context(), requestutil.Param(request, "id"), action)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}
