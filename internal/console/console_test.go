// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package console_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/erpconsole/internal/console"
	"github.com/taibuivan/erpconsole/internal/erp/vendor"
	"github.com/taibuivan/erpconsole/internal/notify"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/middleware"
	"github.com/taibuivan/erpconsole/internal/platform/sec"
	"github.com/taibuivan/erpconsole/internal/platform/store/memstore"
)

type verifier map[string]*sec.Claims

func (v verifier) Verify(_ context.Context, token string) (*sec.Claims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, apperr.Unauthorized("Session has ended")
}

var tokens = verifier{
	"clerk":  {SessionID: "s-clerk", Role: string(sec.RoleClerk)},
	"viewer": {SessionID: "s-viewer", Role: string(sec.RoleViewer)},
}

type harness struct {
	router  chi.Router
	vendors *console.Screen[vendor.Vendor]
	hub     *notify.Hub
}

func newHarness(t *testing.T) harness {
	t.Helper()

	hub := notify.NewHub(20, time.Minute)
	screen := vendor.Screen()
	vendors := console.New(screen, memstore.New(screen.Kind), hub, nil)

	registry := &console.Registry{}
	registry.Add(vendors)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/api/v1", registry.Routes())
	router.Mount("/api/v1/notifications", console.NewNotifications(hub).Routes())
	return harness{router: router, vendors: vendors, hub: hub}
}

func (h harness) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, request)
	return recorder
}

type listBody struct {
	Data struct {
		Items []vendor.Vendor `json:"items"`
	} `json:"data"`
	Meta struct {
		Page       int `json:"page"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"meta"`
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) listBody {
	t.Helper()

	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func ids(items []vendor.Vendor) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

/*
TestScreen_List mounts on first access and applies the query inputs.
*/
func TestScreen_List(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/v1/vendors", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, h.vendors.Mounted())

	rec = h.do(t, http.MethodGet, "/api/v1/vendors", "viewer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeList(t, rec)
	assert.Len(t, body.Data.Items, 5)
	assert.Equal(t, 5, body.Meta.Total)
	assert.Equal(t, 1, h.vendors.Mounted())

	rec = h.do(t, http.MethodGet, "/api/v1/vendors?status=Active", "viewer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"v001", "v002", "v004"}, ids(decodeList(t, rec).Data.Items))

	// The status facet sticks to the session.
	rec = h.do(t, http.MethodGet, "/api/v1/vendors?q=tech", "viewer", "")
	assert.Equal(t, []string{"v002"}, ids(decodeList(t, rec).Data.Items))

	rec = h.do(t, http.MethodDelete, "/api/v1/vendors/filters", "viewer", "")
	assert.Len(t, decodeList(t, rec).Data.Items, 5)

	rec = h.do(t, http.MethodGet, "/api/v1/vendors?status=Archived", "viewer", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/vendors?page=two", "viewer", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

/*
TestScreen_ListRejectsBeforeApplying leaves the criteria alone when any query
parameter is invalid.
*/
func TestScreen_ListRejectsBeforeApplying(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/v1/vendors?q=tech&page=two", "viewer", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/vendors?q=eco&status=Archived", "viewer", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/vendors", "viewer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec).Data.Items, 5)
}

/*
TestScreen_SessionsAreIsolated keeps filter inputs per session.
*/
func TestScreen_SessionsAreIsolated(t *testing.T) {
	h := newHarness(t)

	h.do(t, http.MethodGet, "/api/v1/vendors?q=eco", "clerk", "")
	rec := h.do(t, http.MethodGet, "/api/v1/vendors", "viewer", "")
	assert.Len(t, decodeList(t, rec).Data.Items, 5)
	assert.Equal(t, 2, h.vendors.Mounted())

	h.vendors.Unmount("s-clerk")
	assert.Equal(t, 1, h.vendors.Mounted())

	rec = h.do(t, http.MethodGet, "/api/v1/vendors", "clerk", "")
	assert.Len(t, decodeList(t, rec).Data.Items, 5)
}

/*
TestScreen_Mutations covers create, merge update, delete and role checks.
*/
func TestScreen_Mutations(t *testing.T) {
	h := newHarness(t)
	payload := `{"name":"Northwind","contactPerson":"Nancy","email":"nancy@northwind.com","category":"Food"}`

	rec := h.do(t, http.MethodPost, "/api/v1/vendors", "viewer", payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/vendors", "clerk", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"v006"`)

	rec = h.do(t, http.MethodPost, "/api/v1/vendors", "clerk", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPatch, "/api/v1/vendors/v006", "clerk", `{"status":"Inactive"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Inactive"`)
	assert.Contains(t, rec.Body.String(), `"name":"Northwind"`)

	rec = h.do(t, http.MethodPatch, "/api/v1/vendors/v006", "clerk", `{"id":"v999"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/vendors/v006", "viewer", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodDelete, "/api/v1/vendors/v006", "clerk", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFIRMATION_REQUIRED")

	rec = h.do(t, http.MethodDelete, "/api/v1/vendors/v006?confirm=true", "clerk", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/vendors/v006", "clerk", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/vendors/v001/approve", "clerk", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

/*
TestScreen_Notifications drains the toasts of the caller only.
*/
func TestScreen_Notifications(t *testing.T) {
	h := newHarness(t)

	h.do(t, http.MethodPost, "/api/v1/vendors", "clerk",
		`{"name":"Northwind","contactPerson":"Nancy","email":"nancy@northwind.com","category":"Food"}`)

	rec := h.do(t, http.MethodGet, "/api/v1/notifications", "viewer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/v1/notifications/pending", "clerk", "")
	assert.Contains(t, rec.Body.String(), "Vendor created successfully!")

	rec = h.do(t, http.MethodGet, "/api/v1/notifications", "clerk", "")
	assert.Contains(t, rec.Body.String(), "Vendor created successfully!")

	assert.Empty(t, h.hub.For("s-clerk").Pending())
}

/*
TestScreen_Export downloads the filtered View, or nothing when it is empty.
*/
func TestScreen_Export(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/v1/vendors/export.csv?", "viewer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv;charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="vendors_list_`)
	assert.Contains(t, rec.Body.String(), "Global Supplies Co.")

	h.do(t, http.MethodGet, "/api/v1/vendors?q=nothing-matches", "viewer", "")
	rec = h.do(t, http.MethodGet, "/api/v1/vendors/export.csv", "viewer", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

/*
TestBuild registers every screen and runs workflow actions through them.
*/
func TestBuild(t *testing.T) {
	hub := notify.NewHub(20, time.Minute)
	registry, err := console.Build(context.Background(), console.Source{Driver: "memory"}, hub, nil)
	require.NoError(t, err)

	var paths []string
	for _, mount := range registry.Mounts() {
		paths = append(paths, mount.Path())
	}
	assert.Equal(t, []string{
		"vendors", "customers", "products", "employees",
		"purchase-orders", "sales-orders", "invoices", "chart-of-accounts", "journal-entries",
	}, paths)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/api/v1", registry.Routes())

	request := httptest.NewRequest(http.MethodPost, "/api/v1/journal-entries/je003/post", nil)
	request.Header.Set("Authorization", "Bearer clerk")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, request)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Posted"`)

	request = httptest.NewRequest(http.MethodDelete, "/api/v1/chart-of-accounts/acc001?confirm=true", nil)
	request.Header.Set("Authorization", "Bearer clerk")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, request)
	assert.Equal(t, http.StatusConflict, rec.Code)

	registry.Unmount("s-clerk")

	_, err = console.Build(context.Background(), console.Source{Driver: "cassandra"}, hub, nil)
	assert.Error(t, err)

	_, err = console.Build(context.Background(), console.Source{Driver: "postgres"}, hub, nil)
	assert.Error(t, err)
}
