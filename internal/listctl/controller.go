// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listctl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/erpconsole/pkg/pagination"
)

// Controller manages one screen's Collection, filter inputs and page for one
// session.
//
// # Concurrency
//
// All methods are safe for concurrent use. Store calls run without holding the
// lock; local state is only patched after the store confirms, and never after
// [Controller.Close].
type Controller[T Resource] struct {
	config   Config[T]
	store    Store[T]
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	items    []T
	criteria Criteria
	page     int
	loading  bool
	loaded   bool
	loadErr  string
	inflight map[string]bool
	creating bool
	closed   bool
}

// State is a consistent snapshot of a controller for rendering.
type State[T Resource] struct {
	Items          []T             `json:"items"`
	Meta           pagination.Meta `json:"meta"`
	Criteria       Criteria        `json:"criteria"`
	Statuses       []string        `json:"statuses,omitempty"`
	CollectionSize int             `json:"collection_size"`
	Loading        bool            `json:"loading"`
	Loaded         bool            `json:"loaded"`
	Error          string          `json:"error,omitempty"`
}

// New creates a controller with an empty Collection on page 1.
//
// A nil notifier discards toasts; a nil logger uses [slog.Default].
func New[T Resource](config Config[T], store Store[T], notifier Notifier, logger *slog.Logger) *Controller[T] {
	if config.PageSize < 1 {
		config.PageSize = pagination.DefaultLimit
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller[T]{
		config:   config,
		store:    store,
		notifier: notifier,
		logger:   logger.With(slog.String("screen", config.Name)),
		page:     pagination.DefaultPage,
		inflight: make(map[string]bool),
	}
}

// Config returns the screen configuration.
func (c *Controller[T]) Config() Config[T] {
	return c.config
}

// # Loader

// Load replaces the Collection with the store's current list.
//
// On failure the previous Collection is kept, the error is recorded for the
// inline error panel, and an error toast is emitted.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.loading = true
	c.loadErr = ""
	c.mu.Unlock()

	items, err := c.store.List(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Debug("list_load_discarded_after_close")
		return ErrClosed
	}
	c.loading = false

	if err != nil {
		c.loadErr = fmt.Sprintf("Failed to load %s. Please try again later.", c.config.Name)
		c.mu.Unlock()

		c.logger.Error("list_load_failed", slog.Any("error", err))
		c.notifier.Error(fmt.Sprintf("Error loading %s list.", c.config.Name))
		return asMutationError(err)
	}

	c.items = slices.Clone(items)
	c.loaded = true
	c.syncPageLocked()
	size := len(c.items)
	c.mu.Unlock()

	c.logger.Debug("list_loaded", slog.Int("count", size))
	return nil
}

// EnsureLoaded loads the Collection once; later calls are no-ops.
// It is the mount hook of a screen.
func (c *Controller[T]) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()

	if loaded {
		return nil
	}
	return c.Load(ctx)
}

// # Filter & Page Inputs

// SetSearch changes the search text and returns to page 1.
func (c *Controller[T]) SetSearch(search string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.criteria.Search = search
	c.page = pagination.DefaultPage
}

// SetStatus changes the status facet ("" for all) and returns to page 1.
func (c *Controller[T]) SetStatus(status string) error {
	if err := c.config.CheckStatus(status); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.criteria.Status = status
	c.page = pagination.DefaultPage
	return nil
}

// CheckStatus rejects a status facet value the screen does not offer.
func (c Config[T]) CheckStatus(status string) error {
	if status != "" && !slices.Contains(c.Statuses, status) {
		return unknownStatus(status, c.Statuses)
	}
	return nil
}

// ResetFilters clears the search text and status facet.
func (c *Controller[T]) ResetFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.criteria = Criteria{}
	c.page = pagination.DefaultPage
}

// GoToPage moves to page n. Requests outside [1, totalPages] are ignored, as
// the numbered controls are disabled at the bounds; it reports whether the
// page changed.
func (c *Controller[T]) GoToPage(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	totalPages := pagination.TotalPages(len(c.viewLocked()), c.config.PageSize)
	if n < 1 || n > totalPages || n == c.page {
		return false
	}

	c.page = n
	return true
}

// NextPage moves one page forward if possible.
func (c *Controller[T]) NextPage() bool {
	return c.GoToPage(c.currentPage() + 1)
}

// PrevPage moves one page back if possible.
func (c *Controller[T]) PrevPage() bool {
	return c.GoToPage(c.currentPage() - 1)
}

func (c *Controller[T]) currentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// # Derived State

// Snapshot returns the visible page and its metadata.
//
// The stored page is corrected first if the View shrank beneath it.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.syncPageLocked()
	view := c.viewLocked()
	visible := pagination.Slice(view, c.page, c.config.PageSize)

	return State[T]{
		Items:          slices.Clone(visible),
		Meta:           pagination.NewMeta(c.page, c.config.PageSize, len(view)),
		Criteria:       c.criteria,
		Statuses:       c.config.Statuses,
		CollectionSize: len(c.items),
		Loading:        c.loading,
		Loaded:         c.loaded,
		Error:          c.loadErr,
	}
}

// View returns a copy of the filtered, unpaginated View.
func (c *Controller[T]) View() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.viewLocked())
}

// Find returns the Collection entry with the given identifier.
func (c *Controller[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.indexLocked(id)
	if index < 0 {
		var zero T
		return zero, false
	}
	return c.items[index], true
}

// # Lifecycle

// Close unmounts the controller. Requests still in flight complete against
// the store but no longer patch local state.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.items = nil
}

// # Internal Helpers

func (c *Controller[T]) viewLocked() []T {
	return Filter(c.items, c.criteria, c.config.SearchFields)
}

// syncPageLocked clamps the stored page into the View's page range.
func (c *Controller[T]) syncPageLocked() {
	totalPages := pagination.TotalPages(len(c.viewLocked()), c.config.PageSize)
	if clamped := pagination.Clamp(c.page, totalPages); clamped != c.page {
		c.logger.Debug("list_page_clamped", slog.Int("from", c.page), slog.Int("to", clamped))
		c.page = clamped
	}
}

func (c *Controller[T]) indexLocked(id string) int {
	return slices.IndexFunc(c.items, func(item T) bool {
		return item.ResourceID() == id
	})
}

// title upper-cases the first letter of the screen name for messages.
func (c *Controller[T]) title() string {
	name := c.config.Name
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// subject names a record in messages: "Invoice INV-2026-0001" or "Vendor".
func (c *Controller[T]) subject(item T) string {
	if code := item.DisplayCode(); code != "" {
		return c.config.Label + " " + code
	}
	return c.config.Label
}

func (c *Controller[T]) lowerLabel() string {
	return strings.ToLower(c.config.Label)
}
