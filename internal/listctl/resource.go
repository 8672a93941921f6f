// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package listctl implements the resource-list controller shared by every console
screen (vendors, invoices, journal entries, ...).

A [Controller] owns one screen's data lifecycle for one session:

  - Loader: replaces the Collection from a [Store].
  - Filter Engine: derives the View from search text and a status facet.
  - Paginator: slices the View into pages and keeps the current page valid.
  - Mutator: create/update/remove/transition, write-through then patch.
  - Exporter: serializes the whole View (not just the page) to CSV.

Screens differ only in their [Config] and store binding; there is one
controller implementation.
*/
package listctl

import "context"

// # Resource Contract

// Resource is one entity instance managed by a list screen.
type Resource interface {
	// ResourceID is the store-assigned unique identifier.
	ResourceID() string

	// DisplayCode is the human-readable code shown in messages (e.g. "INV-2026-0003").
	// It may be empty for entities without one.
	DisplayCode() string

	// Field returns the value of a named source field and whether it is defined.
	// Search and CSV export address fields by these names.
	Field(name string) (any, bool)
}

// StatusField is the source field the status facet filters on.
const StatusField = "status"

// Column maps a source field to a CSV header.
type Column struct {
	Field  string
	Header string
}

// Config parameterizes a controller for one entity type.
type Config[T Resource] struct {
	// Name is the plural, lower-case screen name used in messages ("vendors").
	Name string

	// Label is the singular display name ("Vendor").
	Label string

	// PageSize is the fixed number of items per page.
	PageSize int

	// SearchFields are the fields matched by the free-text search.
	SearchFields []string

	// Statuses is the enumerated status set accepted by the status facet.
	// An empty set disables the facet.
	Statuses []string

	// TerminalStatuses block every transition.
	TerminalStatuses []string

	// Columns are the export columns, in output order.
	Columns []Column

	// FilenameBase prefixes the exported file name ("vendors_list").
	FilenameBase string
}

// Criteria holds the transient filter inputs of a screen.
type Criteria struct {
	Search string `json:"search"`
	Status string `json:"status"`
}

// IsEmpty reports whether no filter is active.
func (c Criteria) IsEmpty() bool {
	return c.Search == "" && c.Status == ""
}

// # Backing Store Contract

// Patch computes the next version of a record from the store's current copy.
//
// The store applies it atomically with respect to its own writers, which makes
// the store the arbiter when two mutations of the same record race.
type Patch[T Resource] func(current T) (T, error)

// Store is the backing store a controller loads from and writes through to.
type Store[T Resource] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, input T) (T, error)
	Update(ctx context.Context, id string, patch Patch[T]) (T, error)
	Remove(ctx context.Context, id string) error
}

// Transitioner is implemented by stores of workflow entities.
type Transitioner[T Resource] interface {
	Transition(ctx context.Context, id, action string, patch Patch[T]) (T, error)
}

// Action describes a status-changing workflow step (void, record-payment, ...).
type Action[T Resource] struct {
	// Name is the verb used in requests and messages ("void").
	Name string

	// Done is the past participle used in success messages ("voided").
	Done string

	// From lists the statuses the step may start from. Empty means any
	// status that is not terminal.
	From []string

	// Apply produces the transitioned record.
	Apply Patch[T]

	// After runs once local state is patched. Its error is logged only.
	After func(ctx context.Context, before, after T) error
}

// # Notifications

// Notifier is the fire-and-forget toast sink.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}
func (nopNotifier) Info(string)    {}
