// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package store holds what the bundled backing stores share: the per-entity
[Kind] hooks, deep copies, and identifier sequencing.

Implementations live in the memstore (process-local, seeded) and docstore
(PostgreSQL JSONB documents) subpackages. Both satisfy [listctl.Store] and
[listctl.Transitioner].
*/
package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
)

// Kind describes how a store creates, revises and deletes one entity type.
type Kind[T listctl.Resource] struct {
	// Name is the collection name ("vendors"); docstore uses it as the document kind.
	Name string

	// Label is the singular name used in errors ("Vendor").
	Label string

	// Seed is the initial data set loaded into an empty store.
	Seed []T

	// Assign builds the stored record for a create request. seq is the next
	// free sequence number for this kind.
	Assign func(input T, seq int, now time.Time) (T, error)

	// Revise recomputes derived fields after an update and may reject it.
	// Nil keeps the patched record as-is.
	Revise func(before, after T, now time.Time) (T, error)

	// Removable rejects deletions the entity does not allow. Nil allows all.
	Removable func(current T) error

	// Conflicts rejects a created or revised record that clashes with the
	// other records of the kind, such as a duplicate code. Nil allows all.
	Conflicts func(candidate T, others []T) error

	// Dependents rejects deleting current while other records of the kind
	// still refer to it. Nil allows all.
	Dependents func(current T, others []T) error
}

// Create runs the Assign hook.
func (k Kind[T]) Create(input T, seq int, now time.Time) (T, error) {
	if k.Assign == nil {
		var zero T
		return zero, apperr.Unprocessable(k.Label + " records cannot be created")
	}
	return k.Assign(input, seq, now)
}

// Apply runs patch on current and then the Revise hook, keeping the identifier fixed.
func (k Kind[T]) Apply(current T, patch listctl.Patch[T], revise bool, now time.Time) (T, error) {
	var zero T

	next, err := patch(Clone(current))
	if err != nil {
		return zero, err
	}
	if next.ResourceID() != current.ResourceID() {
		return zero, apperr.Unprocessable(k.Label + " identifier cannot be changed")
	}
	if revise && k.Revise != nil {
		return k.Revise(current, next, now)
	}
	return next, nil
}

// CheckRemove runs the Removable hook.
func (k Kind[T]) CheckRemove(current T) error {
	if k.Removable == nil {
		return nil
	}
	return k.Removable(current)
}

// Related reports whether writes must see the kind's other records.
func (k Kind[T]) Related() bool {
	return k.Conflicts != nil || k.Dependents != nil
}

// CheckConflicts runs the Conflicts hook. all may include candidate's own
// stored copy; it is left out of the comparison.
func (k Kind[T]) CheckConflicts(candidate T, all []T) error {
	if k.Conflicts == nil {
		return nil
	}
	return k.Conflicts(candidate, others(candidate.ResourceID(), all))
}

// CheckDependents runs the Dependents hook.
func (k Kind[T]) CheckDependents(current T, all []T) error {
	if k.Dependents == nil {
		return nil
	}
	return k.Dependents(current, others(current.ResourceID(), all))
}

func others[T listctl.Resource](id string, all []T) []T {
	out := make([]T, 0, len(all))
	for _, item := range all {
		if item.ResourceID() != id {
			out = append(out, item)
		}
	}
	return out
}

// NotFound builds the error for a missing identifier.
func (k Kind[T]) NotFound() *apperr.AppError {
	return apperr.NotFound(k.Label)
}

// # Copies

// Clone deep-copies a record through its JSON form, so callers never share
// nested slices with the store.
func Clone[T any](value T) T {
	data, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("store: clone marshal %T: %v", value, err))
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("store: clone unmarshal %T: %v", value, err))
	}
	return out
}

// CloneAll deep-copies a slice of records.
func CloneAll[T any](values []T) []T {
	out := make([]T, len(values))
	for i, value := range values {
		out[i] = Clone(value)
	}
	return out
}

// # Sequences

// SequenceOf extracts the numeric suffix of an identifier ("po012" -> 12).
// It returns 0 when the identifier has no numeric suffix.
func SequenceOf(id string) int {
	end := len(id)
	start := strings.LastIndexFunc(id, func(r rune) bool { return !unicode.IsDigit(r) }) + 1
	if start >= end {
		return 0
	}

	n, err := strconv.Atoi(id[start:end])
	if err != nil {
		return 0
	}
	return n
}

// NextSequence returns one past the highest identifier sequence in items.
func NextSequence[T listctl.Resource](items []T) int {
	highest := 0
	for _, item := range items {
		highest = max(highest, SequenceOf(item.ResourceID()))
	}
	return highest + 1
}

// ID formats a store identifier: ID("po", 7) == "po007".
func ID(prefix string, seq int) string {
	return fmt.Sprintf("%s%03d", prefix, seq)
}

// Code formats a yearly display code: Code("INV", 2026, 3) == "INV-2026-0003".
func Code(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// Today renders now as an ISO calendar date in UTC.
func Today(now time.Time) string {
	return now.UTC().Format(time.DateOnly)
}
