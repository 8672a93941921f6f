// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package memstore is the process-local backing store.

It mirrors the behaviour of a remote mock API: every call may wait for a
configured latency, every result is a deep copy, and identifiers are assigned
from a per-store sequence that starts after the seed data.
*/
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/store"
)

// Store is a concurrency-safe in-memory [listctl.Store].
type Store[T listctl.Resource] struct {
	kind    store.Kind[T]
	latency time.Duration
	now     func() time.Time

	mu    sync.Mutex
	items []T
	seq   int
}

// Option customises a [Store].
type Option func(*options)

type options struct {
	latency time.Duration
	now     func() time.Time
}

// WithLatency delays every call by d, or until the context is done.
func WithLatency(d time.Duration) Option {
	return func(o *options) { o.latency = d }
}

// WithClock overrides the time source used for creation dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a store populated with a copy of the kind's seed data.
func New[T listctl.Resource](kind store.Kind[T], opts ...Option) *Store[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[T]{
		kind:    kind,
		latency: o.latency,
		now:     o.now,
		items:   store.CloneAll(kind.Seed),
		seq:     store.NextSequence(kind.Seed),
	}
}

// List returns a copy of every record in insertion order.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return store.CloneAll(s.items), nil
}

// Get returns a copy of one record.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := s.wait(ctx); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexLocked(id)
	if index < 0 {
		return zero, s.kind.NotFound()
	}
	return store.Clone(s.items[index]), nil
}

// Create stores input under the next identifier.
func (s *Store[T]) Create(ctx context.Context, input T) (T, error) {
	var zero T
	if err := s.wait(ctx); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.kind.Create(store.Clone(input), s.seq, s.now())
	if err != nil {
		return zero, err
	}
	if err := s.kind.CheckConflicts(created, s.items); err != nil {
		return zero, err
	}
	s.seq++
	s.items = append(s.items, created)
	return store.Clone(created), nil
}

// Update applies patch to the current copy of a record.
func (s *Store[T]) Update(ctx context.Context, id string, patch listctl.Patch[T]) (T, error) {
	return s.apply(ctx, id, patch, true)
}

// Transition applies a workflow step. Revise hooks do not run for transitions.
func (s *Store[T]) Transition(ctx context.Context, id, _ string, patch listctl.Patch[T]) (T, error) {
	return s.apply(ctx, id, patch, false)
}

// Remove deletes a record.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexLocked(id)
	if index < 0 {
		return s.kind.NotFound()
	}
	if err := s.kind.CheckRemove(s.items[index]); err != nil {
		return err
	}
	if err := s.kind.CheckDependents(s.items[index], s.items); err != nil {
		return err
	}
	s.items = slices.Delete(s.items, index, index+1)
	return nil
}

func (s *Store[T]) apply(ctx context.Context, id string, patch listctl.Patch[T], revise bool) (T, error) {
	var zero T
	if err := s.wait(ctx); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexLocked(id)
	if index < 0 {
		return zero, s.kind.NotFound()
	}

	next, err := s.kind.Apply(s.items[index], patch, revise, s.now())
	if err != nil {
		return zero, err
	}
	if err := s.kind.CheckConflicts(next, s.items); err != nil {
		return zero, err
	}
	s.items[index] = next
	return store.Clone(next), nil
}

func (s *Store[T]) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(item T) bool {
		return item.ResourceID() == id
	})
}

// wait simulates the round trip of a remote call.
func (s *Store[T]) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
