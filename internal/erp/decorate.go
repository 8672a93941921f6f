// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package erp

import (
	"context"

	"github.com/taibuivan/erpconsole/internal/listctl"
)

// Backing is a store that supports workflow transitions. Both bundled stores
// implement it.
type Backing[T listctl.Resource] interface {
	listctl.Store[T]
	listctl.Transitioner[T]
}

// Fill derives read-only fields (names of referenced records, ordering) for
// records leaving a store. It must not change identifiers.
type Fill[T listctl.Resource] func(ctx context.Context, items []T) ([]T, error)

// Decorated runs a [Fill] over every record a store returns.
type Decorated[T listctl.Resource] struct {
	inner Backing[T]
	fill  Fill[T]
}

// Decorate wraps inner so that every read and write result passes through fill.
func Decorate[T listctl.Resource](inner Backing[T], fill Fill[T]) *Decorated[T] {
	return &Decorated[T]{inner: inner, fill: fill}
}

func (d *Decorated[T]) List(ctx context.Context) ([]T, error) {
	items, err := d.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	return d.fill(ctx, items)
}

func (d *Decorated[T]) Create(ctx context.Context, input T) (T, error) {
	item, err := d.inner.Create(ctx, input)
	return d.single(ctx, item, err)
}

func (d *Decorated[T]) Update(ctx context.Context, id string, patch listctl.Patch[T]) (T, error) {
	item, err := d.inner.Update(ctx, id, patch)
	return d.single(ctx, item, err)
}

func (d *Decorated[T]) Transition(ctx context.Context, id, action string, patch listctl.Patch[T]) (T, error) {
	item, err := d.inner.Transition(ctx, id, action, patch)
	return d.single(ctx, item, err)
}

func (d *Decorated[T]) Remove(ctx context.Context, id string) error {
	return d.inner.Remove(ctx, id)
}

func (d *Decorated[T]) single(ctx context.Context, item T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}

	filled, err := d.fill(ctx, []T{item})
	if err != nil {
		return zero, err
	}
	return filled[0], nil
}

// Lister is the read side of a store, used to resolve references.
type Lister[R listctl.Resource] interface {
	List(ctx context.Context) ([]R, error)
}

// Index lists source and maps its records by identifier.
func Index[R listctl.Resource](ctx context.Context, source Lister[R]) (map[string]R, error) {
	items, err := source.List(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]R, len(items))
	for _, item := range items {
		index[item.ResourceID()] = item
	}
	return index, nil
}
