// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listctl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/pkg/pagination"
)

// # Mutator
//
// Every mutation writes through to the store first. Local state is patched
// only after the store confirms, so a failed call leaves the Collection and
// page exactly as they were.

// Create adds a record through the store and appends the stored copy.
//
// Only one create may be in flight at a time; a second call returns [ErrBusy].
func (c *Controller[T]) Create(ctx context.Context, input T) (T, error) {
	var zero T

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	if c.creating {
		c.mu.Unlock()
		return zero, ErrBusy
	}
	c.creating = true
	c.mu.Unlock()

	created, err := c.store.Create(ctx, input)

	c.mu.Lock()
	c.creating = false
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	if err != nil {
		c.mu.Unlock()
		return zero, c.mutationFailed("create", err)
	}
	c.items = append(c.items, created)
	c.mu.Unlock()

	c.logger.Info("list_item_created", slog.String("id", created.ResourceID()))
	c.notifier.Success(fmt.Sprintf("%s created successfully!", c.subject(created)))
	return created, nil
}

// Update applies patch through the store and replaces the record in place.
func (c *Controller[T]) Update(ctx context.Context, id string, patch Patch[T]) (T, error) {
	var zero T

	if err := c.acquire(id, "update"); err != nil {
		return zero, err
	}

	updated, err := c.store.Update(ctx, id, patch)

	c.mu.Lock()
	delete(c.inflight, id)
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	if err != nil {
		c.mu.Unlock()
		return zero, c.mutationFailed("update", err)
	}
	c.replaceLocked(id, updated)
	c.mu.Unlock()

	c.logger.Info("list_item_updated", slog.String("id", id))
	c.notifier.Success(fmt.Sprintf("%s updated successfully!", c.subject(updated)))
	return updated, nil
}

// Remove deletes a record through the store.
//
// The call is rejected before dispatch unless confirmed is true. When the
// removed record was the only one on a page past the first, the controller
// steps back one page. Removing a record hidden from the current page leaves
// the page alone.
func (c *Controller[T]) Remove(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := c.acquire(id, "delete"); err != nil {
		return err
	}

	err := c.store.Remove(ctx, id)

	c.mu.Lock()
	delete(c.inflight, id)
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		c.mu.Unlock()
		return c.mutationFailed("delete", err)
	}

	if c.page > 1 && c.onlyVisibleLocked(id) {
		c.page--
	}
	if index := c.indexLocked(id); index >= 0 {
		c.items = slices.Delete(c.items, index, index+1)
	}
	c.syncPageLocked()
	c.mu.Unlock()

	c.logger.Info("list_item_deleted", slog.String("id", id))
	c.notifier.Success(fmt.Sprintf("%s deleted successfully!", c.config.Label))
	return nil
}

// Transition runs a workflow step on one record.
//
// Terminal statuses and statuses outside action.From are rejected locally with
// an INVALID_TRANSITION error and no store call.
func (c *Controller[T]) Transition(ctx context.Context, id string, action Action[T]) (T, error) {
	var zero T

	transitioner, ok := c.store.(Transitioner[T])
	if !ok {
		return zero, apperr.Unprocessable(fmt.Sprintf("%s records have no workflow", c.config.Label))
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	index := c.indexLocked(id)
	if index < 0 {
		c.mu.Unlock()
		return zero, c.mutationFailed(action.Name, notFound(c.config.Label))
	}
	before := c.items[index]
	c.mu.Unlock()

	if err := c.allowed(before, action); err != nil {
		c.notifier.Error(err.Message)
		return zero, err
	}
	if err := c.acquire(id, action.Name); err != nil {
		return zero, err
	}

	after, err := transitioner.Transition(ctx, id, action.Name, action.Apply)

	c.mu.Lock()
	delete(c.inflight, id)
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	if err != nil {
		c.mu.Unlock()
		return zero, c.mutationFailed(action.Name, err)
	}
	c.replaceLocked(id, after)
	c.mu.Unlock()

	c.logger.Info("list_item_transitioned", slog.String("id", id), slog.String("action", action.Name))
	c.notifier.Success(fmt.Sprintf("%s %s successfully!", c.subject(after), action.Done))

	if action.After != nil {
		if hookErr := action.After(ctx, before, after); hookErr != nil {
			c.logger.Warn("list_transition_side_effect_failed",
				slog.String("id", id),
				slog.String("action", action.Name),
				slog.Any("error", hookErr),
			)
		}
	}
	return after, nil
}

// # Internal Helpers

// acquire verifies the record exists locally and marks it in flight.
func (c *Controller[T]) acquire(id, verb string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.indexLocked(id) < 0 {
		c.notifier.Error(failureMessage(verb, c.lowerLabel(), notFound(c.config.Label)))
		return notFound(c.config.Label)
	}
	if c.inflight[id] {
		return ErrBusy
	}
	c.inflight[id] = true
	return nil
}

// allowed checks a transition's source status without touching the store.
func (c *Controller[T]) allowed(item T, action Action[T]) *apperr.AppError {
	status := statusOf(item)

	if slices.Contains(c.config.TerminalStatuses, status) ||
		(len(action.From) > 0 && !slices.Contains(action.From, status)) {
		return apperr.InvalidTransition(fmt.Sprintf(
			"%s is already %s and cannot be %s.",
			c.subject(item), strings.ToLower(status), action.Done,
		))
	}
	return nil
}

func (c *Controller[T]) replaceLocked(id string, item T) {
	if index := c.indexLocked(id); index >= 0 {
		c.items[index] = item
	}
}

// onlyVisibleLocked reports whether id is the single record on the current page.
func (c *Controller[T]) onlyVisibleLocked(id string) bool {
	visible := pagination.Slice(c.viewLocked(), c.page, c.config.PageSize)
	return len(visible) == 1 && visible[0].ResourceID() == id
}

// mutationFailed logs and toasts a failed mutation and returns the API error.
func (c *Controller[T]) mutationFailed(verb string, err error) error {
	c.logger.Warn("list_mutation_failed", slog.String("action", verb), slog.Any("error", err))
	c.notifier.Error(failureMessage(verb, c.lowerLabel(), err))
	return asMutationError(err)
}

func failureMessage(verb, label string, err error) string {
	message := fmt.Sprintf("Failed to %s %s.", verb, label)
	if r := reason(err); r != "" {
		message += " " + r
	}
	return message
}
