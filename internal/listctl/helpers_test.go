// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listctl_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
)

type item struct {
	ID     string
	Code   string
	Name   string
	Status string
	Tags   []string
}

func (i item) ResourceID() string  { return i.ID }
func (i item) DisplayCode() string { return i.Code }

func (i item) Field(name string) (any, bool) {
	switch name {
	case "id":
		return i.ID, true
	case "code":
		return i.Code, true
	case "name":
		return i.Name, true
	case "status":
		return i.Status, true
	case "tags":
		return i.Tags, true
	}
	return nil, false
}

// fakeStore records calls and can be told to fail or block.
type fakeStore struct {
	mu      sync.Mutex
	items   []item
	nextID  int
	calls   map[string]int
	failOn  map[string]error
	gate    chan struct{}
	entered chan struct{}
}

func newFakeStore(items ...item) *fakeStore {
	return &fakeStore{
		items:  slices.Clone(items),
		nextID: len(items) + 1,
		calls:  map[string]int{},
		failOn: map[string]error{},
	}
}

func (s *fakeStore) enter(op string) error {
	s.mu.Lock()
	s.calls[op]++
	err := s.failOn[op]
	gate, entered := s.gate, s.entered
	s.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return err
}

func (s *fakeStore) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *fakeStore) List(_ context.Context) ([]item, error) {
	if err := s.enter("list"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), nil
}

func (s *fakeStore) Create(_ context.Context, input item) (item, error) {
	if err := s.enter("create"); err != nil {
		return item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	input.ID = fmt.Sprintf("it%03d", s.nextID)
	s.nextID++
	s.items = append(s.items, input)
	return input, nil
}

func (s *fakeStore) Update(_ context.Context, id string, patch listctl.Patch[item]) (item, error) {
	if err := s.enter("update"); err != nil {
		return item{}, err
	}
	return s.apply(id, patch)
}

func (s *fakeStore) Remove(_ context.Context, id string) error {
	if err := s.enter("remove"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	index := slices.IndexFunc(s.items, func(i item) bool { return i.ID == id })
	if index < 0 {
		return apperr.NotFound("Item")
	}
	s.items = slices.Delete(s.items, index, index+1)
	return nil
}

func (s *fakeStore) Transition(_ context.Context, id, action string, patch listctl.Patch[item]) (item, error) {
	if err := s.enter("transition:" + action); err != nil {
		return item{}, err
	}
	return s.apply(id, patch)
}

func (s *fakeStore) apply(id string, patch listctl.Patch[item]) (item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := slices.IndexFunc(s.items, func(i item) bool { return i.ID == id })
	if index < 0 {
		return item{}, apperr.NotFound("Item")
	}
	next, err := patch(s.items[index])
	if err != nil {
		return item{}, err
	}
	next.ID = id
	s.items[index] = next
	return next, nil
}

// plainStore hides the workflow support of the wrapped store.
type plainStore struct{ listctl.Store[item] }

// recorder collects toasts by kind.
type recorder struct {
	mu      sync.Mutex
	success []string
	errors  []string
	info    []string
}

func (r *recorder) Success(m string) { r.mu.Lock(); r.success = append(r.success, m); r.mu.Unlock() }
func (r *recorder) Error(m string)   { r.mu.Lock(); r.errors = append(r.errors, m); r.mu.Unlock() }
func (r *recorder) Info(m string)    { r.mu.Lock(); r.info = append(r.info, m); r.mu.Unlock() }

func (r *recorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.success) + len(r.errors) + len(r.info)
}

func testConfig() listctl.Config[item] {
	return listctl.Config[item]{
		Name:             "items",
		Label:            "Item",
		PageSize:         10,
		SearchFields:     []string{"name", "code"},
		Statuses:         []string{"Active", "Inactive", "Paid", "Void"},
		TerminalStatuses: []string{"Paid", "Void"},
		Columns: []listctl.Column{
			{Field: "name", Header: "Item Name"},
			{Field: "status", Header: "Status"},
		},
		FilenameBase: "items_list",
	}
}

func numbered(n int) []item {
	items := make([]item, n)
	for i := range items {
		items[i] = item{
			ID:     fmt.Sprintf("it%03d", i+1),
			Code:   fmt.Sprintf("IT-%04d", i+1),
			Name:   fmt.Sprintf("Item %d", i+1),
			Status: "Active",
		}
	}
	return items
}

func newController(store listctl.Store[item]) (*listctl.Controller[item], *recorder) {
	rec := &recorder{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return listctl.New(testConfig(), store, rec, logger), rec
}
