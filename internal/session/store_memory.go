// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, sessions: make(map[string]memoryEntry)}
}

func (store *MemoryStore) Save(_ context.Context, session *Session, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.sessions[session.ID] = memoryEntry{session: *session, expiresAt: store.now().Add(ttl)}
	return nil
}

func (store *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry, ok := store.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !store.now().Before(entry.expiresAt) {
		delete(store.sessions, id)
		return nil, ErrNotFound
	}

	session := entry.session
	return &session, nil
}

func (store *MemoryStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.sessions, id)
	return nil
}
