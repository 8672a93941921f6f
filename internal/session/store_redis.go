// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/erpconsole/internal/platform/constants"
)

// RedisStore keeps sessions as JSON values with a Redis TTL, so they survive
// restarts and are shared by every API replica.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(id string) string {
	return constants.RedisPrefixSession + id
}

/*
Save stores the session under its id with the given TTL.

Parameters:
  - ctx: context.Context
  - session: *Session
  - ttl: time.Duration

Returns:
  - error: Encoding or connectivity errors
*/
func (store *RedisStore) Save(ctx context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(ctx, key(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

/*
Get loads a session.

Returns [ErrNotFound] if the key is absent or expired.
*/
func (store *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := store.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}
	return &session, nil
}

// Delete removes the session key.
func (store *RedisStore) Delete(ctx context.Context, id string) error {
	if err := store.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
