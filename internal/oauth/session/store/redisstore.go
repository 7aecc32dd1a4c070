/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/appsuite/oauthd/internal/oauth/session/model"
)

const (
	sessionKeyPrefix = "session:"
	csrfKeyPrefix    = "csrf:"
)

// redisCommander is the subset of the redis client used by the store.
type redisCommander interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSessionStore keeps login sessions and CSRF tokens in redis so that several nodes can share them.
type RedisSessionStore struct {
	client         redisCommander
	prefix         string
	validityPeriod time.Duration
	now            func() time.Time
}

// NewRedisSessionStore creates a session store on top of a redis client.
func NewRedisSessionStore(client redisCommander, prefix string, validityPeriod time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client:         client,
		prefix:         prefix,
		validityPeriod: validityPeriod,
		now:            time.Now,
	}
}

func (s *RedisSessionStore) buildKey(kind, key string) string {
	return s.prefix + kind + key
}

// SaveSession stores the session until it expires.
func (s *RedisSessionStore) SaveSession(ctx context.Context, session model.LoginSession) error {
	if session.ID == "" {
		return ErrSessionNotFound
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal login session: %w", err)
	}
	return s.client.Set(ctx, s.buildKey(sessionKeyPrefix, session.ID), data, ttl).Err()
}

// GetSession retrieves a login session.
func (s *RedisSessionStore) GetSession(ctx context.Context, sessionID string) (*model.LoginSession, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	val, err := s.client.Get(ctx, s.buildKey(sessionKeyPrefix, sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session model.LoginSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login session: %w", err)
	}
	if session.IsExpired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// DeleteSession removes a login session.
func (s *RedisSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.buildKey(sessionKeyPrefix, sessionID)).Err()
}

// SaveCSRFToken binds a CSRF token to the key for the validity period of the store.
func (s *RedisSessionStore) SaveCSRFToken(ctx context.Context, key, token string) error {
	if key == "" {
		return ErrCSRFTokenNotFound
	}
	return s.client.Set(ctx, s.buildKey(csrfKeyPrefix, key), token, s.validityPeriod).Err()
}

// GetCSRFToken returns the CSRF token bound to the key.
func (s *RedisSessionStore) GetCSRFToken(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrCSRFTokenNotFound
	}

	token, err := s.client.Get(ctx, s.buildKey(csrfKeyPrefix, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCSRFTokenNotFound
	}
	return token, err
}

// SweepExpired is a no-op. Redis expires sessions and CSRF tokens through their TTL.
func (s *RedisSessionStore) SweepExpired(_ context.Context) (int, error) {
	return 0, nil
}
