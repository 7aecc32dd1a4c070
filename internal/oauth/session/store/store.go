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

// Package store provides storage of login sessions and CSRF tokens used by the authorization endpoint.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/appsuite/oauthd/internal/oauth/session/model"
	"github.com/appsuite/oauthd/internal/system/config"
)

var (
	// ErrSessionNotFound is returned when a login session does not exist or has expired.
	ErrSessionNotFound = errors.New("login session not found")
	// ErrCSRFTokenNotFound is returned when no CSRF token is bound to the given key.
	ErrCSRFTokenNotFound = errors.New("csrf token not found")
)

// SessionStoreInterface defines the storage of login sessions and CSRF tokens.
type SessionStoreInterface interface {
	SaveSession(ctx context.Context, session model.LoginSession) error
	GetSession(ctx context.Context, sessionID string) (*model.LoginSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	SaveCSRFToken(ctx context.Context, key, token string) error
	GetCSRFToken(ctx context.Context, key string) (string, error)
	// SweepExpired removes expired sessions and CSRF tokens and returns how many were removed.
	SweepExpired(ctx context.Context) (int, error)
}

// NewSessionStore creates the session store selected by the configuration.
func NewSessionStore(sessionConfig config.SessionConfig) (SessionStoreInterface, error) {
	validity := time.Duration(sessionConfig.ValidityPeriod) * time.Second

	switch sessionConfig.Type {
	case config.SessionStoreTypeMemory, "":
		return NewMemorySessionStore(validity), nil
	case config.SessionStoreTypeRedis:
		if sessionConfig.Redis.Address == "" {
			return nil, errors.New("redis session store requires an address")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     sessionConfig.Redis.Address,
			Password: sessionConfig.Redis.Password,
			DB:       sessionConfig.Redis.DB,
		})
		return NewRedisSessionStore(client, sessionConfig.Redis.Prefix, validity), nil
	default:
		return nil, fmt.Errorf("unsupported session store type: %s", sessionConfig.Type)
	}
}
