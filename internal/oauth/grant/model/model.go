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

// Package model defines the grant and authorization code artifacts.
package model

import (
	"time"

	"github.com/appsuite/oauthd/internal/oauth/scope"
)

// Grant is the persistent authorization of a client to act on behalf of a user.
type Grant struct {
	AccessToken      string
	RefreshToken     string
	UserID           int
	ContextID        int
	ClientID         string
	Scope            scope.Scope
	AuthCode         string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	RefreshExpiresAt time.Time
}

// IsExpired reports whether the access token of the grant is expired at the given time.
func (g *Grant) IsExpired(now time.Time) bool {
	return !now.Before(g.ExpiresAt)
}

// ExpiresIn returns the remaining lifetime of the access token in whole seconds.
func (g *Grant) ExpiresIn(now time.Time) int64 {
	remaining := int64(g.ExpiresAt.Sub(now) / time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AuthorizationCode is a single use artifact exchanged for a grant at the token endpoint.
type AuthorizationCode struct {
	Code        string
	ClientID    string
	RedirectURI string
	UserID      int
	ContextID   int
	Scope       scope.Scope
	ExpiresAt   time.Time
	Consumed    bool
}

// IsExpired reports whether the code is expired at the given time.
func (c *AuthorizationCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
