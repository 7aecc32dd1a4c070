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

// Package store provides persistence of authorization codes and grants.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/appsuite/oauthd/internal/oauth/grant/model"
)

var (
	// ErrAuthorizationCodeNotFound is returned when a code does not exist.
	ErrAuthorizationCodeNotFound = errors.New("authorization code not found")
	// ErrGrantNotFound is returned when no grant exists for a token.
	ErrGrantNotFound = errors.New("grant not found")
)

// GrantStoreInterface defines the persistence of authorization codes and grants.
// Methods returning a bool report whether a row was changed, so callers can detect lost races.
type GrantStoreInterface interface {
	InsertAuthorizationCode(ctx context.Context, code model.AuthorizationCode) error
	GetAuthorizationCode(ctx context.Context, code string) (*model.AuthorizationCode, error)
	RedeemAuthorizationCode(ctx context.Context, code string, grant model.Grant) (bool, error)

	GetGrantByAccessToken(ctx context.Context, accessToken string) (*model.Grant, error)
	GetGrantByRefreshToken(ctx context.Context, refreshToken string) (*model.Grant, error)
	RenewGrant(ctx context.Context, current model.Grant, renewed model.Grant) (bool, error)
	DeleteGrantByAccessToken(ctx context.Context, accessToken string) (bool, error)
	DeleteGrantByRefreshToken(ctx context.Context, refreshToken string) (bool, error)
	DeleteGrantsByAuthCode(ctx context.Context, code string) (int64, error)
	CountGrants(ctx context.Context, userID, contextID int) (int, error)

	DeleteExpiredAuthorizationCodes(ctx context.Context, now time.Time) (int64, error)
	DeleteExpiredGrants(ctx context.Context, now time.Time) (int64, error)
}
