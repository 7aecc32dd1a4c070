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
	"sync"
	"time"

	"github.com/appsuite/oauthd/internal/oauth/grant/model"
)

// MemoryGrantStore keeps codes and grants in process memory.
type MemoryGrantStore struct {
	mu             sync.Mutex
	codes          map[string]model.AuthorizationCode
	grants         map[string]*model.Grant
	byRefreshToken map[string]*model.Grant
}

// NewMemoryGrantStore creates an empty in-memory grant store.
func NewMemoryGrantStore() GrantStoreInterface {
	return &MemoryGrantStore{
		codes:          make(map[string]model.AuthorizationCode),
		grants:         make(map[string]*model.Grant),
		byRefreshToken: make(map[string]*model.Grant),
	}
}

// InsertAuthorizationCode stores a new authorization code.
func (s *MemoryGrantStore) InsertAuthorizationCode(_ context.Context, code model.AuthorizationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	code.Consumed = false
	s.codes[code.Code] = code
	return nil
}

// GetAuthorizationCode retrieves an authorization code.
func (s *MemoryGrantStore) GetAuthorizationCode(_ context.Context, code string) (*model.AuthorizationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.codes[code]
	if !ok {
		return nil, ErrAuthorizationCodeNotFound
	}
	return &stored, nil
}

// RedeemAuthorizationCode marks the code as used and stores the grant minted from it.
// It returns false, storing nothing, when the code was already used.
func (s *MemoryGrantStore) RedeemAuthorizationCode(_ context.Context, code string, grant model.Grant) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.codes[code]
	if !ok || stored.Consumed {
		return false, nil
	}
	stored.Consumed = true
	s.codes[code] = stored

	g := grant
	s.grants[g.AccessToken] = &g
	s.byRefreshToken[g.RefreshToken] = &g
	return true, nil
}

// GetGrantByAccessToken retrieves a grant by its access token.
func (s *MemoryGrantStore) GetGrantByAccessToken(_ context.Context, accessToken string) (*model.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.grants[accessToken]
	if !ok {
		return nil, ErrGrantNotFound
	}
	copied := *g
	return &copied, nil
}

// GetGrantByRefreshToken retrieves a grant by its refresh token.
func (s *MemoryGrantStore) GetGrantByRefreshToken(_ context.Context, refreshToken string) (*model.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.byRefreshToken[refreshToken]
	if !ok {
		return nil, ErrGrantNotFound
	}
	copied := *g
	return &copied, nil
}

// RenewGrant replaces the token pair of the grant while it still holds the current token pair.
func (s *MemoryGrantStore) RenewGrant(_ context.Context, current model.Grant, renewed model.Grant) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.byRefreshToken[current.RefreshToken]
	if !ok || g.AccessToken != current.AccessToken {
		return false, nil
	}
	delete(s.grants, g.AccessToken)
	delete(s.byRefreshToken, g.RefreshToken)

	g.AccessToken = renewed.AccessToken
	g.RefreshToken = renewed.RefreshToken
	g.ExpiresAt = renewed.ExpiresAt
	g.RefreshExpiresAt = renewed.RefreshExpiresAt
	s.grants[g.AccessToken] = g
	s.byRefreshToken[g.RefreshToken] = g
	return true, nil
}

// DeleteGrantByAccessToken deletes the grant of an access token.
func (s *MemoryGrantStore) DeleteGrantByAccessToken(_ context.Context, accessToken string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.grants[accessToken]
	if !ok {
		return false, nil
	}
	s.removeLocked(g)
	return true, nil
}

// DeleteGrantByRefreshToken deletes the grant of a refresh token.
func (s *MemoryGrantStore) DeleteGrantByRefreshToken(_ context.Context, refreshToken string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.byRefreshToken[refreshToken]
	if !ok {
		return false, nil
	}
	s.removeLocked(g)
	return true, nil
}

// DeleteGrantsByAuthCode deletes the grants minted from an authorization code.
func (s *MemoryGrantStore) DeleteGrantsByAuthCode(_ context.Context, code string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, g := range s.grants {
		if g.AuthCode == code {
			s.removeLocked(g)
			deleted++
		}
	}
	return deleted, nil
}

// CountGrants returns the number of grants held by a user.
func (s *MemoryGrantStore) CountGrants(_ context.Context, userID, contextID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, g := range s.grants {
		if g.UserID == userID && g.ContextID == contextID {
			count++
		}
	}
	return count, nil
}

// DeleteExpiredAuthorizationCodes removes codes expired before now.
func (s *MemoryGrantStore) DeleteExpiredAuthorizationCodes(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key, code := range s.codes {
		if code.ExpiresAt.Before(now) {
			delete(s.codes, key)
			deleted++
		}
	}
	return deleted, nil
}

// DeleteExpiredGrants removes grants whose refresh token expired before now.
func (s *MemoryGrantStore) DeleteExpiredGrants(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, g := range s.grants {
		if g.RefreshExpiresAt.Before(now) {
			s.removeLocked(g)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryGrantStore) removeLocked(g *model.Grant) {
	delete(s.grants, g.AccessToken)
	delete(s.byRefreshToken, g.RefreshToken)
}
