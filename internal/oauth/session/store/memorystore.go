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

	"github.com/appsuite/oauthd/internal/oauth/session/model"
)

type csrfEntry struct {
	token      string
	expiryTime time.Time
}

// MemorySessionStore keeps login sessions and CSRF tokens in process memory.
type MemorySessionStore struct {
	sessions       map[string]model.LoginSession
	csrfTokens     map[string]csrfEntry
	validityPeriod time.Duration
	now            func() time.Time
	mu             sync.RWMutex
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore(validityPeriod time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions:       make(map[string]model.LoginSession),
		csrfTokens:     make(map[string]csrfEntry),
		validityPeriod: validityPeriod,
		now:            time.Now,
	}
}

// SaveSession adds or replaces a login session.
func (s *MemorySessionStore) SaveSession(_ context.Context, session model.LoginSession) error {
	if session.ID == "" {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// GetSession retrieves a login session. Expired sessions are removed on access.
func (s *MemorySessionStore) GetSession(_ context.Context, sessionID string) (*model.LoginSession, error) {
	s.mu.RLock()
	session, exists := s.sessions[sessionID]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// DeleteSession removes a login session.
func (s *MemorySessionStore) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// SaveCSRFToken binds a CSRF token to the key for the validity period of the store.
func (s *MemorySessionStore) SaveCSRFToken(_ context.Context, key, token string) error {
	if key == "" {
		return ErrCSRFTokenNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.csrfTokens[key] = csrfEntry{token: token, expiryTime: s.now().Add(s.validityPeriod)}
	return nil
}

// GetCSRFToken returns the CSRF token bound to the key.
func (s *MemorySessionStore) GetCSRFToken(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	entry, exists := s.csrfTokens[key]
	s.mu.RUnlock()

	if !exists {
		return "", ErrCSRFTokenNotFound
	}
	if !s.now().Before(entry.expiryTime) {
		s.mu.Lock()
		delete(s.csrfTokens, key)
		s.mu.Unlock()
		return "", ErrCSRFTokenNotFound
	}
	return entry.token, nil
}

// SweepExpired removes all expired sessions and CSRF tokens.
func (s *MemorySessionStore) SweepExpired(_ context.Context) (int, error) {
	now := s.now()
	removed := 0

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	for key, entry := range s.csrfTokens {
		if !now.Before(entry.expiryTime) {
			delete(s.csrfTokens, key)
			removed++
		}
	}
	return removed, nil
}

// size returns the number of sessions and CSRF tokens held.
func (s *MemorySessionStore) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions) + len(s.csrfTokens)
}
