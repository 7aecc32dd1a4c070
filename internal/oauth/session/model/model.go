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

// Package model defines the login session data shared between the authorization endpoint requests.
package model

import "time"

// LoginSession represents an authenticated user between the login and the consent step.
type LoginSession struct {
	ID        string    `json:"id"`
	Secret    string    `json:"secret"`
	UserID    int       `json:"user_id"`
	ContextID int       `json:"context_id"`
	Login     string    `json:"login"`
	ClientIP  string    `json:"client_ip"`
	Guest     bool      `json:"guest"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is no longer valid at the given time.
func (s LoginSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
