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

// Package model defines the data structures of registered OAuth clients.
package model

import (
	"github.com/appsuite/oauthd/internal/oauth/scope"
	"github.com/appsuite/oauthd/internal/system/crypto/hash"
)

// OAuthClient represents a registered OAuth client application.
type OAuthClient struct {
	ClientID           string
	Name               string
	Description        string
	Contact            string
	HashedClientSecret string
	Enabled            bool
	RedirectURIs       []string
	DefaultScope       scope.Scope
}

// HasRedirectURI reports whether the redirect URI is registered for the client. Only exact matches count.
func (c *OAuthClient) HasRedirectURI(redirectURI string) bool {
	if redirectURI == "" {
		return false
	}
	for _, registered := range c.RedirectURIs {
		if redirectURI == registered {
			return true
		}
	}
	return false
}

// VerifySecret reports whether the given secret matches the stored secret hash.
func (c *OAuthClient) VerifySecret(secret string) bool {
	if secret == "" {
		return false
	}
	return hash.VerifyHashedString(secret, c.HashedClientSecret)
}
