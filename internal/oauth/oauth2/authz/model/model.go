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

// Package model defines the data structures of the authorization endpoint.
package model

import (
	appmodel "github.com/appsuite/oauthd/internal/application/model"
	"github.com/appsuite/oauthd/internal/oauth/scope"
)

// AuthorizationRequest is a validated authorization request. It lives for a single HTTP request.
type AuthorizationRequest struct {
	Client       *appmodel.OAuthClient
	RedirectURI  string
	State        string
	Scope        scope.Scope
	ResponseType string
}

// QueryParams returns the request parameters needed to rebuild the authorization URL.
func (r *AuthorizationRequest) QueryParams() map[string]string {
	return map[string]string{
		"client_id":     r.Client.ClientID,
		"redirect_uri":  r.RedirectURI,
		"state":         r.State,
		"response_type": r.ResponseType,
		"scope":         r.Scope.String(),
	}
}

// ValidationError describes a rejected authorization request.
// Redirectable is set once the redirect URI has been verified against the client.
type ValidationError struct {
	Code         string
	Description  string
	Redirectable bool
}
