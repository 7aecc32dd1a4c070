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

// Package constants defines constants used across the OAuth2 module.
package constants

// OAuth2 request parameters.
const (
	GrantType        = "grant_type"
	ClientID         = "client_id"
	ClientSecret     = "client_secret"
	RedirectURI      = "redirect_uri"
	Scope            = "scope"
	Code             = "code"
	RefreshToken     = "refresh_token"
	AccessToken      = "access_token"
	ResponseType     = "response_type"
	State            = "state"
	Error            = "error"
	ErrorDescription = "error_description"
)

// Authorization page parameters.
const (
	Session      = "session"
	Login        = "login"
	Password     = "password"
	CSRFToken    = "csrf_token"
	AccessDenied = "access_denied"
	Language     = "language"
)

// OAuth2 endpoints.
const (
	OAuth2AuthorizationEndpoint      = "/oauth/authorization"
	OAuth2TokenEndpoint              = "/oauth/token" // #nosec G101
	OAuth2RevokeEndpoint             = "/oauth/revoke"
	OAuth2TokenInfoEndpoint          = "/oauth/tokeninfo"
	OAuth2TokenIntrospectionEndpoint = "/oauth/tokenintrospection"
)

// OAuth2 grant types.
const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeRefreshToken      = "refresh_token"
)

// OAuth2 response types.
const (
	ResponseTypeCode = "code"
)

// OAuth2 token types.
const (
	TokenTypeBearer = "Bearer"
)

// OAuth2 error codes.
const (
	ErrorInvalidRequest          = "invalid_request"
	ErrorInvalidClient           = "invalid_client"
	ErrorInvalidGrant            = "invalid_grant"
	ErrorUnauthorizedClient      = "unauthorized_client"
	ErrorUnsupportedGrantType    = "unsupported_grant_type"
	ErrorInvalidScope            = "invalid_scope"
	ErrorServerError             = "server_error"
	ErrorTemporarilyUnavailable  = "temporarily_unavailable"
	ErrorUnsupportedResponseType = "unsupported_response_type"
	ErrorAccessDenied            = "access_denied"
	ErrorInvalidToken            = "invalid_token"
	ErrorExpiredToken            = "expired_token"
	ErrorInvalidClientID         = "invalid_client_id"
)

// Login error codes rendered on the login page.
const (
	LoginErrorInvalidCredentials = "invalid_credentials"
	LoginErrorUpdateTask         = "update_task"
	LoginErrorGrantsExceeded     = "grants_exceeded"
)

// Error descriptions.
const (
	MissingParameterDescriptionPrefix = "missing required parameter: "
	InvalidParameterDescriptionPrefix = "invalid parameter value: "
)

// Cookie names.
const (
	SessionSecretCookiePrefix = "open-xchange-oauth-secret-"
	CSRFSessionCookieName     = "open-xchange-oauth-csrf"
)

// MissingParameter returns the description used for an absent request parameter.
func MissingParameter(name string) string {
	return MissingParameterDescriptionPrefix + name
}

// InvalidParameter returns the description used for a rejected request parameter.
func InvalidParameter(name string) string {
	return InvalidParameterDescriptionPrefix + name
}
