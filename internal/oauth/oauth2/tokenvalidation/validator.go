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

// Package tokenvalidation implements the token info and token introspection endpoints.
package tokenvalidation

import (
	"context"
	"regexp"
	"time"

	"github.com/appsuite/oauthd/internal/oauth/grant"
	"github.com/appsuite/oauthd/internal/oauth/grant/model"
)

// TokenStatus is the outcome of an access token validation.
type TokenStatus string

// Token statuses.
const (
	TokenStatusMalformed TokenStatus = "MALFORMED"
	TokenStatusUnknown   TokenStatus = "UNKNOWN"
	TokenStatusExpired   TokenStatus = "EXPIRED"
	TokenStatusValid     TokenStatus = "VALID"
)

var accessTokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidationResult carries the status of an access token and, when known, its grant.
type ValidationResult struct {
	Status TokenStatus
	Grant  *model.Grant
}

// TokenValidatorInterface validates access tokens.
type TokenValidatorInterface interface {
	ValidateAccessToken(ctx context.Context, accessToken string) (*ValidationResult, error)
}

// TokenValidator validates access tokens against the grant manager.
type TokenValidator struct {
	grantManager grant.GrantManagerInterface
	now          func() time.Time
}

// NewTokenValidator creates a new instance of TokenValidator.
func NewTokenValidator(grantManager grant.GrantManagerInterface) TokenValidatorInterface {
	return &TokenValidator{grantManager: grantManager, now: time.Now}
}

// ValidateAccessToken resolves the status of the access token.
func (v *TokenValidator) ValidateAccessToken(ctx context.Context, accessToken string) (*ValidationResult, error) {
	if !accessTokenPattern.MatchString(accessToken) {
		return &ValidationResult{Status: TokenStatusMalformed}, nil
	}

	g, err := v.grantManager.GetGrantByAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return &ValidationResult{Status: TokenStatusUnknown}, nil
	}
	if g.IsExpired(v.now()) {
		return &ValidationResult{Status: TokenStatusExpired, Grant: g}, nil
	}
	return &ValidationResult{Status: TokenStatusValid, Grant: g}, nil
}
