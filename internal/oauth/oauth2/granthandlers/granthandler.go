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

// Package granthandlers provides an interface and implementations for handling OAuth 2.0 grant types.
package granthandlers

import (
	"context"
	"errors"
	"time"

	appmodel "github.com/appsuite/oauthd/internal/application/model"
	"github.com/appsuite/oauthd/internal/oauth/grant"
	grantmodel "github.com/appsuite/oauthd/internal/oauth/grant/model"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/constants"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/model"
)

// ErrUnsupportedGrantType is returned for grant types without a handler.
var ErrUnsupportedGrantType = errors.New("unsupported grant type")

// GrantHandlerInterface defines the interface for handling OAuth 2.0 grants.
type GrantHandlerInterface interface {
	ValidateGrant(tokenRequest *model.TokenRequest, client *appmodel.OAuthClient) *model.ErrorResponse
	HandleGrant(ctx context.Context, tokenRequest *model.TokenRequest,
		client *appmodel.OAuthClient) (*model.TokenResponse, *model.ErrorResponse)
}

// GrantHandlerProviderInterface resolves the handler of a grant type.
type GrantHandlerProviderInterface interface {
	GetGrantHandler(grantType string) (GrantHandlerInterface, error)
}

// GrantHandlerProvider provides the handlers of the supported grant types.
type GrantHandlerProvider struct {
	handlers map[string]GrantHandlerInterface
}

// NewGrantHandlerProvider creates the handlers of the supported grant types on top of the grant manager.
func NewGrantHandlerProvider(grantManager grant.GrantManagerInterface) GrantHandlerProviderInterface {
	return &GrantHandlerProvider{
		handlers: map[string]GrantHandlerInterface{
			constants.GrantTypeAuthorizationCode: newAuthorizationCodeGrantHandler(grantManager),
			constants.GrantTypeRefreshToken:      newRefreshTokenGrantHandler(grantManager),
		},
	}
}

// GetGrantHandler returns the handler of the grant type.
func (p *GrantHandlerProvider) GetGrantHandler(grantType string) (GrantHandlerInterface, error) {
	handler, ok := p.handlers[grantType]
	if !ok {
		return nil, ErrUnsupportedGrantType
	}
	return handler, nil
}

func buildTokenResponse(g *grantmodel.Grant, now time.Time) *model.TokenResponse {
	return &model.TokenResponse{
		AccessToken:  g.AccessToken,
		RefreshToken: g.RefreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    g.ExpiresIn(now),
		Scope:        g.Scope.String(),
	}
}

func invalidParameter(name string) *model.ErrorResponse {
	return &model.ErrorResponse{
		Error:            constants.ErrorInvalidRequest,
		ErrorDescription: constants.InvalidParameter(name),
	}
}

func missingParameter(name string) *model.ErrorResponse {
	return &model.ErrorResponse{
		Error:            constants.ErrorInvalidRequest,
		ErrorDescription: constants.MissingParameter(name),
	}
}

var serverError = &model.ErrorResponse{Error: constants.ErrorServerError}
