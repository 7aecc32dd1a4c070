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

package authz

import (
	"net/url"

	"github.com/appsuite/oauthd/internal/application"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/authz/model"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/constants"
	"github.com/appsuite/oauthd/internal/oauth/scope"
	"github.com/appsuite/oauthd/internal/system/log"
)

// AuthorizationValidatorInterface defines the validation of OAuth2 authorization requests.
type AuthorizationValidatorInterface interface {
	ValidateAuthorizationRequest(params url.Values) (*model.AuthorizationRequest, *model.ValidationError)
}

// AuthorizationValidator validates authorization requests against the client registry and the supported scopes.
type AuthorizationValidator struct {
	clientRegistry application.ClientRegistryInterface
	scopeValidator scope.ValidatorInterface
}

// NewAuthorizationValidator creates a new instance of AuthorizationValidator.
func NewAuthorizationValidator(clientRegistry application.ClientRegistryInterface,
	scopeValidator scope.ValidatorInterface) AuthorizationValidatorInterface {
	return &AuthorizationValidator{
		clientRegistry: clientRegistry,
		scopeValidator: scopeValidator,
	}
}

// ValidateAuthorizationRequest validates the request parameters in order and stops at the first defect.
// Errors found before the redirect URI is verified are not redirectable.
func (av *AuthorizationValidator) ValidateAuthorizationRequest(params url.Values) (
	*model.AuthorizationRequest, *model.ValidationError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationValidator"))

	clientID := params.Get(constants.ClientID)
	if clientID == "" {
		return nil, pageError(constants.ErrorInvalidRequest, constants.MissingParameter(constants.ClientID))
	}
	client, err := av.clientRegistry.GetClientByID(clientID)
	if err != nil {
		logger.Debug("Authorization request for unknown client", log.String(log.LoggerKeyClientID, clientID))
		return nil, pageError(constants.ErrorInvalidRequest, constants.InvalidParameter(constants.ClientID))
	}

	redirectURI := params.Get(constants.RedirectURI)
	if redirectURI == "" {
		return nil, pageError(constants.ErrorInvalidRequest, constants.MissingParameter(constants.RedirectURI))
	}
	if !client.HasRedirectURI(redirectURI) {
		logger.Debug("Redirect URI is not registered for the client",
			log.String(log.LoggerKeyClientID, clientID), log.String("redirectURI", redirectURI))
		return nil, pageError(constants.ErrorInvalidRequest, constants.InvalidParameter(constants.RedirectURI))
	}

	request := &model.AuthorizationRequest{
		Client:       client,
		RedirectURI:  redirectURI,
		State:        params.Get(constants.State),
		ResponseType: params.Get(constants.ResponseType),
	}

	if request.State == "" {
		return request, redirectError(constants.ErrorInvalidRequest, constants.MissingParameter(constants.State))
	}
	if request.ResponseType == "" {
		return request, redirectError(constants.ErrorInvalidRequest,
			constants.MissingParameter(constants.ResponseType))
	}
	if request.ResponseType != constants.ResponseTypeCode {
		return request, redirectError(constants.ErrorUnsupportedResponseType,
			constants.InvalidParameter(constants.ResponseType))
	}

	sc, ok := av.scopeValidator.ValidateScope(params.Get(constants.Scope), client.DefaultScope)
	if !ok || sc.IsEmpty() {
		return request, redirectError(constants.ErrorInvalidScope, constants.InvalidParameter(constants.Scope))
	}
	request.Scope = sc

	return request, nil
}

func pageError(code, description string) *model.ValidationError {
	return &model.ValidationError{Code: code, Description: description}
}

func redirectError(code, description string) *model.ValidationError {
	return &model.ValidationError{Code: code, Description: description, Redirectable: true}
}
