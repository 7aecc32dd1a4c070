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

// Package token implements the OAuth2 token endpoint.
package token

import (
	"net/http"
	"net/url"

	"github.com/appsuite/oauthd/internal/application"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/constants"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/granthandlers"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/model"
	serverconst "github.com/appsuite/oauthd/internal/system/constants"
	"github.com/appsuite/oauthd/internal/system/log"
	"github.com/appsuite/oauthd/internal/system/utils"
)

// TokenHandlerInterface defines the OAuth2 token endpoint.
type TokenHandlerInterface interface {
	HandleTokenRequest(w http.ResponseWriter, r *http.Request)
}

// TokenHandler authenticates clients and delegates to the handler of the requested grant type.
type TokenHandler struct {
	clientRegistry       application.ClientRegistryInterface
	grantHandlerProvider granthandlers.GrantHandlerProviderInterface
}

// NewTokenHandler creates a new instance of TokenHandler.
func NewTokenHandler(clientRegistry application.ClientRegistryInterface,
	grantHandlerProvider granthandlers.GrantHandlerProviderInterface) TokenHandlerInterface {
	return &TokenHandler{
		clientRegistry:       clientRegistry,
		grantHandlerProvider: grantHandlerProvider,
	}
}

// HandleTokenRequest handles the token request for OAuth 2.0.
func (th *TokenHandler) HandleTokenRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "TokenHandler"))

	if err := r.ParseForm(); err != nil {
		utils.WriteJSONError(w, constants.ErrorInvalidRequest, "Failed to parse request body",
			http.StatusBadRequest, nil)
		return
	}

	grantType := r.FormValue(constants.GrantType)
	if grantType == "" {
		utils.WriteJSONError(w, constants.ErrorInvalidRequest, constants.MissingParameter(constants.GrantType),
			http.StatusBadRequest, nil)
		return
	}
	grantHandler, err := th.grantHandlerProvider.GetGrantHandler(grantType)
	if err != nil {
		utils.WriteJSONError(w, constants.ErrorUnsupportedGrantType, constants.InvalidParameter(constants.GrantType),
			http.StatusBadRequest, nil)
		return
	}

	clientID, clientSecret, ok := extractClientCredentials(w, r)
	if !ok {
		return
	}
	if clientID == "" {
		utils.WriteJSONError(w, constants.ErrorInvalidRequest, constants.MissingParameter(constants.ClientID),
			http.StatusBadRequest, nil)
		return
	}
	if clientSecret == "" {
		utils.WriteJSONError(w, constants.ErrorInvalidRequest, constants.MissingParameter(constants.ClientSecret),
			http.StatusBadRequest, nil)
		return
	}

	client, err := th.clientRegistry.GetClientByID(clientID)
	if err != nil {
		utils.WriteJSONError(w, constants.ErrorInvalidRequest, constants.InvalidParameter(constants.ClientID),
			http.StatusBadRequest, nil)
		return
	}
	if !client.VerifySecret(clientSecret) {
		logger.Debug("Client authentication failed", log.String(log.LoggerKeyClientID, clientID))
		utils.WriteJSONError(w, constants.ErrorUnauthorizedClient, constants.InvalidParameter(constants.ClientSecret),
			http.StatusUnauthorized, nil)
		return
	}

	tokenRequest := &model.TokenRequest{
		GrantType:    grantType,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: r.FormValue(constants.RefreshToken),
		Code:         r.FormValue(constants.Code),
		RedirectURI:  r.FormValue(constants.RedirectURI),
	}

	if errResp := grantHandler.ValidateGrant(tokenRequest, client); errResp != nil {
		utils.WriteJSONError(w, errResp.Error, errResp.ErrorDescription, http.StatusBadRequest, nil)
		return
	}

	tokenResponse, errResp := grantHandler.HandleGrant(r.Context(), tokenRequest, client)
	if errResp != nil {
		status := http.StatusBadRequest
		if errResp.Error == constants.ErrorServerError {
			status = http.StatusInternalServerError
		}
		utils.WriteJSONError(w, errResp.Error, errResp.ErrorDescription, status, nil)
		return
	}

	logger.Debug("Token issued", log.String(log.LoggerKeyClientID, clientID), log.String("grantType", grantType))
	utils.WriteJSON(w, http.StatusOK, tokenResponse, []map[string]string{
		{"Cache-Control": "no-store"},
		{"Pragma": "no-cache"},
	})
}

// extractClientCredentials reads the client credentials from the Basic authorization header or the form.
// It writes the error response and returns false when the credentials are malformed.
func extractClientCredentials(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	clientID := ""
	clientSecret := ""
	if r.Header.Get(serverconst.AuthorizationHeaderName) != "" {
		var err error
		clientID, clientSecret, err = utils.ExtractBasicAuthCredentials(r)
		if err != nil {
			utils.WriteJSONError(w, constants.ErrorInvalidClient, "Invalid client credentials",
				http.StatusUnauthorized, []map[string]string{{"WWW-Authenticate": "Basic"}})
			return "", "", false
		}
		clientID = formDecode(clientID)
		clientSecret = formDecode(clientSecret)
	}

	clientIDFromBody := r.PostFormValue(constants.ClientID)
	clientSecretFromBody := r.PostFormValue(constants.ClientSecret)
	if clientIDFromBody != "" || clientSecretFromBody != "" {
		if clientID != "" || clientSecret != "" {
			utils.WriteJSONError(w, constants.ErrorInvalidRequest,
				"Client credentials are provided in both header and body", http.StatusBadRequest, nil)
			return "", "", false
		}
		clientID = clientIDFromBody
		clientSecret = clientSecretFromBody
	}

	return clientID, clientSecret, true
}

// formDecode undoes the form encoding clients apply to Basic credentials.
func formDecode(value string) string {
	if decoded, err := url.QueryUnescape(value); err == nil {
		return decoded
	}
	return value
}
