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

// Package revoke implements the token revocation endpoint.
package revoke

import (
	"net/http"

	"github.com/appsuite/oauthd/internal/oauth/grant"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/constants"
	"github.com/appsuite/oauthd/internal/system/log"
	"github.com/appsuite/oauthd/internal/system/utils"
)

// RevokeHandlerInterface defines the token revocation endpoint.
type RevokeHandlerInterface interface {
	HandleRevokeRequest(w http.ResponseWriter, r *http.Request)
}

// RevokeHandler deletes the grant of an access or a refresh token.
type RevokeHandler struct {
	grantManager grant.GrantManagerInterface
}

// NewRevokeHandler creates a new instance of RevokeHandler.
func NewRevokeHandler(grantManager grant.GrantManagerInterface) RevokeHandlerInterface {
	return &RevokeHandler{grantManager: grantManager}
}

// HandleRevokeRequest revokes the grant identified by the access_token or the refresh_token parameter.
func (h *RevokeHandler) HandleRevokeRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		utils.WriteJSONError(w, constants.ErrorInvalidRequest, "", http.StatusMethodNotAllowed, nil)
		return
	}

	query := r.URL.Query()
	var (
		revoked   bool
		err       error
		parameter string
	)
	switch {
	case query.Get(constants.AccessToken) != "":
		parameter = constants.AccessToken
		revoked, err = h.grantManager.RevokeByAccessToken(r.Context(), query.Get(constants.AccessToken))
	case query.Get(constants.RefreshToken) != "":
		parameter = constants.RefreshToken
		revoked, err = h.grantManager.RevokeByRefreshToken(r.Context(), query.Get(constants.RefreshToken))
	default:
		utils.WriteJSONError(w, constants.ErrorInvalidRequest, constants.MissingParameter(constants.AccessToken),
			http.StatusBadRequest, nil)
		return
	}

	if err != nil {
		log.GetLogger().Error("Failed to revoke grant", log.String(log.LoggerKeyComponentName, "RevokeHandler"),
			log.Error(err))
		utils.WriteJSONError(w, constants.ErrorServerError, "", http.StatusInternalServerError, nil)
		return
	}
	if !revoked {
		utils.WriteJSONError(w, constants.ErrorInvalidRequest, constants.InvalidParameter(parameter),
			http.StatusBadRequest, nil)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
}
