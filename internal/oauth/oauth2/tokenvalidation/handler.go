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

package tokenvalidation

import (
	"net/http"
	"time"

	"github.com/appsuite/oauthd/internal/oauth/grant/model"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/constants"
	"github.com/appsuite/oauthd/internal/system/log"
	"github.com/appsuite/oauthd/internal/system/utils"
	"github.com/appsuite/oauthd/internal/user"
)

// TokenInfoResponse is the body of a successful token info request.
type TokenInfoResponse struct {
	Audience  string `json:"audience"`
	ContextID int    `json:"context_id"`
	UserID    int    `json:"user_id"`
	ExpiresIn int64  `json:"expires_in"`
	Scope     string `json:"scope"`
}

// IntrospectionResponse is the body of a successful token introspection request.
type IntrospectionResponse struct {
	Active    bool   `json:"active"`
	ClientID  string `json:"client_id"`
	UserID    int    `json:"user_id"`
	ContextID int    `json:"context_id"`
	Username  string `json:"username"`
	Mail      string `json:"mail"`
	ExpiresIn int64  `json:"expires_in"`
	Scope     string `json:"scope"`
}

// validationRequest holds the parameters of a validation request once they are present.
type validationRequest struct {
	r      *http.Request
	params map[string]string
	result *ValidationResult
}

// respondFunc writes the endpoint specific response of a validated request.
type respondFunc func(w http.ResponseWriter, req *validationRequest)

// TokenValidationHandler serves the endpoints that validate access tokens for resource servers.
type TokenValidationHandler struct {
	validator   TokenValidatorInterface
	userService user.UserServiceInterface
	now         func() time.Time
}

// NewTokenValidationHandler creates a new instance of TokenValidationHandler.
func NewTokenValidationHandler(validator TokenValidatorInterface,
	userService user.UserServiceInterface) *TokenValidationHandler {
	return &TokenValidationHandler{validator: validator, userService: userService, now: time.Now}
}

// HandleTokenInfoRequest reports the grant behind a valid access token.
func (h *TokenValidationHandler) HandleTokenInfoRequest(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, []string{constants.AccessToken}, h.respondTokenInfo)
}

// HandleIntrospectionRequest reports the mailbox identity behind a valid access token of the given client.
func (h *TokenValidationHandler) HandleIntrospectionRequest(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, []string{constants.AccessToken, constants.ClientID}, h.respondIntrospection)
}

func (h *TokenValidationHandler) handle(w http.ResponseWriter, r *http.Request, required []string,
	respond respondFunc) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		utils.WriteJSONError(w, constants.ErrorInvalidRequest, "", http.StatusMethodNotAllowed, nil)
		return
	}

	query := r.URL.Query()
	params := make(map[string]string, len(required))
	for _, name := range required {
		value := query.Get(name)
		if value == "" {
			utils.WriteJSONError(w, constants.ErrorInvalidRequest, constants.MissingParameter(name),
				http.StatusBadRequest, nil)
			return
		}
		params[name] = value
	}

	result, err := h.validator.ValidateAccessToken(r.Context(), params[constants.AccessToken])
	if err != nil {
		log.GetLogger().Error("Failed to validate access token",
			log.String(log.LoggerKeyComponentName, "TokenValidationHandler"), log.Error(err))
		result = &ValidationResult{Status: TokenStatusMalformed}
	}

	respond(w, &validationRequest{r: r, params: params, result: result})
}

func (h *TokenValidationHandler) respondTokenInfo(w http.ResponseWriter, req *validationRequest) {
	if req.result.Status != TokenStatusValid {
		writeTokenError(w, constants.ErrorInvalidToken)
		return
	}

	g := req.result.Grant
	writeTokenResponse(w, TokenInfoResponse{
		Audience:  g.ClientID,
		ContextID: g.ContextID,
		UserID:    g.UserID,
		ExpiresIn: g.ExpiresIn(h.now()),
		Scope:     g.Scope.String(),
	})
}

func (h *TokenValidationHandler) respondIntrospection(w http.ResponseWriter, req *validationRequest) {
	switch req.result.Status {
	case TokenStatusValid:
	case TokenStatusExpired:
		writeTokenError(w, constants.ErrorExpiredToken)
		return
	default:
		writeTokenError(w, constants.ErrorInvalidToken)
		return
	}

	g := req.result.Grant
	if g.ClientID != req.params[constants.ClientID] {
		writeTokenError(w, constants.ErrorInvalidClientID)
		return
	}

	usr, svcErr := h.userService.GetUser(req.r.Context(), g.UserID, g.ContextID)
	if svcErr != nil {
		log.GetLogger().Warn("Valid access token of an unknown user",
			log.String(log.LoggerKeyComponentName, "TokenValidationHandler"),
			log.Int("userID", g.UserID), log.Int("contextID", g.ContextID))
		writeTokenError(w, constants.ErrorInvalidToken)
		return
	}

	writeTokenResponse(w, introspectionResponse(g, usr, h.now()))
}

func introspectionResponse(g *model.Grant, usr *user.User, now time.Time) IntrospectionResponse {
	return IntrospectionResponse{
		Active:    true,
		ClientID:  g.ClientID,
		UserID:    g.UserID,
		ContextID: g.ContextID,
		Username:  usr.Login,
		Mail:      usr.Mail,
		ExpiresIn: g.ExpiresIn(now),
		Scope:     g.Scope.String(),
	}
}

func writeTokenError(w http.ResponseWriter, code string) {
	utils.WriteJSONError(w, code, "", http.StatusBadRequest, []map[string]string{{"Cache-Control": "no-store"}})
}

func writeTokenResponse(w http.ResponseWriter, body any) {
	utils.WriteJSON(w, http.StatusOK, body, []map[string]string{{"Cache-Control": "no-store"}})
}
