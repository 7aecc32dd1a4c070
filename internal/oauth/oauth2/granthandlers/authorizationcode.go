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

package granthandlers

import (
	"context"
	"time"

	appmodel "github.com/appsuite/oauthd/internal/application/model"
	"github.com/appsuite/oauthd/internal/oauth/grant"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/constants"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/model"
	"github.com/appsuite/oauthd/internal/system/log"
)

// authorizationCodeGrantHandler handles the authorization code grant type.
type authorizationCodeGrantHandler struct {
	grantManager grant.GrantManagerInterface
	now          func() time.Time
}

func newAuthorizationCodeGrantHandler(grantManager grant.GrantManagerInterface) GrantHandlerInterface {
	return &authorizationCodeGrantHandler{grantManager: grantManager, now: time.Now}
}

// ValidateGrant validates the parameters of an authorization code grant request.
func (h *authorizationCodeGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	client *appmodel.OAuthClient) *model.ErrorResponse {
	if tokenRequest.Code == "" {
		return missingParameter(constants.Code)
	}
	if tokenRequest.RedirectURI == "" {
		return missingParameter(constants.RedirectURI)
	}
	if !client.HasRedirectURI(tokenRequest.RedirectURI) {
		return invalidParameter(constants.RedirectURI)
	}
	return nil
}

// HandleGrant redeems the authorization code.
func (h *authorizationCodeGrantHandler) HandleGrant(ctx context.Context, tokenRequest *model.TokenRequest,
	client *appmodel.OAuthClient) (*model.TokenResponse, *model.ErrorResponse) {
	issued, err := h.grantManager.RedeemAuthCode(ctx, client, tokenRequest.RedirectURI, tokenRequest.Code)
	if err != nil {
		log.GetLogger().Error("Failed to redeem authorization code",
			log.String(log.LoggerKeyComponentName, "AuthorizationCodeGrantHandler"),
			log.String(log.LoggerKeyClientID, client.ClientID), log.Error(err))
		return nil, serverError
	}
	if issued == nil {
		return nil, invalidParameter(constants.Code)
	}
	return buildTokenResponse(issued, h.now()), nil
}
