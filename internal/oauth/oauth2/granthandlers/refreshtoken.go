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

// refreshTokenGrantHandler handles the refresh token grant type.
type refreshTokenGrantHandler struct {
	grantManager grant.GrantManagerInterface
	now          func() time.Time
}

func newRefreshTokenGrantHandler(grantManager grant.GrantManagerInterface) GrantHandlerInterface {
	return &refreshTokenGrantHandler{grantManager: grantManager, now: time.Now}
}

// ValidateGrant validates the parameters of a refresh token grant request.
func (h *refreshTokenGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	_ *appmodel.OAuthClient) *model.ErrorResponse {
	if tokenRequest.RefreshToken == "" {
		return missingParameter(constants.RefreshToken)
	}
	return nil
}

// HandleGrant issues a new access token for the refresh token.
func (h *refreshTokenGrantHandler) HandleGrant(ctx context.Context, tokenRequest *model.TokenRequest,
	client *appmodel.OAuthClient) (*model.TokenResponse, *model.ErrorResponse) {
	renewed, err := h.grantManager.RedeemRefreshToken(ctx, client, tokenRequest.RefreshToken)
	if err != nil {
		log.GetLogger().Error("Failed to redeem refresh token",
			log.String(log.LoggerKeyComponentName, "RefreshTokenGrantHandler"),
			log.String(log.LoggerKeyClientID, client.ClientID), log.Error(err))
		return nil, serverError
	}
	if renewed == nil {
		return nil, invalidParameter(constants.RefreshToken)
	}
	return buildTokenResponse(renewed, h.now()), nil
}
