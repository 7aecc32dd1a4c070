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

package services

import (
	"net/http"

	"github.com/appsuite/oauthd/internal/oauth/oauth2/authz"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/constants"
	"github.com/appsuite/oauthd/internal/system/metrics"
)

// AuthorizationService serves the interactive login and consent flow.
type AuthorizationService struct {
	authHandler authz.AuthorizeHandlerInterface
	metrics     *metrics.OAuthMetrics
}

// NewAuthorizationService creates a new instance of AuthorizationService.
func NewAuthorizationService(mux *http.ServeMux, authHandler authz.AuthorizeHandlerInterface,
	oauthMetrics *metrics.OAuthMetrics) ServiceInterface {
	instance := &AuthorizationService{
		authHandler: authHandler,
		metrics:     oauthMetrics,
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the AuthorizationService.
// The handler answers unsupported methods itself so that it can advertise GET and POST.
func (s *AuthorizationService) RegisterRoutes(mux *http.ServeMux) {
	handle(mux, constants.OAuth2AuthorizationEndpoint, "authorization", s.metrics,
		s.authHandler.HandleAuthorizeRequest)
}
