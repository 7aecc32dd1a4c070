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

	"github.com/appsuite/oauthd/internal/oauth/oauth2/constants"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/tokenvalidation"
	"github.com/appsuite/oauthd/internal/system/metrics"
)

// TokenValidationService serves token info and token introspection for resource servers.
type TokenValidationService struct {
	validationHandler *tokenvalidation.TokenValidationHandler
	metrics           *metrics.OAuthMetrics
}

// NewTokenValidationService creates a new instance of TokenValidationService.
func NewTokenValidationService(mux *http.ServeMux, validationHandler *tokenvalidation.TokenValidationHandler,
	oauthMetrics *metrics.OAuthMetrics) ServiceInterface {
	instance := &TokenValidationService{
		validationHandler: validationHandler,
		metrics:           oauthMetrics,
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the TokenValidationService.
func (s *TokenValidationService) RegisterRoutes(mux *http.ServeMux) {
	handle(mux, constants.OAuth2TokenInfoEndpoint, "tokeninfo", s.metrics,
		s.validationHandler.HandleTokenInfoRequest)
	handle(mux, constants.OAuth2TokenIntrospectionEndpoint, "tokenintrospection", s.metrics,
		s.validationHandler.HandleIntrospectionRequest)
}
