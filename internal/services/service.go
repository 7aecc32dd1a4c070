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

// Package services registers the HTTP routes of the server.
package services

import (
	"net/http"

	"github.com/appsuite/oauthd/internal/system/metrics"
)

// ServiceInterface defines the service that will handle the routes.
type ServiceInterface interface {
	RegisterRoutes(mux *http.ServeMux)
}

// handle registers the handler for the pattern, observed under the given endpoint label.
func handle(mux *http.ServeMux, pattern, endpoint string, oauthMetrics *metrics.OAuthMetrics,
	handlerFunc http.HandlerFunc) {
	mux.Handle(pattern, oauthMetrics.InstrumentHandler(endpoint, handlerFunc))
}
