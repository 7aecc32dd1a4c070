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
	"context"
	"net/http"
	"time"

	"github.com/appsuite/oauthd/internal/system/log"
	"github.com/appsuite/oauthd/internal/system/utils"
)

const readinessTimeout = 5 * time.Second

// ReadinessCheck reports whether a dependency of the server can serve requests.
type ReadinessCheck func(ctx context.Context) error

// HealthCheckService defines the service for handling readiness and liveness checks.
type HealthCheckService struct {
	checks map[string]ReadinessCheck
}

// NewHealthCheckService creates a new instance of HealthCheckService.
func NewHealthCheckService(mux *http.ServeMux, checks map[string]ReadinessCheck) ServiceInterface {
	instance := &HealthCheckService{checks: checks}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the HealthCheckService.
func (h *HealthCheckService) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health/liveness", h.handleLiveness)
	mux.HandleFunc("GET /health/readiness", h.handleReadiness)
}

func (h *HealthCheckService) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "UP"}, nil)
}

func (h *HealthCheckService) handleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			log.GetLogger().Warn("Readiness check failed", log.String("component", name), log.Error(err))
			components[name] = "DOWN"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "UP"
	}

	overall := "UP"
	if status != http.StatusOK {
		overall = "DOWN"
	}
	utils.WriteJSON(w, status, map[string]any{"status": overall, "components": components}, nil)
}
