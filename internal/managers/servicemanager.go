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

// Package managers wires the OAuth components into the HTTP services of the server.
package managers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/appsuite/oauthd/internal/application"
	"github.com/appsuite/oauthd/internal/notification"
	"github.com/appsuite/oauthd/internal/oauth/grant"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/authz"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/granthandlers"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/revoke"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/token"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/tokenvalidation"
	"github.com/appsuite/oauthd/internal/oauth/scope"
	sessionstore "github.com/appsuite/oauthd/internal/oauth/session/store"
	"github.com/appsuite/oauthd/internal/services"
	"github.com/appsuite/oauthd/internal/system/config"
	"github.com/appsuite/oauthd/internal/system/metrics"
	"github.com/appsuite/oauthd/internal/system/utils"
	"github.com/appsuite/oauthd/internal/user"
)

// ServiceManagerInterface registers the services of the server.
type ServiceManagerInterface interface {
	RegisterServices() error
}

// Components holds the long lived components the services are built from.
type Components struct {
	ClientRegistry application.ClientRegistryInterface
	GrantManager   grant.GrantManagerInterface
	UserService    user.UserServiceInterface
	SessionStore   sessionstore.SessionStoreInterface
	Notifier       notification.NotifierInterface
	Metrics        *metrics.OAuthMetrics
}

// ServiceManager registers the OAuth services on a multiplexer.
type ServiceManager struct {
	mux        *http.ServeMux
	config     *config.Config
	components Components
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux, cfg *config.Config, components Components) ServiceManagerInterface {
	return &ServiceManager{
		mux:        mux,
		config:     cfg,
		components: components,
	}
}

// RegisterServices builds the endpoint handlers and registers their routes.
func (sm *ServiceManager) RegisterServices() error {
	c := sm.components
	if c.ClientRegistry == nil || c.GrantManager == nil || c.UserService == nil || c.SessionStore == nil {
		return errors.New("client registry, grant manager, user service and session store are required")
	}
	notifier := c.Notifier
	if notifier == nil {
		notifier = notification.NewNotifier(config.NotificationConfig{})
	}

	oauthConfig := sm.config.OAuth
	sessionValidity := time.Duration(sm.config.Session.ValidityPeriod) * time.Second

	trustedProxies, err := utils.ParseTrustedProxies(sm.config.Server.TrustedProxies)
	if err != nil {
		return err
	}

	validator := authz.NewAuthorizationValidator(c.ClientRegistry, scope.NewValidator(oauthConfig.SupportedScopes))
	authHandler := authz.NewAuthorizeHandler(validator, c.GrantManager, c.UserService, c.SessionStore,
		notifier, oauthConfig, sessionValidity, trustedProxies)
	services.NewAuthorizationService(sm.mux, authHandler, c.Metrics)

	tokenHandler := token.NewTokenHandler(c.ClientRegistry, granthandlers.NewGrantHandlerProvider(c.GrantManager))
	services.NewTokenService(sm.mux, tokenHandler, c.Metrics)

	services.NewRevokeService(sm.mux, revoke.NewRevokeHandler(c.GrantManager), c.Metrics)

	validationHandler := tokenvalidation.NewTokenValidationHandler(
		tokenvalidation.NewTokenValidator(c.GrantManager), c.UserService)
	services.NewTokenValidationService(sm.mux, validationHandler, c.Metrics)

	services.NewHealthCheckService(sm.mux, map[string]services.ReadinessCheck{
		"grant_store": func(ctx context.Context) error {
			_, err := c.GrantManager.CountGrants(ctx, 0, 0)
			return err
		},
	})

	if sm.config.Metrics.Enabled {
		services.NewMetricsService(sm.mux, sm.config.Metrics.Path)
	}

	return nil
}
