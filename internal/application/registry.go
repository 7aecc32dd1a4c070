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

// Package application provides the registry of OAuth clients allowed to request authorization.
package application

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/appsuite/oauthd/internal/application/model"
	"github.com/appsuite/oauthd/internal/oauth/scope"
	"github.com/appsuite/oauthd/internal/system/config"
	"github.com/appsuite/oauthd/internal/system/log"
)

// ErrClientNotFound is returned when no enabled client exists for an id.
var ErrClientNotFound = errors.New("client not found")

// ClientRegistryInterface defines the lookup of registered OAuth clients.
type ClientRegistryInterface interface {
	GetClientByID(clientID string) (*model.OAuthClient, error)
}

// ClientRegistry is an immutable, in-memory registry of OAuth clients.
type ClientRegistry struct {
	clients map[string]*model.OAuthClient
}

// NewClientRegistry builds a registry from the configured clients.
func NewClientRegistry(clientConfigs []config.ClientConfig) (ClientRegistryInterface, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ClientRegistry"))

	clients := make(map[string]*model.OAuthClient, len(clientConfigs))
	for _, cfg := range clientConfigs {
		if cfg.ID == "" {
			return nil, errors.New("client id must not be empty")
		}
		if _, exists := clients[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate client id: %s", cfg.ID)
		}
		if len(cfg.RedirectURIs) == 0 {
			return nil, fmt.Errorf("client %s has no registered redirect URIs", cfg.ID)
		}
		for _, uri := range cfg.RedirectURIs {
			parsed, err := url.Parse(uri)
			if err != nil || parsed.Scheme == "" || parsed.Fragment != "" {
				return nil, fmt.Errorf("client %s has an invalid redirect URI: %s", cfg.ID, uri)
			}
		}

		clients[cfg.ID] = &model.OAuthClient{
			ClientID:           cfg.ID,
			Name:               cfg.Name,
			Description:        cfg.Description,
			Contact:            cfg.Contact,
			HashedClientSecret: cfg.HashedClientSecret,
			Enabled:            cfg.Enabled,
			RedirectURIs:       append([]string(nil), cfg.RedirectURIs...),
			DefaultScope:       scope.Parse(cfg.DefaultScope),
		}
	}

	logger.Debug("Loaded OAuth clients", log.Int("count", len(clients)))
	return &ClientRegistry{clients: clients}, nil
}

// GetClientByID returns the enabled client registered under the id.
func (r *ClientRegistry) GetClientByID(clientID string) (*model.OAuthClient, error) {
	client, ok := r.clients[clientID]
	if !ok || !client.Enabled {
		return nil, ErrClientNotFound
	}
	return client, nil
}
