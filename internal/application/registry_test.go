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

package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/appsuite/oauthd/internal/system/config"
	"github.com/appsuite/oauthd/internal/system/crypto/hash"
)

type ClientRegistryTestSuite struct {
	suite.Suite
	registry ClientRegistryInterface
}

func TestClientRegistrySuite(t *testing.T) {
	suite.Run(t, new(ClientRegistryTestSuite))
}

func (suite *ClientRegistryTestSuite) SetupTest() {
	registry, err := NewClientRegistry([]config.ClientConfig{
		{
			ID:                 "mail-app",
			Name:               "Mail App",
			HashedClientSecret: hash.HashString("s3cret"),
			Enabled:            true,
			RedirectURIs:       []string{"https://mail.example.com/cb", "https://mail.example.com/cb2"},
			DefaultScope:       "read_mail read_contacts",
		},
		{
			ID:           "disabled-app",
			Enabled:      false,
			RedirectURIs: []string{"https://disabled.example.com/cb"},
		},
	})
	suite.Require().NoError(err)
	suite.registry = registry
}

func (suite *ClientRegistryTestSuite) TestGetClientByID() {
	client, err := suite.registry.GetClientByID("mail-app")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Mail App", client.Name)
	assert.Equal(suite.T(), "read_contacts read_mail", client.DefaultScope.String())
}

func (suite *ClientRegistryTestSuite) TestGetClientByIDUnknown() {
	client, err := suite.registry.GetClientByID("unknown")

	assert.ErrorIs(suite.T(), err, ErrClientNotFound)
	assert.Nil(suite.T(), client)
}

func (suite *ClientRegistryTestSuite) TestGetClientByIDDisabled() {
	client, err := suite.registry.GetClientByID("disabled-app")

	assert.ErrorIs(suite.T(), err, ErrClientNotFound)
	assert.Nil(suite.T(), client)
}

func (suite *ClientRegistryTestSuite) TestHasRedirectURIExactMatchOnly() {
	client, err := suite.registry.GetClientByID("mail-app")
	suite.Require().NoError(err)

	assert.True(suite.T(), client.HasRedirectURI("https://mail.example.com/cb"))
	assert.True(suite.T(), client.HasRedirectURI("https://mail.example.com/cb2"))
	assert.False(suite.T(), client.HasRedirectURI("https://mail.example.com/cb/"))
	assert.False(suite.T(), client.HasRedirectURI("https://mail.example.com/cb?x=1"))
	assert.False(suite.T(), client.HasRedirectURI("https://mail.example.com"))
	assert.False(suite.T(), client.HasRedirectURI("HTTPS://mail.example.com/cb"))
	assert.False(suite.T(), client.HasRedirectURI(""))
}

func (suite *ClientRegistryTestSuite) TestVerifySecret() {
	client, err := suite.registry.GetClientByID("mail-app")
	suite.Require().NoError(err)

	assert.True(suite.T(), client.VerifySecret("s3cret"))
	assert.False(suite.T(), client.VerifySecret("S3cret"))
	assert.False(suite.T(), client.VerifySecret(""))
}

func (suite *ClientRegistryTestSuite) TestNewClientRegistryRejectsInvalidClients() {
	testCases := []struct {
		name    string
		clients []config.ClientConfig
	}{
		{
			name:    "EmptyID",
			clients: []config.ClientConfig{{RedirectURIs: []string{"https://a.example.com/cb"}}},
		},
		{
			name: "DuplicateID",
			clients: []config.ClientConfig{
				{ID: "a", RedirectURIs: []string{"https://a.example.com/cb"}},
				{ID: "a", RedirectURIs: []string{"https://a.example.com/cb"}},
			},
		},
		{
			name:    "NoRedirectURIs",
			clients: []config.ClientConfig{{ID: "a"}},
		},
		{
			name:    "RelativeRedirectURI",
			clients: []config.ClientConfig{{ID: "a", RedirectURIs: []string{"/cb"}}},
		},
		{
			name:    "FragmentRedirectURI",
			clients: []config.ClientConfig{{ID: "a", RedirectURIs: []string{"https://a.example.com/cb#frag"}}},
		},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			registry, err := NewClientRegistry(tc.clients)
			assert.Error(t, err)
			assert.Nil(t, registry)
		})
	}
}
