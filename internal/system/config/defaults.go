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

package config

const (
	defaultPort                      = 8090
	defaultSessionValidity           = 1800
	defaultAuthorizationCodeValidity = 600
	defaultAccessTokenValidity       = 3600
	defaultRefreshTokenValidity      = 86400 * 90
	defaultCleanupInterval           = 3600
	defaultMaxGrantsPerUser          = 50
	defaultLoginClientName           = "oauth-provider"
	defaultMetricsPath               = "/metrics"
	defaultRedisPrefix               = "oauthd:"

	// SessionStoreTypeMemory keeps login sessions in process memory.
	SessionStoreTypeMemory = "memory"
	// SessionStoreTypeRedis keeps login sessions in redis.
	SessionStoreTypeRedis = "redis"
	// GrantStoreTypeDatabase persists grants in the runtime database.
	GrantStoreTypeDatabase = "database"
	// GrantStoreTypeMemory keeps grants in process memory.
	GrantStoreTypeMemory = "memory"
)

// applyDefaults fills in values omitted from the deployment configuration.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Session.Type == "" {
		c.Session.Type = SessionStoreTypeMemory
	}
	if c.Session.ValidityPeriod <= 0 {
		c.Session.ValidityPeriod = defaultSessionValidity
	}
	if c.Session.Redis.Prefix == "" {
		c.Session.Redis.Prefix = defaultRedisPrefix
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = defaultMetricsPath
	}

	oauth := &c.OAuth
	if oauth.LoginClientName == "" {
		oauth.LoginClientName = defaultLoginClientName
	}
	if oauth.MaxGrantsPerUser == 0 {
		oauth.MaxGrantsPerUser = defaultMaxGrantsPerUser
	}
	if oauth.CleanupInterval <= 0 {
		oauth.CleanupInterval = defaultCleanupInterval
	}
	if oauth.AuthorizationCode.ValidityPeriod <= 0 {
		oauth.AuthorizationCode.ValidityPeriod = defaultAuthorizationCodeValidity
	}
	if oauth.AccessToken.ValidityPeriod <= 0 {
		oauth.AccessToken.ValidityPeriod = defaultAccessTokenValidity
	}
	if oauth.RefreshToken.ValidityPeriod <= 0 {
		oauth.RefreshToken.ValidityPeriod = defaultRefreshTokenValidity
	}
	if oauth.RefreshToken.RenewOnGrant == nil {
		renew := true
		oauth.RefreshToken.RenewOnGrant = &renew
	}
	if oauth.GrantStore.Type == "" {
		oauth.GrantStore.Type = GrantStoreTypeDatabase
	}
}

// RenewRefreshTokenOnGrant reports whether refresh tokens rotate on every refresh.
func (o OAuthConfig) RenewRefreshTokenOnGrant() bool {
	return o.RefreshToken.RenewOnGrant == nil || *o.RefreshToken.RenewOnGrant
}
