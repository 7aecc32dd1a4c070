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

// Package config provides structures and functions for loading and managing server configurations.
package config

import (
	"errors"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// ServerConfig holds the server configuration details.
type ServerConfig struct {
	Hostname       string   `yaml:"hostname"`
	Port           int      `yaml:"port"`
	HTTPOnly       bool     `yaml:"http_only"`
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// SecurityConfig holds the security configuration details.
type SecurityConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// DataSource holds the individual database connection details.
type DataSource struct {
	Type            string `yaml:"type"`
	Hostname        string `yaml:"hostname"`
	Port            int    `yaml:"port"`
	Name            string `yaml:"name"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"sslmode"`
	Path            string `yaml:"path"`
	Options         string `yaml:"options"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// DatabaseConfig holds the database configuration details.
type DatabaseConfig struct {
	Runtime DataSource `yaml:"runtime"`
}

// RedisConfig holds the redis connection details.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// SessionConfig holds the login session and CSRF store configuration.
type SessionConfig struct {
	Type           string      `yaml:"type"`
	ValidityPeriod int64       `yaml:"validity_period"`
	Redis          RedisConfig `yaml:"redis"`
}

// SMTPConfig holds the SMTP server details used for notifications.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// NotificationConfig holds the grant notification configuration.
type NotificationConfig struct {
	Enabled bool       `yaml:"enabled"`
	SMTP    SMTPConfig `yaml:"smtp"`
}

// MetricsConfig holds the metrics endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TokenConfig holds the validity details of an issued artifact.
type TokenConfig struct {
	ValidityPeriod int64 `yaml:"validity_period"`
}

// RefreshTokenConfig holds the refresh token configuration details.
type RefreshTokenConfig struct {
	ValidityPeriod int64 `yaml:"validity_period"`
	RenewOnGrant   *bool `yaml:"renew_on_grant"`
}

// GrantStoreConfig selects the backing store of grants and authorization codes.
type GrantStoreConfig struct {
	Type string `yaml:"type"`
}

// ClientConfig holds a registered OAuth client.
type ClientConfig struct {
	ID                 string   `yaml:"id"`
	Name               string   `yaml:"name"`
	Description        string   `yaml:"description"`
	Contact            string   `yaml:"contact"`
	HashedClientSecret string   `yaml:"hashed_client_secret"`
	Enabled            bool     `yaml:"enabled"`
	RedirectURIs       []string `yaml:"redirect_uris"`
	DefaultScope       string   `yaml:"default_scope"`
}

// OAuthConfig holds the OAuth provider configuration details.
type OAuthConfig struct {
	AllowInsecureTransport bool               `yaml:"allow_insecure_transport"`
	CheckIP                bool               `yaml:"check_ip"`
	LoginClientName        string             `yaml:"login_client_name"`
	SupportedScopes        []string           `yaml:"supported_scopes"`
	MaxGrantsPerUser       int                `yaml:"max_grants_per_user"`
	CleanupInterval        int64              `yaml:"cleanup_interval"`
	AuthorizationCode      TokenConfig        `yaml:"authorization_code"`
	AccessToken            TokenConfig        `yaml:"access_token"`
	RefreshToken           RefreshTokenConfig `yaml:"refresh_token"`
	GrantStore             GrantStoreConfig   `yaml:"grant_store"`
	Clients                []ClientConfig     `yaml:"clients"`
}

// UserConfig holds a user that can sign in on the authorization page.
type UserConfig struct {
	ID                 int    `yaml:"id"`
	ContextID          int    `yaml:"context_id"`
	Login              string `yaml:"login"`
	PasswordHash       string `yaml:"password_hash"`
	Mail               string `yaml:"mail"`
	DisplayName        string `yaml:"display_name"`
	Guest              bool   `yaml:"guest"`
	OAuthEnabled       bool   `yaml:"oauth_enabled"`
	PendingUpdateTasks bool   `yaml:"pending_update_tasks"`
}

// Config holds the complete configuration details of the server.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Security     SecurityConfig     `yaml:"security"`
	Database     DatabaseConfig     `yaml:"database"`
	Session      SessionConfig      `yaml:"session"`
	Notification NotificationConfig `yaml:"notification"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	OAuth        OAuthConfig        `yaml:"oauth"`
	Users        []UserConfig       `yaml:"users"`
}

// LoadConfig loads the configurations from the specified YAML file and applies defaults.
func LoadConfig(path string) (cfg *Config, err error) {
	path = filepath.Clean(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ferr := file.Close(); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}()

	cfg = &Config{}
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}
