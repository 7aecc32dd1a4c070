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

// Package cert loads the TLS material of the server.
package cert

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/appsuite/oauthd/internal/system/config"
)

// GetTLSConfig loads the server certificate and key configured relative to the server home.
func GetTLSConfig(securityConfig config.SecurityConfig, serverHome string) (*tls.Config, error) {
	if securityConfig.CertFile == "" || securityConfig.KeyFile == "" {
		return nil, errors.New("certificate and key files must be configured when TLS is enabled")
	}

	certFilePath := resolvePath(serverHome, securityConfig.CertFile)
	keyFilePath := resolvePath(serverHome, securityConfig.KeyFile)

	if _, err := os.Stat(certFilePath); os.IsNotExist(err) {
		return nil, errors.New("certificate file not found at " + certFilePath)
	}
	if _, err := os.Stat(keyFilePath); os.IsNotExist(err) {
		return nil, errors.New("key file not found at " + keyFilePath)
	}

	certificate, err := tls.LoadX509KeyPair(certFilePath, keyFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load key pair: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{certificate},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func resolvePath(serverHome, file string) string {
	if path.IsAbs(file) {
		return file
	}
	return path.Join(serverHome, file)
}
