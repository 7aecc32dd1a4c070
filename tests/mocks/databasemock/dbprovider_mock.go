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

// Package databasemock provides mock implementations of the database interfaces for testing.
package databasemock

import (
	"errors"
	"sync"

	"github.com/appsuite/oauthd/internal/system/database/client"
)

// MockDBProvider is a mock implementation of the DBProviderInterface.
type MockDBProvider struct {
	// MockGetDBClient defines the behavior for the GetDBClient method.
	MockGetDBClient func(dbName string) (client.DBClientInterface, error)

	// GetDBClientCalls tracks the arguments passed to GetDBClient.
	GetDBClientCalls []string
	mu               sync.Mutex
}

// GetDBClient mocks the GetDBClient method of the DBProviderInterface.
func (m *MockDBProvider) GetDBClient(dbName string) (client.DBClientInterface, error) {
	m.mu.Lock()
	m.GetDBClientCalls = append(m.GetDBClientCalls, dbName)
	m.mu.Unlock()

	if m.MockGetDBClient != nil {
		return m.MockGetDBClient(dbName)
	}
	return nil, errors.New("no database client configured")
}

// NewMockDBProvider returns a provider that always hands out the given client.
func NewMockDBProvider(dbClient client.DBClientInterface) *MockDBProvider {
	return &MockDBProvider{
		MockGetDBClient: func(string) (client.DBClientInterface, error) {
			return dbClient, nil
		},
	}
}
