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

// Package grantmock provides a mock of the grant manager.
package grantmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	appmodel "github.com/appsuite/oauthd/internal/application/model"
	"github.com/appsuite/oauthd/internal/oauth/grant/model"
	"github.com/appsuite/oauthd/internal/oauth/scope"
)

// GrantManagerInterfaceMock is a mock implementation of grant.GrantManagerInterface.
type GrantManagerInterfaceMock struct {
	mock.Mock
}

// GenerateAuthorizationCodeFor provides a mock function.
func (m *GrantManagerInterfaceMock) GenerateAuthorizationCodeFor(ctx context.Context, clientID, redirectURI string,
	sc scope.Scope, userID, contextID int) (string, error) {
	args := m.Called(ctx, clientID, redirectURI, sc, userID, contextID)
	return args.String(0), args.Error(1)
}

// RedeemAuthCode provides a mock function.
func (m *GrantManagerInterfaceMock) RedeemAuthCode(ctx context.Context, client *appmodel.OAuthClient,
	redirectURI, code string) (*model.Grant, error) {
	args := m.Called(ctx, client, redirectURI, code)
	return grantArg(args, 0), args.Error(1)
}

// RedeemRefreshToken provides a mock function.
func (m *GrantManagerInterfaceMock) RedeemRefreshToken(ctx context.Context, client *appmodel.OAuthClient,
	refreshToken string) (*model.Grant, error) {
	args := m.Called(ctx, client, refreshToken)
	return grantArg(args, 0), args.Error(1)
}

// RevokeByAccessToken provides a mock function.
func (m *GrantManagerInterfaceMock) RevokeByAccessToken(ctx context.Context, accessToken string) (bool, error) {
	args := m.Called(ctx, accessToken)
	return args.Bool(0), args.Error(1)
}

// RevokeByRefreshToken provides a mock function.
func (m *GrantManagerInterfaceMock) RevokeByRefreshToken(ctx context.Context, refreshToken string) (bool, error) {
	args := m.Called(ctx, refreshToken)
	return args.Bool(0), args.Error(1)
}

// GetGrantByAccessToken provides a mock function.
func (m *GrantManagerInterfaceMock) GetGrantByAccessToken(ctx context.Context,
	accessToken string) (*model.Grant, error) {
	args := m.Called(ctx, accessToken)
	return grantArg(args, 0), args.Error(1)
}

// CountGrants provides a mock function.
func (m *GrantManagerInterfaceMock) CountGrants(ctx context.Context, userID, contextID int) (int, error) {
	args := m.Called(ctx, userID, contextID)
	return args.Int(0), args.Error(1)
}

// SweepExpired provides a mock function.
func (m *GrantManagerInterfaceMock) SweepExpired(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func grantArg(args mock.Arguments, index int) *model.Grant {
	if g := args.Get(index); g != nil {
		return g.(*model.Grant)
	}
	return nil
}
