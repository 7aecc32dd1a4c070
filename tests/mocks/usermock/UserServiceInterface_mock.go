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

// Package usermock provides a mock of the user service.
package usermock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/appsuite/oauthd/internal/system/error/serviceerror"
	"github.com/appsuite/oauthd/internal/user"
)

// UserServiceInterfaceMock is a mock implementation of user.UserServiceInterface.
type UserServiceInterfaceMock struct {
	mock.Mock
}

// Authenticate provides a mock function.
func (m *UserServiceInterfaceMock) Authenticate(ctx context.Context, login,
	password string) (*user.User, *serviceerror.ServiceError) {
	args := m.Called(ctx, login, password)
	return userArg(args), serviceErrorArg(args)
}

// GetUser provides a mock function.
func (m *UserServiceInterfaceMock) GetUser(ctx context.Context, userID,
	contextID int) (*user.User, *serviceerror.ServiceError) {
	args := m.Called(ctx, userID, contextID)
	return userArg(args), serviceErrorArg(args)
}

func userArg(args mock.Arguments) *user.User {
	if u := args.Get(0); u != nil {
		return u.(*user.User)
	}
	return nil
}

func serviceErrorArg(args mock.Arguments) *serviceerror.ServiceError {
	if e := args.Get(1); e != nil {
		return e.(*serviceerror.ServiceError)
	}
	return nil
}
