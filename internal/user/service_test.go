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

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"golang.org/x/crypto/bcrypt"

	"github.com/appsuite/oauthd/internal/system/config"
	"github.com/appsuite/oauthd/internal/system/error/serviceerror"
)

type UserServiceTestSuite struct {
	suite.Suite
	service UserServiceInterface
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) SetupTest() {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	suite.Require().NoError(err)
	passwordHash := string(hashed)

	suite.service = NewUserService([]config.UserConfig{
		{ID: 3, ContextID: 1, Login: "Anton", PasswordHash: passwordHash, Mail: "anton@example.com",
			OAuthEnabled: true},
		{ID: 4, ContextID: 1, Login: "berta", PasswordHash: passwordHash, PendingUpdateTasks: true},
		{ID: 5, ContextID: 1, Login: "guest", PasswordHash: passwordHash, Guest: true, OAuthEnabled: true},
		{ID: 6, ContextID: 1, Login: "caesar", PasswordHash: "{SHA}W6ph5Mm5Pz8GgiULbPgzG37mj9g=",
			OAuthEnabled: true},
	})
}

func (suite *UserServiceTestSuite) TestAuthenticateSuccess() {
	usr, svcErr := suite.service.Authenticate(context.Background(), " anton ", "secret")

	assert.Nil(suite.T(), svcErr)
	assert.Equal(suite.T(), 3, usr.ID)
	assert.Equal(suite.T(), "anton@example.com", usr.Mail)
	assert.True(suite.T(), usr.CanGrantAccess())
}

func (suite *UserServiceTestSuite) TestAuthenticateFailures() {
	testCases := []struct {
		name     string
		login    string
		password string
		code     string
	}{
		{name: "WrongPassword", login: "anton", password: "wrong", code: ErrorCodeInvalidCredentials},
		{name: "EmptyPassword", login: "anton", password: "", code: ErrorCodeInvalidCredentials},
		{name: "UnknownUser", login: "nobody", password: "secret", code: ErrorCodeInvalidCredentials},
		{name: "PendingUpdateTask", login: "berta", password: "secret", code: ErrorCodeUpdateTask},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			usr, svcErr := suite.service.Authenticate(context.Background(), tc.login, tc.password)
			assert.Nil(t, usr)
			if assert.NotNil(t, svcErr) {
				assert.Equal(t, tc.code, svcErr.Code)
				assert.True(t, svcErr.IsClientError())
			}
		})
	}
}

func (suite *UserServiceTestSuite) TestAuthenticateWithUnusableStoredHash() {
	usr, svcErr := suite.service.Authenticate(context.Background(), "caesar", "password")

	assert.Nil(suite.T(), usr)
	if assert.NotNil(suite.T(), svcErr) {
		assert.Equal(suite.T(), serviceerror.InternalServerError.Code, svcErr.Code)
		assert.False(suite.T(), svcErr.IsClientError())
	}
}

func (suite *UserServiceTestSuite) TestGuestCannotGrantAccess() {
	usr, svcErr := suite.service.Authenticate(context.Background(), "guest", "secret")

	assert.Nil(suite.T(), svcErr)
	assert.False(suite.T(), usr.CanGrantAccess())
}

func (suite *UserServiceTestSuite) TestGetUser() {
	usr, svcErr := suite.service.GetUser(context.Background(), 3, 1)
	assert.Nil(suite.T(), svcErr)
	assert.Equal(suite.T(), "Anton", usr.Login)

	usr, svcErr = suite.service.GetUser(context.Background(), 3, 2)
	assert.Nil(suite.T(), usr)
	assert.Equal(suite.T(), ErrorUserNotFound.Code, svcErr.Code)
}
