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
	"strings"

	"github.com/appsuite/oauthd/internal/system/config"
	"github.com/appsuite/oauthd/internal/system/crypto/hash"
	"github.com/appsuite/oauthd/internal/system/error/serviceerror"
	"github.com/appsuite/oauthd/internal/system/log"
)

// UserServiceInterface defines user authentication and lookup.
type UserServiceInterface interface {
	Authenticate(ctx context.Context, login, password string) (*User, *serviceerror.ServiceError)
	GetUser(ctx context.Context, userID, contextID int) (*User, *serviceerror.ServiceError)
}

type userKey struct {
	userID    int
	contextID int
}

// UserService is a UserServiceInterface backed by the configured user directory.
type UserService struct {
	byLogin map[string]*User
	byID    map[userKey]*User
}

// NewUserService creates a user service from the configured users.
func NewUserService(users []config.UserConfig) UserServiceInterface {
	service := &UserService{
		byLogin: make(map[string]*User, len(users)),
		byID:    make(map[userKey]*User, len(users)),
	}
	for _, u := range users {
		usr := &User{
			ID:                 u.ID,
			ContextID:          u.ContextID,
			Login:              u.Login,
			PasswordHash:       u.PasswordHash,
			Mail:               u.Mail,
			DisplayName:        u.DisplayName,
			Guest:              u.Guest,
			OAuthEnabled:       u.OAuthEnabled,
			PendingUpdateTasks: u.PendingUpdateTasks,
		}
		service.byLogin[strings.ToLower(u.Login)] = usr
		service.byID[userKey{userID: u.ID, contextID: u.ContextID}] = usr
	}
	return service
}

// Authenticate verifies the login name and password of a user.
func (s *UserService) Authenticate(_ context.Context, login, password string) (*User, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "UserService"))

	usr, ok := s.byLogin[strings.ToLower(strings.TrimSpace(login))]
	if !ok || password == "" {
		logger.Debug("Authentication failed", log.String("login", log.MaskString(login)))
		return nil, &ErrorInvalidCredentials
	}
	valid, err := hash.VerifyPassword(password, usr.PasswordHash)
	if err != nil {
		logger.Error("Stored password hash is unusable", log.Int("userId", usr.ID),
			log.Int("contextId", usr.ContextID), log.Error(err))
		return nil, &serviceerror.InternalServerError
	}
	if !valid {
		logger.Debug("Authentication failed", log.String("login", log.MaskString(login)))
		return nil, &ErrorInvalidCredentials
	}
	if usr.PendingUpdateTasks {
		logger.Info("Login rejected while update tasks are pending",
			log.Int("userId", usr.ID), log.Int("contextId", usr.ContextID))
		return nil, &ErrorUpdateTask
	}

	return usr, nil
}

// GetUser resolves a user by its user and context identifiers.
func (s *UserService) GetUser(_ context.Context, userID, contextID int) (*User, *serviceerror.ServiceError) {
	usr, ok := s.byID[userKey{userID: userID, contextID: contextID}]
	if !ok {
		return nil, &ErrorUserNotFound
	}
	return usr, nil
}
