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

// Package user provides lookup and authentication of the users that grant access to OAuth clients.
package user

// User represents a groupware user account.
type User struct {
	ID                 int
	ContextID          int
	Login              string
	PasswordHash       string `json:"-"`
	Mail               string
	DisplayName        string
	Guest              bool
	OAuthEnabled       bool
	PendingUpdateTasks bool
}

// CanGrantAccess reports whether the user is allowed to authorize OAuth clients.
func (u *User) CanGrantAccess() bool {
	return !u.Guest && u.OAuthEnabled
}
