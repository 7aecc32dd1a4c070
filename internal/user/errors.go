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

import "github.com/appsuite/oauthd/internal/system/error/serviceerror"

// Login error codes, carried back to the login page.
const (
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUpdateTask         = "update_task"
)

// ErrorInvalidCredentials is returned when the login name or password does not match.
var ErrorInvalidCredentials = serviceerror.ServiceError{
	Code:             ErrorCodeInvalidCredentials,
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid credentials",
	ErrorDescription: "The login name or password is not correct",
}

// ErrorUpdateTask is returned when the user's context is being migrated.
var ErrorUpdateTask = serviceerror.ServiceError{
	Code:             ErrorCodeUpdateTask,
	Type:             serviceerror.ClientErrorType,
	Error:            "Update task running",
	ErrorDescription: "The account is currently being updated",
}

// ErrorUserNotFound is returned when a user cannot be resolved by its identifiers.
var ErrorUserNotFound = serviceerror.ServiceError{
	Code:             "USR-1001",
	Type:             serviceerror.ClientErrorType,
	Error:            "User not found",
	ErrorDescription: "No user exists for the given identifiers",
}
