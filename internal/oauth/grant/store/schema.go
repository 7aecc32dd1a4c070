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

package store

import (
	"context"
	"fmt"

	"github.com/appsuite/oauthd/internal/system/database/client"
	dbmodel "github.com/appsuite/oauthd/internal/system/database/model"
)

var createAuthorizationCodeTable = dbmodel.DBQuery{
	ID: "GSD-00001",
	Query: `CREATE TABLE IF NOT EXISTS OAUTH_AUTHZ_CODE (
	CODE VARCHAR(128) NOT NULL PRIMARY KEY,
	CLIENT_ID VARCHAR(255) NOT NULL,
	REDIRECT_URI VARCHAR(2048) NOT NULL,
	USER_ID INTEGER NOT NULL,
	CONTEXT_ID INTEGER NOT NULL,
	SCOPE VARCHAR(1024) NOT NULL,
	EXPIRES_AT BIGINT NOT NULL,
	CONSUMED SMALLINT NOT NULL DEFAULT 0
)`,
}

var createGrantTable = dbmodel.DBQuery{
	ID: "GSD-00002",
	Query: `CREATE TABLE IF NOT EXISTS OAUTH_GRANT (
	ACCESS_TOKEN VARCHAR(128) NOT NULL PRIMARY KEY,
	REFRESH_TOKEN VARCHAR(128) NOT NULL UNIQUE,
	USER_ID INTEGER NOT NULL,
	CONTEXT_ID INTEGER NOT NULL,
	CLIENT_ID VARCHAR(255) NOT NULL,
	SCOPE VARCHAR(1024) NOT NULL,
	AUTH_CODE VARCHAR(128) NOT NULL,
	CREATED_AT BIGINT NOT NULL,
	EXPIRES_AT BIGINT NOT NULL,
	REFRESH_EXPIRES_AT BIGINT NOT NULL
)`,
	MySQLQuery: `CREATE TABLE IF NOT EXISTS OAUTH_GRANT (
	ACCESS_TOKEN VARCHAR(128) NOT NULL PRIMARY KEY,
	REFRESH_TOKEN VARCHAR(128) NOT NULL UNIQUE,
	USER_ID INTEGER NOT NULL,
	CONTEXT_ID INTEGER NOT NULL,
	CLIENT_ID VARCHAR(255) NOT NULL,
	SCOPE VARCHAR(1024) NOT NULL,
	AUTH_CODE VARCHAR(128) NOT NULL,
	CREATED_AT BIGINT NOT NULL,
	EXPIRES_AT BIGINT NOT NULL,
	REFRESH_EXPIRES_AT BIGINT NOT NULL,
	INDEX IDX_OAUTH_GRANT_USER (CONTEXT_ID, USER_ID),
	INDEX IDX_OAUTH_GRANT_CODE (AUTH_CODE)
)`,
}

var createGrantUserIndex = dbmodel.DBQuery{
	ID:    "GSD-00003",
	Query: "CREATE INDEX IF NOT EXISTS IDX_OAUTH_GRANT_USER ON OAUTH_GRANT (CONTEXT_ID, USER_ID)",
}

var createGrantCodeIndex = dbmodel.DBQuery{
	ID:    "GSD-00004",
	Query: "CREATE INDEX IF NOT EXISTS IDX_OAUTH_GRANT_CODE ON OAUTH_GRANT (AUTH_CODE)",
}

// InitializeSchema creates the grant tables when they are missing.
func InitializeSchema(ctx context.Context, dbClient client.DBClientInterface) error {
	statements := []dbmodel.DBQuery{createAuthorizationCodeTable, createGrantTable}
	if dbClient.GetDBType() != dbmodel.DBTypeMySQL {
		statements = append(statements, createGrantUserIndex, createGrantCodeIndex)
	}

	for _, statement := range statements {
		if _, err := dbClient.Execute(ctx, statement); err != nil {
			return fmt.Errorf("failed to execute %s: %w", statement.ID, err)
		}
	}
	return nil
}
