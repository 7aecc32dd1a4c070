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

import dbmodel "github.com/appsuite/oauthd/internal/system/database/model"

// QueryInsertAuthorizationCode inserts a new authorization code.
var QueryInsertAuthorizationCode = dbmodel.DBQuery{
	ID: "GSQ-00001",
	Query: "INSERT INTO OAUTH_AUTHZ_CODE (CODE, CLIENT_ID, REDIRECT_URI, USER_ID, CONTEXT_ID, SCOPE, " +
		"EXPIRES_AT, CONSUMED) VALUES ($1, $2, $3, $4, $5, $6, $7, 0)",
	MySQLQuery: "INSERT INTO OAUTH_AUTHZ_CODE (CODE, CLIENT_ID, REDIRECT_URI, USER_ID, CONTEXT_ID, SCOPE, " +
		"EXPIRES_AT, CONSUMED) VALUES (?, ?, ?, ?, ?, ?, ?, 0)",
}

// QueryGetAuthorizationCode retrieves an authorization code.
var QueryGetAuthorizationCode = dbmodel.DBQuery{
	ID: "GSQ-00002",
	Query: "SELECT CODE, CLIENT_ID, REDIRECT_URI, USER_ID, CONTEXT_ID, SCOPE, EXPIRES_AT, CONSUMED " +
		"FROM OAUTH_AUTHZ_CODE WHERE CODE = $1",
	MySQLQuery: "SELECT CODE, CLIENT_ID, REDIRECT_URI, USER_ID, CONTEXT_ID, SCOPE, EXPIRES_AT, CONSUMED " +
		"FROM OAUTH_AUTHZ_CODE WHERE CODE = ?",
}

// QueryConsumeAuthorizationCode flips the consumed flag of an unused code.
var QueryConsumeAuthorizationCode = dbmodel.DBQuery{
	ID:         "GSQ-00003",
	Query:      "UPDATE OAUTH_AUTHZ_CODE SET CONSUMED = 1 WHERE CODE = $1 AND CONSUMED = 0",
	MySQLQuery: "UPDATE OAUTH_AUTHZ_CODE SET CONSUMED = 1 WHERE CODE = ? AND CONSUMED = 0",
}

// QueryDeleteExpiredAuthorizationCodes removes expired codes.
var QueryDeleteExpiredAuthorizationCodes = dbmodel.DBQuery{
	ID:         "GSQ-00004",
	Query:      "DELETE FROM OAUTH_AUTHZ_CODE WHERE EXPIRES_AT < $1",
	MySQLQuery: "DELETE FROM OAUTH_AUTHZ_CODE WHERE EXPIRES_AT < ?",
}

// QueryInsertGrant inserts a new grant.
var QueryInsertGrant = dbmodel.DBQuery{
	ID: "GSQ-00010",
	Query: "INSERT INTO OAUTH_GRANT (ACCESS_TOKEN, REFRESH_TOKEN, USER_ID, CONTEXT_ID, CLIENT_ID, SCOPE, " +
		"AUTH_CODE, CREATED_AT, EXPIRES_AT, REFRESH_EXPIRES_AT) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
	MySQLQuery: "INSERT INTO OAUTH_GRANT (ACCESS_TOKEN, REFRESH_TOKEN, USER_ID, CONTEXT_ID, CLIENT_ID, SCOPE, " +
		"AUTH_CODE, CREATED_AT, EXPIRES_AT, REFRESH_EXPIRES_AT) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
}

const grantColumns = "ACCESS_TOKEN, REFRESH_TOKEN, USER_ID, CONTEXT_ID, CLIENT_ID, SCOPE, AUTH_CODE, " +
	"CREATED_AT, EXPIRES_AT, REFRESH_EXPIRES_AT"

// QueryGetGrantByAccessToken retrieves a grant by its access token.
var QueryGetGrantByAccessToken = dbmodel.DBQuery{
	ID:         "GSQ-00011",
	Query:      "SELECT " + grantColumns + " FROM OAUTH_GRANT WHERE ACCESS_TOKEN = $1",
	MySQLQuery: "SELECT " + grantColumns + " FROM OAUTH_GRANT WHERE ACCESS_TOKEN = ?",
}

// QueryGetGrantByRefreshToken retrieves a grant by its refresh token.
var QueryGetGrantByRefreshToken = dbmodel.DBQuery{
	ID:         "GSQ-00012",
	Query:      "SELECT " + grantColumns + " FROM OAUTH_GRANT WHERE REFRESH_TOKEN = $1",
	MySQLQuery: "SELECT " + grantColumns + " FROM OAUTH_GRANT WHERE REFRESH_TOKEN = ?",
}

// QueryRenewGrant replaces the token pair of a grant, matched on the previous token pair.
var QueryRenewGrant = dbmodel.DBQuery{
	ID: "GSQ-00013",
	Query: "UPDATE OAUTH_GRANT SET ACCESS_TOKEN = $1, REFRESH_TOKEN = $2, EXPIRES_AT = $3, " +
		"REFRESH_EXPIRES_AT = $4 WHERE REFRESH_TOKEN = $5 AND ACCESS_TOKEN = $6",
	MySQLQuery: "UPDATE OAUTH_GRANT SET ACCESS_TOKEN = ?, REFRESH_TOKEN = ?, EXPIRES_AT = ?, " +
		"REFRESH_EXPIRES_AT = ? WHERE REFRESH_TOKEN = ? AND ACCESS_TOKEN = ?",
}

// QueryDeleteGrantByAccessToken deletes a grant by its access token.
var QueryDeleteGrantByAccessToken = dbmodel.DBQuery{
	ID:         "GSQ-00014",
	Query:      "DELETE FROM OAUTH_GRANT WHERE ACCESS_TOKEN = $1",
	MySQLQuery: "DELETE FROM OAUTH_GRANT WHERE ACCESS_TOKEN = ?",
}

// QueryDeleteGrantByRefreshToken deletes a grant by its refresh token.
var QueryDeleteGrantByRefreshToken = dbmodel.DBQuery{
	ID:         "GSQ-00015",
	Query:      "DELETE FROM OAUTH_GRANT WHERE REFRESH_TOKEN = $1",
	MySQLQuery: "DELETE FROM OAUTH_GRANT WHERE REFRESH_TOKEN = ?",
}

// QueryDeleteGrantsByAuthCode deletes the grants minted from an authorization code.
var QueryDeleteGrantsByAuthCode = dbmodel.DBQuery{
	ID:         "GSQ-00016",
	Query:      "DELETE FROM OAUTH_GRANT WHERE AUTH_CODE = $1",
	MySQLQuery: "DELETE FROM OAUTH_GRANT WHERE AUTH_CODE = ?",
}

// QueryCountGrants counts the grants of a user.
var QueryCountGrants = dbmodel.DBQuery{
	ID:         "GSQ-00017",
	Query:      "SELECT COUNT(*) AS GRANT_COUNT FROM OAUTH_GRANT WHERE USER_ID = $1 AND CONTEXT_ID = $2",
	MySQLQuery: "SELECT COUNT(*) AS GRANT_COUNT FROM OAUTH_GRANT WHERE USER_ID = ? AND CONTEXT_ID = ?",
}

// QueryDeleteExpiredGrants removes grants whose refresh window has ended.
var QueryDeleteExpiredGrants = dbmodel.DBQuery{
	ID:         "GSQ-00018",
	Query:      "DELETE FROM OAUTH_GRANT WHERE REFRESH_EXPIRES_AT < $1",
	MySQLQuery: "DELETE FROM OAUTH_GRANT WHERE REFRESH_EXPIRES_AT < ?",
}
