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
	"errors"
	"fmt"
	"time"

	"github.com/appsuite/oauthd/internal/oauth/grant/model"
	"github.com/appsuite/oauthd/internal/oauth/scope"
	"github.com/appsuite/oauthd/internal/system/constants"
	"github.com/appsuite/oauthd/internal/system/database/client"
	dbmodel "github.com/appsuite/oauthd/internal/system/database/model"
	"github.com/appsuite/oauthd/internal/system/database/provider"
	dbutils "github.com/appsuite/oauthd/internal/system/database/utils"
	"github.com/appsuite/oauthd/internal/system/log"
)

const loggerComponentName = "GrantStore"

// DBGrantStore implements GrantStoreInterface on the runtime database.
type DBGrantStore struct {
	DBProvider provider.DBProviderInterface
}

// NewDBGrantStore creates a new instance of DBGrantStore.
func NewDBGrantStore(dbProvider provider.DBProviderInterface) GrantStoreInterface {
	return &DBGrantStore{
		DBProvider: dbProvider,
	}
}

func (s *DBGrantStore) getDBClient() (client.DBClientInterface, error) {
	dbClient, err := s.DBProvider.GetDBClient(constants.DBNameRuntime)
	if err != nil {
		log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName)).
			Error("Failed to get database client", log.Error(err))
		return nil, err
	}
	return dbClient, nil
}

// InsertAuthorizationCode inserts a new authorization code into the database.
func (s *DBGrantStore) InsertAuthorizationCode(ctx context.Context, code model.AuthorizationCode) error {
	dbClient, err := s.getDBClient()
	if err != nil {
		return err
	}

	_, err = dbClient.Execute(ctx, QueryInsertAuthorizationCode, code.Code, code.ClientID, code.RedirectURI,
		code.UserID, code.ContextID, code.Scope.String(), code.ExpiresAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert authorization code: %w", err)
	}
	return nil
}

// GetAuthorizationCode retrieves an authorization code.
func (s *DBGrantStore) GetAuthorizationCode(ctx context.Context, code string) (*model.AuthorizationCode, error) {
	dbClient, err := s.getDBClient()
	if err != nil {
		return nil, err
	}

	results, err := dbClient.Query(ctx, QueryGetAuthorizationCode, code)
	if err != nil {
		return nil, fmt.Errorf("error while retrieving authorization code: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrAuthorizationCodeNotFound
	}

	return buildAuthorizationCodeFromResultRow(results[0])
}

// RedeemAuthorizationCode marks the code as used and stores the grant minted from it in one transaction.
// It returns false, storing nothing, when the code was already used.
func (s *DBGrantStore) RedeemAuthorizationCode(ctx context.Context, code string, grant model.Grant) (bool, error) {
	dbClient, err := s.getDBClient()
	if err != nil {
		return false, err
	}

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	consumed, err := tx.Execute(ctx, QueryConsumeAuthorizationCode, code)
	if err != nil {
		return false, rollback(tx, fmt.Errorf("failed to consume authorization code: %w", err))
	}
	if consumed == 0 {
		return false, rollback(tx, nil)
	}

	_, err = tx.Execute(ctx, QueryInsertGrant, grant.AccessToken, grant.RefreshToken, grant.UserID,
		grant.ContextID, grant.ClientID, grant.Scope.String(), grant.AuthCode, grant.CreatedAt.UnixMilli(),
		grant.ExpiresAt.UnixMilli(), grant.RefreshExpiresAt.UnixMilli())
	if err != nil {
		return false, rollback(tx, fmt.Errorf("failed to insert grant: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit authorization code redemption: %w", err)
	}
	return true, nil
}

// GetGrantByAccessToken retrieves a grant by its access token.
func (s *DBGrantStore) GetGrantByAccessToken(ctx context.Context, accessToken string) (*model.Grant, error) {
	return s.getGrant(ctx, QueryGetGrantByAccessToken, accessToken)
}

// GetGrantByRefreshToken retrieves a grant by its refresh token.
func (s *DBGrantStore) GetGrantByRefreshToken(ctx context.Context, refreshToken string) (*model.Grant, error) {
	return s.getGrant(ctx, QueryGetGrantByRefreshToken, refreshToken)
}

// RenewGrant replaces the token pair of the grant while it still holds the current token pair.
func (s *DBGrantStore) RenewGrant(ctx context.Context, current model.Grant, renewed model.Grant) (bool, error) {
	return s.executeAffectingRow(ctx, QueryRenewGrant, renewed.AccessToken, renewed.RefreshToken,
		renewed.ExpiresAt.UnixMilli(), renewed.RefreshExpiresAt.UnixMilli(), current.RefreshToken,
		current.AccessToken)
}

// DeleteGrantByAccessToken deletes the grant of an access token.
func (s *DBGrantStore) DeleteGrantByAccessToken(ctx context.Context, accessToken string) (bool, error) {
	return s.executeAffectingRow(ctx, QueryDeleteGrantByAccessToken, accessToken)
}

// DeleteGrantByRefreshToken deletes the grant of a refresh token.
func (s *DBGrantStore) DeleteGrantByRefreshToken(ctx context.Context, refreshToken string) (bool, error) {
	return s.executeAffectingRow(ctx, QueryDeleteGrantByRefreshToken, refreshToken)
}

// DeleteGrantsByAuthCode deletes the grants minted from an authorization code.
func (s *DBGrantStore) DeleteGrantsByAuthCode(ctx context.Context, code string) (int64, error) {
	return s.execute(ctx, QueryDeleteGrantsByAuthCode, code)
}

// CountGrants returns the number of grants held by a user.
func (s *DBGrantStore) CountGrants(ctx context.Context, userID, contextID int) (int, error) {
	dbClient, err := s.getDBClient()
	if err != nil {
		return 0, err
	}

	results, err := dbClient.Query(ctx, QueryCountGrants, userID, contextID)
	if err != nil {
		return 0, fmt.Errorf("error while counting grants: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return dbutils.GetInt(results[0], "grant_count")
}

// DeleteExpiredAuthorizationCodes removes codes expired before now.
func (s *DBGrantStore) DeleteExpiredAuthorizationCodes(ctx context.Context, now time.Time) (int64, error) {
	return s.execute(ctx, QueryDeleteExpiredAuthorizationCodes, now.UnixMilli())
}

// DeleteExpiredGrants removes grants whose refresh token expired before now.
func (s *DBGrantStore) DeleteExpiredGrants(ctx context.Context, now time.Time) (int64, error) {
	return s.execute(ctx, QueryDeleteExpiredGrants, now.UnixMilli())
}

func (s *DBGrantStore) getGrant(ctx context.Context, query dbmodel.DBQuery, token string) (*model.Grant, error) {
	dbClient, err := s.getDBClient()
	if err != nil {
		return nil, err
	}

	results, err := dbClient.Query(ctx, query, token)
	if err != nil {
		return nil, fmt.Errorf("error while retrieving grant: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrGrantNotFound
	}

	return buildGrantFromResultRow(results[0])
}

func (s *DBGrantStore) execute(ctx context.Context, query dbmodel.DBQuery, args ...any) (int64, error) {
	dbClient, err := s.getDBClient()
	if err != nil {
		return 0, err
	}

	rowsAffected, err := dbClient.Execute(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute %s: %w", query.GetID(), err)
	}
	return rowsAffected, nil
}

func (s *DBGrantStore) executeAffectingRow(ctx context.Context, query dbmodel.DBQuery, args ...any) (bool, error) {
	rowsAffected, err := s.execute(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func buildAuthorizationCodeFromResultRow(row map[string]any) (*model.AuthorizationCode, error) {
	var (
		code model.AuthorizationCode
		err  error
		sc   string
	)

	if code.Code, err = dbutils.GetString(row, "code"); err != nil {
		return nil, err
	}
	if code.ClientID, err = dbutils.GetString(row, "client_id"); err != nil {
		return nil, err
	}
	if code.RedirectURI, err = dbutils.GetString(row, "redirect_uri"); err != nil {
		return nil, err
	}
	if code.UserID, err = dbutils.GetInt(row, "user_id"); err != nil {
		return nil, err
	}
	if code.ContextID, err = dbutils.GetInt(row, "context_id"); err != nil {
		return nil, err
	}
	if sc, err = dbutils.GetString(row, "scope"); err != nil {
		return nil, err
	}
	code.Scope = scope.Parse(sc)
	if code.ExpiresAt, err = dbutils.GetUnixMilli(row, "expires_at"); err != nil {
		return nil, err
	}
	if code.Consumed, err = dbutils.GetBool(row, "consumed"); err != nil {
		return nil, err
	}

	return &code, nil
}

func buildGrantFromResultRow(row map[string]any) (*model.Grant, error) {
	var (
		grant model.Grant
		err   error
		sc    string
	)

	if grant.AccessToken, err = dbutils.GetString(row, "access_token"); err != nil {
		return nil, err
	}
	if grant.RefreshToken, err = dbutils.GetString(row, "refresh_token"); err != nil {
		return nil, err
	}
	if grant.UserID, err = dbutils.GetInt(row, "user_id"); err != nil {
		return nil, err
	}
	if grant.ContextID, err = dbutils.GetInt(row, "context_id"); err != nil {
		return nil, err
	}
	if grant.ClientID, err = dbutils.GetString(row, "client_id"); err != nil {
		return nil, err
	}
	if sc, err = dbutils.GetString(row, "scope"); err != nil {
		return nil, err
	}
	grant.Scope = scope.Parse(sc)
	if grant.AuthCode, err = dbutils.GetString(row, "auth_code"); err != nil {
		return nil, err
	}
	if grant.CreatedAt, err = dbutils.GetUnixMilli(row, "created_at"); err != nil {
		return nil, err
	}
	if grant.ExpiresAt, err = dbutils.GetUnixMilli(row, "expires_at"); err != nil {
		return nil, err
	}
	if grant.RefreshExpiresAt, err = dbutils.GetUnixMilli(row, "refresh_expires_at"); err != nil {
		return nil, err
	}

	return &grant, nil
}

// rollback aborts the transaction and returns cause, joined with the rollback failure if there is one.
func rollback(tx dbmodel.TxInterface, cause error) error {
	if err := tx.Rollback(); err != nil {
		return errors.Join(cause, fmt.Errorf("failed to roll back transaction: %w", err))
	}
	return cause
}
