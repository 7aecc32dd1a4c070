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
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/appsuite/oauthd/internal/oauth/grant/model"
	"github.com/appsuite/oauthd/internal/oauth/scope"
	"github.com/appsuite/oauthd/internal/system/database/client"
	dbmodel "github.com/appsuite/oauthd/internal/system/database/model"
	"github.com/appsuite/oauthd/tests/mocks/databasemock"
)

type DBGrantStoreTestSuite struct {
	suite.Suite
	mockDB *sql.DB
	mock   sqlmock.Sqlmock
	store  GrantStoreInterface
	ctx    context.Context
}

func TestDBGrantStoreSuite(t *testing.T) {
	suite.Run(t, new(DBGrantStoreTestSuite))
}

func (suite *DBGrantStoreTestSuite) SetupTest() {
	var err error
	suite.mockDB, suite.mock, err = sqlmock.New()
	suite.Require().NoError(err)

	dbClient := client.NewDBClient(dbmodel.NewDB(suite.mockDB), "postgres")
	suite.store = NewDBGrantStore(databasemock.NewMockDBProvider(dbClient))
	suite.ctx = context.Background()
}

func (suite *DBGrantStoreTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *DBGrantStoreTestSuite) TestInsertAuthorizationCode() {
	expiresAt := time.UnixMilli(1700000600000)
	suite.mock.ExpectExec(regexp.QuoteMeta(QueryInsertAuthorizationCode.Query)).
		WithArgs("code-1", "mail-app", "https://mail.example.com/cb", 3, 1, "read_contacts read_mail",
			expiresAt.UnixMilli()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := suite.store.InsertAuthorizationCode(suite.ctx, model.AuthorizationCode{
		Code:        "code-1",
		ClientID:    "mail-app",
		RedirectURI: "https://mail.example.com/cb",
		UserID:      3,
		ContextID:   1,
		Scope:       scope.Parse("read_mail read_contacts"),
		ExpiresAt:   expiresAt,
	})

	assert.NoError(suite.T(), err)
}

func (suite *DBGrantStoreTestSuite) TestGetAuthorizationCode() {
	rows := sqlmock.NewRows([]string{"CODE", "CLIENT_ID", "REDIRECT_URI", "USER_ID", "CONTEXT_ID", "SCOPE",
		"EXPIRES_AT", "CONSUMED"}).
		AddRow("code-1", "mail-app", "https://mail.example.com/cb", int64(3), int64(1), "read_mail",
			int64(1700000600000), int64(1))
	suite.mock.ExpectQuery(regexp.QuoteMeta(QueryGetAuthorizationCode.Query)).
		WithArgs("code-1").
		WillReturnRows(rows)

	code, err := suite.store.GetAuthorizationCode(suite.ctx, "code-1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "mail-app", code.ClientID)
	assert.Equal(suite.T(), 3, code.UserID)
	assert.Equal(suite.T(), "read_mail", code.Scope.String())
	assert.True(suite.T(), code.Consumed)
	assert.True(suite.T(), code.ExpiresAt.Equal(time.UnixMilli(1700000600000)))
}

func (suite *DBGrantStoreTestSuite) TestGetAuthorizationCodeNotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(QueryGetAuthorizationCode.Query)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"CODE"}))

	code, err := suite.store.GetAuthorizationCode(suite.ctx, "missing")

	assert.ErrorIs(suite.T(), err, ErrAuthorizationCodeNotFound)
	assert.Nil(suite.T(), code)
}

func redemptionGrant() model.Grant {
	return model.Grant{
		AccessToken:      "access-1",
		RefreshToken:     "refresh-1",
		UserID:           3,
		ContextID:        1,
		ClientID:         "mail-app",
		Scope:            scope.Parse("read_mail"),
		AuthCode:         "code-1",
		CreatedAt:        time.UnixMilli(1700000000000),
		ExpiresAt:        time.UnixMilli(1700003600000),
		RefreshExpiresAt: time.UnixMilli(1707776000000),
	}
}

func (suite *DBGrantStoreTestSuite) expectGrantInsert() *sqlmock.ExpectedExec {
	return suite.mock.ExpectExec(regexp.QuoteMeta(QueryInsertGrant.Query)).
		WithArgs("access-1", "refresh-1", 3, 1, "mail-app", "read_mail", "code-1", int64(1700000000000),
			int64(1700003600000), int64(1707776000000))
}

func (suite *DBGrantStoreTestSuite) TestRedeemAuthorizationCode() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(QueryConsumeAuthorizationCode.Query)).
		WithArgs("code-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.expectGrantInsert().WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	redeemed, err := suite.store.RedeemAuthorizationCode(suite.ctx, "code-1", redemptionGrant())

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), redeemed)
}

func (suite *DBGrantStoreTestSuite) TestRedeemAuthorizationCodeAlreadyConsumed() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(QueryConsumeAuthorizationCode.Query)).
		WithArgs("code-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	suite.mock.ExpectRollback()

	redeemed, err := suite.store.RedeemAuthorizationCode(suite.ctx, "code-1", redemptionGrant())

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), redeemed)
}

func (suite *DBGrantStoreTestSuite) TestRedeemAuthorizationCodeRollsBackOnInsertFailure() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(QueryConsumeAuthorizationCode.Query)).
		WithArgs("code-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.expectGrantInsert().WillReturnError(errors.New("duplicate key"))
	suite.mock.ExpectRollback()

	redeemed, err := suite.store.RedeemAuthorizationCode(suite.ctx, "code-1", redemptionGrant())

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "duplicate key")
	assert.False(suite.T(), redeemed)
}

func (suite *DBGrantStoreTestSuite) TestRedeemAuthorizationCodeBeginFailure() {
	suite.mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

	redeemed, err := suite.store.RedeemAuthorizationCode(suite.ctx, "code-1", redemptionGrant())

	assert.Error(suite.T(), err)
	assert.False(suite.T(), redeemed)
}

func (suite *DBGrantStoreTestSuite) TestRenewGrant() {
	current := model.Grant{AccessToken: "access-1", RefreshToken: "refresh-1"}
	renewed := model.Grant{
		AccessToken:      "access-2",
		RefreshToken:     "refresh-2",
		ExpiresAt:        time.UnixMilli(1700003600000),
		RefreshExpiresAt: time.UnixMilli(1707776000000),
	}
	suite.mock.ExpectExec(regexp.QuoteMeta(QueryRenewGrant.Query)).
		WithArgs("access-2", "refresh-2", int64(1700003600000), int64(1707776000000), "refresh-1", "access-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := suite.store.RenewGrant(suite.ctx, current, renewed)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ok)
}

func (suite *DBGrantStoreTestSuite) TestGetGrantByAccessToken() {
	rows := sqlmock.NewRows([]string{"ACCESS_TOKEN", "REFRESH_TOKEN", "USER_ID", "CONTEXT_ID", "CLIENT_ID",
		"SCOPE", "AUTH_CODE", "CREATED_AT", "EXPIRES_AT", "REFRESH_EXPIRES_AT"}).
		AddRow("access-1", "refresh-1", int64(3), int64(1), "mail-app", "read_mail", "code-1",
			int64(1700000000000), int64(1700003600000), int64(1707776000000))
	suite.mock.ExpectQuery(regexp.QuoteMeta(QueryGetGrantByAccessToken.Query)).
		WithArgs("access-1").
		WillReturnRows(rows)

	grant, err := suite.store.GetGrantByAccessToken(suite.ctx, "access-1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "refresh-1", grant.RefreshToken)
	assert.Equal(suite.T(), "code-1", grant.AuthCode)
	assert.Equal(suite.T(), "read_mail", grant.Scope.String())
	assert.True(suite.T(), grant.ExpiresAt.Equal(time.UnixMilli(1700003600000)))
}

func (suite *DBGrantStoreTestSuite) TestGetGrantByRefreshTokenNotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(QueryGetGrantByRefreshToken.Query)).
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"ACCESS_TOKEN"}))

	grant, err := suite.store.GetGrantByRefreshToken(suite.ctx, "unknown")

	assert.ErrorIs(suite.T(), err, ErrGrantNotFound)
	assert.Nil(suite.T(), grant)
}

func (suite *DBGrantStoreTestSuite) TestCountGrants() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(QueryCountGrants.Query)).
		WithArgs(3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"GRANT_COUNT"}).AddRow(int64(4)))

	count, err := suite.store.CountGrants(suite.ctx, 3, 1)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, count)
}

func (suite *DBGrantStoreTestSuite) TestDeleteExpired() {
	now := time.UnixMilli(1700000000000)
	suite.mock.ExpectExec(regexp.QuoteMeta(QueryDeleteExpiredAuthorizationCodes.Query)).
		WithArgs(now.UnixMilli()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	suite.mock.ExpectExec(regexp.QuoteMeta(QueryDeleteExpiredGrants.Query)).
		WithArgs(now.UnixMilli()).
		WillReturnResult(sqlmock.NewResult(0, 5))

	codes, err := suite.store.DeleteExpiredAuthorizationCodes(suite.ctx, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), codes)

	grants, err := suite.store.DeleteExpiredGrants(suite.ctx, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(5), grants)
}

func (suite *DBGrantStoreTestSuite) TestDeleteGrantByAccessTokenError() {
	suite.mock.ExpectExec(regexp.QuoteMeta(QueryDeleteGrantByAccessToken.Query)).
		WithArgs("access-1").
		WillReturnError(errors.New("connection reset"))

	ok, err := suite.store.DeleteGrantByAccessToken(suite.ctx, "access-1")

	assert.Error(suite.T(), err)
	assert.False(suite.T(), ok)
}

func (suite *DBGrantStoreTestSuite) TestDBClientUnavailable() {
	store := NewDBGrantStore(&databasemock.MockDBProvider{})

	_, err := store.GetGrantByAccessToken(suite.ctx, "access-1")

	assert.Error(suite.T(), err)
}
