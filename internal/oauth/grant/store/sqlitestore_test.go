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
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/appsuite/oauthd/internal/oauth/grant/model"
	"github.com/appsuite/oauthd/internal/oauth/scope"
	"github.com/appsuite/oauthd/internal/system/database/client"
	dbmodel "github.com/appsuite/oauthd/internal/system/database/model"
	"github.com/appsuite/oauthd/tests/mocks/databasemock"

	_ "modernc.org/sqlite"
)

// GrantStoreContractTestSuite runs the same behaviour checks against every store backend.
type GrantStoreContractTestSuite struct {
	suite.Suite
	newStore func(t *testing.T) GrantStoreInterface
	store    GrantStoreInterface
	ctx      context.Context
}

func TestSQLiteGrantStoreSuite(t *testing.T) {
	suite.Run(t, &GrantStoreContractTestSuite{newStore: newSQLiteStore})
}

func TestMemoryGrantStoreSuite(t *testing.T) {
	suite.Run(t, &GrantStoreContractTestSuite{newStore: func(*testing.T) GrantStoreInterface {
		return NewMemoryGrantStore()
	}})
}

func newSQLiteStore(t *testing.T) GrantStoreInterface {
	grantStore, _ := openSQLiteStore(t)
	return grantStore
}

func openSQLiteStore(t *testing.T) (GrantStoreInterface, *sql.DB) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "runtime.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	dbClient := client.NewDBClient(dbmodel.NewDB(db), "sqlite")
	if err := InitializeSchema(context.Background(), dbClient); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}
	return NewDBGrantStore(databasemock.NewMockDBProvider(dbClient)), db
}

func (suite *GrantStoreContractTestSuite) SetupTest() {
	suite.store = suite.newStore(suite.T())
	suite.ctx = context.Background()
}

func (suite *GrantStoreContractTestSuite) newGrant(access, refresh, code string, now time.Time) model.Grant {
	return model.Grant{
		AccessToken:      access,
		RefreshToken:     refresh,
		UserID:           3,
		ContextID:        1,
		ClientID:         "mail-app",
		Scope:            scope.Parse("read_mail read_contacts"),
		AuthCode:         code,
		CreatedAt:        now,
		ExpiresAt:        now.Add(time.Hour),
		RefreshExpiresAt: now.Add(24 * time.Hour),
	}
}

// insertGrant stores a grant by redeeming its authorization code, creating the code when it is missing.
func (suite *GrantStoreContractTestSuite) insertGrant(grant model.Grant) {
	if _, err := suite.store.GetAuthorizationCode(suite.ctx, grant.AuthCode); err != nil {
		suite.Require().ErrorIs(err, ErrAuthorizationCodeNotFound)
		suite.Require().NoError(suite.store.InsertAuthorizationCode(suite.ctx, model.AuthorizationCode{
			Code: grant.AuthCode, ClientID: grant.ClientID, RedirectURI: "https://mail.example.com/cb",
			UserID: grant.UserID, ContextID: grant.ContextID, Scope: grant.Scope, ExpiresAt: grant.ExpiresAt,
		}))
	}
	redeemed, err := suite.store.RedeemAuthorizationCode(suite.ctx, grant.AuthCode, grant)
	suite.Require().NoError(err)
	suite.Require().True(redeemed)
}

func (suite *GrantStoreContractTestSuite) TestAuthorizationCodeLifecycle() {
	now := time.UnixMilli(time.Now().UnixMilli())
	err := suite.store.InsertAuthorizationCode(suite.ctx, model.AuthorizationCode{
		Code:        "code-1",
		ClientID:    "mail-app",
		RedirectURI: "https://mail.example.com/cb",
		UserID:      3,
		ContextID:   1,
		Scope:       scope.Parse("read_mail"),
		ExpiresAt:   now.Add(10 * time.Minute),
	})
	suite.Require().NoError(err)

	code, err := suite.store.GetAuthorizationCode(suite.ctx, "code-1")
	suite.Require().NoError(err)
	assert.False(suite.T(), code.Consumed)
	assert.Equal(suite.T(), "https://mail.example.com/cb", code.RedirectURI)
	assert.True(suite.T(), code.ExpiresAt.Equal(now.Add(10*time.Minute)))

	first := suite.newGrant("access-1", "refresh-1", "code-1", now)
	redeemed, err := suite.store.RedeemAuthorizationCode(suite.ctx, "code-1", first)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), redeemed)

	redeemed, err = suite.store.RedeemAuthorizationCode(suite.ctx, "code-1",
		suite.newGrant("access-2", "refresh-2", "code-1", now))
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), redeemed)

	code, err = suite.store.GetAuthorizationCode(suite.ctx, "code-1")
	suite.Require().NoError(err)
	assert.True(suite.T(), code.Consumed)

	_, err = suite.store.GetGrantByAccessToken(suite.ctx, "access-1")
	assert.NoError(suite.T(), err)
	_, err = suite.store.GetGrantByAccessToken(suite.ctx, "access-2")
	assert.ErrorIs(suite.T(), err, ErrGrantNotFound)
}

func (suite *GrantStoreContractTestSuite) TestConcurrentRedemptionSucceedsOnce() {
	err := suite.store.InsertAuthorizationCode(suite.ctx, model.AuthorizationCode{
		Code: "race", ClientID: "mail-app", RedirectURI: "https://mail.example.com/cb",
		Scope: scope.Parse("read_mail"), ExpiresAt: time.Now().Add(time.Minute),
	})
	suite.Require().NoError(err)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	now := time.Now()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			grant := suite.newGrant(fmt.Sprintf("access-%d", i), fmt.Sprintf("refresh-%d", i), "race", now)
			ok, err := suite.store.RedeemAuthorizationCode(suite.ctx, "race", grant)
			if err == nil && ok {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(suite.T(), 1, successes)
	count, err := suite.store.CountGrants(suite.ctx, 3, 1)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, count)
}

func (suite *GrantStoreContractTestSuite) TestGrantLifecycle() {
	now := time.UnixMilli(time.Now().UnixMilli())
	suite.insertGrant(suite.newGrant("access-1", "refresh-1", "code-1", now))

	grant, err := suite.store.GetGrantByAccessToken(suite.ctx, "access-1")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "refresh-1", grant.RefreshToken)
	assert.Equal(suite.T(), "read_contacts read_mail", grant.Scope.String())

	grant, err = suite.store.GetGrantByRefreshToken(suite.ctx, "refresh-1")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "access-1", grant.AccessToken)

	count, err := suite.store.CountGrants(suite.ctx, 3, 1)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, count)

	current := suite.newGrant("access-1", "refresh-1", "code-1", now)
	renewed := suite.newGrant("access-2", "refresh-2", "code-1", now)
	ok, err := suite.store.RenewGrant(suite.ctx, current, renewed)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	ok, err = suite.store.RenewGrant(suite.ctx, current, suite.newGrant("access-3", "refresh-3", "code-1", now))
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), ok)

	_, err = suite.store.GetGrantByAccessToken(suite.ctx, "access-1")
	assert.ErrorIs(suite.T(), err, ErrGrantNotFound)
	_, err = suite.store.GetGrantByRefreshToken(suite.ctx, "refresh-1")
	assert.ErrorIs(suite.T(), err, ErrGrantNotFound)

	deleted, err := suite.store.DeleteGrantByRefreshToken(suite.ctx, "refresh-2")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), deleted)

	deleted, err = suite.store.DeleteGrantByAccessToken(suite.ctx, "access-2")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), deleted)
}

func (suite *GrantStoreContractTestSuite) TestDeleteGrantsByAuthCode() {
	now := time.Now()
	suite.insertGrant(suite.newGrant("a1", "r1", "code-1", now))
	suite.insertGrant(suite.newGrant("a2", "r2", "code-2", now))

	deleted, err := suite.store.DeleteGrantsByAuthCode(suite.ctx, "code-1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), deleted)
	_, err = suite.store.GetGrantByAccessToken(suite.ctx, "a1")
	assert.ErrorIs(suite.T(), err, ErrGrantNotFound)
	_, err = suite.store.GetGrantByAccessToken(suite.ctx, "a2")
	assert.NoError(suite.T(), err)
}

func (suite *GrantStoreContractTestSuite) TestDeleteExpired() {
	now := time.Now()
	past := now.Add(-48 * time.Hour)

	suite.Require().NoError(suite.store.InsertAuthorizationCode(suite.ctx, model.AuthorizationCode{
		Code: "old", ClientID: "mail-app", RedirectURI: "https://mail.example.com/cb",
		Scope: scope.Parse("read_mail"), ExpiresAt: past,
	}))
	suite.Require().NoError(suite.store.InsertAuthorizationCode(suite.ctx, model.AuthorizationCode{
		Code: "fresh", ClientID: "mail-app", RedirectURI: "https://mail.example.com/cb",
		Scope: scope.Parse("read_mail"), ExpiresAt: now.Add(time.Minute),
	}))
	suite.insertGrant(suite.newGrant("a-old", "r-old", "old", past))
	suite.insertGrant(suite.newGrant("a-new", "r-new", "fresh", now))

	codes, err := suite.store.DeleteExpiredAuthorizationCodes(suite.ctx, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), codes)

	grants, err := suite.store.DeleteExpiredGrants(suite.ctx, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), grants)

	_, err = suite.store.GetAuthorizationCode(suite.ctx, "fresh")
	assert.NoError(suite.T(), err)
	_, err = suite.store.GetGrantByAccessToken(suite.ctx, "a-new")
	assert.NoError(suite.T(), err)
}

func (suite *GrantStoreContractTestSuite) TestRenewWithStaleAccessTokenFails() {
	now := time.UnixMilli(time.Now().UnixMilli())
	current := suite.newGrant("access-1", "refresh-1", "code-1", now)
	suite.insertGrant(current)

	// Both renewals keep the refresh token, as when rotation is disabled.
	first := suite.newGrant("access-2", "refresh-1", "code-1", now)
	ok, err := suite.store.RenewGrant(suite.ctx, current, first)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	ok, err = suite.store.RenewGrant(suite.ctx, current, suite.newGrant("access-3", "refresh-1", "code-1", now))
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), ok)

	grant, err := suite.store.GetGrantByRefreshToken(suite.ctx, "refresh-1")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "access-2", grant.AccessToken)
}

func TestSQLiteRedeemRollsBackWhenGrantInsertFails(t *testing.T) {
	grantStore, db := openSQLiteStore(t)
	ctx := context.Background()

	err := grantStore.InsertAuthorizationCode(ctx, model.AuthorizationCode{
		Code: "code-1", ClientID: "mail-app", RedirectURI: "https://mail.example.com/cb",
		Scope: scope.Parse("read_mail"), ExpiresAt: time.Now().Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("failed to insert authorization code: %v", err)
	}
	if _, err := db.Exec("DROP TABLE OAUTH_GRANT"); err != nil {
		t.Fatalf("failed to drop grant table: %v", err)
	}

	redeemed, err := grantStore.RedeemAuthorizationCode(ctx, "code-1", model.Grant{
		AccessToken: "access-1", RefreshToken: "refresh-1", ClientID: "mail-app", AuthCode: "code-1",
	})

	assert.Error(t, err)
	assert.False(t, redeemed)
	code, err := grantStore.GetAuthorizationCode(ctx, "code-1")
	if assert.NoError(t, err) {
		assert.False(t, code.Consumed)
	}
}
