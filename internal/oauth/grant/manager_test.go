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

package grant

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	appmodel "github.com/appsuite/oauthd/internal/application/model"
	"github.com/appsuite/oauthd/internal/oauth/grant/model"
	"github.com/appsuite/oauthd/internal/oauth/grant/store"
	"github.com/appsuite/oauthd/internal/oauth/scope"
	"github.com/appsuite/oauthd/internal/system/config"
	"github.com/appsuite/oauthd/internal/system/database/client"
	dbmodel "github.com/appsuite/oauthd/internal/system/database/model"
	"github.com/appsuite/oauthd/tests/mocks/databasemock"

	_ "modernc.org/sqlite"
)

const redirectURI = "https://mail.example.com/cb"

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

type GrantManagerTestSuite struct {
	suite.Suite
	manager *GrantManager
	client  *appmodel.OAuthClient
	other   *appmodel.OAuthClient
	now     time.Time
	ctx     context.Context
}

func TestGrantManagerSuite(t *testing.T) {
	suite.Run(t, new(GrantManagerTestSuite))
}

func testOAuthConfig(renew bool) config.OAuthConfig {
	return config.OAuthConfig{
		AuthorizationCode: config.TokenConfig{ValidityPeriod: 600},
		AccessToken:       config.TokenConfig{ValidityPeriod: 3600},
		RefreshToken:      config.RefreshTokenConfig{ValidityPeriod: 86400, RenewOnGrant: &renew},
	}
}

func (suite *GrantManagerTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.UnixMilli(time.Now().UnixMilli())
	suite.manager = NewGrantManager(store.NewMemoryGrantStore(), testOAuthConfig(true), nil)
	suite.manager.now = func() time.Time { return suite.now }
	suite.client = &appmodel.OAuthClient{ClientID: "mail-app", Enabled: true, RedirectURIs: []string{redirectURI}}
	suite.other = &appmodel.OAuthClient{ClientID: "other-app", Enabled: true, RedirectURIs: []string{redirectURI}}
}

func (suite *GrantManagerTestSuite) issueCode(sc string) string {
	code, err := suite.manager.GenerateAuthorizationCodeFor(suite.ctx, suite.client.ClientID, redirectURI,
		scope.Parse(sc), 3, 1)
	suite.Require().NoError(err)
	return code
}

func (suite *GrantManagerTestSuite) redeem(code string) *model.Grant {
	grant, err := suite.manager.RedeemAuthCode(suite.ctx, suite.client, redirectURI, code)
	suite.Require().NoError(err)
	suite.Require().NotNil(grant)
	return grant
}

func (suite *GrantManagerTestSuite) TestRedeemAuthCodeRoundTrip() {
	code := suite.issueCode("write_contacts read_mail")
	assert.Regexp(suite.T(), tokenPattern, code)

	grant := suite.redeem(code)

	assert.Regexp(suite.T(), tokenPattern, grant.AccessToken)
	assert.Regexp(suite.T(), tokenPattern, grant.RefreshToken)
	assert.Equal(suite.T(), 3, grant.UserID)
	assert.Equal(suite.T(), 1, grant.ContextID)
	assert.Equal(suite.T(), "mail-app", grant.ClientID)
	assert.True(suite.T(), grant.Scope.Equal(scope.Parse("read_mail write_contacts")))
	assert.Equal(suite.T(), suite.now.Add(time.Hour), grant.ExpiresAt)

	stored, err := suite.manager.GetGrantByAccessToken(suite.ctx, grant.AccessToken)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), grant.RefreshToken, stored.RefreshToken)
}

func (suite *GrantManagerTestSuite) TestRedeemAuthCodeRejections() {
	code := suite.issueCode("read_mail")

	testCases := []struct {
		name        string
		client      *appmodel.OAuthClient
		redirectURI string
		code        string
	}{
		{name: "UnknownCode", client: suite.client, redirectURI: redirectURI, code: "deadbeef"},
		{name: "OtherClient", client: suite.other, redirectURI: redirectURI, code: code},
		{name: "TrailingSlash", client: suite.client, redirectURI: redirectURI + "/", code: code},
		{name: "ExtraQuery", client: suite.client, redirectURI: redirectURI + "?a=b", code: code},
		{name: "EmptyRedirect", client: suite.client, redirectURI: "", code: code},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			grant, err := suite.manager.RedeemAuthCode(suite.ctx, tc.client, tc.redirectURI, tc.code)
			assert.NoError(t, err)
			assert.Nil(t, grant)
		})
	}

	// The rejected attempts did not burn the code for its legitimate owner.
	assert.NotNil(suite.T(), suite.redeem(code))
}

func (suite *GrantManagerTestSuite) TestRedeemExpiredAuthCode() {
	code := suite.issueCode("read_mail")
	suite.now = suite.now.Add(601 * time.Second)

	grant, err := suite.manager.RedeemAuthCode(suite.ctx, suite.client, redirectURI, code)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), grant)
}

func (suite *GrantManagerTestSuite) TestReusedAuthCodeRevokesGrant() {
	code := suite.issueCode("read_mail")
	grant := suite.redeem(code)

	second, err := suite.manager.RedeemAuthCode(suite.ctx, suite.client, redirectURI, code)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), second)

	stored, err := suite.manager.GetGrantByAccessToken(suite.ctx, grant.AccessToken)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), stored)
}

func (suite *GrantManagerTestSuite) TestConcurrentRedemptionSucceedsOnce() {
	code := suite.issueCode("read_mail")

	assert.Equal(suite.T(), 1, redeemConcurrently(suite.T(), suite.manager, suite.client, code, 16))
}

func (suite *GrantManagerTestSuite) TestRedeemRefreshTokenRotates() {
	grant := suite.redeem(suite.issueCode("read_mail"))
	suite.now = suite.now.Add(30 * time.Minute)

	renewed, err := suite.manager.RedeemRefreshToken(suite.ctx, suite.client, grant.RefreshToken)
	suite.Require().NoError(err)
	suite.Require().NotNil(renewed)

	assert.NotEqual(suite.T(), grant.AccessToken, renewed.AccessToken)
	assert.NotEqual(suite.T(), grant.RefreshToken, renewed.RefreshToken)
	assert.Equal(suite.T(), suite.now.Add(time.Hour), renewed.ExpiresAt)
	assert.True(suite.T(), renewed.Scope.Equal(grant.Scope))

	// The previous tokens are no longer usable.
	again, err := suite.manager.RedeemRefreshToken(suite.ctx, suite.client, grant.RefreshToken)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), again)

	old, err := suite.manager.GetGrantByAccessToken(suite.ctx, grant.AccessToken)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), old)

	current, err := suite.manager.GetGrantByAccessToken(suite.ctx, renewed.AccessToken)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), current)
}

func (suite *GrantManagerTestSuite) TestRedeemRefreshTokenWithoutRotation() {
	suite.manager = NewGrantManager(store.NewMemoryGrantStore(), testOAuthConfig(false), nil)
	suite.manager.now = func() time.Time { return suite.now }
	grant := suite.redeem(suite.issueCode("read_mail"))

	renewed, err := suite.manager.RedeemRefreshToken(suite.ctx, suite.client, grant.RefreshToken)
	suite.Require().NoError(err)
	suite.Require().NotNil(renewed)

	assert.Equal(suite.T(), grant.RefreshToken, renewed.RefreshToken)
	assert.NotEqual(suite.T(), grant.AccessToken, renewed.AccessToken)

	old, err := suite.manager.GetGrantByAccessToken(suite.ctx, grant.AccessToken)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), old)
}

func (suite *GrantManagerTestSuite) TestRedeemRefreshTokenRejections() {
	grant := suite.redeem(suite.issueCode("read_mail"))

	wrongClient, err := suite.manager.RedeemRefreshToken(suite.ctx, suite.other, grant.RefreshToken)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), wrongClient)

	unknown, err := suite.manager.RedeemRefreshToken(suite.ctx, suite.client, "unknown")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), unknown)

	suite.now = suite.now.Add(25 * time.Hour)
	expired, err := suite.manager.RedeemRefreshToken(suite.ctx, suite.client, grant.RefreshToken)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), expired)
}

func (suite *GrantManagerTestSuite) TestRevokedRefreshTokenCannotBeRedeemed() {
	grant := suite.redeem(suite.issueCode("read_mail"))

	revoked, err := suite.manager.RevokeByRefreshToken(suite.ctx, grant.RefreshToken)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), revoked)

	renewed, err := suite.manager.RedeemRefreshToken(suite.ctx, suite.client, grant.RefreshToken)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), renewed)
}

func (suite *GrantManagerTestSuite) TestRevokeIsIdempotent() {
	grant := suite.redeem(suite.issueCode("read_mail"))

	first, err := suite.manager.RevokeByAccessToken(suite.ctx, grant.AccessToken)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), first)

	second, err := suite.manager.RevokeByAccessToken(suite.ctx, grant.AccessToken)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), second)
}

func (suite *GrantManagerTestSuite) TestCountGrantsAndSweep() {
	suite.redeem(suite.issueCode("read_mail"))
	suite.redeem(suite.issueCode("read_contacts"))
	suite.issueCode("read_calendar")

	count, err := suite.manager.CountGrants(suite.ctx, 3, 1)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, count)

	suite.now = suite.now.Add(48 * time.Hour)
	codes, grants, err := suite.manager.SweepExpired(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), codes)
	assert.Equal(suite.T(), int64(2), grants)
}

func (suite *GrantManagerTestSuite) TestStoreFailureIsReported() {
	manager := NewGrantManager(&failingStore{GrantStoreInterface: store.NewMemoryGrantStore()}, testOAuthConfig(true), nil)

	grant, err := manager.RedeemAuthCode(suite.ctx, suite.client, redirectURI, "code")
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), grant)

	grant, err = manager.RedeemRefreshToken(suite.ctx, suite.client, "refresh")
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), grant)
}

func (suite *GrantManagerTestSuite) TestInterleavedRefreshWithoutRotationSucceedsOnce() {
	memoryStore := store.NewMemoryGrantStore()
	suite.manager = NewGrantManager(memoryStore, testOAuthConfig(false), nil)
	suite.manager.now = func() time.Time { return suite.now }
	grant := suite.redeem(suite.issueCode("read_mail"))

	// Both requests read the grant before either of them renews it.
	snapshot, err := memoryStore.GetGrantByRefreshToken(suite.ctx, grant.RefreshToken)
	suite.Require().NoError(err)
	manager := NewGrantManager(&snapshotStore{GrantStoreInterface: memoryStore, snapshot: snapshot},
		testOAuthConfig(false), nil)
	manager.now = func() time.Time { return suite.now }

	first, err := manager.RedeemRefreshToken(suite.ctx, suite.client, grant.RefreshToken)
	suite.Require().NoError(err)
	suite.Require().NotNil(first)

	second, err := manager.RedeemRefreshToken(suite.ctx, suite.client, grant.RefreshToken)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), second)

	current, err := memoryStore.GetGrantByRefreshToken(suite.ctx, grant.RefreshToken)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), first.AccessToken, current.AccessToken)
}

func (suite *GrantManagerTestSuite) TestFailedRedemptionLeavesCodeRedeemable() {
	failing := &redeemFailingStore{GrantStoreInterface: store.NewMemoryGrantStore(), failures: 1}
	suite.manager = NewGrantManager(failing, testOAuthConfig(true), nil)
	suite.manager.now = func() time.Time { return suite.now }
	code := suite.issueCode("read_mail")

	grant, err := suite.manager.RedeemAuthCode(suite.ctx, suite.client, redirectURI, code)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), grant)

	grant = suite.redeem(code)
	assert.Equal(suite.T(), code, grant.AuthCode)
}

func TestConcurrentRedemptionOnSQLite(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "runtime.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer func() { _ = db.Close() }()

	dbClient := client.NewDBClient(dbmodel.NewDB(db), "sqlite")
	if err := store.InitializeSchema(context.Background(), dbClient); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}
	grantStore := store.NewDBGrantStore(databasemock.NewMockDBProvider(dbClient))
	manager := NewGrantManager(grantStore, testOAuthConfig(true), nil)
	oauthClient := &appmodel.OAuthClient{ClientID: "mail-app", Enabled: true, RedirectURIs: []string{redirectURI}}

	code, err := manager.GenerateAuthorizationCodeFor(context.Background(), "mail-app", redirectURI,
		scope.Parse("read_mail"), 3, 1)
	if err != nil {
		t.Fatalf("failed to issue code: %v", err)
	}

	assert.Equal(t, 1, redeemConcurrently(t, manager, oauthClient, code, 8))
}

func redeemConcurrently(t *testing.T, manager GrantManagerInterface, oauthClient *appmodel.OAuthClient,
	code string, workers int) int {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			grant, err := manager.RedeemAuthCode(context.Background(), oauthClient, redirectURI, code)
			if err != nil {
				t.Errorf("unexpected redemption error: %v", err)
				return
			}
			if grant != nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return successes
}

type failingStore struct {
	store.GrantStoreInterface
}

func (f *failingStore) GetAuthorizationCode(context.Context, string) (*model.AuthorizationCode, error) {
	return nil, errors.New("connection refused")
}

func (f *failingStore) GetGrantByRefreshToken(context.Context, string) (*model.Grant, error) {
	return nil, errors.New("connection refused")
}

type snapshotStore struct {
	store.GrantStoreInterface
	snapshot *model.Grant
}

func (s *snapshotStore) GetGrantByRefreshToken(context.Context, string) (*model.Grant, error) {
	grant := *s.snapshot
	return &grant, nil
}

type redeemFailingStore struct {
	store.GrantStoreInterface
	failures int
}

func (s *redeemFailingStore) RedeemAuthorizationCode(ctx context.Context, code string,
	grant model.Grant) (bool, error) {
	if s.failures > 0 {
		s.failures--
		return false, errors.New("failed to insert grant: connection reset")
	}
	return s.GrantStoreInterface.RedeemAuthorizationCode(ctx, code, grant)
}
