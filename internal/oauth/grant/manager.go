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

// Package grant manages the lifecycle of authorization codes, access tokens and refresh tokens.
package grant

import (
	"context"
	"errors"
	"fmt"
	"time"

	appmodel "github.com/appsuite/oauthd/internal/application/model"
	"github.com/appsuite/oauthd/internal/oauth/grant/model"
	"github.com/appsuite/oauthd/internal/oauth/grant/store"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/constants"
	"github.com/appsuite/oauthd/internal/oauth/scope"
	"github.com/appsuite/oauthd/internal/system/config"
	"github.com/appsuite/oauthd/internal/system/log"
	"github.com/appsuite/oauthd/internal/system/metrics"
	"github.com/appsuite/oauthd/internal/system/utils"
)

const (
	loggerComponentName = "GrantManager"
	tokenByteLength     = 32
)

// GrantManagerInterface issues, redeems and revokes authorization artifacts.
// Redemption failures caused by the caller yield a nil grant and a nil error; errors signal store failures.
type GrantManagerInterface interface {
	GenerateAuthorizationCodeFor(ctx context.Context, clientID, redirectURI string, sc scope.Scope,
		userID, contextID int) (string, error)
	RedeemAuthCode(ctx context.Context, client *appmodel.OAuthClient, redirectURI, code string) (*model.Grant, error)
	RedeemRefreshToken(ctx context.Context, client *appmodel.OAuthClient, refreshToken string) (*model.Grant, error)
	RevokeByAccessToken(ctx context.Context, accessToken string) (bool, error)
	RevokeByRefreshToken(ctx context.Context, refreshToken string) (bool, error)
	GetGrantByAccessToken(ctx context.Context, accessToken string) (*model.Grant, error)
	CountGrants(ctx context.Context, userID, contextID int) (int, error)
	SweepExpired(ctx context.Context) (codes int64, grants int64, err error)
}

// GrantManager is the default implementation of GrantManagerInterface.
type GrantManager struct {
	store                 store.GrantStoreInterface
	metrics               *metrics.OAuthMetrics
	codeValidity          time.Duration
	accessTokenValidity   time.Duration
	refreshTokenValidity  time.Duration
	renewRefreshOnRefresh bool
	now                   func() time.Time
}

// NewGrantManager creates a grant manager over the given store.
func NewGrantManager(grantStore store.GrantStoreInterface, oauthConfig config.OAuthConfig,
	oauthMetrics *metrics.OAuthMetrics) *GrantManager {
	return &GrantManager{
		store:                 grantStore,
		metrics:               oauthMetrics,
		codeValidity:          time.Duration(oauthConfig.AuthorizationCode.ValidityPeriod) * time.Second,
		accessTokenValidity:   time.Duration(oauthConfig.AccessToken.ValidityPeriod) * time.Second,
		refreshTokenValidity:  time.Duration(oauthConfig.RefreshToken.ValidityPeriod) * time.Second,
		renewRefreshOnRefresh: oauthConfig.RenewRefreshTokenOnGrant(),
		now:                   time.Now,
	}
}

// GenerateAuthorizationCodeFor persists a new single use authorization code and returns it.
func (m *GrantManager) GenerateAuthorizationCodeFor(ctx context.Context, clientID, redirectURI string,
	sc scope.Scope, userID, contextID int) (string, error) {
	code, err := utils.GenerateRandomHex(tokenByteLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate authorization code: %w", err)
	}

	authzCode := model.AuthorizationCode{
		Code:        code,
		ClientID:    clientID,
		RedirectURI: redirectURI,
		UserID:      userID,
		ContextID:   contextID,
		Scope:       sc,
		ExpiresAt:   m.now().Add(m.codeValidity),
	}
	if err := m.store.InsertAuthorizationCode(ctx, authzCode); err != nil {
		return "", err
	}

	m.metrics.AuthorizationCodeIssued()
	return code, nil
}

// RedeemAuthCode exchanges an authorization code for a new grant.
func (m *GrantManager) RedeemAuthCode(ctx context.Context, client *appmodel.OAuthClient,
	redirectURI, code string) (*model.Grant, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyClientID, client.ClientID))

	authzCode, err := m.store.GetAuthorizationCode(ctx, code)
	if errors.Is(err, store.ErrAuthorizationCodeNotFound) {
		return m.rejected(constants.GrantTypeAuthorizationCode)
	}
	if err != nil {
		m.metrics.Redemption(constants.GrantTypeAuthorizationCode, metrics.OutcomeError)
		return nil, err
	}

	if authzCode.Consumed {
		logger.Warn("Authorization code presented again, revoking the grant issued from it")
		m.metrics.AuthorizationCodeReused()
		if _, err := m.store.DeleteGrantsByAuthCode(ctx, code); err != nil {
			logger.Error("Failed to revoke grant of reused authorization code", log.Error(err))
		}
		return m.rejected(constants.GrantTypeAuthorizationCode)
	}

	now := m.now()
	if authzCode.IsExpired(now) || authzCode.ClientID != client.ClientID || authzCode.RedirectURI != redirectURI {
		logger.Debug("Authorization code does not match the redemption request")
		return m.rejected(constants.GrantTypeAuthorizationCode)
	}

	grant, err := m.newGrant(now)
	if err != nil {
		return nil, err
	}
	grant.UserID = authzCode.UserID
	grant.ContextID = authzCode.ContextID
	grant.ClientID = authzCode.ClientID
	grant.Scope = authzCode.Scope
	grant.AuthCode = code

	redeemed, err := m.store.RedeemAuthorizationCode(ctx, code, *grant)
	if err != nil {
		m.metrics.Redemption(constants.GrantTypeAuthorizationCode, metrics.OutcomeError)
		return nil, err
	}
	if !redeemed {
		logger.Debug("Authorization code was redeemed concurrently")
		return m.rejected(constants.GrantTypeAuthorizationCode)
	}

	m.metrics.Redemption(constants.GrantTypeAuthorizationCode, metrics.OutcomeSuccess)
	return grant, nil
}

// RedeemRefreshToken issues a new access token for the grant of a refresh token.
// The refresh token is rotated unless rotation is disabled.
func (m *GrantManager) RedeemRefreshToken(ctx context.Context, client *appmodel.OAuthClient,
	refreshToken string) (*model.Grant, error) {
	existing, err := m.store.GetGrantByRefreshToken(ctx, refreshToken)
	if errors.Is(err, store.ErrGrantNotFound) {
		return m.rejected(constants.GrantTypeRefreshToken)
	}
	if err != nil {
		m.metrics.Redemption(constants.GrantTypeRefreshToken, metrics.OutcomeError)
		return nil, err
	}

	now := m.now()
	if existing.ClientID != client.ClientID || !now.Before(existing.RefreshExpiresAt) {
		return m.rejected(constants.GrantTypeRefreshToken)
	}

	renewed, err := m.newGrant(now)
	if err != nil {
		return nil, err
	}
	if !m.renewRefreshOnRefresh {
		renewed.RefreshToken = existing.RefreshToken
		renewed.RefreshExpiresAt = existing.RefreshExpiresAt
	}
	renewed.UserID = existing.UserID
	renewed.ContextID = existing.ContextID
	renewed.ClientID = existing.ClientID
	renewed.Scope = existing.Scope
	renewed.AuthCode = existing.AuthCode
	renewed.CreatedAt = existing.CreatedAt

	ok, err := m.store.RenewGrant(ctx, *existing, *renewed)
	if err != nil {
		m.metrics.Redemption(constants.GrantTypeRefreshToken, metrics.OutcomeError)
		return nil, err
	}
	if !ok {
		return m.rejected(constants.GrantTypeRefreshToken)
	}

	m.metrics.Redemption(constants.GrantTypeRefreshToken, metrics.OutcomeSuccess)
	return renewed, nil
}

// RevokeByAccessToken deletes the grant of an access token. It reports whether a grant existed.
func (m *GrantManager) RevokeByAccessToken(ctx context.Context, accessToken string) (bool, error) {
	revoked, err := m.store.DeleteGrantByAccessToken(ctx, accessToken)
	if revoked {
		m.metrics.Revocation(constants.AccessToken)
	}
	return revoked, err
}

// RevokeByRefreshToken deletes the grant of a refresh token. It reports whether a grant existed.
func (m *GrantManager) RevokeByRefreshToken(ctx context.Context, refreshToken string) (bool, error) {
	revoked, err := m.store.DeleteGrantByRefreshToken(ctx, refreshToken)
	if revoked {
		m.metrics.Revocation(constants.RefreshToken)
	}
	return revoked, err
}

// GetGrantByAccessToken returns the grant of an access token, or nil when none exists.
func (m *GrantManager) GetGrantByAccessToken(ctx context.Context, accessToken string) (*model.Grant, error) {
	grant, err := m.store.GetGrantByAccessToken(ctx, accessToken)
	if errors.Is(err, store.ErrGrantNotFound) {
		return nil, nil
	}
	return grant, err
}

// CountGrants returns the number of grants a user holds.
func (m *GrantManager) CountGrants(ctx context.Context, userID, contextID int) (int, error) {
	return m.store.CountGrants(ctx, userID, contextID)
}

// SweepExpired removes expired authorization codes and grants whose refresh token expired.
func (m *GrantManager) SweepExpired(ctx context.Context) (int64, int64, error) {
	now := m.now()

	codes, err := m.store.DeleteExpiredAuthorizationCodes(ctx, now)
	if err != nil {
		return 0, 0, err
	}
	m.metrics.ArtifactsSwept("authorization_code", codes)

	grants, err := m.store.DeleteExpiredGrants(ctx, now)
	if err != nil {
		return codes, 0, err
	}
	m.metrics.ArtifactsSwept("grant", grants)

	return codes, grants, nil
}

func (m *GrantManager) newGrant(now time.Time) (*model.Grant, error) {
	accessToken, err := utils.GenerateRandomHex(tokenByteLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := utils.GenerateRandomHex(tokenByteLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.Grant{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		CreatedAt:        now,
		ExpiresAt:        now.Add(m.accessTokenValidity),
		RefreshExpiresAt: now.Add(m.refreshTokenValidity),
	}, nil
}

func (m *GrantManager) rejected(grantType string) (*model.Grant, error) {
	m.metrics.Redemption(grantType, metrics.OutcomeRejected)
	return nil, nil
}
