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

// Package authz implements the interactive OAuth2 authorization endpoint.
package authz

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/appsuite/oauthd/internal/notification"
	"github.com/appsuite/oauthd/internal/oauth/grant"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/authz/model"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/constants"
	sessionmodel "github.com/appsuite/oauthd/internal/oauth/session/model"
	sessionstore "github.com/appsuite/oauthd/internal/oauth/session/store"
	"github.com/appsuite/oauthd/internal/system/config"
	"github.com/appsuite/oauthd/internal/system/crypto/hash"
	"github.com/appsuite/oauthd/internal/system/log"
	"github.com/appsuite/oauthd/internal/system/utils"
	"github.com/appsuite/oauthd/internal/user"
)

const (
	loggerComponentName = "AuthorizeHandler"
	csrfTokenByteLength = 16
	notificationTimeout = 30 * time.Second
)

// AuthorizeHandlerInterface defines the OAuth2 authorization endpoint.
type AuthorizeHandlerInterface interface {
	HandleAuthorizeRequest(w http.ResponseWriter, r *http.Request)
}

// AuthorizeHandler drives the login and consent steps of the authorization code flow.
type AuthorizeHandler struct {
	validator       AuthorizationValidatorInterface
	grantManager    grant.GrantManagerInterface
	userService     user.UserServiceInterface
	sessionStore    sessionstore.SessionStoreInterface
	notifier        notification.NotifierInterface
	oauthConfig     config.OAuthConfig
	sessionValidity time.Duration
	trustedProxies  utils.TrustedProxies
	now             func() time.Time
}

// NewAuthorizeHandler creates a new instance of AuthorizeHandler.
func NewAuthorizeHandler(validator AuthorizationValidatorInterface, grantManager grant.GrantManagerInterface,
	userService user.UserServiceInterface, sessionStore sessionstore.SessionStoreInterface,
	notifier notification.NotifierInterface, oauthConfig config.OAuthConfig,
	sessionValidity time.Duration, trustedProxies utils.TrustedProxies) AuthorizeHandlerInterface {
	return &AuthorizeHandler{
		validator:       validator,
		grantManager:    grantManager,
		userService:     userService,
		sessionStore:    sessionStore,
		notifier:        notifier,
		oauthConfig:     oauthConfig,
		sessionValidity: sessionValidity,
		trustedProxies:  trustedProxies,
		now:             time.Now,
	}
}

// HandleAuthorizeRequest handles the GET (render) and POST (action) requests of the authorization endpoint.
func (ah *AuthorizeHandler) HandleAuthorizeRequest(w http.ResponseWriter, r *http.Request) {
	if !ah.oauthConfig.AllowInsecureTransport && !utils.IsSecureRequest(r) {
		http.Redirect(w, r, utils.GetRequestURL(r, "https"), http.StatusMovedPermanently)
		return
	}

	switch r.Method {
	case http.MethodGet:
		ah.handleRender(w, r)
	case http.MethodPost:
		ah.handleAction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		ah.renderError(w, http.StatusMethodNotAllowed, constants.ErrorInvalidRequest, "Method not allowed")
	}
}

// handleRender validates the request and renders the login or the consent page.
func (ah *AuthorizeHandler) handleRender(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))
	query := r.URL.Query()

	authzRequest, ok := ah.validateRequest(w, r, query)
	if !ok {
		return
	}

	csrfToken, err := ah.issueCSRFToken(w, r)
	if err != nil {
		logger.Error("Failed to issue CSRF token", log.Error(err))
		ah.redirectWithError(w, r, authzRequest, constants.ErrorTemporarilyUnavailable, "")
		return
	}

	data := pageData{Request: authzRequest, CSRFToken: csrfToken}

	if sessionID := query.Get(constants.Session); sessionID != "" {
		session, err := ah.resolveSession(r, authzRequest, sessionID)
		if err != nil {
			logger.Error("Failed to resolve login session", log.Error(err))
			ah.redirectWithError(w, r, authzRequest, constants.ErrorTemporarilyUnavailable, "")
			return
		}
		if session != nil {
			data.SessionID = session.ID
			renderPage(w, http.StatusOK, consentPage, data)
			return
		}
	}

	if message, known := loginErrorMessages[query.Get(constants.Error)]; known {
		data.LoginError = query.Get(constants.Error)
		data.LoginErrorMessage = message
	}
	renderPage(w, http.StatusOK, loginPage, data)
}

// handleAction processes a login or a consent submission.
func (ah *AuthorizeHandler) handleAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ah.renderError(w, http.StatusBadRequest, constants.ErrorInvalidRequest, "Malformed request body")
		return
	}

	if !ah.verifyCSRF(r) {
		ah.renderError(w, http.StatusForbidden, constants.ErrorInvalidRequest, "The request could not be verified")
		return
	}

	authzRequest, ok := ah.validateRequest(w, r, r.PostForm)
	if !ok {
		return
	}

	if sessionID := r.PostForm.Get(constants.Session); sessionID != "" {
		ah.handleConsent(w, r, authzRequest, sessionID)
		return
	}
	ah.handleLogin(w, r, authzRequest)
}

// handleLogin authenticates the user and binds a new login session to this authorization request.
func (ah *AuthorizeHandler) handleLogin(w http.ResponseWriter, r *http.Request,
	authzRequest *model.AuthorizationRequest) {
	ctx := r.Context()
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyClientID, authzRequest.Client.ClientID))

	usr, svcErr := ah.userService.Authenticate(ctx, r.PostForm.Get(constants.Login), r.PostForm.Get(constants.Password))
	if svcErr != nil && !svcErr.IsClientError() {
		logger.Error("Failed to authenticate user", log.String("errorCode", svcErr.Code))
		ah.redirectWithError(w, r, authzRequest, constants.ErrorServerError, "")
		return
	}
	if svcErr != nil {
		loginError := constants.LoginErrorInvalidCredentials
		if svcErr.Code == user.ErrorCodeUpdateTask {
			loginError = constants.LoginErrorUpdateTask
		}
		ah.redirectToSelf(w, r, authzRequest, map[string]string{constants.Error: loginError})
		return
	}

	if ah.oauthConfig.MaxGrantsPerUser > 0 {
		count, err := ah.grantManager.CountGrants(ctx, usr.ID, usr.ContextID)
		if err != nil {
			logger.Error("Failed to count grants of user", log.Error(err))
			ah.redirectWithError(w, r, authzRequest, constants.ErrorServerError, "")
			return
		}
		if count >= ah.oauthConfig.MaxGrantsPerUser {
			logger.Debug("User reached the maximum number of grants", log.Int("grants", count))
			ah.redirectToSelf(w, r, authzRequest,
				map[string]string{constants.Error: constants.LoginErrorGrantsExceeded})
			return
		}
	}

	secret, err := utils.GenerateRandomHex(32)
	if err != nil {
		logger.Error("Failed to generate session secret", log.Error(err))
		ah.redirectWithError(w, r, authzRequest, constants.ErrorServerError, "")
		return
	}
	now := ah.now()
	session := sessionmodel.LoginSession{
		ID:        utils.GenerateUUID(),
		Secret:    secret,
		UserID:    usr.ID,
		ContextID: usr.ContextID,
		Login:     usr.Login,
		ClientIP:  utils.GetClientIP(r, ah.trustedProxies),
		Guest:     usr.Guest,
		CreatedAt: now,
		ExpiresAt: now.Add(ah.sessionValidity),
	}
	if err := ah.sessionStore.SaveSession(ctx, session); err != nil {
		logger.Error("Failed to store login session", log.Error(err))
		ah.redirectWithError(w, r, authzRequest, constants.ErrorTemporarilyUnavailable, "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ah.sessionCookieName(r, authzRequest),
		Value:    secret,
		Path:     constants.OAuth2AuthorizationEndpoint,
		MaxAge:   int(ah.sessionValidity.Seconds()),
		HttpOnly: true,
		Secure:   utils.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
	ah.redirectToSelf(w, r, authzRequest, map[string]string{constants.Session: session.ID})
}

// handleConsent mints an authorization code when the user allowed access.
func (ah *AuthorizeHandler) handleConsent(w http.ResponseWriter, r *http.Request,
	authzRequest *model.AuthorizationRequest, sessionID string) {
	ctx := r.Context()
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyClientID, authzRequest.Client.ClientID))

	session, err := ah.resolveSession(r, authzRequest, sessionID)
	if err != nil {
		logger.Error("Failed to resolve login session", log.Error(err))
		ah.redirectWithError(w, r, authzRequest, constants.ErrorTemporarilyUnavailable, "")
		return
	}
	if session == nil {
		ah.redirectToSelf(w, r, authzRequest, nil)
		return
	}
	ah.endSession(w, r, authzRequest, session.ID)

	if r.PostForm.Get(constants.AccessDenied) == "true" {
		ah.redirectWithError(w, r, authzRequest, constants.ErrorAccessDenied, "")
		return
	}

	usr, svcErr := ah.userService.GetUser(ctx, session.UserID, session.ContextID)
	if svcErr != nil || session.Guest || !usr.CanGrantAccess() {
		logger.Debug("User is not allowed to grant access", log.Int("userID", session.UserID),
			log.Int("contextID", session.ContextID))
		ah.redirectWithError(w, r, authzRequest, constants.ErrorAccessDenied, "")
		return
	}

	code, err := ah.grantManager.GenerateAuthorizationCodeFor(ctx, authzRequest.Client.ClientID,
		authzRequest.RedirectURI, authzRequest.Scope, usr.ID, usr.ContextID)
	if err != nil {
		logger.Error("Failed to generate authorization code", log.Error(err))
		ah.redirectWithError(w, r, authzRequest, constants.ErrorServerError, "")
		return
	}

	go ah.notifyGrantCreated(usr, authzRequest, session.ClientIP)

	redirectURI, err := utils.GetURIWithQueryParams(authzRequest.RedirectURI, map[string]string{
		constants.Code:  code,
		constants.State: authzRequest.State,
	})
	if err != nil {
		logger.Error("Failed to construct redirect URI", log.Error(err))
		ah.renderError(w, http.StatusInternalServerError, constants.ErrorServerError, "")
		return
	}
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

func (ah *AuthorizeHandler) notifyGrantCreated(usr *user.User, authzRequest *model.AuthorizationRequest,
	clientIP string) {
	ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
	defer cancel()

	err := ah.notifier.NotifyGrantCreated(ctx, notification.GrantNotification{
		Mail:        usr.Mail,
		DisplayName: usr.DisplayName,
		ClientName:  authzRequest.Client.Name,
		Scope:       authzRequest.Scope.Tokens(),
		ClientIP:    clientIP,
		CreatedAt:   ah.now(),
	})
	if err != nil {
		log.GetLogger().Warn("Failed to send grant notification",
			log.String(log.LoggerKeyComponentName, loggerComponentName),
			log.String(log.LoggerKeyClientID, authzRequest.Client.ClientID), log.Error(err))
	}
}

// validateRequest writes the error response and returns false when the request is invalid.
func (ah *AuthorizeHandler) validateRequest(w http.ResponseWriter, r *http.Request,
	params url.Values) (*model.AuthorizationRequest, bool) {
	authzRequest, validationErr := ah.validator.ValidateAuthorizationRequest(params)
	if validationErr == nil {
		return authzRequest, true
	}

	if validationErr.Redirectable {
		ah.redirectWithError(w, r, authzRequest, validationErr.Code, validationErr.Description)
	} else {
		ah.renderError(w, http.StatusBadRequest, validationErr.Code, validationErr.Description)
	}
	return nil, false
}

// resolveSession returns the login session bound to this authorization request, or nil when none is usable.
func (ah *AuthorizeHandler) resolveSession(r *http.Request, authzRequest *model.AuthorizationRequest,
	sessionID string) (*sessionmodel.LoginSession, error) {
	session, err := ah.sessionStore.GetSession(r.Context(), sessionID)
	if errors.Is(err, sessionstore.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cookie, err := r.Cookie(ah.sessionCookieName(r, authzRequest))
	if err != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(session.Secret)) != 1 {
		return nil, nil
	}
	if ah.oauthConfig.CheckIP && session.ClientIP != utils.GetClientIP(r, ah.trustedProxies) {
		log.GetLogger().Warn("Login session used from a different address",
			log.String(log.LoggerKeyComponentName, loggerComponentName),
			log.String(log.LoggerKeyClientID, authzRequest.Client.ClientID))
		return nil, nil
	}
	return session, nil
}

func (ah *AuthorizeHandler) endSession(w http.ResponseWriter, r *http.Request,
	authzRequest *model.AuthorizationRequest, sessionID string) {
	if err := ah.sessionStore.DeleteSession(r.Context(), sessionID); err != nil {
		log.GetLogger().Warn("Failed to delete login session", log.Error(err))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ah.sessionCookieName(r, authzRequest),
		Value:    "",
		Path:     constants.OAuth2AuthorizationEndpoint,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   utils.IsSecureRequest(r),
	})
}

func (ah *AuthorizeHandler) sessionCookieName(r *http.Request, authzRequest *model.AuthorizationRequest) string {
	return constants.SessionSecretCookiePrefix + SessionHash(r.UserAgent(), ah.oauthConfig.LoginClientName,
		authzRequest.Client.ClientID, authzRequest.RedirectURI, authzRequest.State)
}

// SessionHash derives the name suffix of the secret cookie from the authorization request.
// Sessions established for a different request stay invisible.
func SessionHash(userAgent, loginClientName, clientID, redirectURI, state string) string {
	return hash.HashString(userAgent + loginClientName + clientID + redirectURI + state)
}

// issueCSRFToken stores a fresh CSRF token under the CSRF session of the browser.
func (ah *AuthorizeHandler) issueCSRFToken(w http.ResponseWriter, r *http.Request) (string, error) {
	csrfSessionID := ""
	if cookie, err := r.Cookie(constants.CSRFSessionCookieName); err == nil {
		csrfSessionID = cookie.Value
	}
	if csrfSessionID == "" {
		csrfSessionID = utils.GenerateUUID()
		http.SetCookie(w, &http.Cookie{
			Name:     constants.CSRFSessionCookieName,
			Value:    csrfSessionID,
			Path:     constants.OAuth2AuthorizationEndpoint,
			HttpOnly: true,
			Secure:   utils.IsSecureRequest(r),
			SameSite: http.SameSiteLaxMode,
		})
	}

	token, err := utils.GenerateRandomHex(csrfTokenByteLength)
	if err != nil {
		return "", err
	}
	if err := ah.sessionStore.SaveCSRFToken(r.Context(), csrfSessionID, token); err != nil {
		return "", err
	}
	return token, nil
}

// verifyCSRF checks the Referer host and the CSRF token of a form submission.
func (ah *AuthorizeHandler) verifyCSRF(r *http.Request) bool {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	referer, err := url.Parse(r.Referer())
	if r.Referer() == "" || err != nil || referer.Host != r.Host {
		logger.Debug("Rejected form submission with a foreign referer", log.String("referer", r.Referer()))
		return false
	}

	cookie, err := r.Cookie(constants.CSRFSessionCookieName)
	if err != nil || cookie.Value == "" {
		logger.Debug("Rejected form submission without CSRF session")
		return false
	}
	expected, err := ah.sessionStore.GetCSRFToken(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, sessionstore.ErrCSRFTokenNotFound) {
			logger.Error("Failed to read CSRF token", log.Error(err))
		}
		return false
	}

	provided := r.PostForm.Get(constants.CSRFToken)
	return provided != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

// redirectToSelf sends the browser back to the authorization endpoint for the same request.
func (ah *AuthorizeHandler) redirectToSelf(w http.ResponseWriter, r *http.Request,
	authzRequest *model.AuthorizationRequest, extra map[string]string) {
	params := authzRequest.QueryParams()
	for key, value := range extra {
		params[key] = value
	}
	if language := r.FormValue(constants.Language); language != "" {
		params[constants.Language] = language
	}

	target, err := utils.GetURIWithQueryParams(constants.OAuth2AuthorizationEndpoint, params)
	if err != nil {
		ah.renderError(w, http.StatusInternalServerError, constants.ErrorServerError, "")
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// redirectWithError sends an OAuth error to the verified redirect URI of the client.
func (ah *AuthorizeHandler) redirectWithError(w http.ResponseWriter, r *http.Request,
	authzRequest *model.AuthorizationRequest, code, description string) {
	params := map[string]string{constants.Error: code}
	if description != "" {
		params[constants.ErrorDescription] = description
	}
	if authzRequest.State != "" {
		params[constants.State] = authzRequest.State
	}

	target, err := utils.GetURIWithQueryParams(authzRequest.RedirectURI, params)
	if err != nil {
		ah.renderError(w, http.StatusInternalServerError, constants.ErrorServerError, "")
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// renderError shows an in-page error. Server errors carry an id that correlates with the log entry.
func (ah *AuthorizeHandler) renderError(w http.ResponseWriter, status int, code, description string) {
	data := errorPageData{Code: code, Description: description}
	if status >= http.StatusInternalServerError {
		data.ErrorID = utils.GenerateUUID()
		data.Description = "An internal error occurred."
		log.GetLogger().Error("Authorization request failed",
			log.String(log.LoggerKeyComponentName, loggerComponentName), log.String("errorID", data.ErrorID))
	}
	renderPage(w, status, errorPage, data)
}
