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

package authz

import (
	"html/template"
	"net/http"

	"github.com/appsuite/oauthd/internal/oauth/oauth2/authz/model"
	"github.com/appsuite/oauthd/internal/oauth/oauth2/constants"
	serverconst "github.com/appsuite/oauthd/internal/system/constants"
	"github.com/appsuite/oauthd/internal/system/log"
)

const hiddenFields = `
<input type="hidden" name="client_id" value="{{.Request.Client.ClientID}}">
<input type="hidden" name="redirect_uri" value="{{.Request.RedirectURI}}">
<input type="hidden" name="state" value="{{.Request.State}}">
<input type="hidden" name="response_type" value="{{.Request.ResponseType}}">
<input type="hidden" name="scope" value="{{.Request.Scope.String}}">
<input type="hidden" name="csrf_token" value="{{.CSRFToken}}">`

var loginPage = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Sign in</title></head><body>
<h1>Sign in to grant {{.Request.Client.Name}} access</h1>
{{if .LoginError}}<p class="error" data-error="{{.LoginError}}">{{.LoginErrorMessage}}</p>{{end}}
<form method="post" action="` + constants.OAuth2AuthorizationEndpoint + `">` + hiddenFields + `
<label>Login <input type="text" name="login" autocomplete="username"></label>
<label>Password <input type="password" name="password" autocomplete="current-password"></label>
<button type="submit">Sign in</button>
</form></body></html>`))

var consentPage = template.Must(template.New("consent").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Grant access</title></head><body>
<h1>{{.Request.Client.Name}} requests access to your account</h1>
{{if .Request.Client.Description}}<p>{{.Request.Client.Description}}</p>{{end}}
<ul>{{range .Request.Scope.Tokens}}<li>{{.}}</li>{{end}}</ul>
<form method="post" action="` + constants.OAuth2AuthorizationEndpoint + `">` + hiddenFields + `
<input type="hidden" name="session" value="{{.SessionID}}">
<button type="submit" name="allow" value="true">Allow</button>
<button type="submit" name="access_denied" value="true">Deny</button>
</form></body></html>`))

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Authorization failed</title></head><body>
<h1>Authorization failed</h1>
<p>{{.Description}}</p>
<p>Error: {{.Code}}{{if .ErrorID}} (id {{.ErrorID}}){{end}}</p>
</body></html>`))

var loginErrorMessages = map[string]string{
	constants.LoginErrorInvalidCredentials: "The login name or password is not correct.",
	constants.LoginErrorUpdateTask:         "Your account is currently being updated. Please try again later.",
	constants.LoginErrorGrantsExceeded:     "You have authorized too many applications. Revoke one before adding another.",
}

type pageData struct {
	Request           *model.AuthorizationRequest
	CSRFToken         string
	SessionID         string
	LoginError        string
	LoginErrorMessage string
}

type errorPageData struct {
	Code        string
	Description string
	ErrorID     string
}

func renderPage(w http.ResponseWriter, status int, page *template.Template, data any) {
	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeHTML)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(status)
	if err := page.Execute(w, data); err != nil {
		log.GetLogger().Error("Failed to render page", log.String("page", page.Name()), log.Error(err))
	}
}
