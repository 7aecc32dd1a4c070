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

package log

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/appsuite/oauthd/internal/system/constants"
)

const accessLogTimeFormat = "02/Jan/2006:15:04:05 -0700"

// AccessLogHandler logs HTTP requests in the Apache combined log format followed by the response time.
// Query strings are never logged: they carry authorization codes and tokens.
func AccessLogHandler(logger *Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		recorder := &accessRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		logger.Info(fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s" %d`,
			remoteHost(r),
			start.Format(accessLogTimeFormat),
			r.Method,
			r.URL.Path,
			r.Proto,
			recorder.status,
			recorder.bytes,
			withoutQuery(r.Referer()),
			orDash(r.UserAgent()),
			time.Since(start).Milliseconds(),
		))
	})
}

// remoteHost prefers the first X-Forwarded-For entry over the peer address.
func remoteHost(r *http.Request) string {
	if forwarded := r.Header.Get(constants.ForwardedForHeaderName); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return r.RemoteAddr
	}
	return host
}

func withoutQuery(rawURL string) string {
	if rawURL == "" {
		return "-"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "-"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type accessRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (a *accessRecorder) WriteHeader(code int) {
	a.status = code
	a.ResponseWriter.WriteHeader(code)
}

func (a *accessRecorder) Write(b []byte) (int, error) {
	n, err := a.ResponseWriter.Write(b)
	a.bytes += n
	return n, err
}
