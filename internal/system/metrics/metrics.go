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

// Package metrics exposes the prometheus instruments of the OAuth provider.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oauthd"

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// OAuthMetrics captures the issuance and redemption signals of the provider.
type OAuthMetrics struct {
	codesIssued     prometheus.Counter
	redemptions     *prometheus.CounterVec
	revocations     *prometheus.CounterVec
	codeReuse       prometheus.Counter
	sweptArtifacts  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var (
	oauthMetricsOnce sync.Once
	oauthMetrics     *OAuthMetrics
)

// OAuth returns the singleton metrics registered on the default registerer.
func OAuth() *OAuthMetrics {
	oauthMetricsOnce.Do(func() {
		oauthMetrics = newOAuthMetrics(prometheus.DefaultRegisterer)
	})
	return oauthMetrics
}

// ResetOAuthMetricsForTest resets the metrics singleton for tests.
func ResetOAuthMetricsForTest() {
	oauthMetricsOnce = sync.Once{}
	oauthMetrics = nil
}

// NewOAuthMetrics creates metrics registered on the given registerer.
func NewOAuthMetrics(registerer prometheus.Registerer) *OAuthMetrics {
	return newOAuthMetrics(registerer)
}

func newOAuthMetrics(registerer prometheus.Registerer) *OAuthMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &OAuthMetrics{
		codesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_codes_issued_total",
			Help:      "Number of authorization codes issued.",
		}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grant_redemptions_total",
			Help:      "Number of token endpoint redemptions by grant type and outcome.",
		}, []string{"grant_type", "outcome"}),
		revocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grant_revocations_total",
			Help:      "Number of grant revocations by token type.",
		}, []string{"token_type"}),
		codeReuse: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_code_reuse_total",
			Help:      "Number of redemption attempts with an already used authorization code.",
		}),
		sweptArtifacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expired_artifacts_removed_total",
			Help:      "Number of expired codes and grants removed by the cleaner.",
		}, []string{"kind"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of OAuth endpoint requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "method", "status"}),
	}

	m.codesIssued = registerCollector(registerer, m.codesIssued).(prometheus.Counter)
	m.redemptions = registerCollector(registerer, m.redemptions).(*prometheus.CounterVec)
	m.revocations = registerCollector(registerer, m.revocations).(*prometheus.CounterVec)
	m.codeReuse = registerCollector(registerer, m.codeReuse).(prometheus.Counter)
	m.sweptArtifacts = registerCollector(registerer, m.sweptArtifacts).(*prometheus.CounterVec)
	m.requestDuration = registerCollector(registerer, m.requestDuration).(*prometheus.HistogramVec)

	return m
}

// registerCollector registers c, reusing the collector already registered under the same descriptor.
func registerCollector(registerer prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := registerer.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
	}
	return c
}

// AuthorizationCodeIssued records a newly issued authorization code.
func (m *OAuthMetrics) AuthorizationCodeIssued() {
	if m == nil {
		return
	}
	m.codesIssued.Inc()
}

// Redemption records the outcome of a token endpoint redemption.
func (m *OAuthMetrics) Redemption(grantType, outcome string) {
	if m == nil {
		return
	}
	m.redemptions.WithLabelValues(grantType, outcome).Inc()
}

// Revocation records a revoked grant.
func (m *OAuthMetrics) Revocation(tokenType string) {
	if m == nil {
		return
	}
	m.revocations.WithLabelValues(tokenType).Inc()
}

// AuthorizationCodeReused records a redemption attempt with a consumed code.
func (m *OAuthMetrics) AuthorizationCodeReused() {
	if m == nil {
		return
	}
	m.codeReuse.Inc()
}

// ArtifactsSwept records the number of expired artifacts removed.
func (m *OAuthMetrics) ArtifactsSwept(kind string, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.sweptArtifacts.WithLabelValues(kind).Add(float64(count))
}

// InstrumentHandler observes the latency of requests served by next.
func (m *OAuthMetrics) InstrumentHandler(endpoint string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		m.requestDuration.WithLabelValues(endpoint, r.Method, strconv.Itoa(sw.status)).
			Observe(time.Since(start).Seconds())
	})
}

// Handler returns the HTTP handler serving the default gatherer.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
