// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package octocore

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/sirseerhq/octocore/pkg/version"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL          string
	graphqlURL       string
	userAgent        string
	tokens           oauth2.TokenSource
	transport        http.RoundTripper
	connector        Connector
	mapper           Mapper
	ratePolicy       RateLimitPolicy
	retryPolicy      RetryPolicy
	limiter          *rate.Limiter
	logger           *zap.Logger
	maxResponseSize  int64
	conditionalCache bool
}

func defaultOptions() *options {
	return &options{
		baseURL:          "https://api.github.com",
		graphqlURL:       "https://api.github.com/graphql",
		userAgent:        "octocore/" + version.Version,
		mapper:           jsonMapper{},
		ratePolicy:       WaitForReset,
		retryPolicy:      DefaultBackoffPolicy(),
		logger:           zap.NewNop(),
		maxResponseSize:  10 * 1024 * 1024,
		conditionalCache: true,
	}
}

// WithBaseURL points the client at a different REST endpoint, e.g. a
// GitHub Enterprise instance.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithGraphQLEndpoint points the GraphQL escape hatch at a different
// endpoint.
func WithGraphQLEndpoint(u string) Option {
	return func(o *options) { o.graphqlURL = u }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithToken authenticates requests with a static personal access token.
func WithToken(token string) Option {
	return func(o *options) {
		o.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	}
}

// WithTokenSource authenticates requests from a refreshing token source,
// e.g. a GitHub App installation token.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(o *options) { o.tokens = ts }
}

// WithTransport sets the base http.RoundTripper used by the default
// connector. Ignored when a custom Connector is installed.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithConnector replaces the transport layer entirely. The connector owns
// header injection and pooling; the executor only drives it.
func WithConnector(c Connector) Option {
	return func(o *options) { o.connector = c }
}

// WithMapper replaces the JSON mapper used for request and response
// bodies.
func WithMapper(m Mapper) Option {
	return func(o *options) { o.mapper = m }
}

// WithRateLimitPolicy sets the policy applied when quota is exhausted.
// The default, WaitForReset, blocks until the server replenishes the
// category.
func WithRateLimitPolicy(p RateLimitPolicy) Option {
	return func(o *options) { o.ratePolicy = p }
}

// WithRetryPolicy sets the policy applied to transient failures.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(o *options) { o.retryPolicy = p }
}

// WithThrottle enables a client-side token-bucket throttle, applied before
// every physical exchange. Useful for staying well under quota when
// sharing a token across processes.
func WithThrottle(rps float64, burst int) Option {
	return func(o *options) { o.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithLogger sets the logger for retry and rate-limit wait events. The
// default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxResponseSize caps response bodies read by the default connector.
// Zero disables the cap.
func WithMaxResponseSize(n int64) Option {
	return func(o *options) { o.maxResponseSize = n }
}

// WithConditionalCache enables or disables the validator cache backing
// automatic conditional requests. Enabled by default.
func WithConditionalCache(enabled bool) Option {
	return func(o *options) { o.conditionalCache = enabled }
}
