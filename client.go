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
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/shurcooL/graphql"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sirseerhq/octocore/ratelimit"
)

// Client is the shared execution pipeline behind every resource wrapper.
// It owns the process-wide rate-limit tracker and the injected policies;
// everything else about a call lives in its RequestSpec. A single Client
// is safe for concurrent use: waits block only the calling goroutine, and
// the tracker is the only mutable shared state.
type Client struct {
	connector   Connector
	baseURL     *url.URL
	graphqlURL  string
	mapper      Mapper
	tracker     *ratelimit.Tracker
	ratePolicy  RateLimitPolicy
	retryPolicy RetryPolicy
	limiter     *rate.Limiter
	waiter      *ratelimit.Waiter
	logger      *zap.Logger
	cache       *conditionalCache
	gql         *Lazy[*graphql.Client]

	requests    atomic.Uint64
	retries     atomic.Uint64
	rateLimited atomic.Uint64
}

// New creates a Client with the given options. Without options the client
// talks to public GitHub anonymously, waits on exhausted quota, retries
// idempotent requests up to three times, and keeps a conditional-request
// cache.
func New(opts ...Option) (*Client, error) {
	cfg := defaultOptions()
	for _, o := range opts {
		o(cfg)
	}

	baseURL, err := url.Parse(cfg.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.baseURL, err)
	}

	connector := cfg.connector
	if connector == nil {
		base := cfg.transport
		if base == nil {
			base = newPooledTransport()
		}
		connector = &httpConnector{
			client: &http.Client{
				Transport: &authTransport{
					tokens:      cfg.tokens,
					userAgent:   cfg.userAgent,
					base:        base,
					maxBodySize: cfg.maxResponseSize,
				},
			},
		}
	}

	c := &Client{
		connector:   connector,
		baseURL:     baseURL,
		graphqlURL:  cfg.graphqlURL,
		mapper:      cfg.mapper,
		tracker:     ratelimit.NewTracker(),
		ratePolicy:  cfg.ratePolicy,
		retryPolicy: cfg.retryPolicy,
		limiter:     cfg.limiter,
		waiter:      ratelimit.NewWaiter(cfg.logger),
		logger:      cfg.logger,
	}
	if cfg.conditionalCache {
		c.cache = newConditionalCache()
	}

	c.gql = NewLazy(func() (*graphql.Client, error) {
		httpClient := &http.Client{
			Transport: &connectorTransport{connector: c.connector, tracker: c.tracker},
		}
		return graphql.NewClient(c.graphqlURL, httpClient), nil
	})

	return c, nil
}

// RateLimits returns a snapshot of the most recently observed quota per
// category. Categories with no traffic yet are absent.
func (c *Client) RateLimits() map[ratelimit.Category]ratelimit.Quota {
	return c.tracker.Snapshot()
}

// GraphQL returns a query client for GitHub's GraphQL endpoint sharing
// this client's connector, so graphql-category quota is tracked alongside
// REST traffic. The underlying client is built on first use.
func (c *Client) GraphQL() *graphql.Client {
	g, _ := c.gql.Value()
	return g
}

// Stats is a snapshot of the client's request counters.
type Stats struct {
	// Requests counts physical HTTP exchanges, including retries.
	Requests uint64
	// Retries counts retry waits performed.
	Retries uint64
	// RateLimited counts primary and secondary rate-limit rejections.
	RateLimited uint64
}

// Stats returns a snapshot of request statistics.
func (c *Client) Stats() Stats {
	return Stats{
		Requests:    c.requests.Load(),
		Retries:     c.retries.Load(),
		RateLimited: c.rateLimited.Load(),
	}
}

// connectorTransport adapts a Connector to http.RoundTripper for the
// GraphQL client, feeding response headers into the shared tracker.
type connectorTransport struct {
	connector Connector
	tracker   *ratelimit.Tracker
}

func (t *connectorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.connector.Send(req.Context(), req)
	if err != nil {
		return nil, err
	}
	t.tracker.Observe(ratelimit.CategoryGraphQL, resp.Header)
	return resp, nil
}
