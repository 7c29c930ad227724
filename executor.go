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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sirseerhq/octocore/ratelimit"
)

// Response is the observable outcome of one logical call: the final
// status, the response headers (rate-limit and pagination metadata
// included), and the raw body bytes. NotModified is set when the server
// answered 304 to a conditional request; the body is empty in that case
// and the caller's previous value remains valid.
type Response struct {
	StatusCode  int
	Header      http.Header
	Body        []byte
	NotModified bool
}

// ETag returns the response's entity validator, if any.
func (r *Response) ETag() string { return r.Header.Get("ETag") }

// Execute runs a logical call and decodes the 2xx response body into T.
// Decode failures surface as *DecodeError and are never retried. For
// conditional requests answered with 304, the previously cached value is
// returned without invoking the Mapper; when the caller supplied the
// validator explicitly via RequestBuilder.ETag, the zero value of T is
// returned alongside a Response with NotModified set, and the caller's own
// copy stays authoritative.
func Execute[T any](ctx context.Context, c *Client, spec RequestSpec) (T, *Response, error) {
	var zero T

	var cached *cacheEntry
	if c.cache != nil && spec.method == http.MethodGet && spec.etag == "" {
		if entry, ok := c.cache.get(cacheKey(c, spec)); ok {
			cached = &entry
			spec.etag = entry.etag
		}
	}

	resp, err := c.do(ctx, spec, "")
	if err != nil {
		return zero, nil, err
	}

	if resp.NotModified {
		if cached == nil {
			return zero, resp, nil
		}
		if v, ok := cached.value.(T); ok {
			return v, resp, nil
		}
		// The entry was decoded for a different target type. Drop the
		// validator and fetch a fresh representation to decode as T.
		c.cache.remove(cacheKey(c, spec))
		spec.etag = ""
		resp, err = c.do(ctx, spec, "")
		if err != nil {
			return zero, nil, err
		}
	}

	if len(resp.Body) == 0 || resp.StatusCode == http.StatusNoContent {
		return zero, resp, nil
	}

	var v T
	if err := c.mapper.Decode(resp.Body, &v); err != nil {
		return zero, resp, &DecodeError{Err: err}
	}

	if c.cache != nil && spec.method == http.MethodGet {
		if tag := resp.ETag(); tag != "" {
			c.cache.put(cacheKey(c, spec), tag, v)
		}
	}

	return v, resp, nil
}

// Do runs a logical call and returns the raw response without decoding.
// It is the escape hatch for callers that handle bodies themselves and the
// building block the typed entry points share.
func (c *Client) Do(ctx context.Context, spec RequestSpec) (*Response, error) {
	return c.do(ctx, spec, "")
}

// do is the per-call state machine. It loops through sending, rate-limit
// waits, and retry waits until the call succeeds, fails terminally, or the
// context is cancelled. pageURL, when non-empty, overrides the spec's path
// with an absolute next-page URL from a Link header.
func (c *Client) do(ctx context.Context, spec RequestSpec, pageURL string) (*Response, error) {
	u, err := c.resolveURL(spec, pageURL)
	if err != nil {
		return nil, err
	}
	category := ratelimit.CategoryForPath(u.Path)

	var retries int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		// Pre-flight: a tracked, exhausted quota means the server would
		// reject this request; consult the policy before spending the call.
		if q, ok := c.tracker.Quota(category); ok && q.Exhausted(time.Now()) {
			if err := c.quotaExhausted(ctx, category, q); err != nil {
				return nil, err
			}
		}

		req, err := c.buildHTTPRequest(ctx, u, spec)
		if err != nil {
			return nil, err
		}

		c.requests.Add(1)
		httpResp, sendErr := c.connector.Send(ctx, req)
		if sendErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			retries, err = c.maybeRetry(ctx, spec, Attempt{
				Count:      retries,
				Err:        sendErr,
				Idempotent: spec.idempotent,
			}, sendErr)
			if err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(httpResp.Body)
		closeErr := httpResp.Body.Close()
		if readErr == nil {
			readErr = closeErr
		}
		if readErr != nil {
			terr := &TransportError{URL: u.String(), Err: readErr}
			retries, err = c.maybeRetry(ctx, spec, Attempt{
				Count:      retries,
				Err:        terr,
				Idempotent: spec.idempotent,
			}, terr)
			if err != nil {
				return nil, err
			}
			continue
		}

		// Every response feeds the tracker, including rejections and 304s.
		c.tracker.Observe(category, httpResp.Header)

		resp := &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       body,
		}

		switch {
		case resp.StatusCode == http.StatusNotModified:
			resp.NotModified = true
			resp.Body = nil
			return resp, nil
		case statusSuccess(resp.StatusCode):
			return resp, nil
		}

		if ratelimit.IsRateLimited(resp.StatusCode, resp.Header) {
			c.rateLimited.Add(1)
			q, _ := ratelimit.ParseHeaders(category, resp.Header)
			// Rate-limit waits do not consume the retry budget; the server
			// told us exactly when capacity returns.
			if err := c.quotaExhausted(ctx, category, q); err != nil {
				return nil, err
			}
			continue
		}

		var failure error
		if ratelimit.IsSecondaryLimit(resp.StatusCode, resp.Header) {
			c.rateLimited.Add(1)
			after, _ := ratelimit.RetryAfter(resp.Header)
			failure = &AbuseLimitError{RetryAfter: after}
		} else {
			apiErr := newAPIError(u.String(), resp.StatusCode, body)
			if apiErr.ClientError() {
				// A 4xx outside the rate-limit contract is a caller
				// mistake; retrying cannot fix it.
				return nil, apiErr
			}
			failure = apiErr
		}

		retries, err = c.maybeRetry(ctx, spec, Attempt{
			Count:      retries,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Err:        failure,
			Idempotent: spec.idempotent,
		}, failure)
		if err != nil {
			return nil, err
		}
	}
}

// maybeRetry consults the retry policy for a failed attempt. On a retry
// decision it performs the backoff sleep and returns the incremented retry
// count; otherwise it returns the terminal error, wrapped as retry
// exhaustion when at least one retry already happened.
func (c *Client) maybeRetry(ctx context.Context, spec RequestSpec, a Attempt, failure error) (int, error) {
	decision := c.retryPolicy.ShouldRetry(a)
	if !decision.Retry {
		if a.Count > 0 {
			return 0, &RetryExhaustedError{Attempts: a.Count + 1, Err: failure}
		}
		return 0, failure
	}

	c.retries.Add(1)
	c.logger.Debug("retrying request",
		zap.String("method", spec.method),
		zap.String("path", spec.path),
		zap.Int("retry", a.Count+1),
		zap.Duration("backoff", decision.Delay),
		zap.NamedError("cause", failure))

	if err := c.waiter.Wait(ctx, decision.Delay); err != nil {
		return 0, err
	}
	return a.Count + 1, nil
}

// quotaExhausted applies the rate-limit policy for an exhausted quota,
// performing the chosen wait. A nil return means the caller should try
// sending again.
func (c *Client) quotaExhausted(ctx context.Context, category ratelimit.Category, q ratelimit.Quota) error {
	if q.Category == "" {
		q.Category = category
	}

	action := c.ratePolicy.OnQuotaExhausted(category, q)
	switch action.Kind {
	case ActionFail:
		return &RateLimitError{Quota: q}
	case ActionDelay:
		c.logger.Warn("rate limit exhausted, applying policy delay",
			zap.String("category", string(category)),
			zap.Duration("delay", action.Delay))
		return c.waiter.Wait(ctx, action.Delay)
	default:
		return c.waiter.WaitUntilReset(ctx, q)
	}
}

// resolveURL combines the base URL, the spec's path and query parameters,
// and the page-size hint. An absolute pageURL from a Link header wins
// outright: the server's cursor already encodes the full query.
func (c *Client) resolveURL(spec RequestSpec, pageURL string) (*url.URL, error) {
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil {
			return nil, fmt.Errorf("invalid next-page URL %q: %w", pageURL, err)
		}
		return u, nil
	}

	rel, err := url.Parse(spec.path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", spec.path, err)
	}
	u := c.baseURL.ResolveReference(rel)

	q := u.Query()
	for key, vals := range spec.query {
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	if spec.pageSize > 0 && q.Get("per_page") == "" {
		q.Set("per_page", strconv.Itoa(spec.pageSize))
	}
	u.RawQuery = q.Encode()

	return u, nil
}

// buildHTTPRequest materializes the spec into an *http.Request. Called
// fresh for every physical attempt so body readers are never reused.
func (c *Client) buildHTTPRequest(ctx context.Context, u *url.URL, spec RequestSpec) (*http.Request, error) {
	var bodyReader io.Reader
	encoded := false
	switch {
	case spec.hasRawBody:
		bodyReader = bytes.NewReader(spec.rawBody)
	case spec.hasBody:
		data, err := c.mapper.Encode(spec.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		encoded = true
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, vals := range spec.header {
		req.Header[key] = append([]string(nil), vals...)
	}
	if encoded && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if spec.etag != "" {
		req.Header.Set("If-None-Match", spec.etag)
	}

	return req, nil
}
