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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirseerhq/octocore/ratelimit"
)

// Sentinel errors for classifying failures with errors.Is. The typed error
// structs below all match one of these, so callers can branch on the kind
// without unpacking the struct.
var (
	// ErrRateLimit indicates the primary rate-limit quota for a category
	// is exhausted and the configured policy chose to fail rather than wait.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrAbuseLimit indicates GitHub's secondary (abuse) rate limiting,
	// a short-lived throttle independent of the numeric quota.
	ErrAbuseLimit = errors.New("github secondary rate limit hit")

	// ErrNetworkFailure indicates the connector could not complete the
	// HTTP exchange.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRetryExhausted indicates the retry budget was spent without a
	// successful exchange.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrDecode indicates the response body could not be decoded into the
	// requested shape. This is never retried: it signals schema drift, not
	// a transient condition.
	ErrDecode = errors.New("response body decode failed")
)

// RateLimitError is returned when quota is exhausted under a failing
// policy. It carries the observed quota record so callers can inspect the
// remaining wait.
type RateLimitError struct {
	Quota ratelimit.Quota
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limit exhausted: 0 of %d remaining, resets at %s",
		e.Quota.Category, e.Quota.Limit, e.Quota.Reset.Format(time.RFC3339))
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimit }

// AbuseLimitError is returned when GitHub signals secondary rate limiting
// and the retry budget could not absorb it. RetryAfter is the server's
// suggested delay, zero when the server gave none.
type AbuseLimitError struct {
	RetryAfter time.Duration
}

func (e *AbuseLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("secondary rate limit hit, retry after %s", e.RetryAfter)
	}
	return "secondary rate limit hit"
}

func (e *AbuseLimitError) Is(target error) bool { return target == ErrAbuseLimit }

// TransportError wraps an I/O failure from the connector.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrNetworkFailure }

// APIError represents a non-2xx response from the API. GitHub error bodies
// carry a human-readable message and a documentation link; both are parsed
// when present.
type APIError struct {
	StatusCode       int
	URL              string
	Message          string
	DocumentationURL string
	Body             []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github API error %d on %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("github API error %d on %s", e.StatusCode, e.URL)
}

// ClientError reports whether the response was a 4xx. Client errors
// indicate a caller mistake and are never retried.
func (e *APIError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// ServerError reports whether the response was a 5xx.
func (e *APIError) ServerError() bool {
	return e.StatusCode >= 500
}

// newAPIError builds an APIError from a response, extracting GitHub's
// standard error body when it parses.
func newAPIError(url string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		URL:        url,
		Body:       body,
	}

	var parsed struct {
		Message          string `json:"message"`
		DocumentationURL string `json:"documentation_url"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Message = parsed.Message
		apiErr.DocumentationURL = parsed.DocumentationURL
	}

	return apiErr
}

// DecodeError wraps a deserialization failure. Terminal and non-retryable.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// RetryExhaustedError wraps the last failure after the retry budget was
// spent. Attempts counts physical exchanges, including the first.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }

func (e *RetryExhaustedError) Is(target error) bool { return target == ErrRetryExhausted }

// statusSuccess reports whether a status code is in the 2xx range.
func statusSuccess(code int) bool {
	return code >= 200 && code < 300
}
