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

// Package testutil provides common test helpers for octocore
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

// MockServer wraps an httptest server with a request counter so tests can
// assert how many physical exchanges happened.
type MockServer struct {
	*httptest.Server
	requests atomic.Int32
}

// Requests returns the number of requests the server has handled.
func (s *MockServer) Requests() int {
	return int(s.requests.Load())
}

// NewMockServer creates a mock API server with a custom handler. The
// wrapper counts requests before delegating.
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	s := &MockServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// SetQuotaHeaders writes GitHub's standard rate-limit headers.
func SetQuotaHeaders(w http.ResponseWriter, limit, remaining int, reset time.Time) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
}

// NewRateLimitServer creates a mock server whose first rejectCount
// requests are rejected as rate-limited: 403 with a zero remaining count
// and a reset resetIn from now. Later requests succeed with the given
// JSON body and a replenished quota.
func NewRateLimitServer(t *testing.T, rejectCount int, resetIn time.Duration, body any) *MockServer {
	t.Helper()
	var served atomic.Int32
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if served.Add(1) <= int32(rejectCount) {
			SetQuotaHeaders(w, 5000, 0, time.Now().Add(resetIn))
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
			return
		}
		SetQuotaHeaders(w, 5000, 4999, time.Now().Add(time.Hour))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
}

// NewErrorServer creates a mock server that always returns the specified
// status with GitHub's error body shape.
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		SetQuotaHeaders(w, 5000, 4999, time.Now().Add(time.Hour))
		w.WriteHeader(statusCode)
		fmt.Fprintf(w, `{"message": %q}`, http.StatusText(statusCode))
	})
}

// NewTransientErrorServer creates a mock server that fails failCount times
// with errorCode, then succeeds with the given JSON body.
func NewTransientErrorServer(t *testing.T, failCount, errorCode int, body any) *MockServer {
	t.Helper()
	var served atomic.Int32
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		SetQuotaHeaders(w, 5000, 4999, time.Now().Add(time.Hour))
		if served.Add(1) <= int32(failCount) {
			w.WriteHeader(errorCode)
			fmt.Fprintf(w, `{"message": %q}`, http.StatusText(errorCode))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
}

// NewAbuseLimitServer creates a mock server that signals secondary rate
// limiting for rejectCount requests with the given Retry-After seconds,
// then succeeds with the given JSON body.
func NewAbuseLimitServer(t *testing.T, rejectCount, retryAfterSeconds int, body any) *MockServer {
	t.Helper()
	var served atomic.Int32
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if served.Add(1) <= int32(rejectCount) {
			// Secondary limits keep a nonzero remaining count; only the
			// Retry-After header distinguishes them from primary limits.
			SetQuotaHeaders(w, 5000, 4000, time.Now().Add(time.Hour))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message": "You have exceeded a secondary rate limit"}`)
			return
		}
		SetQuotaHeaders(w, 5000, 4999, time.Now().Add(time.Hour))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
}

// NewPaginatedServer creates a mock server that serves the given pages of
// items via Link headers, GitHub style. The page query parameter selects
// the page, defaulting to 1.
func NewPaginatedServer(t *testing.T, pages [][]map[string]any) *MockServer {
	t.Helper()
	var s *MockServer
	s = NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil || n < 1 || n > len(pages) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
				return
			}
			page = n
		}

		SetQuotaHeaders(w, 5000, 5000-page, time.Now().Add(time.Hour))
		if page < len(pages) {
			w.Header().Set("Link", fmt.Sprintf(
				`<%s%s?page=%d>; rel="next", <%s%s?page=%d>; rel="last"`,
				s.URL, r.URL.Path, page+1, s.URL, r.URL.Path, len(pages)))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pages[page-1])
	})
	return s
}

// NewETagServer creates a mock server that serves the given JSON body with
// an ETag on the first request and responds 304 to requests presenting a
// matching If-None-Match validator.
func NewETagServer(t *testing.T, etag string, body any) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		SetQuotaHeaders(w, 5000, 4999, time.Now().Add(time.Hour))
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
}
