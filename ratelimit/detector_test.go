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

package ratelimit

import (
	"net/http"
	"testing"
	"time"
)

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		remaining string
		want      bool
	}{
		{"403 with spent quota", 403, "0", true},
		{"429 with spent quota", 429, "0", true},
		{"403 with quota left is an auth failure", 403, "4000", false},
		{"403 without headers", 403, "", false},
		{"200 with spent quota", 200, "0", false},
		{"500", 500, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.remaining != "" {
				h.Set("X-RateLimit-Remaining", tt.remaining)
			}
			if got := IsRateLimited(tt.status, h); got != tt.want {
				t.Errorf("IsRateLimited(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestIsSecondaryLimit(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		retryAfter string
		remaining  string
		want       bool
	}{
		{"403 with retry-after and quota left", 403, "60", "4000", true},
		{"429 with retry-after and quota left", 429, "30", "100", true},
		{"429 with retry-after, no quota headers", 429, "30", "", true},
		{"403 with spent quota is primary", 403, "60", "0", false},
		{"403 without retry-after", 403, "", "4000", false},
		{"200 with retry-after", 200, "60", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.retryAfter != "" {
				h.Set("Retry-After", tt.retryAfter)
			}
			if tt.remaining != "" {
				h.Set("X-RateLimit-Remaining", tt.remaining)
			}
			if got := IsSecondaryLimit(tt.status, h); got != tt.want {
				t.Errorf("IsSecondaryLimit(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "42")

	d, ok := RetryAfter(h)
	if !ok || d != 42*time.Second {
		t.Errorf("RetryAfter = (%v, %v), want (42s, true)", d, ok)
	}
}

func TestRetryAfterHTTPDate(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", time.Now().Add(90*time.Second).UTC().Format(time.RFC1123))

	d, ok := RetryAfter(h)
	if !ok {
		t.Fatal("expected HTTP-date Retry-After to parse")
	}
	if d <= 0 || d > 91*time.Second {
		t.Errorf("RetryAfter = %v, want roughly 90s", d)
	}
}

func TestRetryAfterPastDateClampsToZero(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", time.Now().Add(-time.Minute).UTC().Format(time.RFC1123))

	d, ok := RetryAfter(h)
	if !ok || d != 0 {
		t.Errorf("RetryAfter = (%v, %v), want (0, true)", d, ok)
	}
}

func TestRetryAfterMissingOrGarbage(t *testing.T) {
	if _, ok := RetryAfter(http.Header{}); ok {
		t.Error("absent header should not parse")
	}

	h := http.Header{}
	h.Set("Retry-After", "soon")
	if _, ok := RetryAfter(h); ok {
		t.Error("garbage header should not parse")
	}
}
