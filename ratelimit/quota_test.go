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
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestCategoryForPath(t *testing.T) {
	tests := []struct {
		path string
		want Category
	}{
		{"/repos/golang/go/issues", CategoryCore},
		{"/users/octocat", CategoryCore},
		{"/search/repositories", CategorySearch},
		{"/search/code", CategorySearch},
		{"/graphql", CategoryGraphQL},
		{"graphql", CategoryGraphQL},
		{"/searching", CategoryCore},
		{"/", CategoryCore},
		{"", CategoryCore},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := CategoryForPath(tt.path); got != tt.want {
				t.Errorf("CategoryForPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseHeaders(t *testing.T) {
	reset := time.Now().Add(30 * time.Minute).Unix()

	tests := []struct {
		name          string
		headers       map[string]string
		wantOK        bool
		wantLimit     int
		wantRemaining int
	}{
		{
			name: "full set of headers",
			headers: map[string]string{
				"X-RateLimit-Limit":     "5000",
				"X-RateLimit-Remaining": "4999",
				"X-RateLimit-Reset":     fmt.Sprintf("%d", reset),
			},
			wantOK:        true,
			wantLimit:     5000,
			wantRemaining: 4999,
		},
		{
			name: "remaining zero",
			headers: map[string]string{
				"X-RateLimit-Limit":     "60",
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     fmt.Sprintf("%d", reset),
			},
			wantOK:        true,
			wantLimit:     60,
			wantRemaining: 0,
		},
		{
			name:    "no rate limit headers",
			headers: map[string]string{"Content-Type": "application/json"},
			wantOK:  false,
		},
		{
			name: "garbage remaining",
			headers: map[string]string{
				"X-RateLimit-Remaining": "banana",
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}

			q, ok := ParseHeaders(CategoryCore, h)
			if ok != tt.wantOK {
				t.Fatalf("ParseHeaders ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if q.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", q.Limit, tt.wantLimit)
			}
			if q.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %d, want %d", q.Remaining, tt.wantRemaining)
			}
			if q.Category != CategoryCore {
				t.Errorf("Category = %q, want %q", q.Category, CategoryCore)
			}
			if q.Reset.Unix() != reset {
				t.Errorf("Reset = %v, want epoch %d", q.Reset, reset)
			}
		})
	}
}

func TestQuotaExhausted(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		q    Quota
		want bool
	}{
		{"remaining with future reset", Quota{Remaining: 10, Reset: now.Add(time.Hour)}, false},
		{"spent with future reset", Quota{Remaining: 0, Reset: now.Add(time.Hour)}, true},
		{"spent but reset passed", Quota{Remaining: 0, Reset: now.Add(-time.Minute)}, false},
		{"zero record", Quota{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Exhausted(now); got != tt.want {
				t.Errorf("Exhausted = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuotaStale(t *testing.T) {
	now := time.Now()

	if (Quota{}).Stale(now) {
		t.Error("zero record should not be stale")
	}
	if !(Quota{Reset: now.Add(-time.Second)}).Stale(now) {
		t.Error("record past reset should be stale")
	}
	if (Quota{Reset: now.Add(time.Second)}).Stale(now) {
		t.Error("record before reset should not be stale")
	}
}
