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
	"strconv"
	"strings"
	"time"
)

// Category identifies a GitHub rate-limit bucket. GitHub tracks quota
// separately per category; the category for a request is inferred from
// its path.
type Category string

// Known rate-limit categories.
const (
	CategoryCore    Category = "core"
	CategorySearch  Category = "search"
	CategoryGraphQL Category = "graphql"
)

// CategoryForPath infers the rate-limit category from a request path.
// Search endpoints and the GraphQL endpoint have their own buckets;
// everything else counts against the core quota.
func CategoryForPath(path string) Category {
	p := strings.TrimPrefix(path, "/")
	switch {
	case p == "graphql" || strings.HasPrefix(p, "graphql/"):
		return CategoryGraphQL
	case strings.HasPrefix(p, "search/"):
		return CategorySearch
	default:
		return CategoryCore
	}
}

// Quota is the most recently observed rate-limit record for one category.
// It is a value type; the Tracker replaces records whole so readers never
// see fields from two different responses mixed together.
type Quota struct {
	Category  Category
	Limit     int
	Remaining int
	Reset     time.Time
}

// Exhausted reports whether the quota is spent and the reset time has not
// yet passed. An exhausted quota means the next request in this category
// would be rejected by the server.
func (q Quota) Exhausted(now time.Time) bool {
	return q.Remaining == 0 && now.Before(q.Reset)
}

// Stale reports whether the record's reset time has passed. A stale record
// must not be trusted: the server has replenished the quota, so the next
// live response is the only source of truth.
func (q Quota) Stale(now time.Time) bool {
	return !q.Reset.IsZero() && !now.Before(q.Reset)
}

// Header names for GitHub's rate-limit wire contract.
const (
	headerLimit     = "X-RateLimit-Limit"
	headerRemaining = "X-RateLimit-Remaining"
	headerReset     = "X-RateLimit-Reset"
)

// ParseHeaders extracts a Quota from response headers. It returns false
// when the response carries no rate-limit headers (e.g. 304 responses from
// some cache layers, or non-API endpoints), in which case the previous
// record should be left untouched.
func ParseHeaders(category Category, h http.Header) (Quota, bool) {
	remaining := h.Get(headerRemaining)
	if remaining == "" {
		return Quota{}, false
	}

	q := Quota{Category: category}

	var err error
	q.Remaining, err = strconv.Atoi(remaining)
	if err != nil || q.Remaining < 0 {
		return Quota{}, false
	}
	if v := h.Get(headerLimit); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := h.Get(headerReset); v != "" {
		if epoch, perr := strconv.ParseInt(v, 10, 64); perr == nil {
			q.Reset = time.Unix(epoch, 0)
		}
	}

	return q, true
}
