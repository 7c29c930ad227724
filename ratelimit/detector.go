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
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// IsRateLimited reports whether a response signals primary rate limiting:
// a 403 or 429 whose headers show the numeric quota spent. Status alone is
// not enough; a plain 403 without exhausted quota is an authorization
// failure, not a rate limit.
func IsRateLimited(statusCode int, h http.Header) bool {
	if statusCode != http.StatusForbidden && statusCode != http.StatusTooManyRequests {
		return false
	}
	return h.Get(headerRemaining) == "0"
}

// IsSecondaryLimit reports whether a response signals secondary (abuse)
// limiting: a 403 or 429 carrying a Retry-After hint while the numeric
// quota is not exhausted. GitHub uses this for bursts and content-creation
// throttles, distinct from the per-category quota.
func IsSecondaryLimit(statusCode int, h http.Header) bool {
	if statusCode != http.StatusForbidden && statusCode != http.StatusTooManyRequests {
		return false
	}
	if h.Get("Retry-After") == "" {
		return false
	}
	return h.Get(headerRemaining) != "0"
}

// RetryAfter parses the Retry-After header. Both forms of the header are
// supported: delay seconds and an HTTP-date. Returns false if the header
// is absent or unparseable.
func RetryAfter(h http.Header) (time.Duration, bool) {
	val := strings.TrimSpace(h.Get("Retry-After"))
	if val == "" {
		return 0, false
	}

	if secs, err := strconv.ParseFloat(val, 64); err == nil && secs >= 0 {
		return time.Duration(math.Ceil(secs)) * time.Second, true
	}

	for _, layout := range []string{time.RFC1123, time.RFC850, time.ANSIC} {
		if t, err := time.Parse(layout, val); err == nil {
			d := time.Until(t)
			if d < 0 {
				d = 0
			}
			return d, true
		}
	}
	return 0, false
}
