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
	"sync"
)

// Tracker holds the most recently observed quota per category. It is shared
// process-wide state: one Tracker serves every in-flight request of a client.
// Records are replaced whole under the lock, so concurrent readers always
// see a record from exactly one response.
//
// A category with no record yet is a valid state and must not block
// requests; the first request for any category always proceeds.
type Tracker struct {
	mu      sync.RWMutex
	records map[Category]Quota
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		records: make(map[Category]Quota),
	}
}

// Observe parses the rate-limit headers of a response and replaces the
// stored record for the category. Responses without rate-limit headers
// leave the previous record untouched.
func (t *Tracker) Observe(category Category, h http.Header) {
	q, ok := ParseHeaders(category, h)
	if !ok {
		return
	}

	t.mu.Lock()
	t.records[category] = q
	t.mu.Unlock()
}

// Quota returns the current record for a category. The second return value
// is false when no response for this category has been observed yet.
func (t *Tracker) Quota(category Category) (Quota, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	q, ok := t.records[category]
	return q, ok
}

// Snapshot returns a copy of all known records, keyed by category.
func (t *Tracker) Snapshot() map[Category]Quota {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[Category]Quota, len(t.records))
	for c, q := range t.records {
		out[c] = q
	}
	return out
}
