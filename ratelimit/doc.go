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

// Package ratelimit tracks GitHub API quota state and detects rate-limit
// responses. GitHub tracks quota per category ("core", "search", "graphql"),
// reported on every response through the X-RateLimit-* headers. The Tracker
// keeps the most recently observed Quota per category so callers can check
// whether a request would be rejected before sending it.
//
// The package distinguishes two kinds of limiting:
//
//   - Primary limiting: the numeric quota for a category is exhausted.
//     Signaled by a 403 or 429 with X-RateLimit-Remaining: 0.
//   - Secondary (abuse) limiting: a shorter-lived throttle independent of
//     the numeric quota, signaled by a Retry-After header while quota
//     remains.
//
// The Waiter provides context-aware sleeps for both cases.
package ratelimit
