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
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirseerhq/octocore/ratelimit"
)

// ActionKind enumerates what a RateLimitPolicy can decide.
type ActionKind int

const (
	// ActionWait blocks the calling goroutine until the quota reset time.
	ActionWait ActionKind = iota
	// ActionFail surfaces a *RateLimitError without contacting the server.
	ActionFail
	// ActionDelay blocks for a policy-chosen duration, then proceeds.
	ActionDelay
)

// Action is a RateLimitPolicy's decision. Delay is only meaningful for
// ActionDelay.
type Action struct {
	Kind  ActionKind
	Delay time.Duration
}

// RateLimitPolicy decides what happens when a category's quota is
// exhausted, either detected pre-flight from tracked headers or signaled
// by a rejected request. The executor performs the chosen wait itself, so
// policies stay pure decision functions and cancellation is honored in
// one place.
type RateLimitPolicy interface {
	OnQuotaExhausted(category ratelimit.Category, q ratelimit.Quota) Action
}

// RateLimitPolicyFunc adapts a function to the RateLimitPolicy interface.
type RateLimitPolicyFunc func(category ratelimit.Category, q ratelimit.Quota) Action

// OnQuotaExhausted implements RateLimitPolicy.
func (f RateLimitPolicyFunc) OnQuotaExhausted(category ratelimit.Category, q ratelimit.Quota) Action {
	return f(category, q)
}

// WaitForReset blocks until the quota resets, then proceeds. This is the
// default. The worst-case wait is the full reset window (up to an hour on
// the core category); that blocking behavior is deliberate and suits batch
// workloads, but interactive callers should install FailFast instead.
var WaitForReset RateLimitPolicy = RateLimitPolicyFunc(
	func(ratelimit.Category, ratelimit.Quota) Action {
		return Action{Kind: ActionWait}
	})

// FailFast surfaces a *RateLimitError immediately instead of waiting.
var FailFast RateLimitPolicy = RateLimitPolicyFunc(
	func(ratelimit.Category, ratelimit.Quota) Action {
		return Action{Kind: ActionFail}
	})

// Attempt describes one failed exchange for the RetryPolicy. StatusCode is
// zero and Err non-nil for transport-level failures; for rejected
// responses StatusCode and Header are set. Count is the number of retries
// already performed (zero on the first failure). Idempotent reflects the
// request's verb plus any explicit safe-to-retry flag.
type Attempt struct {
	Count      int
	StatusCode int
	Header     http.Header
	Err        error
	Idempotent bool
}

// RetryDecision is a RetryPolicy's verdict for one failed attempt.
type RetryDecision struct {
	Retry bool
	Delay time.Duration
}

// RetryPolicy decides whether a failed exchange should be retried and how
// long to back off first. It is consulted for transport failures,
// secondary rate limits, and retryable server errors; primary quota
// exhaustion is the RateLimitPolicy's concern, and 4xx client errors are
// surfaced immediately without consulting any policy.
type RetryPolicy interface {
	ShouldRetry(a Attempt) RetryDecision
}

// BackoffPolicy is the default RetryPolicy: bounded exponential backoff
// with jitter, honoring a server-provided Retry-After over the computed
// delay. Non-idempotent attempts are never retried; blind retry of a
// state-mutating call risks duplicate side effects.
type BackoffPolicy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the computed delay.
	MaxBackoff time.Duration
	// Multiplier grows the delay between consecutive retries.
	Multiplier float64
	// RetryableStatus is the set of response codes worth retrying.
	RetryableStatus map[int]bool
}

// DefaultBackoffPolicy returns the standard retry configuration: three
// retries, one second initial backoff doubling up to thirty seconds, and
// the transient 5xx codes.
func DefaultBackoffPolicy() *BackoffPolicy {
	return &BackoffPolicy{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		RetryableStatus: map[int]bool{
			http.StatusBadGateway:         true,
			http.StatusServiceUnavailable: true,
			http.StatusGatewayTimeout:     true,
		},
	}
}

// ShouldRetry implements RetryPolicy.
func (p *BackoffPolicy) ShouldRetry(a Attempt) RetryDecision {
	if a.Count >= p.MaxRetries {
		return RetryDecision{}
	}
	if !a.Idempotent {
		return RetryDecision{}
	}

	// Transport-level failure: no response to consult.
	if a.StatusCode == 0 {
		if a.Err == nil {
			return RetryDecision{}
		}
		return RetryDecision{Retry: true, Delay: p.backoff(a.Count)}
	}

	if ratelimit.IsSecondaryLimit(a.StatusCode, a.Header) {
		if d, ok := ratelimit.RetryAfter(a.Header); ok {
			return RetryDecision{Retry: true, Delay: d}
		}
		return RetryDecision{Retry: true, Delay: p.backoff(a.Count)}
	}

	if p.RetryableStatus[a.StatusCode] {
		if d, ok := ratelimit.RetryAfter(a.Header); ok {
			return RetryDecision{Retry: true, Delay: d}
		}
		return RetryDecision{Retry: true, Delay: p.backoff(a.Count)}
	}

	return RetryDecision{}
}

// backoff computes the exponential delay for the given retry count, capped
// at MaxBackoff, with ±10% jitter to avoid retry storms.
func (p *BackoffPolicy) backoff(count int) time.Duration {
	d := float64(p.InitialBackoff) * math.Pow(p.Multiplier, float64(count))
	if d > float64(p.MaxBackoff) {
		d = float64(p.MaxBackoff)
	}

	jitter := d * 0.1 * (rand.Float64()*2 - 1) //nolint:gosec
	d += jitter
	if d < 0 {
		d = float64(p.InitialBackoff)
	}

	return time.Duration(d)
}
