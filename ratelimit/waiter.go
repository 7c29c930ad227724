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
	"context"
	"time"

	"go.uber.org/zap"
)

// resetSkew is added to quota-reset waits to absorb clock drift between
// this process and the API servers. Waking exactly at the reported reset
// time tends to produce one more rejected request.
const resetSkew = 2 * time.Second

// minResetWait floors every reset wait. A rejected request whose reported
// reset is already in the past (stale record, clock skew, or a missing
// header) must still pause before resending, or the wait loop degenerates
// into hammering the server.
const minResetWait = 1 * time.Second

// Waiter performs cancellable sleeps for rate-limit waits. Only the
// calling goroutine blocks; concurrent requests in other categories are
// unaffected.
type Waiter struct {
	logger *zap.Logger
}

// NewWaiter creates a Waiter that logs waits through the given logger.
// A nil logger disables logging.
func NewWaiter(logger *zap.Logger) *Waiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Waiter{logger: logger}
}

// WaitUntilReset blocks until the quota's reset time (plus a small skew)
// has passed, or the context is done, never for less than minResetWait.
// Returns the context error on cancellation.
func (w *Waiter) WaitUntilReset(ctx context.Context, q Quota) error {
	d := time.Until(q.Reset) + resetSkew
	if d < minResetWait {
		d = minResetWait
	}
	w.logger.Warn("rate limit exhausted, waiting for reset",
		zap.String("category", string(q.Category)),
		zap.Time("reset", q.Reset),
		zap.Duration("wait", d))
	return w.Wait(ctx, d)
}

// Wait sleeps for the given duration or until the context is done,
// whichever comes first.
func (w *Waiter) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
