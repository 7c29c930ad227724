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
	"errors"
	"testing"
	"time"
)

func TestWaiterWaitCompletes(t *testing.T) {
	w := NewWaiter(nil)

	start := time.Now()
	if err := w.Wait(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Wait returned after %v, want at least 20ms", elapsed)
	}
}

func TestWaiterWaitCancelled(t *testing.T) {
	w := NewWaiter(nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := w.Wait(ctx, 10*time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait error = %v, want context.Canceled", err)
	}
}

func TestWaiterNonPositiveDuration(t *testing.T) {
	w := NewWaiter(nil)

	if err := w.Wait(context.Background(), 0); err != nil {
		t.Errorf("zero wait returned error: %v", err)
	}
	if err := w.Wait(context.Background(), -time.Second); err != nil {
		t.Errorf("negative wait returned error: %v", err)
	}
}

func TestWaiterWaitUntilResetInPastStillPauses(t *testing.T) {
	w := NewWaiter(nil)

	// A stale record must not translate into a zero-length wait; the
	// caller would otherwise resend in a tight loop.
	q := Quota{Category: CategoryCore, Reset: time.Now().Add(-time.Hour)}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := w.WaitUntilReset(ctx, q)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitUntilReset error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("WaitUntilReset returned after %v, want at least 30ms", elapsed)
	}
}

func TestWaiterWaitUntilResetMissingReset(t *testing.T) {
	w := NewWaiter(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := w.WaitUntilReset(ctx, Quota{Category: CategoryCore})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitUntilReset error = %v, want context.DeadlineExceeded", err)
	}
}
