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
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestLazyFillsExactlyOnce(t *testing.T) {
	var fills atomic.Int32
	cell := NewLazy(func() (int, error) {
		fills.Add(1)
		return 42, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cell.Value()
			if err != nil {
				t.Errorf("Value() error = %v", err)
			}
			if v != 42 {
				t.Errorf("Value() = %d, want 42", v)
			}
		}()
	}
	wg.Wait()

	if got := fills.Load(); got != 1 {
		t.Errorf("fill ran %d times, want 1", got)
	}
}

func TestLazyRetainsError(t *testing.T) {
	var fills atomic.Int32
	fillErr := errors.New("populate failed")
	cell := NewLazy(func() (string, error) {
		fills.Add(1)
		return "", fillErr
	})

	for i := 0; i < 3; i++ {
		if _, err := cell.Value(); !errors.Is(err, fillErr) {
			t.Fatalf("Value() error = %v, want %v", err, fillErr)
		}
	}
	if got := fills.Load(); got != 1 {
		t.Errorf("fill ran %d times after error, want 1", got)
	}
}
