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
	"sync"
	"testing"
	"time"
)

func quotaHeaders(limit, remaining int, reset time.Time) http.Header {
	h := http.Header{}
	h.Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
	h.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
	h.Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))
	return h
}

func TestTrackerUnknownCategory(t *testing.T) {
	tr := NewTracker()

	if _, ok := tr.Quota(CategoryCore); ok {
		t.Error("fresh tracker should report no record for core")
	}
}

func TestTrackerObserveReplacesRecord(t *testing.T) {
	tr := NewTracker()
	reset := time.Now().Add(time.Hour)

	tr.Observe(CategoryCore, quotaHeaders(5000, 4999, reset))
	tr.Observe(CategoryCore, quotaHeaders(5000, 4998, reset))

	q, ok := tr.Quota(CategoryCore)
	if !ok {
		t.Fatal("expected a record after Observe")
	}
	if q.Remaining != 4998 {
		t.Errorf("Remaining = %d, want 4998 (latest observation wins)", q.Remaining)
	}
}

func TestTrackerCategoriesAreIndependent(t *testing.T) {
	tr := NewTracker()
	reset := time.Now().Add(time.Hour)

	tr.Observe(CategoryCore, quotaHeaders(5000, 100, reset))
	tr.Observe(CategorySearch, quotaHeaders(30, 0, reset))

	core, _ := tr.Quota(CategoryCore)
	search, _ := tr.Quota(CategorySearch)
	if core.Remaining != 100 {
		t.Errorf("core Remaining = %d, want 100", core.Remaining)
	}
	if search.Remaining != 0 {
		t.Errorf("search Remaining = %d, want 0", search.Remaining)
	}
}

func TestTrackerIgnoresResponsesWithoutHeaders(t *testing.T) {
	tr := NewTracker()
	reset := time.Now().Add(time.Hour)

	tr.Observe(CategoryCore, quotaHeaders(5000, 42, reset))
	tr.Observe(CategoryCore, http.Header{})

	q, ok := tr.Quota(CategoryCore)
	if !ok || q.Remaining != 42 {
		t.Errorf("record should survive a header-less response, got %+v ok=%v", q, ok)
	}
}

// Concurrent observers and readers must never see a torn record: every read
// must return a (limit, remaining) pair written by a single Observe call.
func TestTrackerConcurrentAccess(t *testing.T) {
	tr := NewTracker()
	reset := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				// Writers keep limit == remaining so torn records are detectable.
				v := base*100 + j
				tr.Observe(CategoryCore, quotaHeaders(v, v, reset))
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q, ok := tr.Quota(CategoryCore)
				if ok && q.Limit != q.Remaining {
					t.Errorf("torn record observed: limit=%d remaining=%d", q.Limit, q.Remaining)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestTrackerSnapshot(t *testing.T) {
	tr := NewTracker()
	reset := time.Now().Add(time.Hour)

	tr.Observe(CategoryCore, quotaHeaders(5000, 10, reset))
	tr.Observe(CategoryGraphQL, quotaHeaders(5000, 20, reset))

	snap := tr.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d records, want 2", len(snap))
	}

	// Mutating the snapshot must not affect the tracker.
	snap[CategoryCore] = Quota{}
	q, _ := tr.Quota(CategoryCore)
	if q.Remaining != 10 {
		t.Error("snapshot mutation leaked into tracker")
	}
}
