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

import "sync"

// cacheEntry pairs a validator with the decoded value it validated. The
// value is stored already deserialized so a 304 revalidation never
// re-invokes the Mapper.
type cacheEntry struct {
	etag  string
	value any
}

// conditionalCache remembers validators and decoded values for GET
// requests so later executions of the same spec can revalidate instead of
// re-downloading. Entries are replaced whole; a 304 leaves the entry
// untouched.
type conditionalCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func newConditionalCache() *conditionalCache {
	return &conditionalCache{entries: make(map[string]cacheEntry)}
}

func (c *conditionalCache) get(key string) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *conditionalCache) put(key, etag string, value any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{etag: etag, value: value}
	c.mu.Unlock()
}

func (c *conditionalCache) remove(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// cacheKey identifies a cacheable request by its method and fully resolved
// URL, so different query parameters never collide.
func cacheKey(c *Client, spec RequestSpec) string {
	u, err := c.resolveURL(spec, "")
	if err != nil {
		return spec.method + " " + spec.path
	}
	return spec.method + " " + u.String()
}
