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

// Lazy is a memoized, idempotent lazy-initialization cell. The fill
// function runs at most once, no matter how many goroutines call Value
// concurrently; its result (value or error) is retained for every later
// call. Use it for populate-on-demand state that should be fetched exactly
// once.
type Lazy[T any] struct {
	once sync.Once
	fill func() (T, error)
	v    T
	err  error
}

// NewLazy creates a cell that will populate itself with fill on first use.
func NewLazy[T any](fill func() (T, error)) *Lazy[T] {
	return &Lazy[T]{fill: fill}
}

// Value returns the memoized value, running the fill function on first
// call. Concurrent callers block until the single fill completes.
func (l *Lazy[T]) Value() (T, error) {
	l.once.Do(func() {
		l.v, l.err = l.fill()
		l.fill = nil
	})
	return l.v, l.err
}
