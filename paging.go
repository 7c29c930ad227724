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
	"context"
	"iter"
	"net/http"
	"strings"
)

// PageIterator lazily walks a paginated collection. Each call to Next
// fetches exactly one page through the full executor pipeline, so
// rate-limit handling and retries apply per page. The cursor comes from
// the response's Link header; a page without rel="next" is the last one.
//
// An iterator is single-pass. There is no snapshot isolation: a second
// traversal (a fresh iterator, or another call to All or Items) issues
// fresh HTTP exchanges and may observe different data if the server state
// changed in between.
type PageIterator[T any] struct {
	client  *Client
	spec    RequestSpec
	nextURL string
	started bool
	done    bool
	page    []T
	resp    *Response
	err     error
}

// ExecutePaged prepares a lazy page iterator for the spec. No HTTP
// exchange happens until the first call to Next (or until All or Items
// consume the sequence).
func ExecutePaged[T any](c *Client, spec RequestSpec) *PageIterator[T] {
	return &PageIterator[T]{client: c, spec: spec}
}

// Next fetches the next page. It returns true when a page was fetched and
// is available via Page, false when the collection is exhausted or an
// error occurred; check Err after the loop.
func (it *PageIterator[T]) Next(ctx context.Context) bool {
	if it.done || it.err != nil {
		return false
	}
	if it.started && it.nextURL == "" {
		it.done = true
		return false
	}

	resp, err := it.client.do(ctx, it.spec, it.nextURL)
	it.started = true
	if err != nil {
		it.err = err
		it.done = true
		return false
	}

	var items []T
	if len(resp.Body) > 0 {
		if derr := it.client.mapper.Decode(resp.Body, &items); derr != nil {
			it.err = &DecodeError{Err: derr}
			it.done = true
			return false
		}
	}

	it.page = items
	it.resp = resp
	it.nextURL = nextPageURL(resp.Header)
	return true
}

// Page returns the items of the most recently fetched page.
func (it *PageIterator[T]) Page() []T { return it.page }

// Response returns the raw response of the most recently fetched page.
func (it *PageIterator[T]) Response() *Response { return it.resp }

// Err returns the error that stopped iteration, if any.
func (it *PageIterator[T]) Err() error { return it.err }

// All fetches every remaining page eagerly and returns the concatenated
// items in page order. Called on a fresh iterator it materializes the
// whole collection.
func (it *PageIterator[T]) All(ctx context.Context) ([]T, error) {
	var all []T
	for it.Next(ctx) {
		all = append(all, it.page...)
	}
	if it.err != nil {
		return nil, it.err
	}
	return all, nil
}

// Items returns the collection as a lazy item sequence for range-over-func
// consumption. The suspension point is exactly "about to fetch the next
// page": a consumer that stops early never triggers the remaining
// exchanges. Each range over the returned sequence starts a fresh
// traversal with fresh HTTP exchanges.
func (it *PageIterator[T]) Items(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		fresh := ExecutePaged[T](it.client, it.spec)
		for fresh.Next(ctx) {
			for _, item := range fresh.Page() {
				if !yield(item, nil) {
					return
				}
			}
		}
		if fresh.err != nil {
			var zero T
			yield(zero, fresh.err)
		}
	}
}

// nextPageURL extracts the rel="next" target from a Link header, empty
// when the response is the last page. GitHub's Link format:
//
//	<https://api.github.com/...?page=2>; rel="next", <...>; rel="last"
func nextPageURL(h http.Header) string {
	for _, link := range h.Values("Link") {
		for _, part := range strings.Split(link, ",") {
			sections := strings.Split(part, ";")
			if len(sections) < 2 {
				continue
			}
			target := strings.Trim(strings.TrimSpace(sections[0]), "<>")
			for _, attr := range sections[1:] {
				if strings.TrimSpace(attr) == `rel="next"` {
					return target
				}
			}
		}
	}
	return ""
}
