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
	"fmt"
	"net/http"
	"net/url"
)

// RequestSpec is an immutable description of a logical API call: verb,
// path, query and body parameters, header overrides, and execution hints
// (idempotency, conditional validator, page size). Build one with
// Client.NewRequest and pass it to Execute, ExecutePaged, or Client.Do.
type RequestSpec struct {
	method     string
	path       string
	query      url.Values
	header     http.Header
	body       any
	hasBody    bool
	rawBody    []byte
	hasRawBody bool
	idempotent bool
	etag       string
	pageSize   int
}

// Method returns the HTTP verb.
func (s RequestSpec) Method() string { return s.method }

// Path returns the request path relative to the API base URL.
func (s RequestSpec) Path() string { return s.path }

// PageSize returns the per-page hint, zero when unset.
func (s RequestSpec) PageSize() int { return s.pageSize }

// Idempotent reports whether the request may be retried automatically.
func (s RequestSpec) Idempotent() bool { return s.idempotent }

// RequestBuilder accumulates the parameters of a RequestSpec. Errors made
// along the way (conflicting bodies, missing path) are deferred to Build
// so call chains stay fluent.
type RequestBuilder struct {
	spec RequestSpec
	err  error
}

// NewRequest starts building a request. The verb defaults to GET.
func (c *Client) NewRequest() *RequestBuilder {
	return &RequestBuilder{
		spec: RequestSpec{
			method:     http.MethodGet,
			idempotent: true,
			query:      url.Values{},
			header:     http.Header{},
		},
	}
}

// Method sets the HTTP verb. Reads (GET, HEAD, OPTIONS) are marked
// idempotent automatically; writes are not retried unless SafeToRetry is
// called.
func (b *RequestBuilder) Method(method string) *RequestBuilder {
	b.spec.method = method
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		b.spec.idempotent = true
	default:
		b.spec.idempotent = false
	}
	return b
}

// Path sets the request path, e.g. "/repos/golang/go/issues".
func (b *RequestBuilder) Path(path string) *RequestBuilder {
	b.spec.path = path
	return b
}

// Get sets the verb to GET with the given path.
func (b *RequestBuilder) Get(path string) *RequestBuilder {
	return b.Method(http.MethodGet).Path(path)
}

// Post sets the verb to POST with the given path.
func (b *RequestBuilder) Post(path string) *RequestBuilder {
	return b.Method(http.MethodPost).Path(path)
}

// Put sets the verb to PUT with the given path.
func (b *RequestBuilder) Put(path string) *RequestBuilder {
	return b.Method(http.MethodPut).Path(path)
}

// Patch sets the verb to PATCH with the given path.
func (b *RequestBuilder) Patch(path string) *RequestBuilder {
	return b.Method(http.MethodPatch).Path(path)
}

// Delete sets the verb to DELETE with the given path.
func (b *RequestBuilder) Delete(path string) *RequestBuilder {
	return b.Method(http.MethodDelete).Path(path)
}

// Query adds a query parameter.
func (b *RequestBuilder) Query(key, value string) *RequestBuilder {
	b.spec.query.Add(key, value)
	return b
}

// Header sets a request header, replacing any previous value.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	b.spec.header.Set(key, value)
	return b
}

// MediaType sets the Accept header, used for preview media types and
// alternative response formats (diff, raw, etc.).
func (b *RequestBuilder) MediaType(mediaType string) *RequestBuilder {
	return b.Header("Accept", mediaType)
}

// Body sets a structured request body, encoded through the client's
// Mapper at send time. Mutually exclusive with RawBody.
func (b *RequestBuilder) Body(v any) *RequestBuilder {
	if b.spec.hasRawBody {
		b.err = errors.New("request body already set as raw bytes")
		return b
	}
	b.spec.body = v
	b.spec.hasBody = true
	return b
}

// RawBody sets the request body as raw bytes, bypassing the Mapper.
// Mutually exclusive with Body.
func (b *RequestBuilder) RawBody(data []byte) *RequestBuilder {
	if b.spec.hasBody {
		b.err = errors.New("request body already set as structured value")
		return b
	}
	b.spec.rawBody = data
	b.spec.hasRawBody = true
	return b
}

// SafeToRetry marks a write as idempotent, opting it into automatic
// retries. Only do this when replaying the call cannot duplicate side
// effects.
func (b *RequestBuilder) SafeToRetry() *RequestBuilder {
	b.spec.idempotent = true
	return b
}

// ETag attaches a previously observed validator; the server answers 304
// when the resource is unchanged and the executor reports that as
// success-with-previous-body.
func (b *RequestBuilder) ETag(tag string) *RequestBuilder {
	b.spec.etag = tag
	return b
}

// PageSize hints how many items the server should return per page. The
// server may return fewer; this is not a guarantee.
func (b *RequestBuilder) PageSize(n int) *RequestBuilder {
	b.spec.pageSize = n
	return b
}

// Build validates the accumulated parameters and freezes them into a
// RequestSpec. The builder can keep being used afterwards; the returned
// spec owns copies of the mutable parts.
func (b *RequestBuilder) Build() (RequestSpec, error) {
	if b.err != nil {
		return RequestSpec{}, b.err
	}
	if b.spec.path == "" {
		return RequestSpec{}, errors.New("request path is required")
	}
	if b.spec.method == "" {
		return RequestSpec{}, errors.New("request method is required")
	}
	if b.spec.pageSize < 0 {
		return RequestSpec{}, fmt.Errorf("page size %d is negative", b.spec.pageSize)
	}

	spec := b.spec
	spec.query = cloneValues(b.spec.query)
	spec.header = b.spec.header.Clone()
	return spec, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
