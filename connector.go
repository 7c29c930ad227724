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
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Connector performs a single raw HTTP exchange. Implementations may pool
// connections or cache responses; the executor never assumes exclusive
// ownership of a connection. A failed exchange returns a *TransportError.
type Connector interface {
	Send(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Offline is a Connector that fails every exchange. Useful for tests that
// must never touch the network.
var Offline Connector = offlineConnector{}

type offlineConnector struct{}

func (offlineConnector) Send(_ context.Context, req *http.Request) (*http.Response, error) {
	return nil, &TransportError{URL: req.URL.String(), Err: errors.New("connector is offline")}
}

// defaultAPIVersion pins the REST API version on every request unless the
// caller overrides the header.
const defaultAPIVersion = "2022-11-28"

// defaultMediaType is GitHub's recommended Accept value. Preview media
// types override it per request.
const defaultMediaType = "application/vnd.github+json"

// httpConnector is the default Connector, backed by net/http with a pooled
// transport and auth/User-Agent stamping.
type httpConnector struct {
	client *http.Client
}

func (c *httpConnector) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, &TransportError{URL: req.URL.String(), Err: err}
	}
	return resp, nil
}

// newPooledTransport returns an HTTP transport tuned for API traffic.
func newPooledTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}
}

// authTransport adds authentication, identification, and media-type
// headers to outgoing requests and limits response body size.
type authTransport struct {
	tokens      oauth2.TokenSource
	userAgent   string
	base        http.RoundTripper
	maxBodySize int64
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if t.tokens != nil && req.Header.Get("Authorization") == "" {
		tok, err := t.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("fetch access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", defaultMediaType)
	}
	if req.Header.Get("X-GitHub-Api-Version") == "" {
		req.Header.Set("X-GitHub-Api-Version", defaultAPIVersion)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil && t.maxBodySize > 0 {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      t.maxBodySize,
		}
	}

	return resp, nil
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive
// memory usage on unexpectedly large responses.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}
