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

// Package octocore is the request execution core for typed GitHub REST
// clients. It turns a logical API call (method, path, body, result type)
// into one or more HTTP exchanges while enforcing GitHub's rate-limit
// contract, retrying transient failures, paginating multi-page collections
// lazily, and supporting conditional (ETag) revalidation.
//
// Resource wrappers build requests with a fluent builder and execute them
// through generic entry points:
//
//	client, err := octocore.New(octocore.WithToken(os.Getenv("GITHUB_TOKEN")))
//	if err != nil {
//	    // Handle error
//	}
//
//	spec, err := client.NewRequest().Get("/repos/golang/go").Build()
//	if err != nil {
//	    // Handle error
//	}
//	repo, _, err := octocore.Execute[Repository](ctx, client, spec)
//
// Multi-page collections are consumed lazily; each page is fetched only
// when the iterator advances past the previous one:
//
//	spec, _ = client.NewRequest().Get("/repos/golang/go/issues").PageSize(50).Build()
//	it := octocore.ExecutePaged[Issue](client, spec)
//	for it.Next(ctx) {
//	    for _, issue := range it.Page() {
//	        // Process issue
//	    }
//	}
//	if err := it.Err(); err != nil {
//	    // Handle error
//	}
//
// The pieces with policy are pluggable: the Connector performing raw
// exchanges, the RateLimitPolicy deciding what happens when quota is
// exhausted, the RetryPolicy for transient failures, and the Mapper used
// to encode and decode JSON bodies. The defaults wait for quota resets
// (a deliberate, documented choice suited to batch workloads; interactive
// callers should install FailFast) and retry idempotent requests up to
// three times with exponential backoff.
package octocore
