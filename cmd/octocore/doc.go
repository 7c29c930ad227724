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

// Package main implements the octocore command-line interface. This tool
// issues authenticated requests against the GitHub REST API, streaming
// paginated results as NDJSON for efficient processing.
//
// The CLI supports:
//   - Fetching a single resource or list page (default behavior)
//   - Walking every page of a list endpoint with the --paginate flag
//   - Customizable output destinations (stdout or file)
//   - GitHub token authentication via flag, config, or environment variable
//   - Rate-limit inspection with the rate-limit subcommand
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	octocore get <path> [flags]
//	octocore rate-limit
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	octocore get /repos/golang/go/issues --paginate --output issues.ndjson
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization/rate-limit error
//   - 3: Network error
package main
