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

package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/sirseerhq/octocore"
	"github.com/sirseerhq/octocore/pkg/version"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "octocore",
		Short: "Query the GitHub REST API with rate-limit aware retries",
		Long: `Octocore is a command-line client for the GitHub REST API. It handles
authentication, rate-limit quotas, transient-failure retries, and pagination,
streaming results as NDJSON so large listings can be processed without
buffering them in memory.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.AddCommand(newGetCommand())
	rootCmd.AddCommand(newRateLimitCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// mapErrorToExitCode maps client errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, octocore.ErrRateLimit) || errors.Is(err, octocore.ErrAbuseLimit) {
		return 2 // Quota errors
	}

	var apiErr *octocore.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return 2 // Authentication/authorization errors
		}
	}

	if errors.Is(err, octocore.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
