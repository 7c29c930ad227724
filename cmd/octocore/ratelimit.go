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
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirseerhq/octocore"
	"github.com/sirseerhq/octocore/internal/config"
	"github.com/spf13/cobra"
)

// rateLimitResource mirrors one category in GitHub's /rate_limit response
type rateLimitResource struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// rateLimitReport mirrors GitHub's /rate_limit response body
type rateLimitReport struct {
	Resources map[string]rateLimitResource `json:"resources"`
}

func newRateLimitCommand() *cobra.Command {
	var (
		token      string
		configPath string
		endpoint   string
	)

	cmd := &cobra.Command{
		Use:   "rate-limit",
		Short: "Show the current rate-limit quotas for your token",
		Long: `Query GitHub's /rate_limit endpoint and display the remaining quota
for each rate-limit category. This request does not itself consume quota.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRateLimit(cmd.Context(), token, configPath, endpoint)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: auto-discover)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "API endpoint base URL (for GitHub Enterprise)")

	return cmd
}

// runRateLimit executes the rate-limit command
func runRateLimit(ctx context.Context, token, configPath, endpoint string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := buildClient(cfg, getFlags{token: token, endpoint: endpoint})
	if err != nil {
		return err
	}

	spec, err := client.NewRequest().Get("/rate_limit").Build()
	if err != nil {
		return err
	}

	report, _, err := octocore.Execute[rateLimitReport](ctx, client, spec)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tLIMIT\tREMAINING\tRESETS")
	for _, category := range []string{"core", "search", "graphql"} {
		res, ok := report.Resources[category]
		if !ok {
			continue
		}
		reset := time.Unix(res.Reset, 0).Local().Format(time.Kitchen)
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", category, res.Limit, res.Remaining, reset)
	}
	return w.Flush()
}
