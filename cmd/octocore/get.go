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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirseerhq/octocore"
	"github.com/sirseerhq/octocore/internal/config"
	"github.com/sirseerhq/octocore/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// getFlags holds the flag values for the get command
type getFlags struct {
	token      string
	configPath string
	endpoint   string
	outputFile string
	paginate   bool
	pageSize   int
	noWait     bool
	verbose    bool
}

func newGetCommand() *cobra.Command {
	var flags getFlags

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Fetch a resource from the GitHub REST API",
		Long: `Fetch a resource from the GitHub REST API and output it as NDJSON.

The path must be an API path, for example: /repos/golang/go/issues

By default only the first page of a list endpoint is fetched. Use
--paginate to walk every page, streaming each item as one NDJSON line.

Authentication is optional but strongly recommended (anonymous requests
get 60 requests per hour):
  - Use --token flag to provide a token directly
  - Or set GITHUB_TOKEN environment variable
  - Or configure token_env in the config file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to config file (default: auto-discover)")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "API endpoint base URL (for GitHub Enterprise)")
	cmd.Flags().StringVar(&flags.outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&flags.paginate, "paginate", false, "Fetch every page of a list endpoint")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "Results per page (default: from config)")
	cmd.Flags().BoolVar(&flags.noWait, "no-wait", false, "Fail immediately on rate limit instead of waiting for reset")
	cmd.Flags().BoolVar(&flags.verbose, "verbose", false, "Log retry and rate-limit events to stderr")

	return cmd
}

// runGet executes the get command
func runGet(ctx context.Context, path string, flags getFlags) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := buildClient(cfg, flags)
	if err != nil {
		return err
	}

	var writer output.OutputWriter
	if flags.outputFile == "" {
		writer = output.NewWriter(os.Stdout)
	} else {
		fileWriter, fErr := output.NewFileWriter(flags.outputFile)
		if fErr != nil {
			return fmt.Errorf("failed to create output file: %w", fErr)
		}
		writer = fileWriter
	}
	defer writer.Close()

	pageSize := flags.pageSize
	if pageSize == 0 {
		pageSize = cfg.Defaults.PageSize
	}

	if flags.paginate {
		return fetchAllPages(ctx, client, path, pageSize, writer)
	}
	return fetchOnce(ctx, client, path, writer)
}

// buildClient assembles a client from config and flag overrides. Flags win
// over config values.
func buildClient(cfg *config.Config, flags getFlags) (*octocore.Client, error) {
	endpoint := cfg.GitHub.APIEndpoint
	if flags.endpoint != "" {
		endpoint = flags.endpoint
	}

	opts := []octocore.Option{
		octocore.WithBaseURL(endpoint),
		octocore.WithGraphQLEndpoint(cfg.GitHub.GraphQLEndpoint),
	}

	token := flags.token
	if token == "" {
		token = cfg.TokenFromEnv()
	}
	if token != "" {
		opts = append(opts, octocore.WithToken(token))
	}

	if flags.noWait || !cfg.RateLimit.AutoWait {
		opts = append(opts, octocore.WithRateLimitPolicy(octocore.FailFast))
	}

	retry := octocore.DefaultBackoffPolicy()
	retry.MaxRetries = cfg.Retry.MaxRetries
	retry.InitialBackoff = cfg.Retry.InitialBackoffOrDefault()
	retry.MaxBackoff = cfg.Retry.MaxBackoffOrDefault()
	if cfg.Retry.Multiplier >= 1 {
		retry.Multiplier = cfg.Retry.Multiplier
	}
	opts = append(opts, octocore.WithRetryPolicy(retry))

	if cfg.Throttle.RPS > 0 {
		burst := cfg.Throttle.Burst
		if burst <= 0 {
			burst = 1
		}
		opts = append(opts, octocore.WithThrottle(cfg.Throttle.RPS, burst))
	}

	if flags.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
		opts = append(opts, octocore.WithLogger(logger))
	}

	return octocore.New(opts...)
}

// fetchOnce fetches a single resource or the first page of a listing
func fetchOnce(ctx context.Context, client *octocore.Client, path string, writer output.OutputWriter) error {
	spec, err := client.NewRequest().Get(path).Build()
	if err != nil {
		return err
	}

	resp, err := client.Do(ctx, spec)
	if err != nil {
		return err
	}

	// A list endpoint returns a JSON array; emit one line per element so
	// output is NDJSON either way.
	var items []json.RawMessage
	if jErr := json.Unmarshal(resp.Body, &items); jErr == nil {
		for _, item := range items {
			if wErr := writer.WriteRaw(item); wErr != nil {
				return fmt.Errorf("failed to write record: %w", wErr)
			}
		}
		return nil
	}

	return writer.WriteRaw(resp.Body)
}

// fetchAllPages walks every page of a list endpoint, streaming items as
// they arrive
func fetchAllPages(ctx context.Context, client *octocore.Client, path string, pageSize int, writer output.OutputWriter) error {
	spec, err := client.NewRequest().Get(path).PageSize(pageSize).Build()
	if err != nil {
		return err
	}

	count := 0
	for item, iterErr := range octocore.ExecutePaged[json.RawMessage](client, spec).Items(ctx) {
		if iterErr != nil {
			fmt.Fprintf(os.Stderr, "\r\033[K")
			return iterErr
		}
		if wErr := writer.WriteRaw(item); wErr != nil {
			return fmt.Errorf("failed to write record: %w", wErr)
		}
		count++
		fmt.Fprintf(os.Stderr, "\rFetched %d items...", count)
	}

	fmt.Fprintf(os.Stderr, "\r\033[K")
	fmt.Fprintf(os.Stderr, "Fetched %d items\n", count)
	return nil
}
