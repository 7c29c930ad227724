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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test GitHub defaults
	if cfg.GitHub.APIEndpoint != "https://api.github.com" {
		t.Errorf("APIEndpoint = %s, want https://api.github.com", cfg.GitHub.APIEndpoint)
	}
	if cfg.GitHub.GraphQLEndpoint != "https://api.github.com/graphql" {
		t.Errorf("GraphQLEndpoint = %s, want https://api.github.com/graphql", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	}

	// Test defaults
	if cfg.Defaults.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.Defaults.PageSize)
	}
	if cfg.Defaults.OutputFormat != "ndjson" {
		t.Errorf("OutputFormat = %s, want ndjson", cfg.Defaults.OutputFormat)
	}

	// Test rate limit defaults
	if !cfg.RateLimit.AutoWait {
		t.Error("AutoWait = false, want true")
	}

	// Test retry defaults
	if cfg.Retry.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.InitialBackoff.Std() != time.Second {
		t.Errorf("InitialBackoff = %v, want 1s", cfg.Retry.InitialBackoff.Std())
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Write test config
	configContent := `
github:
  api_endpoint: https://github.enterprise.com/api/v3
  graphql_endpoint: https://github.enterprise.com/api/graphql
  token_env: GITHUB_ENTERPRISE_TOKEN

defaults:
  page_size: 25
  output_format: json

rate_limit:
  auto_wait: false

retry:
  max_retries: 5
  initial_backoff: 500ms

throttle:
  rps: 2.5
  burst: 5
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	// Load config
	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// Verify GitHub settings
	if cfg.GitHub.APIEndpoint != "https://github.enterprise.com/api/v3" {
		t.Errorf("APIEndpoint = %s, want https://github.enterprise.com/api/v3", cfg.GitHub.APIEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_ENTERPRISE_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_ENTERPRISE_TOKEN", cfg.GitHub.TokenEnv)
	}

	// Verify defaults
	if cfg.Defaults.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.Defaults.PageSize)
	}
	if cfg.Defaults.OutputFormat != "json" {
		t.Errorf("OutputFormat = %s, want json", cfg.Defaults.OutputFormat)
	}

	// Verify rate limit settings
	if cfg.RateLimit.AutoWait {
		t.Error("AutoWait = true, want false")
	}

	// Verify retry settings
	if cfg.Retry.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.InitialBackoff.Std() != 500*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 500ms", cfg.Retry.InitialBackoff.Std())
	}

	// Verify throttle settings
	if cfg.Throttle.RPS != 2.5 {
		t.Errorf("RPS = %g, want 2.5", cfg.Throttle.RPS)
	}
	if cfg.Throttle.Burst != 5 {
		t.Errorf("Burst = %d, want 5", cfg.Throttle.Burst)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	// Set environment variables
	os.Setenv("GITHUB_API_ENDPOINT", "https://custom.api.com")
	os.Setenv("GITHUB_GRAPHQL_ENDPOINT", "https://custom.graphql.com")
	os.Setenv("OCTOCORE_PAGE_SIZE", "75")
	os.Setenv("OCTOCORE_RATE_LIMIT_AUTO_WAIT", "false")
	os.Setenv("OCTOCORE_MAX_RETRIES", "7")

	defer func() {
		os.Unsetenv("GITHUB_API_ENDPOINT")
		os.Unsetenv("GITHUB_GRAPHQL_ENDPOINT")
		os.Unsetenv("OCTOCORE_PAGE_SIZE")
		os.Unsetenv("OCTOCORE_RATE_LIMIT_AUTO_WAIT")
		os.Unsetenv("OCTOCORE_MAX_RETRIES")
	}()

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// Verify environment overrides
	if cfg.GitHub.APIEndpoint != "https://custom.api.com" {
		t.Errorf("APIEndpoint = %s, want https://custom.api.com", cfg.GitHub.APIEndpoint)
	}
	if cfg.GitHub.GraphQLEndpoint != "https://custom.graphql.com" {
		t.Errorf("GraphQLEndpoint = %s, want https://custom.graphql.com", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.Defaults.PageSize != 75 {
		t.Errorf("PageSize = %d, want 75", cfg.Defaults.PageSize)
	}
	if cfg.RateLimit.AutoWait {
		t.Error("AutoWait = true, want false")
	}
	if cfg.Retry.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, want 7", cfg.Retry.MaxRetries)
	}
}

func TestTokenFromEnv(t *testing.T) {
	os.Setenv("CUSTOM_TOKEN", "custom-value")
	os.Setenv("GITHUB_TOKEN", "fallback-value")
	defer func() {
		os.Unsetenv("CUSTOM_TOKEN")
		os.Unsetenv("GITHUB_TOKEN")
	}()

	tests := []struct {
		name     string
		tokenEnv string
		want     string
	}{
		{"configured env wins", "CUSTOM_TOKEN", "custom-value"},
		{"unset env falls back", "MISSING_TOKEN", "fallback-value"},
		{"empty env falls back", "", "fallback-value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{GitHub: GitHubConfig{TokenEnv: tt.tokenEnv}}
			if got := cfg.TokenFromEnv(); got != tt.want {
				t.Errorf("TokenFromEnv() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{
			name:    "valid config",
			config:  DefaultConfig(),
			wantErr: "",
		},
		{
			name: "negative page size",
			config: &Config{
				Defaults: DefaultsConfig{PageSize: -1},
				GitHub:   GitHubConfig{APIEndpoint: "http://api", GraphQLEndpoint: "http://graphql"},
			},
			wantErr: "page size must be positive",
		},
		{
			name: "page size too large",
			config: &Config{
				Defaults: DefaultsConfig{PageSize: 150},
				GitHub:   GitHubConfig{APIEndpoint: "http://api", GraphQLEndpoint: "http://graphql"},
			},
			wantErr: "exceeds GitHub API limit of 100",
		},
		{
			name: "empty API endpoint",
			config: &Config{
				Defaults: DefaultsConfig{PageSize: 50},
				GitHub:   GitHubConfig{APIEndpoint: "", GraphQLEndpoint: "http://graphql"},
			},
			wantErr: "GitHub API endpoint cannot be empty",
		},
		{
			name: "empty GraphQL endpoint",
			config: &Config{
				Defaults: DefaultsConfig{PageSize: 50},
				GitHub:   GitHubConfig{APIEndpoint: "http://api", GraphQLEndpoint: ""},
			},
			wantErr: "GitHub GraphQL endpoint cannot be empty",
		},
		{
			name: "negative max retries",
			config: &Config{
				Defaults: DefaultsConfig{PageSize: 50},
				GitHub:   GitHubConfig{APIEndpoint: "http://api", GraphQLEndpoint: "http://graphql"},
				Retry:    RetryConfig{MaxRetries: -2},
			},
			wantErr: "max retries cannot be negative",
		},
		{
			name: "multiplier below one",
			config: &Config{
				Defaults: DefaultsConfig{PageSize: 50},
				GitHub:   GitHubConfig{APIEndpoint: "http://api", GraphQLEndpoint: "http://graphql"},
				Retry:    RetryConfig{Multiplier: 0.5},
			},
			wantErr: "retry multiplier must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() error = nil, want %s", tt.wantErr)
				} else if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Validate() error = %v, want containing %s", err, tt.wantErr)
				}
			}
		})
	}
}

func TestBackoffDefaults(t *testing.T) {
	var zero RetryConfig
	if got := zero.InitialBackoffOrDefault(); got != time.Second {
		t.Errorf("InitialBackoffOrDefault() = %v, want 1s", got)
	}
	if got := zero.MaxBackoffOrDefault(); got != 30*time.Second {
		t.Errorf("MaxBackoffOrDefault() = %v, want 30s", got)
	}

	set := RetryConfig{InitialBackoff: Duration(2 * time.Second), MaxBackoff: Duration(time.Minute)}
	if got := set.InitialBackoffOrDefault(); got != 2*time.Second {
		t.Errorf("InitialBackoffOrDefault() = %v, want 2s", got)
	}
	if got := set.MaxBackoffOrDefault(); got != time.Minute {
		t.Errorf("MaxBackoffOrDefault() = %v, want 1m", got)
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"1", true},
		{"on", true},
		{"false", false},
		{"no", false},
		{"0", false},
		{"off", false},
		{"", false},
		{"random", false},
	}

	for _, tt := range tests {
		if got := parseBool(tt.input); got != tt.want {
			t.Errorf("parseBool(%s) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"50", 50, false},
		{"1", 1, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parsePositiveInt(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePositiveInt(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePositiveInt(%s) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
