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

package testutil

import (
	"fmt"
	"time"
)

// GenerateIssue creates a realistic REST API issue object for mock
// responses.
func GenerateIssue(number int) map[string]any {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(number) * time.Hour)
	state := "open"
	if number%3 == 0 {
		state = "closed"
	}
	return map[string]any{
		"id":         1000000 + number,
		"number":     number,
		"title":      fmt.Sprintf("Issue %d", number),
		"state":      state,
		"created_at": created.Format(time.RFC3339),
		"updated_at": created.Add(time.Hour).Format(time.RFC3339),
		"user": map[string]any{
			"login": fmt.Sprintf("user%d", number%7),
			"id":    2000 + number%7,
		},
	}
}

// GenerateIssues creates a slice of sequential issue objects starting at
// number 1.
func GenerateIssues(count int) []map[string]any {
	issues := make([]map[string]any, count)
	for i := range issues {
		issues[i] = GenerateIssue(i + 1)
	}
	return issues
}

// IssuePages splits total issues into pages of pageSize for use with
// NewPaginatedServer. The last page may be short.
func IssuePages(total, pageSize int) [][]map[string]any {
	all := GenerateIssues(total)
	var pages [][]map[string]any
	for start := 0; start < len(all); start += pageSize {
		end := start + pageSize
		if end > len(all) {
			end = len(all)
		}
		pages = append(pages, all[start:end])
	}
	if pages == nil {
		pages = [][]map[string]any{{}}
	}
	return pages
}

// GenerateRepository creates a realistic REST API repository object.
func GenerateRepository(owner, name string) map[string]any {
	return map[string]any{
		"id":        3000000,
		"full_name": owner + "/" + name,
		"name":      name,
		"owner": map[string]any{
			"login": owner,
		},
		"private":     false,
		"open_issues": 42,
	}
}
