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

import "encoding/json"

// Mapper encodes request bodies and decodes response bodies. It is an
// external collaborator of the executor: swapping it changes the wire
// serialization without touching the request pipeline. The default is
// encoding/json.
type Mapper interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

type jsonMapper struct{}

func (jsonMapper) Encode(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonMapper) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }
