// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dto

import (
	"github.com/zintix-labs/bjlab/spec"
	"github.com/zintix-labs/bjlab/stats"
)

// SimResult 單一 session 的回應：報表欄位攤平在最外層，另附 seed 與用時。
type SimResult struct {
	*stats.SessionReport
	Seed   int64 `json:"seed"`
	UsedMs int64 `json:"used_ms"`
}

type SimPlayersResult struct {
	Estimator *stats.EstimatorPlayers `json:"estimator"`
	Players   int                     `json:"players"`
	Hands     int                     `json:"hands"`
	Seed      int64                   `json:"seed"`
	UsedMs    int64                   `json:"used_ms"`
}

type StrategyResult struct {
	Cards  []string `json:"cards"`
	Up     string   `json:"up"`
	Total  int      `json:"total"`
	Soft   bool     `json:"soft"`
	Action string   `json:"action"`
}

type RulesResult struct {
	Default *spec.Ruleset   `json:"default"`
	Presets []*spec.Ruleset `json:"presets"`
}
