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

package spec

import (
	"fmt"
	"strings"

	"github.com/zintix-labs/bjlab/errs"
)

// Ruleset 牌桌規則。建立後視為唯讀，模擬過程中不會被修改。
//
// DoubleAfterSplit / ResplitAces / SurrenderAllowed / MaxSplits 目前僅宣告，
// 對局流程固定為「每局最多分牌一次、不可投降」。
type Ruleset struct {
	Name             string  `yaml:"name"                json:"name"`
	DealerHitsSoft17 bool    `yaml:"dealer_hits_soft_17" json:"dealer_hits_soft_17"`
	BlackjackPayout  float64 `yaml:"blackjack_payout"    json:"blackjack_payout"`
	DoubleAfterSplit bool    `yaml:"double_after_split"  json:"double_after_split"`
	ResplitAces      bool    `yaml:"resplit_aces"        json:"resplit_aces"`
	SurrenderAllowed bool    `yaml:"surrender_allowed"   json:"surrender_allowed"`
	MaxSplits        int     `yaml:"max_splits"          json:"max_splits"`
}

const (
	DefaultBlackjackPayout = 1.5
	DefaultMaxSplits       = 3
	DefaultRulesetName     = "default"
)

func DefaultRuleset() *Ruleset {
	return &Ruleset{
		Name:             DefaultRulesetName,
		DealerHitsSoft17: false,
		BlackjackPayout:  DefaultBlackjackPayout,
		DoubleAfterSplit: true,
		ResplitAces:      false,
		SurrenderAllowed: false,
		MaxSplits:        DefaultMaxSplits,
	}
}

// Clone 回傳副本，讓呼叫端覆寫個別欄位時不影響 catalog 內的設定。
func (r *Ruleset) Clone() *Ruleset {
	if r == nil {
		return DefaultRuleset()
	}
	cp := *r
	return &cp
}

// Valid 檢查規則；錯誤一律為 Warn（屬於輸入問題）。
func (r *Ruleset) Valid() error {
	if r == nil {
		return errs.NewWarn("nil ruleset")
	}
	if r.BlackjackPayout <= 0 || r.BlackjackPayout > 10 {
		return errs.Warnf("blackjack_payout out of range: %v", r.BlackjackPayout)
	}
	if r.MaxSplits < 0 {
		return errs.Warnf("max_splits must be >= 0: %d", r.MaxSplits)
	}
	return nil
}

func (r *Ruleset) String() string {
	s17 := "S17"
	if r.DealerHitsSoft17 {
		s17 = "H17"
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = DefaultRulesetName
	}
	return fmt.Sprintf("%s(%s bj=%g)", name, s17, r.BlackjackPayout)
}
