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

// Package rules 提供基本策略查表、莊家補牌規則與派彩倍率。
//
// 所有方法皆為純函式：只讀取手牌與 Ruleset，不改變任何狀態。
package rules

import (
	"github.com/zintix-labs/bjlab/sdk/card"
	"github.com/zintix-labs/bjlab/sdk/hand"
	"github.com/zintix-labs/bjlab/spec"
)

type Rules struct {
	set *spec.Ruleset
}

// New 以 Ruleset 副本建立；nil 使用預設規則。
func New(rs *spec.Ruleset) *Rules {
	return &Rules{set: rs.Clone()}
}

func Default() *Rules {
	return New(spec.DefaultRuleset())
}

// Ruleset 回傳副本
func (r *Rules) Ruleset() *spec.Ruleset {
	return r.set.Clone()
}

func (r *Rules) BlackjackPayout() float64 {
	return r.set.BlackjackPayout
}

// DealerShouldHit 16 以下必補；軟 17 依 DealerHitsSoft17；其餘停牌。
func (r *Rules) DealerShouldHit(h *hand.Hand) bool {
	v, soft := h.Score()
	if v < 17 {
		return true
	}
	return v == 17 && soft && r.set.DealerHitsSoft17
}

// BasicStrategy 依序查：分牌表 → 軟牌表 → 硬牌表。
//
// canDouble=false 時加倍退回表上的替代動作（軟 18 退為停牌，其餘退為要牌）；
// canSplit=false 時跳過分牌表，直接以總點數查表。
func (r *Rules) BasicStrategy(h *hand.Hand, up card.Card, canDouble, canSplit bool) Action {
	d := up.Value() // 莊家 Ace 計 11
	if canSplit && h.CanSplit() {
		if splitPair(h.First().Rank, d) {
			return Split
		}
	}
	v, soft := h.Score()
	if soft {
		return softAction(v, d, canDouble)
	}
	return hardAction(v, d, canDouble)
}

func splitPair(rank card.Rank, d int) bool {
	switch rank {
	case card.Ace, 8:
		return true
	case 2, 3, 7:
		return d <= 7
	case 6:
		return d <= 6
	case 9:
		return d != 7 && d != 10 && d != 11
	}
	return false
}

func softAction(v, d int, canDouble bool) Action {
	switch {
	case v >= 19:
		return Stand
	case v == 18:
		if d <= 6 {
			return orElse(canDouble, Stand)
		}
		if d == 7 || d == 8 {
			return Stand
		}
		return Hit
	case v == 17:
		return doubleIf(canDouble && d <= 6)
	case v == 15 || v == 16:
		return doubleIf(canDouble && d >= 4 && d <= 6)
	case v == 13 || v == 14:
		return doubleIf(canDouble && (d == 5 || d == 6))
	}
	return Hit
}

func hardAction(v, d int, canDouble bool) Action {
	switch {
	case v >= 17:
		return Stand
	case v >= 13:
		if d <= 6 {
			return Stand
		}
		return Hit
	case v == 12:
		if d >= 4 && d <= 6 {
			return Stand
		}
		return Hit
	case v == 11:
		return doubleIf(canDouble)
	case v == 10:
		return doubleIf(canDouble && d <= 9)
	case v == 9:
		return doubleIf(canDouble && d >= 3 && d <= 6)
	}
	return Hit
}

func doubleIf(ok bool) Action {
	return orElse(ok, Hit)
}

func orElse(canDouble bool, fallback Action) Action {
	if canDouble {
		return Double
	}
	return fallback
}

// Settle 單手結算（不含天生 21 的特殊派彩）：
// 玩家爆 → -bet；莊家爆 → +bet；比點數，平手 0。
func Settle(player, dealer *hand.Hand, bet float64) float64 {
	if player.IsBust() {
		return -bet
	}
	if dealer.IsBust() {
		return bet
	}
	pv, dv := player.Value(), dealer.Value()
	switch {
	case pv > dv:
		return bet
	case pv < dv:
		return -bet
	}
	return 0
}
