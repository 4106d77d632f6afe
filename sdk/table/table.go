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

// Package table 執行一局 21 點：洗牌檢查、發牌、天生 21、玩家依基本策略行動、莊家補牌、結算。
package table

import (
	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/sdk/card"
	"github.com/zintix-labs/bjlab/sdk/core"
	"github.com/zintix-labs/bjlab/sdk/hand"
	"github.com/zintix-labs/bjlab/sdk/rules"
	"github.com/zintix-labs/bjlab/sdk/shoe"
	"github.com/zintix-labs/bjlab/spec"
)

// ErrShoeExhausted 一局進行中牌靴被抽空。該局與整個 session 都必須中止。
var ErrShoeExhausted = errs.NewFatal("shoe exhausted mid-round")

// Outcome 一局的結果。
//
// Result 為相對原始注碼的淨輸贏（含加倍與分牌）；Wagered 為該局實際押上的總額。
type Outcome struct {
	Result    float64 `json:"result"`
	Blackjack bool    `json:"blackjack"`
	Wagered   float64 `json:"wagered"`
	Doubles   int     `json:"doubles"`
	Splits    int     `json:"splits"`
}

// Table 持有一個牌靴與一份規則。
//
// 並發語意：Table 不是併發安全的；同一張 Table 只能由單一 goroutine 操作，
// 多玩家模擬時每位玩家各自建立 Table。
type Table struct {
	shoe       *shoe.Shoe
	rules      *rules.Rules
	threshold  int // 剩餘張數 <= threshold 時於局前重洗
	reshuffles int
}

// New 依設定建立牌靴（已洗牌）與規則。
func New(s *spec.SimSetting, c *core.Core) (*Table, error) {
	if err := s.Valid(); err != nil {
		return nil, err
	}
	sh, err := shoe.New(s.Decks, c)
	if err != nil {
		return nil, err
	}
	return NewWithShoe(sh, s.Penetration, s.Rules), nil
}

// NewWithShoe 使用既有牌靴（例如 shoe.FromCards 疊好的牌），測試與重播用。
func NewWithShoe(sh *shoe.Shoe, penetration float64, rs *spec.Ruleset) *Table {
	return &Table{
		shoe:      sh,
		rules:     rules.New(rs),
		threshold: sh.Threshold(penetration),
	}
}

func (t *Table) Shoe() *shoe.Shoe { return t.shoe }

func (t *Table) Rules() *rules.Rules { return t.rules }

func (t *Table) Threshold() int { return t.threshold }

// Reshuffles 到目前為止局前重洗的次數
func (t *Table) Reshuffles() int { return t.reshuffles }

// TrueCount 下注前的計數估計，每次呼叫都是新的隨機值。
func (t *Table) TrueCount() float64 {
	return t.shoe.EstimateTrueCount()
}

// seat 待處理的一手牌與其注碼
type seat struct {
	h   *hand.Hand
	bet float64
}

func (t *Table) draw(h *hand.Hand) (card.Card, error) {
	c, ok := t.shoe.Deal()
	if !ok {
		return card.Card{}, ErrShoeExhausted
	}
	h.Add(c)
	return c, nil
}

// PlayRound 以注碼 bet 打完一局。
//
// 流程：
//  1. 剩餘張數 <= threshold 時先 Reset + Shuffle（只在局前檢查，局中不重洗）。
//  2. 依 玩家 → 莊家 → 玩家 → 莊家 發牌；莊家第二張為策略參考的明牌。
//  3. 天生 21：雙方皆有 → 0；僅玩家 → bet*payout；僅莊家 → -bet。
//  4. 玩家手牌放入佇列依序處理；分牌只允許在尚未分過牌時，新手牌排到佇列尾端。
//  5. 莊家依規則補牌後逐手結算。非天生的 21 一律 1 賠 1。
func (t *Table) PlayRound(bet float64) (Outcome, error) {
	if t.shoe.Remaining() <= t.threshold {
		t.shoe.Reset()
		t.shoe.Shuffle()
		t.reshuffles++
	}

	out := Outcome{Wagered: bet}
	player, dealer := hand.New(), hand.New()
	var up card.Card
	var err error
	if _, err = t.draw(player); err != nil {
		return out, err
	}
	if _, err = t.draw(dealer); err != nil {
		return out, err
	}
	if _, err = t.draw(player); err != nil {
		return out, err
	}
	if up, err = t.draw(dealer); err != nil {
		return out, err
	}

	pbj, dbj := player.IsBlackjack(), dealer.IsBlackjack()
	switch {
	case pbj && dbj:
		return out, nil
	case pbj:
		out.Result = bet * t.rules.BlackjackPayout()
		out.Blackjack = true
		return out, nil
	case dbj:
		out.Result = -bet
		return out, nil
	}

	queue := []*seat{{h: player, bet: bet}}
	for i := 0; i < len(queue); i++ {
		s := queue[i]
	turn:
		for !s.h.IsBust() {
			act := t.rules.BasicStrategy(s.h, up, s.h.Len() == 2, len(queue) == 1)
			switch act {
			case rules.Hit:
				if _, err = t.draw(s.h); err != nil {
					return out, err
				}
			case rules.Stand:
				break turn
			case rules.Double:
				if _, err = t.draw(s.h); err != nil {
					return out, err
				}
				out.Wagered += s.bet
				s.bet *= 2
				out.Doubles++
				break turn
			case rules.Split:
				c, _ := s.h.Split()
				nh := hand.New(c)
				if _, err = t.draw(s.h); err != nil {
					return out, err
				}
				if _, err = t.draw(nh); err != nil {
					return out, err
				}
				queue = append(queue, &seat{h: nh, bet: bet})
				out.Wagered += bet
				out.Splits++
				break turn
			}
		}
	}

	// 玩家全部爆牌時莊家仍照規則補牌
	for t.rules.DealerShouldHit(dealer) {
		if _, err = t.draw(dealer); err != nil {
			return out, err
		}
	}

	for _, s := range queue {
		out.Result += rules.Settle(s.h, dealer, s.bet)
	}
	return out, nil
}
