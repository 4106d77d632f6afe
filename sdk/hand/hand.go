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

// Package hand 實作單一參與者（玩家分手或莊家）在一局內的手牌。
package hand

import (
	"strings"

	"github.com/zintix-labs/bjlab/sdk/card"
)

// Hand 點數每次呼叫時重新計算，不做快取。
type Hand struct {
	cards []card.Card
}

func New(cards ...card.Card) *Hand {
	h := &Hand{cards: make([]card.Card, 0, 6)}
	h.cards = append(h.cards, cards...)
	return h
}

func (h *Hand) Add(c card.Card) {
	h.cards = append(h.cards, c)
}

// Cards 回傳手牌副本
func (h *Hand) Cards() []card.Card {
	out := make([]card.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *Hand) Len() int { return len(h.cards) }

// First 第一張牌；空手牌回傳零值。
func (h *Hand) First() card.Card {
	if len(h.cards) == 0 {
		return card.Card{}
	}
	return h.cards[0]
}

// Score 回傳 (總點數, 是否為軟牌)。
//
// 所有 Ace 先以 11 計，總點超過 21 時逐張把 Ace 降為 1（-10），
// 直到不爆或沒有可降的 Ace。仍有 Ace 以 11 計時為軟牌。
func (h *Hand) Score() (int, bool) {
	total := 0
	aces := 0
	for _, c := range h.cards {
		if c.IsAce() {
			aces++
		}
		total += c.Value()
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

func (h *Hand) Value() int {
	v, _ := h.Score()
	return v
}

func (h *Hand) IsSoft() bool {
	_, soft := h.Score()
	return soft
}

// IsBlackjack 恰好兩張且為 21 點
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Value() == 21
}

func (h *Hand) IsBust() bool {
	return h.Value() > 21
}

// CanSplit 恰好兩張且點數（rank）相同。10 與 K 不算對子。
func (h *Hand) CanSplit() bool {
	return len(h.cards) == 2 && h.cards[0].Rank == h.cards[1].Rank
}

// Split 取出第二張牌並回傳，由呼叫端放進新的手牌。
func (h *Hand) Split() (card.Card, bool) {
	if !h.CanSplit() {
		return card.Card{}, false
	}
	c := h.cards[1]
	h.cards = h.cards[:1]
	return c, true
}

func (h *Hand) String() string {
	var sb strings.Builder
	for i, c := range h.cards {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}
