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

// Package shoe 實作多副牌組成的牌靴：建牌、洗牌、發牌與 Hi-Lo 計數估計。
//
// 計數估計刻意「不」追蹤已發出的牌：每次呼叫都以已發張數為樣本數，
// 重新抽取均勻分布的點數後套用 Hi-Lo 權重。因此每次估計都是一個新的隨機值，
// 而不是持續累加的真實計數。
package shoe

import (
	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/sdk/card"
	"github.com/zintix-labs/bjlab/sdk/core"
)

// Shoe 牌靴。發牌一律從 cards 尾端取出（top = 尾端）。
//
// 不變式：len(cards) <= decks*52。
type Shoe struct {
	decks int
	cards []card.Card
	core  *core.Core
}

// New 建立 decks 副牌的牌靴，並完成第一次洗牌。
func New(decks int, c *core.Core) (*Shoe, error) {
	if decks < 1 {
		return nil, errs.Warnf("decks must >= 1, got %d", decks)
	}
	if c == nil {
		return nil, errs.NewFatal("core required")
	}
	s := &Shoe{
		decks: decks,
		cards: make([]card.Card, 0, decks*card.DeckSize),
		core:  c,
	}
	s.Reset()
	s.Shuffle()
	return s, nil
}

// FromCards 以指定順序建立牌靴（cards[0] 為下一張發出的牌），不洗牌。
//
// 用於測試與重播；之後觸發 Reset 時仍會回到完整的 decks 副牌。
func FromCards(decks int, cards []card.Card, c *core.Core) (*Shoe, error) {
	if decks < 1 {
		return nil, errs.Warnf("decks must >= 1, got %d", decks)
	}
	if len(cards) > decks*card.DeckSize {
		return nil, errs.Warnf("too many cards for %d decks: %d", decks, len(cards))
	}
	if c == nil {
		return nil, errs.NewFatal("core required")
	}
	s := &Shoe{
		decks: decks,
		cards: make([]card.Card, len(cards), decks*card.DeckSize),
		core:  c,
	}
	for i, cd := range cards {
		s.cards[len(cards)-1-i] = cd
	}
	return s, nil
}

// Reset 依序重建 decks × 4 花色 × 13 點數，不洗牌。
func (s *Shoe) Reset() {
	s.cards = s.cards[:0]
	for range s.decks {
		for _, suit := range card.Suits {
			for r := card.MinRank; r <= card.MaxRank; r++ {
				s.cards = append(s.cards, card.New(suit, r))
			}
		}
	}
}

// Shuffle 對目前剩餘的牌做均勻隨機重排。
func (s *Shoe) Shuffle() {
	s.core.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Deal 取出最上面一張牌；牌靴已空時回傳 false。
func (s *Shoe) Deal() (card.Card, bool) {
	n := len(s.cards)
	if n == 0 {
		return card.Card{}, false
	}
	c := s.cards[n-1]
	s.cards = s.cards[:n-1]
	return c, true
}

func (s *Shoe) Remaining() int { return len(s.cards) }

func (s *Shoe) Decks() int { return s.decks }

// Capacity 完整牌靴張數 decks*52
func (s *Shoe) Capacity() int { return s.decks * card.DeckSize }

// Dealt 自上次 Reset 以來發出的張數
func (s *Shoe) Dealt() int { return s.Capacity() - len(s.cards) }

// Threshold 回傳重洗門檻 floor(capacity*(1-penetration))。
// 剩餘張數 <= 門檻時，下一局開始前必須重洗。
func (s *Shoe) Threshold(penetration float64) int {
	return Threshold(s.decks, penetration)
}

func Threshold(decks int, penetration float64) int {
	t := int(float64(decks*card.DeckSize) * (1 - penetration))
	return max(0, t)
}

// EstimateRunningCount 以 Dealt() 個均勻隨機點數估計 Hi-Lo running count。
func (s *Shoe) EstimateRunningCount() int {
	count := 0
	for range s.Dealt() {
		r := card.Rank(s.core.Between(int(card.MinRank), int(card.MaxRank)))
		count += card.HiLo(r)
	}
	return count
}

// EstimateTrueCount running count ÷ 剩餘副數；牌靴為空時回傳 0。
func (s *Shoe) EstimateTrueCount() float64 {
	remaining := len(s.cards)
	if remaining == 0 {
		return 0
	}
	decksLeft := float64(remaining) / card.DeckSize
	return float64(s.EstimateRunningCount()) / decksLeft
}
