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

// Package card 定義 21 點使用的撲克牌與點數規則。
package card

import "strconv"

// Suit 花色只用於顯示，計分不參考花色。
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits 四種花色，建牌順序固定。
var Suits = [4]Suit{Spades, Hearts, Diamonds, Clubs}

func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Rank 1=Ace, 2..10, 11=J, 12=Q, 13=K
type Rank uint8

const (
	Ace   Rank = 1
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13

	MinRank = Ace
	MaxRank = King
	// RanksPerSuit 每個花色的點數種類
	RanksPerSuit = 13
	// DeckSize 一副牌的張數
	DeckSize = 52
)

// Value Ace=11（之後由 Hand 軟化）、人頭牌=10、其餘為牌面點數。
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return strconv.Itoa(int(r))
	}
}

// ParseRank 接受 A/J/Q/K/T 與 1..13 的數字。
func ParseRank(s string) (Rank, bool) {
	switch s {
	case "A", "a":
		return Ace, true
	case "T", "t":
		return Ten, true
	case "J", "j":
		return Jack, true
	case "Q", "q":
		return Queen, true
	case "K", "k":
		return King, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < int(MinRank) || n > int(MaxRank) {
		return 0, false
	}
	return Rank(n), true
}

// HiLo 回傳 Hi-Lo 計數權重：2..6 為 +1，7..9 為 0，10/J/Q/K/A 為 -1。
func HiLo(r Rank) int {
	switch {
	case r >= 2 && r <= 6:
		return 1
	case r >= 7 && r <= 9:
		return 0
	default:
		return -1
	}
}

// Card 發出後即不可變。
type Card struct {
	Suit Suit
	Rank Rank
}

func New(s Suit, r Rank) Card {
	return Card{Suit: s, Rank: r}
}

func (c Card) Value() int { return c.Rank.Value() }

func (c Card) IsAce() bool { return c.Rank == Ace }

func (c Card) String() string { return c.Rank.String() + c.Suit.String() }

// Of 依點數建立黑桃牌，測試與重播時使用。
func Of(ranks ...Rank) []Card {
	cs := make([]Card, len(ranks))
	for i, r := range ranks {
		cs[i] = Card{Suit: Spades, Rank: r}
	}
	return cs
}
