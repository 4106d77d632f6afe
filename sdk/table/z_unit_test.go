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

package table

import (
	"errors"
	"testing"

	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/sdk/card"
	"github.com/zintix-labs/bjlab/sdk/core"
	"github.com/zintix-labs/bjlab/sdk/shoe"
	"github.com/zintix-labs/bjlab/spec"
)

func testCore() *core.Core {
	return core.New(core.Default().New(7))
}

// stacked 疊好的牌靴：ranks 依發牌順序，penetration=1 不會局前重洗。
func stacked(t *testing.T, rs *spec.Ruleset, ranks ...card.Rank) *Table {
	t.Helper()
	sh, err := shoe.FromCards(1, card.Of(ranks...), testCore())
	if err != nil {
		t.Fatalf("stack shoe: %v", err)
	}
	return NewWithShoe(sh, 1.0, rs)
}

func TestRounds(t *testing.T) {
	h17 := spec.DefaultRuleset()
	h17.DealerHitsSoft17 = true
	sixFive := spec.DefaultRuleset()
	sixFive.BlackjackPayout = 1.2

	tests := []struct {
		name  string
		rs    *spec.Ruleset
		ranks []card.Rank
		want  Outcome
	}{
		{
			name:  "player natural",
			ranks: []card.Rank{card.Ace, 9, card.King, 7},
			want:  Outcome{Result: 15, Blackjack: true, Wagered: 10},
		},
		{
			name:  "player natural six to five",
			rs:    sixFive,
			ranks: []card.Rank{card.Ace, 9, card.King, 7},
			want:  Outcome{Result: 12, Blackjack: true, Wagered: 10},
		},
		{
			name:  "both natural",
			ranks: []card.Rank{card.Ace, card.Ace, card.King, card.Queen},
			want:  Outcome{Result: 0, Wagered: 10},
		},
		{
			name:  "dealer natural",
			ranks: []card.Rank{10, card.Ace, 9, card.King},
			want:  Outcome{Result: -10, Wagered: 10},
		},
		{
			name:  "hit 16 against ten",
			ranks: []card.Rank{10, 7, 6, 10, 5},
			want:  Outcome{Result: 10, Wagered: 10},
		},
		{
			name:  "player bust",
			ranks: []card.Rank{10, 7, 6, 10, 9},
			want:  Outcome{Result: -10, Wagered: 10},
		},
		{
			name:  "double eleven",
			ranks: []card.Rank{5, 9, 6, 6, 10, 10},
			want:  Outcome{Result: 20, Wagered: 20, Doubles: 1},
		},
		{
			name:  "split eights then double",
			ranks: []card.Rank{8, 10, 8, 6, 3, 2, 9, 10},
			want:  Outcome{Result: 30, Wagered: 30, Doubles: 1, Splits: 1},
		},
		{
			name:  "dealer stands soft 17",
			ranks: []card.Rank{10, card.Ace, 8, 6},
			want:  Outcome{Result: 10, Wagered: 10},
		},
		{
			name:  "dealer hits soft 17",
			rs:    h17,
			ranks: []card.Rank{10, card.Ace, 8, 6, 2},
			want:  Outcome{Result: -10, Wagered: 10},
		},
		{
			name:  "push",
			ranks: []card.Rank{10, 10, 8, 8},
			want:  Outcome{Result: 0, Wagered: 10},
		},
	}
	for _, tt := range tests {
		tb := stacked(t, tt.rs, tt.ranks...)
		got, err := tb.PlayRound(10)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: got %+v want %+v", tt.name, got, tt.want)
		}
		if tb.Shoe().Remaining() != 0 {
			t.Fatalf("%s: %d cards left, stack consumed unexpectedly", tt.name, tb.Shoe().Remaining())
		}
	}
}

func TestShoeExhausted(t *testing.T) {
	tb := stacked(t, nil, 10, 7, 6, 10)
	_, err := tb.PlayRound(10)
	if !errors.Is(err, ErrShoeExhausted) {
		t.Fatalf("expected ErrShoeExhausted, got %v", err)
	}
	if errs.Level(err) != errs.Fatal {
		t.Fatalf("exhaustion must be fatal")
	}
}

func TestReshuffleBeforeRound(t *testing.T) {
	s := spec.DefaultSimSetting()
	tb, err := New(s, testCore())
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	if tb.Threshold() != 78 {
		t.Fatalf("threshold: got %d want 78", tb.Threshold())
	}
	for i := 0; i < 500; i++ {
		if _, err := tb.PlayRound(10); err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
		if tb.Shoe().Remaining() > tb.Shoe().Capacity() {
			t.Fatalf("shoe overfilled")
		}
	}
	if tb.Reshuffles() == 0 {
		t.Fatalf("500 rounds over 6 decks must reshuffle")
	}
}

func TestNewRejectsBadSetting(t *testing.T) {
	s := spec.DefaultSimSetting()
	s.Decks = 0
	if _, err := New(s, testCore()); errs.Level(err) != errs.Warn {
		t.Fatalf("decks=0 must be a warn error, got %v", err)
	}
}
