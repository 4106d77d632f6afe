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

package card

import "testing"

func TestRankValue(t *testing.T) {
	want := map[Rank]int{
		Ace: 11, 2: 2, 3: 3, 4: 4, 5: 5, 6: 6, 7: 7, 8: 8, 9: 9,
		Ten: 10, Jack: 10, Queen: 10, King: 10,
	}
	for r, v := range want {
		if got := r.Value(); got != v {
			t.Fatalf("rank %s value got %d want %d", r, got, v)
		}
	}
}

func TestHiLo(t *testing.T) {
	sum := 0
	for r := MinRank; r <= MaxRank; r++ {
		sum += HiLo(r)
	}
	// 一個完整花色的 Hi-Lo 權重總和為 0（平衡計數）
	if sum != 0 {
		t.Fatalf("hi-lo must be balanced, got %d", sum)
	}
	if HiLo(Ace) != -1 || HiLo(King) != -1 || HiLo(5) != 1 || HiLo(8) != 0 {
		t.Fatalf("unexpected hi-lo weights")
	}
}

func TestParseRank(t *testing.T) {
	cases := []struct {
		in   string
		want Rank
		ok   bool
	}{
		{"A", Ace, true},
		{"t", Ten, true},
		{"K", King, true},
		{"7", 7, true},
		{"13", King, true},
		{"0", 0, false},
		{"14", 0, false},
		{"x", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseRank(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParseRank(%q) got (%d,%v) want (%d,%v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestCardString(t *testing.T) {
	if s := New(Hearts, Queen).String(); s != "Q♥" {
		t.Fatalf("got %q", s)
	}
	if cs := Of(Ace, 10); len(cs) != 2 || !cs[0].IsAce() || cs[1].Value() != 10 {
		t.Fatalf("unexpected cards: %v", cs)
	}
}
