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

package recorder

import (
	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/sdk/table"
	"github.com/zintix-labs/bjlab/stats"
)

// SessionRecorder 玩家紀錄員
//
// 逐局累積資金與勝負計數，最後透過 Done 輸出 SessionReport。
// 不是併發安全的：一位玩家一個 recorder。
type SessionRecorder struct {
	Basic   *BasicRecord
	Player  *PlayerRecord
	History []float64 // keepHistory=false 時為 nil
}

// BasicRecord 勝負與注碼累計
type BasicRecord struct {
	Hands        int
	Wins         int
	Losses       int
	Pushes       int
	Blackjacks   int
	Doubles      int
	Splits       int
	TotalBet     float64 // 每局原始注碼加總
	TotalWagered float64 // 含加倍與分牌
	ResultSum    float64
	ResultSqSum  float64 // 平方和
}

// PlayerRecord 資金軌跡
type PlayerRecord struct {
	InitBankroll float64
	Bankroll     float64
	MaxBankroll  float64
	MinBankroll  float64
}

// NewSessionRecorder hands 只用來預留 History 容量。
func NewSessionRecorder(bankroll float64, hands int, keepHistory bool) (*SessionRecorder, error) {
	if bankroll < 0 {
		return nil, errs.Fatalf("bankroll must not be negative, got: %v", bankroll)
	}
	s := &SessionRecorder{
		Basic: new(BasicRecord),
		Player: &PlayerRecord{
			InitBankroll: bankroll,
			Bankroll:     bankroll,
			MaxBankroll:  bankroll,
			MinBankroll:  bankroll,
		},
	}
	if keepHistory {
		s.History = make([]float64, 1, max(hands, 0)+1)
		s.History[0] = bankroll
	}
	return s, nil
}

// Alive 資金仍大於 0，可以再開下一局
func (s *SessionRecorder) Alive() bool {
	return s.Player.Bankroll > 0
}

func (s *SessionRecorder) Bankroll() float64 {
	return s.Player.Bankroll
}

// Record 以注碼 bet 與該局結果更新資金與計數。
//
// 分類：天生 21 → blackjack + win；>0 win；<0 loss；0 push。
func (s *SessionRecorder) Record(bet float64, o table.Outcome) {
	b := s.Basic
	b.Hands++
	b.TotalBet += bet
	b.TotalWagered += o.Wagered
	b.Doubles += o.Doubles
	b.Splits += o.Splits
	b.ResultSum += o.Result
	b.ResultSqSum += o.Result * o.Result
	switch {
	case o.Blackjack:
		b.Blackjacks++
		b.Wins++
	case o.Result > 0:
		b.Wins++
	case o.Result < 0:
		b.Losses++
	default:
		b.Pushes++
	}

	p := s.Player
	p.Bankroll += o.Result
	if p.Bankroll > p.MaxBankroll {
		p.MaxBankroll = p.Bankroll
	}
	if p.Bankroll < p.MinBankroll {
		p.MinBankroll = p.Bankroll
	}
	if s.History != nil {
		s.History = append(s.History, p.Bankroll)
	}
}

// Done 輸出已完成計算的報表；reshuffles 由牌桌提供。
func (s *SessionRecorder) Done(reshuffles int) *stats.SessionReport {
	b, p := s.Basic, s.Player
	r := &stats.SessionReport{
		BankrollHistory: s.History,
		FinalBankroll:   p.Bankroll,
		HandsPlayed:     b.Hands,
		Wins:            b.Wins,
		Losses:          b.Losses,
		Pushes:          b.Pushes,
		Blackjacks:      b.Blackjacks,
		TotalBet:        b.TotalBet,
		InitBankroll:    p.InitBankroll,
		TotalWagered:    b.TotalWagered,
		Doubles:         b.Doubles,
		Splits:          b.Splits,
		Reshuffles:      reshuffles,
		MaxBankroll:     p.MaxBankroll,
		MinBankroll:     p.MinBankroll,
		ResultSum:       b.ResultSum,
		ResultSqSum:     b.ResultSqSum,
	}
	r.Done()
	return r
}
