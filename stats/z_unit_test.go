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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/bjlab/stats"
)

// buildReport 以每局淨輸贏組出報表，注碼固定 10。
func buildReport(init float64, results []float64, wins int) *stats.SessionReport {
	r := &stats.SessionReport{
		InitBankroll:    init,
		BankrollHistory: []float64{init},
		HandsPlayed:     len(results),
		Wins:            wins,
		TotalBet:        10 * float64(len(results)),
	}
	b := init
	for _, v := range results {
		b += v
		r.BankrollHistory = append(r.BankrollHistory, b)
		r.ResultSum += v
		r.ResultSqSum += v * v
	}
	r.FinalBankroll = b
	r.Done()
	return r
}

func TestSessionReportCoreMetrics(t *testing.T) {
	rep := buildReport(100, []float64{10, -10, 15, -10}, 2)

	if rep.EvPerHand != 1.25 {
		t.Fatalf("ev got %v want 1.25", rep.EvPerHand)
	}
	if rep.WinRate != 0.5 {
		t.Fatalf("win rate got %v want 0.5", rep.WinRate)
	}
	mean := 5.0 / 4.0
	var ss float64
	for _, v := range []float64{10, -10, 15, -10} {
		ss += (v - mean) * (v - mean)
	}
	wantStd := math.Sqrt(ss / 3)
	if math.Abs(rep.Std-wantStd) > 1e-9 {
		t.Fatalf("std got %v want %v", rep.Std, wantStd)
	}
	if !(rep.EvCI.Lo < rep.Ev() && rep.Ev() < rep.EvCI.Hi) {
		t.Fatalf("ev %v outside ci %+v", rep.Ev(), rep.EvCI)
	}
	if rep.Ruined {
		t.Fatalf("positive bankroll is not ruined")
	}

	rep.Done() // idempotent
	if rep.EvPerHand != 1.25 {
		t.Fatalf("ev changed after second Done")
	}
}

func TestRounding(t *testing.T) {
	rep := buildReport(100, []float64{10, -10, 15}, 1)
	// 15/3 = 5, 1/3 win rate → 0.333
	if rep.EvPerHand != 5 || rep.WinRate != 0.333 {
		t.Fatalf("got ev=%v wr=%v", rep.EvPerHand, rep.WinRate)
	}
	rep2 := buildReport(100, []float64{10, 0, 0, 0, 0, 0, -3}, 1)
	// 7/7 = 1, 1/7 → 0.143
	if rep2.EvPerHand != 1 || rep2.WinRate != 0.143 {
		t.Fatalf("got ev=%v wr=%v", rep2.EvPerHand, rep2.WinRate)
	}

	// 恰好落在中間：取偶數位
	ties := []struct {
		name    string
		results []float64
		wins    int
		ev      float64
		wr      float64
	}{
		{"8 hands net -1", []float64{-1, 0, 0, 0, 0, 0, 0, 0}, 0, -0.12, 0},
		{"8 hands net +1", []float64{1, 0, 0, 0, 0, 0, 0, 0}, 1, 0.12, 0.125},
		{"8 hands net +3", []float64{3, 0, 0, 0, 0, 0, 0, 0}, 1, 0.38, 0.125},
		{"16 hands 1 win", []float64{16, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 1, 1, 0.062},
		{"16 hands 3 wins", []float64{1, 1, 1, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 3, 0.12, 0.188},
	}
	for _, tt := range ties {
		rep := buildReport(100, tt.results, tt.wins)
		if rep.EvPerHand != tt.ev || rep.WinRate != tt.wr {
			t.Fatalf("%s: got ev=%v wr=%v want ev=%v wr=%v", tt.name, rep.EvPerHand, rep.WinRate, tt.ev, tt.wr)
		}
	}
}

func TestZeroHands(t *testing.T) {
	rep := buildReport(0, nil, 0)
	if rep.EvPerHand != 0 || rep.WinRate != 0 || rep.Ruined {
		t.Fatalf("zero-hand report must be zeroed: %+v", rep)
	}
	if len(rep.BankrollHistory) != 1 {
		t.Fatalf("history must hold the initial bankroll only")
	}
}

func TestJSONFieldNames(t *testing.T) {
	rep := buildReport(100, []float64{10}, 1)
	var buf bytes.Buffer
	if err := rep.WriteWith(&buf, &stats.JsonSessionReportRender{}); err != nil {
		t.Fatalf("json render: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, k := range []string{"bankroll_history", "final_bankroll", "ev_per_hand", "hands_played", "win_rate", "wins", "losses", "pushes", "blackjacks", "total_bet"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing key %q", k)
		}
	}
	if _, ok := m["ResultSum"]; ok {
		t.Fatalf("internal sums must not be exported")
	}
}

func TestYAMLFlowHistory(t *testing.T) {
	rep := buildReport(100, []float64{10, -5}, 1)
	var buf bytes.Buffer
	if err := rep.WriteWith(&buf, &stats.YAMLSessionReportRender{}); err != nil {
		t.Fatalf("yaml render: %v", err)
	}
	if !strings.Contains(buf.String(), "bankroll_history: [100, 110, 105]") {
		t.Fatalf("history should be flow style, got:\n%s", buf.String())
	}
}

func TestEstimatorEvAndSession(t *testing.T) {
	// 100 位玩家，EV/hand 由 -50 到 49
	reports := make([]*stats.SessionReport, 0, 100)
	for i := 0; i < 100; i++ {
		reports = append(reports, buildReport(100, []float64{float64(i - 50)}, 0))
	}
	est := stats.EstimatorPlayerExp(reports)
	if math.Abs(est.EvStat.ExpMedian.Hat) > 2 {
		t.Fatalf("median ev expected ~0, got %.3f", est.EvStat.ExpMedian.Hat)
	}
	if math.Abs(est.EvStat.ExpPerc.ExpP90.Hat-40) > 2 {
		t.Fatalf("P90 ev expected ~40, got %.3f", est.EvStat.ExpPerc.ExpP90.Hat)
	}
	if est.TotalHands != 100 || est.Players != 100 {
		t.Fatalf("totals: %+v", est)
	}

	// 3 ruined, 5 profit, 2 flat
	samples := make([]*stats.SessionReport, 0, 10)
	for i := 0; i < 10; i++ {
		switch {
		case i < 3:
			samples = append(samples, buildReport(10, []float64{-10}, 0))
		case i < 8:
			samples = append(samples, buildReport(10, []float64{10}, 1))
		default:
			samples = append(samples, buildReport(10, []float64{0}, 0))
		}
	}
	est2 := stats.EstimatorPlayerExp(samples)
	if est2.SessionStat.Ruined.Hat != 0.3 {
		t.Fatalf("ruin rate got %.2f want 0.30", est2.SessionStat.Ruined.Hat)
	}
	if est2.SessionStat.Profit.Hat != 0.5 {
		t.Fatalf("profit rate got %.2f want 0.50", est2.SessionStat.Profit.Hat)
	}
	if est2.SessionStat.Survive.Hat != 0.7 {
		t.Fatalf("survive rate got %.2f want 0.70", est2.SessionStat.Survive.Hat)
	}
	if est2.WinRate.Hat != 0.5 {
		t.Fatalf("pooled win rate got %.2f want 0.50", est2.WinRate.Hat)
	}
	if !(est2.WinRate.CI.Lo < 0.5 && est2.WinRate.CI.Hi > 0.5) {
		t.Fatalf("win rate ci must cover the estimate: %+v", est2.WinRate.CI)
	}
}

func TestEstimatorSinglePlayer(t *testing.T) {
	est := stats.EstimatorPlayerExp([]*stats.SessionReport{buildReport(100, []float64{5}, 1)})
	if est.EvStat.ExpMedian.Hat != 5 || est.EvStat.ExpMedian.CI.Lo != 5 {
		t.Fatalf("single player: %+v", est.EvStat.ExpMedian)
	}
}

func TestEstimatorSurviveIsNotRuined(t *testing.T) {
	samples := []*stats.SessionReport{
		buildReport(10, []float64{-10}, 0),         // 第一局即破產
		buildReport(20, []float64{5, 5, -30}, 2),   // 最後一局才破產
		buildReport(20, []float64{-5, -5, -5}, 0),  // 打完全部局數但虧損
		buildReport(20, []float64{10, -10, 10}, 2), // 獲利
	}
	est := stats.EstimatorPlayerExp(samples)
	ss := est.SessionStat
	if ss.Ruined.Hat != 0.5 {
		t.Fatalf("ruin rate got %.2f want 0.50", ss.Ruined.Hat)
	}
	if ss.Survive.Hat != 0.5 {
		t.Fatalf("survive rate got %.2f want 0.50", ss.Survive.Hat)
	}
	if ss.Survive.Hat+ss.Ruined.Hat != 1 {
		t.Fatalf("survive + ruined must be 1, got %.2f + %.2f", ss.Survive.Hat, ss.Ruined.Hat)
	}
}
