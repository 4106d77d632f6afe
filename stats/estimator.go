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

package stats

import (
	"fmt"
	"sort"

	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// EstimatorPlayers 多玩家體驗評估
type EstimatorPlayers struct {
	Players     int         `json:"players"      yaml:"players"`
	TotalHands  int         `json:"total_hands"  yaml:"total_hands"`
	PooledEv    float64     `json:"pooled_ev"    yaml:"pooled_ev"` // 全體淨輸贏 / 全體局數
	WinRate     PointStat   `json:"win_rate"     yaml:"win_rate"`  // 全體勝局比例
	EvStat      EvStat      `json:"ev_stat"      yaml:"ev_stat"`
	SessionStat SessionStat `json:"session_stat" yaml:"session_stat"`
}

// EvStat 每位玩家 EV/hand 的分布
type EvStat struct {
	ExpMedian PointStat `json:"median" yaml:"median"`
	ExpPerc   ExpPerc   `json:"perc"   yaml:"perc"`
}

// 用玩家分位數視角看: 最差10％玩家的 EV/hand ...
type ExpPerc struct {
	ExpP10 PointStat `json:"p10" yaml:"p10"`
	ExpP33 PointStat `json:"p33" yaml:"p33"`
	ExpP67 PointStat `json:"p67" yaml:"p67"`
	ExpP90 PointStat `json:"p90" yaml:"p90"`
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64 `json:"hat" yaml:"hat"`
	CI  CI      `json:"ci"  yaml:"ci"`
}

// 對應結果敘事
type SessionStat struct {
	Ruined  PointStat `json:"ruined"  yaml:"ruined"`  // 資金歸零
	Profit  PointStat `json:"profit"  yaml:"profit"`  // 結束時獲利
	Survive PointStat `json:"survive" yaml:"survive"` // 結束時資金仍為正（未破產）
}

// ============================================================
// ** 對外 : 用戶體驗評估 **
// ============================================================

// EstimatorPlayerExp 用戶體驗評估
//
// 1. EV 敘事 : 每位玩家 EV/hand 的中位數與分位數（含 95% CI）
//
// 2. Session 敘事 : 破產、獲利、未破產的比例（Clopper–Pearson 95% CI）
//
// 3. 全體勝率 : 以所有玩家的局數合併估計
func EstimatorPlayerExp(sts []*SessionReport) *EstimatorPlayers {
	n := len(sts)
	out := &EstimatorPlayers{Players: n}
	if n == 0 {
		return out
	}

	// ------------------------------------------------------------
	// 1) EV 敘事
	// ------------------------------------------------------------
	ev := make([]float64, n)
	var wins, hands int
	var net float64
	for i, s := range sts {
		s.Done()
		ev[i] = s.Ev()
		wins += s.Wins
		hands += s.HandsPlayed
		net += s.FinalBankroll - s.InitBankroll
	}

	point := func(q float64) PointStat {
		lo, hi := quantileCI(ev, q, 0.95)
		return PointStat{Hat: quantilePoint(ev, q), CI: CI{Lo: lo, Hi: hi}}
	}
	out.EvStat = EvStat{
		ExpMedian: point(0.5),
		ExpPerc: ExpPerc{
			ExpP10: point(0.10),
			ExpP33: point(1.0 / 3.0),
			ExpP67: point(2.0 / 3.0),
			ExpP90: point(0.90),
		},
	}

	// ------------------------------------------------------------
	// 2) Session 敘事
	// ------------------------------------------------------------
	var ruinK, profitK, surviveK int
	for _, s := range sts {
		if s.Ruined {
			ruinK++
		} else {
			surviveK++
		}
		if s.Profit() {
			profitK++
		}
	}
	ruinHat, ruinCI := proportionCICP(ruinK, n, 0.95)
	profitHat, profitCI := proportionCICP(profitK, n, 0.95)
	surviveHat, surviveCI := proportionCICP(surviveK, n, 0.95)
	out.SessionStat = SessionStat{
		Ruined:  PointStat{Hat: ruinHat, CI: ruinCI},
		Profit:  PointStat{Hat: profitHat, CI: profitCI},
		Survive: PointStat{Hat: surviveHat, CI: surviveCI},
	}

	// ------------------------------------------------------------
	// 3) 全體勝率
	// ------------------------------------------------------------
	out.TotalHands = hands
	if hands > 0 {
		out.PooledEv = net / float64(hands)
	}
	wrHat, wrCI := proportionCICP(wins, hands, 0.95)
	out.WinRate = PointStat{Hat: wrHat, CI: wrCI}

	return out
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// 想估「第 q 分位」的上下界。做法：把 order statistic 的秩視為二項→Beta 反推 p 範圍，再把 p 轉回樣本索引。
// 回傳 (loValue, hiValue)
func quantileCI(data []float64, q, confidence float64) (float64, float64) {
	n := len(data)
	if n == 0 {
		return 0, 0
	}
	cp := make([]float64, n)
	copy(cp, data)
	sort.Float64s(cp)
	if n < 2 {
		return cp[0], cp[0]
	}

	alpha := 1 - confidence
	k := int(q * float64(n))
	if k < 1 {
		k = 1
	} else if k > n-1 {
		k = n - 1
	}

	// 以 CP 思想反推 p 範圍
	bLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
	bHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
	pLo := bLo.Quantile(alpha / 2)
	pHi := bHi.Quantile(1 - alpha/2)

	li := int(pLo * float64(n))
	ui := int(pHi * float64(n))
	if ui > 0 {
		ui -= 1
	}
	if li < 0 {
		li = 0
	}
	if li > n-1 {
		li = n - 1
	}
	if ui < 0 {
		ui = 0
	}
	if ui > n-1 {
		ui = n - 1
	}
	return cp[li], cp[ui]
}

// quantilePoint returns the empirical quantile point estimate at q.
func quantilePoint(data []float64, q float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, data)
	sort.Float64s(cp)
	// 最近秩法
	idx := int(q * float64(n))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return cp[idx]
}

// ============================================================
// ** 輸出函數 **
// ============================================================

func (est *EstimatorPlayers) Out() {
	p := message.NewPrinter(lang)
	p.Printf("players: %d  hands: %d  pooled ev/hand: %.4f\n", est.Players, est.TotalHands, est.PooledEv)

	fmt.Println("\n=== EV / Hand (Player Experience) ===")
	evKeys := []string{"Median", "P10", "P33", "P67", "P90"}
	evMsg := map[string]string{
		"Median": fmtHatCI(est.EvStat.ExpMedian),
		"P10":    fmtHatCI(est.EvStat.ExpPerc.ExpP10),
		"P33":    fmtHatCI(est.EvStat.ExpPerc.ExpP33),
		"P67":    fmtHatCI(est.EvStat.ExpPerc.ExpP67),
		"P90":    fmtHatCI(est.EvStat.ExpPerc.ExpP90),
	}
	printTable("EV / Hand", evKeys, evMsg)

	fmt.Println("\n=== Session Outcome ===")
	sessionKeys := []string{"Ruined", "Profit", "Survive", "Win Rate"}
	sessionMsg := map[string]string{
		"Ruined":   fmtHatCIpct01(est.SessionStat.Ruined),
		"Profit":   fmtHatCIpct01(est.SessionStat.Profit),
		"Survive":  fmtHatCIpct01(est.SessionStat.Survive),
		"Win Rate": fmtHatCIpct01(est.WinRate),
	}
	printTable("Session Outcome", sessionKeys, sessionMsg)
}

func printTable(title string, keys []string, msg map[string]string) {
	fmt.Println(title)
	maxKeyLen := 0
	for _, k := range keys {
		if len(k) > maxKeyLen {
			maxKeyLen = len(k)
		}
	}
	for _, k := range keys {
		fmt.Printf("  %-*s : %s\n", maxKeyLen, k, msg[k])
	}
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(ps PointStat) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(ps.Hat), fmtPct01(ps.CI.Lo), fmtPct01(ps.CI.Hi))
}

func fmtHatCI(ps PointStat) string {
	return fmt.Sprintf("%.4f [%.4f, %.4f]", ps.Hat, ps.CI.Lo, ps.CI.Hi)
}
