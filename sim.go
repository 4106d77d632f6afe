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

package bjlab

import (
	"context"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/recorder"
	"github.com/zintix-labs/bjlab/sdk/core"
	"github.com/zintix-labs/bjlab/sdk/table"
	"github.com/zintix-labs/bjlab/spec"
	"github.com/zintix-labs/bjlab/stats"
)

// 每 ctxCheckEvery 局檢查一次 ctx
const ctxCheckEvery = 1024

// Simulator 依一份 SimSetting 執行 session 模擬。
//
// 每次 Sim 都以 initSeed 重新建立牌桌，因此同一個 Simulator 重複呼叫 Sim 會得到相同結果。
// SimPlayers 的每位玩家 seed 由 seedMaker 依序推導，與 worker 排程無關。
type Simulator struct {
	setting  *spec.SimSetting
	cf       core.PRNGFactory
	initSeed int64
}

func newSimulatorWithSeed(s *spec.SimSetting, cf core.PRNGFactory, seed int64) (*Simulator, error) {
	if s == nil {
		return nil, errs.NewWarn("sim setting required")
	}
	cp := *s
	cp.Rules = s.Rules.Clone()
	if err := cp.Valid(); err != nil {
		return nil, err
	}
	return &Simulator{
		setting:  &cp,
		cf:       cf,
		initSeed: seed,
	}, nil
}

func (s *Simulator) Seed() int64 { return s.initSeed }

// Setting 回傳副本
func (s *Simulator) Setting() spec.SimSetting {
	cp := *s.setting
	cp.Rules = s.setting.Rules.Clone()
	return cp
}

// Bet 依 true count 決定注碼：<=0 取 spreadMin、>=4 取 spreadMax，其間線性內插後捨去小數。
// spreadMax < spreadMin 時照樣內插（注碼隨計數遞減）。
func Bet(trueCount, spreadMin, spreadMax float64) float64 {
	switch {
	case trueCount <= 0:
		return spreadMin
	case trueCount >= 4:
		return spreadMax
	}
	return math.Trunc(spreadMin + (spreadMax-spreadMin)*trueCount/4)
}

// Sim 單一玩家：最多打 hands 局，每局前資金 <= 0 即停止；回傳報表與用時。
func (s *Simulator) Sim(ctx context.Context, showpb bool) (*stats.SessionReport, time.Duration, error) {
	bar := pb.StartNew(s.setting.Hands)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	rep, err := s.session(ctx, s.initSeed, true, func() { bar.Increment() })
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err != nil {
		return nil, used, err
	}
	return rep, used, nil
}

// SimPlayers 模擬 players 位玩家各自的 session（各自的牌靴與 seed），以 workers 個 goroutine 併發執行。
//
// 玩家報表不保留資金軌跡；回傳多玩家評估與用時。任一玩家失敗會取消其餘工作並回傳第一個錯誤。
func (s *Simulator) SimPlayers(ctx context.Context, workers int, players int, showpb bool) (*stats.EstimatorPlayers, time.Duration, error) {
	if workers < 1 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if players < 1 || players > spec.MaxPlayers {
		return nil, 0, errs.Warnf("players must be in [1,%d]: %d", spec.MaxPlayers, players)
	}
	if players*s.setting.Hands > spec.MaxTotalHands {
		return nil, 0, errs.Warnf("players*hands must <= %d", spec.MaxTotalHands)
	}
	workers = min(workers, players)

	// 先依序推導每位玩家的 seed，結果才不受排程影響
	sm := newSeedMaker(s.initSeed)
	seeds := make([]int64, players)
	for i := range seeds {
		seeds[i] = sm.next()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reports := make([]*stats.SessionReport, players)
	jobs := make(chan int, players)
	for i := range players {
		jobs <- i
	}
	close(jobs)

	bar := pb.StartNew(players)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	var (
		once     sync.Once
		firstErr error
	)
	wg := new(sync.WaitGroup)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				rep, err := s.session(ctx, seeds[i], false, nil)
				if err != nil {
					once.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
				reports[i] = rep
				bar.Increment()
			}
		}()
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if firstErr != nil {
		return nil, used, firstErr
	}
	return stats.EstimatorPlayerExp(reports), used, nil
}

// session 打一個完整的 session；onHand 於每局結束後呼叫（可為 nil）。
func (s *Simulator) session(ctx context.Context, seed int64, keepHistory bool, onHand func()) (*stats.SessionReport, error) {
	set := s.setting
	tb, err := table.New(set, core.New(s.cf.New(seed)))
	if err != nil {
		return nil, err
	}
	rec, err := recorder.NewSessionRecorder(set.Bankroll, set.Hands, keepHistory)
	if err != nil {
		return nil, err
	}
	for i := 0; i < set.Hands; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errs.Wrap(err, "simulation canceled")
			}
		}
		if !rec.Alive() {
			break
		}
		// 下注前先估計計數，重洗檢查在 PlayRound 內
		bet := min(Bet(tb.TrueCount(), set.SpreadMin, set.SpreadMax), rec.Bankroll())
		out, err := tb.PlayRound(bet)
		if err != nil {
			return nil, errs.Wrap(err, "play round failed")
		}
		rec.Record(bet, out)
		if onHand != nil {
			onHand()
		}
	}
	return rec.Done(tb.Reshuffles()), nil
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next state 走全週期（不重複）的 LCG，再用可逆 mix63 打散。
//
// state 以 CAS 推進，可被多個 goroutine 同時呼叫。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
