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

package svrcfg

import (
	"log/slog"
	"runtime"

	"github.com/zintix-labs/bjlab"
	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/server/logger"
	"github.com/zintix-labs/bjlab/spec"
)

const DefaultAddr = ":5808"

type SvrCfg struct {
	Log  *slog.Logger
	Addr string
	Lab  *bjlab.Lab
	// MaxHands 單一請求允許的最大手數（<= spec.MaxHands）
	MaxHands int
	// Workers 多玩家模擬的預設 goroutine 數，也是請求可指定的上限
	Workers int
}

func (sc *SvrCfg) Valid() error {
	if sc == nil {
		return errs.NewFatal("nil server config")
	}
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeSilence)
	}
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if sc.MaxHands <= 0 || sc.MaxHands > spec.MaxHands {
		sc.MaxHands = spec.MaxHands
	}
	// 1 <= Workers <= NumCPU，for 資源管理
	if sc.Workers <= 0 {
		sc.Workers = runtime.NumCPU()
	}
	sc.Workers = min(sc.Workers, runtime.NumCPU())
	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	return nil
}
