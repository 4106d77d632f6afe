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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/server/api"
	"github.com/zintix-labs/bjlab/server/app"
	"github.com/zintix-labs/bjlab/server/netsvr"
	"github.com/zintix-labs/bjlab/server/svrcfg"
)

// Run 組裝並啟動預設的 HTTP server（chi，監聽 sCfg.Addr），阻塞到收到終止信號或 server 出錯。
//
// 所有依賴（logger、Lab、上限）都由 SvrCfg 注入；這裡不讀檔案也不讀環境變數。
// 需要自訂 server 或掛到既有服務時改用 RunWithSvr，或直接呼叫 api.RegisterRoutes。
func Run(sCfg *svrcfg.SvrCfg) {
	if err := sCfg.Valid(); err != nil {
		// logger 可能就是不可用的那個
		fmt.Fprintln(os.Stderr, err)
		return
	}
	RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run 相同，但由呼叫端注入 NetSvr。
// svr 必須非 nil；若是 ChiAdapter 則要求 Ready()。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if svr == nil {
		sCfg.Log.Error(errs.NewFatal("svr is required").Error())
		return
	}
	addr := sCfg.Addr
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		if !s.Ready() {
			sCfg.Log.Error(errs.NewFatal("default server is not ready").Error())
			return
		}
		addr = s.Address()
	}
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		sCfg.Log.Error("register routes failed", slog.Any("err", err))
		return
	}

	app := app.NewWith(svr)
	sCfg.Log.Info("[bjlab] listening", slog.String("addr", addr), slog.Any("presets", sCfg.Lab.Names()))
	if err := app.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
	}
}
