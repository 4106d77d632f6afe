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

package api

import (
	"log/slog"

	v1 "github.com/zintix-labs/bjlab/server/api/v1"
	"github.com/zintix-labs/bjlab/server/netsvr"
	"github.com/zintix-labs/bjlab/server/netsvr/middleware"
	"github.com/zintix-labs/bjlab/server/svrcfg"
)

// RegisterRoutes 註冊 middleware 與所有 API；middleware 必須先於路由註冊。
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Valid(); err != nil {
		return err
	}
	registerMiddleware(svr, sCfg.Log)
	return registerAPI(svr, sCfg)
}

func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.CORS)
	svr.Use(middleware.Compression)
}

func registerAPI(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	s, err := v1.NewSimHandler(sCfg)
	if err != nil {
		return err
	}
	rh := v1.NewRulesHandler(sCfg.Lab, sCfg.Log)

	// 與舊版前端相容的入口
	svr.Post("/simulate", s.Simulate)

	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/simulate", s.Simulate)
		vOne.Post("/simulate", s.Simulate)
		vOne.Post("/simplayers", s.SimPlayers)
		vOne.Post("/simbycfg", s.SimByCfg)
		vOne.Get("/rules", rh.Rules)
		vOne.Get("/strategy", rh.Strategy)
	})
	return nil
}
