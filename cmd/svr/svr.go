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

package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/zintix-labs/bjlab"
	"github.com/zintix-labs/bjlab/presets"
	"github.com/zintix-labs/bjlab/sdk/core"
	"github.com/zintix-labs/bjlab/server"
	"github.com/zintix-labs/bjlab/server/logger"
	"github.com/zintix-labs/bjlab/server/svrcfg"
)

// 設定優先序：flag > 環境變數 (BJLAB_*) > .env > 預設值
func main() {
	sCfg, closeLog, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeLog()
	server.Run(sCfg)
}

type config struct {
	Addr     string
	LogMode  string
	MaxHands int
	Workers  int
	Presets  string
	EnvFile  string
}

func loadConfig(args []string) (*svrcfg.SvrCfg, func(), error) {
	fset := flag.NewFlagSet("svr", flag.ContinueOnError)
	envFile := fset.String("env", ".env", "dotenv file (missing file is ignored)")
	cfg := new(config)
	fset.StringVar(&cfg.Addr, "addr", "", "listen address (BJLAB_ADDR)")
	fset.StringVar(&cfg.LogMode, "log-mode", "", "log mode: dev|prod|silence (BJLAB_LOG_MODE)")
	fset.IntVar(&cfg.MaxHands, "max-hands", 0, "max hands per request (BJLAB_MAX_HANDS)")
	fset.IntVar(&cfg.Workers, "workers", 0, "workers for multi-player runs (BJLAB_WORKERS)")
	fset.StringVar(&cfg.Presets, "presets", "", "extra rules preset directory (BJLAB_PRESETS)")
	if err := fset.Parse(args); err != nil {
		return nil, nil, err
	}
	cfg.EnvFile = *envFile

	// .env 不存在不算錯；不覆寫已存在的環境變數
	if err := godotenv.Load(cfg.EnvFile); err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("load %s: %w", cfg.EnvFile, err)
	}
	if err := cfg.fromEnv(); err != nil {
		return nil, nil, err
	}

	mode, err := logger.ParseMode(cfg.LogMode)
	if err != nil {
		return nil, nil, err
	}
	log, ah := logger.NewAsync(4096, mode)

	srcs := []fs.FS{presets.FS}
	if cfg.Presets != "" {
		srcs = append(srcs, os.DirFS(cfg.Presets))
	}
	lab, err := bjlab.NewAuto(core.Default(), bjlab.Configs(srcs...))
	if err != nil {
		ah.Close()
		return nil, nil, err
	}
	sCfg := &svrcfg.SvrCfg{
		Log:      log,
		Addr:     cfg.Addr,
		Lab:      lab,
		MaxHands: cfg.MaxHands,
		Workers:  cfg.Workers,
	}
	return sCfg, ah.Close, nil
}
