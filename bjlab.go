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

// Package bjlab 提供 21 點模擬引擎的「組裝入口（assembler）」與「模擬入口」。
//
// Lab 把兩個地基組裝在一起：
//  1. Catalog：具名的牌桌規則（rules preset），設定檔來源一律以 fs.FS 注入。
//  2. PRNGFactory：亂數核心工廠，保證同一個 seed 得到同一段模擬歷程。
//
// 典型使用情境：
//   - CLI（cmd/run）：組一份 SimSetting，建立 Simulator 後執行 Sim / SimPlayers。
//   - HTTP（cmd/svr）：每個請求建立一個 Simulator，Lab 本身在 Freeze 之後唯讀、可併發共用。
package bjlab

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zintix-labs/bjlab/catalog"
	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/presets"
	"github.com/zintix-labs/bjlab/sdk/core"
	"github.com/zintix-labs/bjlab/spec"
)

// Configs 把一或多個規則來源（fs.FS）打包成 New() 需要的參數。
//
// 可以用 go:embed 把規則編進 binary，也可以用 os.DirFS 讀取本機目錄。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 組裝器
//
// 使用流程分成兩階段：
//   - 註冊階段：建立 catalog、註冊規則檔、檢查重複。
//   - 執行階段：Freeze 之後依規則名稱建立 Simulator。
type Lab struct {
	cat *catalog.Catalog
	cf  core.PRNGFactory

	mu  sync.Mutex
	sum []*spec.Ruleset
}

// New 建立 Lab；cf 不能為 nil，cfgs 至少一個。
func New(cf core.PRNGFactory, cfgs []fs.FS) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	return &Lab{cat: cata, cf: cf}, nil
}

// NewAuto 註冊全部規則檔後直接 Freeze，進入執行階段。
func NewAuto(cf core.PRNGFactory, cfgs []fs.FS) (*Lab, error) {
	lab, err := New(cf, cfgs)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

// Default 使用內建規則與預設 PRNG
func Default() (*Lab, error) {
	return NewAuto(core.Default(), Configs(presets.FS))
}

func (l *Lab) Register(ents ...catalog.Entry) error {
	return l.cat.Register(ents...)
}

// RegisterAll
//
// 解析 catalog 持有的全部規則檔，以檔內 name（缺省時用檔名）產生 Entry 後一次性註冊。
// 任一檔案解析失敗就整批失敗，不會留下註冊一半的 catalog。
func (l *Lab) RegisterAll() error {
	cfg := l.cat.Cfg()
	files := cfg.Files()
	if len(files) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	entries := make([]catalog.Entry, 0, len(files))
	for _, f := range files {
		raw, err := cfg.ReadFile(f)
		if err != nil {
			return err
		}
		rs, err := catalog.ParseRuleset(f, raw)
		if err != nil {
			return errs.Wrap(err, "parse ruleset failed: "+f)
		}
		name := strings.TrimSpace(rs.Name)
		if name == "" {
			name = strings.TrimSuffix(f, filepath.Ext(f))
		}
		entries = append(entries, catalog.Entry{Name: name, ConfigName: f})
	}
	return l.cat.Register(entries...)
}

func (l *Lab) Freeze() {
	l.cat.Freeze()
}

func (l *Lab) Names() []string {
	return l.cat.Names()
}

func (l *Lab) EntryByName(name string) (catalog.Entry, bool) {
	return l.cat.GetByName(name)
}

// Summary 全部規則（依名稱排序），結果會快取；呼叫端不應修改回傳內容。
func (l *Lab) Summary() ([]*spec.Ruleset, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sum != nil {
		return l.sum, nil
	}
	names := l.cat.Names()
	out := make([]*spec.Ruleset, 0, len(names))
	for _, n := range names {
		rs, err := l.cat.RulesetByName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	l.sum = out
	return l.sum, nil
}

// Ruleset 依名稱取得規則副本；空字串回傳預設規則。
func (l *Lab) Ruleset(name string) (*spec.Ruleset, error) {
	if strings.TrimSpace(name) == "" {
		return spec.DefaultRuleset(), nil
	}
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return l.cat.RulesetByName(name)
}

// NewSimulator 以 crypto/rand 產生 seed 建立 Simulator；seed 可由 Simulator.Seed() 取回重現。
func (l *Lab) NewSimulator(s *spec.SimSetting) (*Simulator, error) {
	seed, err := core.NewSeed()
	if err != nil {
		return nil, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return l.NewSimulatorWithSeed(s, seed)
}

// NewSimulatorWithSeed 同一份設定 + 同一個 seed 會得到相同的報表。
func (l *Lab) NewSimulatorWithSeed(s *spec.SimSetting, seed int64) (*Simulator, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return newSimulatorWithSeed(s, l.cf, seed)
}

// NewSimulatorByYAML 以 YAML 模擬設定建立 Simulator
func (l *Lab) NewSimulatorByYAML(raw []byte, seed int64) (*Simulator, error) {
	s, err := spec.GetSimSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	return l.NewSimulatorWithSeed(s, seed)
}
