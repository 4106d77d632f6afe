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

package dto

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/sdk/card"
	"github.com/zintix-labs/bjlab/spec"
)

// 防止 body 過大
const maxBody = 1 << 20

// SimRequest 單一 session 模擬請求。
//
// bankroll/spread_min/spread_max/decks/penetration/hands 為必填；
// dealer_hits_soft_17（預設 false）與 blackjack_payout（預設 1.5）為選填，會覆寫 preset 的同名欄位。
// preset 指定 catalog 內的規則名稱；seed 指定後可重現同一段模擬。
type SimRequest struct {
	Bankroll         *int     `json:"bankroll"`
	SpreadMin        *int     `json:"spread_min"`
	SpreadMax        *int     `json:"spread_max"`
	Decks            *int     `json:"decks"`
	Penetration      *float64 `json:"penetration"`
	Hands            *int     `json:"hands"`
	DealerHitsSoft17 *bool    `json:"dealer_hits_soft_17,omitempty"`
	BlackjackPayout  *float64 `json:"blackjack_payout,omitempty"`
	Preset           string   `json:"preset,omitempty"`
	Seed             *int64   `json:"seed,omitempty"`
}

// SimPlayersRequest 多玩家模擬請求；players 必填，workers 缺省由伺服器決定。
type SimPlayersRequest struct {
	SimRequest
	Players int `json:"players"`
	Workers int `json:"workers,omitempty"`
}

// RulesetLookup 依名稱取得規則副本（通常是 Lab.Ruleset）。
type RulesetLookup func(name string) (*spec.Ruleset, error)

// DecodeSimRequest 把 HTTP 請求解碼成 SimRequest。
//
// 支援：
//   - GET：從 query string 讀取同名參數。
//   - POST：JSON body，限制 1MiB 並拒絕未知欄位。
//
// 這裡只做解碼與型別轉換；範圍檢查在 ToSetting。
func DecodeSimRequest(r *http.Request) (*SimRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := new(SimRequest)
	switch r.Method {
	case http.MethodGet:
		if err := req.fromQuery(r); err != nil {
			return nil, err
		}
		return req, nil
	case http.MethodPost:
		if err := decodeJSON(r, req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, errs.NewWarn("method not allowed")
	}
}

// DecodeSimPlayersRequest 只接受 POST JSON
func DecodeSimPlayersRequest(r *http.Request) (*SimPlayersRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	if r.Method != http.MethodPost {
		return nil, errs.NewWarn("method not allowed")
	}
	req := new(SimPlayersRequest)
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	return req, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Warnf("invalid json: %v", err)
	}
	return nil
}

func (req *SimRequest) fromQuery(r *http.Request) error {
	q := r.URL.Query()
	ints := []struct {
		key string
		dst **int
	}{
		{"bankroll", &req.Bankroll},
		{"spread_min", &req.SpreadMin},
		{"spread_max", &req.SpreadMax},
		{"decks", &req.Decks},
		{"hands", &req.Hands},
	}
	for _, f := range ints {
		if s := q.Get(f.key); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return errs.Warnf("invalid %s: %v", f.key, err)
			}
			*f.dst = &v
		}
	}
	if s := q.Get("penetration"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errs.Warnf("invalid penetration: %v", err)
		}
		req.Penetration = &v
	}
	if s := q.Get("dealer_hits_soft_17"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return errs.Warnf("invalid dealer_hits_soft_17: %v", err)
		}
		req.DealerHitsSoft17 = &v
	}
	if s := q.Get("blackjack_payout"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errs.Warnf("invalid blackjack_payout: %v", err)
		}
		req.BlackjackPayout = &v
	}
	if s := q.Get("seed"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errs.Warnf("invalid seed: %v", err)
		}
		req.Seed = &v
	}
	req.Preset = q.Get("preset")
	return nil
}

// ToSetting 檢查必填欄位、組出規則並執行範圍檢查。錯誤一律為 Warn。
func (req *SimRequest) ToSetting(lookup RulesetLookup) (*spec.SimSetting, error) {
	missing := make([]string, 0, 6)
	if req.Bankroll == nil {
		missing = append(missing, "bankroll")
	}
	if req.SpreadMin == nil {
		missing = append(missing, "spread_min")
	}
	if req.SpreadMax == nil {
		missing = append(missing, "spread_max")
	}
	if req.Decks == nil {
		missing = append(missing, "decks")
	}
	if req.Penetration == nil {
		missing = append(missing, "penetration")
	}
	if req.Hands == nil {
		missing = append(missing, "hands")
	}
	if len(missing) > 0 {
		return nil, errs.Warnf("missing required fields: %s", strings.Join(missing, ", "))
	}

	rs := spec.DefaultRuleset()
	if req.Preset != "" {
		if lookup == nil {
			return nil, errs.NewWarn("presets are not available")
		}
		p, err := lookup(req.Preset)
		if err != nil {
			return nil, err
		}
		rs = p
	}
	if req.DealerHitsSoft17 != nil {
		rs.DealerHitsSoft17 = *req.DealerHitsSoft17
	}
	if req.BlackjackPayout != nil {
		rs.BlackjackPayout = *req.BlackjackPayout
	}

	s := &spec.SimSetting{
		Bankroll:    float64(*req.Bankroll),
		SpreadMin:   float64(*req.SpreadMin),
		SpreadMax:   float64(*req.SpreadMax),
		Decks:       *req.Decks,
		Penetration: *req.Penetration,
		Hands:       *req.Hands,
		Rules:       rs,
	}
	if err := s.Valid(); err != nil {
		return nil, err
	}
	return s, nil
}

// StrategyRequest 基本策略查詢：cards=A,7&up=6&can_double=true&can_split=true
type StrategyRequest struct {
	Cards     []card.Rank
	Up        card.Rank
	CanDouble bool
	CanSplit  bool
}

// DecodeStrategyRequest can_double / can_split 缺省為 true。
func DecodeStrategyRequest(r *http.Request) (*StrategyRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	q := r.URL.Query()
	req := &StrategyRequest{CanDouble: true, CanSplit: true}

	raw := strings.Split(q.Get("cards"), ",")
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		rk, ok := card.ParseRank(s)
		if !ok {
			return nil, errs.Warnf("invalid card rank: %q", s)
		}
		req.Cards = append(req.Cards, rk)
	}
	if len(req.Cards) < 2 {
		return nil, errs.NewWarn("cards requires at least two ranks")
	}
	up, ok := card.ParseRank(strings.TrimSpace(q.Get("up")))
	if !ok {
		return nil, errs.Warnf("invalid up card: %q", q.Get("up"))
	}
	req.Up = up
	for _, f := range []struct {
		key string
		dst *bool
	}{{"can_double", &req.CanDouble}, {"can_split", &req.CanSplit}} {
		if s := q.Get(f.key); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, errs.Warnf("invalid %s: %v", f.key, err)
			}
			*f.dst = v
		}
	}
	return req, nil
}
