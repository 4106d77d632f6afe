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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/sdk/card"
	"github.com/zintix-labs/bjlab/spec"
	"github.com/zintix-labs/bjlab/stats"
)

func lookup(name string) (*spec.Ruleset, error) {
	if name == "six-five" {
		rs := spec.DefaultRuleset()
		rs.Name = name
		rs.BlackjackPayout = 1.2
		rs.DealerHitsSoft17 = true
		return rs, nil
	}
	return nil, errs.Warnf("rules preset not found: %q", name)
}

func TestDecodeSimRequestGET(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/simulate?bankroll=1000&spread_min=10&spread_max=100&decks=6&penetration=0.75&hands=500&dealer_hits_soft_17=true&seed=9", nil)
	req, err := DecodeSimRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := req.ToSetting(lookup)
	if err != nil {
		t.Fatalf("to setting: %v", err)
	}
	if s.Bankroll != 1000 || s.Decks != 6 || s.Hands != 500 || s.Penetration != 0.75 {
		t.Fatalf("unexpected setting: %+v", s)
	}
	if !s.Rules.DealerHitsSoft17 || s.Rules.BlackjackPayout != 1.5 {
		t.Fatalf("unexpected rules: %+v", s.Rules)
	}
	if req.Seed == nil || *req.Seed != 9 {
		t.Fatalf("seed not decoded")
	}
}

func TestDecodeSimRequestPOST(t *testing.T) {
	payload := map[string]any{
		"bankroll":    500,
		"spread_min":  5,
		"spread_max":  50,
		"decks":       2,
		"penetration": 0.8,
		"hands":       100,
		"preset":      "six-five",
	}
	data, _ := json.Marshal(payload)
	r := httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewReader(data))
	req, err := DecodeSimRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := req.ToSetting(lookup)
	if err != nil {
		t.Fatalf("to setting: %v", err)
	}
	if s.Rules.BlackjackPayout != 1.2 || !s.Rules.DealerHitsSoft17 {
		t.Fatalf("preset not applied: %+v", s.Rules)
	}
}

func TestPayloadOverridesPreset(t *testing.T) {
	data := []byte(`{"bankroll":1,"spread_min":1,"spread_max":1,"decks":1,"penetration":1,"hands":0,"preset":"six-five","blackjack_payout":1.5,"dealer_hits_soft_17":false}`)
	req, err := DecodeSimRequest(httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s, err := req.ToSetting(lookup)
	if err != nil {
		t.Fatalf("to setting: %v", err)
	}
	if s.Rules.BlackjackPayout != 1.5 || s.Rules.DealerHitsSoft17 {
		t.Fatalf("explicit fields must override preset: %+v", s.Rules)
	}
}

func TestDecodeSimRequestRejects(t *testing.T) {
	unknown := []byte(`{"bankroll":1000,"unknown":true}`)
	if _, err := DecodeSimRequest(httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewReader(unknown))); errs.Level(err) != errs.Warn {
		t.Fatalf("unknown field must warn, got %v", err)
	}

	partial := []byte(`{"bankroll":1000,"decks":6}`)
	req, err := DecodeSimRequest(httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewReader(partial)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	_, err = req.ToSetting(lookup)
	if errs.Level(err) != errs.Warn || !strings.Contains(err.Error(), "spread_min") {
		t.Fatalf("missing fields must warn, got %v", err)
	}

	bad := httptest.NewRequest(http.MethodGet, "/v1/simulate?decks=six", nil)
	if _, err := DecodeSimRequest(bad); errs.Level(err) != errs.Warn {
		t.Fatalf("bad int must warn")
	}

	badRange := []byte(`{"bankroll":1000,"spread_min":10,"spread_max":100,"decks":6,"penetration":1.5,"hands":10}`)
	req, _ = DecodeSimRequest(httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewReader(badRange)))
	if _, err := req.ToSetting(lookup); errs.Level(err) != errs.Warn {
		t.Fatalf("penetration > 1 must warn")
	}

	unknownPreset := []byte(`{"bankroll":1000,"spread_min":10,"spread_max":100,"decks":6,"penetration":0.5,"hands":10,"preset":"nope"}`)
	req, _ = DecodeSimRequest(httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewReader(unknownPreset)))
	if _, err := req.ToSetting(lookup); errs.Level(err) != errs.Warn {
		t.Fatalf("unknown preset must warn")
	}

	if _, err := DecodeSimRequest(httptest.NewRequest(http.MethodPut, "/simulate", nil)); err == nil {
		t.Fatalf("PUT must be rejected")
	}
}

func TestDecodeSimPlayersRequest(t *testing.T) {
	data := []byte(`{"bankroll":1000,"spread_min":10,"spread_max":100,"decks":6,"penetration":0.75,"hands":100,"players":20,"workers":2}`)
	req, err := DecodeSimPlayersRequest(httptest.NewRequest(http.MethodPost, "/v1/simplayers", bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Players != 20 || req.Workers != 2 || *req.Hands != 100 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if _, err := req.ToSetting(nil); err != nil {
		t.Fatalf("to setting: %v", err)
	}
}

func TestDecodeStrategyRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/strategy?cards=A,7&up=6&can_double=false", nil)
	req, err := DecodeStrategyRequest(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(req.Cards) != 2 || req.Cards[0] != card.Ace || req.Up != 6 || req.CanDouble || !req.CanSplit {
		t.Fatalf("unexpected request: %+v", req)
	}
	if _, err := DecodeStrategyRequest(httptest.NewRequest(http.MethodGet, "/v1/strategy?cards=A&up=6", nil)); err == nil {
		t.Fatalf("single card must be rejected")
	}
	if _, err := DecodeStrategyRequest(httptest.NewRequest(http.MethodGet, "/v1/strategy?cards=A,Z&up=6", nil)); err == nil {
		t.Fatalf("bad rank must be rejected")
	}
}

func TestSimResultFlattensReport(t *testing.T) {
	res := SimResult{SessionReport: &stats.SessionReport{HandsPlayed: 3, BankrollHistory: []float64{1}}, Seed: 5}
	data, _ := json.Marshal(res)
	var m map[string]any
	_ = json.Unmarshal(data, &m)
	if m["hands_played"].(float64) != 3 || m["seed"].(float64) != 5 {
		t.Fatalf("unexpected json: %s", data)
	}
}
