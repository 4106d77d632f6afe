package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/bjlab"
	"github.com/zintix-labs/bjlab/server/api"
	"github.com/zintix-labs/bjlab/server/httperr"
	"github.com/zintix-labs/bjlab/server/logger"
	"github.com/zintix-labs/bjlab/server/netsvr"
	"github.com/zintix-labs/bjlab/server/svrcfg"
)

const simBody = `{"bankroll":1000,"spread_min":10,"spread_max":100,"decks":6,"penetration":0.75,"hands":200,"seed":7}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	lab, err := bjlab.Default()
	if err != nil {
		t.Fatalf("lab: %v", err)
	}
	cfg := &svrcfg.SvrCfg{
		Log:      logger.NewDefaultLogger(logger.ModeSilence),
		Lab:      lab,
		MaxHands: 5000,
		Workers:  2,
	}
	svr := netsvr.NewChiServer("")
	if err := api.RegisterRoutes(svr, cfg); err != nil {
		t.Fatalf("register: %v", err)
	}
	ts := httptest.NewServer(svr.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, req *http.Request) (int, map[string]any, http.Header) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, out, resp.Header
}

func post(t *testing.T, url, body string) (int, map[string]any) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	code, out, _ := do(t, req)
	return code, out
}

func get(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	code, out, _ := do(t, req)
	return code, out
}

func TestSimulateEndpoints(t *testing.T) {
	ts := newTestServer(t)

	code, a := post(t, ts.URL+"/simulate", simBody)
	if code != http.StatusOK {
		t.Fatalf("status %d: %v", code, a)
	}
	for _, k := range []string{
		"bankroll_history", "final_bankroll", "ev_per_hand", "hands_played", "win_rate",
		"wins", "losses", "pushes", "blackjacks", "total_bet", "seed", "used_ms",
	} {
		if _, ok := a[k]; !ok {
			t.Fatalf("missing key %q in %v", k, a)
		}
	}
	if a["seed"].(float64) != 7 {
		t.Fatalf("seed not echoed: %v", a["seed"])
	}
	played := a["hands_played"].(float64)
	if played < 1 || played > 200 {
		t.Fatalf("hands_played out of range: %v", played)
	}
	if hist := a["bankroll_history"].([]any); len(hist) != int(played)+1 {
		t.Fatalf("history len %d, hands %v", len(hist), played)
	}

	// 同 seed：POST /v1/simulate 與 GET /v1/simulate 結果一致
	code, b := post(t, ts.URL+"/v1/simulate", simBody)
	if code != http.StatusOK || b["final_bankroll"] != a["final_bankroll"] {
		t.Fatalf("v1 POST mismatch: %d %v vs %v", code, b["final_bankroll"], a["final_bankroll"])
	}
	q := "?bankroll=1000&spread_min=10&spread_max=100&decks=6&penetration=0.75&hands=200&seed=7"
	code, c := get(t, ts.URL+"/v1/simulate"+q)
	if code != http.StatusOK || c["final_bankroll"] != a["final_bankroll"] {
		t.Fatalf("v1 GET mismatch: %d %v vs %v", code, c["final_bankroll"], a["final_bankroll"])
	}
}

func TestSimulateRejects(t *testing.T) {
	ts := newTestServer(t)
	cases := []struct {
		name string
		body string
	}{
		{"missing hands", `{"bankroll":1000,"spread_min":10,"spread_max":100,"decks":6,"penetration":0.75}`},
		{"over server cap", `{"bankroll":1000,"spread_min":10,"spread_max":100,"decks":6,"penetration":0.75,"hands":5001}`},
		{"unknown preset", `{"bankroll":1000,"spread_min":10,"spread_max":100,"decks":6,"penetration":0.75,"hands":10,"preset":"nope"}`},
		{"unknown field", `{"bankroll":1000,"spread_min":10,"spread_max":100,"decks":6,"penetration":0.75,"hands":10,"x":1}`},
		{"bad json", `{`},
	}
	for _, c := range cases {
		code, out := post(t, ts.URL+"/v1/simulate", c.body)
		if code != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", c.name, code)
		}
		if out["level"] != "warn" || out["error"] == "" {
			t.Fatalf("%s: bad error body %v", c.name, out)
		}
	}

	// /simulate 只接受 POST
	code, _ := get(t, ts.URL+"/simulate")
	if code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /simulate: want 405, got %d", code)
	}
}

func TestSimPlayersEndpoint(t *testing.T) {
	ts := newTestServer(t)
	body := `{"bankroll":500,"spread_min":5,"spread_max":50,"decks":2,"penetration":0.7,"hands":100,"players":6,"workers":8,"seed":3}`
	code, a := post(t, ts.URL+"/v1/simplayers", body)
	if code != http.StatusOK {
		t.Fatalf("status %d: %v", code, a)
	}
	if a["players"].(float64) != 6 || a["hands"].(float64) != 100 {
		t.Fatalf("unexpected echo: %v", a)
	}
	if _, ok := a["estimator"].(map[string]any); !ok {
		t.Fatalf("missing estimator: %v", a)
	}
	_, b := post(t, ts.URL+"/v1/simplayers", body)
	ea, _ := json.Marshal(a["estimator"])
	eb, _ := json.Marshal(b["estimator"])
	if string(ea) != string(eb) {
		t.Fatalf("same seed must give same estimator")
	}

	code, _ = post(t, ts.URL+"/v1/simplayers", `{"bankroll":500,"spread_min":5,"spread_max":50,"decks":2,"penetration":0.7,"hands":100,"players":0}`)
	if code != http.StatusBadRequest {
		t.Fatalf("players=0: want 400, got %d", code)
	}
}

func TestSimByCfgEndpoint(t *testing.T) {
	ts := newTestServer(t)
	body := "bankroll: 1000\nspread_min: 10\nspread_max: 80\ndecks: 4\npenetration: 0.8\nhands: 150\nrules:\n  dealer_hits_soft_17: true\n"
	code, a := post(t, ts.URL+"/v1/simbycfg?seed=11", body)
	if code != http.StatusOK {
		t.Fatalf("status %d: %v", code, a)
	}
	if a["seed"].(float64) != 11 {
		t.Fatalf("seed not echoed: %v", a["seed"])
	}
	code, _ = post(t, ts.URL+"/v1/simbycfg", "hands: [1, 2")
	if code != http.StatusBadRequest {
		t.Fatalf("bad yaml: want 400, got %d", code)
	}
}

func TestRulesEndpoint(t *testing.T) {
	ts := newTestServer(t)
	code, a := get(t, ts.URL+"/v1/rules")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if ps := a["presets"].([]any); len(ps) != 4 {
		t.Fatalf("want 4 presets, got %d", len(ps))
	}
	def := a["default"].(map[string]any)
	if def["blackjack_payout"].(float64) != 1.5 || def["dealer_hits_soft_17"].(bool) {
		t.Fatalf("bad default ruleset: %v", def)
	}

	code, one := get(t, ts.URL+"/v1/rules?name=six-five")
	if code != http.StatusOK || one["blackjack_payout"].(float64) != 1.2 {
		t.Fatalf("six-five lookup: %d %v", code, one)
	}
	code, _ = get(t, ts.URL+"/v1/rules?name=nope")
	if code != http.StatusBadRequest {
		t.Fatalf("unknown preset: want 400, got %d", code)
	}
}

func TestStrategyEndpoint(t *testing.T) {
	ts := newTestServer(t)
	cases := []struct {
		query  string
		action string
		total  float64
		soft   bool
	}{
		{"cards=8,8&up=10", "split", 16, false},
		{"cards=8,8&up=10&can_split=false", "hit", 16, false},
		{"cards=A,7&up=6", "double", 18, true},
		{"cards=A,7&up=6&can_double=false", "stand", 18, true},
		{"cards=10,6&up=7", "hit", 16, false},
		{"cards=5,3,3&up=6", "hit", 11, false},
		{"cards=10,7&up=A", "stand", 17, false},
	}
	for _, c := range cases {
		code, out := get(t, ts.URL+"/v1/strategy?"+c.query)
		if code != http.StatusOK {
			t.Fatalf("%s: status %d %v", c.query, code, out)
		}
		if out["action"] != c.action || out["total"].(float64) != c.total || out["soft"].(bool) != c.soft {
			t.Fatalf("%s: got %v", c.query, out)
		}
	}
	code, _ := get(t, ts.URL+"/v1/strategy?cards=A&up=6")
	if code != http.StatusBadRequest {
		t.Fatalf("one card: want 400, got %d", code)
	}
}

func TestMiddlewares(t *testing.T) {
	ts := newTestServer(t)

	// CORS preflight
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/v1/simulate", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	_, _, h := do(t, req)
	if h.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("cors header missing: %v", h)
	}

	// gzip + request id
	req, _ = http.NewRequest(http.MethodGet, ts.URL+"/v1/rules", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Fatalf("want gzip, got %q", resp.Header.Get("Content-Encoding"))
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatalf("missing X-Request-Id")
	}
}

func TestStatusCodeMapping(t *testing.T) {
	rec := httptest.NewRecorder()
	httperr.Errs(rec, io.ErrUnexpectedEOF)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("plain error must map to 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"level":"fatal"`) {
		t.Fatalf("plain error must be fatal: %s", rec.Body.String())
	}
}
