package v1

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/zintix-labs/bjlab"
	"github.com/zintix-labs/bjlab/dto"
	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/sdk/core"
	"github.com/zintix-labs/bjlab/server/httperr"
	"github.com/zintix-labs/bjlab/server/svrcfg"
	"github.com/zintix-labs/bjlab/spec"
)

const maxCfgBody = 1 << 20

type SimHandler struct {
	lab      *bjlab.Lab
	log      *slog.Logger
	maxHands int
	workers  int
}

func NewSimHandler(sCfg *svrcfg.SvrCfg) (*SimHandler, error) {
	if err := sCfg.Valid(); err != nil {
		return nil, err
	}
	return &SimHandler{
		lab:      sCfg.Lab,
		log:      sCfg.Log,
		maxHands: sCfg.MaxHands,
		workers:  sCfg.Workers,
	}, nil
}

// Simulate 單一 session：GET query 或 POST JSON，回傳攤平的報表 + seed + used_ms。
func (sh *SimHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeSimRequest(r)
	if err != nil {
		httperr.Fail(w, sh.log, "sim.decode", err)
		return
	}
	set, err := req.ToSetting(sh.lab.Ruleset)
	if err != nil {
		httperr.Fail(w, sh.log, "sim.setting", err)
		return
	}
	sim, err := sh.build(set, req.Seed)
	if err != nil {
		httperr.Fail(w, sh.log, "sim.build", err)
		return
	}
	rep, used, err := sim.Sim(r.Context(), false)
	if err != nil {
		httperr.Fail(w, sh.log, "sim.run", errs.Wrap(err, "simulate err"))
		return
	}
	sh.done(r, "sim.done", set.Hands, 1, sim.Seed(), used)
	writeJSON(w, &dto.SimResult{
		SessionReport: rep,
		Seed:          sim.Seed(),
		UsedMs:        used.Milliseconds(),
	})
}

// SimPlayers 多玩家：每位玩家各自一個 session，回傳評估結果。
func (sh *SimHandler) SimPlayers(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeSimPlayersRequest(r)
	if err != nil {
		httperr.Fail(w, sh.log, "simplayers.decode", err)
		return
	}
	set, err := req.ToSetting(sh.lab.Ruleset)
	if err != nil {
		httperr.Fail(w, sh.log, "simplayers.setting", err)
		return
	}
	workers := sh.workers
	if req.Workers < 0 {
		httperr.Fail(w, sh.log, "simplayers.setting", errs.NewWarn("workers must be non-negative"))
		return
	}
	if req.Workers > 0 {
		workers = min(req.Workers, sh.workers)
	}
	sim, err := sh.build(set, req.Seed)
	if err != nil {
		httperr.Fail(w, sh.log, "simplayers.build", err)
		return
	}
	est, used, err := sim.SimPlayers(r.Context(), workers, req.Players, false)
	if err != nil {
		httperr.Fail(w, sh.log, "simplayers.run", errs.Wrap(err, "simulate players err"))
		return
	}
	sh.done(r, "simplayers.done", set.Hands, req.Players, sim.Seed(), used)
	writeJSON(w, &dto.SimPlayersResult{
		Estimator: est,
		Players:   req.Players,
		Hands:     set.Hands,
		Seed:      sim.Seed(),
		UsedMs:    used.Milliseconds(),
	})
}

// SimByCfg body 為 YAML 格式的完整 SimSetting（可含 rules 區塊）；seed 由 query 指定。
func (sh *SimHandler) SimByCfg(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCfgBody))
	if err != nil {
		httperr.Fail(w, sh.log, "simbycfg.decode", errs.Warnf("read body: %v", err))
		return
	}
	var seed int64
	if s := r.URL.Query().Get("seed"); s != "" {
		if seed, err = strconv.ParseInt(s, 10, 64); err != nil {
			httperr.Fail(w, sh.log, "simbycfg.decode", errs.NewWarn("seed must be int64"))
			return
		}
	} else if seed, err = core.NewSeed(); err != nil {
		httperr.Fail(w, sh.log, "simbycfg.seed", errs.Wrap(err, "seed generate failed"))
		return
	}
	sim, err := sh.lab.NewSimulatorByYAML(raw, seed)
	if err != nil {
		httperr.Fail(w, sh.log, "simbycfg.build", err)
		return
	}
	set := sim.Setting()
	if set.Hands > sh.maxHands {
		httperr.Fail(w, sh.log, "simbycfg.setting", errs.Warnf("hands must <= %d", sh.maxHands))
		return
	}
	rep, used, err := sim.Sim(r.Context(), false)
	if err != nil {
		httperr.Fail(w, sh.log, "simbycfg.run", errs.Wrap(err, "simulate err"))
		return
	}
	sh.done(r, "simbycfg.done", set.Hands, 1, seed, used)
	writeJSON(w, &dto.SimResult{
		SessionReport: rep,
		Seed:          seed,
		UsedMs:        used.Milliseconds(),
	})
}

func (sh *SimHandler) build(set *spec.SimSetting, seed *int64) (*bjlab.Simulator, error) {
	if set.Hands > sh.maxHands {
		return nil, errs.Warnf("hands must <= %d", sh.maxHands)
	}
	if seed != nil {
		return sh.lab.NewSimulatorWithSeed(set, *seed)
	}
	return sh.lab.NewSimulator(set)
}

func (sh *SimHandler) done(r *http.Request, msg string, hands, players int, seed int64, used time.Duration) {
	sh.log.LogAttrs(r.Context(), slog.LevelDebug, msg,
		slog.Int("hands", hands),
		slog.Int("players", players),
		slog.Int64("seed", seed),
		slog.Int64("used_ms", used.Milliseconds()),
	)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
