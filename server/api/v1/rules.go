package v1

import (
	"log/slog"
	"net/http"

	"github.com/zintix-labs/bjlab"
	"github.com/zintix-labs/bjlab/dto"
	"github.com/zintix-labs/bjlab/sdk/card"
	"github.com/zintix-labs/bjlab/sdk/hand"
	"github.com/zintix-labs/bjlab/sdk/rules"
	"github.com/zintix-labs/bjlab/server/httperr"
	"github.com/zintix-labs/bjlab/spec"
)

type RulesHandler struct {
	lab *bjlab.Lab
	log *slog.Logger
}

func NewRulesHandler(lab *bjlab.Lab, log *slog.Logger) *RulesHandler {
	return &RulesHandler{lab: lab, log: log}
}

// Rules 列出預設規則與所有 preset；?name= 只回傳單一規則。
func (rh *RulesHandler) Rules(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		rs, err := rh.lab.Ruleset(name)
		if err != nil {
			httperr.Fail(w, rh.log, "rules.lookup", err)
			return
		}
		writeJSON(w, rs)
		return
	}
	presets, err := rh.lab.Summary()
	if err != nil {
		httperr.Fail(w, rh.log, "rules.summary", err)
		return
	}
	writeJSON(w, &dto.RulesResult{
		Default: spec.DefaultRuleset(),
		Presets: presets,
	})
}

// Strategy 基本策略查詢：GET /v1/strategy?cards=A,7&up=6
func (rh *RulesHandler) Strategy(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeStrategyRequest(r)
	if err != nil {
		httperr.Fail(w, rh.log, "strategy.decode", err)
		return
	}
	h := hand.New(card.Of(req.Cards...)...)
	up := card.Of(req.Up)[0]
	// 多於兩張不可加倍也不可分牌
	canDouble := req.CanDouble && h.Len() == 2
	canSplit := req.CanSplit && h.CanSplit()
	act := rules.Default().BasicStrategy(h, up, canDouble, canSplit)

	total, soft := h.Score()
	cs := make([]string, len(req.Cards))
	for i, rk := range req.Cards {
		cs[i] = rk.String()
	}
	writeJSON(w, &dto.StrategyResult{
		Cards:  cs,
		Up:     req.Up.String(),
		Total:  total,
		Soft:   soft,
		Action: act.String(),
	})
}
