package spec

import (
	"github.com/zintix-labs/bjlab/errs"
)

const (
	MaxHands = 1_000_000
	MaxDecks = 8
	// 多玩家模擬的上限
	MaxPlayers    = 10_000
	MaxTotalHands = 50_000_000
)

// SimSetting 一次模擬（一位玩家的一個 session）所需的全部參數。
type SimSetting struct {
	Bankroll    float64  `yaml:"bankroll"    json:"bankroll"`
	SpreadMin   float64  `yaml:"spread_min"  json:"spread_min"`
	SpreadMax   float64  `yaml:"spread_max"  json:"spread_max"`
	Decks       int      `yaml:"decks"       json:"decks"`
	Penetration float64  `yaml:"penetration" json:"penetration"`
	Hands       int      `yaml:"hands"       json:"hands"`
	Rules       *Ruleset `yaml:"rules"       json:"rules"`
}

func DefaultSimSetting() *SimSetting {
	return &SimSetting{
		Bankroll:    1000,
		SpreadMin:   10,
		SpreadMax:   100,
		Decks:       6,
		Penetration: 0.75,
		Hands:       1000,
		Rules:       DefaultRuleset(),
	}
}

// Valid 檢查參數範圍；Rules 為 nil 時補上預設規則。
func (s *SimSetting) Valid() error {
	if s == nil {
		return errs.NewWarn("nil sim setting")
	}
	if s.Decks < 1 || s.Decks > MaxDecks {
		return errs.Warnf("decks must be in [1,%d]: %d", MaxDecks, s.Decks)
	}
	if !(s.Penetration > 0 && s.Penetration <= 1) {
		return errs.Warnf("penetration must be in (0,1]: %v", s.Penetration)
	}
	if s.Hands < 0 || s.Hands > MaxHands {
		return errs.Warnf("hands must be in [0,%d]: %d", MaxHands, s.Hands)
	}
	if s.Bankroll < 0 {
		return errs.Warnf("bankroll must be >= 0: %v", s.Bankroll)
	}
	// 0 注與 spread_max < spread_min 皆合法：注碼仍在兩端之間線性內插
	if s.SpreadMin < 0 || s.SpreadMax < 0 {
		return errs.Warnf("spread must be >= 0: min=%v max=%v", s.SpreadMin, s.SpreadMax)
	}
	if s.Rules == nil {
		s.Rules = DefaultRuleset()
	}
	return s.Rules.Valid()
}
