package spec

import (
	"bytes"
	"encoding/json"

	"github.com/zintix-labs/bjlab/errs"
	"gopkg.in/yaml.v3"
)

// GetRulesetByYAML
// 讀取 YAML 規則；未填的欄位沿用 DefaultRuleset，並執行基本檢查。
func GetRulesetByYAML(data []byte) (*Ruleset, error) {
	r := DefaultRuleset()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 拼錯欄位就報錯
	if err := dec.Decode(r); err != nil {
		return nil, errs.WrapAs(errs.Warn, err, "failed to unmarshall yaml")
	}
	if err := r.Valid(); err != nil {
		return nil, errs.Wrap(err, "ruleset invalid")
	}
	return r, nil
}

// GetRulesetByJSON
// 讀取 JSON 規則
func GetRulesetByJSON(data []byte) (*Ruleset, error) {
	r := DefaultRuleset()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(r); err != nil {
		return nil, errs.WrapAs(errs.Warn, err, "can not unmarshall json byte")
	}
	if err := r.Valid(); err != nil {
		return nil, errs.Wrap(err, "ruleset invalid")
	}
	return r, nil
}

// GetSimSettingByYAML 讀取 YAML 模擬設定，未填欄位沿用 DefaultSimSetting。
func GetSimSettingByYAML(data []byte) (*SimSetting, error) {
	s := DefaultSimSetting()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errs.WrapAs(errs.Warn, err, "failed to unmarshall yaml")
	}
	if err := s.Valid(); err != nil {
		return nil, err
	}
	return s, nil
}
