package main

import (
	"os"
	"strconv"

	"github.com/zintix-labs/bjlab/errs"
)

const envPrefix = "BJLAB_"

// fromEnv 只填入 flag 沒有給的欄位
func (cfg *config) fromEnv() error {
	if cfg.Addr == "" {
		cfg.Addr = os.Getenv(envPrefix + "ADDR")
	}
	if cfg.LogMode == "" {
		cfg.LogMode = os.Getenv(envPrefix + "LOG_MODE")
	}
	if cfg.Presets == "" {
		cfg.Presets = os.Getenv(envPrefix + "PRESETS")
	}
	if err := envInt("MAX_HANDS", &cfg.MaxHands); err != nil {
		return err
	}
	return envInt("WORKERS", &cfg.Workers)
}

func envInt(key string, dst *int) error {
	if *dst != 0 {
		return nil
	}
	s := os.Getenv(envPrefix + key)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return errs.Warnf("%s%s must be integer: %q", envPrefix, key, s)
	}
	*dst = n
	return nil
}
