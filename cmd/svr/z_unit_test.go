package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zintix-labs/bjlab/errs"
)

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	if err := os.WriteFile(env, []byte("BJLAB_ADDR=:7000\nBJLAB_MAX_HANDS=2000\nBJLAB_LOG_MODE=silence\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BJLAB_WORKERS", "1")
	t.Cleanup(func() {
		for _, k := range []string{"BJLAB_ADDR", "BJLAB_MAX_HANDS", "BJLAB_LOG_MODE"} {
			os.Unsetenv(k)
		}
	})

	sCfg, closeLog, err := loadConfig([]string{"-env", env, "-addr", ":7100"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer closeLog()
	if sCfg.Addr != ":7100" {
		t.Fatalf("flag must win, got %q", sCfg.Addr)
	}
	if sCfg.MaxHands != 2000 || sCfg.Workers != 1 {
		t.Fatalf("env not applied: %+v", sCfg)
	}
	if len(sCfg.Lab.Names()) == 0 {
		t.Fatalf("presets not loaded")
	}
}

func TestLoadConfigMissingEnvFile(t *testing.T) {
	t.Setenv("BJLAB_LOG_MODE", "silence")
	sCfg, closeLog, err := loadConfig([]string{"-env", filepath.Join(t.TempDir(), "nope.env")})
	if err != nil {
		t.Fatalf("missing .env must be ignored: %v", err)
	}
	defer closeLog()
	if sCfg.Lab == nil {
		t.Fatalf("lab required")
	}
}

func TestLoadConfigBadEnv(t *testing.T) {
	t.Setenv("BJLAB_LOG_MODE", "silence")
	t.Setenv("BJLAB_WORKERS", "many")
	_, _, err := loadConfig([]string{"-env", filepath.Join(t.TempDir(), "nope.env")})
	if errs.Level(err) != errs.Warn {
		t.Fatalf("want warn, got %v", err)
	}
}
