package perf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zintix-labs/bjlab/errs"
)

func TestRunPProfModes(t *testing.T) {
	dir := t.TempDir()
	for _, mode := range []string{"cpu", "heap", "allocs"} {
		calls := 0
		if err := RunPProf(func() error { calls++; return nil }, mode, dir); err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if calls != 1 {
			t.Fatalf("%s: exe called %d times", mode, calls)
		}
		if _, err := os.Stat(filepath.Join(dir, mode+".pprof")); err != nil {
			t.Fatalf("%s: profile not written: %v", mode, err)
		}
	}
}

func TestRunPProfPassThrough(t *testing.T) {
	boom := errors.New("boom")
	if err := RunPProf(func() error { return boom }, "", t.TempDir()); !errors.Is(err, boom) {
		t.Fatalf("want exe error, got %v", err)
	}
	if err := RunPProf(func() error { return nil }, "trace", t.TempDir()); errs.Level(err) != errs.Warn {
		t.Fatalf("unknown mode must warn, got %v", err)
	}
}
