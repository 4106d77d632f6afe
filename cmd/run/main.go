package main

import (
	"fmt"
	"os"

	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/sdk/perf"
)

// makefile runner
func main() {
	if err := bindVar(); err != nil {
		fail(err)
	}
	if err := perf.RunPProf(executeSimulator, cfg.pprofmode, ""); err != nil {
		fail(err)
	}
}

// 參數錯誤 exit 2，其餘 exit 1
func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	if errs.Level(err) == errs.Warn {
		os.Exit(2)
	}
	os.Exit(1)
}
