package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zintix-labs/bjlab"
	"github.com/zintix-labs/bjlab/errs"
	"github.com/zintix-labs/bjlab/sdk/core"
	"github.com/zintix-labs/bjlab/sdk/perf"
	"github.com/zintix-labs/bjlab/spec"
	"github.com/zintix-labs/bjlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	set       *spec.SimSetting
	rules     string
	h17       bool
	payout    float64
	cfgFile   string
	worker    int
	player    int
	seed      int64
	output    string
	pprofmode string

	visited map[string]bool
}

func bindVar() error {
	def := spec.DefaultSimSetting()
	cfg.set = def

	flag.Float64Var(&def.Bankroll, "bankroll", def.Bankroll, "initial bankroll")
	flag.Float64Var(&def.SpreadMin, "min", def.SpreadMin, "bet at true count <= 0")
	flag.Float64Var(&def.SpreadMax, "max", def.SpreadMax, "bet at true count >= 4")
	flag.IntVar(&def.Decks, "decks", def.Decks, "decks in shoe (1-8)")
	flag.Float64Var(&def.Penetration, "pen", def.Penetration, "shoe penetration (0,1]")
	flag.IntVar(&def.Hands, "hands", def.Hands, "hands per player")
	flag.StringVar(&cfg.rules, "rules", "", "rules preset name (empty = default rules)")
	flag.BoolVar(&cfg.h17, "h17", false, "dealer hits soft 17 (overrides preset)")
	flag.Float64Var(&cfg.payout, "payout", 1.5, "blackjack payout (overrides preset)")
	flag.StringVar(&cfg.cfgFile, "cfg", "", "YAML sim setting file; replaces the flags above")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.player, "player", 1, "number of players")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.output, "o", "table", "output: table|json|yaml")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: "+strings.Join(perf.Modes[1:], ", "))

	flag.Parse()

	cfg.visited = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { cfg.visited[f.Name] = true })

	// 未指定 seed -> crypto seed
	if cfg.seed < 0 {
		seed, err := core.NewSeed()
		if err != nil {
			return errs.Wrap(err, "seed generate failed")
		}
		cfg.seed = seed
	}
	return cfg.valid()
}

func (cfg *config) valid() error {
	if cfg.worker < 1 {
		return errs.NewWarn("value err : workers must > 0")
	}
	if cfg.player < 1 || cfg.player > spec.MaxPlayers {
		return errs.Warnf("value err : player must be in [1,%d]", spec.MaxPlayers)
	}
	if _, _, ok := stats.RenderByName(cfg.output); !ok && cfg.output != "table" {
		return errs.Warnf("value err : unknown output %q", cfg.output)
	}
	return nil
}

// setting 組出最終 SimSetting：-cfg 檔優先，否則 flags + preset + 覆寫。
func (cfg *config) setting(lab *bjlab.Lab) (*spec.SimSetting, error) {
	if cfg.cfgFile != "" {
		raw, err := os.ReadFile(cfg.cfgFile)
		if err != nil {
			return nil, errs.WrapAs(errs.Warn, err, "read cfg file")
		}
		return spec.GetSimSettingByYAML(raw)
	}
	rs, err := lab.Ruleset(cfg.rules)
	if err != nil {
		return nil, err
	}
	if cfg.visited["h17"] {
		rs.DealerHitsSoft17 = cfg.h17
	}
	if cfg.visited["payout"] {
		rs.BlackjackPayout = cfg.payout
	}
	set := *cfg.set
	set.Rules = rs
	if err := set.Valid(); err != nil {
		return nil, err
	}
	return &set, nil
}

// 這裡解析並分支要執行的模擬器
func executeSimulator() error {
	lab, err := bjlab.Default()
	if err != nil {
		return err
	}
	set, err := cfg.setting(lab)
	if err != nil {
		return err
	}
	s, err := lab.NewSimulatorWithSeed(set, cfg.seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	table := cfg.output == "table"
	sr, er, _ := stats.RenderByName(cfg.output)

	if table {
		p.Fprintf(os.Stderr, "%s[RULES:%s] [DECKS:%d PEN:%.2f] [BANKROLL:%.0f SPREAD:%.0f-%.0f] [HANDS:%d] [SEED:%d]%s\n",
			green, set.Rules.Name, set.Decks, set.Penetration, set.Bankroll, set.SpreadMin, set.SpreadMax, set.Hands, cfg.seed, reset)
	}

	if cfg.player == 1 {
		rep, used, err := s.Sim(ctx, table)
		if err != nil {
			return err
		}
		if table {
			rep.StdOut(used)
			return nil
		}
		return rep.WriteWith(os.Stdout, sr)
	}

	if table {
		p.Fprintf(os.Stderr, "%s[WORKERS:%d] [PLAYERS:%d]%s\n", green, cfg.worker, cfg.player, reset)
	}
	est, _, err := s.SimPlayers(ctx, cfg.worker, cfg.player, table)
	if err != nil {
		return err
	}
	if table {
		est.Out()
		return nil
	}
	return er.Write(os.Stdout, est)
}
