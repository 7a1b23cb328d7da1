package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/fzft/go-sparse-set/cmd"
	"github.com/fzft/go-sparse-set/config"
	"github.com/fzft/go-sparse-set/log"
)

func main() {
	var (
		configPath string
		demo       bool
		version    bool
		raw        bool
		noRaw      bool
		pipe       bool
	)
	flag.StringVar(&configPath, "config", "", "Path to sparsecli.yaml")
	flag.BoolVar(&demo, "demo", false, "Run the sparse set walkthrough and exit")
	flag.BoolVar(&version, "version", false, "Output version and exit")
	flag.BoolVar(&raw, "raw", false, "Use raw formatting for replies (default when stdout is not a tty)")
	flag.BoolVar(&noRaw, "no-raw", false, "Force formatted output even when stdout is not a tty")
	flag.BoolVar(&pipe, "pipe", false, "Read RESP commands from stdin and write RESP3 replies")
	flag.Parse()

	if version {
		fmt.Printf("sparsecli %s\n", Version())
		return
	}
	if demo {
		if err := cmd.RunDemo(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := log.InitLogger(cfg.Log.Level, cfg.Log.Development); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Logger.Sync()

	cliCfg := &cmd.SparseCliCfg{
		Prompt:      cfg.CLI.Prompt,
		HistoryFile: cfg.CLI.HistoryFile,
		RCFile:      cfg.CLI.RCFile,
	}
	switch {
	case pipe:
		cliCfg.Output = cmd.OutputResp
	case raw || (!noRaw && !isatty.IsTerminal(os.Stdout.Fd())):
		cliCfg.Output = cmd.OutputRaw
	}

	cli := cmd.NewSparseCli(cliCfg, os.Stdout, log.Logger, cfg.Table.Options()...)
	log.Logger.Debug("console started",
		zap.Int("initial_capacity", cfg.Table.InitialCapacity),
		zap.Float64("load_factor", cfg.Table.LoadFactor),
		zap.Float64("growth_factor", cfg.Table.GrowthFactor))

	if pipe {
		err = cli.RunPipe(os.Stdin)
	} else {
		err = cli.Run(os.Stdin)
	}
	if err != nil {
		log.Logger.Error("console failed", zap.Error(err))
		log.Logger.Sync()
		os.Exit(1)
	}
}
