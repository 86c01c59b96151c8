package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/davidmdm/conf"
)

const (
	modePair = "pair"
	modeAll  = "all"
)

func main() {
	var (
		scenarioPath string
		mode         = modeAll
		timeout      time.Duration
		debug        bool
	)

	parser := conf.MakeParser()
	conf.Var(parser, &scenarioPath, "ZIPLATEST_SCENARIO")
	conf.Var(parser, &mode, "ZIPLATEST_MODE")
	conf.Var(parser, &timeout, "ZIPLATEST_TIMEOUT")
	conf.Var(parser, &debug, "ZIPLATEST_DEBUG")
	parser.MustParse()

	if debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if scenarioPath == "" {
		slog.Error("ZIPLATEST_SCENARIO is required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sc, err := loadScenario(scenarioPath)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	slog.Debug(fmt.Sprintf("replaying %d sources in mode %s", len(sc.Sources), mode))

	if err := replay(ctx, sc, mode, os.Stdout); err != nil {
		slog.Error(fmt.Sprintf("replay failed: %v", err))
		os.Exit(1)
	}
}
