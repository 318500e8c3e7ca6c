package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/config"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/engine"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/metrics"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/util"
)

func main() {
	configPath := flag.String("config", "configs/engine.yaml", "path to the engine config")
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	config.LoadDotEnv(*envFile)

	boot := util.NewLogger("info")
	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Fatal().Err(err).Str("path", *configPath).Msg("load config")
	}
	cfg.ApplyEnv()

	log := util.NewLogger(cfg.App.LogLevel).With().Str("app", cfg.App.Name).Str("env", cfg.App.Env).Logger()

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var srv *http.Server
	if cfg.App.MetricsAddr != "" {
		srv = metrics.Serve(cfg.App.MetricsAddr)
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	eng, err := engine.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build engine")
	}

	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("engine stopped with error")
	}

	snap := eng.Account.Snapshot(0)
	log.Info().
		Float64("cash", snap.Cash).
		Float64("realized_pnl", snap.RealizedPnL).
		Int("rejected_fills", snap.Rejected).
		Int("positions", len(snap.Positions)).
		Msg("paper account")

	if err := eng.Close(); err != nil {
		log.Error().Err(err).Msg("close journal")
	}
	if srv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}
}
