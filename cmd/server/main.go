package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/subosito/gotenv"

	"github.com/streetfamily/roster/pkg/config"
	"github.com/streetfamily/roster/pkg/pricing"
	"github.com/streetfamily/roster/pkg/roster"
	"github.com/streetfamily/roster/pkg/server"
	"github.com/streetfamily/roster/pkg/storage"
)

func main() {
	_ = gotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "rosterd",
	})

	var cfgFile string
	flag.StringVar(&cfgFile, "config", "", "Config file (default is config.yaml when present)")
	flag.Parse()

	cfg, err := config.Build(cfgFile, nil)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	tariffs := pricing.Default()
	if cfg.Tariffs != "" {
		tariffs, err = pricing.FromFile(cfg.Tariffs)
		if err != nil {
			logger.Fatal("failed to load tariff grid", "err", err)
		}
		logger.Info("tariff grid loaded", "file", cfg.Tariffs, "rates", len(tariffs.Rates))
	}

	store := roster.NewStore(roster.NewMapper(tariffs), storage.NewFile(cfg.Data), logger)
	if ok, err := store.Restore(); err != nil {
		logger.Warn("failed to restore snapshot", "err", err)
	} else if ok {
		logger.Info("roster restored from snapshot", "students", store.Stats().Total)
	}

	srv := server.New(cfg, store, logger)
	logger.Info("starting server", "addr", cfg.Addr)
	if err := srv.Start(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
