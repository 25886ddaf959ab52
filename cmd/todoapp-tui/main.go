package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"todoapp/internal/app"
	"todoapp/internal/client"
	"todoapp/internal/config"
	"todoapp/internal/ui"
	"todoapp/internal/util"
)

func main() {
	configFlag := flag.String("config", util.EnvOrDefault("TODO_CONFIG", "todoapp.toml"), "Path to TOML config file")
	apiFlag := flag.String("api", "", "API base URL (overrides config)")
	flag.Parse()

	// The terminal owns stdout, so diagnostics go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load(*configFlag)
	if err != nil {
		logger.Error("unable to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *apiFlag != "" {
		cfg.APIURL = *apiFlag
	}

	api := client.New(cfg.APIURL, cfg.RequestTimeout())
	ctrl := app.NewController(api, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ui.Run(ctx, ctrl, cfg); err != nil {
		logger.Error("ui stopped unexpectedly", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
