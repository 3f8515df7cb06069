package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/jaki95/setlist-sync/config"
	"github.com/jaki95/setlist-sync/internal/server"
	"github.com/jaki95/setlist-sync/internal/service"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Path to the configuration file")
	port := flag.String("port", "", "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)

	svc, closeLibrary, err := service.NewFromConfig(cfg)
	if err != nil {
		slog.Error("Failed to create sync service", "error", err)
		os.Exit(1)
	}
	defer closeLibrary()

	srv := server.New(svc)

	slog.Info("Starting setlist sync API server", "port", cfg.Server.Port,
		"legacy_container", cfg.Storage.LegacyContainer, "current_container", cfg.Storage.CurrentContainer)
	if err := srv.Start(cfg.Server.Port); err != nil {
		slog.Error("Server failed", "error", err)
		closeLibrary()
		os.Exit(1)
	}
}
