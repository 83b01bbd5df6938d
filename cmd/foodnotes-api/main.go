package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/foodnotes/foodnotes"
	"github.com/foodnotes/foodnotes/catalog"
	"github.com/foodnotes/foodnotes/config"
)

func main() {
	defaultConfig := os.Getenv("FOODNOTES_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	configPath := flag.String("config", defaultConfig, "path to the YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// A missing catalog database disables the dishes/shops endpoints but
	// the scraping endpoints still work.
	store, err := catalog.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("catalog database unavailable", "path", cfg.DBPath, "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	server := foodnotes.NewServer(cfg, logger, store)
	router := server.SetupRouter()

	logger.Info("starting server", "addr", cfg.Listen)
	if err := router.Run(cfg.Listen); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
