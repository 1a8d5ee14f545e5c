package main

import (
	"fmt"
	"os"

	"github.com/storerate/storerate/internal/config"
	"github.com/storerate/storerate/internal/devapi"
	"github.com/storerate/storerate/internal/logger"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(logger.Options{
		Level:   cfg.Logging.LevelOr("info"),
		Format:  cfg.Logging.Format,
		Out:     os.Stdout,
		Service: "devapi",
	})

	// Create server
	srv, err := devapi.New(cfg.DevAPI, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().Str("version", version).Str("addr", cfg.DevAPI.Addr).Msg("Starting storerate dev API...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
