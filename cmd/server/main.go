package main

import (
	"log"
	"log/slog"

	"github.com/nfrund/wastewise/internal/app"
	"github.com/nfrund/wastewise/internal/config"
	"github.com/nfrund/wastewise/internal/logging"
	"github.com/nfrund/wastewise/internal/server"
)

func main() {
	cfg := config.New()
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())

	deps, err := app.Resolve(app.NewInjector(cfg, logger))
	if err != nil {
		log.Fatalf("Failed to wire services: %v", err)
	}

	// Create a new server instance.
	s := server.New(deps)

	// Register all application routes.
	s.RegisterRoutes()

	// Start the server.
	if err := s.Start(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		log.Fatal(err)
	}
}
