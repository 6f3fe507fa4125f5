package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/whitesnakegang/ouroboros-sub007/internal/config"
	"github.com/whitesnakegang/ouroboros-sub007/internal/logging"
	"github.com/whitesnakegang/ouroboros-sub007/internal/server"
)

func main() {
	// Parse flags; these override environment configuration.
	port := flag.String("port", "", "Server port")
	backendURL := flag.String("backend", "", "Trace backend base URL")
	dev := flag.Bool("dev", false, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *backendURL != "" {
		cfg.Backend.URL = *backendURL
	}
	var logger *logging.Logger
	if *dev {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
		logger = logging.NewDevelopment()
	} else {
		built, err := logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
			OutputPaths: []string{"stdout"},
		})
		if err != nil {
			built = logging.NewDefault()
		}
		logger = built
	}

	srv, err := server.NewServer(cfg, logger.Logger)
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(cfg.Server.Host + ":" + cfg.Server.Port); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		logger.Info("shutting down")
		if err := srv.Close(); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		logger.Fatal("server error", zap.Error(err))
	}
}
