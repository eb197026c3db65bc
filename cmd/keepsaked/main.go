// Command keepsaked runs the gateway daemon that fronts the World Labs API
// for local capture clients.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"

	"keepsake/internal/config"
	"keepsake/internal/gateway"
	"keepsake/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "keepsaked.log")},
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	lock := flock.New(cfg.LockFilePath())
	locked, err := lock.TryLock()
	if err != nil {
		logger.Error("acquire daemon lock", logging.Error(err))
		os.Exit(1)
	}
	if !locked {
		logger.Error("another keepsaked instance is already running",
			logging.String("lock", cfg.LockFilePath()))
		os.Exit(1)
	}
	defer lock.Unlock() //nolint:errcheck

	server := gateway.NewServer(cfg, logger)
	if err := server.Start(ctx); err != nil {
		logger.Error("start gateway", logging.Error(err))
		os.Exit(1)
	}
	defer server.Stop()

	<-ctx.Done()
	logger.Info("keepsaked shutting down")
}
