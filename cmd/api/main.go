package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Naya-01/PAE/internal/auth"
	"github.com/Naya-01/PAE/internal/config"
	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/server"
	"github.com/Naya-01/PAE/internal/storage"
	"github.com/Naya-01/PAE/internal/storage/images"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Log.Level)
	log := logger.Get()

	factory, err := storage.FromConfig(cfg)
	if err != nil {
		log.Fatal("Invalid storage configuration", "error", err)
	}

	backend, err := factory.CreateBackend(cfg)
	if err != nil {
		log.Fatal("Failed to open storage", "driver", cfg.DB.Driver, "error", err)
	}
	info := backend.GetInfo()
	log.Info("Storage ready", "type", info["type"], "database", info["database"])
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("Failed to close storage", "error", err)
		}
	}()

	tokens, err := auth.FromConfig(cfg)
	if err != nil {
		log.Fatal("Invalid authentication configuration", "error", err)
	}

	var pictures lifecycle.ImageStore
	if cfg.ImagesEnabled() {
		store, err := images.NewMinioStore(context.Background(), cfg)
		if err != nil {
			log.Fatal("Failed to connect to picture storage", "endpoint", cfg.Images.Endpoint, "error", err)
		}
		pictures = store
	} else {
		log.Warn("MINIO_ENDPOINT is not set, picture uploads are disabled")
	}

	srv := server.New(cfg, backend, tokens, pictures)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		if err != nil {
			log.Error("Server stopped", "error", err)
		}
	case sig := <-quit:
		log.Info("Shutdown requested", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			log.Error("Graceful shutdown failed", "error", err)
		}
	}

	log.Info("Server exited")
}
