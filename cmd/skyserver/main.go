package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/astriolab/skywidget/internal/config"
	"github.com/astriolab/skywidget/internal/engine"
	"github.com/astriolab/skywidget/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	listenAddr := flag.String("listen", "", "Listen address (overrides config)")
	flag.Parse()

	var logger *zap.Logger
	if *logLevel == "debug" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting skyserver",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("date", date),
	)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assets := engine.Assets{
		BuildDir: cfg.Engine.BuildDir,
		DataDir:  cfg.Engine.DataDir,
	}
	if assets.BuildDir == "" || assets.DataDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			logger.Fatal("Failed to resolve working directory", zap.Error(err))
		}
		assets, err = engine.Discover(wd)
		if err != nil {
			logger.Fatal("Engine auto-discovery failed", zap.Error(err))
		}
	}

	var verifier *engine.Verifier
	if cfg.Engine.VerifyPayload {
		verifier = engine.NewVerifier(logger)
	}

	registry := engine.NewRegistry(cfg.Engine.URLPrefix, verifier, logger)
	mounted, err := registry.Mount(ctx, assets)
	if err != nil {
		logger.Fatal("Failed to mount engine assets", zap.Error(err))
	}

	server := web.NewServer(cfg, mounted, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server shutdown complete")
}
