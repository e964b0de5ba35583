package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"alertcast/internal/core/config"
	"alertcast/internal/core/logger"
	"alertcast/internal/features/overlay/adapters"
	"alertcast/internal/features/overlay/service"

	"go.uber.org/zap"
)

// The overlay client: connects to the alertcast server, runs the alert
// timeline and renders through the configured players. Meant for headless
// broadcast boxes where a browser source is not available.
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Overlay starting", zap.String("server_url", cfg.Overlay.ServerURL))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial state fetch is best-effort; the engine starts empty either way.
	fetcher := adapters.NewAPIStateFetcher(cfg.Overlay.ServerURL)
	if err := fetcher.Fetch(ctx); err != nil {
		l.Warn("Initial state fetch failed", zap.Error(err))
	}

	reconnectDelay := time.Duration(cfg.Overlay.ReconnectDelayMS) * time.Millisecond
	transport, err := adapters.NewWSTransport(cfg.Overlay.ServerURL, reconnectDelay)
	if err != nil {
		l.Fatal("Invalid server URL", zap.Error(err))
	}
	go transport.Run(ctx)

	controller := service.NewController(
		adapters.NewLogRenderer(),
		adapters.NewExecAudioPlayer(cfg.Overlay.AudioCommand),
		adapters.NewExecNarrator(cfg.Overlay.NarrationCommand),
		adapters.NewExecPlayerFactory(cfg.Overlay.VideoCommand),
		adapters.NewEmbedResolver(),
	)

	if err := controller.Run(ctx, transport); err != nil {
		l.Fatal("Overlay stopped", zap.Error(err))
	}
	l.Info("Overlay shut down")
}
