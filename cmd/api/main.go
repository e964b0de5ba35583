package main

import (
	"log"
	"time"

	"alertcast/internal/core/cache"
	"alertcast/internal/core/config"
	"alertcast/internal/core/logger"
	"alertcast/internal/core/server"
	adminhandler "alertcast/internal/features/admin/handler"
	adminservice "alertcast/internal/features/admin/service"
	donationadapter "alertcast/internal/features/donations/adapters"
	donationhandler "alertcast/internal/features/donations/handler"
	donationservice "alertcast/internal/features/donations/service"
	hubhandler "alertcast/internal/features/hub/handler"
	hubservice "alertcast/internal/features/hub/service"

	"go.uber.org/zap"
)

// @title Alertcast API
// @version 1.0
// @description Donation alert platform: payments, realtime dispatch and the overlay wire protocol.
// @contact.name API Support
// @contact.email support@alertcast.io
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Broadcast hub
	hub := hubservice.NewHub()
	hubHdl := hubhandler.NewHubHandler(hub)

	// Donation pipeline
	donationRepo := donationadapter.NewRedisDonationRepository(redisCache, int64(cfg.History.MaxEntries))
	donationSvc := donationservice.NewDonationService(donationRepo, hub)
	donationHdl := donationhandler.NewDonationHandler(donationSvc)

	// Admin auth
	sessionTTL := time.Duration(cfg.Admin.SessionTTLMinutes) * time.Minute
	authSvc := adminservice.NewAuthService(redisCache, cfg.Admin.Username, cfg.Admin.Password, sessionTTL)
	authHdl := adminhandler.NewAuthHandler(authSvc)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/ws", hubHdl.Upgrade, hubHdl.Serve())
	srv.App.Get("/state", donationHdl.GetState)
	srv.App.Post("/donate", donationHdl.CreateDonation)
	srv.App.Post("/payment/callback", donationHdl.PaymentCallback)

	srv.App.Post("/admin/login", authHdl.Login)
	admin := srv.App.Group("/admin", authHdl.RequireAuth)
	admin.Post("/logout", authHdl.Logout)
	admin.Get("/history", donationHdl.GetHistory)
	admin.Post("/clear-queue", donationHdl.ClearQueue)
	admin.Post("/visibility", donationHdl.SetVisibility)
	admin.Post("/timer", donationHdl.SetTimer)
	admin.Post("/test-alert", donationHdl.TestAlert)

	go srv.WaitForShutdown(hub.Close)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
