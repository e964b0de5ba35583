package server

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"alertcast/internal/core/logger"

	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// WaitForShutdown blocks until SIGINT or SIGTERM, runs the given hooks, then
// shuts the HTTP server down gracefully. In-flight requests get
// shutdownTimeout to complete.
func (s *Server) WaitForShutdown(hooks ...func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Get().Info("Shutting down", zap.String("signal", sig.String()))

	for _, hook := range hooks {
		hook()
	}

	if err := s.App.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Get().Error("Forced shutdown", zap.Error(err))
	}
}
