package adapters

import (
	"alertcast/internal/core/logger"
	"alertcast/internal/features/overlay/domain"

	"go.uber.org/zap"
)

// LogRenderer renders overlay state as structured logs. It is the
// broadcast-safe default for the headless client: the engine keeps running
// even with no visual surface attached.
type LogRenderer struct {
	log *zap.Logger
}

// NewLogRenderer creates a LogRenderer.
func NewLogRenderer() *LogRenderer {
	return &LogRenderer{log: logger.Named("overlay")}
}

// ShowAlert logs the freshly admitted alert.
func (r *LogRenderer) ShowAlert(alert *domain.Alert) {
	fields := []zap.Field{
		zap.String("id", alert.ID),
		zap.String("donor", alert.DonorName),
		zap.Float64("amount", alert.Amount),
		zap.Duration("duration", alert.Total),
	}
	if alert.Message != "" {
		fields = append(fields, zap.String("message", alert.Message))
	}
	if alert.PaymentMethod != "" {
		fields = append(fields, zap.String("payment_method", alert.PaymentMethod))
	}
	if alert.Media != nil {
		fields = append(fields,
			zap.String("media_kind", string(alert.Media.Kind)),
			zap.String("media_url", alert.Media.URL),
		)
	}
	r.log.Info("Alert shown", fields...)
}

// HideAlert logs the return to the hidden render.
func (r *LogRenderer) HideAlert() {
	r.log.Info("Alert hidden")
}

// Progress logs the once-a-second countdown update at debug level.
func (r *LogRenderer) Progress(fraction float64, readout string) {
	r.log.Debug("Alert progress",
		zap.Float64("fraction", fraction),
		zap.String("remaining", readout),
	)
}

// Countdown logs the countdown-timer overlay readout at debug level.
func (r *LogRenderer) Countdown(readout string) {
	r.log.Debug("Countdown", zap.String("remaining", readout))
}

// HideCountdown logs that the countdown target passed.
func (r *LogRenderer) HideCountdown() {
	r.log.Info("Countdown finished")
}
