package service

import (
	"context"
	"fmt"
	"time"

	"alertcast/internal/core/logger"
	"alertcast/internal/features/donations/domain"
	"alertcast/internal/features/donations/ports"
	events "alertcast/internal/features/events/domain"
	hubports "alertcast/internal/features/hub/ports"

	"go.uber.org/zap"
)

// DonationServiceImpl implements ports.DonationService.
type DonationServiceImpl struct {
	repo ports.DonationRepository
	hub  hubports.Broadcaster
}

// NewDonationService creates a new DonationServiceImpl.
func NewDonationService(repo ports.DonationRepository, hub hubports.Broadcaster) *DonationServiceImpl {
	return &DonationServiceImpl{
		repo: repo,
		hub:  hub,
	}
}

// Create registers a pending donation awaiting its payment callback.
func (s *DonationServiceImpl) Create(ctx context.Context, input ports.CreateDonationInput) (*domain.Donation, error) {
	donation, err := domain.NewDonation(input.DonorName, input.Message, input.Amount)
	if err != nil {
		return nil, err
	}

	donation.PaymentMethod = input.PaymentMethod
	donation.PlisioCurrency = input.PlisioCurrency
	donation.MediaURL = input.MediaURL
	donation.MediaType = input.MediaType
	donation.StartTime = input.StartTime

	if err := s.repo.SavePending(ctx, donation); err != nil {
		return nil, fmt.Errorf("service: failed to save pending donation: %w", err)
	}

	logger.Get().Info("Donation created",
		zap.String("order_id", donation.ID),
		zap.Float64("amount", donation.Amount),
		zap.String("payment_method", donation.PaymentMethod),
	)
	return donation, nil
}

// ConfirmPayment resolves a pending donation. A paid donation is recorded in
// history and dispatched to every subscriber as one batched frame: the alert,
// its media binding when present, the history append and the payment status
// arrive together and in order.
func (s *DonationServiceImpl) ConfirmPayment(ctx context.Context, orderID string, paid bool) (*domain.Donation, error) {
	donation, err := s.repo.GetPending(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeletePending(ctx, orderID); err != nil {
		return nil, fmt.Errorf("service: failed to delete pending donation: %w", err)
	}

	if !paid {
		donation.Status = domain.StatusFailed
		s.hub.Publish(donation.PaymentStatusEnvelope())
		logger.Get().Info("Donation failed", zap.String("order_id", orderID))
		return donation, nil
	}

	donation.Status = domain.StatusPaid
	if err := s.repo.AppendHistory(ctx, donation); err != nil {
		return nil, fmt.Errorf("service: failed to record donation: %w", err)
	}

	batch := []events.Envelope{donation.AlertEnvelope()}
	if donation.HasMedia() {
		batch = append(batch, donation.MediaEnvelope())
	}
	batch = append(batch, donation.HistoryEnvelope(), donation.PaymentStatusEnvelope())
	s.hub.Publish(batch...)

	logger.Get().Info("Donation dispatched",
		zap.String("order_id", orderID),
		zap.Float64("amount", donation.Amount),
	)
	return donation, nil
}

// History returns the most recent paid donations, newest first.
func (s *DonationServiceImpl) History(ctx context.Context, limit int64) ([]domain.Donation, error) {
	donations, err := s.repo.History(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get history: %w", err)
	}
	return donations, nil
}

// ClearQueue broadcasts the operator override that resets the overlay.
func (s *DonationServiceImpl) ClearQueue() {
	s.hub.Publish(events.Envelope{Type: events.EventClearQueue})
}

// SetVisibility pauses or resumes the alert with the given id.
func (s *DonationServiceImpl) SetVisibility(id string, visible bool) {
	s.hub.Publish(events.Envelope{
		Type:    events.EventVisibility,
		ID:      id,
		Visible: &visible,
	})
}

// BroadcastTimer sets the countdown-timer overlay target.
func (s *DonationServiceImpl) BroadcastTimer(target time.Time) {
	s.hub.Publish(events.Envelope{
		Type:       events.EventTime,
		TargetTime: target.Format(time.RFC3339),
	})
}
