package ports

import (
	"context"
	"time"

	"alertcast/internal/features/donations/domain"
)

// CreateDonationInput carries everything a donor submits.
type CreateDonationInput struct {
	DonorName      string
	Amount         float64
	Message        string
	PaymentMethod  string
	PlisioCurrency string
	MediaURL       string
	MediaType      string
	StartTime      float64
}

// DonationService defines the primary port for the donation pipeline.
type DonationService interface {
	// Create registers a pending donation awaiting payment confirmation.
	Create(ctx context.Context, input CreateDonationInput) (*domain.Donation, error)
	// ConfirmPayment resolves a pending donation from the payment callback.
	// A paid donation is dispatched to the overlay and recorded in history.
	ConfirmPayment(ctx context.Context, orderID string, paid bool) (*domain.Donation, error)
	// History returns the most recent paid donations, newest first.
	History(ctx context.Context, limit int64) ([]domain.Donation, error)
	// ClearQueue broadcasts the operator override that resets the overlay.
	ClearQueue()
	// SetVisibility pauses or resumes the alert with the given id.
	SetVisibility(id string, visible bool)
	// BroadcastTimer sets the countdown-timer overlay target.
	BroadcastTimer(target time.Time)
}

// DonationRepository defines the secondary port for donation storage.
type DonationRepository interface {
	// SavePending stores a donation awaiting its payment callback.
	SavePending(ctx context.Context, donation *domain.Donation) error
	// GetPending retrieves a pending donation by order id.
	// Returns domain.ErrNotFound when absent or expired.
	GetPending(ctx context.Context, orderID string) (*domain.Donation, error)
	// DeletePending removes a resolved pending donation.
	DeletePending(ctx context.Context, orderID string) error
	// AppendHistory records a paid donation, newest first, bounded.
	AppendHistory(ctx context.Context, donation *domain.Donation) error
	// History returns up to limit recorded donations, newest first.
	History(ctx context.Context, limit int64) ([]domain.Donation, error)
}
