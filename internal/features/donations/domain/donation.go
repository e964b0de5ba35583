package domain

import (
	"errors"
	"math"
	"time"

	events "alertcast/internal/features/events/domain"

	"github.com/google/uuid"
)

// Display limits enforced at creation so the overlay never has to defend
// against oversized text.
const (
	maxDonorNameRunes = 30
	maxMessageRunes   = 250
)

// Status tracks a donation through the payment flow.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
)

var (
	ErrInvalidAmount = errors.New("invalid donation amount")
	ErrNotFound      = errors.New("donation not found")
)

// Donation is one donation through its full lifecycle: created pending,
// confirmed (or failed) by the payment callback, then kept in history.
type Donation struct {
	ID        string  `json:"id"`
	DonorName string  `json:"donorName"`
	Amount    float64 `json:"amount"`
	Message   string  `json:"message,omitempty"`

	PaymentMethod  string `json:"paymentMethod,omitempty"`
	PlisioCurrency string `json:"plisioCurrency,omitempty"`
	PlisioAmount   string `json:"plisioAmount,omitempty"`

	MediaURL  string  `json:"mediaUrl,omitempty"`
	MediaType string  `json:"mediaType,omitempty"`
	StartTime float64 `json:"startTime,omitempty"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewDonation creates a pending donation, truncating the display text to the
// overlay limits. An empty donor name becomes Anonymous.
func NewDonation(donorName, message string, amount float64) (*Donation, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}

	if donorName == "" {
		donorName = "Anonymous"
	}

	return &Donation{
		ID:        uuid.NewString(),
		DonorName: truncateRunes(donorName, maxDonorNameRunes),
		Amount:    amount,
		Message:   truncateRunes(message, maxMessageRunes),
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}, nil
}

// HasMedia reports whether the donor attached a media URL.
func (d *Donation) HasMedia() bool {
	return d.MediaURL != ""
}

// AlertEnvelope is the wire event that triggers the overlay alert.
func (d *Donation) AlertEnvelope() events.Envelope {
	return events.Envelope{
		Type:           events.EventDonation,
		ID:             d.ID,
		DonorName:      d.DonorName,
		Amount:         events.Amount(d.Amount),
		Message:        d.Message,
		PaymentMethod:  d.PaymentMethod,
		PlisioCurrency: d.PlisioCurrency,
		PlisioAmount:   d.PlisioAmount,
	}
}

// MediaEnvelope is the wire event that binds the donor's media to the alert.
// Only meaningful when HasMedia is true.
func (d *Donation) MediaEnvelope() events.Envelope {
	return events.Envelope{
		Type:      events.EventMedia,
		ID:        d.ID,
		MediaURL:  d.MediaURL,
		MediaType: d.MediaType,
		StartTime: d.StartTime,
	}
}

// HistoryEnvelope live-appends the donation to the admin history view.
func (d *Donation) HistoryEnvelope() events.Envelope {
	return events.Envelope{
		Type:          events.EventHistory,
		ID:            d.ID,
		DonorName:     d.DonorName,
		Amount:        events.Amount(d.Amount),
		Message:       d.Message,
		PaymentMethod: d.PaymentMethod,
		CreatedAt:     d.CreatedAt,
	}
}

// PaymentStatusEnvelope live-updates the admin payment-detail view.
func (d *Donation) PaymentStatusEnvelope() events.Envelope {
	return events.Envelope{
		Type:    events.EventPaymentStatus,
		OrderID: d.ID,
		Status:  string(d.Status),
	}
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
