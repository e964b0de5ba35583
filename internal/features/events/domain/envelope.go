package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// EventType discriminates the payload carried by an Envelope.
type EventType string

const (
	// EventDonation announces a paid donation; admission-controlled alert creation.
	EventDonation EventType = "donation"
	// EventMedia binds a media URL to the current or a new alert.
	EventMedia EventType = "media"
	// EventText is the text-only alert variant.
	EventText EventType = "text"
	// EventVisibility pauses or resumes the alert matching its id.
	EventVisibility EventType = "visibility"
	// EventClearQueue unconditionally resets the overlay.
	EventClearQueue EventType = "clear_queue"
	// EventTime drives the countdown-timer overlay.
	EventTime EventType = "time"
	// EventHistory live-appends a donation to the admin history view.
	EventHistory EventType = "history"
	// EventPaymentStatus live-updates the admin payment-detail view.
	EventPaymentStatus EventType = "payment_status"
)

// Amount is a donation amount that tolerates malformed input. Numbers and
// numeric strings decode normally; anything unparsable decodes to zero so a
// broken amount degrades to the minimum display duration instead of dropping
// the whole event.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(b), `"`))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = 0
		return nil
	}

	*a = Amount(v)
	return nil
}

// Envelope is one wire event. A single websocket frame may carry several
// newline-separated envelopes; see ParseFrame.
type Envelope struct {
	Type EventType `json:"type"`

	// ID correlates donation, media and visibility events for one alert.
	ID        string `json:"id,omitempty"`
	DonorName string `json:"donorName,omitempty"`
	Amount    Amount `json:"amount,omitempty"`
	Message   string `json:"message,omitempty"`
	// DurationMs is an optional server-computed display duration override.
	DurationMs     int64  `json:"durationMs,omitempty"`
	PaymentMethod  string `json:"paymentMethod,omitempty"`
	PlisioCurrency string `json:"plisioCurrency,omitempty"`
	PlisioAmount   string `json:"plisioAmount,omitempty"`

	MediaURL  string `json:"mediaUrl,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	// StartTime is the playback offset in seconds for seekable players.
	StartTime float64 `json:"startTime,omitempty"`

	// Visible toggles pause state; a pointer so absence is distinguishable.
	Visible *bool `json:"visible,omitempty"`

	// TargetTime is the ISO datetime the countdown overlay counts towards.
	TargetTime string `json:"targetTime,omitempty"`

	OrderID   string    `json:"orderId,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Target parses the countdown target of a time envelope.
func (e Envelope) Target() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, e.TargetTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid target time %q: %w", e.TargetTime, err)
	}
	return t, nil
}
