package domain

import (
	"errors"
	"time"

	events "alertcast/internal/features/events/domain"
)

var (
	// ErrAlertInFlight is returned when an event arrives while another alert
	// still occupies the display slot. Not a failure: the admission policy is
	// a silent, loss-tolerant discard.
	ErrAlertInFlight = errors.New("alert in flight")
)

// Queue is the admission-control state machine. It holds at most one active
// alert; an event arriving while that alert is in flight is discarded, never
// buffered. The backend dispatch queue is responsible for not double-sending
// while one alert runs; this is the defensive second line.
type Queue struct {
	active *Alert
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Active returns the current alert, nil when the overlay is idle.
func (q *Queue) Active() *Alert {
	return q.active
}

// InFlight reports whether an alert currently occupies the display slot.
func (q *Queue) InFlight() bool {
	return q.active.InFlight()
}

// Admit applies the admission rule to a donation or text event. While an
// alert is in flight the event is discarded with ErrAlertInFlight; otherwise
// a new alert takes the slot.
func (q *Queue) Admit(ev events.Envelope, now time.Time) (*Alert, error) {
	if q.InFlight() {
		return nil, ErrAlertInFlight
	}

	q.active = NewAlert(ev, now)
	return q.active, nil
}

// AdmitMedia applies the admission rule to a media event. A media event for
// the in-flight alert (same id, no media bound yet) correlates onto it; a
// media event for a different donation is discarded; with nothing in flight
// it starts a media-only alert at the minimum duration. The returned bool is
// true when a new alert was created.
func (q *Queue) AdmitMedia(ev events.Envelope, media MediaBinding, now time.Time) (*Alert, bool, error) {
	if q.InFlight() {
		if q.active.ID == ev.ID && q.active.Media == nil {
			q.active.Media = &media
			return q.active, false, nil
		}
		return nil, false, ErrAlertInFlight
	}

	alert, err := q.Admit(ev, now)
	if err != nil {
		return nil, false, err
	}
	alert.Media = &media
	return alert, true, nil
}

// Clear unconditionally drops the active alert. Operator override; bypasses
// admission control entirely and is a no-op when the overlay is already idle.
func (q *Queue) Clear() {
	q.active = nil
}
