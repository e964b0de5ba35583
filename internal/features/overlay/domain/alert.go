package domain

import (
	"fmt"
	"math"
	"time"

	events "alertcast/internal/features/events/domain"
)

const (
	// MinDisplayDuration is the floor for how long an alert stays on screen.
	MinDisplayDuration = 10 * time.Second
	// amountPerBlock is the donation amount that buys one block of display time.
	amountPerBlock = 1000.0
	// blockDuration is the display time bought per amountPerBlock.
	blockDuration = 10 * time.Second

	// AudioWindow is how long the background audio plays from alert start.
	AudioWindow = 2 * time.Second
	// NarrationDelay is the offset from alert start at which narration begins.
	NarrationDelay = 2 * time.Second
	// NarrationCutoff is the offset from alert start at which narration is
	// forcibly cancelled, bounding total audio even for long messages.
	NarrationCutoff = 10 * time.Second
)

// DurationForAmount computes the display duration bought by a donation:
// every 1000 units buys 10 seconds, floor 10 seconds, no ceiling.
// Non-positive or non-numeric amounts fall back to the floor; a donation
// alert never vanishes because of a malformed amount.
func DurationForAmount(amount float64) time.Duration {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return MinDisplayDuration
	}

	d := time.Duration(amount / amountPerBlock * float64(blockDuration))
	if d < MinDisplayDuration {
		return MinDisplayDuration
	}
	return d
}

// Alert is the single source of truth for what is on screen right now.
// It is ephemeral, never persisted, and owned exclusively by the timeline
// controller; all mutation happens on the controller's run goroutine.
type Alert struct {
	ID        string
	DonorName string
	Amount    float64
	Message   string

	PaymentMethod  string
	PlisioCurrency string
	PlisioAmount   string

	// Total is the full display budget; Remaining counts down to expiry.
	Total     time.Duration
	Remaining time.Duration

	StartedAt time.Time
	// Deadline is the authoritative wall-clock expiry, extended on resume.
	Deadline time.Time

	Paused         bool
	PauseStartedAt time.Time

	Media *MediaBinding

	// Cue deadlines, fixed offsets from alert start, shifted on resume.
	AudioStopAt      time.Time
	NarrationStartAt time.Time
	NarrationStopAt  time.Time

	audioStopped     bool
	narrationStarted bool
	narrationStopped bool
}

// NewAlert builds an alert from an admitted donation (or text) event.
// The display duration is the server override when present and positive,
// otherwise computed from the amount.
func NewAlert(ev events.Envelope, now time.Time) *Alert {
	total := DurationForAmount(float64(ev.Amount))
	if ev.DurationMs > 0 {
		total = time.Duration(ev.DurationMs) * time.Millisecond
	}

	return &Alert{
		ID:               ev.ID,
		DonorName:        ev.DonorName,
		Amount:           float64(ev.Amount),
		Message:          ev.Message,
		PaymentMethod:    ev.PaymentMethod,
		PlisioCurrency:   ev.PlisioCurrency,
		PlisioAmount:     ev.PlisioAmount,
		Total:            total,
		Remaining:        total,
		StartedAt:        now,
		Deadline:         now.Add(total),
		AudioStopAt:      now.Add(AudioWindow),
		NarrationStartAt: now.Add(NarrationDelay),
		NarrationStopAt:  now.Add(NarrationCutoff),
	}
}

// InFlight reports whether the alert still occupies the display slot.
func (a *Alert) InFlight() bool {
	return a != nil && a.Remaining > 0
}

// Pause freezes the countdown. No-op if already paused.
func (a *Alert) Pause(now time.Time) {
	if a.Paused {
		return
	}
	a.Paused = true
	a.PauseStartedAt = now
}

// Resume unfreezes the countdown and extends the deadline and every unfired
// cue by exactly the paused duration, so no display time is lost to a pause.
// Returns the paused duration.
func (a *Alert) Resume(now time.Time) time.Duration {
	if !a.Paused {
		return 0
	}

	paused := now.Sub(a.PauseStartedAt)
	if paused < 0 {
		paused = 0
	}

	a.Deadline = a.Deadline.Add(paused)
	if !a.audioStopped {
		a.AudioStopAt = a.AudioStopAt.Add(paused)
	}
	if !a.narrationStarted {
		a.NarrationStartAt = a.NarrationStartAt.Add(paused)
	}
	if !a.narrationStopped {
		a.NarrationStopAt = a.NarrationStopAt.Add(paused)
	}

	a.Paused = false
	a.PauseStartedAt = time.Time{}
	return paused
}

// Tick decrements the countdown by exactly one second. The pause check is
// first so a pause and a tick scheduled together never race the countdown.
func (a *Alert) Tick() {
	if a.Paused {
		return
	}
	a.Remaining -= time.Second
	if a.Remaining < 0 {
		a.Remaining = 0
	}
}

// Expired reports whether the countdown has run out.
func (a *Alert) Expired() bool {
	return a.Remaining <= 0
}

// Progress returns the displayed progress fraction, clamped to [0,1].
func (a *Alert) Progress() float64 {
	if a.Total <= 0 {
		return 1
	}
	p := float64(a.Total-a.Remaining) / float64(a.Total)
	return math.Min(1, math.Max(0, p))
}

// Readout formats the remaining time as an MM:SS countdown.
func (a *Alert) Readout() string {
	total := int(a.Remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Narration is the spoken announcement text for this alert.
func (a *Alert) Narration() string {
	if a.Message == "" {
		return fmt.Sprintf("%s just gave %.0f.", a.DonorName, a.Amount)
	}
	return fmt.Sprintf("%s just gave %.0f. %s", a.DonorName, a.Amount, a.Message)
}

// FireAudioStop marks the audio-window cue fired; returns false when it
// already fired so the cue stays one-shot across timer re-arms.
func (a *Alert) FireAudioStop() bool {
	if a.audioStopped {
		return false
	}
	a.audioStopped = true
	return true
}

// FireNarrationStart marks the narration-start cue fired.
func (a *Alert) FireNarrationStart() bool {
	if a.narrationStarted {
		return false
	}
	a.narrationStarted = true
	return true
}

// FireNarrationStop marks the narration-cutoff cue fired.
func (a *Alert) FireNarrationStop() bool {
	if a.narrationStopped {
		return false
	}
	a.narrationStopped = true
	return true
}

// AudioStopFired reports whether the audio-window cue already fired.
func (a *Alert) AudioStopFired() bool { return a.audioStopped }

// NarrationStartFired reports whether narration already began.
func (a *Alert) NarrationStartFired() bool { return a.narrationStarted }

// NarrationStopFired reports whether narration was already cut off.
func (a *Alert) NarrationStopFired() bool { return a.narrationStopped }
