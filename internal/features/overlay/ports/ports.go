package ports

import (
	"context"

	events "alertcast/internal/features/events/domain"
	"alertcast/internal/features/overlay/domain"
)

// EventSource is the primary port feeding the timeline controller. Run
// blocks until the context is cancelled; Events delivers decoded envelopes
// in arrival order. Transport errors never surface here; the source is
// expected to reconnect on its own.
type EventSource interface {
	Run(ctx context.Context) error
	Events() <-chan events.Envelope
}

// Renderer draws overlay state. Implementations must tolerate being called
// only from the controller's run goroutine.
type Renderer interface {
	// ShowAlert presents a freshly admitted alert.
	ShowAlert(alert *domain.Alert)
	// HideAlert returns the overlay to the empty/hidden render.
	HideAlert()
	// Progress updates the progress fraction and MM:SS readout once a second.
	Progress(fraction float64, readout string)
	// Countdown updates the countdown-timer overlay readout.
	Countdown(readout string)
	// HideCountdown hides the countdown-timer overlay.
	HideCountdown()
}

// AudioPlayer plays the short background audio at alert start.
type AudioPlayer interface {
	Play() error
	Pause()
	Resume()
	Stop()
}

// Narrator speaks the donation announcement.
type Narrator interface {
	Speak(text string) error
	Pause()
	Resume()
	Stop()
}

// MediaPlayer renders one bound media item for one alert. The controller
// owns it exclusively and destroys it before a new alert may claim media.
type MediaPlayer interface {
	// Start begins (or restarts, when looping) playback at the given offset.
	Start(seekSeconds float64) error
	// Ended signals natural end-of-playback for players that can detect it.
	Ended() <-chan struct{}
	Pause()
	Resume()
	// Destroy stops playback and releases the player.
	Destroy()
}

// PlayerFactory builds the player implementation matching a resolved media
// kind. One implementation per kind, each exposing the same lifecycle.
type PlayerFactory interface {
	NewPlayer(media domain.MediaBinding) (MediaPlayer, error)
}

// EmbedResolver classifies a raw media URL into a playable binding.
type EmbedResolver interface {
	Resolve(rawURL, explicitType string, startSeconds float64) domain.MediaBinding
}

// StateFetcher fetches initial server state when the overlay loads.
type StateFetcher interface {
	Fetch(ctx context.Context) error
}
