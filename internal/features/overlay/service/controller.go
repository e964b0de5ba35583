package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alertcast/internal/core/logger"
	events "alertcast/internal/features/events/domain"
	"alertcast/internal/features/overlay/domain"
	"alertcast/internal/features/overlay/ports"

	"go.uber.org/zap"
)

// Controller drives the active alert through its lifecycle:
// Idle -> Visible -> (Paused <-> Visible)* -> Expired -> Idle.
//
// All state mutation happens on the Run goroutine; incoming envelopes,
// ticker ticks, timer fires and media-ended signals are serialized through
// one select loop. The handler methods are exported for tests, which drive
// them directly with explicit times.
type Controller struct {
	queue    *domain.Queue
	renderer ports.Renderer
	audio    ports.AudioPlayer
	narrator ports.Narrator
	players  ports.PlayerFactory
	resolver ports.EmbedResolver
	log      *zap.Logger

	player ports.MediaPlayer

	// countdownTarget drives the unrelated countdown-timer overlay.
	countdownTarget time.Time

	// hardStop is the authoritative expiry trigger; the per-second tick only
	// feeds the progress render and expires defensively. Cue timers fire the
	// audio/narration offsets. All are re-armed from the alert's shifted
	// deadlines on resume.
	hardStop       *time.Timer
	audioStop      *time.Timer
	narrationStart *time.Timer
	narrationStop  *time.Timer
}

// NewController wires the timeline controller to its presentation ports.
func NewController(renderer ports.Renderer, audio ports.AudioPlayer, narrator ports.Narrator,
	players ports.PlayerFactory, resolver ports.EmbedResolver) *Controller {
	return &Controller{
		queue:    domain.NewQueue(),
		renderer: renderer,
		audio:    audio,
		narrator: narrator,
		players:  players,
		resolver: resolver,
		log:      logger.Named("controller"),
	}
}

// Run consumes the event source until ctx is cancelled, then tears
// everything down (timers, audio, players) so nothing leaks past the
// overlay's lifetime.
func (c *Controller) Run(ctx context.Context, source ports.EventSource) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	defer c.teardown()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-source.Events():
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("event source closed")
			}
			c.HandleEnvelope(ev, time.Now())

		case <-ticker.C:
			c.Tick(time.Now())

		case <-timerC(c.hardStop):
			c.HandleHardStop()

		case <-timerC(c.audioStop):
			c.HandleAudioStop()

		case <-timerC(c.narrationStart):
			c.HandleNarrationStart()

		case <-timerC(c.narrationStop):
			c.HandleNarrationStop()

		case <-c.playerEnded():
			c.HandleMediaEnded()
		}
	}
}

// HandleEnvelope dispatches one wire event.
func (c *Controller) HandleEnvelope(ev events.Envelope, now time.Time) {
	switch ev.Type {
	case events.EventDonation, events.EventText:
		c.onDonation(ev, now)
	case events.EventMedia:
		c.onMedia(ev, now)
	case events.EventVisibility:
		c.onVisibility(ev, now)
	case events.EventClearQueue:
		c.onClearQueue()
	case events.EventTime:
		c.onTime(ev)
	case events.EventHistory, events.EventPaymentStatus:
		// Admin-surface events; nothing to render on the overlay.
	default:
		c.log.Debug("Ignoring unknown event type", zap.String("type", string(ev.Type)))
	}
}

// onDonation applies admission control and, on success, starts the alert:
// render, background audio, cue timers, hard stop.
func (c *Controller) onDonation(ev events.Envelope, now time.Time) {
	alert, err := c.queue.Admit(ev, now)
	if err != nil {
		c.log.Info("Discarding donation, alert in flight",
			zap.String("id", ev.ID),
			zap.String("active_id", c.queue.Active().ID),
		)
		return
	}

	c.startAlert(alert, now)
}

// onMedia resolves and binds media. A media-only admission starts a new
// alert; binding onto the in-flight alert (correlated by id) starts
// playback on the already-visible alert.
func (c *Controller) onMedia(ev events.Envelope, now time.Time) {
	binding := c.resolver.Resolve(ev.MediaURL, ev.MediaType, ev.StartTime)

	alert, created, err := c.queue.AdmitMedia(ev, binding, now)
	if err != nil {
		c.log.Info("Discarding media, alert in flight", zap.String("id", ev.ID))
		return
	}

	if created {
		c.startAlert(alert, now)
		return
	}

	c.renderer.ShowAlert(alert)
	c.startPlayer(alert)
}

// startAlert begins presentation of a freshly admitted alert.
func (c *Controller) startAlert(alert *domain.Alert, now time.Time) {
	c.renderer.ShowAlert(alert)

	// Narration and background audio only accompany announced donations;
	// media-only alerts run silent.
	if alert.DonorName != "" {
		if err := withOneRetry(c.audio.Play); err != nil {
			c.log.Warn("Background audio failed", zap.Error(err))
		}
		c.audioStop = newTimerAt(alert.AudioStopAt, now)
		c.narrationStart = newTimerAt(alert.NarrationStartAt, now)
		c.narrationStop = newTimerAt(alert.NarrationStopAt, now)
	}

	c.hardStop = newTimerAt(alert.Deadline, now)
	c.startPlayer(alert)
}

// startPlayer creates and starts the media player for the alert, if any.
// Playback failure is retried once then abandoned; the alert's visual
// content and countdown keep running without media.
func (c *Controller) startPlayer(alert *domain.Alert) {
	if alert.Media == nil || c.player != nil {
		return
	}

	player, err := c.players.NewPlayer(*alert.Media)
	if err != nil {
		c.log.Warn("No player for media",
			zap.String("kind", string(alert.Media.Kind)),
			zap.Error(err),
		)
		return
	}

	start := func() error { return player.Start(alert.Media.StartSeconds) }
	if err := withOneRetry(start); err != nil {
		c.log.Warn("Media playback failed", zap.String("url", alert.Media.URL), zap.Error(err))
		player.Destroy()
		return
	}

	c.player = player
}

// onVisibility pauses or resumes the alert matching the event id; mismatched
// or absent ids are ignored.
func (c *Controller) onVisibility(ev events.Envelope, now time.Time) {
	alert := c.queue.Active()
	if alert == nil || alert.ID != ev.ID || ev.Visible == nil {
		return
	}

	if !*ev.Visible {
		c.pause(alert, now)
	} else {
		c.resume(alert, now)
	}
}

func (c *Controller) pause(alert *domain.Alert, now time.Time) {
	if alert.Paused {
		return
	}

	alert.Pause(now)
	c.stopTimers()
	c.audio.Pause()
	c.narrator.Pause()
	if c.player != nil {
		c.player.Pause()
	}
	c.log.Info("Alert paused", zap.String("id", alert.ID))
}

// resume extends the deadline and unfired cues by the paused duration and
// re-arms their timers, so no display time is lost to the pause.
func (c *Controller) resume(alert *domain.Alert, now time.Time) {
	if !alert.Paused {
		return
	}

	paused := alert.Resume(now)

	c.hardStop = newTimerAt(alert.Deadline, now)
	if alert.DonorName != "" {
		if !alert.AudioStopFired() {
			c.audioStop = newTimerAt(alert.AudioStopAt, now)
		}
		if !alert.NarrationStartFired() {
			c.narrationStart = newTimerAt(alert.NarrationStartAt, now)
		}
		if !alert.NarrationStopFired() {
			c.narrationStop = newTimerAt(alert.NarrationStopAt, now)
		}
	}

	c.audio.Resume()
	c.narrator.Resume()
	if c.player != nil {
		c.player.Resume()
	}
	c.log.Info("Alert resumed", zap.String("id", alert.ID), zap.Duration("paused", paused))
}

// onClearQueue is the operator override: unconditional, idempotent reset.
func (c *Controller) onClearQueue() {
	if c.queue.Active() == nil {
		return
	}
	c.log.Info("Queue cleared", zap.String("id", c.queue.Active().ID))
	c.expire()
}

// onTime sets the countdown-timer overlay target.
func (c *Controller) onTime(ev events.Envelope) {
	target, err := ev.Target()
	if err != nil {
		c.log.Debug("Ignoring time event", zap.Error(err))
		return
	}
	c.countdownTarget = target
}

// Tick advances the once-a-second countdowns. The pause check runs before
// any decrement so a pause and a tick landing together never race.
func (c *Controller) Tick(now time.Time) {
	c.tickCountdown(now)

	alert := c.queue.Active()
	if alert == nil || alert.Paused {
		return
	}

	alert.Tick()
	c.renderer.Progress(alert.Progress(), alert.Readout())

	// Defensive expiry; the hard-stop timer is the authoritative trigger.
	if alert.Expired() {
		c.expire()
	}
}

// tickCountdown renders the countdown-timer overlay, if a target is set.
func (c *Controller) tickCountdown(now time.Time) {
	if c.countdownTarget.IsZero() {
		return
	}

	remaining := c.countdownTarget.Sub(now)
	if remaining <= 0 {
		c.renderer.HideCountdown()
		c.countdownTarget = time.Time{}
		return
	}

	total := int(remaining / time.Second)
	c.renderer.Countdown(fmt.Sprintf("%02d:%02d", total/60, total%60))
}

// HandleHardStop fires on the authoritative expiry deadline.
func (c *Controller) HandleHardStop() {
	alert := c.queue.Active()
	if alert == nil || alert.Paused {
		return
	}
	c.expire()
}

// HandleAudioStop cuts the background audio at the end of its fixed window.
func (c *Controller) HandleAudioStop() {
	alert := c.queue.Active()
	if alert == nil || !alert.FireAudioStop() {
		return
	}
	c.audio.Stop()
}

// HandleNarrationStart begins the spoken announcement.
func (c *Controller) HandleNarrationStart() {
	alert := c.queue.Active()
	if alert == nil || !alert.FireNarrationStart() {
		return
	}
	if err := withOneRetry(func() error { return c.narrator.Speak(alert.Narration()) }); err != nil {
		c.log.Warn("Narration failed", zap.Error(err))
	}
}

// HandleNarrationStop force-cancels narration at the fixed cutoff, finished
// or not, bounding total audio to the alert's minimum visible time.
func (c *Controller) HandleNarrationStop() {
	alert := c.queue.Active()
	if alert == nil || !alert.FireNarrationStop() {
		return
	}
	c.narrator.Stop()
}

// HandleMediaEnded applies the loop policy: while the owning alert has
// display budget left, seek back to the start offset and replay; once the
// budget is spent, tear the player down.
func (c *Controller) HandleMediaEnded() {
	alert := c.queue.Active()
	if alert == nil || c.player == nil {
		return
	}

	if alert.InFlight() && !alert.Paused && alert.Media.Loopable() {
		if err := c.player.Start(alert.Media.StartSeconds); err != nil {
			c.log.Warn("Media loop restart failed", zap.Error(err))
			c.destroyPlayer()
		}
		return
	}

	c.destroyPlayer()
}

// expire tears down the active alert and returns the overlay to the hidden
// render. Idempotent: the hard-stop timer and a defensive tick expiry may
// both land here.
func (c *Controller) expire() {
	if c.queue.Active() == nil {
		return
	}

	c.stopTimers()
	c.audio.Stop()
	c.narrator.Stop()
	c.destroyPlayer()
	c.renderer.HideAlert()
	c.queue.Clear()
}

// teardown releases everything on Run exit.
func (c *Controller) teardown() {
	c.expire()
	c.stopTimers()
}

func (c *Controller) destroyPlayer() {
	if c.player == nil {
		return
	}
	c.player.Destroy()
	c.player = nil
}

// stopTimers stops and drains every armed timer so a stale fire cannot land
// after a pause or expiry.
func (c *Controller) stopTimers() {
	for _, t := range []**time.Timer{&c.hardStop, &c.audioStop, &c.narrationStart, &c.narrationStop} {
		if *t == nil {
			continue
		}
		if !(*t).Stop() {
			select {
			case <-(*t).C:
			default:
			}
		}
		*t = nil
	}
}

// playerEnded returns the current player's end signal, or nil (blocking
// forever) when no player is active.
func (c *Controller) playerEnded() <-chan struct{} {
	if c.player == nil {
		return nil
	}
	return c.player.Ended()
}

// timerC returns a timer's channel, or nil for an unarmed timer.
func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// newTimerAt arms a timer for an absolute deadline relative to now.
func newTimerAt(deadline, now time.Time) *time.Timer {
	d := deadline.Sub(now)
	if d < 0 {
		d = 0
	}
	return time.NewTimer(d)
}

// withOneRetry runs fn, retrying once on failure. Playback failures degrade
// silently past that; the alert itself keeps running.
func withOneRetry(fn func() error) error {
	if err := fn(); err != nil {
		return fn()
	}
	return nil
}
