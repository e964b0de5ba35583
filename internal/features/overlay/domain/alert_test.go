package domain

import (
	"math"
	"testing"
	"time"

	events "alertcast/internal/features/events/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDurationForAmount_Floor verifies the 10-second minimum.
func TestDurationForAmount_Floor(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
	}{
		{"Zero", 0},
		{"Negative", -500},
		{"NaN", math.NaN()},
		{"Inf", math.Inf(1)},
		{"TinyPositive", 1},
		{"JustBelowOneBlock", 999},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, MinDisplayDuration, DurationForAmount(tc.amount))
		})
	}
}

// TestDurationForAmount_Scaling verifies the 1000-unit / 10-second rate.
func TestDurationForAmount_Scaling(t *testing.T) {
	assert.Equal(t, 10*time.Second, DurationForAmount(1000))
	assert.Equal(t, 20*time.Second, DurationForAmount(2000))
	assert.Equal(t, 50*time.Second, DurationForAmount(5000))
	assert.Equal(t, 15*time.Second, DurationForAmount(1500))
	// No ceiling.
	assert.Equal(t, 10000*time.Second, DurationForAmount(1_000_000))
}

func TestNewAlert_DurationOverride(t *testing.T) {
	now := time.Now()

	t.Run("ServerOverrideWins", func(t *testing.T) {
		a := NewAlert(events.Envelope{ID: "a1", Amount: 5000, DurationMs: 7000}, now)
		assert.Equal(t, 7*time.Second, a.Total)
	})

	t.Run("NonPositiveOverrideIgnored", func(t *testing.T) {
		a := NewAlert(events.Envelope{ID: "a1", Amount: 5000, DurationMs: -1}, now)
		assert.Equal(t, 50*time.Second, a.Total)
	})
}

func TestNewAlert_CueDeadlines(t *testing.T) {
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	a := NewAlert(events.Envelope{ID: "a1", DonorName: "Tia", Amount: 5000}, now)

	assert.Equal(t, now.Add(2*time.Second), a.AudioStopAt)
	assert.Equal(t, now.Add(2*time.Second), a.NarrationStartAt)
	assert.Equal(t, now.Add(10*time.Second), a.NarrationStopAt)
	assert.Equal(t, now.Add(50*time.Second), a.Deadline)
	assert.Equal(t, a.Total, a.Remaining)
}

// TestAlert_PauseConservation verifies that pausing for P then resuming
// leaves the countdown unchanged and delays the deadline by exactly P.
func TestAlert_PauseConservation(t *testing.T) {
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	a := NewAlert(events.Envelope{ID: "a1", Amount: 3000}, now)

	for i := 0; i < 5; i++ {
		a.Tick()
	}
	remainingBefore := a.Remaining
	deadlineBefore := a.Deadline

	pausedAt := now.Add(5 * time.Second)
	a.Pause(pausedAt)

	// Ticks while paused must not count down.
	a.Tick()
	a.Tick()
	assert.Equal(t, remainingBefore, a.Remaining)

	resumedAt := pausedAt.Add(7 * time.Second)
	paused := a.Resume(resumedAt)

	assert.Equal(t, 7*time.Second, paused)
	assert.Equal(t, remainingBefore, a.Remaining)
	assert.Equal(t, deadlineBefore.Add(7*time.Second), a.Deadline)
	assert.False(t, a.Paused)
}

func TestAlert_ResumeShiftsOnlyUnfiredCues(t *testing.T) {
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	a := NewAlert(events.Envelope{ID: "a1", Amount: 3000}, now)

	// Audio window already elapsed before the pause.
	require.True(t, a.FireAudioStop())
	audioStopAt := a.AudioStopAt
	narrationStopAt := a.NarrationStopAt

	a.Pause(now.Add(3 * time.Second))
	a.Resume(now.Add(8 * time.Second))

	assert.Equal(t, audioStopAt, a.AudioStopAt, "fired cue must not shift")
	assert.Equal(t, narrationStopAt.Add(5*time.Second), a.NarrationStopAt)
}

func TestAlert_PauseResumeIdempotence(t *testing.T) {
	now := time.Now()
	a := NewAlert(events.Envelope{ID: "a1", Amount: 1000}, now)

	assert.Equal(t, time.Duration(0), a.Resume(now), "resume while visible is a no-op")

	a.Pause(now)
	pauseStart := a.PauseStartedAt
	a.Pause(now.Add(time.Second))
	assert.Equal(t, pauseStart, a.PauseStartedAt, "second pause must not move the mark")
}

func TestAlert_TickToExpiry(t *testing.T) {
	now := time.Now()
	a := NewAlert(events.Envelope{ID: "a1", Amount: 1000}, now)

	for i := 0; i < 9; i++ {
		a.Tick()
		assert.False(t, a.Expired())
	}
	a.Tick()
	assert.True(t, a.Expired())

	// Floor at zero even if ticks keep arriving.
	a.Tick()
	assert.Equal(t, time.Duration(0), a.Remaining)
}

func TestAlert_Progress(t *testing.T) {
	now := time.Now()
	a := NewAlert(events.Envelope{ID: "a1", Amount: 2000}, now)

	assert.Equal(t, 0.0, a.Progress())
	for i := 0; i < 10; i++ {
		a.Tick()
	}
	assert.InDelta(t, 0.5, a.Progress(), 1e-9)
	for i := 0; i < 15; i++ {
		a.Tick()
	}
	assert.Equal(t, 1.0, a.Progress())
}

func TestAlert_Readout(t *testing.T) {
	now := time.Now()
	a := NewAlert(events.Envelope{ID: "a1", Amount: 7500}, now)

	assert.Equal(t, "01:15", a.Readout())
	a.Tick()
	assert.Equal(t, "01:14", a.Readout())
}

func TestAlert_Narration(t *testing.T) {
	now := time.Now()

	withMessage := NewAlert(events.Envelope{DonorName: "Tia", Amount: 5000, Message: "great stream!"}, now)
	assert.Equal(t, "Tia just gave 5000. great stream!", withMessage.Narration())

	noMessage := NewAlert(events.Envelope{DonorName: "Bo", Amount: 1000}, now)
	assert.Equal(t, "Bo just gave 1000.", noMessage.Narration())
}

func TestAlert_CuesAreOneShot(t *testing.T) {
	a := NewAlert(events.Envelope{ID: "a1", Amount: 1000}, time.Now())

	assert.True(t, a.FireAudioStop())
	assert.False(t, a.FireAudioStop())
	assert.True(t, a.FireNarrationStart())
	assert.False(t, a.FireNarrationStart())
	assert.True(t, a.FireNarrationStop())
	assert.False(t, a.FireNarrationStop())
}
