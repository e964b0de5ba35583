package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrame_SingleEvent(t *testing.T) {
	frame := []byte(`{"type":"donation","id":"a1","donorName":"Tia","amount":5000}`)

	events := ParseFrame(frame)
	require.Len(t, events, 1)

	assert.Equal(t, EventDonation, events[0].Type)
	assert.Equal(t, "a1", events[0].ID)
	assert.Equal(t, "Tia", events[0].DonorName)
	assert.Equal(t, Amount(5000), events[0].Amount)
}

// TestParseFrame_BatchedEvents verifies that one frame can carry several
// newline-separated envelopes processed in order and correlated by id.
func TestParseFrame_BatchedEvents(t *testing.T) {
	frame := []byte(`{"type":"donation","id":"1","donorName":"Ana","amount":2000}` + "\n" +
		`{"type":"media","id":"1","mediaUrl":"https://cdn.example/clip.mp4"}`)

	events := ParseFrame(frame)
	require.Len(t, events, 2)

	assert.Equal(t, EventDonation, events[0].Type)
	assert.Equal(t, EventMedia, events[1].Type)
	assert.Equal(t, events[0].ID, events[1].ID)
}

// TestParseFrame_BadSegmentDoesNotAbortSiblings verifies log-and-skip semantics.
func TestParseFrame_BadSegmentDoesNotAbortSiblings(t *testing.T) {
	frame := []byte(`{"type":"donation","id":"1","amount":1000}` + "\n" +
		`{not json at all` + "\n" +
		`{"type":"clear_queue"}`)

	events := ParseFrame(frame)
	require.Len(t, events, 2)

	assert.Equal(t, EventDonation, events[0].Type)
	assert.Equal(t, EventClearQueue, events[1].Type)
}

func TestParseFrame_EmptySegments(t *testing.T) {
	frame := []byte("\n\n  \n" + `{"type":"visibility","id":"1","visible":false}` + "\n\n")

	events := ParseFrame(frame)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Visible)
	assert.False(t, *events[0].Visible)
}

func TestParseFrame_EmptyFrame(t *testing.T) {
	assert.Empty(t, ParseFrame(nil))
	assert.Empty(t, ParseFrame([]byte("   ")))
}

func TestAmount_Tolerance(t *testing.T) {
	cases := []struct {
		name  string
		frame string
		want  Amount
	}{
		{"Number", `{"type":"donation","amount":2500}`, 2500},
		{"NumericString", `{"type":"donation","amount":"1500"}`, 1500},
		{"Garbage", `{"type":"donation","amount":"NaN-ish"}`, 0},
		{"Null", `{"type":"donation","amount":null}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := ParseFrame([]byte(tc.frame))
			require.Len(t, events, 1)
			assert.Equal(t, tc.want, events[0].Amount)
		})
	}
}

func TestEnvelope_Target(t *testing.T) {
	ev := Envelope{Type: EventTime, TargetTime: "2026-01-02T15:04:05Z"}

	target, err := ev.Target()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), target)

	_, err = Envelope{TargetTime: "tomorrow"}.Target()
	assert.Error(t, err)
}

func TestEncodeFrame_RoundTripsBatch(t *testing.T) {
	visible := false
	frame, err := EncodeFrame(
		Envelope{Type: EventDonation, ID: "d1", DonorName: "Bo", Amount: 3000},
		Envelope{Type: EventVisibility, ID: "d1", Visible: &visible},
	)
	require.NoError(t, err)

	events := ParseFrame(frame)
	require.Len(t, events, 2)
	assert.Equal(t, EventDonation, events[0].Type)
	assert.Equal(t, EventVisibility, events[1].Type)
	assert.Equal(t, "d1", events[1].ID)
}
