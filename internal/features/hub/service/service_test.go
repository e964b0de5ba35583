package service

import (
	"bytes"
	"sync"
	"testing"
	"time"

	events "alertcast/internal/features/events/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records written frames.
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
	// gate, when set, blocks every write until the channel is closed.
	gate chan struct{}
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *fakeConn) lastFrame() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		return nil
	}
	return f.frames[len(f.frames)-1]
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestHub_PublishFansOut(t *testing.T) {
	hub := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	hub.Attach(a)
	hub.Attach(b)

	hub.Publish(events.Envelope{Type: events.EventClearQueue})

	require.Eventually(t, func() bool {
		return a.frameCount() == 1 && b.frameCount() == 1
	}, time.Second, 10*time.Millisecond)

	assert.JSONEq(t, `{"type":"clear_queue"}`, string(a.lastFrame()))
}

// TestHub_PublishBatchesIntoOneFrame verifies that the events of one Publish
// call travel as a single newline-separated frame.
func TestHub_PublishBatchesIntoOneFrame(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Attach(conn)

	hub.Publish(
		events.Envelope{Type: events.EventDonation, ID: "d1", DonorName: "Tia", Amount: 5000},
		events.Envelope{Type: events.EventMedia, ID: "d1", MediaURL: "https://cdn.example/a.mp4"},
	)

	require.Eventually(t, func() bool { return conn.frameCount() == 1 }, time.Second, 10*time.Millisecond)

	segments := bytes.Split(conn.lastFrame(), []byte("\n"))
	require.Len(t, segments, 2)
	assert.Contains(t, string(segments[0]), `"donation"`)
	assert.Contains(t, string(segments[1]), `"media"`)
}

func TestHub_DetachClosesConnection(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	id := hub.Attach(conn)

	require.Equal(t, 1, hub.ClientCount())

	hub.Detach(id)
	hub.Detach(id)

	assert.Equal(t, 0, hub.ClientCount())
	assert.True(t, conn.isClosed())
}

// TestHub_DropsSlowSubscriber verifies that a subscriber that stops draining
// its buffer is detached instead of stalling the broadcast.
func TestHub_DropsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	slow := &fakeConn{gate: make(chan struct{})}
	defer close(slow.gate)
	hub.Attach(slow)

	// One frame may be stuck in the blocked write; overflow the buffer past it.
	for i := 0; i < sendBufferSize+2; i++ {
		hub.Publish(events.Envelope{Type: events.EventTime, TargetTime: "2026-01-10T12:00:00Z"})
	}

	assert.Equal(t, 0, hub.ClientCount())
	assert.True(t, slow.isClosed())
}

func TestHub_CloseDetachesAll(t *testing.T) {
	hub := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	hub.Attach(a)
	hub.Attach(b)

	hub.Close()

	assert.Equal(t, 0, hub.ClientCount())
	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
}
