package service

import (
	"sync"

	"alertcast/internal/core/logger"
	events "alertcast/internal/features/events/domain"
	"alertcast/internal/features/hub/ports"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// sendBufferSize bounds how far a subscriber may fall behind before it is
// dropped. Overlay traffic is light; a full buffer means a dead or stalled
// connection, not a burst.
const sendBufferSize = 32

type client struct {
	conn ports.Conn
	send chan []byte
	done chan struct{}
}

// Hub implements ports.Broadcaster. Every event produced by the donation
// pipeline goes through Publish, which batches the events of one call into a
// single newline-separated frame so subscribers receive them atomically and
// in order.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	log     *zap.Logger
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     logger.Named("hub"),
	}
}

// Attach registers a connection and starts its write loop.
func (h *Hub) Attach(conn ports.Conn) string {
	id := uuid.NewString()
	cl := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[id] = cl
	h.mu.Unlock()

	go h.writeLoop(id, cl)

	h.log.Info("Client attached", zap.String("subscriber_id", id))
	return id
}

// Detach unregisters a connection and closes it. Safe to call more than once
// and from any goroutine.
func (h *Hub) Detach(id string) {
	h.mu.Lock()
	cl, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if !ok {
		return
	}

	close(cl.done)
	cl.conn.Close()
	h.log.Info("Client detached", zap.String("subscriber_id", id))
}

// Publish encodes the events into one frame and enqueues it for every
// subscriber. A subscriber whose buffer is full is dropped rather than
// allowed to stall the broadcast.
func (h *Hub) Publish(evs ...events.Envelope) {
	if len(evs) == 0 {
		return
	}

	frame, err := events.EncodeFrame(evs...)
	if err != nil {
		h.log.Error("Failed to encode frame", zap.Error(err))
		return
	}

	h.mu.RLock()
	stale := make([]string, 0)
	for id, cl := range h.clients {
		select {
		case cl.send <- frame:
		default:
			stale = append(stale, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range stale {
		h.log.Warn("Dropping slow subscriber", zap.String("subscriber_id", id))
		h.Detach(id)
	}
}

// ClientCount reports the number of attached connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close detaches every subscriber, used on server shutdown.
func (h *Hub) Close() {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.Detach(id)
	}
}

func (h *Hub) writeLoop(id string, cl *client) {
	for {
		select {
		case <-cl.done:
			return
		case frame := <-cl.send:
			if err := cl.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.log.Debug("Write failed, detaching", zap.String("subscriber_id", id), zap.Error(err))
				h.Detach(id)
				return
			}
		}
	}
}
