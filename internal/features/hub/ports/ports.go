package ports

import (
	events "alertcast/internal/features/events/domain"
)

// Conn is the minimal websocket surface the hub needs from a connection.
// Both the server-side upgrade library and test fakes satisfy it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Broadcaster defines the primary port for fanning events out to every
// connected overlay and admin page.
type Broadcaster interface {
	// Attach registers a connection and returns its subscriber id.
	Attach(conn Conn) string
	// Detach unregisters a connection and closes it.
	Detach(id string)
	// Publish encodes the given events into one frame and fans it out.
	Publish(evs ...events.Envelope)
	// ClientCount reports the number of attached connections.
	ClientCount() int
}
