package handler

import (
	"alertcast/internal/features/hub/ports"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// HubHandler upgrades /ws requests and hands the connection to the hub.
type HubHandler struct {
	hub ports.Broadcaster
}

// NewHubHandler creates a new HubHandler.
func NewHubHandler(hub ports.Broadcaster) *HubHandler {
	return &HubHandler{
		hub: hub,
	}
}

// Upgrade gates the route to websocket upgrade requests.
func (h *HubHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve returns the websocket handler for GET /ws. The read loop exists only
// to detect disconnects; subscribers never send application data.
func (h *HubHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		id := h.hub.Attach(conn)
		defer h.hub.Detach(id)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
