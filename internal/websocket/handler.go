package websocket

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers a chat session, greets it and blocks until the peer
// disconnects.
func ServeWs(ctx context.Context, hub *Hub, c *websocket.Conn, runner TurnRunner, userID, projectID uuid.UUID) {
	client := NewClient(hub, runner, userID, projectID)
	client.Conn = c
	if !hub.Register(client) {
		c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		return
	}

	client.send(outboundFrame{Type: FrameConnected})

	go client.writePump()
	client.readPump(ctx)
}

// NewClient builds a session without a connection; ServeWs attaches one.
func NewClient(hub *Hub, runner TurnRunner, userID, projectID uuid.UUID) *Client {
	return &Client{Hub: hub, Runner: runner, UserID: userID, ProjectID: projectID, Send: make(chan []byte, 256)}
}

// Register adds a session to its project. It reports false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}
