package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches a websocket connection to the hub for one review session.
func ServeWs(hub *Hub, conn *websocket.Conn, sessionID uuid.UUID) {
	client := &Client{
		Hub:       hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		SessionID: sessionID,
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
