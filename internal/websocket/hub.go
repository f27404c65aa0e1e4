package websocket

import (
	"encoding/json"
	"sync"

	"fsnb-matcher-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Hub fans row-mutation notices out to every tab watching a review session,
// so a selection made in one tab shows up in the others. Delivery is
// best-effort; the authoritative row state always lives in Postgres.
type Hub struct {
	// Registered clients map: SessionID -> list of clients (multi-tab)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("hub", "client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()
		}
	}
}

// NotifySession pushes an event to every tab attached to one session.
func (h *Hub) NotifySession(sessionID uuid.UUID, eventType string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := h.clients[sessionID]
	h.mu.RUnlock()

	var stale []*Client
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			stale = append(stale, client)
		}
	}
	if len(stale) == 0 {
		return
	}

	// A full buffer means the tab stopped reading; drop it here so its
	// later unregister from readPump finds nothing to close.
	h.mu.Lock()
	for _, client := range stale {
		h.removeLocked(client)
	}
	h.mu.Unlock()
	h.logger.Warn("hub", "dropped unresponsive clients", map[string]interface{}{
		"session_id": sessionID,
		"count":      len(stale),
	})
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
	}
}
