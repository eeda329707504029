package socket

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type client struct {
	conn *websocket.Conn
	role string
}

// Hub tracks all connected dashboard clients, keyed by employeeID, so
// lifecycle events can be pushed to a single user or fanned out to a role.
type Hub struct {
	clients map[string]*client
	mu      sync.RWMutex
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

// Register adds a new client to the hub.
func (h *Hub) Register(employeeID, role string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[employeeID] = &client{conn: conn, role: role}
	h.log.Debug("websocket client registered", zap.String("employeeID", employeeID), zap.String("role", role))
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(employeeID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[employeeID]; ok {
		delete(h.clients, employeeID)
		h.log.Debug("websocket client unregistered", zap.String("employeeID", employeeID))
	}
}

// Send delivers a message to one client. An offline client is not an error.
func (h *Hub) Send(employeeID string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[employeeID]
	if !ok {
		return nil
	}
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// SendToRole delivers a message to every connected client with the given
// role. Delivery is best effort.
func (h *Hub) SendToRole(role string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for employeeID, c := range h.clients {
		if c.role != role {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Warn("failed to push message", zap.String("employeeID", employeeID), zap.Error(err))
		}
	}
}
