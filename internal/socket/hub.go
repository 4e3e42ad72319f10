// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"sync"
	"time"

	"lifelink-api-server/internal/models"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// writeWait bounds a single frame write to a peer.
	writeWait = 10 * time.Second
	// sendBuffer is how many frames may queue for one connection before the
	// peer is considered stalled and dropped.
	sendBuffer = 16
)

// Conn is the part of *websocket.Conn the hub uses.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// client owns one connection. Only its writer goroutine writes to conn.
type client struct {
	conn Conn
	send chan []byte
}

// Hub keeps the live WebSocket connections, keyed by user id.
// A user may have several tabs open, so each id maps to a set.
// mu guards the map only; no network I/O happens while it is held.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[Conn]*client
	log     *logrus.Entry
}

func NewHub(log *logrus.Entry) *Hub {
	return &Hub{
		clients: make(map[string]map[Conn]*client),
		log:     log,
	}
}

// Register adds a connection for userID and starts its writer.
func (h *Hub) Register(userID string, conn Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[Conn]*client)
	}
	if _, ok := h.clients[userID][conn]; ok {
		h.mu.Unlock()
		return
	}
	h.clients[userID][conn] = c
	h.mu.Unlock()

	go h.writePump(userID, c)
	h.log.WithField("user", userID).Debug("WebSocket client registered")
}

// Unregister removes one connection of userID.
func (h *Hub) Unregister(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[userID][conn]
	if !ok {
		return
	}
	h.remove(userID, c)
	h.log.WithField("user", userID).Debug("WebSocket client unregistered")
}

// remove must be called with mu held.
func (h *Hub) remove(userID string, c *client) {
	conns := h.clients[userID]
	if conns[c.conn] != c {
		return
	}
	delete(conns, c.conn)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
}

// Connected reports how many connections userID has open.
func (h *Hub) Connected(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// Send queues message for every connection of userID and returns without
// waiting for the peers. An offline user is not an error; a connection whose
// queue is full is dropped.
func (h *Hub) Send(userID string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.clients[userID] {
		select {
		case c.send <- message:
		default:
			h.log.WithField("user", userID).Warn("Dropping stalled WebSocket client")
			h.remove(userID, c)
		}
	}
}

func (h *Hub) writePump(userID string, c *client) {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.WithError(err).WithField("user", userID).Warn("Dropping WebSocket client after failed write")
			h.mu.Lock()
			h.remove(userID, c)
			h.mu.Unlock()
			return
		}
	}
}

// Notify pushes a stored notification to its owner.
func (h *Hub) Notify(n models.Notification) {
	payload, err := json.Marshal(map[string]interface{}{
		"event":        "notification",
		"notification": n,
	})
	if err != nil {
		h.log.WithError(err).Error("Failed to encode notification")
		return
	}
	h.Send(n.UserID.Hex(), payload)
}
