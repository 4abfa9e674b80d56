// Package push is the live event channel: a websocket hub keyed by user
// ID with a separate admin broadcast set. Delivery is best-effort with no
// acknowledgment; a dead connection is dropped on first write failure.
package push

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"
)

type event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// wsConn is the surface of a websocket connection the hub touches.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// client owns one connection. The websocket library allows at most one
// concurrent writer per connection, so every write goes through mu.
type client struct {
	userID uint
	admin  bool

	mu   sync.Mutex
	conn wsConn
}

func (c *client) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

type Hub struct {
	mu     sync.RWMutex
	users  map[uint]map[*client]struct{}
	admins map[*client]struct{}
	log    zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		users:  make(map[uint]map[*client]struct{}),
		admins: make(map[*client]struct{}),
		log:    log,
	}
}

// Attach registers a connection and blocks reading it until close, so it
// is meant to run inside the websocket handler goroutine.
func (h *Hub) Attach(userID uint, isAdmin bool, conn *websocket.Conn) {
	h.attach(userID, isAdmin, conn)
}

func (h *Hub) attach(userID uint, isAdmin bool, conn wsConn) {
	c := &client{userID: userID, admin: isAdmin, conn: conn}

	h.mu.Lock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[*client]struct{})
	}
	h.users[userID][c] = struct{}{}
	if isAdmin {
		h.admins[c] = struct{}{}
	}
	h.mu.Unlock()

	defer h.detach(c)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) detach(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns := h.users[c.userID]; conns != nil {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.users, c.userID)
		}
	}
	delete(h.admins, c)
	_ = c.conn.Close()
}

func (h *Hub) PushToUser(userID uint, eventName string, payload any) error {
	msg, err := json.Marshal(event{Event: eventName, Payload: payload})
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.users[userID]))
	for c := range h.users[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return fmt.Errorf("no live connection for user %d", userID)
	}

	for _, c := range clients {
		if err := c.write(msg); err != nil {
			h.log.Debug().Err(err).Uint("user_id", userID).Msg("dropping dead push connection")
			h.detach(c)
		}
	}
	return nil
}

func (h *Hub) PushToAdmins(eventName string, payload any) error {
	msg, err := json.Marshal(event{Event: eventName, Payload: payload})
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.admins))
	for c := range h.admins {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(msg); err != nil {
			h.log.Debug().Err(err).Msg("dropping dead admin push connection")
			h.detach(c)
		}
	}
	return nil
}
