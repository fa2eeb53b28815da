// internal/realtime/hub.go

// Package realtime pushes STATUS_UPDATE events to connected clients
// over a websocket. Delivery is best-effort: slow or gone clients are
// dropped and the store stays the source of truth, clients refetch on
// focus.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const EventStatusUpdate = "STATUS_UPDATE"

// redisChannel carries events between instances when Redis is
// configured.
const redisChannel = "aet:status_updates"

type Event struct {
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData targets either one state of a license (State set) or the
// whole license (State empty, License carrying the updated record).
type EventData struct {
	LicenseID uint        `json:"license_id"`
	State     string      `json:"state,omitempty"`
	Status    string      `json:"status"`
	License   interface{} `json:"license,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin is handled by the CORS layer; the upgrade itself
	// accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every connected client. With a Redis client
// it publishes through a pub/sub channel so all instances broadcast;
// without one it is process-local.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
	rdb     *redis.Client
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		rdb:     rdb,
	}
}

// Run blocks consuming the Redis subscription until ctx is canceled.
// Without Redis there is nothing to pump and Run returns immediately.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}

	sub := h.rdb.Subscribe(ctx, redisChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.fanOut([]byte(msg.Payload))
		}
	}
}

// Publish delivers an event to all subscribers. With Redis the event
// goes through the channel and comes back via Run on every instance,
// including this one.
func (h *Hub) Publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal status update event")
		return
	}

	if h.rdb != nil {
		if err := h.rdb.Publish(ctx, redisChannel, payload).Err(); err != nil {
			logrus.WithError(err).Warn("Redis publish failed, falling back to local broadcast")
			h.fanOut(payload)
		}
		return
	}

	h.fanOut(payload)
}

func (h *Hub) fanOut(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Client can't keep up; it will reconnect and refetch.
			go h.drop(c)
		}
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// ClientCount reports connected clients on this instance.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and keeps the connection until the
// client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.add(c)

	go h.writePump(c)
	go h.readPump(c)
}

// readPump discards inbound frames; the channel is one-way. Its job is
// noticing the close and keeping pong deadlines fresh.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
