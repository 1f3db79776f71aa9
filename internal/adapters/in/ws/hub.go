// Package ws streams kitchen events to dashboard subscribers over WebSocket.
package ws

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

// Gauge tracks the number of connected subscribers.
type Gauge interface {
	Inc()
	Dec()
}

type noopGauge struct{}

func (noopGauge) Inc() {}
func (noopGauge) Dec() {}

type client struct {
	kitchenID kernel.UUID
	conn      *websocket.Conn
	send      chan []byte
}

// Hub fans outbox messages out to the subscribers of each kitchen. Slow
// subscribers lose messages instead of blocking the relay.
type Hub struct {
	mu       sync.RWMutex
	clients  map[kernel.UUID]map[*client]struct{}
	upgrader websocket.Upgrader
	gauge    Gauge
	log      *slog.Logger
}

// NewHub builds a hub. gauge may be nil.
func NewHub(log *slog.Logger, gauge Gauge) *Hub {
	if gauge == nil {
		gauge = noopGauge{}
	}
	return &Hub{
		clients: make(map[kernel.UUID]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		gauge: gauge,
		log:   log.With("component", "ws_hub"),
	}
}

var _ ports.EventBroadcaster = (*Hub)(nil)

// Serve upgrades the request and streams kitchenID's events until the peer
// goes away. Callers authorize before calling it.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, kitchenID kernel.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{kitchenID: kitchenID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	go h.writePump(c)
	h.readPump(c)
	return nil
}

// Broadcast queues message for every subscriber of kitchenID.
func (h *Hub) Broadcast(kitchenID kernel.UUID, message ports.OutboxMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[kitchenID] {
		select {
		case c.send <- message.Payload:
		default:
			h.log.Warn("subscriber buffer full, dropping event",
				"kitchen_id", kitchenID.String(), "event_id", message.ID.String())
		}
	}
}

// Subscribers returns the number of connections for kitchenID.
func (h *Hub) Subscribers(kitchenID kernel.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[kitchenID])
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for kitchenID, set := range h.clients {
		for c := range set {
			close(c.send)
			h.gauge.Dec()
		}
		delete(h.clients, kitchenID)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.kitchenID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.kitchenID] = set
	}
	set[c] = struct{}{}
	h.gauge.Inc()
	h.log.Debug("subscriber connected", "kitchen_id", c.kitchenID.String())
}

// unregister removes c once; the caller that removes it closes its queue.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.kitchenID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.kitchenID)
	}
	close(c.send)
	h.gauge.Dec()
	h.log.Debug("subscriber disconnected", "kitchen_id", c.kitchenID.String())
}

// readPump discards client messages and keeps the read deadline alive.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("subscriber read failed", "kitchen_id", c.kitchenID.String(), "err", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
