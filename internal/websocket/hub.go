package websocket

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Entities named in change notifications.
const (
	EntityCategory     = "category"
	EntityItem         = "item"
	EntityPurchaseList = "purchase_list"
	EntityPurchaseItem = "purchase_item"
	EntityHistory      = "purchase_history"
	EntityTemplate     = "template"
)

// Actions named in change notifications.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionCompleted = "completed"
	ActionCleared   = "cleared"
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grocer_ws_clients",
		Help: "Number of connected websocket clients.",
	})
	droppedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grocer_ws_dropped_messages_total",
		Help: "Change notifications dropped because a client buffer was full.",
	})
)

// Message tells clients that an entity changed so they can re-fetch it.
type Message struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     string         `json:"id,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// NewMessage builds a Message whose Type is "<entity>_<action>".
func NewMessage(entity, action, id string, extra map[string]any) Message {
	return Message{
		Type:   entity + "_" + action,
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	}
}

// Hub fans change notifications out to every connected client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger.With("component", "websocket"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	connectedClients.Set(float64(len(h.clients)))
	h.mu.Unlock()
}

// Unregister removes the client and closes its send channel. Calling it twice
// is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	connectedClients.Set(float64(len(h.clients)))
	h.mu.Unlock()
}

// Broadcast never blocks: clients whose buffer is full miss the message.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			droppedMessages.Inc()
			h.logger.Warn("client buffer full, dropping message", "type", msg.Type)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	connectedClients.Set(0)
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
