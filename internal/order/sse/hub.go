package sse

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// EventOrderUpdate 订单变更事件
const EventOrderUpdate = "order_update"

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID     string
	Role   string
	Events chan Event
}

// Hub manages all SSE client connections
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// NewHub creates a new SSE Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("sse client registered", zap.String("id", client.ID), zap.Int("total", len(h.clients)))
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Debug("sse client unregistered", zap.String("id", clientID), zap.Int("total", len(h.clients)))
	}
}

// Count 当前连接数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an event to all connected clients; slow clients miss it
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("sse client buffer full, skipping event", zap.String("id", client.ID))
		}
	}
}

// OrderUpdate 订单变更负载，不含敏感字段
type OrderUpdate struct {
	OrderID string `json:"order_id"`
	OrderNo string `json:"order_no"`
	Action  string `json:"action"`
	Status  string `json:"status,omitempty"`
}

// PublishOrderUpdate nil hub 时不做任何事
func (h *Hub) PublishOrderUpdate(u OrderUpdate) {
	if h == nil {
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	h.Broadcast(Event{EventType: EventOrderUpdate, Data: string(data)})
}
