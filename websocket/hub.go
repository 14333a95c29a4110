package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types pushed over WebSocket
const (
	NotificationTypeCommissionPending = "commission_pending"
	NotificationTypeCommissionStatus  = "commission_status"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected WebSocket client. writeMu serializes writes:
// gorilla connections allow only one concurrent writer, and notifications for
// one user can fan out from several goroutines at once.
type Client struct {
	UserID  primitive.ObjectID
	Conn    *websocket.Conn
	writeMu sync.Mutex
}

// WriteJSON sends one message on the connection, holding the write lock.
func (c *Client) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

// Hub maintains the set of active clients keyed by user id
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.WriteJSON(notification)
}

// NotifyPendingCommission tells a manager a new commission record awaits review
func (h *Hub) NotifyPendingCommission(managerID primitive.ObjectID, recordData interface{}) error {
	notification := Notification{
		Type:    NotificationTypeCommissionPending,
		Message: "New commission record awaiting approval",
		Data:    recordData,
	}

	return h.SendToUser(managerID, notification)
}

// NotifyCommissionStatus tells an executive their record changed status
func (h *Hub) NotifyCommissionStatus(executiveID primitive.ObjectID, recordData interface{}) error {
	notification := Notification{
		Type:    NotificationTypeCommissionStatus,
		Message: "Your commission record status has been updated",
		Data:    recordData,
	}

	return h.SendToUser(executiveID, notification)
}
