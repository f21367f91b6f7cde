package ws

import (
	"context"
	"sync"
	"time"

	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

// OutgoingMessage is what clients receive for every job event.
type OutgoingMessage struct {
	Type       events.EventType `json:"type"`
	JobID      string           `json:"job_id,omitempty"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Payload    map[string]any   `json:"payload,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type delivery struct {
	event events.Event
}

// WebSocketManager tracks live connections per user and routes job events
// to recipients and audience roles. A user may hold several connections.
type WebSocketManager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan delivery
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan delivery, 64),
	}
}

func (manager *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			manager.closeAll()
			logger.WorkerLog("ws_manager", "stopped", nil)
			return

		case client := <-manager.register:
			manager.mu.Lock()
			if manager.clients[client.UserID] == nil {
				manager.clients[client.UserID] = make(map[*Client]struct{})
			}
			manager.clients[client.UserID][client] = struct{}{}
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Debug("WebSocket client registered", "user_id", client.UserID, "users_online", total)

		case client := <-manager.unregister:
			manager.remove(client)

		case d := <-manager.broadcast:
			manager.deliver(d.event)
		}
	}
}

func (manager *WebSocketManager) Name() string { return "ws_manager" }

// Handle queues an event for delivery; it implements events.Subscriber.
func (manager *WebSocketManager) Handle(ctx context.Context, event events.Event) error {
	select {
	case manager.broadcast <- delivery{event: event}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (manager *WebSocketManager) deliver(event events.Event) {
	msg := OutgoingMessage{
		Type:       event.Type,
		JobID:      event.JobID,
		Title:      event.Title,
		Message:    event.Message,
		Payload:    event.Payload,
		OccurredAt: event.OccurredAt,
	}

	recipients := make(map[string]bool, len(event.Recipients))
	for _, id := range event.Recipients {
		recipients[id] = true
	}
	audience := make(map[models.UserRole]bool, len(event.Audience))
	for _, role := range event.Audience {
		audience[role] = true
	}

	var slow []*Client
	manager.mu.RLock()
	for userID, conns := range manager.clients {
		for client := range conns {
			if !recipients[userID] && !audience[client.Role] {
				continue
			}
			select {
			case client.Send <- msg:
			default:
				slow = append(slow, client)
			}
		}
	}
	manager.mu.RUnlock()

	for _, client := range slow {
		logger.Warn("WebSocket client disconnected due to full send channel", "user_id", client.UserID)
		manager.remove(client)
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	conns, ok := manager.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.Send)
	if len(conns) == 0 {
		delete(manager.clients, client.UserID)
	}
	logger.Debug("WebSocket client unregistered", "user_id", client.UserID, "users_online", len(manager.clients))
}

func (manager *WebSocketManager) closeAll() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	for userID, conns := range manager.clients {
		for client := range conns {
			close(client.Send)
		}
		delete(manager.clients, userID)
	}
}

func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	total := 0
	for _, conns := range manager.clients {
		total += len(conns)
	}
	return total
}

func (manager *WebSocketManager) IsClientConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	_, exists := manager.clients[userID]
	return exists
}
