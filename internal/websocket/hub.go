// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"
	"time"

	"insurica-service/internal/pkg/jwt"
	"insurica-service/internal/pkg/session"

	"go.uber.org/zap"
)

// Event is the wire envelope for everything pushed to dashboard clients.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Event types.
const (
	EventConnected         = "connected"
	EventNotification      = "notification"
	EventNotificationCount = "notification_count"
	EventLeadCreated       = "lead_created"
	EventRenewalRun        = "renewal_run"
)

func NewEvent(eventType string, data interface{}) *Event {
	return &Event{Type: eventType, Data: data, Timestamp: time.Now()}
}

type broadcastRequest struct {
	agentIDs []int64 // nil means all connected agents
	event    *Event
}

// Hub tracks connected dashboard clients per agent and fans events out to
// them.
type Hub struct {
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastRequest

	jwtVerifier *jwt.Verifier
	sessions    *session.Manager
	logger      *zap.Logger
}

func NewHub(jwtVerifier *jwt.Verifier, sessions *session.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[int64]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *broadcastRequest, 256),
		jwtVerifier: jwtVerifier,
		sessions:    sessions,
		logger:      logger,
	}
}

// Authenticate validates the access token and its backing session, returning
// the agent ID the connection belongs to.
func (h *Hub) Authenticate(ctx context.Context, token string) (int64, string, error) {
	claims, err := h.jwtVerifier.VerifyAccessToken(token)
	if err != nil {
		return 0, "", err
	}

	if _, err := h.sessions.GetSession(ctx, claims.AgentID, claims.ID); err != nil {
		return 0, "", err
	}

	return claims.AgentID, claims.ID, nil
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.broadcast:
			h.dispatch(req)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.agentID] == nil {
		h.clients[client.agentID] = make(map[*Client]bool)
	}
	h.clients[client.agentID][client] = true

	h.logger.Info("websocket client connected",
		zap.Int64("agent_id", client.agentID),
		zap.Int("total", h.totalLocked()),
	)

	client.Send(NewEvent(EventConnected, map[string]interface{}{
		"agent_id":   client.agentID,
		"session_id": client.sessionID,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.agentID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	delete(clients, client)
	client.Close()
	if len(clients) == 0 {
		delete(h.clients, client.agentID)
	}

	h.logger.Info("websocket client disconnected",
		zap.Int64("agent_id", client.agentID),
		zap.Int("total", h.totalLocked()),
	)
}

func (h *Hub) dispatch(req *broadcastRequest) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if req.agentIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				client.Send(req.event)
			}
		}
		return
	}

	for _, agentID := range req.agentIDs {
		for client := range h.clients[agentID] {
			client.Send(req.event)
		}
	}
}

// PushToAgent delivers an event to every connection of one agent.
func (h *Hub) PushToAgent(agentID int64, event *Event) {
	h.broadcast <- &broadcastRequest{agentIDs: []int64{agentID}, event: event}
}

// PushToAll delivers an event to every connected agent.
func (h *Hub) PushToAll(event *Event) {
	h.broadcast <- &broadcastRequest{agentIDs: nil, event: event}
}

// ConnectedClients reports how many connections an agent has.
func (h *Hub) ConnectedClients(agentID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[agentID])
}

// TotalClients reports total live connections.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalLocked()
}

func (h *Hub) totalLocked() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
}
